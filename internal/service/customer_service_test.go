package service

import (
	"context"
	"testing"

	"shop-api/internal/models"
	"shop-api/internal/store/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerLifecycle(t *testing.T) {
	st := memory.NewStore()
	svc := NewCustomerService(st)
	ctx := context.Background()

	phone := "+1 555 0100"
	created, err := svc.CreateCustomer(ctx, &CustomerRequest{
		FullName: "Ada Lovelace",
		Email:    "a@b.com",
		Phone:    &phone,
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	require.NoError(t, svc.UpdateCustomer(ctx, created.ID, &CustomerRequest{
		FullName: "Ada King",
		Email:    "a@b.com",
	}))

	got, err := svc.GetCustomer(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada King", got.FullName)
	assert.Nil(t, got.Phone)

	require.NoError(t, svc.DeleteCustomer(ctx, created.ID))

	_, err = svc.GetCustomer(ctx, created.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCreateCustomerDuplicateEmail(t *testing.T) {
	st := memory.NewStore()
	svc := NewCustomerService(st)
	ctx := context.Background()

	_, err := svc.CreateCustomer(ctx, &CustomerRequest{FullName: "Ada Lovelace", Email: "a@b.com"})
	require.NoError(t, err)

	_, err = svc.CreateCustomer(ctx, &CustomerRequest{FullName: "Grace Hopper", Email: "a@b.com"})
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestDeleteCustomerWithOrders(t *testing.T) {
	st := memory.NewStore()
	customers := NewCustomerService(st)
	orders := NewOrderService(st, nil)
	ctx := context.Background()

	customer, product := seedCatalog(t, st)

	_, err := orders.CreateOrder(ctx, &OrderRequest{
		CustomerID: customer.ID,
		Items:      []OrderItemRequest{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	err = customers.DeleteCustomer(ctx, customer.ID)
	assert.ErrorIs(t, err, models.ErrConflict)
}
