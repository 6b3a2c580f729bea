package memory

import (
	"context"
	"testing"

	"shop-api/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedOrder(t *testing.T, st *Store) *models.Order {
	t.Helper()
	ctx := context.Background()

	category := &models.Category{Name: "Books"}
	require.NoError(t, st.CreateCategory(ctx, category))

	product := &models.Product{Name: "Go Guide", Price: decimal.RequireFromString("20.00"), CategoryID: category.ID}
	require.NoError(t, st.CreateProduct(ctx, product))

	customer := &models.Customer{FullName: "Ada Lovelace", Email: "a@b.com"}
	require.NoError(t, st.CreateCustomer(ctx, customer))

	order := &models.Order{CustomerID: customer.ID, TotalPrice: decimal.RequireFromString("20.00")}
	items := []models.OrderItem{{ProductID: product.ID, Quantity: 1, Price: product.Price}}
	require.NoError(t, st.CreateOrderWithItems(ctx, order, items))
	return order
}

func TestStaleVersionRejected(t *testing.T) {
	st := NewStore()
	ctx := context.Background()

	order := seedOrder(t, st)

	items, err := st.ListOrderItems(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)

	// first writer wins and bumps the version
	err = st.DeleteOrderItem(ctx, order.ID, items[0].ID, order.Version, decimal.Zero)
	require.NoError(t, err)

	// second writer still holds version 0
	extra := &models.OrderItem{OrderID: order.ID, ProductID: items[0].ProductID, Quantity: 1, Price: items[0].Price}
	err = st.InsertOrderItem(ctx, extra, order.Version, decimal.RequireFromString("40.00"))
	assert.ErrorIs(t, err, models.ErrConflict)

	current, err := st.GetOrderByID(ctx, order.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, current.Version)
	assert.True(t, current.TotalPrice.Equal(decimal.Zero), "losing write must not change the total")
}

func TestReplaceOrderItemsBumpsVersion(t *testing.T) {
	st := NewStore()
	ctx := context.Background()

	order := seedOrder(t, st)

	order.TotalPrice = decimal.RequireFromString("40.00")
	replacement := []models.OrderItem{{ProductID: 2, Quantity: 2, Price: decimal.RequireFromString("20.00")}}
	require.NoError(t, st.ReplaceOrderItems(ctx, order, replacement))

	// replaying the same replacement with the old version fails
	err := st.ReplaceOrderItems(ctx, order, replacement)
	assert.ErrorIs(t, err, models.ErrConflict)

	current, err := st.GetOrderByID(ctx, order.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, current.Version)
}

func TestOrderItemScopedToOrder(t *testing.T) {
	st := NewStore()
	ctx := context.Background()

	order := seedOrder(t, st)
	items, err := st.ListOrderItems(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)

	_, err = st.GetOrderItem(ctx, order.ID+1, items[0].ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}
