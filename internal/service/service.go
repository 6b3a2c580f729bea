package service

import (
	"context"

	"shop-api/internal/models"

	"github.com/shopspring/decimal"
)

// Store is the persistence surface the services depend on. Implemented by
// the Postgres store and by the in-memory store used in tests. Every
// multi-step mutation method is atomic: either all of its writes are visible
// or none are.
type Store interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategoryByID(ctx context.Context, id int64) (*models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) error
	UpdateCategory(ctx context.Context, category *models.Category) error
	DeleteCategory(ctx context.Context, id int64) error
	CategoryExists(ctx context.Context, id int64) (bool, error)

	ListProducts(ctx context.Context) ([]models.Product, error)
	ListProductsByCategory(ctx context.Context, categoryID int64) ([]models.Product, error)
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	GetProductsByIDs(ctx context.Context, ids []int64) ([]models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id int64) error

	ListCustomers(ctx context.Context) ([]models.Customer, error)
	GetCustomerByID(ctx context.Context, id int64) (*models.Customer, error)
	CreateCustomer(ctx context.Context, customer *models.Customer) error
	UpdateCustomer(ctx context.Context, customer *models.Customer) error
	DeleteCustomer(ctx context.Context, id int64) error
	CustomerExists(ctx context.Context, id int64) (bool, error)

	ListOrders(ctx context.Context) ([]models.Order, error)
	GetOrderByID(ctx context.Context, id int64) (*models.Order, error)
	CreateOrderWithItems(ctx context.Context, order *models.Order, items []models.OrderItem) error
	ReplaceOrderItems(ctx context.Context, order *models.Order, items []models.OrderItem) error
	DeleteOrder(ctx context.Context, id int64) error

	ListOrderItems(ctx context.Context, orderID int64) ([]models.OrderItem, error)
	GetOrderItem(ctx context.Context, orderID, itemID int64) (*models.OrderItem, error)
	InsertOrderItem(ctx context.Context, item *models.OrderItem, orderVersion int64, newTotal decimal.Decimal) error
	UpdateOrderItem(ctx context.Context, item *models.OrderItem, orderVersion int64, newTotal decimal.Decimal) error
	DeleteOrderItem(ctx context.Context, orderID, itemID, orderVersion int64, newTotal decimal.Decimal) error
}

// EventPublisher publishes order lifecycle events. Publishing is best-effort;
// failures never fail the request.
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, event *models.OrderCreatedEvent) error
	PublishOrderUpdated(ctx context.Context, event *models.OrderUpdatedEvent) error
	PublishOrderDeleted(ctx context.Context, event *models.OrderDeletedEvent) error
}
