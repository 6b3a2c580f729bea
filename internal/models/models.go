package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category groups products. A category cannot be deleted while it still
// owns products.
type Category struct {
	ID          int64   `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	Description *string `db:"description" json:"description,omitempty"`
}

// Product belongs to exactly one category.
type Product struct {
	ID          int64           `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	Description *string         `db:"description" json:"description,omitempty"`
	Price       decimal.Decimal `db:"price" json:"price"`
	CategoryID  int64           `db:"category_id" json:"category_id"`
}

// Customer places orders.
type Customer struct {
	ID       int64   `db:"id" json:"id"`
	FullName string  `db:"full_name" json:"full_name"`
	Email    string  `db:"email" json:"email"`
	Phone    *string `db:"phone" json:"phone,omitempty"`
	Address  *string `db:"address" json:"address,omitempty"`
}

// Order carries a denormalized total over its items. Version backs the
// optimistic check on concurrent item-set mutations and is not exposed.
type Order struct {
	ID         int64           `db:"id" json:"id"`
	CustomerID int64           `db:"customer_id" json:"customer_id"`
	OrderDate  time.Time       `db:"order_date" json:"order_date"`
	TotalPrice decimal.Decimal `db:"total_price" json:"total_price"`
	Version    int64           `db:"version" json:"-"`
}

// OrderItem references a product. Price is a snapshot of the product price
// taken when the item was created or last updated; later product price
// changes do not touch it. ProductName is joined in on reads.
type OrderItem struct {
	ID          int64           `db:"id" json:"id"`
	OrderID     int64           `db:"order_id" json:"order_id"`
	ProductID   int64           `db:"product_id" json:"product_id"`
	ProductName string          `db:"product_name" json:"product_name,omitempty"`
	Quantity    int             `db:"quantity" json:"quantity"`
	Price       decimal.Decimal `db:"price" json:"price"`
}

// Contribution is the item's share of the order total.
func (i OrderItem) Contribution() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
