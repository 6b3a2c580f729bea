package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event types
const (
	EventTypeOrderCreated = "ORDER_CREATED"
	EventTypeOrderUpdated = "ORDER_UPDATED"
	EventTypeOrderDeleted = "ORDER_DELETED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderCreatedEvent published when an order is created
type OrderCreatedEvent struct {
	BaseEvent
	OrderID    int64           `json:"order_id"`
	CustomerID int64           `json:"customer_id"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Items      []OrderItemData `json:"items"`
}

// OrderUpdatedEvent published when an order or its item set changes
type OrderUpdatedEvent struct {
	BaseEvent
	OrderID    int64           `json:"order_id"`
	CustomerID int64           `json:"customer_id"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// OrderDeletedEvent published when an order is deleted
type OrderDeletedEvent struct {
	BaseEvent
	OrderID int64 `json:"order_id"`
}

// OrderItemData represents item data in events
type OrderItemData struct {
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}
