package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shop-api/internal/models"
	"shop-api/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderService owns the order aggregate: the total-price invariant
// (TotalPrice == Σ(item.Price * item.Quantity)) and the price-snapshot rule
// (item prices are fixed from the product price at item create/update time).
type OrderService struct {
	store  Store
	events EventPublisher
	logger *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(store Store, events EventPublisher) *OrderService {
	return &OrderService{
		store:  store,
		events: events,
		logger: util.GetLogger(),
	}
}

// OrderRequest represents a request to create or replace an order
type OrderRequest struct {
	CustomerID int64              `json:"customer_id" binding:"required,gt=0"`
	Items      []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// OrderItemRequest represents an item in an order
type OrderItemRequest struct {
	ProductID int64 `json:"product_id" binding:"required,gt=0"`
	Quantity  int   `json:"quantity" binding:"required,min=1"`
}

// OrderResponse is an order with its items
type OrderResponse struct {
	models.Order
	Items []models.OrderItem `json:"items"`
}

// ListOrders returns all orders with their items
func (s *OrderService) ListOrders(ctx context.Context) ([]OrderResponse, error) {
	orders, err := s.store.ListOrders(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]OrderResponse, 0, len(orders))
	for _, order := range orders {
		items, err := s.store.ListOrderItems(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		resp = append(resp, OrderResponse{Order: order, Items: items})
	}
	return resp, nil
}

// GetOrder returns one order with its items
func (s *OrderService) GetOrder(ctx context.Context, id int64) (*OrderResponse, error) {
	order, err := s.store.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}

	items, err := s.store.ListOrderItems(ctx, id)
	if err != nil {
		return nil, err
	}

	return &OrderResponse{Order: *order, Items: items}, nil
}

// CreateOrder prices every item from the current product price, computes the
// total and persists the order with its items atomically.
func (s *OrderService) CreateOrder(ctx context.Context, req *OrderRequest) (*OrderResponse, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.CreateOrder")
	defer span.End()

	if err := s.resolveCustomer(ctx, req.CustomerID); err != nil {
		util.OrdersFailedTotal.WithLabelValues("invalid_customer").Inc()
		return nil, err
	}

	items, total, err := s.priceItems(ctx, req.Items)
	if err != nil {
		util.OrdersFailedTotal.WithLabelValues("invalid_items").Inc()
		return nil, err
	}

	order := &models.Order{
		CustomerID: req.CustomerID,
		TotalPrice: total,
	}

	if err := s.store.CreateOrderWithItems(ctx, order, items); err != nil {
		util.OrdersFailedTotal.WithLabelValues("db_error").Inc()
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	util.OrdersCreatedTotal.Inc()
	s.logger.Info("Order created",
		zap.Int64("order_id", order.ID),
		zap.String("total_price", order.TotalPrice.String()))

	s.publishOrderCreated(ctx, order, items)

	return &OrderResponse{Order: *order, Items: items}, nil
}

// UpdateOrder is a full replacement: the prior item set is discarded and the
// new one is re-priced from current product prices.
func (s *OrderService) UpdateOrder(ctx context.Context, orderID int64, req *OrderRequest) error {
	ctx, span := util.StartSpan(ctx, "OrderService.UpdateOrder")
	defer span.End()

	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return err
	}

	if err := s.resolveCustomer(ctx, req.CustomerID); err != nil {
		return err
	}

	items, total, err := s.priceItems(ctx, req.Items)
	if err != nil {
		return err
	}

	order.CustomerID = req.CustomerID
	order.TotalPrice = total

	if err := s.store.ReplaceOrderItems(ctx, order, items); err != nil {
		return err
	}

	s.logger.Info("Order replaced",
		zap.Int64("order_id", orderID),
		zap.String("total_price", total.String()))

	s.publishOrderUpdated(ctx, orderID, req.CustomerID, order)
	return nil
}

// DeleteOrder deletes an order and all its items
func (s *OrderService) DeleteOrder(ctx context.Context, orderID int64) error {
	ctx, span := util.StartSpan(ctx, "OrderService.DeleteOrder")
	defer span.End()

	if err := s.store.DeleteOrder(ctx, orderID); err != nil {
		return err
	}

	util.OrdersDeletedTotal.Inc()
	s.logger.Info("Order deleted", zap.Int64("order_id", orderID))

	if s.events != nil {
		event := &models.OrderDeletedEvent{
			BaseEvent: newBaseEvent(models.EventTypeOrderDeleted),
			OrderID:   orderID,
		}
		if err := s.events.PublishOrderDeleted(ctx, event); err != nil {
			s.logger.Error("Failed to publish OrderDeleted event", zap.Error(err))
		}
	}
	return nil
}

// ListOrderItems returns the items of an order
func (s *OrderService) ListOrderItems(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	return s.store.ListOrderItems(ctx, orderID)
}

// GetOrderItem returns one item scoped to its order
func (s *OrderService) GetOrderItem(ctx context.Context, orderID, itemID int64) (*models.OrderItem, error) {
	return s.store.GetOrderItem(ctx, orderID, itemID)
}

// AddOrderItem appends an item priced from the current product price and
// increments the order total by its contribution. The adjustment and the
// insert commit together; a concurrent writer on the same order surfaces as
// a conflict.
func (s *OrderService) AddOrderItem(ctx context.Context, orderID int64, req *OrderItemRequest) (*models.OrderItem, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.AddOrderItem")
	defer span.End()

	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("order %d: %w", orderID, models.ErrInvalidReference)
		}
		return nil, err
	}

	product, err := s.resolveProduct(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	item := &models.OrderItem{
		OrderID:   orderID,
		ProductID: product.ID,
		Quantity:  req.Quantity,
		Price:     product.Price,
	}

	newTotal := order.TotalPrice.Add(item.Contribution())
	if err := s.store.InsertOrderItem(ctx, item, order.Version, newTotal); err != nil {
		return nil, err
	}
	item.ProductName = product.Name

	util.OrderItemsMutatedTotal.WithLabelValues("add").Inc()
	s.logger.Info("Order item added",
		zap.Int64("order_id", orderID),
		zap.Int64("item_id", item.ID),
		zap.String("total_price", newTotal.String()))

	s.publishOrderUpdated(ctx, orderID, order.CustomerID, &models.Order{TotalPrice: newTotal})
	return item, nil
}

// UpdateOrderItem re-prices the item from the current product price and moves
// the total by the difference between old and new contributions.
func (s *OrderService) UpdateOrderItem(ctx context.Context, orderID, itemID int64, req *OrderItemRequest) error {
	ctx, span := util.StartSpan(ctx, "OrderService.UpdateOrderItem")
	defer span.End()

	item, err := s.store.GetOrderItem(ctx, orderID, itemID)
	if err != nil {
		return err
	}

	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return err
	}

	product, err := s.resolveProduct(ctx, req.ProductID)
	if err != nil {
		return err
	}

	oldContribution := item.Contribution()
	item.ProductID = product.ID
	item.Quantity = req.Quantity
	item.Price = product.Price

	newTotal := order.TotalPrice.Sub(oldContribution).Add(item.Contribution())
	if err := s.store.UpdateOrderItem(ctx, item, order.Version, newTotal); err != nil {
		return err
	}

	util.OrderItemsMutatedTotal.WithLabelValues("update").Inc()
	s.publishOrderUpdated(ctx, orderID, order.CustomerID, &models.Order{TotalPrice: newTotal})
	return nil
}

// DeleteOrderItem removes the item and subtracts its contribution from the
// order total.
func (s *OrderService) DeleteOrderItem(ctx context.Context, orderID, itemID int64) error {
	ctx, span := util.StartSpan(ctx, "OrderService.DeleteOrderItem")
	defer span.End()

	item, err := s.store.GetOrderItem(ctx, orderID, itemID)
	if err != nil {
		return err
	}

	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return err
	}

	newTotal := order.TotalPrice.Sub(item.Contribution())
	if err := s.store.DeleteOrderItem(ctx, orderID, itemID, order.Version, newTotal); err != nil {
		return err
	}

	util.OrderItemsMutatedTotal.WithLabelValues("delete").Inc()
	s.publishOrderUpdated(ctx, orderID, order.CustomerID, &models.Order{TotalPrice: newTotal})
	return nil
}

func (s *OrderService) resolveCustomer(ctx context.Context, customerID int64) error {
	exists, err := s.store.CustomerExists(ctx, customerID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("customer %d: %w", customerID, models.ErrInvalidReference)
	}
	return nil
}

func (s *OrderService) resolveProduct(ctx context.Context, productID int64) (*models.Product, error) {
	product, err := s.store.GetProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("product %d: %w", productID, models.ErrInvalidReference)
		}
		return nil, err
	}
	return product, nil
}

// priceItems resolves every product, snapshots its current price onto the
// item and sums the total.
func (s *OrderService) priceItems(ctx context.Context, reqs []OrderItemRequest) ([]models.OrderItem, decimal.Decimal, error) {
	productIDs := make([]int64, len(reqs))
	for i, r := range reqs {
		productIDs[i] = r.ProductID
	}

	products, err := s.store.GetProductsByIDs(ctx, productIDs)
	if err != nil {
		return nil, decimal.Zero, err
	}

	byID := make(map[int64]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	items := make([]models.OrderItem, 0, len(reqs))
	total := decimal.Zero
	for _, r := range reqs {
		product, ok := byID[r.ProductID]
		if !ok {
			return nil, decimal.Zero, fmt.Errorf("product %d: %w", r.ProductID, models.ErrInvalidReference)
		}

		item := models.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    r.Quantity,
			Price:       product.Price,
		}
		total = total.Add(item.Contribution())
		items = append(items, item)
	}

	return items, total, nil
}

func (s *OrderService) publishOrderCreated(ctx context.Context, order *models.Order, items []models.OrderItem) {
	if s.events == nil {
		return
	}

	eventItems := make([]models.OrderItemData, 0, len(items))
	for _, item := range items {
		eventItems = append(eventItems, models.OrderItemData{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}

	event := &models.OrderCreatedEvent{
		BaseEvent:  newBaseEvent(models.EventTypeOrderCreated),
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		TotalPrice: order.TotalPrice,
		Items:      eventItems,
	}
	if err := s.events.PublishOrderCreated(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderCreated event", zap.Error(err))
	}
}

func (s *OrderService) publishOrderUpdated(ctx context.Context, orderID, customerID int64, order *models.Order) {
	if s.events == nil {
		return
	}

	event := &models.OrderUpdatedEvent{
		BaseEvent:  newBaseEvent(models.EventTypeOrderUpdated),
		OrderID:    orderID,
		CustomerID: customerID,
		TotalPrice: order.TotalPrice,
	}
	if err := s.events.PublishOrderUpdated(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderUpdated event", zap.Error(err))
	}
}

func newBaseEvent(eventType string) models.BaseEvent {
	return models.BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: time.Now(),
	}
}
