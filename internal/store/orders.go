package store

import (
	"context"
	"fmt"

	"shop-api/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

const orderItemColumns = `oi.id, oi.order_id, oi.product_id, oi.quantity, oi.price, p.name AS product_name`

// ListOrders retrieves all orders
func (s *Store) ListOrders(ctx context.Context) ([]models.Order, error) {
	orders := []models.Order{}
	err := s.db.SelectContext(ctx, &orders, "SELECT * FROM orders ORDER BY id")
	return orders, err
}

// GetOrderByID retrieves an order by ID
func (s *Store) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order, "SELECT * FROM orders WHERE id = $1", id)
	if err != nil {
		return nil, notFound("order", id, err)
	}
	return &order, nil
}

// CreateOrderWithItems persists an order and its items in one transaction.
// Nothing is written if any insert fails.
func (s *Store) CreateOrderWithItems(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO orders (customer_id, total_price)
		VALUES ($1, $2)
		RETURNING id, order_date, version`

	if err := tx.GetContext(ctx, order, query, order.CustomerID, order.TotalPrice); err != nil {
		return mapWriteError(err)
	}

	for i := range items {
		items[i].OrderID = order.ID
		if err := insertItem(ctx, tx, &items[i]); err != nil {
			return mapWriteError(err)
		}
	}

	return tx.Commit()
}

// ReplaceOrderItems discards the order's item set and writes the given one,
// together with the recomputed total, in a single transaction. The order row
// update is version-checked; a concurrent writer surfaces as a conflict.
func (s *Store) ReplaceOrderItems(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := bumpOrder(ctx, tx, order.ID, order.Version, order.CustomerID, order.TotalPrice); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM order_items WHERE order_id = $1", order.ID); err != nil {
		return err
	}

	for i := range items {
		items[i].OrderID = order.ID
		if err := insertItem(ctx, tx, &items[i]); err != nil {
			return mapWriteError(err)
		}
	}

	return tx.Commit()
}

// DeleteOrder deletes an order and cascades to its items
func (s *Store) DeleteOrder(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM order_items WHERE order_id = $1", id); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM orders WHERE id = $1", id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("order %d: %w", id, models.ErrNotFound)
	}

	return tx.Commit()
}

// ListOrderItems retrieves all items for an order with product names joined
func (s *Store) ListOrderItems(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	items := []models.OrderItem{}
	query := fmt.Sprintf(`
		SELECT %s FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = $1
		ORDER BY oi.id`, orderItemColumns)
	err := s.db.SelectContext(ctx, &items, query, orderID)
	return items, err
}

// GetOrderItem retrieves one item scoped to its order
func (s *Store) GetOrderItem(ctx context.Context, orderID, itemID int64) (*models.OrderItem, error) {
	var item models.OrderItem
	query := fmt.Sprintf(`
		SELECT %s FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = $1 AND oi.id = $2`, orderItemColumns)
	err := s.db.GetContext(ctx, &item, query, orderID, itemID)
	if err != nil {
		return nil, notFound("order item", itemID, err)
	}
	return &item, nil
}

// InsertOrderItem appends an item and moves the order total to newTotal in
// one transaction.
func (s *Store) InsertOrderItem(ctx context.Context, item *models.OrderItem, orderVersion int64, newTotal decimal.Decimal) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := insertItem(ctx, tx, item); err != nil {
		return mapWriteError(err)
	}
	if err := bumpOrderTotal(ctx, tx, item.OrderID, orderVersion, newTotal); err != nil {
		return err
	}

	return tx.Commit()
}

// UpdateOrderItem rewrites an item and moves the order total to newTotal in
// one transaction.
func (s *Store) UpdateOrderItem(ctx context.Context, item *models.OrderItem, orderVersion int64, newTotal decimal.Decimal) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE order_items SET product_id = $1, quantity = $2, price = $3 WHERE id = $4 AND order_id = $5",
		item.ProductID, item.Quantity, item.Price, item.ID, item.OrderID)
	if err != nil {
		return mapWriteError(err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("order item %d: %w", item.ID, models.ErrNotFound)
	}

	if err := bumpOrderTotal(ctx, tx, item.OrderID, orderVersion, newTotal); err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteOrderItem removes an item and moves the order total to newTotal in
// one transaction.
func (s *Store) DeleteOrderItem(ctx context.Context, orderID, itemID, orderVersion int64, newTotal decimal.Decimal) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"DELETE FROM order_items WHERE id = $1 AND order_id = $2", itemID, orderID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("order item %d: %w", itemID, models.ErrNotFound)
	}

	if err := bumpOrderTotal(ctx, tx, orderID, orderVersion, newTotal); err != nil {
		return err
	}

	return tx.Commit()
}

func insertItem(ctx context.Context, tx *sqlx.Tx, item *models.OrderItem) error {
	query := `
		INSERT INTO order_items (order_id, product_id, quantity, price)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	return tx.GetContext(ctx, &item.ID, query,
		item.OrderID, item.ProductID, item.Quantity, item.Price)
}

// bumpOrderTotal applies the version-checked total update. Zero rows means
// another writer changed the order since it was read.
func bumpOrderTotal(ctx context.Context, tx *sqlx.Tx, orderID, version int64, total decimal.Decimal) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE orders SET total_price = $1, version = version + 1 WHERE id = $2 AND version = $3",
		total, orderID, version)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("order %d was modified concurrently: %w", orderID, models.ErrConflict)
	}
	return nil
}

func bumpOrder(ctx context.Context, tx *sqlx.Tx, orderID, version, customerID int64, total decimal.Decimal) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE orders SET customer_id = $1, total_price = $2, version = version + 1 WHERE id = $3 AND version = $4",
		customerID, total, orderID, version)
	if err != nil {
		return mapWriteError(err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("order %d was modified concurrently: %w", orderID, models.ErrConflict)
	}
	return nil
}
