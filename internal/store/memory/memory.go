// Package memory is an in-memory implementation of the persistence surface,
// used by tests and local development. It mirrors the Postgres store's
// semantics: referential guards, unique email, and the version check on
// order mutations.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"shop-api/internal/models"

	"github.com/shopspring/decimal"
)

type Store struct {
	mu         sync.RWMutex
	categories map[int64]models.Category
	products   map[int64]models.Product
	customers  map[int64]models.Customer
	orders     map[int64]models.Order
	orderItems map[int64]models.OrderItem
	nextID     int64
}

// NewStore returns an empty in-memory store
func NewStore() *Store {
	return &Store{
		categories: make(map[int64]models.Category),
		products:   make(map[int64]models.Product),
		customers:  make(map[int64]models.Customer),
		orders:     make(map[int64]models.Order),
		orderItems: make(map[int64]models.OrderItem),
	}
}

func (s *Store) nextSeq() int64 {
	s.nextID++
	return s.nextID
}

func notFound(entity string, id int64) error {
	return fmt.Errorf("%s %d: %w", entity, id, models.ErrNotFound)
}

func conflict(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, models.ErrConflict)...)
}

// --- categories ---

func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.Category, 0, len(s.categories))
	for _, c := range s.categories {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *Store) GetCategoryByID(ctx context.Context, id int64) (*models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.categories[id]
	if !ok {
		return nil, notFound("category", id)
	}
	return &c, nil
}

func (s *Store) CreateCategory(ctx context.Context, category *models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	category.ID = s.nextSeq()
	s.categories[category.ID] = *category
	return nil
}

func (s *Store) UpdateCategory(ctx context.Context, category *models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[category.ID]; !ok {
		return notFound("category", category.ID)
	}
	s.categories[category.ID] = *category
	return nil
}

func (s *Store) DeleteCategory(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[id]; !ok {
		return notFound("category", id)
	}
	for _, p := range s.products {
		if p.CategoryID == id {
			return conflict("category %d has products", id)
		}
	}
	delete(s.categories, id)
	return nil
}

func (s *Store) CategoryExists(ctx context.Context, id int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.categories[id]
	return ok, nil
}

// --- products ---

func (s *Store) ListProducts(ctx context.Context) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *Store) ListProductsByCategory(ctx context.Context, categoryID int64) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []models.Product{}
	for _, p := range s.products {
		if p.CategoryID == categoryID {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *Store) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, notFound("product", id)
	}
	return &p, nil
}

func (s *Store) GetProductsByIDs(ctx context.Context, ids []int64) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[int64]bool, len(ids))
	result := []models.Product{}
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if p, ok := s.products[id]; ok {
			result = append(result, p)
		}
	}
	return result, nil
}

func (s *Store) CreateProduct(ctx context.Context, product *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[product.CategoryID]; !ok {
		return conflict("products_category_id_fkey")
	}
	product.ID = s.nextSeq()
	s.products[product.ID] = *product
	return nil
}

func (s *Store) UpdateProduct(ctx context.Context, product *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[product.ID]; !ok {
		return notFound("product", product.ID)
	}
	if _, ok := s.categories[product.CategoryID]; !ok {
		return conflict("products_category_id_fkey")
	}
	s.products[product.ID] = *product
	return nil
}

func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return notFound("product", id)
	}
	for _, item := range s.orderItems {
		if item.ProductID == id {
			return conflict("product %d is referenced by order items", id)
		}
	}
	delete(s.products, id)
	return nil
}

// --- customers ---

func (s *Store) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.Customer, 0, len(s.customers))
	for _, c := range s.customers {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *Store) GetCustomerByID(ctx context.Context, id int64) (*models.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.customers[id]
	if !ok {
		return nil, notFound("customer", id)
	}
	return &c, nil
}

func (s *Store) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.customers {
		if c.Email == customer.Email {
			return conflict("customers email %q already exists", customer.Email)
		}
	}
	customer.ID = s.nextSeq()
	s.customers[customer.ID] = *customer
	return nil
}

func (s *Store) UpdateCustomer(ctx context.Context, customer *models.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.customers[customer.ID]; !ok {
		return notFound("customer", customer.ID)
	}
	for _, c := range s.customers {
		if c.ID != customer.ID && c.Email == customer.Email {
			return conflict("customers email %q already exists", customer.Email)
		}
	}
	s.customers[customer.ID] = *customer
	return nil
}

func (s *Store) DeleteCustomer(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.customers[id]; !ok {
		return notFound("customer", id)
	}
	for _, o := range s.orders {
		if o.CustomerID == id {
			return conflict("customer %d has orders", id)
		}
	}
	delete(s.customers, id)
	return nil
}

func (s *Store) CustomerExists(ctx context.Context, id int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.customers[id]
	return ok, nil
}

// --- orders ---

func (s *Store) ListOrders(ctx context.Context) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.Order, 0, len(s.orders))
	for _, o := range s.orders {
		result = append(result, o)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *Store) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, notFound("order", id)
	}
	return &o, nil
}

func (s *Store) CreateOrderWithItems(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	order.ID = s.nextSeq()
	order.OrderDate = time.Now()
	order.Version = 0
	s.orders[order.ID] = *order

	for i := range items {
		items[i].ID = s.nextSeq()
		items[i].OrderID = order.ID
		s.orderItems[items[i].ID] = items[i]
	}
	return nil
}

func (s *Store) ReplaceOrderItems(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.bumpOrder(order.ID, order.Version, order.CustomerID, order.TotalPrice); err != nil {
		return err
	}

	for id, item := range s.orderItems {
		if item.OrderID == order.ID {
			delete(s.orderItems, id)
		}
	}
	for i := range items {
		items[i].ID = s.nextSeq()
		items[i].OrderID = order.ID
		s.orderItems[items[i].ID] = items[i]
	}
	return nil
}

func (s *Store) DeleteOrder(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[id]; !ok {
		return notFound("order", id)
	}
	for itemID, item := range s.orderItems {
		if item.OrderID == id {
			delete(s.orderItems, itemID)
		}
	}
	delete(s.orders, id)
	return nil
}

// --- order items ---

func (s *Store) ListOrderItems(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []models.OrderItem{}
	for _, item := range s.orderItems {
		if item.OrderID == orderID {
			result = append(result, s.withProductName(item))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *Store) GetOrderItem(ctx context.Context, orderID, itemID int64) (*models.OrderItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.orderItems[itemID]
	if !ok || item.OrderID != orderID {
		return nil, notFound("order item", itemID)
	}
	item = s.withProductName(item)
	return &item, nil
}

func (s *Store) InsertOrderItem(ctx context.Context, item *models.OrderItem, orderVersion int64, newTotal decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[item.OrderID]
	if !ok {
		return notFound("order", item.OrderID)
	}
	if err := s.bumpOrder(order.ID, orderVersion, order.CustomerID, newTotal); err != nil {
		return err
	}

	item.ID = s.nextSeq()
	s.orderItems[item.ID] = *item
	return nil
}

func (s *Store) UpdateOrderItem(ctx context.Context, item *models.OrderItem, orderVersion int64, newTotal decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.orderItems[item.ID]
	if !ok || existing.OrderID != item.OrderID {
		return notFound("order item", item.ID)
	}
	order, ok := s.orders[item.OrderID]
	if !ok {
		return notFound("order", item.OrderID)
	}
	if err := s.bumpOrder(order.ID, orderVersion, order.CustomerID, newTotal); err != nil {
		return err
	}

	s.orderItems[item.ID] = *item
	return nil
}

func (s *Store) DeleteOrderItem(ctx context.Context, orderID, itemID, orderVersion int64, newTotal decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.orderItems[itemID]
	if !ok || existing.OrderID != orderID {
		return notFound("order item", itemID)
	}
	order, ok := s.orders[orderID]
	if !ok {
		return notFound("order", orderID)
	}
	if err := s.bumpOrder(order.ID, orderVersion, order.CustomerID, newTotal); err != nil {
		return err
	}

	delete(s.orderItems, itemID)
	return nil
}

// bumpOrder applies the version-checked order update; callers hold the lock.
func (s *Store) bumpOrder(orderID, version, customerID int64, total decimal.Decimal) error {
	order, ok := s.orders[orderID]
	if !ok || order.Version != version {
		return conflict("order %d was modified concurrently", orderID)
	}
	order.CustomerID = customerID
	order.TotalPrice = total
	order.Version++
	s.orders[orderID] = order
	return nil
}

func (s *Store) withProductName(item models.OrderItem) models.OrderItem {
	if p, ok := s.products[item.ProductID]; ok {
		item.ProductName = p.Name
	}
	return item
}
