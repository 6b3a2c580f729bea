package store

import (
	"context"
	"fmt"

	"shop-api/internal/models"
)

// ListCustomers retrieves all customers
func (s *Store) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	customers := []models.Customer{}
	err := s.db.SelectContext(ctx, &customers, "SELECT * FROM customers ORDER BY id")
	return customers, err
}

// GetCustomerByID retrieves a customer by ID
func (s *Store) GetCustomerByID(ctx context.Context, id int64) (*models.Customer, error) {
	var customer models.Customer
	err := s.db.GetContext(ctx, &customer, "SELECT * FROM customers WHERE id = $1", id)
	if err != nil {
		return nil, notFound("customer", id, err)
	}
	return &customer, nil
}

// CreateCustomer creates a new customer. Duplicate emails violate the unique
// index and surface as a conflict.
func (s *Store) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	query := `
		INSERT INTO customers (full_name, email, phone, address)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := s.db.GetContext(ctx, &customer.ID, query,
		customer.FullName, customer.Email, customer.Phone, customer.Address)
	return mapWriteError(err)
}

// UpdateCustomer replaces the mutable fields of a customer
func (s *Store) UpdateCustomer(ctx context.Context, customer *models.Customer) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE customers SET full_name = $1, email = $2, phone = $3, address = $4 WHERE id = $5",
		customer.FullName, customer.Email, customer.Phone, customer.Address, customer.ID)
	if err != nil {
		return mapWriteError(err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("customer %d: %w", customer.ID, models.ErrNotFound)
	}
	return nil
}

// DeleteCustomer deletes a customer; orders referencing it block the delete
func (s *Store) DeleteCustomer(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM customers WHERE id = $1", id)
	if err != nil {
		return mapWriteError(err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("customer %d: %w", id, models.ErrNotFound)
	}
	return nil
}

// CustomerExists reports whether a customer id resolves
func (s *Store) CustomerExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM customers WHERE id = $1)", id)
	return exists, err
}
