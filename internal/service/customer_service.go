package service

import (
	"context"

	"shop-api/internal/models"
	"shop-api/internal/util"

	"go.uber.org/zap"
)

// CustomerService handles customer CRUD
type CustomerService struct {
	store  Store
	logger *zap.Logger
}

// NewCustomerService creates a new customer service
func NewCustomerService(store Store) *CustomerService {
	return &CustomerService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// CustomerRequest represents a request to create or replace a customer
type CustomerRequest struct {
	FullName string  `json:"full_name" binding:"required,max=100"`
	Email    string  `json:"email" binding:"required,email,max=100"`
	Phone    *string `json:"phone,omitempty" binding:"omitempty,max=50"`
	Address  *string `json:"address,omitempty" binding:"omitempty,max=200"`
}

// ListCustomers returns all customers
func (s *CustomerService) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	return s.store.ListCustomers(ctx)
}

// GetCustomer returns one customer
func (s *CustomerService) GetCustomer(ctx context.Context, id int64) (*models.Customer, error) {
	return s.store.GetCustomerByID(ctx, id)
}

// CreateCustomer creates a customer; a duplicate email surfaces as a conflict
func (s *CustomerService) CreateCustomer(ctx context.Context, req *CustomerRequest) (*models.Customer, error) {
	customer := &models.Customer{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
	}

	if err := s.store.CreateCustomer(ctx, customer); err != nil {
		return nil, err
	}

	s.logger.Info("Customer created", zap.Int64("customer_id", customer.ID))
	return customer, nil
}

// UpdateCustomer replaces a customer's mutable fields
func (s *CustomerService) UpdateCustomer(ctx context.Context, id int64, req *CustomerRequest) error {
	customer := &models.Customer{
		ID:       id,
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
	}
	return s.store.UpdateCustomer(ctx, customer)
}

// DeleteCustomer deletes a customer
func (s *CustomerService) DeleteCustomer(ctx context.Context, id int64) error {
	if err := s.store.DeleteCustomer(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Customer deleted", zap.Int64("customer_id", id))
	return nil
}
