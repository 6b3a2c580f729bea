package service

import (
	"context"
	"fmt"

	"shop-api/internal/models"
	"shop-api/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductService handles product CRUD with category resolution
type ProductService struct {
	store  Store
	logger *zap.Logger
}

// NewProductService creates a new product service
func NewProductService(store Store) *ProductService {
	return &ProductService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// ProductRequest represents a request to create or replace a product.
// Price positivity is checked by the HTTP layer before the request reaches
// the service.
type ProductRequest struct {
	Name        string          `json:"name" binding:"required,max=100"`
	Description *string         `json:"description,omitempty" binding:"omitempty,max=500"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	CategoryID  int64           `json:"category_id" binding:"required,gt=0"`
}

// ListProducts returns all products
func (s *ProductService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.store.ListProducts(ctx)
}

// GetProduct returns one product
func (s *ProductService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	return s.store.GetProductByID(ctx, id)
}

// CreateProduct creates a product after resolving its category
func (s *ProductService) CreateProduct(ctx context.Context, req *ProductRequest) (*models.Product, error) {
	if err := s.resolveCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		CategoryID:  req.CategoryID,
	}

	if err := s.store.CreateProduct(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("Product created",
		zap.Int64("product_id", product.ID),
		zap.Int64("category_id", product.CategoryID))
	return product, nil
}

// UpdateProduct replaces a product's mutable fields, re-validating the
// category reference
func (s *ProductService) UpdateProduct(ctx context.Context, id int64, req *ProductRequest) error {
	if _, err := s.store.GetProductByID(ctx, id); err != nil {
		return err
	}
	if err := s.resolveCategory(ctx, req.CategoryID); err != nil {
		return err
	}

	product := &models.Product{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		CategoryID:  req.CategoryID,
	}
	return s.store.UpdateProduct(ctx, product)
}

// DeleteProduct deletes a product. Order items referencing it block the
// delete at the store.
func (s *ProductService) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.store.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Product deleted", zap.Int64("product_id", id))
	return nil
}

func (s *ProductService) resolveCategory(ctx context.Context, categoryID int64) error {
	exists, err := s.store.CategoryExists(ctx, categoryID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("category %d: %w", categoryID, models.ErrInvalidReference)
	}
	return nil
}
