package service

import (
	"context"

	"shop-api/internal/models"
	"shop-api/internal/util"

	"go.uber.org/zap"
)

// CategoryService handles category CRUD
type CategoryService struct {
	store  Store
	logger *zap.Logger
}

// NewCategoryService creates a new category service
func NewCategoryService(store Store) *CategoryService {
	return &CategoryService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// CategoryRequest represents a request to create or replace a category
type CategoryRequest struct {
	Name        string  `json:"name" binding:"required,max=100"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=200"`
}

// CategoryResponse is a category with its owned products
type CategoryResponse struct {
	models.Category
	Products []models.Product `json:"products"`
}

// ListCategories returns all categories with their products
func (s *CategoryService) ListCategories(ctx context.Context) ([]CategoryResponse, error) {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	products, err := s.store.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[int64][]models.Product)
	for _, p := range products {
		byCategory[p.CategoryID] = append(byCategory[p.CategoryID], p)
	}

	resp := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		owned := byCategory[c.ID]
		if owned == nil {
			owned = []models.Product{}
		}
		resp = append(resp, CategoryResponse{Category: c, Products: owned})
	}
	return resp, nil
}

// GetCategory returns one category with its products
func (s *CategoryService) GetCategory(ctx context.Context, id int64) (*CategoryResponse, error) {
	category, err := s.store.GetCategoryByID(ctx, id)
	if err != nil {
		return nil, err
	}

	products, err := s.store.ListProductsByCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	return &CategoryResponse{Category: *category, Products: products}, nil
}

// CreateCategory creates a category
func (s *CategoryService) CreateCategory(ctx context.Context, req *CategoryRequest) (*CategoryResponse, error) {
	category := &models.Category{
		Name:        req.Name,
		Description: req.Description,
	}

	if err := s.store.CreateCategory(ctx, category); err != nil {
		return nil, err
	}

	s.logger.Info("Category created", zap.Int64("category_id", category.ID))
	return &CategoryResponse{Category: *category, Products: []models.Product{}}, nil
}

// UpdateCategory replaces a category's mutable fields
func (s *CategoryService) UpdateCategory(ctx context.Context, id int64, req *CategoryRequest) error {
	category := &models.Category{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
	}
	return s.store.UpdateCategory(ctx, category)
}

// DeleteCategory deletes a category. The store refuses while the category
// still owns products.
func (s *CategoryService) DeleteCategory(ctx context.Context, id int64) error {
	if err := s.store.DeleteCategory(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Category deleted", zap.Int64("category_id", id))
	return nil
}
