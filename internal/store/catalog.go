package store

import (
	"context"
	"fmt"

	"shop-api/internal/models"

	"github.com/jmoiron/sqlx"
)

// ListCategories retrieves all categories
func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	err := s.db.SelectContext(ctx, &categories, "SELECT * FROM categories ORDER BY id")
	return categories, err
}

// GetCategoryByID retrieves a category by ID
func (s *Store) GetCategoryByID(ctx context.Context, id int64) (*models.Category, error) {
	var category models.Category
	err := s.db.GetContext(ctx, &category, "SELECT * FROM categories WHERE id = $1", id)
	if err != nil {
		return nil, notFound("category", id, err)
	}
	return &category, nil
}

// CreateCategory creates a new category
func (s *Store) CreateCategory(ctx context.Context, category *models.Category) error {
	query := `
		INSERT INTO categories (name, description)
		VALUES ($1, $2)
		RETURNING id`

	return s.db.GetContext(ctx, &category.ID, query, category.Name, category.Description)
}

// UpdateCategory replaces the mutable fields of a category
func (s *Store) UpdateCategory(ctx context.Context, category *models.Category) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE categories SET name = $1, description = $2 WHERE id = $3",
		category.Name, category.Description, category.ID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("category %d: %w", category.ID, models.ErrNotFound)
	}
	return nil
}

// DeleteCategory deletes a category, refusing while it still owns products
func (s *Store) DeleteCategory(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var productCount int
	err = tx.GetContext(ctx, &productCount,
		"SELECT COUNT(*) FROM products WHERE category_id = $1", id)
	if err != nil {
		return err
	}
	if productCount > 0 {
		return fmt.Errorf("category %d has %d products: %w", id, productCount, models.ErrConflict)
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM categories WHERE id = $1", id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("category %d: %w", id, models.ErrNotFound)
	}

	return tx.Commit()
}

// CategoryExists reports whether a category id resolves
func (s *Store) CategoryExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1)", id)
	return exists, err
}

// ListProducts retrieves all products
func (s *Store) ListProducts(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	err := s.db.SelectContext(ctx, &products, "SELECT * FROM products ORDER BY id")
	return products, err
}

// ListProductsByCategory retrieves the products owned by a category
func (s *Store) ListProductsByCategory(ctx context.Context, categoryID int64) ([]models.Product, error) {
	products := []models.Product{}
	err := s.db.SelectContext(ctx, &products,
		"SELECT * FROM products WHERE category_id = $1 ORDER BY id", categoryID)
	return products, err
}

// GetProductByID retrieves a product by ID
func (s *Store) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product, "SELECT * FROM products WHERE id = $1", id)
	if err != nil {
		return nil, notFound("product", id, err)
	}
	return &product, nil
}

// GetProductsByIDs retrieves multiple products by IDs
func (s *Store) GetProductsByIDs(ctx context.Context, ids []int64) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}

	query, args, err := sqlx.In("SELECT * FROM products WHERE id IN (?)", ids)
	if err != nil {
		return nil, err
	}
	query = s.db.Rebind(query)

	products := []models.Product{}
	err = s.db.SelectContext(ctx, &products, query, args...)
	return products, err
}

// CreateProduct creates a new product
func (s *Store) CreateProduct(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (name, description, price, category_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := s.db.GetContext(ctx, &product.ID, query,
		product.Name, product.Description, product.Price, product.CategoryID)
	return mapWriteError(err)
}

// UpdateProduct replaces the mutable fields of a product
func (s *Store) UpdateProduct(ctx context.Context, product *models.Product) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE products SET name = $1, description = $2, price = $3, category_id = $4 WHERE id = $5",
		product.Name, product.Description, product.Price, product.CategoryID, product.ID)
	if err != nil {
		return mapWriteError(err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("product %d: %w", product.ID, models.ErrNotFound)
	}
	return nil
}

// DeleteProduct deletes a product. The restrict rule on order_items blocks
// the delete while any item still references the product.
func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return mapWriteError(err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("product %d: %w", id, models.ErrNotFound)
	}
	return nil
}
