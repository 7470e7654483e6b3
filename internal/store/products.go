package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"watchify/internal/models"
)

// CreateProduct inserts a product and fills in id and timestamps.
func (s *Store) CreateProduct(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (name, brand, price, quantity, category_id, image_url, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	return s.db.QueryRowxContext(ctx, query,
		product.Name, product.Brand, product.Price, product.Quantity,
		product.CategoryID, product.ImageURL, product.Description).
		Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
}

// GetProductByID retrieves a product by ID.
func (s *Store) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product, "SELECT * FROM products WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("product %d: %w", id, ErrNoRows)
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProducts retrieves all products.
func (s *Store) GetProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.db.SelectContext(ctx, &products, "SELECT * FROM products ORDER BY id")
	return products, err
}

// GetProductsByCategory retrieves products referencing a category.
func (s *Store) GetProductsByCategory(ctx context.Context, categoryID int64) ([]models.Product, error) {
	var products []models.Product
	err := s.db.SelectContext(ctx, &products,
		"SELECT * FROM products WHERE category_id = $1 ORDER BY id", categoryID)
	return products, err
}

// GetProductsByBrand retrieves products of a brand.
func (s *Store) GetProductsByBrand(ctx context.Context, brand string) ([]models.Product, error) {
	var products []models.Product
	err := s.db.SelectContext(ctx, &products,
		"SELECT * FROM products WHERE brand = $1 ORDER BY id", brand)
	return products, err
}

// GetAvailableProducts retrieves products with stock remaining.
func (s *Store) GetAvailableProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.db.SelectContext(ctx, &products,
		"SELECT * FROM products WHERE quantity > 0 ORDER BY id")
	return products, err
}

// GetPopularProducts retrieves products ordered by total quantity sold.
func (s *Store) GetPopularProducts(ctx context.Context, limit int) ([]models.Product, error) {
	var products []models.Product
	err := s.db.SelectContext(ctx, &products, `
		SELECT p.*
		FROM products p
		LEFT JOIN order_product op ON op.product_id = p.id
		GROUP BY p.id
		ORDER BY COALESCE(SUM(op.quantity), 0) DESC
		LIMIT $1`, limit)
	return products, err
}

// GetNewArrivals retrieves the most recently created products.
func (s *Store) GetNewArrivals(ctx context.Context, limit int) ([]models.Product, error) {
	var products []models.Product
	err := s.db.SelectContext(ctx, &products,
		"SELECT * FROM products ORDER BY created_at DESC LIMIT $1", limit)
	return products, err
}

// UpdateProduct writes the mutable product columns.
func (s *Store) UpdateProduct(ctx context.Context, product *models.Product) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE products
		SET name = $1, brand = $2, price = $3, quantity = $4,
		    category_id = $5, image_url = $6, description = $7, updated_at = NOW()
		WHERE id = $8`,
		product.Name, product.Brand, product.Price, product.Quantity,
		product.CategoryID, product.ImageURL, product.Description, product.ID)
	return err
}

// UpdateProductQuantity sets the absolute stock level.
func (s *Store) UpdateProductQuantity(ctx context.Context, id int64, quantity int) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE products SET quantity = $1, updated_at = NOW() WHERE id = $2", quantity, id)
	return err
}

// DecreaseProductQuantity atomically decrements stock. The WHERE guard
// is the system's single serialization point for stock: when a
// concurrent request consumed the remaining quantity first, zero rows
// are affected and ErrInsufficientStock is returned.
func (s *Store) DecreaseProductQuantity(ctx context.Context, id int64, amount int) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE products
		SET quantity = quantity - $1, updated_at = NOW()
		WHERE id = $2 AND quantity >= $1`, amount, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("product %d: %w", id, ErrInsufficientStock)
	}
	return nil
}

// DeleteProduct removes a product row.
func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	return err
}
