package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"watchify/internal/models"
)

// CreateCategory inserts a category and fills in id and timestamps.
func (s *Store) CreateCategory(ctx context.Context, category *models.Category) error {
	query := `
		INSERT INTO categories (name, description)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at`

	return s.db.QueryRowxContext(ctx, query, category.Name, category.Description).
		Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)
}

// GetCategoryByID retrieves a category by ID.
func (s *Store) GetCategoryByID(ctx context.Context, id int64) (*models.Category, error) {
	var category models.Category
	err := s.db.GetContext(ctx, &category, "SELECT * FROM categories WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("category %d: %w", id, ErrNoRows)
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// GetCategoryByName retrieves a category by its unique name. Returns
// nil, nil when no category has the name.
func (s *Store) GetCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	var category models.Category
	err := s.db.GetContext(ctx, &category, "SELECT * FROM categories WHERE name = $1", name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// GetCategories retrieves all categories.
func (s *Store) GetCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := s.db.SelectContext(ctx, &categories, "SELECT * FROM categories ORDER BY id")
	return categories, err
}

// GetCategoriesWithProductCount retrieves all categories joined with
// the number of products referencing each.
func (s *Store) GetCategoriesWithProductCount(ctx context.Context) ([]models.CategoryWithCount, error) {
	var categories []models.CategoryWithCount
	err := s.db.SelectContext(ctx, &categories, `
		SELECT c.*, COUNT(p.id) AS product_count
		FROM categories c
		LEFT JOIN products p ON p.category_id = c.id
		GROUP BY c.id
		ORDER BY c.id`)
	return categories, err
}

// CountProductsByCategory returns how many products reference a
// category; used as the delete guard.
func (s *Store) CountProductsByCategory(ctx context.Context, categoryID int64) (int64, error) {
	var count int64
	err := s.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM products WHERE category_id = $1", categoryID)
	return count, err
}

// UpdateCategory writes the category name and description.
func (s *Store) UpdateCategory(ctx context.Context, category *models.Category) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE categories SET name = $1, description = $2, updated_at = NOW() WHERE id = $3",
		category.Name, category.Description, category.ID)
	return err
}

// DeleteCategory removes a category row.
func (s *Store) DeleteCategory(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM categories WHERE id = $1", id)
	return err
}
