package service

import (
	"context"
	"errors"

	"watchify/internal/models"
	"watchify/internal/store"
	"watchify/internal/util"
	"watchify/internal/validation"

	"go.uber.org/zap"
)

// CategoryStore is the persistence surface of the category service.
type CategoryStore interface {
	CreateCategory(ctx context.Context, category *models.Category) error
	GetCategoryByID(ctx context.Context, id int64) (*models.Category, error)
	GetCategoryByName(ctx context.Context, name string) (*models.Category, error)
	GetCategories(ctx context.Context) ([]models.Category, error)
	GetCategoriesWithProductCount(ctx context.Context) ([]models.CategoryWithCount, error)
	CountProductsByCategory(ctx context.Context, categoryID int64) (int64, error)
	UpdateCategory(ctx context.Context, category *models.Category) error
	DeleteCategory(ctx context.Context, id int64) error
}

// CategoryService manages the product taxonomy.
type CategoryService struct {
	store  CategoryStore
	logger *zap.Logger
}

func NewCategoryService(store CategoryStore) *CategoryService {
	return &CategoryService{store: store, logger: util.GetLogger()}
}

type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *CategoryService) validate(req *CategoryRequest) error {
	v := validation.New()
	v.Required("name", req.Name)
	v.MaxLength("name", req.Name, 100)
	v.MaxLength("description", req.Description, 500)
	if !v.Valid() {
		return validationFailed(v.Errors())
	}
	return nil
}

// nameTaken reports whether another category already holds the name.
// excludeID skips the category being updated.
func (s *CategoryService) nameTaken(ctx context.Context, name string, excludeID int64) (bool, error) {
	existing, err := s.store.GetCategoryByName(ctx, name)
	if err != nil {
		return false, internal("failed to check category name", err)
	}
	return existing != nil && existing.ID != excludeID, nil
}

// Create validates and persists a new category. Names are unique.
func (s *CategoryService) Create(ctx context.Context, req *CategoryRequest) (*models.Category, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	taken, err := s.nameTaken(ctx, req.Name, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, invalidRequest("Category name already exists", "name", "This category name is already taken")
	}

	category := &models.Category{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.store.CreateCategory(ctx, category); err != nil {
		return nil, internal("failed to create category", err)
	}

	s.logger.Info("Category created", zap.Int64("category_id", category.ID), zap.String("name", category.Name))
	return category, nil
}

// Update validates and overwrites a category.
func (s *CategoryService) Update(ctx context.Context, id int64, req *CategoryRequest) error {
	if err := s.validate(req); err != nil {
		return err
	}

	category, err := s.store.GetCategoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNoRows) {
			return notFound("Record")
		}
		return internal("failed to load category", err)
	}

	taken, err := s.nameTaken(ctx, req.Name, id)
	if err != nil {
		return err
	}
	if taken {
		return invalidRequest("Category name already exists", "name", "This category name is already taken")
	}

	category.Name = req.Name
	category.Description = req.Description
	if err := s.store.UpdateCategory(ctx, category); err != nil {
		return internal("failed to update category", err)
	}
	return nil
}

// GetByID retrieves a single category.
func (s *CategoryService) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	category, err := s.store.GetCategoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNoRows) {
			return nil, notFound("Category")
		}
		return nil, internal("failed to load category", err)
	}
	return category, nil
}

// GetByName retrieves a category by its unique name.
func (s *CategoryService) GetByName(ctx context.Context, name string) (*models.Category, error) {
	if name == "" {
		return nil, invalidRequest("Category name is required", "name", "Category name is required")
	}
	category, err := s.store.GetCategoryByName(ctx, name)
	if err != nil {
		return nil, internal("failed to load category", err)
	}
	if category == nil {
		return nil, notFound("Category")
	}
	return category, nil
}

// GetAll retrieves every category.
func (s *CategoryService) GetAll(ctx context.Context) ([]models.Category, error) {
	return s.store.GetCategories(ctx)
}

// GetAllWithProductCount retrieves every category with its product count.
func (s *CategoryService) GetAllWithProductCount(ctx context.Context) ([]models.CategoryWithCount, error) {
	return s.store.GetCategoriesWithProductCount(ctx)
}

// Delete removes a category. Categories that still have products
// cannot be removed.
func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	if _, err := s.store.GetCategoryByID(ctx, id); err != nil {
		if errors.Is(err, store.ErrNoRows) {
			return notFound("Record")
		}
		return internal("failed to load category", err)
	}

	count, err := s.store.CountProductsByCategory(ctx, id)
	if err != nil {
		return internal("failed to count category products", err)
	}
	if count > 0 {
		return invalidRequest(
			"Cannot delete category with existing products",
			"category",
			"Category still has products assigned to it")
	}

	if err := s.store.DeleteCategory(ctx, id); err != nil {
		return internal("failed to delete category", err)
	}
	return nil
}
