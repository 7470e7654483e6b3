package service

import (
	"context"
	"errors"
	"fmt"

	"watchify/internal/broker"
	"watchify/internal/models"
	"watchify/internal/store"
	"watchify/internal/util"
	"watchify/internal/validation"

	"go.uber.org/zap"
)

// ProductStore is the persistence surface of the product service,
// including the category lookup used by the FK check.
type ProductStore interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	GetProducts(ctx context.Context) ([]models.Product, error)
	GetProductsByCategory(ctx context.Context, categoryID int64) ([]models.Product, error)
	GetProductsByBrand(ctx context.Context, brand string) ([]models.Product, error)
	GetAvailableProducts(ctx context.Context) ([]models.Product, error)
	GetPopularProducts(ctx context.Context, limit int) ([]models.Product, error)
	GetNewArrivals(ctx context.Context, limit int) ([]models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	UpdateProductQuantity(ctx context.Context, id int64, quantity int) error
	DecreaseProductQuantity(ctx context.Context, id int64, amount int) error
	DeleteProduct(ctx context.Context, id int64) error

	GetCategoryByID(ctx context.Context, id int64) (*models.Category, error)
}

// ProductCache is the optional read-through cache for single-product
// lookups.
type ProductCache interface {
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	SetProduct(ctx context.Context, product *models.Product) error
	InvalidateProduct(ctx context.Context, id int64) error
}

// ProductService manages the catalog and the stock-adjustment
// operations the order workflow depends on.
type ProductService struct {
	store  ProductStore
	cache  ProductCache
	events *broker.EventPublisher
	logger *zap.Logger
}

func NewProductService(store ProductStore, cache ProductCache, events *broker.EventPublisher) *ProductService {
	return &ProductService{
		store:  store,
		cache:  cache,
		events: events,
		logger: util.GetLogger(),
	}
}

// CreateProductRequest carries the full product creation payload.
type CreateProductRequest struct {
	Name        string  `json:"name"`
	Brand       string  `json:"brand"`
	Price       float64 `json:"price"`
	Quantity    *int    `json:"quantity"`
	CategoryID  int64   `json:"category_id"`
	ImageURL    string  `json:"image_url"`
	Description string  `json:"description"`
}

// UpdateProductRequest is a partial update; nil fields were absent.
type UpdateProductRequest struct {
	Name        *string  `json:"name"`
	Brand       *string  `json:"brand"`
	Price       *float64 `json:"price"`
	Quantity    *int     `json:"quantity"`
	CategoryID  *int64   `json:"category_id"`
	ImageURL    *string  `json:"image_url"`
	Description *string  `json:"description"`
}

func (s *ProductService) validateFields(v *validation.Validator, name, brand *string, price *float64, quantity *int, imageURL, description *string) {
	if name != nil {
		v.MaxLength("name", *name, 100)
	}
	if brand != nil {
		v.MaxLength("brand", *brand, 100)
	}
	if price != nil {
		v.Positive("price", *price, "Price must be a positive number")
	}
	if quantity != nil {
		v.MinInt("quantity", *quantity, 0, "Quantity cannot be negative")
	}
	if imageURL != nil {
		v.MaxLength("image_url", *imageURL, 255)
		v.URL("image_url", *imageURL, "Invalid image URL format")
	}
	if description != nil {
		v.MaxLength("description", *description, 500)
	}
}

func (s *ProductService) checkCategory(ctx context.Context, id int64) error {
	if _, err := s.store.GetCategoryByID(ctx, id); err != nil {
		if errors.Is(err, store.ErrNoRows) {
			return invalidRequest("Category not found", "category_id", "Invalid category ID")
		}
		return internal("failed to verify category", err)
	}
	return nil
}

// Create validates and persists a new product.
func (s *ProductService) Create(ctx context.Context, req *CreateProductRequest) (*models.Product, error) {
	v := validation.New()
	v.Required("name", req.Name)
	v.Required("brand", req.Brand)
	if req.Quantity == nil {
		v.Required("quantity", nil)
	}
	if req.CategoryID == 0 {
		v.Required("category_id", nil)
	}
	v.Required("image_url", req.ImageURL)
	v.Required("description", req.Description)
	s.validateFields(v, &req.Name, &req.Brand, &req.Price, req.Quantity, &req.ImageURL, &req.Description)
	if !v.Valid() {
		return nil, validationFailed(v.Errors())
	}

	if err := s.checkCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:        req.Name,
		Brand:       req.Brand,
		Price:       req.Price,
		Quantity:    *req.Quantity,
		CategoryID:  req.CategoryID,
		ImageURL:    req.ImageURL,
		Description: req.Description,
	}

	if err := s.store.CreateProduct(ctx, product); err != nil {
		return nil, internal("failed to create product", err)
	}

	s.publishProductEvent(ctx, models.EventTypeProductUpserted, product.ID)
	return product, nil
}

// Update validates and writes the fields present in the request.
func (s *ProductService) Update(ctx context.Context, id int64, req *UpdateProductRequest) error {
	v := validation.New()
	s.validateFields(v, req.Name, req.Brand, req.Price, req.Quantity, req.ImageURL, req.Description)
	if !v.Valid() {
		return validationFailed(v.Errors())
	}

	if req.CategoryID != nil {
		if err := s.checkCategory(ctx, *req.CategoryID); err != nil {
			return err
		}
	}

	product, err := s.store.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNoRows) {
			return notFound("Record")
		}
		return internal("failed to load product", err)
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Brand != nil {
		product.Brand = *req.Brand
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Quantity != nil {
		product.Quantity = *req.Quantity
	}
	if req.CategoryID != nil {
		product.CategoryID = *req.CategoryID
	}
	if req.ImageURL != nil {
		product.ImageURL = *req.ImageURL
	}
	if req.Description != nil {
		product.Description = *req.Description
	}

	if err := s.store.UpdateProduct(ctx, product); err != nil {
		return internal("failed to update product", err)
	}

	s.publishProductEvent(ctx, models.EventTypeProductUpserted, id)
	return nil
}

// GetByID retrieves a product, served from the cache when possible.
func (s *ProductService) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	if s.cache != nil {
		if product, err := s.cache.GetProduct(ctx, id); err == nil {
			return product, nil
		}
	}

	product, err := s.store.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNoRows) {
			return nil, notFound("Product")
		}
		return nil, internal("failed to load product", err)
	}

	if s.cache != nil {
		if err := s.cache.SetProduct(ctx, product); err != nil {
			s.logger.Warn("Failed to cache product", zap.Int64("product_id", id), zap.Error(err))
		}
	}
	return product, nil
}

// GetAll retrieves every product.
func (s *ProductService) GetAll(ctx context.Context) ([]models.Product, error) {
	return s.store.GetProducts(ctx)
}

// GetByCategory retrieves the products of a category.
func (s *ProductService) GetByCategory(ctx context.Context, categoryID int64) ([]models.Product, error) {
	if categoryID <= 0 {
		return nil, invalidRequest("Invalid category ID", "category_id", "Invalid category ID")
	}
	return s.store.GetProductsByCategory(ctx, categoryID)
}

// GetByBrand retrieves the products of a brand.
func (s *ProductService) GetByBrand(ctx context.Context, brand string) ([]models.Product, error) {
	if brand == "" {
		return nil, invalidRequest("Brand is required", "brand", "Brand is required")
	}
	return s.store.GetProductsByBrand(ctx, brand)
}

// GetAvailable retrieves products with stock remaining.
func (s *ProductService) GetAvailable(ctx context.Context) ([]models.Product, error) {
	return s.store.GetAvailableProducts(ctx)
}

// GetPopular retrieves the best-selling products.
func (s *ProductService) GetPopular(ctx context.Context, limit int) ([]models.Product, error) {
	if limit < 1 {
		limit = 10
	}
	return s.store.GetPopularProducts(ctx, limit)
}

// GetNewArrivals retrieves the most recently added products.
func (s *ProductService) GetNewArrivals(ctx context.Context, limit int) ([]models.Product, error) {
	if limit < 1 {
		limit = 10
	}
	return s.store.GetNewArrivals(ctx, limit)
}

// UpdateQuantity sets the absolute stock level.
func (s *ProductService) UpdateQuantity(ctx context.Context, id int64, quantity int) error {
	v := validation.New()
	v.MinInt("quantity", quantity, 0, "Quantity cannot be negative")
	if !v.Valid() {
		return validationFailed(v.Errors())
	}

	if _, err := s.store.GetProductByID(ctx, id); err != nil {
		if errors.Is(err, store.ErrNoRows) {
			return notFound("Product")
		}
		return internal("failed to load product", err)
	}

	if err := s.store.UpdateProductQuantity(ctx, id, quantity); err != nil {
		return internal("failed to update quantity", err)
	}

	s.publishProductEvent(ctx, models.EventTypeProductUpserted, id)
	return nil
}

// DecreaseQuantity removes amount units of stock. The availability
// pre-check reads live stock; the store's conditional decrement is the
// actual guard and may still fail under concurrent consumption, which
// surfaces as the same insufficient-quantity failure.
func (s *ProductService) DecreaseQuantity(ctx context.Context, id int64, amount int) error {
	ctx, span := util.StartSpan(ctx, "ProductService.DecreaseQuantity")
	defer span.End()

	v := validation.New()
	v.PositiveInt("amount", amount, "Amount must be positive")
	if !v.Valid() {
		return validationFailed(v.Errors())
	}

	product, err := s.store.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNoRows) {
			return notFound("Product")
		}
		return internal("failed to load product", err)
	}

	if product.Quantity < amount {
		util.StockDecrementsFailedTotal.WithLabelValues("insufficient").Inc()
		return invalidRequest(
			"Insufficient quantity available",
			"quantity",
			fmt.Sprintf("Only %d items available", product.Quantity))
	}

	if err := s.store.DecreaseProductQuantity(ctx, id, amount); err != nil {
		if errors.Is(err, store.ErrInsufficientStock) {
			util.StockDecrementsFailedTotal.WithLabelValues("race").Inc()
			return invalidRequest(
				"Insufficient quantity available",
				"quantity",
				"Concurrent order consumed the remaining stock")
		}
		util.StockDecrementsFailedTotal.WithLabelValues("db_error").Inc()
		return internal("failed to decrease quantity", err)
	}

	util.StockDecrementsTotal.Inc()
	s.publishProductEvent(ctx, models.EventTypeStockDecreased, id)
	return nil
}

// Delete removes a product.
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	if _, err := s.store.GetProductByID(ctx, id); err != nil {
		if errors.Is(err, store.ErrNoRows) {
			return notFound("Record")
		}
		return internal("failed to load product", err)
	}
	if err := s.store.DeleteProduct(ctx, id); err != nil {
		return internal("failed to delete product", err)
	}

	s.publishProductEvent(ctx, models.EventTypeProductDeleted, id)
	return nil
}

func (s *ProductService) publishProductEvent(ctx context.Context, eventType string, id int64) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishProductEvent(ctx, eventType, id); err != nil {
		s.logger.Error("Failed to publish product event",
			zap.String("event_type", eventType),
			zap.Int64("product_id", id),
			zap.Error(err))
	}
}
