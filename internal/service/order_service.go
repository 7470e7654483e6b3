package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"watchify/internal/models"
	"watchify/internal/store"
	"watchify/internal/util"
	"watchify/internal/validation"

	"go.uber.org/zap"
)

// OrderStore is the persistence surface of the order workflow: the
// order entity store plus the two cross-entity lookups the creation
// checks need.
type OrderStore interface {
	CreateOrderWithItems(ctx context.Context, order *models.Order, items []models.OrderProduct) error
	GetOrderByID(ctx context.Context, id int64) (*models.Order, error)
	GetOrders(ctx context.Context) ([]models.Order, error)
	GetOrdersByUserID(ctx context.Context, userID int64) ([]models.Order, error)
	GetOrdersByStatus(ctx context.Context, status string) ([]models.Order, error)
	GetOrdersByDateRange(ctx context.Context, start, end time.Time) ([]models.Order, error)
	GetOrdersWithUserInfo(ctx context.Context) ([]models.OrderWithUser, error)
	GetOrderItemsByOrderID(ctx context.Context, orderID int64) ([]models.OrderProduct, error)
	UpdateOrder(ctx context.Context, order *models.Order) error
	UpdateOrderStatus(ctx context.Context, id int64, status string) error
	DeleteOrder(ctx context.Context, id int64) error

	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
}

// OrderEvents is the slice of the event publisher the order workflow
// uses. Stock decrements publish product events so cached catalog rows
// are invalidated on the order path too.
type OrderEvents interface {
	PublishOrderCreated(ctx context.Context, order *models.Order, items []models.OrderLineData) error
	PublishOrderStatusChanged(ctx context.Context, orderID int64, status string) error
	PublishProductEvent(ctx context.Context, eventType string, productID int64) error
}

// StockExhaustedError reports that a line's conditional stock decrement
// lost the race at commit time: availability passed the pre-check but
// a concurrent order consumed the stock first. The whole order is
// rolled back when this happens.
type StockExhaustedError struct {
	ProductID int64
}

func (e *StockExhaustedError) Error() string {
	return "Failed to process order: Insufficient quantity available"
}

// OrderService is the order workflow engine.
type OrderService struct {
	store  OrderStore
	events OrderEvents
	logger *zap.Logger
}

func NewOrderService(store OrderStore, events OrderEvents) *OrderService {
	return &OrderService{
		store:  store,
		events: events,
		logger: util.GetLogger(),
	}
}

// OrderLineRequest is one product entry of a create request.
type OrderLineRequest struct {
	ProductID int64   `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// CreateOrderRequest carries the full order creation payload.
type CreateOrderRequest struct {
	UserID        int64              `json:"user_id"`
	TotalPrice    float64            `json:"total_price"`
	ShippingCost  float64            `json:"shipping_cost"`
	PaymentMethod string             `json:"payment_method"`
	Address       string             `json:"address"`
	Status        string             `json:"status"`
	Products      []OrderLineRequest `json:"products"`
}

// UpdateOrderRequest is a partial header update; nil means the field
// was absent from the payload, which is distinct from a zero value.
type UpdateOrderRequest struct {
	TotalPrice    *float64 `json:"total_price"`
	ShippingCost  *float64 `json:"shipping_cost"`
	PaymentMethod *string  `json:"payment_method"`
	Address       *string  `json:"address"`
	Status        *string  `json:"status"`
}

// Create runs the order creation workflow: field validation collecting
// every failure, then short-circuiting cross-entity checks (user
// exists, each product exists with sufficient live stock), then an
// atomic persist of header + lines + stock decrements.
func (s *OrderService) Create(ctx context.Context, req *CreateOrderRequest) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.Create")
	defer span.End()

	start := time.Now()
	defer func() {
		util.OrderCreateLatency.Observe(time.Since(start).Seconds())
	}()

	v := validation.New()

	if req.UserID == 0 {
		v.Required("user_id", nil)
	}
	v.Positive("total_price", req.TotalPrice, "Total price must be positive")
	v.Min("shipping_cost", req.ShippingCost, 0, "Shipping cost cannot be negative")
	if req.PaymentMethod == "" {
		v.Required("payment_method", "")
	} else {
		v.In("payment_method", req.PaymentMethod, models.PaymentMethods, "Invalid payment method")
		v.MaxLength("payment_method", req.PaymentMethod, 45)
	}
	if req.Address == "" {
		v.Required("address", "")
	} else {
		v.MinLength("address", req.Address, 10)
	}
	if req.Status == "" {
		v.Required("status", "")
	} else {
		v.In("status", req.Status, models.OrderStatuses, "Invalid order status")
		v.MaxLength("status", req.Status, 45)
	}
	if len(req.Products) == 0 {
		v.RequiredMsg("products", nil, "Order must contain at least one product")
	}
	for i, line := range req.Products {
		if line.ProductID <= 0 || line.Quantity <= 0 || line.UnitPrice <= 0 {
			return nil, invalidRequest(
				"Invalid product data",
				"products",
				fmt.Sprintf("Product at index %d is missing required fields (product_id, quantity, unit_price)", i))
		}
	}
	if !v.Valid() {
		util.OrdersFailedTotal.WithLabelValues("validation").Inc()
		return nil, validationFailed(v.Errors())
	}

	// Cross-entity checks return on the first failure found, naming
	// the offending resource.
	if _, err := s.store.GetUserByID(ctx, req.UserID); err != nil {
		if errors.Is(err, store.ErrNoRows) {
			util.OrdersFailedTotal.WithLabelValues("unknown_user").Inc()
			return nil, invalidRequest("User not found", "user_id", "Invalid user ID")
		}
		return nil, internal("failed to verify user", err)
	}

	for i, line := range req.Products {
		product, err := s.store.GetProductByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, store.ErrNoRows) {
				util.OrdersFailedTotal.WithLabelValues("unknown_product").Inc()
				return nil, invalidRequest(
					fmt.Sprintf("Product ID %d not found", line.ProductID),
					"products",
					fmt.Sprintf("Invalid product at index %d", i))
			}
			return nil, internal("failed to verify product", err)
		}

		// Live stock read at validation time. The conditional decrement
		// inside the transaction re-checks this under the row guard.
		if product.Quantity < line.Quantity {
			util.OrdersFailedTotal.WithLabelValues("insufficient_stock").Inc()
			return nil, invalidRequest(
				fmt.Sprintf("Insufficient quantity for product: %s", product.Name),
				"products",
				fmt.Sprintf("Only %d items available for product at index %d", product.Quantity, i))
		}
	}

	order := &models.Order{
		UserID:        req.UserID,
		TotalPrice:    req.TotalPrice,
		ShippingCost:  req.ShippingCost,
		PaymentMethod: req.PaymentMethod,
		Address:       req.Address,
		Status:        req.Status,
	}

	items := make([]models.OrderProduct, 0, len(req.Products))
	for _, line := range req.Products {
		items = append(items, models.OrderProduct{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}

	if err := s.store.CreateOrderWithItems(ctx, order, items); err != nil {
		if errors.Is(err, store.ErrInsufficientStock) {
			util.OrdersFailedTotal.WithLabelValues("stock_race").Inc()
			s.logger.Warn("Order lost stock race, rolled back",
				zap.Int64("user_id", req.UserID))
			return nil, &StockExhaustedError{}
		}
		util.OrdersFailedTotal.WithLabelValues("db_error").Inc()
		return nil, internal("failed to process order", err)
	}

	util.OrdersCreatedTotal.Inc()
	util.StockDecrementsTotal.Add(float64(len(items)))
	s.logger.Info("Order created",
		zap.Int64("order_id", order.ID),
		zap.Int64("user_id", order.UserID),
		zap.Int("lines", len(items)))

	eventItems := make([]models.OrderLineData, 0, len(items))
	for _, item := range items {
		eventItems = append(eventItems, models.OrderLineData{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	if s.events != nil {
		if err := s.events.PublishOrderCreated(ctx, order, eventItems); err != nil {
			s.logger.Error("Failed to publish OrderCreated event", zap.Error(err))
		}
		// One product event per line, so the cache invalidator drops
		// the now-stale quantity for every product this order touched.
		for _, item := range items {
			if err := s.events.PublishProductEvent(ctx, models.EventTypeStockDecreased, item.ProductID); err != nil {
				s.logger.Error("Failed to publish StockDecreased event",
					zap.Int64("product_id", item.ProductID), zap.Error(err))
			}
		}
	}

	return order, nil
}

// Update validates and writes the header fields present in the request.
// Line items and stock are never touched here.
func (s *OrderService) Update(ctx context.Context, id int64, req *UpdateOrderRequest) error {
	v := validation.New()

	if req.PaymentMethod != nil {
		v.In("payment_method", *req.PaymentMethod, models.PaymentMethods, "Invalid payment method")
		v.MaxLength("payment_method", *req.PaymentMethod, 45)
	}
	if req.Address != nil {
		v.MinLength("address", *req.Address, 10)
	}
	if req.Status != nil {
		v.In("status", *req.Status, models.OrderStatuses, "Invalid order status")
		v.MaxLength("status", *req.Status, 45)
	}
	if req.TotalPrice != nil {
		v.Positive("total_price", *req.TotalPrice, "Total price must be positive")
	}
	if req.ShippingCost != nil {
		v.Min("shipping_cost", *req.ShippingCost, 0, "Shipping cost cannot be negative")
	}
	if !v.Valid() {
		return validationFailed(v.Errors())
	}

	order, err := s.store.GetOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNoRows) {
			return notFound("Record")
		}
		return internal("failed to load order", err)
	}

	if req.TotalPrice != nil {
		order.TotalPrice = *req.TotalPrice
	}
	if req.ShippingCost != nil {
		order.ShippingCost = *req.ShippingCost
	}
	if req.PaymentMethod != nil {
		order.PaymentMethod = *req.PaymentMethod
	}
	if req.Address != nil {
		order.Address = *req.Address
	}
	if req.Status != nil {
		order.Status = *req.Status
	}

	if err := s.store.UpdateOrder(ctx, order); err != nil {
		return internal("failed to update order", err)
	}
	return nil
}

// UpdateStatus writes a new status value. Any status from the fixed
// enum is accepted at any time; the workflow deliberately enforces no
// transition graph.
func (s *OrderService) UpdateStatus(ctx context.Context, id int64, status string) error {
	v := validation.New()
	v.Required("status", status)
	if status != "" {
		v.In("status", status, models.OrderStatuses, "Invalid order status")
	}
	if !v.Valid() {
		return validationFailed(v.Errors())
	}

	if _, err := s.store.GetOrderByID(ctx, id); err != nil {
		if errors.Is(err, store.ErrNoRows) {
			return notFound("Order")
		}
		return internal("failed to load order", err)
	}

	if err := s.store.UpdateOrderStatus(ctx, id, status); err != nil {
		return internal("failed to update order status", err)
	}

	util.OrderStatusUpdatesTotal.Inc()
	s.logger.Info("Order status updated",
		zap.Int64("order_id", id),
		zap.String("status", status))

	if s.events != nil {
		if err := s.events.PublishOrderStatusChanged(ctx, id, status); err != nil {
			s.logger.Error("Failed to publish OrderStatusChanged event", zap.Error(err))
		}
	}
	return nil
}

// GetByID retrieves an order header with its lines.
func (s *OrderService) GetByID(ctx context.Context, id int64) (*models.Order, []models.OrderProduct, error) {
	order, err := s.store.GetOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNoRows) {
			return nil, nil, notFound("Order")
		}
		return nil, nil, internal("failed to load order", err)
	}

	items, err := s.store.GetOrderItemsByOrderID(ctx, id)
	if err != nil {
		return nil, nil, internal("failed to load order lines", err)
	}
	return order, items, nil
}

// GetAll retrieves every order header.
func (s *OrderService) GetAll(ctx context.Context) ([]models.Order, error) {
	return s.store.GetOrders(ctx)
}

// GetByUserID retrieves a user's orders.
func (s *OrderService) GetByUserID(ctx context.Context, userID int64) ([]models.Order, error) {
	if userID <= 0 {
		return nil, invalidRequest("Invalid user ID", "user_id", "Invalid user ID")
	}
	return s.store.GetOrdersByUserID(ctx, userID)
}

// GetByStatus retrieves orders in one status.
func (s *OrderService) GetByStatus(ctx context.Context, status string) ([]models.Order, error) {
	v := validation.New()
	v.Required("status", status)
	if status != "" {
		v.In("status", status, models.OrderStatuses, "Invalid order status")
	}
	if !v.Valid() {
		return nil, validationFailed(v.Errors())
	}
	return s.store.GetOrdersByStatus(ctx, status)
}

// GetByDateRange retrieves orders created inside [start, end].
func (s *OrderService) GetByDateRange(ctx context.Context, start, end time.Time) ([]models.Order, error) {
	if start.IsZero() || end.IsZero() {
		return nil, invalidRequest(
			"Start date and end date are required",
			"date_range", "Start date and end date are required")
	}
	return s.store.GetOrdersByDateRange(ctx, start, end)
}

// GetAllWithUserInfo retrieves orders joined with user name/email.
func (s *OrderService) GetAllWithUserInfo(ctx context.Context) ([]models.OrderWithUser, error) {
	return s.store.GetOrdersWithUserInfo(ctx)
}

// Delete removes an order header.
func (s *OrderService) Delete(ctx context.Context, id int64) error {
	if _, err := s.store.GetOrderByID(ctx, id); err != nil {
		if errors.Is(err, store.ErrNoRows) {
			return notFound("Record")
		}
		return internal("failed to load order", err)
	}
	return s.store.DeleteOrder(ctx, id)
}
