package models

import "time"

// Event types
const (
	EventTypeUserRegistered     = "USER_REGISTERED"
	EventTypeOrderCreated       = "ORDER_CREATED"
	EventTypeOrderStatusChanged = "ORDER_STATUS_CHANGED"
	EventTypeProductUpserted    = "PRODUCT_UPSERTED"
	EventTypeProductDeleted     = "PRODUCT_DELETED"
	EventTypeStockDecreased     = "STOCK_DECREASED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// UserRegisteredEvent published after a successful registration
type UserRegisteredEvent struct {
	BaseEvent
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
}

// OrderCreatedEvent published when an order and its lines are committed
type OrderCreatedEvent struct {
	BaseEvent
	OrderID    int64           `json:"order_id"`
	UserID     int64           `json:"user_id"`
	TotalPrice float64         `json:"total_price"`
	Items      []OrderLineData `json:"items"`
}

// OrderStatusChangedEvent published when an order status is written
type OrderStatusChangedEvent struct {
	BaseEvent
	OrderID int64  `json:"order_id"`
	Status  string `json:"status"`
}

// ProductEvent published on product create/update/delete and on stock
// decrements; the cache worker invalidates on these.
type ProductEvent struct {
	BaseEvent
	ProductID int64 `json:"product_id"`
}

// OrderLineData represents line data carried inside events
type OrderLineData struct {
	ProductID int64   `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}
