package broker

import (
	"context"
	"fmt"
	"time"

	"watchify/internal/models"

	"github.com/google/uuid"
)

// EventPublisher routes domain events to their topics. Publishing is
// best-effort: callers log failures and never fail the request on them.
type EventPublisher struct {
	orders   *Producer
	products *Producer
	users    *Producer
}

func NewEventPublisher(orders, products, users *Producer) *EventPublisher {
	return &EventPublisher{orders: orders, products: products, users: users}
}

func newBase(eventType string) models.BaseEvent {
	return models.BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: time.Now(),
	}
}

// PublishUserRegistered publishes a registration event.
func (ep *EventPublisher) PublishUserRegistered(ctx context.Context, userID int64, email string) error {
	event := models.UserRegisteredEvent{
		BaseEvent: newBase(models.EventTypeUserRegistered),
		UserID:    userID,
		Email:     email,
	}
	return ep.users.Publish(ctx, fmt.Sprintf("user-%d", userID), event)
}

// PublishOrderCreated publishes the committed order with its lines.
func (ep *EventPublisher) PublishOrderCreated(ctx context.Context, order *models.Order, items []models.OrderLineData) error {
	event := models.OrderCreatedEvent{
		BaseEvent:  newBase(models.EventTypeOrderCreated),
		OrderID:    order.ID,
		UserID:     order.UserID,
		TotalPrice: order.TotalPrice,
		Items:      items,
	}
	return ep.orders.Publish(ctx, fmt.Sprintf("order-%d", order.ID), event)
}

// PublishOrderStatusChanged publishes a status write.
func (ep *EventPublisher) PublishOrderStatusChanged(ctx context.Context, orderID int64, status string) error {
	event := models.OrderStatusChangedEvent{
		BaseEvent: newBase(models.EventTypeOrderStatusChanged),
		OrderID:   orderID,
		Status:    status,
	}
	return ep.orders.Publish(ctx, fmt.Sprintf("order-%d", orderID), event)
}

// PublishProductEvent publishes a product change so the cache worker
// can invalidate.
func (ep *EventPublisher) PublishProductEvent(ctx context.Context, eventType string, productID int64) error {
	event := models.ProductEvent{
		BaseEvent: newBase(eventType),
		ProductID: productID,
	}
	return ep.products.Publish(ctx, fmt.Sprintf("product-%d", productID), event)
}
