package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"watchify/internal/models"
)

// CreateOrderWithItems persists an order header, its lines, and the
// matching stock decrements as a single transaction. The source system
// ran these as sequential statements with a best-effort header delete
// on failure; the transaction subsumes that compensation: on any
// failure the caller observes no order, no lines, and unchanged stock.
//
// Each line's decrement keeps the conditional quantity guard, so a
// concurrent order that drained stock between the caller's availability
// check and this commit surfaces as ErrInsufficientStock and rolls the
// whole order back.
func (s *Store) CreateOrderWithItems(ctx context.Context, order *models.Order, items []models.OrderProduct) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRowxContext(ctx, `
		INSERT INTO orders (user_id, total_price, shipping_cost, payment_method, address, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`,
		order.UserID, order.TotalPrice, order.ShippingCost,
		order.PaymentMethod, order.Address, order.Status).
		Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for i := range items {
		items[i].OrderID = order.ID

		err = tx.QueryRowxContext(ctx, `
			INSERT INTO order_product (order_id, product_id, quantity, unit_price)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at`,
			items[i].OrderID, items[i].ProductID, items[i].Quantity, items[i].UnitPrice).
			Scan(&items[i].ID, &items[i].CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert order line: %w", err)
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE products
			SET quantity = quantity - $1, updated_at = NOW()
			WHERE id = $2 AND quantity >= $1`,
			items[i].Quantity, items[i].ProductID)
		if err != nil {
			return fmt.Errorf("failed to decrease stock: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return fmt.Errorf("product %d: %w", items[i].ProductID, ErrInsufficientStock)
		}
	}

	return tx.Commit()
}

// GetOrderByID retrieves an order header by ID.
func (s *Store) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order, "SELECT * FROM orders WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("order %d: %w", id, ErrNoRows)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrders retrieves all order headers, newest first.
func (s *Store) GetOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.SelectContext(ctx, &orders, "SELECT * FROM orders ORDER BY created_at DESC")
	return orders, err
}

// GetOrdersByUserID retrieves a user's orders, newest first.
func (s *Store) GetOrdersByUserID(ctx context.Context, userID int64) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.SelectContext(ctx, &orders,
		"SELECT * FROM orders WHERE user_id = $1 ORDER BY created_at DESC", userID)
	return orders, err
}

// GetOrdersByStatus retrieves orders in a given status, newest first.
func (s *Store) GetOrdersByStatus(ctx context.Context, status string) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.SelectContext(ctx, &orders,
		"SELECT * FROM orders WHERE status = $1 ORDER BY created_at DESC", status)
	return orders, err
}

// GetOrdersByDateRange retrieves orders created inside [start, end].
func (s *Store) GetOrdersByDateRange(ctx context.Context, start, end time.Time) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.SelectContext(ctx, &orders,
		"SELECT * FROM orders WHERE created_at BETWEEN $1 AND $2 ORDER BY created_at DESC",
		start, end)
	return orders, err
}

// GetOrdersWithUserInfo retrieves all orders joined with the owning
// user's name and email, newest first.
func (s *Store) GetOrdersWithUserInfo(ctx context.Context) ([]models.OrderWithUser, error) {
	var orders []models.OrderWithUser
	err := s.db.SelectContext(ctx, &orders, `
		SELECT o.*, u.name AS user_name, u.email AS user_email
		FROM orders o
		INNER JOIN users u ON o.user_id = u.id
		ORDER BY o.created_at DESC`)
	return orders, err
}

// GetOrderItemsByOrderID retrieves all lines of an order.
func (s *Store) GetOrderItemsByOrderID(ctx context.Context, orderID int64) ([]models.OrderProduct, error) {
	var items []models.OrderProduct
	err := s.db.SelectContext(ctx, &items,
		"SELECT * FROM order_product WHERE order_id = $1 ORDER BY id", orderID)
	return items, err
}

// UpdateOrder writes the mutable header columns.
func (s *Store) UpdateOrder(ctx context.Context, order *models.Order) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE orders
		SET total_price = $1, shipping_cost = $2, payment_method = $3,
		    address = $4, status = $5, updated_at = NOW()
		WHERE id = $6`,
		order.TotalPrice, order.ShippingCost, order.PaymentMethod,
		order.Address, order.Status, order.ID)
	return err
}

// UpdateOrderStatus writes status and updated_at only.
func (s *Store) UpdateOrderStatus(ctx context.Context, id int64, status string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2", status, id)
	return err
}

// DeleteOrder removes an order header.
func (s *Store) DeleteOrder(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM orders WHERE id = $1", id)
	return err
}
