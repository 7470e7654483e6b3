package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"watchify/internal/models"
)

// CreateUser inserts a user and fills in id and timestamps.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (name, email, password, is_admin, phone, address)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	return s.db.QueryRowxContext(ctx, query,
		user.Name, user.Email, user.Password, user.IsAdmin, user.Phone, user.Address).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

// GetUserByID retrieves a user by ID.
func (s *Store) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, "SELECT * FROM users WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w", id, ErrNoRows)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email. Returns nil, nil when no
// user has the address, so callers can distinguish absence from errors.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, "SELECT * FROM users WHERE email = $1", email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUsers retrieves all users.
func (s *Store) GetUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db.SelectContext(ctx, &users, "SELECT * FROM users ORDER BY id")
	return users, err
}

// UpdateUser writes the mutable user columns.
func (s *Store) UpdateUser(ctx context.Context, user *models.User) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET name = $1, email = $2, password = $3, is_admin = $4,
		    phone = $5, address = $6, updated_at = NOW()
		WHERE id = $7`,
		user.Name, user.Email, user.Password, user.IsAdmin,
		user.Phone, user.Address, user.ID)
	return err
}

// UpdateUserPassword writes a new password hash.
func (s *Store) UpdateUserPassword(ctx context.Context, id int64, hash string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE users SET password = $1, updated_at = NOW() WHERE id = $2", hash, id)
	return err
}

// DeleteUser removes a user row.
func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM users WHERE id = $1", id)
	return err
}
