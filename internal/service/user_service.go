package service

import (
	"context"
	"errors"

	"watchify/internal/models"
	"watchify/internal/store"
	"watchify/internal/util"
	"watchify/internal/validation"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserStore is the persistence surface of the user service.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	UpdateUserPassword(ctx context.Context, id int64, hash string) error
	DeleteUser(ctx context.Context, id int64) error
}

// UserService manages user accounts. Passwords are stored as bcrypt
// hashes and never leave the store layer in responses.
type UserService struct {
	store  UserStore
	logger *zap.Logger
}

func NewUserService(store UserStore) *UserService {
	return &UserService{store: store, logger: util.GetLogger()}
}

type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	IsAdmin  bool   `json:"is_admin"`
}

// UpdateUserRequest is a partial update; nil fields were absent.
// Password changes go through UpdatePassword instead.
type UpdateUserRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	IsAdmin *bool   `json:"is_admin"`
}

func validateUserFields(v *validation.Validator, name, email, phone *string) {
	if name != nil {
		v.MinLength("name", *name, 2)
		v.MaxLength("name", *name, 100)
	}
	if email != nil {
		v.Email("email", *email)
		v.MaxLength("email", *email, 100)
	}
	if phone != nil && *phone != "" {
		v.MaxLength("phone", *phone, 20)
	}
}

// Create validates the payload, hashes the password and persists the
// account. Emails are unique.
func (s *UserService) Create(ctx context.Context, req *CreateUserRequest) (*models.User, error) {
	v := validation.New()
	v.Required("name", req.Name)
	v.Required("email", req.Email)
	v.Required("password", req.Password)
	v.MinLengthMsg("password", req.Password, 6, "Password must be at least 6 characters")
	validateUserFields(v, &req.Name, &req.Email, &req.Phone)
	if !v.Valid() {
		return nil, validationFailed(v.Errors())
	}

	existing, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, internal("failed to check email", err)
	}
	if existing != nil {
		return nil, emailTaken("Email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, internal("failed to hash password", err)
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hash),
		Phone:    req.Phone,
		Address:  req.Address,
		IsAdmin:  req.IsAdmin,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, internal("failed to create user", err)
	}

	s.logger.Info("User created", zap.Int64("user_id", user.ID), zap.String("email", user.Email))
	return user, nil
}

// Update writes the fields present in the request.
func (s *UserService) Update(ctx context.Context, id int64, req *UpdateUserRequest) error {
	v := validation.New()
	validateUserFields(v, req.Name, req.Email, req.Phone)
	if !v.Valid() {
		return validationFailed(v.Errors())
	}

	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNoRows) {
			return notFound("Record")
		}
		return internal("failed to load user", err)
	}

	if req.Email != nil && *req.Email != user.Email {
		existing, err := s.store.GetUserByEmail(ctx, *req.Email)
		if err != nil {
			return internal("failed to check email", err)
		}
		if existing != nil {
			return emailTaken("Email already exists")
		}
		user.Email = *req.Email
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Address != nil {
		user.Address = *req.Address
	}
	if req.IsAdmin != nil {
		user.IsAdmin = *req.IsAdmin
	}

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return internal("failed to update user", err)
	}
	return nil
}

// UpdatePassword rehashes and writes a new password.
func (s *UserService) UpdatePassword(ctx context.Context, id int64, password string) error {
	v := validation.New()
	v.Required("password", password)
	v.MinLengthMsg("password", password, 6, "Password must be at least 6 characters")
	if !v.Valid() {
		return validationFailed(v.Errors())
	}

	if _, err := s.store.GetUserByID(ctx, id); err != nil {
		if errors.Is(err, store.ErrNoRows) {
			return notFound("User")
		}
		return internal("failed to load user", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return internal("failed to hash password", err)
	}
	if err := s.store.UpdateUserPassword(ctx, id, string(hash)); err != nil {
		return internal("failed to update password", err)
	}
	return nil
}

// VerifyPassword checks a plaintext password against the stored hash.
func (s *UserService) VerifyPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) == nil
}

// GetByID retrieves a single user.
func (s *UserService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNoRows) {
			return nil, notFound("User")
		}
		return nil, internal("failed to load user", err)
	}
	return user, nil
}

// GetByEmail retrieves a user by email.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, internal("failed to load user", err)
	}
	if user == nil {
		return nil, notFound("User")
	}
	return user, nil
}

// GetAll retrieves every user.
func (s *UserService) GetAll(ctx context.Context) ([]models.User, error) {
	return s.store.GetUsers(ctx)
}

// Delete removes a user.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if _, err := s.store.GetUserByID(ctx, id); err != nil {
		if errors.Is(err, store.ErrNoRows) {
			return notFound("Record")
		}
		return internal("failed to load user", err)
	}
	if err := s.store.DeleteUser(ctx, id); err != nil {
		return internal("failed to delete user", err)
	}
	return nil
}
