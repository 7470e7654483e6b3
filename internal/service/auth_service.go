package service

import (
	"context"
	"errors"

	"watchify/internal/auth"
	"watchify/internal/broker"
	"watchify/internal/models"
	"watchify/internal/util"
	"watchify/internal/validation"

	"go.uber.org/zap"
)

// AuthService handles registration and login on top of the user
// service and the token issuer.
type AuthService struct {
	users  *UserService
	tokens *auth.TokenService
	events *broker.EventPublisher
	logger *zap.Logger
}

func NewAuthService(users *UserService, tokens *auth.TokenService, events *broker.EventPublisher) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		events: events,
		logger: util.GetLogger(),
	}
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult is the token plus the authenticated account.
type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func roleOf(user *models.User) string {
	if user.IsAdmin {
		return models.RoleAdmin
	}
	return models.RoleUser
}

// Register creates a non-admin account and publishes the registration
// event. Self-registration can never grant the admin role.
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	user, err := s.users.Create(ctx, &CreateUserRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Address:  req.Address,
		IsAdmin:  false,
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, emailTaken("Email already registered")
		}
		return nil, err
	}

	if s.events != nil {
		if perr := s.events.PublishUserRegistered(ctx, user.ID, user.Email); perr != nil {
			s.logger.Error("Failed to publish user registered event",
				zap.Int64("user_id", user.ID), zap.Error(perr))
		}
	}
	return user, nil
}

// Login verifies credentials and issues a signed token. Unknown email
// and wrong password produce the same error so the response does not
// reveal which accounts exist.
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*AuthResult, error) {
	v := validation.New()
	v.Required("email", req.Email)
	v.Required("password", req.Password)
	if !v.Valid() {
		return nil, validationFailed(v.Errors())
	}

	user, err := s.users.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, internal("failed to load user", err)
	}
	if user == nil || !s.users.VerifyPassword(user, req.Password) {
		util.LoginsFailedTotal.Inc()
		return nil, invalidRequest("Invalid credentials", "credentials", "Email or password is incorrect")
	}

	token, err := s.tokens.Issue(auth.Identity{
		ID:    user.ID,
		Email: user.Email,
		Role:  roleOf(user),
	})
	if err != nil {
		return nil, internal("failed to issue token", err)
	}

	util.LoginsTotal.Inc()
	s.logger.Info("User logged in", zap.Int64("user_id", user.ID))
	return &AuthResult{Token: token, User: user}, nil
}
