package service

import (
	"context"
	"testing"
	"time"

	"watchify/internal/auth"
	"watchify/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authFixture(t *testing.T) (*fakeStore, *AuthService) {
	t.Helper()
	fs := newFakeStore()
	users := NewUserService(fs)
	tokens := auth.NewTokenService("test-secret", 24*time.Hour)
	return fs, NewAuthService(users, tokens, nil)
}

func TestRegisterAndLogin(t *testing.T) {
	_, svc := authFixture(t)

	user, err := svc.Register(context.Background(), &RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)
	assert.False(t, user.IsAdmin)

	result, err := svc.Login(context.Background(), &LoginRequest{
		Email:    "alice@example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, user.ID, result.User.ID)

	identity, err := auth.NewTokenService("test-secret", 24*time.Hour).Verify(result.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, identity.ID)
	assert.Equal(t, models.RoleUser, identity.Role)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	_, svc := authFixture(t)

	_, err := svc.Register(context.Background(), &RegisterRequest{
		Name: "Alice", Email: "alice@example.com", Password: "hunter22",
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), &RegisterRequest{
		Name: "Imposter", Email: "alice@example.com", Password: "different1",
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Email already registered", verr.Message)
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestLoginWrongPassword(t *testing.T) {
	_, svc := authFixture(t)

	_, err := svc.Register(context.Background(), &RegisterRequest{
		Name: "Alice", Email: "alice@example.com", Password: "hunter22",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), &LoginRequest{
		Email: "alice@example.com", Password: "wrong",
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Invalid credentials", verr.Message)
}

func TestLoginUnknownEmailSameError(t *testing.T) {
	_, svc := authFixture(t)

	_, err := svc.Login(context.Background(), &LoginRequest{
		Email: "ghost@example.com", Password: "whatever1",
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	// Indistinguishable from a wrong password.
	assert.Equal(t, "Invalid credentials", verr.Message)
}

func TestLoginAdminRoleInToken(t *testing.T) {
	fs, svc := authFixture(t)

	users := NewUserService(fs)
	_, err := users.Create(context.Background(), &CreateUserRequest{
		Name: "Root", Email: "root@example.com", Password: "hunter22", IsAdmin: true,
	})
	require.NoError(t, err)

	result, err := svc.Login(context.Background(), &LoginRequest{
		Email: "root@example.com", Password: "hunter22",
	})
	require.NoError(t, err)

	identity, err := auth.NewTokenService("test-secret", 24*time.Hour).Verify(result.Token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, identity.Role)
}
