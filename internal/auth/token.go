// Package auth is the authentication gate: HS256 token issue/verify
// and the gin middlewares that enforce route-level policies.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token verification failures, distinguished so the API layer can name
// the reason in its 401 response.
var (
	ErrMissingToken     = errors.New("missing authentication header")
	ErrTokenExpired     = errors.New("token has expired")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrTokenMalformed   = errors.New("token validation failed")
)

// Identity is the authenticated caller snapshot embedded in the token.
// The role is derived from is_admin once at login and stays fixed for
// the token's lifetime; role changes only take effect on re-login.
type Identity struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Claims is the token payload: the user snapshot plus issued-at/expiry.
type Claims struct {
	User Identity `json:"user"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed bearer tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a token service with the given HS256 secret
// and token lifetime.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token carrying the identity snapshot.
func (ts *TokenService) Issue(identity Identity) (string, error) {
	now := time.Now()
	claims := Claims{
		User: identity,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(ts.secret)
}

// Verify parses and validates a raw token, returning the embedded
// identity or one of the package's sentinel errors.
func (ts *TokenService) Verify(raw string) (*Identity, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, ErrInvalidSignature
		}
		return ts.secret, nil
	})

	switch {
	case err == nil && token.Valid:
		return &claims.User, nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrTokenExpired
	case errors.Is(err, jwt.ErrSignatureInvalid), errors.Is(err, ErrInvalidSignature):
		return nil, ErrInvalidSignature
	default:
		return nil, ErrTokenMalformed
	}
}
