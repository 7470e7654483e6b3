package auth

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// The source system reads its bearer token from the non-standard
// "Authentication" header. Preserved for client compatibility.
const HeaderName = "Authentication"

const identityKey = "identity"

func reject(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"message": message,
	})
}

// Middleware wires the token service into gin handler chains.
type Middleware struct {
	tokens *TokenService
}

func NewMiddleware(tokens *TokenService) *Middleware {
	return &Middleware{tokens: tokens}
}

// Authenticate requires a valid, non-expired bearer token and stores
// the caller identity in the request context.
func (m *Middleware) Authenticate(c *gin.Context) {
	header := c.GetHeader(HeaderName)
	if header == "" {
		reject(c, http.StatusUnauthorized, "Missing authentication header")
		return
	}

	raw := strings.TrimPrefix(header, "Bearer ")
	if raw == "" {
		reject(c, http.StatusUnauthorized, "Invalid authentication token")
		return
	}

	identity, err := m.tokens.Verify(raw)
	if err != nil {
		switch {
		case errors.Is(err, ErrTokenExpired):
			reject(c, http.StatusUnauthorized, "Token has expired")
		case errors.Is(err, ErrInvalidSignature):
			reject(c, http.StatusUnauthorized, "Invalid token signature")
		default:
			reject(c, http.StatusUnauthorized, "Token validation failed")
		}
		return
	}

	c.Set(identityKey, identity)
	c.Next()
}

// RequireAdmin allows only callers whose token role is admin.
func (m *Middleware) RequireAdmin(c *gin.Context) {
	identity := CurrentUser(c)
	if identity == nil || identity.Role != "admin" {
		reject(c, http.StatusForbidden, "Access denied: insufficient privileges")
		return
	}
	c.Next()
}

// RequireSelfOrAdmin allows admins, or regular users whose id matches
// the named path parameter.
func (m *Middleware) RequireSelfOrAdmin(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := CurrentUser(c)
		if identity == nil {
			reject(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		if identity.Role == "admin" {
			c.Next()
			return
		}

		id, err := strconv.ParseInt(c.Param(param), 10, 64)
		if err != nil || identity.ID != id {
			reject(c, http.StatusForbidden, "Access denied: cannot access other user data")
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated identity, or nil outside the
// authenticated chain.
func CurrentUser(c *gin.Context) *Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	identity, ok := v.(*Identity)
	if !ok {
		return nil
	}
	return identity
}

// AllowOwnerOrAdmin reports whether the caller may read a resource
// owned by ownerID; used where ownership is only known after loading
// the resource.
func AllowOwnerOrAdmin(c *gin.Context, ownerID int64) bool {
	identity := CurrentUser(c)
	if identity == nil {
		return false
	}
	return identity.Role == "admin" || identity.ID == ownerID
}
