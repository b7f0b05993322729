package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cardano-explorer.backend/internal/domain/entities"
	"cardano-explorer.backend/pkg/jwt"
	"cardano-explorer.backend/pkg/logger"
)

const (
	// AuthorizationHeader is the header key for authorization
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the prefix for bearer tokens
	BearerPrefix = "Bearer "
	// IdentityKey is the context key for the resolved caller
	IdentityKey = "identity"
)

// TokenVerifier validates a bearer token
type TokenVerifier interface {
	Verify(token string) (*jwt.Claims, error)
}

// UserEnsurer creates or refreshes the local user row for an identity
type UserEnsurer interface {
	EnsureUser(ctx context.Context, identity entities.Identity) (*entities.User, error)
}

// Authenticate resolves the caller from a bearer token. It never rejects:
// requests with a missing or unusable token continue anonymously.
func Authenticate(verifier TokenVerifier, users UserEnsurer) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthorizationHeader)
		if !strings.HasPrefix(authHeader, BearerPrefix) {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		claims, err := verifier.Verify(strings.TrimSpace(strings.TrimPrefix(authHeader, BearerPrefix)))
		if err != nil {
			logger.Debug(ctx, "Ignoring bearer token", zap.String("path", c.Request.URL.Path), zap.Error(err))
			c.Next()
			return
		}

		user, err := users.EnsureUser(ctx, entities.Identity{UserID: claims.Subject, Email: claims.Email})
		if err != nil {
			logger.Error(ctx, "Failed to sync authenticated user", zap.String("user_id", claims.Subject), zap.Error(err))
			c.Next()
			return
		}

		c.Set(IdentityKey, &entities.Identity{UserID: user.ID, Email: user.Email})
		c.Next()
	}
}

// RequireAuth rejects requests without a resolved identity
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetIdentity(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "Authentication required",
				"message": "Please log in to access this resource",
			})
			return
		}
		c.Next()
	}
}

// GetIdentity returns the caller resolved by Authenticate
func GetIdentity(c *gin.Context) (*entities.Identity, bool) {
	v, exists := c.Get(IdentityKey)
	if !exists {
		return nil, false
	}
	identity, ok := v.(*entities.Identity)
	return identity, ok && identity != nil
}
