package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sie-ecommerce/enrollment-api/internal/models"
	"github.com/sie-ecommerce/enrollment-api/pkg/errors"
	"github.com/sie-ecommerce/enrollment-api/pkg/response"
)

// ContextClaimsKey is the gin context key holding the session claims.
const ContextClaimsKey = "session_claims"

type tokenValidator interface {
	ValidateToken(token string) (*models.Claims, error)
}

// JWT validates the bearer token and stores its claims on the context.
func JWT(auth tokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, errors.Clone(errors.ErrUnauthorized, "missing authorization header"))
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, errors.Clone(errors.ErrUnauthorized, "malformed authorization header"))
			c.Abort()
			return
		}

		claims, err := auth.ValidateToken(parts[1])
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextClaimsKey, claims)
		c.Next()
	}
}

// RequireRole blocks requests whose session lacks the given role.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, ok := c.Get(ContextClaimsKey)
		if !ok {
			response.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}
		claims, ok := value.(*models.Claims)
		if !ok || claims.Role != role {
			response.Error(c, errors.Clone(errors.ErrForbidden, "admin access required"))
			c.Abort()
			return
		}
		c.Next()
	}
}
