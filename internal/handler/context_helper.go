package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/sie-ecommerce/enrollment-api/internal/middleware"
	"github.com/sie-ecommerce/enrollment-api/internal/models"
	"github.com/sie-ecommerce/enrollment-api/pkg/errors"
)

// sessionClaims extracts the authenticated session from the gin context.
func sessionClaims(c *gin.Context) (*models.Claims, error) {
	value, ok := c.Get(middleware.ContextClaimsKey)
	if !ok {
		return nil, errors.ErrUnauthorized
	}
	claims, ok := value.(*models.Claims)
	if !ok {
		return nil, errors.ErrUnauthorized
	}
	return claims, nil
}
