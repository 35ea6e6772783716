package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sie-ecommerce/enrollment-api/internal/models"
	"github.com/sie-ecommerce/enrollment-api/internal/service"
	"github.com/sie-ecommerce/enrollment-api/pkg/errors"
	"github.com/sie-ecommerce/enrollment-api/pkg/response"
)

// AuthHandler serves login and admin unlock.
type AuthHandler struct {
	auth    *service.AuthService
	metrics *service.MetricsService
}

// NewAuthHandler wires the handler.
func NewAuthHandler(auth *service.AuthService, metrics *service.MetricsService) *AuthHandler {
	return &AuthHandler{auth: auth, metrics: metrics}
}

// Login authenticates an operator by email and phone.
// @Summary Operator login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "credentials"
// @Success 200 {object} response.Envelope{data=models.LoginResponse}
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errors.Wrap(err, errors.ErrValidation.Code, errors.ErrValidation.Status, "invalid request body"))
		return
	}

	resp, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		if h.metrics != nil {
			h.metrics.LoginAttempts.WithLabelValues("failure").Inc()
		}
		response.Error(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.LoginAttempts.WithLabelValues("success").Inc()
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// AdminUnlock upgrades the current session to admin.
// @Summary Unlock the cross-unit admin surface
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.AdminUnlockRequest true "admin password"
// @Success 200 {object} response.Envelope{data=models.AdminUnlockResponse}
// @Router /auth/admin/unlock [post]
func (h *AuthHandler) AdminUnlock(c *gin.Context) {
	claims, err := sessionClaims(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req models.AdminUnlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errors.Wrap(err, errors.ErrValidation.Code, errors.ErrValidation.Status, "invalid request body"))
		return
	}

	resp, err := h.auth.AdminUnlock(c.Request.Context(), *claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}
