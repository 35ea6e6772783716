package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sie-ecommerce/enrollment-api/internal/service"
	"github.com/sie-ecommerce/enrollment-api/pkg/response"
)

// ModalityHandler serves per-unit seat snapshots.
type ModalityHandler struct {
	modalities *service.ModalityService
}

// NewModalityHandler wires the handler.
func NewModalityHandler(modalities *service.ModalityService) *ModalityHandler {
	return &ModalityHandler{modalities: modalities}
}

// List returns the seat snapshot of the operator's unit. With ?ra= it is
// narrowed to what that student may still pick, and ?gender= narrows to
// modalities whose tag admits that gender.
// @Summary List modalities with seat accounting
// @Tags modalities
// @Produce json
// @Security BearerAuth
// @Param ra query string false "filter to what this student may pick"
// @Param gender query string false "filter by gender tag (M, F)"
// @Success 200 {object} response.Envelope{data=[]models.SeatView}
// @Router /modalities [get]
func (h *ModalityHandler) List(c *gin.Context) {
	claims, err := sessionClaims(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	gender := c.Query("gender")

	if ra := c.Query("ra"); ra != "" {
		views, err := h.modalities.OfferableFor(c.Request.Context(), claims.Unit, gender, ra)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, views, nil)
		return
	}

	views, err := h.modalities.SeatViews(c.Request.Context(), claims.Unit, gender)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, views, nil)
}
