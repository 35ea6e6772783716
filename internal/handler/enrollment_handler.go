package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sie-ecommerce/enrollment-api/internal/models"
	"github.com/sie-ecommerce/enrollment-api/internal/service"
	"github.com/sie-ecommerce/enrollment-api/pkg/errors"
	"github.com/sie-ecommerce/enrollment-api/pkg/response"
)

// EnrollmentHandler serves the selection session surface.
type EnrollmentHandler struct {
	enrollments *service.EnrollmentService
	metrics     *service.MetricsService
}

// NewEnrollmentHandler wires the handler.
func NewEnrollmentHandler(enrollments *service.EnrollmentService, metrics *service.MetricsService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments, metrics: metrics}
}

// bindSession decodes the request body and pins the session to the caller's
// unit and identity, so an operator can never write into another unit.
func (h *EnrollmentHandler) bindSession(c *gin.Context) (*models.SelectionSession, error) {
	claims, err := sessionClaims(c)
	if err != nil {
		return nil, err
	}

	var session models.SelectionSession
	if err := c.ShouldBindJSON(&session); err != nil {
		return nil, errors.Wrap(err, errors.ErrValidation.Code, errors.ErrValidation.Status, "invalid request body")
	}

	session.Unit = claims.Unit
	session.ActingUser = claims.Name
	return &session, nil
}

// Preview expands a session and runs the capacity gate without writing.
// @Summary Preview a selection session
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.SelectionSession true "selection session"
// @Success 200 {object} response.Envelope{data=models.BatchPreview}
// @Router /enrollments/preview [post]
func (h *EnrollmentHandler) Preview(c *gin.Context) {
	session, err := h.bindSession(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	preview, err := h.enrollments.Preview(c.Request.Context(), *session)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, preview, nil)
}

// Commit expands a session and persists what capacity allows.
// @Summary Commit a selection session
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.SelectionSession true "selection session"
// @Success 200 {object} response.Envelope{data=models.CommitResult}
// @Router /enrollments [post]
func (h *EnrollmentHandler) Commit(c *gin.Context) {
	session, err := h.bindSession(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.enrollments.Commit(c.Request.Context(), *session)
	if err != nil {
		response.Error(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.EnrollmentsCommitted.Add(float64(result.Succeeded))
		h.metrics.EnrollmentsFailed.Add(float64(result.Failed))
		if len(result.Shortfalls) > 0 {
			h.metrics.CapacityShortfalls.Inc()
		}
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// List returns the committed enrollments of the operator's unit.
// @Summary List committed enrollments
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope{data=[]models.Enrollment}
// @Router /enrollments [get]
func (h *EnrollmentHandler) List(c *gin.Context) {
	claims, err := sessionClaims(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	enrollments, err := h.enrollments.ListByUnit(c.Request.Context(), claims.Unit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollments, nil)
}

// Students returns the registered students of the operator's unit.
// @Summary List registered students
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope{data=[]models.Student}
// @Router /students [get]
func (h *EnrollmentHandler) Students(c *gin.Context) {
	claims, err := sessionClaims(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	students, err := h.enrollments.Students(c.Request.Context(), claims.Unit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, nil)
}

// Delete archives and removes the enrollment at a sheet position.
// @Summary Delete a committed enrollment
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param position path int true "sheet row position"
// @Success 204
// @Router /enrollments/{position} [delete]
func (h *EnrollmentHandler) Delete(c *gin.Context) {
	claims, err := sessionClaims(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	position, err := strconv.Atoi(c.Param("position"))
	if err != nil || position < 2 {
		response.Error(c, errors.Clone(errors.ErrValidation, "invalid row position"))
		return
	}

	unitScope := claims.Unit
	if claims.Role == models.RoleAdmin {
		unitScope = ""
	}
	if _, err := h.enrollments.Delete(c.Request.Context(), position, claims.Name, unitScope); err != nil {
		response.Error(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.EnrollmentsDeleted.Inc()
	}
	response.NoContent(c)
}
