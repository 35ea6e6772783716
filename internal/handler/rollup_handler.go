package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sie-ecommerce/enrollment-api/internal/models"
	"github.com/sie-ecommerce/enrollment-api/internal/service"
	"github.com/sie-ecommerce/enrollment-api/pkg/errors"
	"github.com/sie-ecommerce/enrollment-api/pkg/response"
)

// RollupHandler serves the cross-unit admin report and its exports.
type RollupHandler struct {
	rollup  *service.RollupService
	exports *service.ExportService
	metrics *service.MetricsService
}

// NewRollupHandler wires the handler.
func NewRollupHandler(rollup *service.RollupService, exports *service.ExportService, metrics *service.MetricsService) *RollupHandler {
	return &RollupHandler{rollup: rollup, exports: exports, metrics: metrics}
}

// Report returns the filtered cross-unit enrollment view.
// @Summary Cross-unit enrollment report
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param units query []string false "filter by unit"
// @Param modalities query []string false "filter by modality"
// @Param cohorts query []string false "filter by cohort"
// @Param search query string false "match student name or RA"
// @Success 200 {object} response.Envelope{data=models.RollupReport}
// @Router /admin/rollup [get]
func (h *RollupHandler) Report(c *gin.Context) {
	var filter models.RollupFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, errors.Wrap(err, errors.ErrValidation.Code, errors.ErrValidation.Status, "invalid filter"))
		return
	}

	report, err := h.rollup.Report(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// RequestExport queues an asynchronous CSV or PDF export of the report.
// @Summary Request a rollup export
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.ExportRequest true "export request"
// @Success 201 {object} response.Envelope{data=models.ExportJob}
// @Router /admin/rollup/exports [post]
func (h *RollupHandler) RequestExport(c *gin.Context) {
	claims, err := sessionClaims(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req models.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errors.Wrap(err, errors.ErrValidation.Code, errors.ErrValidation.Status, "invalid request body"))
		return
	}

	job, err := h.exports.Request(c.Request.Context(), req, claims.Name)
	if err != nil {
		response.Error(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.ExportsRequested.Inc()
	}
	response.Created(c, job)
}

// GetExport reports the state of an export job.
// @Summary Get an export job
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "job id"
// @Success 200 {object} response.Envelope{data=models.ExportJob}
// @Router /admin/rollup/exports/{id} [get]
func (h *RollupHandler) GetExport(c *gin.Context) {
	job, err := h.exports.Get(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, job, nil)
}

// Download streams a finished export through its signed token. The token is
// self-authenticating, so this route sits outside the JWT middleware.
// @Summary Download a finished export
// @Tags admin
// @Produce octet-stream
// @Param token query string true "signed download token"
// @Success 200 {file} file
// @Router /downloads [get]
func (h *RollupHandler) Download(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, errors.Clone(errors.ErrValidation, "missing download token"))
		return
	}

	job, relPath, err := h.exports.OpenDownload(token)
	if err != nil {
		response.Error(c, err)
		return
	}

	file, err := h.exports.Storage().Open(relPath)
	if err != nil {
		response.Error(c, errors.Clone(errors.ErrNotFound, "export file not found"))
		return
	}
	defer func() { _ = file.Close() }()

	info, err := file.Stat()
	if err != nil {
		response.Error(c, err)
		return
	}

	contentType := "text/csv"
	if job.Format == models.ExportFormatPDF {
		contentType = "application/pdf"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", job.FileName))
	c.DataFromReader(http.StatusOK, info.Size(), contentType, file, nil)
}
