// Package portal exposes the analysis pipeline over HTTP.
package portal

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"carbon-intel/campaign-portal/campaign-portal-backend/internal/analysis"
	"carbon-intel/campaign-portal/campaign-portal-backend/internal/export"
	"carbon-intel/campaign-portal/campaign-portal-backend/internal/ingest"
)

// MaxUploadBytes caps campaign report uploads.
const MaxUploadBytes = 64 << 20

// Handler handles HTTP requests for campaign carbon analyses.
type Handler struct {
	service *analysis.Service
	logger  *zap.Logger
}

// NewHandler creates an analyses handler.
func NewHandler(service *analysis.Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers analysis routes.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	analyses := router.Group("/analyses")
	{
		analyses.POST("", h.createAnalysis)
		analyses.GET("/:id", h.getAnalysis)
		analyses.GET("/:id/rows", h.getAnalysisRows)
		analyses.GET("/:id/export", h.exportAnalysis)
	}
	router.GET("/factors", h.getFactors)
}

// createAnalysis handles POST /api/v1/analyses: a multipart upload of a
// CSV/Excel campaign report. The response carries the summary and scenario
// projections; rows are fetched separately.
func (h *Handler) createAnalysis(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxUploadBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field 'file' is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer file.Close()

	dataset, err := ingest.ReadFile(fileHeader.Filename, file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("could not parse %s: %v", fileHeader.Filename, err)})
		return
	}

	result, err := h.service.Analyze(c.Request.Context(), fileHeader.Filename, dataset)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, analysis.ErrImpressionsColumn):
			// Configuration problem: the upload has no mappable
			// impressions column.
			status = http.StatusUnprocessableEntity
		case errors.Is(err, analysis.ErrNoUsableRows):
			// Data problem: nothing left after filtering.
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":               result.ID,
		"created_at":       result.CreatedAt,
		"file_name":        result.FileName,
		"resolved_columns": result.Resolved,
		"summary":          result.Summary,
		"scenarios":        result.Scenarios,
		"insights":         result.Insights,
	})
}

// getAnalysis handles GET /api/v1/analyses/:id.
func (h *Handler) getAnalysis(c *gin.Context) {
	result, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, result)
}

// getAnalysisRows handles GET /api/v1/analyses/:id/rows.
func (h *Handler) getAnalysisRows(c *gin.Context) {
	result, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": result.ID, "rows": result.Rows})
}

// exportAnalysis handles GET /api/v1/analyses/:id/export?format=csv|xlsx|pdf.
func (h *Handler) exportAnalysis(c *gin.Context) {
	result, ok := h.lookup(c)
	if !ok {
		return
	}

	format := c.DefaultQuery("format", "csv")
	stamp := time.Now().Format("20060102_150405")
	var buf bytes.Buffer
	var contentType, fileName string
	var err error

	switch format {
	case "csv":
		contentType = "text/csv"
		fileName = fmt.Sprintf("carbon_analysis_%s.csv", stamp)
		err = export.WriteCSV(&buf, result, export.DefaultCSVOptions())
	case "xlsx":
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		fileName = fmt.Sprintf("carbon_analysis_%s.xlsx", stamp)
		err = export.WriteExcel(&buf, result, export.DefaultExcelOptions())
	case "pdf":
		contentType = "application/pdf"
		fileName = fmt.Sprintf("carbon_report_%s.pdf", stamp)
		err = export.WritePDF(&buf, result, export.DefaultPDFOptions())
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unsupported export format: %s", format)})
		return
	}
	if err != nil {
		h.logger.Error("Export failed",
			zap.String("analysis_id", result.ID.String()),
			zap.String("format", format),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

// getFactors handles GET /api/v1/factors.
func (h *Handler) getFactors(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Tables())
}

// lookup parses the :id param and fetches the stored result, writing the
// error response itself when either step fails.
func (h *Handler) lookup(c *gin.Context) (*analysis.Result, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid analysis id"})
		return nil, false
	}
	result, ok := h.service.Get(c.Request.Context(), id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "analysis not found or expired"})
		return nil, false
	}
	return result, true
}
