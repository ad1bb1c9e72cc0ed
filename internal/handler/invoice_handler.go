package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/erpbridge/invoice-intake/internal/export"
	"github.com/erpbridge/invoice-intake/internal/models"
	"github.com/erpbridge/invoice-intake/internal/upsert"
	"github.com/erpbridge/invoice-intake/internal/validation"
)

// InvoiceHandler handles vendor invoice HTTP requests
type InvoiceHandler struct {
	validator *validation.Validator
	engine    *upsert.Engine
	exporter  *export.ExcelExporter
	logger    *zap.Logger
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(
	validator *validation.Validator,
	engine *upsert.Engine,
	exporter *export.ExcelExporter,
	logger *zap.Logger,
) *InvoiceHandler {
	return &InvoiceHandler{
		validator: validator,
		engine:    engine,
		exporter:  exporter,
		logger:    logger,
	}
}

// ErrorResponse is the JSON body for failed requests.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Upsert handles POST /api/v1/invoices/upsert. Validation failures map to
// 400, store failures to 500. Unknown JSON fields are ignored; missing
// optional fields take their documented defaults.
func (h *InvoiceHandler) Upsert(c *gin.Context) {
	var rec models.VendorInvoiceRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		h.logger.Warn("Failed to parse invoice payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid JSON payload"})
		return
	}

	validated, err := h.validator.Validate(&rec)
	if err != nil {
		if validation.IsValidationError(err) {
			h.logger.Info("Invoice rejected by validation",
				zap.String("invoice_id", rec.InvoiceID),
				zap.String("reason", err.Error()))
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		h.logger.Error("Referential check failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	outcome, err := h.engine.Apply(c.Request.Context(), validated)
	if err != nil {
		h.logger.Error("Upsert failed",
			zap.String("invoice_id", validated.InvoiceID),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, outcome)
}

// Export handles GET /api/v1/invoices/export and streams the stored invoices
// as an xlsx workbook.
func (h *InvoiceHandler) Export(c *gin.Context) {
	f, err := h.exporter.Export(c.Request.Context())
	if err != nil {
		h.logger.Error("Export failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("vendor_invoices_%s.xlsx", time.Now().UTC().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := f.Write(c.Writer); err != nil {
		h.logger.Error("Failed to stream export", zap.Error(err))
	}
}

// Health handles GET /health.
func (h *InvoiceHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "invoice-intake",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}
