package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurant_backend/internal/services"
)

// ReportHandler holds the report service.
type ReportHandler struct {
	reportService services.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(rs services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: rs}
}

// GetSummary returns aggregate order and revenue figures.
func (h *ReportHandler) GetSummary(c *gin.Context) {
	summary, err := h.reportService.GetSummary()
	if err != nil {
		respondServiceError(c, err, "Failed to build report summary.")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetLowStock returns inventory items at or below their minimum quantity.
func (h *ReportHandler) GetLowStock(c *gin.Context) {
	items, err := h.reportService.GetLowStock()
	if err != nil {
		respondServiceError(c, err, "Failed to list low stock items.")
		return
	}
	c.JSON(http.StatusOK, items)
}
