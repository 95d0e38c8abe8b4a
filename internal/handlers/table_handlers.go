package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurant_backend/internal/models"
	"restaurant_backend/internal/services"
	"restaurant_backend/pkg/utils"
)

// TableHandler holds the table service.
type TableHandler struct {
	tableService services.TableService
}

// NewTableHandler creates a new TableHandler.
func NewTableHandler(ts services.TableService) *TableHandler {
	return &TableHandler{tableService: ts}
}

// CreateTable registers a new table.
func (h *TableHandler) CreateTable(c *gin.Context) {
	var req services.CreateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	table, err := h.tableService.CreateTable(req)
	if err != nil {
		respondServiceError(c, err, "Failed to create table.")
		return
	}
	c.JSON(http.StatusCreated, table)
}

// GetTableByNumber fetches one table by its floor number.
func (h *TableHandler) GetTableByNumber(c *gin.Context) {
	number, ok := parseIntParam(c, "number")
	if !ok {
		return
	}
	table, err := h.tableService.GetTableByNumber(number)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch table.")
		return
	}
	c.JSON(http.StatusOK, table)
}

// ListTables lists every table, optionally filtered by status.
func (h *TableHandler) ListTables(c *gin.Context) {
	if status := c.Query("status"); status != "" {
		if !models.IsValidTableStatus(status) {
			utils.RespondValidationFailed(c, "unknown table status "+status)
			return
		}
		tables, err := h.tableService.GetTablesByStatus(status)
		if err != nil {
			respondServiceError(c, err, "Failed to list tables.")
			return
		}
		c.JSON(http.StatusOK, tables)
		return
	}

	tables, err := h.tableService.ListTables()
	if err != nil {
		respondServiceError(c, err, "Failed to list tables.")
		return
	}
	c.JSON(http.StatusOK, tables)
}

// UpdateTable applies a partial update to a table's number, capacity or status.
func (h *TableHandler) UpdateTable(c *gin.Context) {
	number, ok := parseIntParam(c, "number")
	if !ok {
		return
	}
	var req services.UpdateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	table, err := h.tableService.GetTableByNumber(number)
	if err != nil {
		respondServiceError(c, err, "Failed to update table.")
		return
	}
	table, err = h.tableService.UpdateTable(table.ID, req)
	if err != nil {
		respondServiceError(c, err, "Failed to update table.")
		return
	}
	c.JSON(http.StatusOK, table)
}

// UpdateTableStatus changes only the table's status.
func (h *TableHandler) UpdateTableStatus(c *gin.Context) {
	number, ok := parseIntParam(c, "number")
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	table, err := h.tableService.GetTableByNumber(number)
	if err != nil {
		respondServiceError(c, err, "Failed to update table status.")
		return
	}
	table, err = h.tableService.UpdateTable(table.ID, services.UpdateTableRequest{Status: &req.Status})
	if err != nil {
		respondServiceError(c, err, "Failed to update table status.")
		return
	}
	c.JSON(http.StatusOK, table)
}

// ReleaseTable clears a table's occupancy, returning it to available.
func (h *TableHandler) ReleaseTable(c *gin.Context) {
	number, ok := parseIntParam(c, "number")
	if !ok {
		return
	}
	table, err := h.tableService.Release(number)
	if err != nil {
		respondServiceError(c, err, "Failed to release table.")
		return
	}
	c.JSON(http.StatusOK, table)
}

// DeleteTable removes a table from the floor plan.
func (h *TableHandler) DeleteTable(c *gin.Context) {
	number, ok := parseIntParam(c, "number")
	if !ok {
		return
	}
	table, err := h.tableService.GetTableByNumber(number)
	if err != nil {
		respondServiceError(c, err, "Failed to delete table.")
		return
	}
	if err := h.tableService.DeleteTable(table.ID); err != nil {
		respondServiceError(c, err, "Failed to delete table.")
		return
	}
	c.Status(http.StatusNoContent)
}
