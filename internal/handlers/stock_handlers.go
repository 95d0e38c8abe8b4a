package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurant_backend/internal/services"
	"restaurant_backend/pkg/utils"
)

// StockHandler holds the stock service.
type StockHandler struct {
	stockService services.StockService
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(ss services.StockService) *StockHandler {
	return &StockHandler{stockService: ss}
}

// CreateStockItem registers a new inventory item.
func (h *StockHandler) CreateStockItem(c *gin.Context) {
	var req services.CreateStockItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	item, err := h.stockService.CreateStockItem(req)
	if err != nil {
		respondServiceError(c, err, "Failed to create stock item.")
		return
	}
	c.JSON(http.StatusCreated, item)
}

// GetStockItemByID fetches one inventory item.
func (h *StockHandler) GetStockItemByID(c *gin.Context) {
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	item, err := h.stockService.GetStockItemByID(itemID)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch stock item.")
		return
	}
	c.JSON(http.StatusOK, item)
}

// ListStockItems lists the full inventory.
func (h *StockHandler) ListStockItems(c *gin.Context) {
	items, err := h.stockService.ListStockItems()
	if err != nil {
		respondServiceError(c, err, "Failed to list stock items.")
		return
	}
	c.JSON(http.StatusOK, items)
}

// ListLowStockItems lists items at or below their minimum quantity.
func (h *StockHandler) ListLowStockItems(c *gin.Context) {
	items, err := h.stockService.ListLowStockItems()
	if err != nil {
		respondServiceError(c, err, "Failed to list low stock items.")
		return
	}
	c.JSON(http.StatusOK, items)
}

// AdjustStock applies a manual stock movement to one item. The acting user
// is taken from the authenticated context when present.
func (h *StockHandler) AdjustStock(c *gin.Context) {
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	username := ""
	if v, exists := c.Get("username"); exists {
		if name, isString := v.(string); isString {
			username = name
		}
	}

	item, err := h.stockService.AdjustStock(itemID, req, username)
	if err != nil {
		respondServiceError(c, err, "Failed to adjust stock.")
		return
	}
	c.JSON(http.StatusOK, item)
}

// ListMovements returns the movement ledger for one item, newest first.
func (h *StockHandler) ListMovements(c *gin.Context) {
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	movements, err := h.stockService.ListMovements(itemID)
	if err != nil {
		respondServiceError(c, err, "Failed to list stock movements.")
		return
	}
	c.JSON(http.StatusOK, movements)
}
