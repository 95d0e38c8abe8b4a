package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"restaurant_backend/internal/models"
	"restaurant_backend/internal/services"
	"restaurant_backend/pkg/utils"
)

// OrderHandler holds the order service.
type OrderHandler struct {
	orderService services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(os services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: os}
}

// CreateOrder handles the creation of a new order with its items.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req services.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	order, err := h.orderService.CreateOrder(req)
	if err != nil {
		respondServiceError(c, err, "Failed to create order.")
		return
	}
	c.JSON(http.StatusCreated, order)
}

// GetOrders handles fetching orders with optional filters and pagination.
func (h *OrderHandler) GetOrders(c *gin.Context) {
	var filters models.OrderFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	if filters.Page <= 0 {
		filters.Page = 1
	}
	if filters.PageSize <= 0 {
		filters.PageSize = 10
	}
	if filters.Status != nil && !models.IsValidOrderStatus(*filters.Status) {
		utils.RespondValidationFailed(c, "unknown order status "+strconv.Quote(*filters.Status))
		return
	}

	orders, totalCount, err := h.orderService.GetOrders(filters)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch orders.")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":      orders,
		"total":     totalCount,
		"page":      filters.Page,
		"page_size": filters.PageSize,
	})
}

// GetOrderByID handles fetching a single order with its items.
func (h *OrderHandler) GetOrderByID(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	order, err := h.orderService.GetOrderByID(orderID)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch order.")
		return
	}
	c.JSON(http.StatusOK, order)
}

// GetOrderByNumber handles lookup by the printed receipt number.
func (h *OrderHandler) GetOrderByNumber(c *gin.Context) {
	number := c.Param("number")
	order, err := h.orderService.GetOrderByNumber(number)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch order.")
		return
	}
	c.JSON(http.StatusOK, order)
}

// GetActiveOrders returns every order that is neither paid nor cancelled.
func (h *OrderHandler) GetActiveOrders(c *gin.Context) {
	orders, err := h.orderService.GetActiveOrders()
	if err != nil {
		respondServiceError(c, err, "Failed to fetch active orders.")
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GetPendingOrders returns orders still waiting on the kitchen.
func (h *OrderHandler) GetPendingOrders(c *gin.Context) {
	orders, err := h.orderService.GetPendingOrders()
	if err != nil {
		respondServiceError(c, err, "Failed to fetch pending orders.")
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GetOrdersByTable returns all orders created for one table.
func (h *OrderHandler) GetOrdersByTable(c *gin.Context) {
	tableNumber, ok := parseIntParam(c, "number")
	if !ok {
		return
	}
	orders, err := h.orderService.GetOrdersByTable(tableNumber)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch orders for table.")
		return
	}
	c.JSON(http.StatusOK, orders)
}

// AddItems appends items to an existing unpaid order.
func (h *OrderHandler) AddItems(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var items []services.CreateOrderItemRequest
	if err := c.ShouldBindJSON(&items); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	order, err := h.orderService.AddItems(orderID, items)
	if err != nil {
		respondServiceError(c, err, "Failed to add items to order.")
		return
	}
	c.JSON(http.StatusOK, order)
}

// UpdateOrderStatus moves an order along the kitchen flow.
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	order, err := h.orderService.SetStatus(orderID, req)
	if err != nil {
		respondServiceError(c, err, "Failed to update order status.")
		return
	}
	c.JSON(http.StatusOK, order)
}

// MarkReadyToPay records the guest's requested payment method.
func (h *OrderHandler) MarkReadyToPay(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.ReadyToPayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	order, err := h.orderService.MarkReadyToPay(orderID, req)
	if err != nil {
		respondServiceError(c, err, "Failed to mark order ready to pay.")
		return
	}
	c.JSON(http.StatusOK, order)
}

// PayOrder finalizes payment on a ready or delivered order.
func (h *OrderHandler) PayOrder(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.PayOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	order, err := h.orderService.Pay(orderID, req)
	if err != nil {
		respondServiceError(c, err, "Failed to pay order.")
		return
	}
	c.JSON(http.StatusOK, order)
}

// CancelOrder cancels an order and restores the stock it consumed.
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.orderService.Cancel(orderID); err != nil {
		respondServiceError(c, err, "Failed to cancel order.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order cancelled"})
}

// DismissOrder permanently removes a cancelled order.
func (h *OrderHandler) DismissOrder(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.orderService.Dismiss(orderID); err != nil {
		respondServiceError(c, err, "Failed to dismiss order.")
		return
	}
	c.Status(http.StatusNoContent)
}
