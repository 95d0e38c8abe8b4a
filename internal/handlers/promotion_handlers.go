package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurant_backend/internal/services"
	"restaurant_backend/pkg/utils"
)

// PromotionHandler holds the promotion service.
type PromotionHandler struct {
	promotionService services.PromotionService
}

// NewPromotionHandler creates a new PromotionHandler.
func NewPromotionHandler(ps services.PromotionService) *PromotionHandler {
	return &PromotionHandler{promotionService: ps}
}

// CreatePromotion adds a promotion to the digital menu.
func (h *PromotionHandler) CreatePromotion(c *gin.Context) {
	var req services.PromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	promotion, err := h.promotionService.CreatePromotion(req)
	if err != nil {
		respondServiceError(c, err, "Failed to create promotion.")
		return
	}
	c.JSON(http.StatusCreated, promotion)
}

// GetPromotionByID fetches a single promotion.
func (h *PromotionHandler) GetPromotionByID(c *gin.Context) {
	promotionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	promotion, err := h.promotionService.GetPromotionByID(promotionID)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch promotion.")
		return
	}
	c.JSON(http.StatusOK, promotion)
}

// ListPromotions lists promotions; ?active=true limits to active ones.
func (h *PromotionHandler) ListPromotions(c *gin.Context) {
	activeOnly := c.Query("active") == "true"
	promotions, err := h.promotionService.ListPromotions(activeOnly)
	if err != nil {
		respondServiceError(c, err, "Failed to list promotions.")
		return
	}
	c.JSON(http.StatusOK, promotions)
}

// UpdatePromotion replaces a promotion's details.
func (h *PromotionHandler) UpdatePromotion(c *gin.Context) {
	promotionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.PromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	promotion, err := h.promotionService.UpdatePromotion(promotionID, req)
	if err != nil {
		respondServiceError(c, err, "Failed to update promotion.")
		return
	}
	c.JSON(http.StatusOK, promotion)
}

// DeletePromotion removes a promotion.
func (h *PromotionHandler) DeletePromotion(c *gin.Context) {
	promotionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.promotionService.DeletePromotion(promotionID); err != nil {
		respondServiceError(c, err, "Failed to delete promotion.")
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateReview stores guest feedback.
func (h *PromotionHandler) CreateReview(c *gin.Context) {
	var req services.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	review, err := h.promotionService.CreateReview(req)
	if err != nil {
		respondServiceError(c, err, "Failed to create review.")
		return
	}
	c.JSON(http.StatusCreated, review)
}

// ListReviews lists all guest reviews.
func (h *PromotionHandler) ListReviews(c *gin.Context) {
	reviews, err := h.promotionService.ListReviews()
	if err != nil {
		respondServiceError(c, err, "Failed to list reviews.")
		return
	}
	c.JSON(http.StatusOK, reviews)
}
