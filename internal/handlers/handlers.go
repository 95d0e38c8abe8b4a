package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"restaurant_backend/internal/services"
	"restaurant_backend/pkg/utils"
)

// respondServiceError maps service sentinel errors to HTTP responses.
// Anything unmapped is a 500 with the detail withheld from the client.
func respondServiceError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, services.ErrValidation):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, context, err.Error()))
	case errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrProductNotFound),
		errors.Is(err, services.ErrTableNotFound),
		errors.Is(err, services.ErrStockItemNotFound),
		errors.Is(err, services.ErrPromotionNotFound),
		errors.Is(err, services.ErrUserNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, context, err.Error()))
	case errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrInsufficientStock),
		errors.Is(err, services.ErrDuplicate):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, context, err.Error()))
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, context, "Invalid credentials"))
	default:
		utils.LogError(err, context)
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, context, "Internal error"))
	}
}

// parseIDParam extracts a positive int64 path parameter or responds 400.
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed,
			"Invalid "+name+" parameter.", "must be a positive integer"))
		return 0, false
	}
	return id, true
}

// parseIntParam extracts a positive int path parameter or responds 400.
func parseIntParam(c *gin.Context, name string) (int, bool) {
	value, err := strconv.Atoi(c.Param(name))
	if err != nil || value <= 0 {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed,
			"Invalid "+name+" parameter.", "must be a positive integer"))
		return 0, false
	}
	return value, true
}
