package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurant_backend/internal/services"
	"restaurant_backend/pkg/utils"
)

// AuthHandler holds the auth service.
type AuthHandler struct {
	authService services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(as services.AuthService) *AuthHandler {
	return &AuthHandler{authService: as}
}

// Register creates a new account.
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	user, err := h.authService.Register(req)
	if err != nil {
		respondServiceError(c, err, "Failed to register user.")
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Login authenticates a user and returns a token pair.
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	tokens, err := h.authService.Login(req)
	if err != nil {
		respondServiceError(c, err, "Login failed.")
		return
	}
	c.JSON(http.StatusOK, tokens)
}

// Refresh exchanges a valid refresh token for a new token pair.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req services.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	tokens, err := h.authService.Refresh(req)
	if err != nil {
		respondServiceError(c, err, "Token refresh failed.")
		return
	}
	c.JSON(http.StatusOK, tokens)
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c *gin.Context) {
	userIDValue, exists := c.Get("userID")
	if !exists {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "User not authenticated.", ""))
		return
	}
	userID, isInt64 := userIDValue.(int64)
	if !isInt64 {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "User not authenticated.", ""))
		return
	}

	user, err := h.authService.GetUserByID(userID)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch profile.")
		return
	}
	c.JSON(http.StatusOK, user)
}

// ListUsers lists all accounts.
func (h *AuthHandler) ListUsers(c *gin.Context) {
	users, err := h.authService.ListUsers()
	if err != nil {
		respondServiceError(c, err, "Failed to list users.")
		return
	}
	c.JSON(http.StatusOK, users)
}

// DeleteUser removes an account.
func (h *AuthHandler) DeleteUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.authService.DeleteUser(userID); err != nil {
		respondServiceError(c, err, "Failed to delete user.")
		return
	}
	c.Status(http.StatusNoContent)
}
