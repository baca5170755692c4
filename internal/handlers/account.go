package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tsukinami/ctf-platform-api/internal/dto"
	apierrors "github.com/tsukinami/ctf-platform-api/internal/errors"
	"github.com/tsukinami/ctf-platform-api/internal/middleware"
	"github.com/tsukinami/ctf-platform-api/internal/services"
)

// AccountHandler coordinates account management HTTP handlers.
type AccountHandler struct {
	accountService *services.AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountService *services.AccountService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
	}
}

// CheckUsername reports whether a username is available.
func (h *AccountHandler) CheckUsername(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		apierrors.BadRequest(c, "username query parameter is required")
		return
	}

	available, err := h.accountService.CheckUsername(username)
	if err != nil {
		if errors.Is(err, services.ErrInvalidUsername) {
			apierrors.BadRequest(c, err.Error())
			return
		}
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"username":  username,
		"available": available,
	})
}

// SetUsername assigns or updates the current user's username.
func (h *AccountHandler) SetUsername(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type SetUsernameRequest struct {
		Username string `json:"username" binding:"required"`
	}

	var req SetUsernameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.accountService.SetUsername(userID, req.Username)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidUsername):
			apierrors.BadRequest(c, err.Error())
		case errors.Is(err, services.ErrUsernameTaken):
			apierrors.Conflict(c, err.Error())
		case errors.Is(err, services.ErrUserNotFound):
			apierrors.NotFound(c, err.Error())
		default:
			apierrors.InternalError(c, "")
		}
		return
	}

	userDTO := dto.ToUserDTO(*user)
	c.JSON(http.StatusOK, userDTO)
}

// GetStats returns the current user's account statistics.
func (h *AccountHandler) GetStats(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	stats, err := h.accountService.GetStats(userID)
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, stats)
}
