package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tsukinami/ctf-platform-api/internal/dto"
	apierrors "github.com/tsukinami/ctf-platform-api/internal/errors"
	"github.com/tsukinami/ctf-platform-api/internal/middleware"
	"github.com/tsukinami/ctf-platform-api/internal/services"
)

// InviteHandler coordinates invite lifecycle HTTP handlers.
type InviteHandler struct {
	inviteService *services.InviteService
	baseURL       string
}

// NewInviteHandler creates a new InviteHandler. baseURL is used to render
// shareable invite link URLs.
func NewInviteHandler(inviteService *services.InviteService, baseURL string) *InviteHandler {
	return &InviteHandler{
		inviteService: inviteService,
		baseURL:       baseURL,
	}
}

func respondInviteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrGameNotFound),
		errors.Is(err, services.ErrInviteNotFound),
		errors.Is(err, services.ErrInviteLinkNotFound),
		errors.Is(err, services.ErrInvitedUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotGameAdmin),
		errors.Is(err, services.ErrNotYourInvite):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrInviteExists):
		apierrors.ConflictWithCode(c, apierrors.ErrCodeAlreadyExists, err.Error())
	case errors.Is(err, services.ErrInviteNotPending):
		apierrors.ConflictWithCode(c, apierrors.ErrCodeInvalidState, err.Error())
	case errors.Is(err, services.ErrInviteExpired):
		apierrors.Gone(c, apierrors.ErrCodeExpired, err.Error())
	case errors.Is(err, services.ErrGameEnded):
		apierrors.ConflictWithCode(c, apierrors.ErrCodeGameEnded, err.Error())
	case errors.Is(err, services.ErrAlreadyParticipant):
		apierrors.ConflictWithCode(c, apierrors.ErrCodeAlreadyExists, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}

// CreateUserInvite invites a user to a game by username.
func (h *InviteHandler) CreateUserInvite(c *gin.Context) {
	gameID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateUserInviteRequest struct {
		Username  string     `json:"username" binding:"required"`
		Message   string     `json:"message"`
		ExpiresAt *time.Time `json:"expires_at"`
	}

	var req CreateUserInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	invite, err := h.inviteService.CreateUserInvite(services.CreateUserInviteInput{
		GameID:    gameID,
		ActorID:   userID,
		Username:  req.Username,
		Message:   req.Message,
		ExpiresAt: req.ExpiresAt,
	})
	if err != nil {
		respondInviteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserInviteDTO(*invite))
}

// CreateInviteLink creates a shareable invite link for a game.
func (h *InviteHandler) CreateInviteLink(c *gin.Context) {
	gameID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateInviteLinkRequest struct {
		Message     string     `json:"message"`
		ExpiresAt   *time.Time `json:"expires_at"`
		IsSingleUse bool       `json:"is_single_use"`
	}

	var req CreateInviteLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	link, err := h.inviteService.CreateInviteLink(services.CreateInviteLinkInput{
		GameID:      gameID,
		ActorID:     userID,
		Message:     req.Message,
		ExpiresAt:   req.ExpiresAt,
		IsSingleUse: req.IsSingleUse,
	})
	if err != nil {
		respondInviteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToInviteLinkDTO(*link, h.baseURL))
}

// GetGameInvites lists a game's invites and invite links (admin only).
func (h *InviteHandler) GetGameInvites(c *gin.Context) {
	gameID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	invites, links, err := h.inviteService.GetGameInvites(gameID, userID)
	if err != nil {
		respondInviteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_invites": dto.ToUserInviteDTOs(invites),
		"invite_links": dto.ToInviteLinkDTOs(links, h.baseURL),
	})
}

// GetMyInvites lists the caller's pending invites.
func (h *InviteHandler) GetMyInvites(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	invites, err := h.inviteService.GetMyInvites(userID)
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"invites": dto.ToUserInviteDTOs(invites),
	})
}

// GetInviteLink resolves an invite code for the public landing page.
func (h *InviteHandler) GetInviteLink(c *gin.Context) {
	code := c.Param("code")

	link, err := h.inviteService.GetInviteLink(code)
	if err != nil {
		respondInviteError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToInviteLinkDTO(*link, h.baseURL))
}

// AcceptUserInvite accepts an invite addressed to the caller.
func (h *InviteHandler) AcceptUserInvite(c *gin.Context) {
	inviteID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	invite, err := h.inviteService.AcceptUserInvite(inviteID, userID)
	if err != nil {
		respondInviteError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserInviteDTO(*invite))
}

// AcceptInviteLink redeems an invite code for the caller.
func (h *InviteHandler) AcceptInviteLink(c *gin.Context) {
	code := c.Param("code")

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	link, err := h.inviteService.AcceptInviteLink(code, userID)
	if err != nil {
		respondInviteError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToInviteLinkDTO(*link, h.baseURL))
}

// DeclineUserInvite declines an invite addressed to the caller.
func (h *InviteHandler) DeclineUserInvite(c *gin.Context) {
	inviteID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	if err := h.inviteService.DeclineUserInvite(inviteID, userID); err != nil {
		respondInviteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Invite declined",
	})
}

// CancelUserInvite cancels a pending invite (admin only).
func (h *InviteHandler) CancelUserInvite(c *gin.Context) {
	inviteID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	if err := h.inviteService.CancelUserInvite(inviteID, userID); err != nil {
		respondInviteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Invite cancelled",
	})
}

// CancelInviteLink cancels a pending invite link (admin only).
func (h *InviteHandler) CancelInviteLink(c *gin.Context) {
	linkID, ok := parseIDParam(c, "linkId")
	if !ok {
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	if err := h.inviteService.CancelInviteLink(linkID, userID); err != nil {
		respondInviteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Invite link cancelled",
	})
}

// BulkUserInvite invites several usernames, collecting per-item outcomes.
func (h *InviteHandler) BulkUserInvite(c *gin.Context) {
	gameID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type BulkUserInviteRequest struct {
		Usernames []string   `json:"usernames" binding:"required,min=1"`
		Message   string     `json:"message"`
		ExpiresAt *time.Time `json:"expires_at"`
	}

	var req BulkUserInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	invites, failures, err := h.inviteService.BulkUserInvite(services.BulkUserInviteInput{
		GameID:    gameID,
		ActorID:   userID,
		Usernames: req.Usernames,
		Message:   req.Message,
		ExpiresAt: req.ExpiresAt,
	})
	if err != nil {
		respondInviteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"invites": dto.ToUserInviteDTOs(invites),
		"errors":  failures,
	})
}
