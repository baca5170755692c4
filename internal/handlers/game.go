package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tsukinami/ctf-platform-api/internal/dto"
	apierrors "github.com/tsukinami/ctf-platform-api/internal/errors"
	"github.com/tsukinami/ctf-platform-api/internal/middleware"
	"github.com/tsukinami/ctf-platform-api/internal/services"
	"github.com/tsukinami/ctf-platform-api/internal/utils"
)

// GameHandler coordinates game HTTP handlers.
type GameHandler struct {
	gameService *services.GameService
}

// NewGameHandler creates a new GameHandler.
func NewGameHandler(gameService *services.GameService) *GameHandler {
	return &GameHandler{
		gameService: gameService,
	}
}

func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid ID")
		return 0, false
	}
	return id, true
}

// CreateGame creates a new game owned by the current user.
func (h *GameHandler) CreateGame(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateGameRequest struct {
		Title       string    `json:"title" binding:"required"`
		Description string    `json:"description"`
		EndingTime  time.Time `json:"ending_time" binding:"required"`
		IsPublic    *bool     `json:"is_public"`
	}

	var req CreateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	game, err := h.gameService.CreateGame(services.CreateGameInput{
		Title:       req.Title,
		Description: req.Description,
		EndingTime:  req.EndingTime,
		IsPublic:    isPublic,
		AdminID:     userID,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidGameTitle) {
			apierrors.BadRequest(c, err.Error())
			return
		}
		apierrors.InternalError(c, "Failed to create game")
		return
	}

	c.JSON(http.StatusCreated, dto.ToGameDTO(*game))
}

// ListGames returns all games, newest first.
func (h *GameHandler) ListGames(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	games, total, err := h.gameService.ListGames(params)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch games")
		return
	}

	gameDTOs := make([]dto.GameDTO, len(games))
	for i, game := range games {
		gameDTOs[i] = dto.ToGameDTO(game)
	}

	c.JSON(http.StatusOK, dto.GameListResponse{
		Games: gameDTOs,
		Page:  params.Page,
		Limit: params.Limit,
		Total: total,
	})
}

// GetGame returns game details with challenges.
func (h *GameHandler) GetGame(c *gin.Context) {
	gameID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	game, err := h.gameService.GetGame(gameID)
	if err != nil {
		if errors.Is(err, services.ErrGameNotFound) {
			apierrors.NotFound(c, err.Error())
			return
		}
		apierrors.InternalError(c, "Failed to fetch game")
		return
	}

	c.JSON(http.StatusOK, dto.ToGameDetailDTO(*game))
}

// UpdateGame updates admin-editable game settings.
func (h *GameHandler) UpdateGame(c *gin.Context) {
	gameID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type UpdateGameRequest struct {
		Title       *string    `json:"title"`
		Description *string    `json:"description"`
		EndingTime  *time.Time `json:"ending_time"`
		IsPublic    *bool      `json:"is_public"`
	}

	var req UpdateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	game, err := h.gameService.UpdateGame(gameID, userID, services.UpdateGameInput{
		Title:       req.Title,
		Description: req.Description,
		EndingTime:  req.EndingTime,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrGameNotFound):
			apierrors.NotFound(c, err.Error())
		case errors.Is(err, services.ErrNotGameAdmin):
			apierrors.Forbidden(c, err.Error())
		case errors.Is(err, services.ErrInvalidGameTitle):
			apierrors.BadRequest(c, err.Error())
		default:
			apierrors.InternalError(c, "Failed to update game")
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToGameDTO(*game))
}

// GetLeaderboard returns the game's current leaderboard.
func (h *GameHandler) GetLeaderboard(c *gin.Context) {
	gameID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	entries, err := h.gameService.GetLeaderboard(gameID)
	if err != nil {
		if errors.Is(err, services.ErrGameNotFound) {
			apierrors.NotFound(c, err.Error())
			return
		}
		apierrors.InternalError(c, "Failed to compute leaderboard")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"leaderboard": dto.ToLeaderboardDTO(entries),
	})
}

// IsEnded reports whether a game has ended.
func (h *GameHandler) IsEnded(c *gin.Context) {
	gameID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ended, err := h.gameService.IsEnded(gameID)
	if err != nil {
		if errors.Is(err, services.ErrGameNotFound) {
			apierrors.NotFound(c, err.Error())
			return
		}
		apierrors.InternalError(c, "Failed to fetch game")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ended": ended,
	})
}

// JoinGame adds the current user to a public game.
func (h *GameHandler) JoinGame(c *gin.Context) {
	gameID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	game, err := h.gameService.JoinGame(gameID, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrGameNotFound):
			apierrors.NotFound(c, err.Error())
		case errors.Is(err, services.ErrGamePrivate):
			apierrors.Forbidden(c, err.Error())
		case errors.Is(err, services.ErrGameEnded):
			apierrors.ConflictWithCode(c, apierrors.ErrCodeGameEnded, err.Error())
		case errors.Is(err, services.ErrAlreadyParticipant):
			apierrors.ConflictWithCode(c, apierrors.ErrCodeAlreadyExists, err.Error())
		default:
			apierrors.InternalError(c, "Failed to join game")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Successfully joined game",
		"game":    dto.ToGameDTO(*game),
	})
}
