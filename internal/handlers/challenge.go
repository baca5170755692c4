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

// ChallengeHandler coordinates challenge HTTP handlers.
type ChallengeHandler struct {
	challengeService *services.ChallengeService
}

// NewChallengeHandler creates a new ChallengeHandler.
func NewChallengeHandler(challengeService *services.ChallengeService) *ChallengeHandler {
	return &ChallengeHandler{
		challengeService: challengeService,
	}
}

// CreateChallenge adds a challenge to a game. Admin-gated by middleware.
func (h *ChallengeHandler) CreateChallenge(c *gin.Context) {
	game, ok := middleware.GetGame(c)
	if !ok {
		apierrors.InternalError(c, "Game not loaded")
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateChallengeRequest struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
		Flag        string `json:"flag" binding:"required"`
		PointValue  int    `json:"point_value" binding:"required,gt=0"`
	}

	var req CreateChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	challenge, err := h.challengeService.CreateChallenge(services.CreateChallengeInput{
		GameID:      game.ID,
		ActorID:     userID,
		Title:       req.Title,
		Description: req.Description,
		Flag:        req.Flag,
		PointValue:  req.PointValue,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrGameNotFound):
			apierrors.NotFound(c, err.Error())
		case errors.Is(err, services.ErrGameEnded):
			apierrors.ConflictWithCode(c, apierrors.ErrCodeGameEnded, err.Error())
		case errors.Is(err, services.ErrNotGameAdmin):
			apierrors.Forbidden(c, err.Error())
		case errors.Is(err, services.ErrInvalidChallengeTitle),
			errors.Is(err, services.ErrInvalidFlag),
			errors.Is(err, services.ErrInvalidPointValue):
			apierrors.BadRequest(c, err.Error())
		default:
			apierrors.InternalError(c, "Failed to create challenge")
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToChallengeDTO(*challenge, nil))
}

// ListChallenges returns a game's challenges with the caller's solve state.
func (h *ChallengeHandler) ListChallenges(c *gin.Context) {
	gameID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	challenges, err := h.challengeService.ListChallenges(gameID, userID)
	if err != nil {
		if errors.Is(err, services.ErrGameNotFound) {
			apierrors.NotFound(c, err.Error())
			return
		}
		apierrors.InternalError(c, "Failed to fetch challenges")
		return
	}

	challengeDTOs := make([]dto.ChallengeDTO, len(challenges))
	for i, item := range challenges {
		solved := item.Solved
		challengeDTOs[i] = dto.ToChallengeDTO(item.Challenge, &solved)
	}

	c.JSON(http.StatusOK, gin.H{
		"challenges": challengeDTOs,
	})
}

// GetFlag reveals a challenge's flag to the admin or a solver.
func (h *ChallengeHandler) GetFlag(c *gin.Context) {
	challengeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	flag, err := h.challengeService.GetFlag(challengeID, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrChallengeNotFound):
			apierrors.NotFound(c, err.Error())
		case errors.Is(err, services.ErrFlagNotAuthorized):
			apierrors.Forbidden(c, err.Error())
		default:
			apierrors.InternalError(c, "Failed to fetch flag")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"flag": flag,
	})
}
