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

// SubmissionHandler coordinates submission HTTP handlers.
type SubmissionHandler struct {
	submissionService *services.SubmissionService
}

// NewSubmissionHandler creates a new SubmissionHandler.
func NewSubmissionHandler(submissionService *services.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{
		submissionService: submissionService,
	}
}

// Submit records a flag attempt against a challenge.
func (h *SubmissionHandler) Submit(c *gin.Context) {
	challengeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type SubmitRequest struct {
		Flag string `json:"flag" binding:"required"`
	}

	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	submission, err := h.submissionService.Submit(userID, challengeID, req.Flag)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrChallengeNotFound):
			apierrors.NotFound(c, err.Error())
		case errors.Is(err, services.ErrGameEnded):
			apierrors.ConflictWithCode(c, apierrors.ErrCodeGameEnded, err.Error())
		case errors.Is(err, services.ErrAlreadySolved):
			apierrors.ConflictWithCode(c, apierrors.ErrCodeAlreadySolved, err.Error())
		case errors.Is(err, services.ErrDuplicateAttempt):
			apierrors.ConflictWithCode(c, apierrors.ErrCodeDuplicateAttempt, err.Error())
		case errors.Is(err, services.ErrIncorrectFlag):
			apierrors.RespondWithError(c, http.StatusBadRequest,
				apierrors.NewAPIError(apierrors.ErrCodeIncorrectFlag, err.Error()))
		default:
			apierrors.InternalError(c, "Failed to record submission")
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToSubmissionDTO(*submission))
}

// ListMyGameSubmissions returns the caller's submissions for a game.
func (h *SubmissionHandler) ListMyGameSubmissions(c *gin.Context) {
	gameID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	submissions, err := h.submissionService.ListMyGameSubmissions(userID, gameID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch submissions")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"submissions": dto.ToSubmissionDTOs(submissions),
	})
}

// GetMyChallengeSubmission returns the caller's first attempt for a challenge.
func (h *SubmissionHandler) GetMyChallengeSubmission(c *gin.Context) {
	challengeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	submission, err := h.submissionService.GetMyChallengeSubmission(userID, challengeID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch submission")
		return
	}

	if submission == nil {
		c.JSON(http.StatusOK, gin.H{
			"submission": nil,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"submission": dto.ToSubmissionDTO(*submission),
	})
}
