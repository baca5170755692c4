package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/tsukinami/ctf-platform-api/internal/models"
	"github.com/tsukinami/ctf-platform-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrAlreadySolved    = errors.New("challenge already solved")
	ErrDuplicateAttempt = errors.New("this flag was already submitted")
	ErrIncorrectFlag    = errors.New("incorrect flag")
)

// SubmissionService implements the submission gate: it decides whether an
// attempt may be recorded and whether it counts as a solve.
type SubmissionService struct {
	submissionRepo repository.SubmissionRepository
	challengeRepo  repository.ChallengeRepository
}

// NewSubmissionService creates a new SubmissionService.
func NewSubmissionService(
	submissionRepo repository.SubmissionRepository,
	challengeRepo repository.ChallengeRepository,
) *SubmissionService {
	return &SubmissionService{
		submissionRepo: submissionRepo,
		challengeRepo:  challengeRepo,
	}
}

// Submit runs the gate for one attempt. Checks run in a fixed order: game
// ended, already solved, duplicate attempt. Passing all three persists the
// row before correctness is judged, so an incorrect attempt still leaves a
// durable record; ErrIncorrectFlag reports a committed row.
func (s *SubmissionService) Submit(userID, challengeID uint64, flag string) (*models.Submission, error) {
	challenge, err := s.challengeRepo.FindByID(challengeID, "Game")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChallengeNotFound
		}
		return nil, fmt.Errorf("failed to find challenge: %w", err)
	}

	if challenge.Game.HasEnded(time.Now()) {
		return nil, ErrGameEnded
	}

	submission := &models.Submission{
		ChallengeID: challengeID,
		UserID:      userID,
		Flag:        flag,
	}

	if err := s.submissionRepo.CreateAttempt(submission, challenge.Flag); err != nil {
		switch {
		case errors.Is(err, repository.ErrChallengeSolved):
			return nil, ErrAlreadySolved
		case errors.Is(err, repository.ErrAttemptExists):
			return nil, ErrDuplicateAttempt
		default:
			return nil, fmt.Errorf("failed to record submission: %w", err)
		}
	}

	if !submission.IsCorrect(challenge.Flag) {
		return nil, ErrIncorrectFlag
	}

	return submission, nil
}

// ListMyGameSubmissions returns the user's submissions for a game, newest first.
func (s *SubmissionService) ListMyGameSubmissions(userID, gameID uint64) ([]models.Submission, error) {
	submissions, err := s.submissionRepo.ListByUserAndGame(userID, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return submissions, nil
}

// GetMyChallengeSubmission returns the user's earliest submission for a
// challenge, or nil if no attempt exists.
func (s *SubmissionService) GetMyChallengeSubmission(userID, challengeID uint64) (*models.Submission, error) {
	submission, err := s.submissionRepo.FindFirstByUserAndChallenge(userID, challengeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find submission: %w", err)
	}
	return submission, nil
}
