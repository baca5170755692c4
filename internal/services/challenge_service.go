package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tsukinami/ctf-platform-api/internal/models"
	"github.com/tsukinami/ctf-platform-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrChallengeNotFound     = errors.New("challenge not found")
	ErrInvalidChallengeTitle = errors.New("challenge title cannot be empty")
	ErrInvalidFlag           = errors.New("challenge flag cannot be empty")
	ErrInvalidPointValue     = errors.New("point value must be positive")
	ErrFlagNotAuthorized     = errors.New("not authorized to view flag")
)

// ChallengeService provides business logic for challenge operations.
type ChallengeService struct {
	challengeRepo  repository.ChallengeRepository
	gameRepo       repository.GameRepository
	submissionRepo repository.SubmissionRepository
}

// NewChallengeService creates a new ChallengeService.
func NewChallengeService(
	challengeRepo repository.ChallengeRepository,
	gameRepo repository.GameRepository,
	submissionRepo repository.SubmissionRepository,
) *ChallengeService {
	return &ChallengeService{
		challengeRepo:  challengeRepo,
		gameRepo:       gameRepo,
		submissionRepo: submissionRepo,
	}
}

// CreateChallengeInput represents parameters to create a new challenge.
type CreateChallengeInput struct {
	GameID      uint64
	ActorID     uint64
	Title       string
	Description string
	Flag        string
	PointValue  int
}

// CreateChallenge adds a challenge to a game. Only the game admin may do so,
// and only while the game is running.
func (s *ChallengeService) CreateChallenge(input CreateChallengeInput) (*models.Challenge, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrInvalidChallengeTitle
	}
	if input.Flag == "" {
		return nil, ErrInvalidFlag
	}
	if input.PointValue <= 0 {
		return nil, ErrInvalidPointValue
	}

	game, err := s.gameRepo.FindByID(input.GameID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to find game: %w", err)
	}

	if game.HasEnded(time.Now()) {
		return nil, ErrGameEnded
	}
	if game.AdminID != input.ActorID {
		return nil, ErrNotGameAdmin
	}

	challenge := &models.Challenge{
		GameID:      input.GameID,
		Title:       input.Title,
		Description: input.Description,
		Flag:        input.Flag,
		PointValue:  input.PointValue,
	}

	if err := s.challengeRepo.Create(challenge); err != nil {
		return nil, fmt.Errorf("failed to create challenge: %w", err)
	}

	return challenge, nil
}

// ChallengeWithSolved pairs a challenge with the caller's solve state.
type ChallengeWithSolved struct {
	Challenge models.Challenge
	Solved    bool
}

// ListChallenges returns a game's challenges ordered by point value, each
// marked with whether the caller has a correct submission for it.
func (s *ChallengeService) ListChallenges(gameID, userID uint64) ([]ChallengeWithSolved, error) {
	if _, err := s.gameRepo.FindByID(gameID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to find game: %w", err)
	}

	challenges, err := s.challengeRepo.ListByGame(gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to list challenges: %w", err)
	}

	submissions, err := s.submissionRepo.ListByUserAndGame(userID, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}

	solvedFlags := make(map[uint64]map[string]bool)
	for _, sub := range submissions {
		if solvedFlags[sub.ChallengeID] == nil {
			solvedFlags[sub.ChallengeID] = make(map[string]bool)
		}
		solvedFlags[sub.ChallengeID][sub.Flag] = true
	}

	result := make([]ChallengeWithSolved, len(challenges))
	for i, challenge := range challenges {
		result[i] = ChallengeWithSolved{
			Challenge: challenge,
			Solved:    solvedFlags[challenge.ID][challenge.Flag],
		}
	}

	return result, nil
}

// GetFlag reveals a challenge's flag. Allowed only for the game admin or a
// user who has already submitted the correct flag; no other path reveals it.
func (s *ChallengeService) GetFlag(challengeID, userID uint64) (string, error) {
	challenge, err := s.challengeRepo.FindByID(challengeID, "Game")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrChallengeNotFound
		}
		return "", fmt.Errorf("failed to find challenge: %w", err)
	}

	if challenge.Game.AdminID == userID {
		return challenge.Flag, nil
	}

	solved, err := s.submissionRepo.HasMatchingSubmission(userID, challengeID, challenge.Flag)
	if err != nil {
		return "", fmt.Errorf("failed to check submissions: %w", err)
	}
	if !solved {
		return "", ErrFlagNotAuthorized
	}

	return challenge.Flag, nil
}
