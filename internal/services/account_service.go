package services

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/tsukinami/ctf-platform-api/internal/constants"
	"github.com/tsukinami/ctf-platform-api/internal/models"
	"github.com/tsukinami/ctf-platform-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrUsernameTaken   = errors.New("username is already taken")
	ErrInvalidUsername = errors.New("username must be 3-20 letters or numbers")
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9]+$`)

// AccountService provides business logic for account management.
type AccountService struct {
	userRepo repository.UserRepository
	gameRepo repository.GameRepository
}

// NewAccountService creates a new AccountService.
func NewAccountService(userRepo repository.UserRepository, gameRepo repository.GameRepository) *AccountService {
	return &AccountService{
		userRepo: userRepo,
		gameRepo: gameRepo,
	}
}

// ValidateUsername checks the username against the allowed pattern and length.
func ValidateUsername(username string) error {
	if len(username) < constants.MinUsernameLength || len(username) > constants.MaxUsernameLength {
		return ErrInvalidUsername
	}
	if !usernamePattern.MatchString(username) {
		return ErrInvalidUsername
	}
	return nil
}

// CheckUsername reports whether a username is available.
func (s *AccountService) CheckUsername(username string) (bool, error) {
	if err := ValidateUsername(username); err != nil {
		return false, err
	}

	if _, err := s.userRepo.FindByUsername(username); err == nil {
		return false, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("failed to check username: %w", err)
	}

	return true, nil
}

// SetUsername assigns or updates the user's username, enforcing uniqueness.
func (s *AccountService) SetUsername(userID uint64, username string) (*models.User, error) {
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}

	if existing, err := s.userRepo.FindByUsername(username); err == nil {
		if existing.ID != userID {
			return nil, ErrUsernameTaken
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	user.Username = &username
	if err := s.userRepo.Update(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to update username: %w", err)
	}

	return user, nil
}

// AccountStats summarizes a user's platform activity.
type AccountStats struct {
	TotalGamesHosted int64      `json:"total_games_hosted"`
	TotalGamesPlayed int64      `json:"total_games_played"`
	FirstJoined      *time.Time `json:"first_joined"`
}

// GetStats returns hosting and participation statistics for the user.
func (s *AccountService) GetStats(userID uint64) (*AccountStats, error) {
	hosted, err := s.gameRepo.CountHostedByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count hosted games: %w", err)
	}

	played, err := s.gameRepo.CountPlayedByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count played games: %w", err)
	}

	stats := &AccountStats{
		TotalGamesHosted: hosted,
		TotalGamesPlayed: played,
	}

	first, err := s.gameRepo.FirstParticipation(userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to find first participation: %w", err)
		}
	} else {
		stats.FirstJoined = &first.JoinedAt
	}

	return stats, nil
}
