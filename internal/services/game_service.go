package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tsukinami/ctf-platform-api/internal/models"
	"github.com/tsukinami/ctf-platform-api/internal/repository"
	"github.com/tsukinami/ctf-platform-api/internal/scoring"
	"github.com/tsukinami/ctf-platform-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrGameNotFound       = errors.New("game not found")
	ErrInvalidGameTitle   = errors.New("game title cannot be empty")
	ErrGameEnded          = errors.New("game has ended")
	ErrNotGameAdmin       = errors.New("only the game admin can perform this action")
	ErrAlreadyParticipant = errors.New("user is already a participant in this game")
	ErrGamePrivate        = errors.New("game is private")
)

// GameService provides business logic for game operations.
type GameService struct {
	gameRepo       repository.GameRepository
	submissionRepo repository.SubmissionRepository
}

// NewGameService creates a new GameService.
func NewGameService(gameRepo repository.GameRepository, submissionRepo repository.SubmissionRepository) *GameService {
	return &GameService{
		gameRepo:       gameRepo,
		submissionRepo: submissionRepo,
	}
}

// CreateGameInput represents parameters to create a new game.
type CreateGameInput struct {
	Title       string
	Description string
	EndingTime  time.Time
	IsPublic    bool
	AdminID     uint64
}

// CreateGame creates a game and registers the admin as its first participant.
func (s *GameService) CreateGame(input CreateGameInput) (*models.Game, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrInvalidGameTitle
	}

	game := &models.Game{
		Title:       input.Title,
		Description: input.Description,
		EndingTime:  input.EndingTime,
		IsPublic:    input.IsPublic,
		AdminID:     input.AdminID,
	}

	participant := &models.GameParticipant{
		JoinedAt: time.Now(),
	}

	if err := s.gameRepo.CreateWithAdmin(game, participant); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	return game, nil
}

// ListGames returns games with pagination, newest first.
func (s *GameService) ListGames(params utils.PaginationParams) ([]models.Game, int64, error) {
	games, total, err := s.gameRepo.List(params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list games: %w", err)
	}
	return games, total, nil
}

// GetGame returns a game with its admin and challenges.
func (s *GameService) GetGame(id uint64) (*models.Game, error) {
	game, err := s.gameRepo.FindByID(id, "Admin", "Challenges")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to find game: %w", err)
	}
	return game, nil
}

// UpdateGameInput represents the admin-editable game settings.
type UpdateGameInput struct {
	Title       *string
	Description *string
	EndingTime  *time.Time
	IsPublic    *bool
}

// UpdateGame applies admin-editable settings to a game.
func (s *GameService) UpdateGame(gameID, actorID uint64, input UpdateGameInput) (*models.Game, error) {
	game, err := s.gameRepo.FindByID(gameID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to find game: %w", err)
	}

	if game.AdminID != actorID {
		return nil, ErrNotGameAdmin
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, ErrInvalidGameTitle
		}
		game.Title = *input.Title
	}
	if input.Description != nil {
		game.Description = *input.Description
	}
	if input.EndingTime != nil {
		game.EndingTime = *input.EndingTime
	}
	if input.IsPublic != nil {
		game.IsPublic = *input.IsPublic
	}

	if err := s.gameRepo.Update(game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	return game, nil
}

// IsEnded reports whether the game's ending time has passed.
func (s *GameService) IsEnded(gameID uint64) (bool, error) {
	game, err := s.gameRepo.FindByID(gameID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrGameNotFound
		}
		return false, fmt.Errorf("failed to find game: %w", err)
	}
	return game.HasEnded(time.Now()), nil
}

// JoinGame adds the user as a participant of a public, unfinished game.
func (s *GameService) JoinGame(gameID, userID uint64) (*models.Game, error) {
	game, err := s.gameRepo.FindByID(gameID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to find game: %w", err)
	}

	if !game.IsPublic {
		return nil, ErrGamePrivate
	}
	if game.HasEnded(time.Now()) {
		return nil, ErrGameEnded
	}

	if _, err := s.gameRepo.FindParticipant(gameID, userID); err == nil {
		return nil, ErrAlreadyParticipant
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to verify participation: %w", err)
	}

	participant := &models.GameParticipant{
		GameID:   gameID,
		UserID:   userID,
		JoinedAt: time.Now(),
	}

	if err := s.gameRepo.AddParticipant(participant); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyParticipant
		}
		return nil, fmt.Errorf("failed to join game: %w", err)
	}

	return game, nil
}

// LeaderboardEntry is one user's aggregate on a game's leaderboard.
type LeaderboardEntry struct {
	User             models.User
	Score            int
	ChallengesSolved int
}

// GetLeaderboard recomputes the game's leaderboard from the submission log.
func (s *GameService) GetLeaderboard(gameID uint64) ([]LeaderboardEntry, error) {
	if _, err := s.gameRepo.FindByID(gameID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to find game: %w", err)
	}

	submissions, err := s.submissionRepo.ListByGame(gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}

	rows := make([]scoring.Row, len(submissions))
	users := make(map[uint64]models.User, len(submissions))
	for i, sub := range submissions {
		rows[i] = scoring.Row{
			UserID:        sub.UserID,
			Flag:          sub.Flag,
			ChallengeFlag: sub.Challenge.Flag,
			PointValue:    sub.Challenge.PointValue,
			CreatedAt:     sub.CreatedAt,
		}
		users[sub.UserID] = sub.User
	}

	standings := scoring.Rank(rows)

	entries := make([]LeaderboardEntry, len(standings))
	for i, standing := range standings {
		entries[i] = LeaderboardEntry{
			User:             users[standing.UserID],
			Score:            standing.Score,
			ChallengesSolved: standing.ChallengesSolved,
		}
	}

	return entries, nil
}
