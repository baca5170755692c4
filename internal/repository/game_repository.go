package repository

import (
	"errors"
	"fmt"

	"github.com/tsukinami/ctf-platform-api/internal/database"
	"github.com/tsukinami/ctf-platform-api/internal/models"
	"github.com/tsukinami/ctf-platform-api/internal/utils"
	"gorm.io/gorm"
)

var (
	// ErrCreateGame is returned when creating a game fails inside the creation transaction.
	ErrCreateGame = errors.New("game repository: create game failed")
	// ErrCreateParticipant is returned when creating the admin's participant row fails inside the creation transaction.
	ErrCreateParticipant = errors.New("game repository: create participant failed")
)

// GormGameRepository is a GORM implementation of GameRepository
type GormGameRepository struct {
	db *gorm.DB
}

// NewGameRepository creates a new GameRepository
func NewGameRepository(db *gorm.DB) GameRepository {
	return &GormGameRepository{db: db}
}

// CreateWithAdmin creates a game and the admin's participant row atomically.
func (r *GormGameRepository) CreateWithAdmin(game *models.Game, participant *models.GameParticipant) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(game).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateGame, err)
		}

		participant.GameID = game.ID
		participant.UserID = game.AdminID

		if err := tx.Create(participant).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateParticipant, err)
		}

		return nil
	})
}

// FindByID finds a game by ID with optional preloading
func (r *GormGameRepository) FindByID(id uint64, preload ...string) (*models.Game, error) {
	var game models.Game
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&game, id).Error; err != nil {
		return nil, err
	}

	return &game, nil
}

// List retrieves games with pagination, newest first
func (r *GormGameRepository) List(params utils.PaginationParams) ([]models.Game, int64, error) {
	var games []models.Game

	query := r.db.Model(&models.Game{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("Admin").
		Preload("Challenges").
		Order("created_at DESC").
		Scopes(database.Paginate(params)).
		Find(&games).Error; err != nil {
		return nil, 0, err
	}

	return games, total, nil
}

// Update updates a game
func (r *GormGameRepository) Update(game *models.Game) error {
	return r.db.Save(game).Error
}

// AddParticipant adds a participant to a game
func (r *GormGameRepository) AddParticipant(participant *models.GameParticipant) error {
	return r.db.Create(participant).Error
}

// FindParticipant finds a specific game participant
func (r *GormGameRepository) FindParticipant(gameID, userID uint64) (*models.GameParticipant, error) {
	var participant models.GameParticipant
	if err := r.db.Where("game_id = ? AND user_id = ?", gameID, userID).
		First(&participant).Error; err != nil {
		return nil, err
	}
	return &participant, nil
}

// CountHostedByUser counts games administered by the user
func (r *GormGameRepository) CountHostedByUser(userID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Game{}).
		Where("admin_id = ?", userID).
		Count(&count).Error
	return count, err
}

// CountPlayedByUser counts games joined by the user, excluding ones they administer
func (r *GormGameRepository) CountPlayedByUser(userID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.GameParticipant{}).
		Joins("JOIN games ON games.id = game_participants.game_id").
		Where("game_participants.user_id = ? AND games.admin_id <> ?", userID, userID).
		Count(&count).Error
	return count, err
}

// FirstParticipation returns the user's earliest participant row
func (r *GormGameRepository) FirstParticipation(userID uint64) (*models.GameParticipant, error) {
	var participant models.GameParticipant
	if err := r.db.Where("user_id = ?", userID).
		Order("joined_at ASC").
		First(&participant).Error; err != nil {
		return nil, err
	}
	return &participant, nil
}
