package repository

import (
	"github.com/tsukinami/ctf-platform-api/internal/models"
	"gorm.io/gorm"
)

// GormChallengeRepository is a GORM implementation of ChallengeRepository
type GormChallengeRepository struct {
	db *gorm.DB
}

// NewChallengeRepository creates a new ChallengeRepository
func NewChallengeRepository(db *gorm.DB) ChallengeRepository {
	return &GormChallengeRepository{db: db}
}

// Create creates a new challenge
func (r *GormChallengeRepository) Create(challenge *models.Challenge) error {
	return r.db.Create(challenge).Error
}

// FindByID finds a challenge by ID with optional preloading
func (r *GormChallengeRepository) FindByID(id uint64, preload ...string) (*models.Challenge, error) {
	var challenge models.Challenge
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&challenge, id).Error; err != nil {
		return nil, err
	}

	return &challenge, nil
}

// ListByGame lists a game's challenges ordered by point value
func (r *GormChallengeRepository) ListByGame(gameID uint64) ([]models.Challenge, error) {
	var challenges []models.Challenge
	if err := r.db.Where("game_id = ?", gameID).
		Order("point_value ASC").
		Find(&challenges).Error; err != nil {
		return nil, err
	}
	return challenges, nil
}
