package repository

import (
	"errors"

	"github.com/tsukinami/ctf-platform-api/internal/models"
	"gorm.io/gorm"
)

var (
	// ErrChallengeSolved is returned when the user already has a correct
	// submission for the challenge.
	ErrChallengeSolved = errors.New("submission repository: challenge already solved")
	// ErrAttemptExists is returned when the user already submitted this
	// exact flag for the challenge.
	ErrAttemptExists = errors.New("submission repository: attempt already recorded")
)

// GormSubmissionRepository is a GORM implementation of SubmissionRepository
type GormSubmissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository creates a new SubmissionRepository
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &GormSubmissionRepository{db: db}
}

// CreateAttempt re-checks the solved and duplicate conditions and inserts the
// attempt inside one transaction. The unique index on
// (challenge_id, user_id, flag) backstops the duplicate check, so two
// concurrent submissions of the same flag cannot both commit; the loser
// surfaces as ErrAttemptExists.
func (r *GormSubmissionRepository) CreateAttempt(submission *models.Submission, challengeFlag string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var solved int64
		if err := tx.Model(&models.Submission{}).
			Where("challenge_id = ? AND user_id = ? AND flag = ?",
				submission.ChallengeID, submission.UserID, challengeFlag).
			Count(&solved).Error; err != nil {
			return err
		}
		if solved > 0 {
			return ErrChallengeSolved
		}

		var duplicates int64
		if err := tx.Model(&models.Submission{}).
			Where("challenge_id = ? AND user_id = ? AND flag = ?",
				submission.ChallengeID, submission.UserID, submission.Flag).
			Count(&duplicates).Error; err != nil {
			return err
		}
		if duplicates > 0 {
			return ErrAttemptExists
		}

		if err := tx.Create(submission).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAttemptExists
			}
			return err
		}

		return nil
	})
}

// ListByGame lists all submissions against a game's challenges
func (r *GormSubmissionRepository) ListByGame(gameID uint64) ([]models.Submission, error) {
	var submissions []models.Submission
	if err := r.db.
		Joins("JOIN challenges ON challenges.id = submissions.challenge_id").
		Where("challenges.game_id = ?", gameID).
		Preload("User").
		Preload("Challenge").
		Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

// ListByUserAndGame lists the user's submissions for a game, newest first
func (r *GormSubmissionRepository) ListByUserAndGame(userID, gameID uint64) ([]models.Submission, error) {
	var submissions []models.Submission
	if err := r.db.
		Joins("JOIN challenges ON challenges.id = submissions.challenge_id").
		Where("submissions.user_id = ? AND challenges.game_id = ?", userID, gameID).
		Preload("Challenge").
		Order("submissions.created_at DESC").
		Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

// FindFirstByUserAndChallenge returns the user's earliest submission for a challenge
func (r *GormSubmissionRepository) FindFirstByUserAndChallenge(userID, challengeID uint64) (*models.Submission, error) {
	var submission models.Submission
	if err := r.db.Where("user_id = ? AND challenge_id = ?", userID, challengeID).
		Order("created_at ASC").
		First(&submission).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

// HasMatchingSubmission reports whether the user has submitted the given flag
func (r *GormSubmissionRepository) HasMatchingSubmission(userID, challengeID uint64, flag string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Submission{}).
		Where("user_id = ? AND challenge_id = ? AND flag = ?", userID, challengeID, flag).
		Count(&count).Error
	return count > 0, err
}
