package repository

import (
	"errors"
	"time"

	"github.com/tsukinami/ctf-platform-api/internal/models"
	"gorm.io/gorm"
)

// ErrInviteNotPending is returned when a transition is attempted on an
// invite or invite link that is no longer PENDING.
var ErrInviteNotPending = errors.New("invite repository: invite is not pending")

// GormInviteRepository is a GORM implementation of InviteRepository
type GormInviteRepository struct {
	db *gorm.DB
}

// NewInviteRepository creates a new InviteRepository
func NewInviteRepository(db *gorm.DB) InviteRepository {
	return &GormInviteRepository{db: db}
}

// CreateUserInvite creates a new user invite
func (r *GormInviteRepository) CreateUserInvite(invite *models.UserInvite) error {
	return r.db.Create(invite).Error
}

// FindUserInviteByID finds a user invite by ID with optional preloading
func (r *GormInviteRepository) FindUserInviteByID(id uint64, preload ...string) (*models.UserInvite, error) {
	var invite models.UserInvite
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&invite, id).Error; err != nil {
		return nil, err
	}

	return &invite, nil
}

// FindPendingUserInvite finds a pending invite for a user and game
func (r *GormInviteRepository) FindPendingUserInvite(gameID, invitedUserID uint64) (*models.UserInvite, error) {
	var invite models.UserInvite
	if err := r.db.
		Where("game_id = ? AND invited_user_id = ? AND status = ?",
			gameID, invitedUserID, models.InviteStatusPending).
		First(&invite).Error; err != nil {
		return nil, err
	}
	return &invite, nil
}

// ListUserInvitesByGame lists all user invites for a game, newest first
func (r *GormInviteRepository) ListUserInvitesByGame(gameID uint64) ([]models.UserInvite, error) {
	var invites []models.UserInvite
	if err := r.db.
		Preload("InvitedBy").
		Preload("InvitedUser").
		Preload("AcceptedBy").
		Where("game_id = ?", gameID).
		Order("created_at DESC").
		Find(&invites).Error; err != nil {
		return nil, err
	}
	return invites, nil
}

// ListPendingUserInvitesForUser lists a user's pending invites, newest first
func (r *GormInviteRepository) ListPendingUserInvitesForUser(userID uint64) ([]models.UserInvite, error) {
	var invites []models.UserInvite
	if err := r.db.
		Preload("Game").
		Preload("InvitedBy").
		Where("invited_user_id = ? AND status = ?", userID, models.InviteStatusPending).
		Order("created_at DESC").
		Find(&invites).Error; err != nil {
		return nil, err
	}
	return invites, nil
}

// AcceptUserInvite marks a pending invite accepted and inserts the
// participant row atomically. The status update is conditional on the
// invite still being PENDING, so a concurrent accept or cancel loses.
func (r *GormInviteRepository) AcceptUserInvite(invite *models.UserInvite, participant *models.GameParticipant) error {
	now := time.Now()
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.UserInvite{}).
			Where("id = ? AND status = ?", invite.ID, models.InviteStatusPending).
			Updates(map[string]interface{}{
				"status":         models.InviteStatusAccepted,
				"accepted_by_id": participant.UserID,
				"accepted_at":    now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrInviteNotPending
		}

		if err := tx.Create(participant).Error; err != nil {
			return err
		}

		invite.Status = models.InviteStatusAccepted
		invite.AcceptedByID = &participant.UserID
		invite.AcceptedAt = &now
		return nil
	})
}

// TransitionUserInvite moves a pending user invite to a terminal status
func (r *GormInviteRepository) TransitionUserInvite(id uint64, to models.InviteStatus) error {
	result := r.db.Model(&models.UserInvite{}).
		Where("id = ? AND status = ?", id, models.InviteStatusPending).
		Update("status", to)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInviteNotPending
	}
	return nil
}

// CreateInviteLink creates a new invite link
func (r *GormInviteRepository) CreateInviteLink(link *models.InviteLink) error {
	return r.db.Create(link).Error
}

// FindInviteLinkByID finds an invite link by ID with optional preloading
func (r *GormInviteRepository) FindInviteLinkByID(id uint64, preload ...string) (*models.InviteLink, error) {
	var link models.InviteLink
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&link, id).Error; err != nil {
		return nil, err
	}

	return &link, nil
}

// FindInviteLinkByCode finds an invite link by its code with optional preloading
func (r *GormInviteRepository) FindInviteLinkByCode(code string, preload ...string) (*models.InviteLink, error) {
	var link models.InviteLink
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.Where("invite_code = ?", code).First(&link).Error; err != nil {
		return nil, err
	}

	return &link, nil
}

// ListInviteLinksByGame lists all invite links for a game, newest first
func (r *GormInviteRepository) ListInviteLinksByGame(gameID uint64) ([]models.InviteLink, error) {
	var links []models.InviteLink
	if err := r.db.
		Preload("InvitedBy").
		Preload("UsedBy").
		Where("game_id = ?", gameID).
		Order("created_at DESC").
		Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

// RedeemInviteLink records a redemption and inserts the participant row
// atomically. A single-use link is flipped to USED/REDEEMED with a
// conditional update, so only one of two racing redeemers can win; an
// unlimited link stays PENDING and only records the latest redeemer.
func (r *GormInviteRepository) RedeemInviteLink(link *models.InviteLink, participant *models.GameParticipant) error {
	now := time.Now()
	return r.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"used_by_id": participant.UserID,
			"used_at":    now,
		}
		if link.IsSingleUse() {
			updates["status"] = models.InviteStatusUsed
			updates["usage"] = models.LinkUsageRedeemed
		}

		result := tx.Model(&models.InviteLink{}).
			Where("id = ? AND status = ?", link.ID, models.InviteStatusPending).
			Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrInviteNotPending
		}

		if err := tx.Create(participant).Error; err != nil {
			return err
		}

		link.UsedByID = &participant.UserID
		link.UsedAt = &now
		if link.IsSingleUse() {
			link.Status = models.InviteStatusUsed
			link.Usage = models.LinkUsageRedeemed
		}
		return nil
	})
}

// TransitionInviteLink moves a pending invite link to a terminal status
func (r *GormInviteRepository) TransitionInviteLink(id uint64, to models.InviteStatus) error {
	result := r.db.Model(&models.InviteLink{}).
		Where("id = ? AND status = ?", id, models.InviteStatusPending).
		Update("status", to)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInviteNotPending
	}
	return nil
}
