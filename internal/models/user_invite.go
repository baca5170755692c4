package models

import (
	"time"

	"gorm.io/gorm"
)

type InviteStatus string

const (
	InviteStatusPending  InviteStatus = "PENDING"
	InviteStatusAccepted InviteStatus = "ACCEPTED"
	InviteStatusDeclined InviteStatus = "DECLINED"
	InviteStatusUsed     InviteStatus = "USED"
	InviteStatusDeleted  InviteStatus = "DELETED"
)

// UserInvite is an invitation addressed to a specific user. PENDING is the
// only state from which ACCEPTED, DECLINED or DELETED are reachable.
type UserInvite struct {
	ID            uint64         `gorm:"primarykey" json:"id"`
	GameID        uint64         `gorm:"not null;index" json:"game_id"`
	InvitedUserID uint64         `gorm:"not null;index" json:"invited_user_id"`
	InvitedByID   uint64         `gorm:"not null" json:"invited_by_id"`
	Message       string         `gorm:"type:text" json:"message"`
	Status        InviteStatus   `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	ExpiresAt     *time.Time     `json:"expires_at"`
	AcceptedByID  *uint64        `json:"accepted_by_id"`
	AcceptedAt    *time.Time     `json:"accepted_at"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Game        Game  `gorm:"foreignKey:GameID" json:"game,omitempty"`
	InvitedUser User  `gorm:"foreignKey:InvitedUserID" json:"invited_user,omitempty"`
	InvitedBy   User  `gorm:"foreignKey:InvitedByID" json:"invited_by,omitempty"`
	AcceptedBy  *User `gorm:"foreignKey:AcceptedByID" json:"accepted_by,omitempty"`
}

// IsExpired reports whether the invite has an expiry in the past.
func (i *UserInvite) IsExpired(now time.Time) bool {
	return i.ExpiresAt != nil && now.After(*i.ExpiresAt)
}
