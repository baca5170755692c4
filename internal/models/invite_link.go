package models

import (
	"time"

	"gorm.io/gorm"
)

// LinkUsage says how many times an invite link may be redeemed. A single-use
// link moves to REDEEMED on first acceptance; an unlimited link never does.
type LinkUsage string

const (
	LinkUsageUnlimited LinkUsage = "UNLIMITED"
	LinkUsageSingleUse LinkUsage = "SINGLE_USE"
	LinkUsageRedeemed  LinkUsage = "REDEEMED"
)

// InviteLink is a bearer-token invitation: whoever presents the code may
// join the game. Links share the invite status vocabulary but have no
// DECLINED state, there is no bound invitee to decline.
type InviteLink struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	GameID      uint64         `gorm:"not null;index" json:"game_id"`
	InviteCode  string         `gorm:"type:varchar(64);uniqueIndex;not null" json:"invite_code"`
	InvitedByID uint64         `gorm:"not null" json:"invited_by_id"`
	Message     string         `gorm:"type:text" json:"message"`
	Status      InviteStatus   `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	Usage       LinkUsage      `gorm:"type:varchar(20);not null;default:'UNLIMITED'" json:"usage"`
	ExpiresAt   *time.Time     `json:"expires_at"`
	UsedByID    *uint64        `json:"used_by_id"`
	UsedAt      *time.Time     `json:"used_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Game      Game  `gorm:"foreignKey:GameID" json:"game,omitempty"`
	InvitedBy User  `gorm:"foreignKey:InvitedByID" json:"invited_by,omitempty"`
	UsedBy    *User `gorm:"foreignKey:UsedByID" json:"used_by,omitempty"`
}

// IsSingleUse reports whether the link is limited to one redemption.
func (l *InviteLink) IsSingleUse() bool {
	return l.Usage != LinkUsageUnlimited
}

// IsExpired reports whether the link has an expiry in the past.
func (l *InviteLink) IsExpired(now time.Time) bool {
	return l.ExpiresAt != nil && now.After(*l.ExpiresAt)
}
