package models

import (
	"time"

	"gorm.io/gorm"
)

type Game struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	Title       string         `gorm:"type:varchar(255);not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	EndingTime  time.Time      `gorm:"not null" json:"ending_time"`
	IsPublic    bool           `gorm:"not null;default:true" json:"is_public"`
	AdminID     uint64         `gorm:"not null" json:"admin_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Admin        User              `gorm:"foreignKey:AdminID" json:"admin,omitempty"`
	Challenges   []Challenge       `gorm:"foreignKey:GameID" json:"challenges,omitempty"`
	Participants []GameParticipant `gorm:"foreignKey:GameID" json:"participants,omitempty"`
}

// HasEnded reports whether the game's ending time has passed.
func (g *Game) HasEnded(now time.Time) bool {
	return now.After(g.EndingTime)
}
