package models

import (
	"time"

	"gorm.io/gorm"
)

type Challenge struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	GameID      uint64         `gorm:"not null;index" json:"game_id"`
	Title       string         `gorm:"type:varchar(255);not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Flag        string         `gorm:"type:varchar(255);not null" json:"-"`
	PointValue  int            `gorm:"not null" json:"point_value"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Game        Game         `gorm:"foreignKey:GameID" json:"game,omitempty"`
	Submissions []Submission `gorm:"foreignKey:ChallengeID" json:"-"`
}
