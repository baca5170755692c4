package models

import "time"

type GameParticipant struct {
	GameID   uint64    `gorm:"primarykey" json:"game_id"`
	UserID   uint64    `gorm:"primarykey" json:"user_id"`
	JoinedAt time.Time `json:"joined_at"`

	// Relations
	Game Game `gorm:"foreignKey:GameID" json:"game,omitempty"`
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
