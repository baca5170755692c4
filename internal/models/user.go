package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"`
	Username     *string        `gorm:"type:varchar(20);uniqueIndex" json:"username"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	AdministeredGames []Game            `gorm:"foreignKey:AdminID" json:"-"`
	Submissions       []Submission      `gorm:"foreignKey:UserID" json:"-"`
	Participations    []GameParticipant `gorm:"foreignKey:UserID" json:"-"`
}

// HasUsername reports whether the user has completed username setup.
func (u *User) HasUsername() bool {
	return u.Username != nil && *u.Username != ""
}
