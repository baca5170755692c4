package dto

import (
	"github.com/tsukinami/ctf-platform-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID       uint64  `json:"id"`
	Email    string  `json:"email,omitempty"`
	Username *string `json:"username"`
}

// PublicUserDTO represents a user as shown to other users
type PublicUserDTO struct {
	ID       uint64  `json:"id"`
	Username *string `json:"username"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Email:    user.Email,
		Username: user.Username,
	}
}

// ToPublicUserDTO converts a User model to PublicUserDTO
func ToPublicUserDTO(user models.User) PublicUserDTO {
	return PublicUserDTO{
		ID:       user.ID,
		Username: user.Username,
	}
}
