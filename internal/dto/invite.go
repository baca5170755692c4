package dto

import (
	"fmt"
	"time"

	"github.com/tsukinami/ctf-platform-api/internal/models"
)

// GameRefDTO is a minimal game reference embedded in invite responses
type GameRefDTO struct {
	ID         uint64    `json:"id"`
	Title      string    `json:"title"`
	EndingTime time.Time `json:"ending_time"`
	IsPublic   bool      `json:"is_public"`
}

// UserInviteDTO represents a user invite in API responses
type UserInviteDTO struct {
	ID          uint64              `json:"id"`
	GameID      uint64              `json:"game_id"`
	Game        *GameRefDTO         `json:"game,omitempty"`
	Status      models.InviteStatus `json:"status"`
	Message     string              `json:"message,omitempty"`
	ExpiresAt   *time.Time          `json:"expires_at"`
	InvitedUser *PublicUserDTO      `json:"invited_user,omitempty"`
	InvitedBy   *PublicUserDTO      `json:"invited_by,omitempty"`
	AcceptedBy  *PublicUserDTO      `json:"accepted_by,omitempty"`
	AcceptedAt  *time.Time          `json:"accepted_at,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
}

// InviteLinkDTO represents an invite link in API responses
type InviteLinkDTO struct {
	ID          uint64              `json:"id"`
	GameID      uint64              `json:"game_id"`
	Game        *GameRefDTO         `json:"game,omitempty"`
	InviteCode  string              `json:"invite_code"`
	InviteURL   string              `json:"invite_url,omitempty"`
	Status      models.InviteStatus `json:"status"`
	Usage       models.LinkUsage    `json:"usage"`
	Message     string              `json:"message,omitempty"`
	ExpiresAt   *time.Time          `json:"expires_at"`
	InvitedBy   *PublicUserDTO      `json:"invited_by,omitempty"`
	UsedBy      *PublicUserDTO      `json:"used_by,omitempty"`
	UsedAt      *time.Time          `json:"used_at,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
}

func toGameRefDTO(game models.Game) *GameRefDTO {
	if game.ID == 0 {
		return nil
	}
	return &GameRefDTO{
		ID:         game.ID,
		Title:      game.Title,
		EndingTime: game.EndingTime,
		IsPublic:   game.IsPublic,
	}
}

func toOptionalUserDTO(user *models.User) *PublicUserDTO {
	if user == nil || user.ID == 0 {
		return nil
	}
	dto := ToPublicUserDTO(*user)
	return &dto
}

// ToUserInviteDTO converts a UserInvite model to UserInviteDTO
func ToUserInviteDTO(invite models.UserInvite) UserInviteDTO {
	return UserInviteDTO{
		ID:          invite.ID,
		GameID:      invite.GameID,
		Game:        toGameRefDTO(invite.Game),
		Status:      invite.Status,
		Message:     invite.Message,
		ExpiresAt:   invite.ExpiresAt,
		InvitedUser: toOptionalUserDTO(&invite.InvitedUser),
		InvitedBy:   toOptionalUserDTO(&invite.InvitedBy),
		AcceptedBy:  toOptionalUserDTO(invite.AcceptedBy),
		AcceptedAt:  invite.AcceptedAt,
		CreatedAt:   invite.CreatedAt,
	}
}

// ToUserInviteDTOs converts a slice of user invites
func ToUserInviteDTOs(invites []models.UserInvite) []UserInviteDTO {
	dtos := make([]UserInviteDTO, len(invites))
	for i, invite := range invites {
		dtos[i] = ToUserInviteDTO(invite)
	}
	return dtos
}

// ToInviteLinkDTO converts an InviteLink model to InviteLinkDTO. baseURL, if
// non-empty, is used to render a shareable URL for the code.
func ToInviteLinkDTO(link models.InviteLink, baseURL string) InviteLinkDTO {
	dto := InviteLinkDTO{
		ID:         link.ID,
		GameID:     link.GameID,
		Game:       toGameRefDTO(link.Game),
		InviteCode: link.InviteCode,
		Status:     link.Status,
		Usage:      link.Usage,
		Message:    link.Message,
		ExpiresAt:  link.ExpiresAt,
		InvitedBy:  toOptionalUserDTO(&link.InvitedBy),
		UsedBy:     toOptionalUserDTO(link.UsedBy),
		UsedAt:     link.UsedAt,
		CreatedAt:  link.CreatedAt,
	}
	if baseURL != "" {
		dto.InviteURL = fmt.Sprintf("%s/invite/%s", baseURL, link.InviteCode)
	}
	return dto
}

// ToInviteLinkDTOs converts a slice of invite links
func ToInviteLinkDTOs(links []models.InviteLink, baseURL string) []InviteLinkDTO {
	dtos := make([]InviteLinkDTO, len(links))
	for i, link := range links {
		dtos[i] = ToInviteLinkDTO(link, baseURL)
	}
	return dtos
}
