package dto

import (
	"time"

	"github.com/tsukinami/ctf-platform-api/internal/models"
	"github.com/tsukinami/ctf-platform-api/internal/services"
)

// GameDTO represents a game in API responses
type GameDTO struct {
	ID             uint64         `json:"id"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	EndingTime     time.Time      `json:"ending_time"`
	IsPublic       bool           `json:"is_public"`
	AdminID        uint64         `json:"admin_id"`
	Admin          *PublicUserDTO `json:"admin,omitempty"`
	ChallengeCount int            `json:"challenge_count"`
	CreatedAt      time.Time      `json:"created_at"`
}

// GameDetailDTO represents a game with its challenges
type GameDetailDTO struct {
	GameDTO
	Challenges []ChallengeDTO `json:"challenges"`
}

// GameListResponse represents a paginated list of games
type GameListResponse struct {
	Games []GameDTO `json:"games"`
	Page  int       `json:"page"`
	Limit int       `json:"limit"`
	Total int64     `json:"total"`
}

// LeaderboardEntryDTO represents one row on a game's leaderboard
type LeaderboardEntryDTO struct {
	User             PublicUserDTO `json:"user"`
	Score            int           `json:"score"`
	ChallengesSolved int           `json:"challenges_solved"`
}

// ToGameDTO converts a Game model to GameDTO
func ToGameDTO(game models.Game) GameDTO {
	dto := GameDTO{
		ID:             game.ID,
		Title:          game.Title,
		Description:    game.Description,
		EndingTime:     game.EndingTime,
		IsPublic:       game.IsPublic,
		AdminID:        game.AdminID,
		ChallengeCount: len(game.Challenges),
		CreatedAt:      game.CreatedAt,
	}
	if game.Admin.ID != 0 {
		admin := ToPublicUserDTO(game.Admin)
		dto.Admin = &admin
	}
	return dto
}

// ToGameDetailDTO converts a Game model with challenges to GameDetailDTO
func ToGameDetailDTO(game models.Game) GameDetailDTO {
	challenges := make([]ChallengeDTO, len(game.Challenges))
	for i, challenge := range game.Challenges {
		challenges[i] = ToChallengeDTO(challenge, nil)
	}

	return GameDetailDTO{
		GameDTO:    ToGameDTO(game),
		Challenges: challenges,
	}
}

// ToLeaderboardDTO converts leaderboard entries to DTOs
func ToLeaderboardDTO(entries []services.LeaderboardEntry) []LeaderboardEntryDTO {
	dtos := make([]LeaderboardEntryDTO, len(entries))
	for i, entry := range entries {
		dtos[i] = LeaderboardEntryDTO{
			User:             ToPublicUserDTO(entry.User),
			Score:            entry.Score,
			ChallengesSolved: entry.ChallengesSolved,
		}
	}
	return dtos
}
