package dto

import (
	"time"

	"github.com/tsukinami/ctf-platform-api/internal/models"
)

// ChallengeDTO represents a challenge in API responses. The flag is never
// serialized here; it is only returned by the dedicated flag endpoint.
type ChallengeDTO struct {
	ID          uint64    `json:"id"`
	GameID      uint64    `json:"game_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	PointValue  int       `json:"point_value"`
	Solved      *bool     `json:"solved,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ChallengeRefDTO is a minimal challenge reference embedded in other responses
type ChallengeRefDTO struct {
	ID         uint64 `json:"id"`
	Title      string `json:"title"`
	PointValue int    `json:"point_value"`
}

// ToChallengeDTO converts a Challenge model to ChallengeDTO. Pass solved to
// include the caller's solve state.
func ToChallengeDTO(challenge models.Challenge, solved *bool) ChallengeDTO {
	return ChallengeDTO{
		ID:          challenge.ID,
		GameID:      challenge.GameID,
		Title:       challenge.Title,
		Description: challenge.Description,
		PointValue:  challenge.PointValue,
		Solved:      solved,
		CreatedAt:   challenge.CreatedAt,
	}
}

// ToChallengeRefDTO converts a Challenge model to ChallengeRefDTO
func ToChallengeRefDTO(challenge models.Challenge) ChallengeRefDTO {
	return ChallengeRefDTO{
		ID:         challenge.ID,
		Title:      challenge.Title,
		PointValue: challenge.PointValue,
	}
}
