package dto

import (
	"time"

	"github.com/tsukinami/ctf-platform-api/internal/models"
)

// SubmissionDTO represents a submission in API responses
type SubmissionDTO struct {
	ID          uint64           `json:"id"`
	ChallengeID uint64           `json:"challenge_id"`
	Flag        string           `json:"flag"`
	CreatedAt   time.Time        `json:"created_at"`
	Challenge   *ChallengeRefDTO `json:"challenge,omitempty"`
}

// ToSubmissionDTO converts a Submission model to SubmissionDTO
func ToSubmissionDTO(submission models.Submission) SubmissionDTO {
	dto := SubmissionDTO{
		ID:          submission.ID,
		ChallengeID: submission.ChallengeID,
		Flag:        submission.Flag,
		CreatedAt:   submission.CreatedAt,
	}
	if submission.Challenge.ID != 0 {
		ref := ToChallengeRefDTO(submission.Challenge)
		dto.Challenge = &ref
	}
	return dto
}

// ToSubmissionDTOs converts a slice of submissions
func ToSubmissionDTOs(submissions []models.Submission) []SubmissionDTO {
	dtos := make([]SubmissionDTO, len(submissions))
	for i, submission := range submissions {
		dtos[i] = ToSubmissionDTO(submission)
	}
	return dtos
}
