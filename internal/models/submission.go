package models

import "time"

// Submission is one attempt against a challenge. The log is append-only:
// incorrect and correct attempts are both kept, and correctness is always
// derived by comparing Flag against the challenge's flag at read time.
type Submission struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	ChallengeID uint64    `gorm:"not null;uniqueIndex:idx_submissions_attempt" json:"challenge_id"`
	UserID      uint64    `gorm:"not null;uniqueIndex:idx_submissions_attempt" json:"user_id"`
	Flag        string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_submissions_attempt" json:"flag"`
	CreatedAt   time.Time `json:"created_at"`

	// Relations
	Challenge Challenge `gorm:"foreignKey:ChallengeID" json:"challenge,omitempty"`
	User      User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// IsCorrect reports whether the attempt matches the challenge flag.
func (s *Submission) IsCorrect(challengeFlag string) bool {
	return s.Flag == challengeFlag
}
