package database

import (
	"fmt"

	"github.com/tsukinami/ctf-platform-api/internal/models"
	"gorm.io/gorm"
)

// AddIndexes adds performance-critical indexes to the database
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		model   interface{}
		table   string
		name    string
		columns string
	}{
		// Submission indexes for the scoring pass and gate lookups
		{&models.Submission{}, "submissions", "idx_submissions_challenge_id", "challenge_id"},
		{&models.Submission{}, "submissions", "idx_submissions_user_id", "user_id"},
		{&models.Submission{}, "submissions", "idx_submissions_created_at", "created_at"},

		// Challenge lookup by game
		{&models.Challenge{}, "challenges", "idx_challenges_game_id", "game_id"},

		// Participant lookups
		{&models.GameParticipant{}, "game_participants", "idx_game_participants_game_id", "game_id"},
		{&models.GameParticipant{}, "game_participants", "idx_game_participants_user_id", "user_id"},

		// Invite lookups
		{&models.UserInvite{}, "user_invites", "idx_user_invites_game_id", "game_id"},
		{&models.UserInvite{}, "user_invites", "idx_user_invites_invited_user_id", "invited_user_id"},
		{&models.InviteLink{}, "invite_links", "idx_invite_links_game_id", "game_id"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.model, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}

// MigrateDatabase runs all database migrations
func MigrateDatabase(db *gorm.DB) error {
	if err := AddIndexes(db); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}

	return nil
}
