package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tsukinami/ctf-platform-api/internal/models"
	"github.com/tsukinami/ctf-platform-api/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Game{},
		&models.GameParticipant{},
		&models.Challenge{},
		&models.Submission{},
		&models.UserInvite{},
		&models.InviteLink{},
	)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}

func strPtr(s string) *string {
	return &s
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := &models.User{
		Email:        username + "@example.com",
		PasswordHash: "x",
		Username:     strPtr(username),
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestGame(t *testing.T, db *gorm.DB, adminID uint64, endingTime time.Time) *models.Game {
	t.Helper()

	game := &models.Game{
		Title:      "Test CTF",
		EndingTime: endingTime,
		IsPublic:   true,
		AdminID:    adminID,
	}
	require.NoError(t, db.Create(game).Error)
	require.NoError(t, db.Create(&models.GameParticipant{
		GameID:   game.ID,
		UserID:   adminID,
		JoinedAt: time.Now(),
	}).Error)
	return game
}

func createTestChallenge(t *testing.T, db *gorm.DB, gameID uint64, flag string, points int) *models.Challenge {
	t.Helper()

	challenge := &models.Challenge{
		GameID:     gameID,
		Title:      "Test Challenge",
		Flag:       flag,
		PointValue: points,
	}
	require.NoError(t, db.Create(challenge).Error)
	return challenge
}

type submissionTestEnv struct {
	db      *gorm.DB
	service *SubmissionService
}

func setupSubmissionTestEnv(t *testing.T) submissionTestEnv {
	t.Helper()

	db := openTestDB(t)
	service := NewSubmissionService(
		repository.NewSubmissionRepository(db),
		repository.NewChallengeRepository(db),
	)
	return submissionTestEnv{db: db, service: service}
}

func TestSubmissionService_Submit_IncorrectFlagPersistsAttempt(t *testing.T) {
	env := setupSubmissionTestEnv(t)

	admin := createTestUser(t, env.db, "admin")
	player := createTestUser(t, env.db, "player")
	game := createTestGame(t, env.db, admin.ID, time.Now().Add(time.Hour))
	challenge := createTestChallenge(t, env.db, game.ID, "flag{right}", 100)

	submission, err := env.service.Submit(player.ID, challenge.ID, "flag{wrong}")
	require.ErrorIs(t, err, ErrIncorrectFlag)
	require.Nil(t, submission)

	var count int64
	require.NoError(t, env.db.Model(&models.Submission{}).
		Where("challenge_id = ? AND user_id = ?", challenge.ID, player.ID).
		Count(&count).Error)
	require.Equal(t, int64(1), count, "incorrect attempt should still be recorded")
}

func TestSubmissionService_Submit_CorrectFlag(t *testing.T) {
	env := setupSubmissionTestEnv(t)

	admin := createTestUser(t, env.db, "admin")
	player := createTestUser(t, env.db, "player")
	game := createTestGame(t, env.db, admin.ID, time.Now().Add(time.Hour))
	challenge := createTestChallenge(t, env.db, game.ID, "flag{right}", 100)

	submission, err := env.service.Submit(player.ID, challenge.ID, "flag{right}")
	require.NoError(t, err)
	require.Equal(t, "flag{right}", submission.Flag)
	require.True(t, submission.IsCorrect(challenge.Flag))
}

func TestSubmissionService_Submit_AfterSolveAlwaysAlreadySolved(t *testing.T) {
	env := setupSubmissionTestEnv(t)

	admin := createTestUser(t, env.db, "admin")
	player := createTestUser(t, env.db, "player")
	game := createTestGame(t, env.db, admin.ID, time.Now().Add(time.Hour))
	challenge := createTestChallenge(t, env.db, game.ID, "flag{right}", 100)

	_, err := env.service.Submit(player.ID, challenge.ID, "flag{right}")
	require.NoError(t, err)

	// Repeating the correct flag is rejected as already solved.
	_, err = env.service.Submit(player.ID, challenge.ID, "flag{right}")
	require.ErrorIs(t, err, ErrAlreadySolved)

	// So is any other flag: the solved check runs before everything else.
	_, err = env.service.Submit(player.ID, challenge.ID, "flag{wrong}")
	require.ErrorIs(t, err, ErrAlreadySolved)

	var count int64
	require.NoError(t, env.db.Model(&models.Submission{}).
		Where("challenge_id = ? AND user_id = ? AND flag = ?", challenge.ID, player.ID, "flag{right}").
		Count(&count).Error)
	require.Equal(t, int64(1), count, "only one correct row should ever exist")
}

func TestSubmissionService_Submit_DuplicateIncorrectAttempt(t *testing.T) {
	env := setupSubmissionTestEnv(t)

	admin := createTestUser(t, env.db, "admin")
	player := createTestUser(t, env.db, "player")
	game := createTestGame(t, env.db, admin.ID, time.Now().Add(time.Hour))
	challenge := createTestChallenge(t, env.db, game.ID, "flag{right}", 100)

	_, err := env.service.Submit(player.ID, challenge.ID, "flag{wrong}")
	require.ErrorIs(t, err, ErrIncorrectFlag)

	_, err = env.service.Submit(player.ID, challenge.ID, "flag{wrong}")
	require.ErrorIs(t, err, ErrDuplicateAttempt)

	// A different wrong flag is a fresh attempt, not a duplicate.
	_, err = env.service.Submit(player.ID, challenge.ID, "flag{also-wrong}")
	require.ErrorIs(t, err, ErrIncorrectFlag)
}

func TestSubmissionService_Submit_GameEnded(t *testing.T) {
	env := setupSubmissionTestEnv(t)

	admin := createTestUser(t, env.db, "admin")
	player := createTestUser(t, env.db, "player")
	game := createTestGame(t, env.db, admin.ID, time.Now().Add(-time.Hour))
	challenge := createTestChallenge(t, env.db, game.ID, "flag{right}", 100)

	_, err := env.service.Submit(player.ID, challenge.ID, "flag{right}")
	require.ErrorIs(t, err, ErrGameEnded)

	var count int64
	require.NoError(t, env.db.Model(&models.Submission{}).Count(&count).Error)
	require.Equal(t, int64(0), count, "no attempt should be recorded after the game ends")
}

func TestSubmissionService_Submit_ChallengeNotFound(t *testing.T) {
	env := setupSubmissionTestEnv(t)

	player := createTestUser(t, env.db, "player")

	_, err := env.service.Submit(player.ID, 9999, "flag{anything}")
	require.ErrorIs(t, err, ErrChallengeNotFound)
}

func TestSubmissionService_GetMyChallengeSubmission(t *testing.T) {
	env := setupSubmissionTestEnv(t)

	admin := createTestUser(t, env.db, "admin")
	player := createTestUser(t, env.db, "player")
	game := createTestGame(t, env.db, admin.ID, time.Now().Add(time.Hour))
	challenge := createTestChallenge(t, env.db, game.ID, "flag{right}", 100)

	submission, err := env.service.GetMyChallengeSubmission(player.ID, challenge.ID)
	require.NoError(t, err)
	require.Nil(t, submission, "no submission yet")

	_, err = env.service.Submit(player.ID, challenge.ID, "flag{wrong}")
	require.ErrorIs(t, err, ErrIncorrectFlag)

	submission, err = env.service.GetMyChallengeSubmission(player.ID, challenge.ID)
	require.NoError(t, err)
	require.NotNil(t, submission)
	require.Equal(t, "flag{wrong}", submission.Flag)
}
