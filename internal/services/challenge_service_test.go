package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tsukinami/ctf-platform-api/internal/models"
	"github.com/tsukinami/ctf-platform-api/internal/repository"
	"gorm.io/gorm"
)

type challengeTestEnv struct {
	db      *gorm.DB
	service *ChallengeService
}

func setupChallengeTestEnv(t *testing.T) challengeTestEnv {
	t.Helper()

	db := openTestDB(t)
	service := NewChallengeService(
		repository.NewChallengeRepository(db),
		repository.NewGameRepository(db),
		repository.NewSubmissionRepository(db),
	)
	return challengeTestEnv{db: db, service: service}
}

func TestChallengeService_CreateChallenge(t *testing.T) {
	env := setupChallengeTestEnv(t)

	admin := createTestUser(t, env.db, "admin")
	game := createTestGame(t, env.db, admin.ID, time.Now().Add(time.Hour))

	challenge, err := env.service.CreateChallenge(CreateChallengeInput{
		GameID:     game.ID,
		ActorID:    admin.ID,
		Title:      "Warmup",
		Flag:       "flag{hello}",
		PointValue: 50,
	})
	require.NoError(t, err)
	require.NotZero(t, challenge.ID)
}

func TestChallengeService_CreateChallenge_Validation(t *testing.T) {
	env := setupChallengeTestEnv(t)

	admin := createTestUser(t, env.db, "admin")
	player := createTestUser(t, env.db, "player")
	game := createTestGame(t, env.db, admin.ID, time.Now().Add(time.Hour))

	_, err := env.service.CreateChallenge(CreateChallengeInput{
		GameID: game.ID, ActorID: admin.ID, Title: " ", Flag: "f", PointValue: 10,
	})
	require.ErrorIs(t, err, ErrInvalidChallengeTitle)

	_, err = env.service.CreateChallenge(CreateChallengeInput{
		GameID: game.ID, ActorID: admin.ID, Title: "No Flag", Flag: "", PointValue: 10,
	})
	require.ErrorIs(t, err, ErrInvalidFlag)

	_, err = env.service.CreateChallenge(CreateChallengeInput{
		GameID: game.ID, ActorID: admin.ID, Title: "No Points", Flag: "f", PointValue: 0,
	})
	require.ErrorIs(t, err, ErrInvalidPointValue)

	_, err = env.service.CreateChallenge(CreateChallengeInput{
		GameID: game.ID, ActorID: player.ID, Title: "Not Mine", Flag: "f", PointValue: 10,
	})
	require.ErrorIs(t, err, ErrNotGameAdmin)
}

func TestChallengeService_CreateChallenge_GameEnded(t *testing.T) {
	env := setupChallengeTestEnv(t)

	admin := createTestUser(t, env.db, "admin")
	game := createTestGame(t, env.db, admin.ID, time.Now().Add(-time.Hour))

	_, err := env.service.CreateChallenge(CreateChallengeInput{
		GameID: game.ID, ActorID: admin.ID, Title: "Too Late", Flag: "f", PointValue: 10,
	})
	require.ErrorIs(t, err, ErrGameEnded)
}

func TestChallengeService_ListChallenges_SolvedMarker(t *testing.T) {
	env := setupChallengeTestEnv(t)

	admin := createTestUser(t, env.db, "admin")
	player := createTestUser(t, env.db, "player")
	game := createTestGame(t, env.db, admin.ID, time.Now().Add(time.Hour))

	easy := createTestChallenge(t, env.db, game.ID, "flag{easy}", 50)
	hard := createTestChallenge(t, env.db, game.ID, "flag{hard}", 500)

	require.NoError(t, env.db.Create(&models.Submission{
		ChallengeID: easy.ID, UserID: player.ID, Flag: "flag{easy}",
	}).Error)
	require.NoError(t, env.db.Create(&models.Submission{
		ChallengeID: hard.ID, UserID: player.ID, Flag: "flag{nope}",
	}).Error)

	challenges, err := env.service.ListChallenges(game.ID, player.ID)
	require.NoError(t, err)
	require.Len(t, challenges, 2)

	// Ordered by point value ascending.
	require.Equal(t, easy.ID, challenges[0].Challenge.ID)
	require.True(t, challenges[0].Solved)
	require.Equal(t, hard.ID, challenges[1].Challenge.ID)
	require.False(t, challenges[1].Solved, "incorrect attempts do not count as solves")
}

func TestChallengeService_GetFlag(t *testing.T) {
	env := setupChallengeTestEnv(t)

	admin := createTestUser(t, env.db, "admin")
	solver := createTestUser(t, env.db, "solver")
	outsider := createTestUser(t, env.db, "outsider")
	game := createTestGame(t, env.db, admin.ID, time.Now().Add(time.Hour))
	challenge := createTestChallenge(t, env.db, game.ID, "flag{secret}", 100)

	// The admin can always read the flag.
	flag, err := env.service.GetFlag(challenge.ID, admin.ID)
	require.NoError(t, err)
	require.Equal(t, "flag{secret}", flag)

	// A user without a correct submission cannot.
	_, err = env.service.GetFlag(challenge.ID, outsider.ID)
	require.ErrorIs(t, err, ErrFlagNotAuthorized)

	require.NoError(t, env.db.Create(&models.Submission{
		ChallengeID: challenge.ID, UserID: solver.ID, Flag: "flag{secret}",
	}).Error)

	flag, err = env.service.GetFlag(challenge.ID, solver.ID)
	require.NoError(t, err)
	require.Equal(t, "flag{secret}", flag)

	// An incorrect submission grants nothing.
	require.NoError(t, env.db.Create(&models.Submission{
		ChallengeID: challenge.ID, UserID: outsider.ID, Flag: "flag{guess}",
	}).Error)
	_, err = env.service.GetFlag(challenge.ID, outsider.ID)
	require.ErrorIs(t, err, ErrFlagNotAuthorized)
}
