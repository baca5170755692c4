package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tsukinami/ctf-platform-api/internal/models"
	"github.com/tsukinami/ctf-platform-api/internal/repository"
	"github.com/tsukinami/ctf-platform-api/internal/utils"
	"gorm.io/gorm"
)

type gameTestEnv struct {
	db      *gorm.DB
	service *GameService
}

func setupGameTestEnv(t *testing.T) gameTestEnv {
	t.Helper()

	db := openTestDB(t)
	service := NewGameService(
		repository.NewGameRepository(db),
		repository.NewSubmissionRepository(db),
	)
	return gameTestEnv{db: db, service: service}
}

func TestGameService_CreateGame(t *testing.T) {
	env := setupGameTestEnv(t)

	admin := createTestUser(t, env.db, "admin")

	game, err := env.service.CreateGame(CreateGameInput{
		Title:      "Spring CTF",
		EndingTime: time.Now().Add(24 * time.Hour),
		IsPublic:   true,
		AdminID:    admin.ID,
	})
	require.NoError(t, err)
	require.NotZero(t, game.ID)

	// The admin is registered as the first participant.
	require.Equal(t, int64(1), countParticipants(t, env.db, game.ID))
}

func TestGameService_CreateGame_EmptyTitle(t *testing.T) {
	env := setupGameTestEnv(t)

	admin := createTestUser(t, env.db, "admin")

	_, err := env.service.CreateGame(CreateGameInput{
		Title:      "   ",
		EndingTime: time.Now().Add(time.Hour),
		AdminID:    admin.ID,
	})
	require.ErrorIs(t, err, ErrInvalidGameTitle)
}

func TestGameService_UpdateGame(t *testing.T) {
	env := setupGameTestEnv(t)

	admin := createTestUser(t, env.db, "admin")
	player := createTestUser(t, env.db, "player")
	game := createTestGame(t, env.db, admin.ID, time.Now().Add(time.Hour))

	newTitle := "Renamed CTF"
	isPublic := false

	_, err := env.service.UpdateGame(game.ID, player.ID, UpdateGameInput{Title: &newTitle})
	require.ErrorIs(t, err, ErrNotGameAdmin)

	updated, err := env.service.UpdateGame(game.ID, admin.ID, UpdateGameInput{
		Title:    &newTitle,
		IsPublic: &isPublic,
	})
	require.NoError(t, err)
	require.Equal(t, newTitle, updated.Title)
	require.False(t, updated.IsPublic)
}

func TestGameService_JoinGame(t *testing.T) {
	env := setupGameTestEnv(t)

	admin := createTestUser(t, env.db, "admin")
	player := createTestUser(t, env.db, "player")
	game := createTestGame(t, env.db, admin.ID, time.Now().Add(time.Hour))

	_, err := env.service.JoinGame(game.ID, player.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), countParticipants(t, env.db, game.ID))

	_, err = env.service.JoinGame(game.ID, player.ID)
	require.ErrorIs(t, err, ErrAlreadyParticipant)
}

func TestGameService_JoinGame_Private(t *testing.T) {
	env := setupGameTestEnv(t)

	admin := createTestUser(t, env.db, "admin")
	player := createTestUser(t, env.db, "player")

	game := &models.Game{
		Title:      "Invite Only",
		EndingTime: time.Now().Add(time.Hour),
		IsPublic:   false,
		AdminID:    admin.ID,
	}
	require.NoError(t, env.db.Create(game).Error)

	_, err := env.service.JoinGame(game.ID, player.ID)
	require.ErrorIs(t, err, ErrGamePrivate)
}

func TestGameService_JoinGame_Ended(t *testing.T) {
	env := setupGameTestEnv(t)

	admin := createTestUser(t, env.db, "admin")
	player := createTestUser(t, env.db, "player")
	game := createTestGame(t, env.db, admin.ID, time.Now().Add(-time.Hour))

	_, err := env.service.JoinGame(game.ID, player.ID)
	require.ErrorIs(t, err, ErrGameEnded)
}

func TestGameService_GetLeaderboard(t *testing.T) {
	env := setupGameTestEnv(t)

	admin := createTestUser(t, env.db, "admin")
	alice := createTestUser(t, env.db, "alice")
	bob := createTestUser(t, env.db, "bob")
	game := createTestGame(t, env.db, admin.ID, time.Now().Add(time.Hour))

	c1 := createTestChallenge(t, env.db, game.ID, "flag{one}", 100)
	c2 := createTestChallenge(t, env.db, game.ID, "flag{two}", 250)

	base := time.Now().Add(-time.Hour)
	attempts := []models.Submission{
		{ChallengeID: c1.ID, UserID: alice.ID, Flag: "flag{one}", CreatedAt: base},
		{ChallengeID: c2.ID, UserID: alice.ID, Flag: "flag{nope}", CreatedAt: base.Add(time.Minute)},
		{ChallengeID: c1.ID, UserID: bob.ID, Flag: "flag{one}", CreatedAt: base.Add(2 * time.Minute)},
		{ChallengeID: c2.ID, UserID: bob.ID, Flag: "flag{two}", CreatedAt: base.Add(3 * time.Minute)},
	}
	for i := range attempts {
		require.NoError(t, env.db.Create(&attempts[i]).Error)
	}

	entries, err := env.service.GetLeaderboard(game.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	require.Equal(t, bob.ID, entries[0].User.ID)
	require.Equal(t, 350, entries[0].Score)
	require.Equal(t, 2, entries[0].ChallengesSolved)

	require.Equal(t, alice.ID, entries[1].User.ID)
	require.Equal(t, 100, entries[1].Score)
	require.Equal(t, 1, entries[1].ChallengesSolved)
}

func TestGameService_GetLeaderboard_EmptyGame(t *testing.T) {
	env := setupGameTestEnv(t)

	admin := createTestUser(t, env.db, "admin")
	game := createTestGame(t, env.db, admin.ID, time.Now().Add(time.Hour))

	entries, err := env.service.GetLeaderboard(game.ID)
	require.NoError(t, err)
	require.Empty(t, entries)

	_, err = env.service.GetLeaderboard(9999)
	require.ErrorIs(t, err, ErrGameNotFound)
}

func TestGameService_ListGames(t *testing.T) {
	env := setupGameTestEnv(t)

	admin := createTestUser(t, env.db, "admin")
	for i := 0; i < 3; i++ {
		createTestGame(t, env.db, admin.ID, time.Now().Add(time.Hour))
	}

	games, total, err := env.service.ListGames(utils.PaginationParams{Page: 1, Limit: 2})
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	require.Len(t, games, 2)
}
