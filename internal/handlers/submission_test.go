package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tsukinami/ctf-platform-api/internal/models"
	"github.com/tsukinami/ctf-platform-api/internal/repository"
	"github.com/tsukinami/ctf-platform-api/internal/services"
	"gorm.io/gorm"
)

type submissionTestEnv struct {
	db      *gorm.DB
	handler *SubmissionHandler
}

func setupSubmissionTestEnv(t *testing.T) submissionTestEnv {
	t.Helper()

	db := setupTestDB(t)

	submissionService := services.NewSubmissionService(
		repository.NewSubmissionRepository(db),
		repository.NewChallengeRepository(db),
	)
	handler := NewSubmissionHandler(submissionService)

	return submissionTestEnv{db: db, handler: handler}
}

func createSubmissionFixtures(t *testing.T, db *gorm.DB) (*models.User, *models.Challenge) {
	t.Helper()

	admin := createHandlerTestUser(t, db, "admin")
	player := createHandlerTestUser(t, db, "player")

	game := &models.Game{
		Title:      "CTF",
		EndingTime: time.Now().Add(time.Hour),
		IsPublic:   true,
		AdminID:    admin.ID,
	}
	require.NoError(t, db.Create(game).Error)

	challenge := &models.Challenge{
		GameID:     game.ID,
		Title:      "Crackme",
		Flag:       "flag{correct}",
		PointValue: 100,
	}
	require.NoError(t, db.Create(challenge).Error)

	return player, challenge
}

func submitFlag(t *testing.T, env submissionTestEnv, userID, challengeID uint64, flag string) (int, string) {
	t.Helper()

	body, err := json.Marshal(map[string]string{"flag": flag})
	require.NoError(t, err)

	c, w := gameTestContext(http.MethodPost, "/api/challenges/1/submit", body, userID)
	setGameIDParam(c, challengeID)

	env.handler.Submit(c)

	var apiErr struct {
		Code string `json:"code"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &apiErr)

	return w.Code, apiErr.Code
}

func TestSubmissionHandler_Submit(t *testing.T) {
	env := setupSubmissionTestEnv(t)
	player, challenge := createSubmissionFixtures(t, env.db)

	status, _ := submitFlag(t, env, player.ID, challenge.ID, "flag{correct}")
	require.Equal(t, http.StatusCreated, status)
}

func TestSubmissionHandler_Submit_ErrorCodes(t *testing.T) {
	env := setupSubmissionTestEnv(t)
	player, challenge := createSubmissionFixtures(t, env.db)

	status, code := submitFlag(t, env, player.ID, challenge.ID, "flag{wrong}")
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "INCORRECT_FLAG", code)

	status, code = submitFlag(t, env, player.ID, challenge.ID, "flag{wrong}")
	require.Equal(t, http.StatusConflict, status)
	require.Equal(t, "DUPLICATE_ATTEMPT", code)

	status, _ = submitFlag(t, env, player.ID, challenge.ID, "flag{correct}")
	require.Equal(t, http.StatusCreated, status)

	status, code = submitFlag(t, env, player.ID, challenge.ID, "flag{correct}")
	require.Equal(t, http.StatusConflict, status)
	require.Equal(t, "ALREADY_SOLVED", code)
}

func TestSubmissionHandler_Submit_GameEnded(t *testing.T) {
	env := setupSubmissionTestEnv(t)
	player, challenge := createSubmissionFixtures(t, env.db)

	require.NoError(t, env.db.Model(&models.Game{}).
		Where("id = ?", challenge.GameID).
		Update("ending_time", time.Now().Add(-time.Hour)).Error)

	status, code := submitFlag(t, env, player.ID, challenge.ID, "flag{correct}")
	require.Equal(t, http.StatusConflict, status)
	require.Equal(t, "GAME_ENDED", code)
}

func TestSubmissionHandler_Submit_UnknownChallenge(t *testing.T) {
	env := setupSubmissionTestEnv(t)
	player, _ := createSubmissionFixtures(t, env.db)

	status, code := submitFlag(t, env, player.ID, 9999, "flag{correct}")
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, "NOT_FOUND", code)
}
