package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tsukinami/ctf-platform-api/internal/repository"
	"github.com/tsukinami/ctf-platform-api/internal/services"
)

// Username availability is checked before login during signup, so the
// endpoint serves requests without a session.
func TestAccountHandler_CheckUsername_Anonymous(t *testing.T) {
	db := setupTestDB(t)

	handler := NewAccountHandler(services.NewAccountService(
		repository.NewUserRepository(db),
		repository.NewGameRepository(db),
	))

	createHandlerTestUser(t, db, "taken")

	c, w := anonymousTestContext(http.MethodGet, "/api/account/username/check?username=taken")

	handler.CheckUsername(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Username  string `json:"username"`
		Available bool   `json:"available"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.False(t, response.Available)

	c, w = anonymousTestContext(http.MethodGet, "/api/account/username/check?username=openname")

	handler.CheckUsername(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.True(t, response.Available)
}
