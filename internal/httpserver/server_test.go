package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jason-s-yu/preferans/engine"
	"github.com/jason-s-yu/preferans/internal/auth"
	"github.com/jason-s-yu/preferans/internal/game"
)

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	srv := New(game.NewRegistry())
	token, err := auth.CreateToken(uuid.New())
	require.NoError(t, err)
	return srv, token
}

func doJSON(t *testing.T, srv *Server, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGamesRequireAuth(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv, http.MethodPost, "/games", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, srv, http.MethodPost, "/games", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// TestTableLifecycle walks create, join, bot fill, start and the polling
// state endpoint through the router.
func TestTableLifecycle(t *testing.T) {
	srv, token := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/games", token, map[string]int{"targetRounds": 4})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		GameID uuid.UUID `json:"gameId"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	require.NotEqual(t, uuid.Nil, created.GameID)

	base := "/games/" + created.GameID.String()

	// Starting before joining is rejected.
	rec = doJSON(t, srv, http.MethodPost, base+"/start", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, srv, http.MethodPost, base+"/join", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Short-handed start without bots is rejected.
	rec = doJSON(t, srv, http.MethodPost, base+"/start", token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, srv, http.MethodPost, base+"/start", token, map[string]bool{"fillWithBots": true})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, base+"/state", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var state game.ObfRoundState
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&state))
	assert.Equal(t, "auction", state.Phase)
	assert.Equal(t, 1, state.RoundNumber)
	require.Len(t, state.Seats, engine.NumSeats)

	var revealed int
	for _, s := range state.Seats {
		assert.Equal(t, engine.HandSize, s.HandSize)
		if len(s.RevealedHand) > 0 {
			revealed++
			assert.Len(t, s.RevealedHand, engine.HandSize)
		}
	}
	assert.Equal(t, 1, revealed, "exactly the requesting player's hand is revealed")
}

func TestHistoryWithoutRedis(t *testing.T) {
	srv, token := newTestServer(t)
	rec := doJSON(t, srv, http.MethodGet, "/games/"+uuid.NewString()+"/history", token, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestJoinUnknownGame(t *testing.T) {
	srv, token := newTestServer(t)
	rec := doJSON(t, srv, http.MethodPost, "/games/"+uuid.NewString()+"/join", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, srv, http.MethodPost, "/games/nope/join", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
