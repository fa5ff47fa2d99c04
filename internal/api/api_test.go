package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BayoGabriel/igaming/internal/api"
	"github.com/BayoGabriel/igaming/internal/api/apierr"
	"github.com/BayoGabriel/igaming/internal/api/response"
	"github.com/BayoGabriel/igaming/internal/factory"
	"github.com/BayoGabriel/igaming/internal/testutil"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	app := factory.NewTestApp()

	router := api.NewRouter(api.RouterConfig{
		Logger:             testutil.NopLogger(),
		AuthService:        app.AuthService,
		GameEngine:         app.GameEngine,
		LeaderboardService: app.LeaderboardService,
	})

	return &testServer{
		handler: router,
		app:     app,
	}
}

func (ts *testServer) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func (ts *testServer) register(t *testing.T, username string) response.Auth {
	t.Helper()

	rr := ts.request(http.MethodPost, "/api/v1/auth/register", map[string]string{"username": username}, "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var resp response.Auth
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()

	var resp apierr.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.Error.Code
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
}

func TestRegister(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.register(t, "alice")
	assert.Equal(t, "alice", resp.User.Username)
	assert.Equal(t, 0, resp.User.Wins)
	assert.NotEmpty(t, resp.Token)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "alice")

	rr := ts.request(http.MethodPost, "/api/v1/auth/register", map[string]string{"username": "alice"}, "")
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeUsernameTaken, errorCode(t, rr))
}

func TestRegisterUsernameTooShort(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/auth/register", map[string]string{"username": "a"}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeUsernameTooShort, errorCode(t, rr))
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "alice")

	rr := ts.request(http.MethodPost, "/api/v1/auth/login", map[string]string{"username": "alice"}, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp response.Auth
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
}

func TestLoginUnknownUser(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/auth/login", map[string]string{"username": "nobody"}, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeUserNotFound, errorCode(t, rr))
}

func TestLoginWhileInActiveSession(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register(t, "alice")

	rr := ts.request(http.MethodPost, "/api/v1/game/join", nil, alice.Token)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/auth/login", map[string]string{"username": "alice"}, "")
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeAlreadyInSession, errorCode(t, rr))

	// Once the session has run out, login works again
	ts.app.MockClock.Advance(30 * time.Second)
	rr = ts.request(http.MethodPost, "/api/v1/auth/login", map[string]string{"username": "alice"}, "")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestMe(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register(t, "alice")

	rr := ts.request(http.MethodGet, "/api/v1/auth/me", nil, alice.Token)
	assert.Equal(t, http.StatusOK, rr.Code)

	var user response.User
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &user))
	assert.Equal(t, "alice", user.Username)
}

func TestMeRequiresAuth(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/auth/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/auth/me", nil, "garbage-token")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestCurrentSessionEmpty(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register(t, "alice")

	rr := ts.request(http.MethodGet, "/api/v1/game/current", nil, alice.Token)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "null", string(bytes.TrimSpace(rr.Body.Bytes())))
}

func TestJoinCreatesSession(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register(t, "alice")

	rr := ts.request(http.MethodPost, "/api/v1/game/join", nil, alice.Token)
	assert.Equal(t, http.StatusCreated, rr.Code)

	var resp response.Join
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "created", resp.Status)
	require.NotNil(t, resp.Session)
	require.Len(t, resp.Session.Players, 1)
	assert.True(t, resp.Session.Players[0].IsStarter)
}

func TestJoinExistingSession(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register(t, "alice")
	bob := ts.register(t, "bob")

	rr := ts.request(http.MethodPost, "/api/v1/game/join", nil, alice.Token)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/game/join", nil, bob.Token)
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp response.Join
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "joined", resp.Status)
	require.NotNil(t, resp.Session)
	assert.Len(t, resp.Session.Players, 2)
}

func TestJoinTwiceIsIdempotent(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register(t, "alice")

	ts.request(http.MethodPost, "/api/v1/game/join", nil, alice.Token)
	rr := ts.request(http.MethodPost, "/api/v1/game/join", nil, alice.Token)
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp response.Join
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "already-in", resp.Status)
}

func TestSelectNumber(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register(t, "alice")
	ts.request(http.MethodPost, "/api/v1/game/join", nil, alice.Token)

	rr := ts.request(http.MethodPost, "/api/v1/game/select-number", map[string]int{"number": 5}, alice.Token)
	assert.Equal(t, http.StatusOK, rr.Code)

	// Second pick is rejected
	rr = ts.request(http.MethodPost, "/api/v1/game/select-number", map[string]int{"number": 7}, alice.Token)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeAlreadyPicked, errorCode(t, rr))
}

func TestSelectNumberOutOfRange(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register(t, "alice")
	ts.request(http.MethodPost, "/api/v1/game/join", nil, alice.Token)

	rr := ts.request(http.MethodPost, "/api/v1/game/select-number", map[string]int{"number": 10}, alice.Token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidNumber, errorCode(t, rr))
}

func TestLeave(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register(t, "alice")
	ts.request(http.MethodPost, "/api/v1/game/join", nil, alice.Token)

	rr := ts.request(http.MethodPost, "/api/v1/game/leave", nil, alice.Token)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/game/leave", nil, alice.Token)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeNotInSession, errorCode(t, rr))
}

func TestSessionSettlement(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register(t, "alice")
	bob := ts.register(t, "bob")

	ts.request(http.MethodPost, "/api/v1/game/join", nil, alice.Token)
	ts.request(http.MethodPost, "/api/v1/game/join", nil, bob.Token)
	ts.request(http.MethodPost, "/api/v1/game/select-number", map[string]int{"number": 5}, alice.Token)
	ts.request(http.MethodPost, "/api/v1/game/select-number", map[string]int{"number": 4}, bob.Token)

	// Intn(9) result 4 draws a winning number of 5
	ts.app.MockRandom.QueueIntn(4)
	ts.app.MockClock.Advance(21 * time.Second)

	// Polling current settles the session and shows the outcome
	rr := ts.request(http.MethodGet, "/api/v1/game/current", nil, alice.Token)
	require.Equal(t, http.StatusOK, rr.Code)

	var session response.Session
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &session))
	assert.Equal(t, "completed", session.Status)
	require.NotNil(t, session.WinningNumber)
	assert.Equal(t, 5, *session.WinningNumber)

	// Alice is credited, bob is not
	rr = ts.request(http.MethodGet, "/api/v1/auth/me", nil, alice.Token)
	var user response.User
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &user))
	assert.Equal(t, 1, user.Wins)

	rr = ts.request(http.MethodGet, "/api/v1/auth/me", nil, bob.Token)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &user))
	assert.Equal(t, 0, user.Wins)
}

func TestLeaderboardAndSessions(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register(t, "alice")

	ts.request(http.MethodPost, "/api/v1/game/join", nil, alice.Token)
	ts.request(http.MethodPost, "/api/v1/game/select-number", map[string]int{"number": 5}, alice.Token)

	ts.app.MockRandom.QueueIntn(4)
	ts.app.MockClock.Advance(21 * time.Second)
	ts.request(http.MethodGet, "/api/v1/game/current", nil, alice.Token)

	rr := ts.request(http.MethodGet, "/api/v1/leaderboard", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var entries []response.LeaderboardEntry
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "alice", entries[0].Username)
	assert.Equal(t, 1, entries[0].Wins)

	rr = ts.request(http.MethodGet, "/api/v1/sessions?filter=day", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var sessions []response.SessionWithWinners
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &sessions))
	require.Len(t, sessions, 1)
	assert.Equal(t, []string{"alice"}, sessions[0].Winners)
}

func TestGameRoutesRequireAuth(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{"/api/v1/game/join", "/api/v1/game/leave", "/api/v1/game/select-number"} {
		rr := ts.request(http.MethodPost, path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code, path)
	}
}
