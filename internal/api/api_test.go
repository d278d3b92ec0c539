package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citygame/checkin/internal/api"
	"github.com/citygame/checkin/internal/api/response"
	"github.com/citygame/checkin/internal/factory"
	"github.com/citygame/checkin/internal/services/provision"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
	app     *factory.App
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	// API tests are integration tests - use the production factory
	app, err := factory.New(factory.Config{})
	require.NoError(t, err)

	seed := &provision.Seed{
		Identities: []provision.SeedIdentity{
			{Username: "admin", Password: "adminpass", Role: "admin", DisplayName: "Organisers"},
			{Username: "red", Password: "redpass", Role: "team", DisplayName: "Red Team"},
			{Username: "blue", Password: "bluepass", Role: "team", DisplayName: "Blue Team"},
		},
		Posts: []provision.SeedPost{
			{ID: 1, PIN: "1111"},
			{ID: 2, PIN: "2222"},
		},
	}
	require.NoError(t, app.ProvisionService.Apply(context.Background(), seed))

	router := api.NewRouter(api.RouterConfig{
		Logger:          logger,
		Clock:           app.Clock,
		AuthService:     app.AuthService,
		RegistryService: app.RegistryService,
		LedgerService:   app.LedgerService,
		ScoringService:  app.ScoringService,
		ExportService:   app.ExportService,
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

func login(t *testing.T, ts *testServer, username, password string) string {
	t.Helper()

	body := map[string]string{"username": username, "password": password}
	rr := ts.request(http.MethodPost, "/api/v1/auth/login", body, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp response.AuthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.SessionToken)
	return resp.SessionToken
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t)

	body := map[string]string{"username": "red", "password": "redpass"}
	rr := ts.request(http.MethodPost, "/api/v1/auth/login", body, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp response.AuthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "red", resp.User.Username)
	assert.Equal(t, "team", resp.User.Role)
	assert.NotEmpty(t, resp.SessionToken)

	// A session cookie is set alongside the token
	cookies := rr.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, "session", cookies[0].Name)
	assert.Equal(t, resp.SessionToken, cookies[0].Value)
}

func TestLoginBadCredentials(t *testing.T) {
	ts := newTestServer(t)

	for _, body := range []map[string]string{
		{"username": "red", "password": "wrong"},
		{"username": "nonexistent", "password": "whatever"},
	} {
		rr := ts.request(http.MethodPost, "/api/v1/auth/login", body, "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Contains(t, rr.Body.String(), "INVALID_CREDENTIALS")
	}
}

func TestLoginMissingFields(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/auth/login", map[string]string{"username": "red"}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSessionProbe(t *testing.T) {
	ts := newTestServer(t)

	// Unauthenticated: null user, not an error
	rr := ts.request(http.MethodGet, "/api/v1/auth/session", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp response.SessionResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Nil(t, resp.User)

	// Authenticated: the identity comes back
	token := login(t, ts, "red", "redpass")
	rr = ts.request(http.MethodGet, "/api/v1/auth/session", nil, token)
	assert.Equal(t, http.StatusOK, rr.Code)

	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotNil(t, resp.User)
	assert.Equal(t, "red", resp.User.Username)
}

func TestLogout(t *testing.T) {
	ts := newTestServer(t)

	token := login(t, ts, "red", "redpass")

	rr := ts.request(http.MethodPost, "/api/v1/auth/logout", nil, token)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	// The token no longer works
	rr = ts.request(http.MethodGet, "/api/v1/team/dashboard", nil, token)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestTeamDashboard(t *testing.T) {
	ts := newTestServer(t)

	token := login(t, ts, "red", "redpass")

	rr := ts.request(http.MethodGet, "/api/v1/team/dashboard", nil, token)
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp response.TeamDashboard
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Red Team", resp.Team.DisplayName)
	assert.Equal(t, 0, resp.Score)
	require.Len(t, resp.Posts, 2)
	assert.False(t, resp.Posts[0].Visited)
	assert.False(t, resp.Posts[1].Visited)
}

func TestCheckinFlow(t *testing.T) {
	ts := newTestServer(t)

	token := login(t, ts, "red", "redpass")

	body := map[string]any{"post_id": 1, "pin": "1111", "game_points": 100}
	rr := ts.request(http.MethodPost, "/api/v1/checkins", body, token)
	assert.Equal(t, http.StatusCreated, rr.Code)

	var checkin response.Checkin
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &checkin))
	assert.Equal(t, 1, checkin.PostID)
	assert.Equal(t, 50, checkin.PresencePoints)
	assert.Equal(t, 100, checkin.GamePoints)
	assert.Equal(t, 150, checkin.TotalPoints)

	// Dashboard reflects the visit and the score
	rr = ts.request(http.MethodGet, "/api/v1/team/dashboard", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)

	var dashboard response.TeamDashboard
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &dashboard))
	assert.Equal(t, 150, dashboard.Score)
	assert.True(t, dashboard.Posts[0].Visited)
	assert.False(t, dashboard.Posts[1].Visited)
}

func TestCheckinDuplicate(t *testing.T) {
	ts := newTestServer(t)

	token := login(t, ts, "red", "redpass")

	body := map[string]any{"post_id": 1, "pin": "1111", "game_points": 0}
	rr := ts.request(http.MethodPost, "/api/v1/checkins", body, token)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/checkins", body, token)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "DUPLICATE_CHECKIN")
}

func TestCheckinValidationErrors(t *testing.T) {
	ts := newTestServer(t)

	token := login(t, ts, "red", "redpass")

	cases := []struct {
		name string
		body map[string]any
		code int
		want string
	}{
		{"unknown post", map[string]any{"post_id": 99, "pin": "1111", "game_points": 0}, http.StatusNotFound, "POST_NOT_FOUND"},
		{"wrong pin", map[string]any{"post_id": 1, "pin": "9999", "game_points": 0}, http.StatusBadRequest, "INVALID_PIN"},
		{"bad game points", map[string]any{"post_id": 1, "pin": "1111", "game_points": 42}, http.StatusBadRequest, "INVALID_GAME_POINTS"},
		{"missing post id", map[string]any{"pin": "1111", "game_points": 0}, http.StatusBadRequest, "INVALID_REQUEST"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := ts.request(http.MethodPost, "/api/v1/checkins", tc.body, token)
			assert.Equal(t, tc.code, rr.Code)
			assert.Contains(t, rr.Body.String(), tc.want)
		})
	}
}

func TestTeamEndpointsRequireAuth(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/team/dashboard", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/checkins", map[string]any{"post_id": 1, "pin": "1111"}, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAdminCannotUseTeamEndpoints(t *testing.T) {
	ts := newTestServer(t)

	token := login(t, ts, "admin", "adminpass")

	rr := ts.request(http.MethodGet, "/api/v1/team/dashboard", nil, token)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/checkins", map[string]any{"post_id": 1, "pin": "1111", "game_points": 0}, token)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestTeamCannotUseAdminEndpoints(t *testing.T) {
	ts := newTestServer(t)

	token := login(t, ts, "red", "redpass")

	rr := ts.request(http.MethodGet, "/api/v1/admin/dashboard", nil, token)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/admin/export.csv", nil, token)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestAdminDashboard(t *testing.T) {
	ts := newTestServer(t)

	redToken := login(t, ts, "red", "redpass")
	blueToken := login(t, ts, "blue", "bluepass")
	adminToken := login(t, ts, "admin", "adminpass")

	rr := ts.request(http.MethodPost, "/api/v1/checkins", map[string]any{"post_id": 1, "pin": "1111", "game_points": 100}, redToken)
	require.Equal(t, http.StatusCreated, rr.Code)
	rr = ts.request(http.MethodPost, "/api/v1/checkins", map[string]any{"post_id": 1, "pin": "1111", "game_points": 0}, blueToken)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/admin/dashboard", nil, adminToken)
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp response.AdminDashboard
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

	require.Len(t, resp.Ranking, 2)
	assert.Equal(t, "red", resp.Ranking[0].Username)
	assert.Equal(t, 150, resp.Ranking[0].Score)
	assert.Equal(t, "blue", resp.Ranking[1].Username)
	assert.Equal(t, 50, resp.Ranking[1].Score)

	assert.Equal(t, 2, resp.TotalRecords)
	require.Len(t, resp.History, 2)
	assert.Equal(t, "Blue Team", resp.History[0].TeamName)
}

func TestAdminExportCSV(t *testing.T) {
	ts := newTestServer(t)

	redToken := login(t, ts, "red", "redpass")
	adminToken := login(t, ts, "admin", "adminpass")

	rr := ts.request(http.MethodPost, "/api/v1/checkins", map[string]any{"post_id": 2, "pin": "2222", "game_points": 0}, redToken)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/admin/export.csv", nil, adminToken)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "city-game-export-")

	body := rr.Body.String()
	assert.Contains(t, body, "timestamp,team,team_name,post,presence,game,total")
	assert.Contains(t, body, "red,Red Team,2,50,0,50")
}

func TestSessionCookieAuth(t *testing.T) {
	ts := newTestServer(t)

	token := login(t, ts, "red", "redpass")

	// Cookie works in place of the bearer header
	req := httptest.NewRequest(http.MethodGet, "/api/v1/team/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: token})

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}
