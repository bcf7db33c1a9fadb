package api

import (
	"encoding/hex"
	"encoding/json/v2"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusmoves/campusmoves-server/internal/auth"
	"github.com/campusmoves/campusmoves-server/internal/ratelimit"
	"github.com/campusmoves/campusmoves-server/internal/service"
	"github.com/campusmoves/campusmoves-server/internal/sse"
	"github.com/campusmoves/campusmoves-server/internal/store"
	"github.com/campusmoves/campusmoves-server/internal/store/savedset"
)

// testServer wraps the API server with a humatest client.
type testServer struct {
	*Server
	api     humatest.TestAPI
	cleanup func()
}

// setupTestServer creates a test server with all dependencies backed by a
// temp directory. Search and places routes are not registered; those have
// their own package tests.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "campusmoves-api-test-*")
	require.NoError(t, err)

	logger := slog.New(slog.DiscardHandler)

	sseManager := sse.NewManager(logger)

	st, err := store.New(filepath.Join(tmpDir, "store"), logger, sseManager)
	require.NoError(t, err)

	saved, err := savedset.Open(filepath.Join(tmpDir, "saved.db"), logger)
	require.NoError(t, err)

	authKey, err := auth.LoadOrGenerateKey(tmpDir)
	require.NoError(t, err)

	tokenService, err := auth.NewTokenService(
		hex.EncodeToString(authKey),
		15*time.Minute,
		30*24*time.Hour,
	)
	require.NoError(t, err)

	sessionService := service.NewSessionService(st, tokenService, logger)
	authService := service.NewAuthService(st, tokenService, sessionService, logger)
	moveService := service.NewMoveService(st, saved, sseManager, logger)
	feedService := service.NewFeedService(st, saved, logger)
	savedService := service.NewSavedService(st, saved, logger)

	services := &Services{
		Auth:    authService,
		Session: sessionService,
		Move:    moveService,
		Feed:    feedService,
		Saved:   savedService,
	}

	router := chi.NewRouter()
	router.Use(authMiddleware(services.Auth))

	humaConfig := huma.DefaultConfig("CampusMoves API Test", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}

	humaAPI := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s := &Server{
		store:       st,
		services:    services,
		router:      router,
		api:         humaAPI,
		sseManager:  sseManager,
		logger:      logger,
		authLimiter: ratelimit.New(100, 50),
	}

	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerUserRoutes()
	s.registerMoveRoutes()
	s.registerFeedRoutes()
	s.registerSavedRoutes()

	testAPI := humatest.Wrap(t, humaAPI)

	cleanup := func() {
		s.authLimiter.Stop()
		_ = saved.Close()        //nolint:errcheck // test cleanup
		_ = st.Close()           //nolint:errcheck // test cleanup
		_ = os.RemoveAll(tmpDir) //nolint:errcheck // test cleanup
	}

	return &testServer{Server: s, api: testAPI, cleanup: cleanup}
}

// registerTestUser creates an account and returns its access token.
func (ts *testServer) registerTestUser(t *testing.T, email, name string) string {
	t.Helper()

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":        email,
		"password":     "correct-horse-battery",
		"display_name": name,
	})
	require.Equal(t, http.StatusOK, resp.Code, "register failed: %s", resp.Body.String())

	var body AuthResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.NotEmpty(t, body.AccessToken)

	return body.AccessToken
}

// === Tests ===

func TestRegister_ReturnsTokensAndUser(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":        "riley@college.edu",
		"password":     "correct-horse-battery",
		"display_name": "Riley",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var body AuthResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))

	assert.NotEmpty(t, body.AccessToken)
	assert.NotEmpty(t, body.RefreshToken)
	assert.Equal(t, "Bearer", body.TokenType)
	assert.Equal(t, "Riley", body.User.DisplayName)
	assert.Equal(t, "riley@college.edu", body.User.Email)
}

func TestRegister_RejectsNonCampusEmail(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":        "riley@gmail.com",
		"password":     "correct-horse-battery",
		"display_name": "Riley",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())
}

func TestRegister_NeverLeaksPasswordHash(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":        "riley@college.edu",
		"password":     "correct-horse-battery",
		"display_name": "Riley",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	assert.NotContains(t, resp.Body.String(), "password_hash")
}

func TestLogin_WrongPasswordRejected(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	ts.registerTestUser(t, "riley@college.edu", "Riley")

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "riley@college.edu",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code, resp.Body.String())

	var apiErr APIError
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &apiErr))
	assert.Equal(t, "INVALID_CREDENTIALS", apiErr.Code)
}

func TestRefresh_RotatesTokens(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":        "riley@college.edu",
		"password":     "correct-horse-battery",
		"display_name": "Riley",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var first AuthResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &first))

	resp = ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refresh_token": first.RefreshToken,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var second AuthResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &second))
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// The old refresh token is spent.
	resp = ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refresh_token": first.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code, resp.Body.String())
}

func TestGetCurrentUser_RequiresAuth(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	resp := ts.api.Get("/api/v1/users/me")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	token := ts.registerTestUser(t, "riley@college.edu", "Riley")

	resp = ts.api.Get("/api/v1/users/me", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var user UserResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &user))
	assert.Equal(t, "Riley", user.DisplayName)
}

func TestLogout_RevokesSession(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":        "riley@college.edu",
		"password":     "correct-horse-battery",
		"display_name": "Riley",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var body AuthResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))

	resp = ts.api.Post("/api/v1/auth/logout", map[string]any{
		"session_id": body.SessionID,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refresh_token": body.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestAuthRateLimit_Returns429(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	// Tight limiter so the test does not hammer argon2.
	ts.authLimiter.Stop()
	ts.authLimiter = ratelimit.New(1, 2)
	defer ts.authLimiter.Stop()

	var last int
	for range 5 {
		resp := ts.api.Post("/api/v1/auth/login",
			"X-Real-IP: 203.0.113.9",
			map[string]any{
				"email":    "riley@college.edu",
				"password": "whatever-password",
			})
		last = resp.Code
	}

	assert.Equal(t, http.StatusTooManyRequests, last)
}

func TestHealthCheck_ReportsComponents(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var health HealthResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &health))

	assert.Equal(t, "healthy", health.Components["database"].Status)
	// No search service wired in tests.
	assert.Equal(t, "degraded", health.Components["search"].Status)
}
