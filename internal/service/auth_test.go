package service

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusmoves/campusmoves-server/internal/auth"
	domainerrors "github.com/campusmoves/campusmoves-server/internal/errors"
	"github.com/campusmoves/campusmoves-server/internal/store"
)

const testKeyHex = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

// setupAuthTest creates an auth service with temporary storage.
func setupAuthTest(t *testing.T) (*AuthService, *SessionService, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "campusmoves-auth-test-*")
	require.NoError(t, err)

	logger := slog.New(slog.DiscardHandler)

	st, err := store.New(filepath.Join(tmpDir, "store"), logger, store.NewNoopEmitter())
	require.NoError(t, err)

	tokenService, err := auth.NewTokenService(testKeyHex, 15*time.Minute, 720*time.Hour)
	require.NoError(t, err)

	sessionService := NewSessionService(st, tokenService, logger)
	authService := NewAuthService(st, tokenService, sessionService, logger)

	cleanup := func() {
		_ = st.Close()
		_ = os.RemoveAll(tmpDir)
	}

	return authService, sessionService, cleanup
}

func TestRegister_CampusEmailOnly(t *testing.T) {
	authService, _, cleanup := setupAuthTest(t)
	defer cleanup()

	_, err := authService.Register(context.Background(), RegisterRequest{
		Email:    "someone@gmail.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestRegister_DefaultsDisplayName(t *testing.T) {
	authService, _, cleanup := setupAuthTest(t)
	defer cleanup()

	resp, err := authService.Register(context.Background(), RegisterRequest{
		Email:    "jordan.lee@college.edu",
		Password: "password123",
	})
	require.NoError(t, err)

	assert.Equal(t, "Jordan Lee", resp.User.DisplayName)
	assert.Equal(t, "jordan.lee@college.edu", resp.User.Email)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.True(t, strings.HasPrefix(resp.User.ID, "user-"))
}

func TestRegister_DuplicateEmail(t *testing.T) {
	authService, _, cleanup := setupAuthTest(t)
	defer cleanup()

	req := RegisterRequest{
		Email:    "jordan@college.edu",
		Password: "password123",
	}

	_, err := authService.Register(context.Background(), req)
	require.NoError(t, err)

	// Same address with different case is still a duplicate.
	req.Email = "Jordan@College.EDU"
	_, err = authService.Register(context.Background(), req)
	assert.ErrorIs(t, err, domainerrors.ErrConflict)
}

func TestLogin_CampusEmailOnly(t *testing.T) {
	authService, _, cleanup := setupAuthTest(t)
	defer cleanup()

	_, err := authService.Login(context.Background(), LoginRequest{
		Email:    "someone@gmail.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestLogin_WrongPassword(t *testing.T) {
	authService, _, cleanup := setupAuthTest(t)
	defer cleanup()

	ctx := context.Background()
	_, err := authService.Register(ctx, RegisterRequest{
		Email:    "jordan@college.edu",
		Password: "password123",
	})
	require.NoError(t, err)

	_, err = authService.Login(ctx, LoginRequest{
		Email:    "jordan@college.edu",
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)

	// Unknown email yields the same error, not a not-found leak.
	_, err = authService.Login(ctx, LoginRequest{
		Email:    "nobody@college.edu",
		Password: "password123",
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestRefresh_RotatesTokens(t *testing.T) {
	authService, _, cleanup := setupAuthTest(t)
	defer cleanup()

	ctx := context.Background()
	reg, err := authService.Register(ctx, RegisterRequest{
		Email:    "jordan@college.edu",
		Password: "password123",
	})
	require.NoError(t, err)

	refreshed, err := authService.RefreshTokens(ctx, RefreshRequest{RefreshToken: reg.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, reg.RefreshToken, refreshed.RefreshToken)
	assert.Equal(t, reg.SessionID, refreshed.SessionID)

	// The old refresh token was invalidated by the rotation.
	_, err = authService.RefreshTokens(ctx, RefreshRequest{RefreshToken: reg.RefreshToken})
	assert.ErrorIs(t, err, domainerrors.ErrTokenExpired)
}

func TestLogout_RevokesSession(t *testing.T) {
	authService, _, cleanup := setupAuthTest(t)
	defer cleanup()

	ctx := context.Background()
	reg, err := authService.Register(ctx, RegisterRequest{
		Email:    "jordan@college.edu",
		Password: "password123",
	})
	require.NoError(t, err)

	require.NoError(t, authService.Logout(ctx, reg.SessionID))

	_, err = authService.RefreshTokens(ctx, RefreshRequest{RefreshToken: reg.RefreshToken})
	assert.ErrorIs(t, err, domainerrors.ErrTokenExpired)
}

func TestVerifyAccessToken_RoundTrip(t *testing.T) {
	authService, _, cleanup := setupAuthTest(t)
	defer cleanup()

	ctx := context.Background()
	reg, err := authService.Register(ctx, RegisterRequest{
		Email:    "jordan@college.edu",
		Password: "password123",
	})
	require.NoError(t, err)

	user, claims, err := authService.VerifyAccessToken(ctx, reg.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, user.ID)
	assert.Equal(t, reg.User.ID, claims.UserID)
	assert.Equal(t, "jordan@college.edu", claims.Email)

	_, _, err = authService.VerifyAccessToken(ctx, "not-a-token")
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}
