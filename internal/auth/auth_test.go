package auth

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/campusmoves/campusmoves-server/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_VerifyRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))

	ok, err := VerifyPassword(hash, "correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword(hash, "wrong password")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPassword_RejectsEmptyPassword(t *testing.T) {
	_, err := HashPassword("")
	assert.Error(t, err)
}

func TestHashPassword_RejectsOversizedPassword(t *testing.T) {
	_, err := HashPassword(strings.Repeat("a", maxPasswordLength+1))
	assert.Error(t, err)
}

func TestHashPassword_SaltsAreUnique(t *testing.T) {
	first, err := HashPassword("same password")
	require.NoError(t, err)
	second, err := HashPassword("same password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestVerifyPassword_MalformedHashReturnsFalse(t *testing.T) {
	ok, err := VerifyPassword("not-an-argon2-hash", "whatever")
	require.NoError(t, err)
	assert.False(t, ok)
}

func testTokenService(t *testing.T, accessDuration time.Duration) *TokenService {
	t.Helper()

	key := make([]byte, keyBytesSize)
	for i := range key {
		key[i] = byte(i)
	}

	svc, err := NewTokenService(hex.EncodeToString(key), accessDuration, 30*24*time.Hour)
	require.NoError(t, err)
	return svc
}

func TestNewTokenService_RejectsShortKey(t *testing.T) {
	_, err := NewTokenService("deadbeef", time.Minute, time.Hour)
	assert.Error(t, err)
}

func TestNewTokenService_RejectsNonHexKey(t *testing.T) {
	_, err := NewTokenService(strings.Repeat("z", keyHexSize), time.Minute, time.Hour)
	assert.Error(t, err)
}

func TestTokenService_AccessTokenRoundTrip(t *testing.T) {
	svc := testTokenService(t, 15*time.Minute)

	user := &domain.User{
		ID:          "user-abc123",
		Email:       "jordan@college.edu",
		DisplayName: "Jordan",
	}

	token, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(token, "v4.local."))

	claims, err := svc.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-abc123", claims.UserID)
	assert.Equal(t, "jordan@college.edu", claims.Email)
	assert.Equal(t, "Jordan", claims.DisplayName)
}

func TestTokenService_RejectsExpiredToken(t *testing.T) {
	svc := testTokenService(t, -time.Minute)

	token, err := svc.GenerateAccessToken(&domain.User{ID: "user-expired", Email: "a@college.edu"})
	require.NoError(t, err)

	_, err = svc.VerifyAccessToken(token)
	assert.Error(t, err)
}

func TestTokenService_RejectsTokenFromDifferentKey(t *testing.T) {
	svc := testTokenService(t, 15*time.Minute)

	otherKey := make([]byte, keyBytesSize)
	for i := range otherKey {
		otherKey[i] = byte(255 - i)
	}
	other, err := NewTokenService(hex.EncodeToString(otherKey), 15*time.Minute, time.Hour)
	require.NoError(t, err)

	token, err := other.GenerateAccessToken(&domain.User{ID: "user-foreign", Email: "b@college.edu"})
	require.NoError(t, err)

	_, err = svc.VerifyAccessToken(token)
	assert.Error(t, err)
}

func TestGenerateRefreshToken_IsOpaqueAndUnique(t *testing.T) {
	svc := testTokenService(t, 15*time.Minute)

	first, err := svc.GenerateRefreshToken()
	require.NoError(t, err)
	second, err := svc.GenerateRefreshToken()
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.False(t, strings.HasPrefix(first, "v4.local."))
}

func TestHashRefreshToken_IsDeterministic(t *testing.T) {
	svc := testTokenService(t, 15*time.Minute)

	token, err := svc.GenerateRefreshToken()
	require.NoError(t, err)

	assert.Equal(t, HashRefreshToken(token), HashRefreshToken(token))
	assert.NotEqual(t, token, HashRefreshToken(token))
}

func TestLoadOrGenerateKey_GeneratesThenReloads(t *testing.T) {
	dir := t.TempDir()

	key, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Len(t, key, keyLength)

	// Key file persists with restrictive permissions.
	info, err := os.Stat(filepath.Join(dir, "auth.key"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	reloaded, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Equal(t, key, reloaded)
}

func TestLoadOrGenerateKey_RejectsCorruptKeyFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "auth.key"), []byte("too short"), 0o600))

	_, err := LoadOrGenerateKey(dir)
	assert.Error(t, err)
}
