package store

import (
	"context"
	"testing"
	"time"

	"github.com/campusmoves/campusmoves-server/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSession(id, userID, tokenHash string, expiresAt time.Time) *domain.Session {
	return &domain.Session{
		ID:               id,
		UserID:           userID,
		RefreshTokenHash: tokenHash,
		CreatedAt:        time.Now().UTC(),
		LastUsedAt:       time.Now().UTC(),
		ExpiresAt:        expiresAt,
	}
}

func TestCreateSession_LookupByRefreshToken(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	session := testSession("sess-001", "user-001", "hash-a", time.Now().Add(time.Hour))
	require.NoError(t, s.CreateSession(ctx, session))

	retrieved, err := s.GetSessionByRefreshToken(ctx, "hash-a")
	require.NoError(t, err)
	assert.Equal(t, "sess-001", retrieved.ID)

	_, err = s.GetSessionByRefreshToken(ctx, "hash-unknown")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestUpdateSession_RotatesRefreshIndex(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	session := testSession("sess-001", "user-001", "hash-a", time.Now().Add(time.Hour))
	require.NoError(t, s.CreateSession(ctx, session))

	session.RefreshTokenHash = "hash-b"
	require.NoError(t, s.UpdateSession(ctx, session))

	retrieved, err := s.GetSessionByRefreshToken(ctx, "hash-b")
	require.NoError(t, err)
	assert.Equal(t, "sess-001", retrieved.ID)

	// The old token no longer resolves.
	_, err = s.GetSessionByRefreshToken(ctx, "hash-a")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestDeleteAllUserSessions(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, s.CreateSession(ctx, testSession("sess-001", "user-001", "hash-a", time.Now().Add(time.Hour))))
	require.NoError(t, s.CreateSession(ctx, testSession("sess-002", "user-001", "hash-b", time.Now().Add(time.Hour))))
	require.NoError(t, s.CreateSession(ctx, testSession("sess-003", "user-002", "hash-c", time.Now().Add(time.Hour))))

	require.NoError(t, s.DeleteAllUserSessions(ctx, "user-001"))

	sessions, err := s.ListUserSessions(ctx, "user-001")
	require.NoError(t, err)
	assert.Empty(t, sessions)

	other, err := s.ListUserSessions(ctx, "user-002")
	require.NoError(t, err)
	assert.Len(t, other, 1)
}

func TestDeleteExpiredSessions(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	now := time.Now().UTC()
	require.NoError(t, s.CreateSession(ctx, testSession("sess-old", "user-001", "hash-a", now.Add(-time.Hour))))
	require.NoError(t, s.CreateSession(ctx, testSession("sess-live", "user-001", "hash-b", now.Add(time.Hour))))

	removed, err := s.DeleteExpiredSessions(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = s.GetSession(ctx, "sess-old")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = s.GetSession(ctx, "sess-live")
	assert.NoError(t, err)
}
