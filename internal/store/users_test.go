package store

import (
	"context"
	"testing"
	"time"

	"github.com/campusmoves/campusmoves-server/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser(id, email string) *domain.User {
	return &domain.User{
		ID:          id,
		Email:       email,
		DisplayName: "Alice Chen",
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
}

func TestCreateUser(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	user := testUser("user-001", "alice@college.edu")

	require.NoError(t, s.CreateUser(ctx, user))

	retrieved, err := s.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, retrieved.Email)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, s.CreateUser(ctx, testUser("user-001", "alice@college.edu")))

	// Same address with different casing is still a duplicate.
	err := s.CreateUser(ctx, testUser("user-002", "Alice@College.EDU"))
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestGetUserByEmail_CaseInsensitive(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, s.CreateUser(ctx, testUser("user-001", "alice@college.edu")))

	retrieved, err := s.GetUserByEmail(ctx, "  ALICE@COLLEGE.EDU ")
	require.NoError(t, err)
	assert.Equal(t, "user-001", retrieved.ID)
}

func TestGetUserByEmail_NotFound(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := s.GetUserByEmail(context.Background(), "nobody@college.edu")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateUser_RotatesEmailIndex(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	user := testUser("user-001", "alice@college.edu")
	require.NoError(t, s.CreateUser(ctx, user))

	user.Email = "alice.chen@college.edu"
	require.NoError(t, s.UpdateUser(ctx, user))

	retrieved, err := s.GetUserByEmail(ctx, "alice.chen@college.edu")
	require.NoError(t, err)
	assert.Equal(t, "user-001", retrieved.ID)

	_, err = s.GetUserByEmail(ctx, "alice@college.edu")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestDeleteUser_FreesEmail(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, s.CreateUser(ctx, testUser("user-001", "alice@college.edu")))
	require.NoError(t, s.DeleteUser(ctx, "user-001"))

	// Address can be registered again.
	require.NoError(t, s.CreateUser(ctx, testUser("user-002", "alice@college.edu")))

	// Deleting a missing user is a no-op.
	assert.NoError(t, s.DeleteUser(ctx, "user-001"))
}
