package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsCampusEmail(t *testing.T) {
	assert.True(t, IsCampusEmail("alice@college.edu"))
	assert.True(t, IsCampusEmail("  Bob@STATE.EDU "))
	assert.False(t, IsCampusEmail("alice@gmail.com"))
	assert.False(t, IsCampusEmail("alice@college.education"))
}

func TestDefaultDisplayName(t *testing.T) {
	assert.Equal(t, "Alice Chen", DefaultDisplayName("alice.chen@college.edu"))
	assert.Equal(t, "Bob Lee", DefaultDisplayName("bob_lee@college.edu"))
	assert.Equal(t, "Dana", DefaultDisplayName("dana@college.edu"))
}

func TestSession_IsExpired(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	s := &Session{ExpiresAt: now.Add(time.Hour)}

	assert.False(t, s.IsExpired(now))
	assert.False(t, s.IsExpired(s.ExpiresAt))
	assert.True(t, s.IsExpired(s.ExpiresAt.Add(time.Second)))
}
