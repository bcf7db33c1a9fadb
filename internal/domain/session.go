package domain

import "time"

// Session is a refresh-token session for one signed-in device.
type Session struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	RefreshTokenHash string    `json:"refresh_token_hash"`
	UserAgent        string    `json:"user_agent,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	LastUsedAt       time.Time `json:"last_used_at"`
	ExpiresAt        time.Time `json:"expires_at"`
}

// IsExpired checks whether the session can no longer mint access tokens.
func (s *Session) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
