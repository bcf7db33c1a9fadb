package domain

import (
	"strings"
	"time"
)

// User is a registered account.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"display_name"`
	PasswordHash string    `json:"password_hash,omitempty"` // Stored hashed, filter from API responses
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsCampusEmail checks the address belongs to a campus domain. Registration
// is restricted to .edu addresses.
func IsCampusEmail(email string) bool {
	return strings.HasSuffix(strings.ToLower(strings.TrimSpace(email)), ".edu")
}

// DefaultDisplayName derives a display name from an email address when the
// user did not pick one: the local part, with dots and underscores spaced out
// and words title-cased.
func DefaultDisplayName(email string) string {
	local, _, _ := strings.Cut(strings.TrimSpace(email), "@")
	local = strings.NewReplacer(".", " ", "_", " ").Replace(local)
	words := strings.Fields(local)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
