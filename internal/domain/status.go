package domain

import (
	"strings"
	"time"
)

// Status is the lifecycle phase of a move at a given instant.
type Status string

// Move statuses, derived from the clock rather than stored.
const (
	StatusUpcoming Status = "Upcoming"
	StatusLive     Status = "Live Now"
	StatusPast     Status = "Past"
)

// AllStatuses lists every status, in display order.
var AllStatuses = []Status{StatusLive, StatusUpcoming, StatusPast}

// Valid checks if the status is a known value.
func (s Status) Valid() bool {
	switch s {
	case StatusUpcoming, StatusLive, StatusPast:
		return true
	default:
		return false
	}
}

// ParseStatus maps a token to a status, folding case. The short wire token
// "live" is accepted alongside the full display value.
func ParseStatus(s string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "live", "live now":
		return StatusLive, true
	case "upcoming":
		return StatusUpcoming, true
	case "past":
		return StatusPast, true
	default:
		return "", false
	}
}

// Rank orders statuses for the upcoming sort: live moves first, then
// upcoming, then past.
func (s Status) Rank() int {
	switch s {
	case StatusLive:
		return 0
	case StatusUpcoming:
		return 1
	default:
		return 2
	}
}

// ResolveStatus derives the phase of a window [start, end] at instant now.
// The boundaries are inclusive: a move is live from the moment it starts
// through the moment it ends. Zero or inverted timestamps read as upcoming,
// the safe default for malformed documents.
func ResolveStatus(start, end, now time.Time) Status {
	if start.IsZero() || end.IsZero() || end.Before(start) {
		return StatusUpcoming
	}
	if now.Before(start) {
		return StatusUpcoming
	}
	if now.After(end) {
		return StatusPast
	}
	return StatusLive
}

// Status derives the move's phase at instant now.
func (m *Move) Status(now time.Time) Status {
	return ResolveStatus(m.StartTime, m.EndTime, now)
}
