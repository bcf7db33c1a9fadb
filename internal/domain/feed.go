package domain

import (
	"slices"
	"sort"
	"strings"
	"time"
)

// SortMode selects how the explore feed orders moves.
type SortMode string

// Explore sort modes.
const (
	// SortUpcoming surfaces what matters soonest: live moves first, then
	// upcoming soonest-first, then past most-recent-first.
	SortUpcoming SortMode = "upcoming"
	// SortNewest orders by creation time, newest first.
	SortNewest SortMode = "newest"
	// SortPopularity orders by attendee count, ties broken newest-created first.
	SortPopularity SortMode = "popularity"
)

// ParseSortMode maps a token to a sort mode, folding case and accepting
// "popular" as an alias for the popularity sort. Unknown tokens fall back to
// the upcoming sort, matching SortMoves.
func ParseSortMode(s string) SortMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(SortNewest):
		return SortNewest
	case string(SortPopularity), "popular":
		return SortPopularity
	default:
		return SortUpcoming
	}
}

// Valid checks if the sort mode is a known value.
func (s SortMode) Valid() bool {
	switch s {
	case SortUpcoming, SortNewest, SortPopularity:
		return true
	default:
		return false
	}
}

// ExploreFilter narrows the explore feed. Empty slices mean "no restriction"
// for that dimension, except Statuses which defaults to hiding past moves.
type ExploreFilter struct {
	Areas      []CampusArea
	Statuses   []Status
	Activities []ActivityType
	Query      string
}

// DefaultStatuses is the status filter applied when the caller picked none:
// past moves stay hidden until asked for.
var DefaultStatuses = []Status{StatusLive, StatusUpcoming}

// Matches checks one move against the filter at instant now.
func (f ExploreFilter) Matches(m *Move, now time.Time) bool {
	if len(f.Areas) > 0 && !slices.Contains(f.Areas, m.Area) {
		return false
	}
	statuses := f.Statuses
	if len(statuses) == 0 {
		statuses = DefaultStatuses
	}
	if !slices.Contains(statuses, m.Status(now)) {
		return false
	}
	if len(f.Activities) > 0 && !slices.Contains(f.Activities, m.ActivityType) {
		return false
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		if !strings.Contains(strings.ToLower(m.SearchText()), strings.ToLower(q)) {
			return false
		}
	}
	return true
}

// Explore filters and orders moves for the explore feed. The input slice is
// not modified.
func Explore(moves []Move, f ExploreFilter, mode SortMode, now time.Time) []Move {
	out := make([]Move, 0, len(moves))
	for i := range moves {
		if f.Matches(&moves[i], now) {
			out = append(out, moves[i])
		}
	}
	SortMoves(out, mode, now)
	return out
}

// SortMoves orders moves in place by the given mode. Unknown modes fall back
// to the upcoming sort.
func SortMoves(moves []Move, mode SortMode, now time.Time) {
	switch mode {
	case SortNewest:
		sort.SliceStable(moves, func(i, j int) bool {
			return moves[i].CreatedAt.After(moves[j].CreatedAt)
		})
	case SortPopularity:
		sort.SliceStable(moves, func(i, j int) bool {
			if len(moves[i].Attendees) != len(moves[j].Attendees) {
				return len(moves[i].Attendees) > len(moves[j].Attendees)
			}
			return moves[i].CreatedAt.After(moves[j].CreatedAt)
		})
	default:
		sort.SliceStable(moves, func(i, j int) bool {
			si, sj := moves[i].Status(now), moves[j].Status(now)
			if si.Rank() != sj.Rank() {
				return si.Rank() < sj.Rank()
			}
			// Within past moves the most recently ended reads first;
			// everywhere else soonest-starting first.
			if si == StatusPast {
				return moves[i].StartTime.After(moves[j].StartTime)
			}
			return moves[i].StartTime.Before(moves[j].StartTime)
		})
	}
}

// Joined returns the moves the viewer attends but does not host, ordered by
// the upcoming sort.
func Joined(moves []Move, userID, userName string, now time.Time) []Move {
	out := make([]Move, 0)
	for i := range moves {
		m := &moves[i]
		if m.HasAttendee(userName) && !m.IsHost(userID, userName) {
			out = append(out, *m)
		}
	}
	SortMoves(out, SortUpcoming, now)
	return out
}

// Hosting returns the moves the viewer created, ordered by the upcoming sort.
func Hosting(moves []Move, userID, userName string, now time.Time) []Move {
	out := make([]Move, 0)
	for i := range moves {
		if moves[i].IsHost(userID, userName) {
			out = append(out, moves[i])
		}
	}
	SortMoves(out, SortUpcoming, now)
	return out
}

// WaitlistEntry pairs a move with the viewer's 1-based place in its queue.
type WaitlistEntry struct {
	Move     Move
	Position int
}

// Waiting returns the moves the viewer is queued for, with positions,
// ordered by the upcoming sort.
func Waiting(moves []Move, userName string, now time.Time) []WaitlistEntry {
	matched := make([]Move, 0)
	for i := range moves {
		if moves[i].OnWaitlist(userName) {
			matched = append(matched, moves[i])
		}
	}
	SortMoves(matched, SortUpcoming, now)
	out := make([]WaitlistEntry, len(matched))
	for i := range matched {
		out[i] = WaitlistEntry{Move: matched[i], Position: matched[i].WaitlistPosition(userName)}
	}
	return out
}

// Saved returns the moves whose IDs appear in the saved set, ordered by the
// upcoming sort. IDs in the set with no matching move are skipped; pruning
// them is the caller's concern.
func Saved(moves []Move, savedIDs map[string]struct{}, now time.Time) []Move {
	out := make([]Move, 0, len(savedIDs))
	for i := range moves {
		if _, ok := savedIDs[moves[i].ID]; ok {
			out = append(out, moves[i])
		}
	}
	SortMoves(out, SortUpcoming, now)
	return out
}
