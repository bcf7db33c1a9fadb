package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMove(max int, attendees ...string) *Move {
	host := "Host"
	if len(attendees) > 0 {
		host = attendees[0]
	}
	return &Move{
		ID:              "move-test1",
		Title:           "Pickup soccer",
		HostID:          "user-host1",
		HostName:        host,
		Attendees:       attendees,
		MaxParticipants: max,
		CreatedAt:       time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		StartTime:       time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC),
		EndTime:         time.Date(2026, 3, 2, 20, 0, 0, 0, time.UTC),
		Area:            AreaNorth,
		ActivityType:    ActivitySports,
	}
}

func TestMove_AddAttendee(t *testing.T) {
	m := newTestMove(3, "Alice")

	assert.True(t, m.AddAttendee("Bob"))
	assert.Equal(t, []string{"Alice", "Bob"}, m.Attendees)
}

func TestMove_AddAttendee_DuplicateIsNoOp(t *testing.T) {
	m := newTestMove(3, "Alice", "Bob")

	assert.False(t, m.AddAttendee("Bob"))
	assert.Equal(t, []string{"Alice", "Bob"}, m.Attendees)
}

func TestMove_AddAttendee_RefusesWhenFull(t *testing.T) {
	m := newTestMove(2, "Alice", "Bob")

	assert.False(t, m.AddAttendee("Cara"))
	assert.Equal(t, []string{"Alice", "Bob"}, m.Attendees)
	assert.True(t, m.IsFull())
}

func TestMove_CapacityWalkthrough(t *testing.T) {
	// Two slots: Alice hosts, Bob fills the move, Cara queues. When Bob
	// leaves, Cara is promoted and the move is full again.
	m := newTestMove(2, "Alice")

	require.True(t, m.AddAttendee("Bob"))
	require.True(t, m.IsFull())

	assert.False(t, m.AddAttendee("Cara"))
	require.True(t, m.AddToWaitlist("Cara"))
	assert.Equal(t, 1, m.WaitlistPosition("Cara"))

	require.True(t, m.RemoveAttendee("Bob"))
	promoted, ok := m.PromoteNextWaiter()
	require.True(t, ok)
	assert.Equal(t, "Cara", promoted)
	assert.Equal(t, []string{"Alice", "Cara"}, m.Attendees)
	assert.Empty(t, m.Waitlist)
	assert.True(t, m.IsFull())
}

func TestMove_RemoveAttendee_AbsentIsNoOp(t *testing.T) {
	m := newTestMove(3, "Alice")

	assert.False(t, m.RemoveAttendee("Bob"))
	assert.Equal(t, []string{"Alice"}, m.Attendees)
}

func TestMove_PromoteNextWaiter_OnePerFreedSlot(t *testing.T) {
	m := newTestMove(2, "Alice", "Bob")
	require.True(t, m.AddToWaitlist("Cara"))
	require.True(t, m.AddToWaitlist("Dan"))

	require.True(t, m.RemoveAttendee("Bob"))
	promoted, ok := m.PromoteNextWaiter()
	require.True(t, ok)
	assert.Equal(t, "Cara", promoted)

	// The move is full again, so Dan stays queued at the head.
	_, ok = m.PromoteNextWaiter()
	assert.False(t, ok)
	assert.Equal(t, []string{"Dan"}, m.Waitlist)
	assert.Equal(t, 1, m.WaitlistPosition("Dan"))
}

func TestMove_PromoteNextWaiter_EmptyWaitlist(t *testing.T) {
	m := newTestMove(3, "Alice")

	_, ok := m.PromoteNextWaiter()
	assert.False(t, ok)
}

func TestMove_AddToWaitlist_AttendeeCannotQueue(t *testing.T) {
	m := newTestMove(2, "Alice", "Bob")

	assert.False(t, m.AddToWaitlist("Bob"))
	assert.Empty(t, m.Waitlist)
}

func TestMove_AddToWaitlist_DuplicateIsNoOp(t *testing.T) {
	m := newTestMove(2, "Alice", "Bob")
	require.True(t, m.AddToWaitlist("Cara"))

	assert.False(t, m.AddToWaitlist("Cara"))
	assert.Equal(t, []string{"Cara"}, m.Waitlist)
}

func TestMove_AddAttendee_LeavesWaitlist(t *testing.T) {
	// A waiter who gets in through a freed slot directly must not linger on
	// the waitlist.
	m := newTestMove(2, "Alice", "Bob")
	require.True(t, m.AddToWaitlist("Cara"))
	require.True(t, m.RemoveAttendee("Bob"))

	assert.True(t, m.AddAttendee("Cara"))
	assert.Empty(t, m.Waitlist)
}

func TestMove_RemoveFromWaitlist_PreservesOrder(t *testing.T) {
	m := newTestMove(1, "Alice")
	require.True(t, m.AddToWaitlist("Bob"))
	require.True(t, m.AddToWaitlist("Cara"))
	require.True(t, m.AddToWaitlist("Dan"))

	assert.True(t, m.RemoveFromWaitlist("Cara"))
	assert.Equal(t, []string{"Bob", "Dan"}, m.Waitlist)
	assert.Equal(t, 2, m.WaitlistPosition("Dan"))
}

func TestMove_WaitlistPosition_AbsentIsZero(t *testing.T) {
	m := newTestMove(2, "Alice")

	assert.Equal(t, 0, m.WaitlistPosition("Bob"))
}

func TestMove_IsHost(t *testing.T) {
	m := newTestMove(3, "Alice")

	assert.True(t, m.IsHost("user-host1", "Alice"))
	assert.False(t, m.IsHost("user-other", "Alice"))
}

func TestMove_IsHost_FallsBackToName(t *testing.T) {
	m := newTestMove(3, "Alice")
	m.HostID = ""

	assert.True(t, m.IsHost("user-any", "Alice"))
	assert.False(t, m.IsHost("user-any", "Bob"))
}

func TestMove_RecordSignupResponse_OnePerRespondent(t *testing.T) {
	m := newTestMove(4, "Alice")
	m.SignupPrompt = "Bringing a racket?"
	m.SignupPromptRequiresResponse = true

	require.True(t, m.RequiresSignupResponse())
	assert.True(t, m.RecordSignupResponse(SignupResponse{ID: "resp-1", Attendee: "Bob", Response: "Yes"}))
	assert.False(t, m.RecordSignupResponse(SignupResponse{ID: "resp-2", Attendee: "Bob", Response: "No"}))
	require.Len(t, m.SignupResponses, 1)
	assert.Equal(t, "Yes", m.SignupResponses[0].Response)
}

func TestMove_RemoveComment(t *testing.T) {
	m := newTestMove(4, "Alice")
	m.AppendComment(Comment{ID: "cmt-1", Author: "Alice", Text: "See you there"})
	m.AppendComment(Comment{ID: "cmt-2", Author: "Bob", Text: "Running late"})

	assert.True(t, m.RemoveComment("cmt-1"))
	assert.False(t, m.RemoveComment("cmt-1"))
	require.Len(t, m.Comments, 1)
	assert.Equal(t, "cmt-2", m.Comments[0].ID)
}

func TestMove_Normalize_FallbackCapacity(t *testing.T) {
	m := newTestMove(0, "Alice")

	m.Normalize()

	assert.Equal(t, FallbackMaxParticipants, m.MaxParticipants)
}

func TestMove_Normalize_CapacityNeverBelowAttendees(t *testing.T) {
	m := newTestMove(0, "A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L", "M")

	m.Normalize()

	assert.Equal(t, 13, m.MaxParticipants)
	assert.False(t, m.SpotsLeft() > 0)
}

func TestParseArea_FoldsCase(t *testing.T) {
	a, ok := ParseArea("north")
	assert.True(t, ok)
	assert.Equal(t, AreaNorth, a)

	a, ok = ParseArea(" Downtown ")
	assert.True(t, ok)
	assert.Equal(t, AreaDowntown, a)

	_, ok = ParseArea("west annex")
	assert.False(t, ok)
}

func TestParseActivityType_FoldsCase(t *testing.T) {
	at, ok := ParseActivityType("FOOD")
	assert.True(t, ok)
	assert.Equal(t, ActivityFood, at)

	_, ok = ParseActivityType("karaoke")
	assert.False(t, ok)
}

func TestNormalizeArea_AcceptsWireCasing(t *testing.T) {
	assert.Equal(t, AreaNorth, NormalizeArea("north"))
	assert.Equal(t, AreaOther, NormalizeArea("nowhere"))
	assert.Equal(t, ActivitySocial, NormalizeActivityType("social"))
}

func TestMove_Normalize_UnknownEnums(t *testing.T) {
	m := newTestMove(4, "Alice")
	m.Area = CampusArea("West Annex")
	m.ActivityType = ActivityType("Karaoke")

	m.Normalize()

	assert.Equal(t, AreaOther, m.Area)
	assert.Equal(t, ActivityOther, m.ActivityType)
}
