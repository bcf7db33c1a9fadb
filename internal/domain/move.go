package domain

import (
	"slices"
	"strings"
	"time"
)

// CampusArea is the rough campus region a move takes place in.
type CampusArea string

// Campus areas. Values coming from the store that match none of these
// normalize to AreaOther.
const (
	AreaNorth    CampusArea = "North"
	AreaSouth    CampusArea = "South"
	AreaDowntown CampusArea = "Downtown"
	AreaOther    CampusArea = "Other"
)

// AllAreas lists every campus area, in display order.
var AllAreas = []CampusArea{AreaNorth, AreaSouth, AreaDowntown, AreaOther}

// Valid checks if the area is a known value.
func (a CampusArea) Valid() bool {
	switch a {
	case AreaNorth, AreaSouth, AreaDowntown, AreaOther:
		return true
	default:
		return false
	}
}

// ParseArea maps a token to a campus area, folding case so the lowercase
// wire form ("north") and the stored form ("North") both resolve.
func ParseArea(s string) (CampusArea, bool) {
	s = strings.TrimSpace(s)
	for _, a := range AllAreas {
		if strings.EqualFold(s, string(a)) {
			return a, true
		}
	}
	return "", false
}

// NormalizeArea maps arbitrary stored strings to a known area, falling back to Other.
func NormalizeArea(s string) CampusArea {
	if a, ok := ParseArea(s); ok {
		return a
	}
	return AreaOther
}

// ActivityType categorizes what a move is about.
type ActivityType string

// Activity types. Unknown stored values normalize to ActivityOther.
const (
	ActivityFood   ActivityType = "Food"
	ActivityStudy  ActivityType = "Study"
	ActivitySports ActivityType = "Sports"
	ActivitySocial ActivityType = "Social"
	ActivityOther  ActivityType = "Other"
)

// AllActivityTypes lists every activity type, in display order.
var AllActivityTypes = []ActivityType{ActivityFood, ActivityStudy, ActivitySports, ActivitySocial, ActivityOther}

// Valid checks if the activity type is a known value.
func (a ActivityType) Valid() bool {
	switch a {
	case ActivityFood, ActivityStudy, ActivitySports, ActivitySocial, ActivityOther:
		return true
	default:
		return false
	}
}

// ParseActivityType maps a token to an activity type, folding case.
func ParseActivityType(s string) (ActivityType, bool) {
	s = strings.TrimSpace(s)
	for _, a := range AllActivityTypes {
		if strings.EqualFold(s, string(a)) {
			return a, true
		}
	}
	return "", false
}

// NormalizeActivityType maps arbitrary stored strings to a known activity type,
// falling back to Other.
func NormalizeActivityType(s string) ActivityType {
	if a, ok := ParseActivityType(s); ok {
		return a
	}
	return ActivityOther
}

// Limits on move fields, enforced at creation.
const (
	TitleMaxLength  = 50
	MinParticipants = 2
	MaxParticipants = 50

	// FallbackMaxParticipants substitutes for a missing or invalid capacity
	// in a stored document. It is raised to the current attendee count when
	// the document already holds more members than the fallback.
	FallbackMaxParticipants = 12
)

// Comment is a single comment on a move.
type Comment struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// SignupResponse records one attendee's answer to the host's signup prompt.
type SignupResponse struct {
	ID        string    `json:"id"`
	Attendee  string    `json:"attendee"`
	Response  string    `json:"response"`
	CreatedAt time.Time `json:"created_at"`
}

// Move is a single time-boxed campus meetup event.
//
// Attendees and waitlist are ordered lists of display names. The host counts
// as an attendee and is included at creation. The waitlist is FIFO: its order
// is insertion order, and the head is always the next member promoted when a
// slot frees up. A name never appears in both lists at once.
type Move struct {
	CreatedAt       time.Time        `json:"created_at"`
	StartTime       time.Time        `json:"start_time"`
	EndTime         time.Time        `json:"end_time"`
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	Remarks         string           `json:"remarks"`
	Location        Place            `json:"location"`
	Area            CampusArea       `json:"area"`
	ActivityType    ActivityType     `json:"activity_type"`
	HostID          string           `json:"host_id"`
	HostName        string           `json:"host_name"`
	Attendees       []string         `json:"attendees"`
	MaxParticipants int              `json:"max_participants"`
	Waitlist        []string         `json:"waitlist"`
	SignupPrompt    string           `json:"signup_prompt,omitempty"`
	SignupPromptRequiresResponse bool `json:"signup_prompt_requires_response,omitempty"`
	SignupResponses []SignupResponse `json:"signup_responses,omitempty"`
	Comments        []Comment        `json:"comments"`
}

// HasAttendee checks if a name holds an attendee slot.
func (m *Move) HasAttendee(name string) bool {
	return slices.Contains(m.Attendees, name)
}

// IsFull reports whether every attendee slot is taken.
func (m *Move) IsFull() bool {
	return len(m.Attendees) >= m.MaxParticipants
}

// SpotsLeft returns the number of open attendee slots.
func (m *Move) SpotsLeft() int {
	left := m.MaxParticipants - len(m.Attendees)
	if left < 0 {
		return 0
	}
	return left
}

// AddAttendee appends a name to the attendee list.
// Returns false without mutating if the name already attends or the move is
// full, so the capacity invariant holds after every call.
func (m *Move) AddAttendee(name string) bool {
	if m.HasAttendee(name) || m.IsFull() {
		return false
	}
	m.RemoveFromWaitlist(name)
	m.Attendees = append(m.Attendees, name)
	return true
}

// RemoveAttendee removes a name from the attendee list.
// Returns false if the name was not attending. Promotion of the next waiter
// is a separate, explicit step (PromoteNextWaiter) so it stays independently
// testable.
func (m *Move) RemoveAttendee(name string) bool {
	for i, n := range m.Attendees {
		if n == name {
			m.Attendees = append(m.Attendees[:i], m.Attendees[i+1:]...)
			return true
		}
	}
	return false
}

// PromoteNextWaiter moves the head of the waitlist into the attendee list.
// At most one waiter is promoted per call: one freed slot, one promotion.
// Returns the promoted name, or false when the waitlist is empty or the move
// is still full.
func (m *Move) PromoteNextWaiter() (string, bool) {
	if len(m.Waitlist) == 0 || m.IsFull() {
		return "", false
	}
	next := m.Waitlist[0]
	m.Waitlist = m.Waitlist[1:]
	m.Attendees = append(m.Attendees, next)
	return next, true
}

// OnWaitlist checks if a name is waiting for a slot.
func (m *Move) OnWaitlist(name string) bool {
	return slices.Contains(m.Waitlist, name)
}

// AddToWaitlist appends a name to the tail of the waitlist.
// Returns false without mutating if the name already attends or already waits.
func (m *Move) AddToWaitlist(name string) bool {
	if m.HasAttendee(name) || m.OnWaitlist(name) {
		return false
	}
	m.Waitlist = append(m.Waitlist, name)
	return true
}

// RemoveFromWaitlist removes a name from the waitlist by value, preserving the
// relative order of everyone else. Returns false if the name was not waiting.
func (m *Move) RemoveFromWaitlist(name string) bool {
	for i, n := range m.Waitlist {
		if n == name {
			m.Waitlist = append(m.Waitlist[:i], m.Waitlist[i+1:]...)
			return true
		}
	}
	return false
}

// WaitlistPosition returns the 1-based rank of a name on the waitlist,
// or 0 if the name is not waiting.
func (m *Move) WaitlistPosition(name string) int {
	for i, n := range m.Waitlist {
		if n == name {
			return i + 1
		}
	}
	return 0
}

// IsHost checks whether the given identity created this move.
// Matches on host ID, falling back to host name for documents written before
// IDs were recorded.
func (m *Move) IsHost(userID, userName string) bool {
	if m.HostID != "" && userID != "" {
		return m.HostID == userID
	}
	return m.HostName == userName
}

// RequiresSignupResponse reports whether joining demands a non-empty answer
// to the host's signup prompt.
func (m *Move) RequiresSignupResponse() bool {
	return m.SignupPrompt != "" && m.SignupPromptRequiresResponse
}

// RecordSignupResponse appends a signup response, one per respondent.
// A second response from the same attendee is ignored.
func (m *Move) RecordSignupResponse(r SignupResponse) bool {
	for _, existing := range m.SignupResponses {
		if existing.Attendee == r.Attendee {
			return false
		}
	}
	m.SignupResponses = append(m.SignupResponses, r)
	return true
}

// AppendComment adds a comment to the end of the comment list.
func (m *Move) AppendComment(c Comment) {
	m.Comments = append(m.Comments, c)
}

// FindComment returns the comment with the given ID.
func (m *Move) FindComment(commentID string) (Comment, bool) {
	for _, c := range m.Comments {
		if c.ID == commentID {
			return c, true
		}
	}
	return Comment{}, false
}

// RemoveComment deletes the comment with the given ID.
// Returns false if no such comment exists.
func (m *Move) RemoveComment(commentID string) bool {
	for i, c := range m.Comments {
		if c.ID == commentID {
			m.Comments = append(m.Comments[:i], m.Comments[i+1:]...)
			return true
		}
	}
	return false
}

// Normalize repairs a move loaded from the store so the rest of the system
// never sees a malformed document. Unknown areas and activity types fall back
// to Other, and a missing or non-positive capacity becomes
// FallbackMaxParticipants, raised to the current attendee count so the move
// never reads as over-full.
func (m *Move) Normalize() {
	m.Area = NormalizeArea(string(m.Area))
	m.ActivityType = NormalizeActivityType(string(m.ActivityType))
	if m.MaxParticipants <= 0 {
		m.MaxParticipants = FallbackMaxParticipants
	}
	if m.MaxParticipants < len(m.Attendees) {
		m.MaxParticipants = len(m.Attendees)
	}
}

// SearchText returns the lowercase-able text fields the explore feed matches
// free-text queries against.
func (m *Move) SearchText() string {
	return m.Title + " " + m.Description + " " + m.Location.Text + " " + m.Location.Name
}
