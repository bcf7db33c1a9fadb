// Package sse implements Server-Sent Events for real-time feed updates and event broadcasting.
package sse

import (
	"time"

	"github.com/campusmoves/campusmoves-server/internal/domain"
)

// The feed is push-based: every move mutation broadcasts a full snapshot of
// the changed document, so clients replace rather than patch local state and
// a dropped event is repaired by the next one.

// EventType represents the type of SSE Event.
type EventType string

const (
	// EventMoveCreated represents a move creation event.
	EventMoveCreated EventType = "move.created"
	// EventMoveUpdated represents a move update event.
	// Sent for every membership, waitlist, comment, and edit mutation.
	EventMoveUpdated EventType = "move.updated"
	// EventMoveDeleted represents a move deletion event.
	EventMoveDeleted EventType = "move.deleted"

	// EventWaitlistPromoted notifies a single user they moved off the
	// waitlist into an attendee slot.
	EventWaitlistPromoted EventType = "waitlist.promoted"

	// EventHeartbeat represents a connection keepalive event.
	EventHeartbeat EventType = "heartbeat"
)

// Event represents an SSE event to be sent to clients.
// The Data field contains the event payload as a JSON object for direct deserialization.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"` // Event-specific data as JSON object
	Type      EventType `json:"type"`

	// When set, the event is only delivered to clients of this user.
	// Empty string means "broadcast to all".
	UserID string `json:"-"`
}

// MoveEventData is the data payload for move create and update events.
// Contains the full move snapshot so events are self-contained and
// immediately renderable without additional queries.
type MoveEventData struct {
	Move *domain.Move `json:"move"`
}

// MoveDeletedEventData is the data payload for move delete events.
type MoveDeletedEventData struct {
	DeletedAt time.Time `json:"deleted_at"`
	MoveID    string    `json:"move_id"`
}

// WaitlistPromotedEventData is the data payload for waitlist promotion events.
type WaitlistPromotedEventData struct {
	MoveID       string `json:"move_id"`
	MoveTitle    string `json:"move_title"`
	PromotedName string `json:"promoted_name"`
}

// HeartbeatEventData is the data payload for heartbeat events.
type HeartbeatEventData struct {
	ServerTime time.Time `json:"server_time"`
}

// NewMoveCreatedEvent creates a move.created event.
func NewMoveCreatedEvent(move *domain.Move) Event {
	return Event{
		Type:      EventMoveCreated,
		Data:      MoveEventData{Move: move},
		Timestamp: time.Now(),
	}
}

// NewMoveUpdatedEvent creates a move.updated event carrying the new snapshot.
func NewMoveUpdatedEvent(move *domain.Move) Event {
	return Event{
		Type:      EventMoveUpdated,
		Data:      MoveEventData{Move: move},
		Timestamp: time.Now(),
	}
}

// NewMoveDeletedEvent creates a move.deleted event.
func NewMoveDeletedEvent(moveID string) Event {
	return Event{
		Type: EventMoveDeleted,
		Data: MoveDeletedEventData{
			MoveID:    moveID,
			DeletedAt: time.Now(),
		},
		Timestamp: time.Now(),
	}
}

// NewWaitlistPromotedEvent creates a waitlist.promoted event. Callers set
// Event.UserID when the promoted member resolves to a known account, scoping
// delivery to that user; otherwise the event broadcasts and clients match on
// the promoted name.
func NewWaitlistPromotedEvent(moveID, moveTitle, promotedName string) Event {
	return Event{
		Type: EventWaitlistPromoted,
		Data: WaitlistPromotedEventData{
			MoveID:       moveID,
			MoveTitle:    moveTitle,
			PromotedName: promotedName,
		},
		Timestamp: time.Now(),
	}
}

// NewHeartbeatEvent creates a heartbeat event.
func NewHeartbeatEvent() Event {
	return Event{
		Type: EventHeartbeat,
		Data: HeartbeatEventData{
			ServerTime: time.Now(),
		},
		Timestamp: time.Now(),
	}
}
