package sse

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/campusmoves/campusmoves-server/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	return NewManager(slog.New(slog.DiscardHandler))
}

func TestManager_ConnectDisconnect(t *testing.T) {
	m := newTestManager(t)

	client, err := m.Connect("user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, m.ClientCount())

	m.Disconnect(client.ID)
	assert.Equal(t, 0, m.ClientCount())

	// Disconnecting twice is safe.
	m.Disconnect(client.ID)
}

func TestManager_BroadcastReachesAllClients(t *testing.T) {
	m := newTestManager(t)

	a, err := m.Connect("user-a")
	require.NoError(t, err)
	b, err := m.Connect("user-b")
	require.NoError(t, err)

	m.broadcast(NewMoveDeletedEvent("move-1"))

	for _, c := range []*Client{a, b} {
		select {
		case evt := <-c.EventChan:
			assert.Equal(t, EventMoveDeleted, evt.Type)
		default:
			t.Fatalf("client %s received no event", c.ID)
		}
	}
}

func TestManager_UserScopedEventIsFiltered(t *testing.T) {
	m := newTestManager(t)

	a, err := m.Connect("user-a")
	require.NoError(t, err)
	b, err := m.Connect("user-b")
	require.NoError(t, err)

	evt := NewWaitlistPromotedEvent("move-1", "Pickup soccer", "Sam")
	evt.UserID = "user-a"
	m.broadcast(evt)

	select {
	case got := <-a.EventChan:
		assert.Equal(t, EventWaitlistPromoted, got.Type)
	default:
		t.Fatal("targeted client received no event")
	}

	select {
	case <-b.EventChan:
		t.Fatal("event leaked to other user")
	default:
	}
}

func TestManager_EmitAfterShutdownIsDropped(t *testing.T) {
	m := newTestManager(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, m.Shutdown(ctx))

	// Must not panic on the closed channel.
	m.Emit(NewMoveUpdatedEvent(&domain.Move{ID: "move-1"}))
}

func TestManager_EmitIgnoresForeignTypes(t *testing.T) {
	m := newTestManager(t)
	m.Emit("not an event")
}
