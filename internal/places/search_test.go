package places

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "github.com/campusmoves/campusmoves-server/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c := NewClient(slog.New(slog.DiscardHandler))
	c.baseURL = server.URL
	return c
}

func TestSearch_MapsResults(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "student union", r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"place_id": 42, "name": "Student Union", "display_name": "Student Union, College Ave", "lat": "42.73", "lon": "-84.48"},
			{"place_id": 43, "name": "No Coordinates", "display_name": "Broken", "lat": "", "lon": ""}
		]`))
	})

	predictions, err := c.Search(context.Background(), "student union")
	require.NoError(t, err)

	// The entry without coordinates is dropped.
	require.Len(t, predictions, 1)
	p := predictions[0]
	assert.Equal(t, "42", p.PlaceID)
	assert.Equal(t, "Student Union", p.Name)
	assert.Equal(t, "Student Union, College Ave", p.Address)
	assert.InDelta(t, 42.73, p.Latitude, 0.001)
	assert.InDelta(t, -84.48, p.Longitude, 0.001)
	assert.NotEmpty(t, p.URL)
}

func TestSearch_RemoteFailureIsRemoteError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := c.Search(context.Background(), "anything")
	assert.ErrorIs(t, err, apperrors.ErrRemote)
}

func TestSearch_MalformedResponseIsRemoteError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not": "a list"`))
	})

	_, err := c.Search(context.Background(), "anything")
	assert.ErrorIs(t, err, apperrors.ErrRemote)
}
