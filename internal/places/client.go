// Package places provides place lookup for move locations via the
// OpenStreetMap Nominatim API. Hosts type free text; when they pick a
// suggestion the move's location is upgraded to a resolved place with
// coordinates.
package places

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://nominatim.openstreetmap.org"

// Client provides access to the Nominatim search API.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *slog.Logger
	baseURL     string
	userAgent   string
}

// NewClient creates a new places client.
// Rate limited to 1 request per second per the Nominatim usage policy.
func NewClient(logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		rateLimiter: rate.NewLimiter(rate.Every(time.Second), 2),
		logger:      logger,
		baseURL:     defaultBaseURL,
		userAgent:   "campusmoves-server/1.0",
	}
}

// SetBaseURL points the client at a different endpoint, for self-hosted
// Nominatim instances.
func (c *Client) SetBaseURL(baseURL string) {
	if baseURL != "" {
		c.baseURL = baseURL
	}
}

// Close releases resources. Currently a no-op but included for interface consistency.
func (c *Client) Close() {
	// No persistent resources to close
}

// wait blocks until rate limiter allows a request.
func (c *Client) wait(ctx context.Context) error {
	return c.rateLimiter.Wait(ctx)
}
