package places

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	apperrors "github.com/campusmoves/campusmoves-server/internal/errors"
)

const defaultLimit = 5

// Prediction is one place suggestion for a typed query.
type Prediction struct {
	PlaceID   string  `json:"place_id"`
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	URL       string  `json:"url"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// nominatimResult mirrors the fields we use from the Nominatim response.
type nominatimResult struct {
	PlaceID     int64  `json:"place_id"`
	DisplayName string `json:"display_name"`
	Name        string `json:"name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

// Search looks up place suggestions for a typed query.
// Failures of the remote service surface as REMOTE errors so handlers map
// them to 502 rather than blaming the client.
func (c *Client) Search(ctx context.Context, query string) ([]Prediction, error) {
	if err := c.wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "jsonv2")
	params.Set("limit", strconv.Itoa(defaultLimit))

	searchURL := c.baseURL + "/search?" + params.Encode()

	c.logger.Debug("searching places",
		"query", query,
		"url", searchURL,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Remote("place lookup unavailable").WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.Remote(fmt.Sprintf("place lookup failed: status %d", resp.StatusCode))
	}

	var results []nominatimResult
	if err := json.UnmarshalRead(resp.Body, &results); err != nil {
		return nil, apperrors.Remote("place lookup returned malformed response").WithCause(err)
	}

	c.logger.Debug("place search results",
		"query", query,
		"count", len(results),
	)

	predictions := make([]Prediction, 0, len(results))
	for _, r := range results {
		lat, latErr := strconv.ParseFloat(r.Lat, 64)
		lon, lonErr := strconv.ParseFloat(r.Lon, 64)
		if latErr != nil || lonErr != nil {
			// A suggestion without coordinates cannot resolve a place.
			continue
		}

		name := r.Name
		if name == "" {
			name = r.DisplayName
		}

		predictions = append(predictions, Prediction{
			PlaceID:   strconv.FormatInt(r.PlaceID, 10),
			Name:      name,
			Address:   r.DisplayName,
			URL:       osmSearchURL(r.DisplayName),
			Latitude:  lat,
			Longitude: lon,
		})
	}

	return predictions, nil
}

// osmSearchURL builds a shareable map link for a place.
func osmSearchURL(displayName string) string {
	return "https://www.openstreetmap.org/search?" + url.Values{"query": {displayName}}.Encode()
}
