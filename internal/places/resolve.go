package places

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"net/http"
	"net/url"

	"github.com/campusmoves/campusmoves-server/internal/domain"
	apperrors "github.com/campusmoves/campusmoves-server/internal/errors"
)

// detailsResult mirrors the fields we use from the Nominatim details response.
type detailsResult struct {
	PlaceID   int64  `json:"place_id"`
	LocalName string `json:"localname"`
	Centroid  struct {
		Type        string    `json:"type"`
		Coordinates []float64 `json:"coordinates"` // [lon, lat]
	} `json:"centroid"`
	Names map[string]string `json:"names"`
}

// Resolve turns a place ID from an earlier Search back into a fully resolved
// place with coordinates. Returns NOT_FOUND when the ID no longer resolves
// and REMOTE for transport failures.
func (c *Client) Resolve(ctx context.Context, placeID string) (*domain.Place, error) {
	if err := c.wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("format", "json")

	detailsURL := c.baseURL + "/details?" + params.Encode()

	c.logger.Debug("resolving place", "place_id", placeID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, detailsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Remote("place lookup unavailable").WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, apperrors.NotFoundf("place %s not found", placeID)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.Remote(fmt.Sprintf("place lookup failed: status %d", resp.StatusCode))
	}

	var result detailsResult
	if err := json.UnmarshalRead(resp.Body, &result); err != nil {
		return nil, apperrors.Remote("place lookup returned malformed response").WithCause(err)
	}

	if len(result.Centroid.Coordinates) < 2 {
		return nil, apperrors.NotFoundf("place %s has no coordinates", placeID)
	}

	name := result.LocalName
	if name == "" {
		name = result.Names["name"]
	}

	lon := result.Centroid.Coordinates[0]
	lat := result.Centroid.Coordinates[1]

	return &domain.Place{
		Text:      name,
		Name:      name,
		URL:       osmSearchURL(name),
		PlaceID:   placeID,
		Latitude:  &lat,
		Longitude: &lon,
	}, nil
}
