package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/campusmoves/campusmoves-server/internal/places"
)

func (s *Server) registerPlacesRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "placePredictions",
		Method:      http.MethodGet,
		Path:        "/api/v1/places/predictions",
		Summary:     "Place predictions",
		Description: "Returns place suggestions for a partial location query",
		Tags:        []string{"Places"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handlePlacePredictions)

	huma.Register(s.api, huma.Operation{
		OperationID: "getPlace",
		Method:      http.MethodGet,
		Path:        "/api/v1/places/{placeId}",
		Summary:     "Get place",
		Description: "Resolves a place ID to a named location with coordinates",
		Tags:        []string{"Places"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetPlace)
}

// === DTOs ===

// PlacePredictionsInput contains the lookup query.
type PlacePredictionsInput struct {
	Authorization string `header:"Authorization"`
	Query         string `query:"q" required:"true" minLength:"1" maxLength:"200" doc:"Partial location text"`
}

// PlacePredictionsResponse contains place suggestions.
type PlacePredictionsResponse struct {
	Predictions []places.Prediction `json:"predictions" doc:"Suggested places"`
}

// PlacePredictionsOutput wraps the predictions response for Huma.
type PlacePredictionsOutput struct {
	Body PlacePredictionsResponse
}

// GetPlaceInput contains parameters for resolving a place.
type GetPlaceInput struct {
	Authorization string `header:"Authorization"`
	PlaceID       string `path:"placeId" doc:"Place ID from a predictions lookup"`
}

// PlaceOutput wraps the place response for Huma.
type PlaceOutput struct {
	Body PlaceResponse
}

// === Handlers ===

func (s *Server) handlePlacePredictions(ctx context.Context, input *PlacePredictionsInput) (*PlacePredictionsOutput, error) {
	if _, err := CurrentUser(ctx); err != nil {
		return nil, err
	}

	predictions, err := s.services.Places.Search(ctx, input.Query)
	if err != nil {
		return nil, err
	}

	return &PlacePredictionsOutput{Body: PlacePredictionsResponse{Predictions: predictions}}, nil
}

func (s *Server) handleGetPlace(ctx context.Context, input *GetPlaceInput) (*PlaceOutput, error) {
	if _, err := CurrentUser(ctx); err != nil {
		return nil, err
	}

	place, err := s.services.Places.Resolve(ctx, input.PlaceID)
	if err != nil {
		return nil, err
	}

	return &PlaceOutput{Body: PlaceResponse{
		Text:      place.Text,
		Name:      place.Name,
		URL:       place.URL,
		PlaceID:   place.PlaceID,
		Latitude:  place.Latitude,
		Longitude: place.Longitude,
	}}, nil
}
