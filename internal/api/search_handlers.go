package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/campusmoves/campusmoves-server/internal/domain"
	"github.com/campusmoves/campusmoves-server/internal/search"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchMoves",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search moves",
		Description: "Full-text search over move titles, descriptions, locations, and hosts",
		Tags:        []string{"Search"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSearchMoves)
}

// SearchInput contains search parameters.
type SearchInput struct {
	Authorization string `header:"Authorization"`
	Query         string `query:"q" doc:"Search query"`
	Areas         string `query:"areas" doc:"Campus areas, comma-separated"`
	Activities    string `query:"activities" doc:"Activity types, comma-separated"`
	Limit         int    `query:"limit" minimum:"1" maximum:"100" doc:"Max results, default 20"`
	Offset        int    `query:"offset" minimum:"0" doc:"Results to skip"`
	Sort          string `query:"sort" enum:"relevance,recent,popularity,soonest" doc:"Sort order, default relevance"`
}

// SearchOutput wraps search results for Huma.
type SearchOutput struct {
	Body search.SearchResult
}

func (s *Server) handleSearchMoves(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	if _, err := CurrentUser(ctx); err != nil {
		return nil, err
	}

	params := search.DefaultSearchParams()
	params.Query = input.Query
	// The index stores enums in their canonical form, so fold the wire
	// tokens before building term queries.
	for _, tok := range splitParam(input.Areas) {
		if a, ok := domain.ParseArea(tok); ok {
			params.Areas = append(params.Areas, string(a))
		}
	}
	for _, tok := range splitParam(input.Activities) {
		if at, ok := domain.ParseActivityType(tok); ok {
			params.ActivityTypes = append(params.ActivityTypes, string(at))
		}
	}
	if input.Limit > 0 {
		params.Limit = input.Limit
	}
	if input.Offset > 0 {
		params.Offset = input.Offset
	}
	if input.Sort != "" {
		params.SortBy = input.Sort
	}

	result, err := s.services.Search.Search(ctx, params)
	if err != nil {
		return nil, err
	}

	return &SearchOutput{Body: *result}, nil
}
