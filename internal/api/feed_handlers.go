package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/campusmoves/campusmoves-server/internal/domain"
)

func (s *Server) registerFeedRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "exploreFeed",
		Method:      http.MethodGet,
		Path:        "/api/v1/feed/explore",
		Summary:     "Explore feed",
		Description: "Returns moves matching the filters. Past moves are hidden unless asked for.",
		Tags:        []string{"Feed"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleExploreFeed)

	huma.Register(s.api, huma.Operation{
		OperationID: "joinedFeed",
		Method:      http.MethodGet,
		Path:        "/api/v1/feed/joined",
		Summary:     "Joined feed",
		Description: "Returns moves the viewer attends but does not host",
		Tags:        []string{"Feed"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleJoinedFeed)

	huma.Register(s.api, huma.Operation{
		OperationID: "hostingFeed",
		Method:      http.MethodGet,
		Path:        "/api/v1/feed/hosting",
		Summary:     "Hosting feed",
		Description: "Returns moves the viewer hosts",
		Tags:        []string{"Feed"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleHostingFeed)

	huma.Register(s.api, huma.Operation{
		OperationID: "waitlistFeed",
		Method:      http.MethodGet,
		Path:        "/api/v1/feed/waitlist",
		Summary:     "Waitlist feed",
		Description: "Returns moves the viewer is queued for, with positions",
		Tags:        []string{"Feed"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleWaitlistFeed)

	huma.Register(s.api, huma.Operation{
		OperationID: "savedFeed",
		Method:      http.MethodGet,
		Path:        "/api/v1/feed/saved",
		Summary:     "Saved feed",
		Description: "Returns moves the viewer bookmarked",
		Tags:        []string{"Feed"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSavedFeed)
}

// === DTOs ===

// ExploreFeedInput contains filters for the explore feed. The list
// parameters take comma-separated values.
type ExploreFeedInput struct {
	Authorization string `header:"Authorization"`
	Areas         string `query:"areas" doc:"Campus areas, comma-separated (north,south,downtown,other)"`
	Statuses      string `query:"statuses" doc:"Statuses, comma-separated (live,upcoming,past); default hides past"`
	Activities    string `query:"activities" doc:"Activity types, comma-separated (food,study,sports,social,other)"`
	Query         string `query:"q" doc:"Substring match on title, location, and host"`
	Sort          string `query:"sort" doc:"Sort mode (upcoming, newest, popular); default upcoming"`
}

// FeedInput contains parameters for the viewer-scoped feeds.
type FeedInput struct {
	Authorization string `header:"Authorization"`
}

// WaitlistFeedEntry is one queued move with the viewer's position.
type WaitlistFeedEntry struct {
	Move     MoveResponse `json:"move" doc:"The queued move"`
	Position int          `json:"position" doc:"Viewer's 1-based waitlist position"`
}

// WaitlistFeedResponse contains the viewer's queued moves.
type WaitlistFeedResponse struct {
	Entries []WaitlistFeedEntry `json:"entries" doc:"Queued moves in upcoming order"`
}

// WaitlistFeedOutput wraps the waitlist feed response for Huma.
type WaitlistFeedOutput struct {
	Body WaitlistFeedResponse
}

// === Handlers ===

func (s *Server) handleExploreFeed(ctx context.Context, input *ExploreFeedInput) (*ListMovesOutput, error) {
	user, err := CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	filter := domain.ExploreFilter{
		Query: input.Query,
	}
	for _, tok := range splitParam(input.Areas) {
		if a, ok := domain.ParseArea(tok); ok {
			filter.Areas = append(filter.Areas, a)
		}
	}
	for _, tok := range splitParam(input.Statuses) {
		if st, ok := domain.ParseStatus(tok); ok {
			filter.Statuses = append(filter.Statuses, st)
		}
	}
	for _, tok := range splitParam(input.Activities) {
		if a, ok := domain.ParseActivityType(tok); ok {
			filter.Activities = append(filter.Activities, a)
		}
	}

	moves, err := s.services.Feed.Explore(ctx, filter, domain.ParseSortMode(input.Sort))
	if err != nil {
		return nil, err
	}

	return &ListMovesOutput{Body: ListMovesResponse{Moves: s.mapMoveList(moves, user)}}, nil
}

func (s *Server) handleJoinedFeed(ctx context.Context, _ *FeedInput) (*ListMovesOutput, error) {
	user, err := CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	moves, err := s.services.Feed.Joined(ctx, user)
	if err != nil {
		return nil, err
	}

	return &ListMovesOutput{Body: ListMovesResponse{Moves: s.mapMoveList(moves, user)}}, nil
}

func (s *Server) handleHostingFeed(ctx context.Context, _ *FeedInput) (*ListMovesOutput, error) {
	user, err := CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	moves, err := s.services.Feed.Hosting(ctx, user)
	if err != nil {
		return nil, err
	}

	return &ListMovesOutput{Body: ListMovesResponse{Moves: s.mapMoveList(moves, user)}}, nil
}

func (s *Server) handleWaitlistFeed(ctx context.Context, _ *FeedInput) (*WaitlistFeedOutput, error) {
	user, err := CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := s.services.Feed.Waiting(ctx, user)
	if err != nil {
		return nil, err
	}

	resp := make([]WaitlistFeedEntry, len(entries))
	for i, e := range entries {
		resp[i] = WaitlistFeedEntry{
			Move:     s.mapMoveResponse(&e.Move, user),
			Position: e.Position,
		}
	}

	return &WaitlistFeedOutput{Body: WaitlistFeedResponse{Entries: resp}}, nil
}

func (s *Server) handleSavedFeed(ctx context.Context, _ *FeedInput) (*ListMovesOutput, error) {
	user, err := CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	moves, err := s.services.Feed.Saved(ctx, user)
	if err != nil {
		return nil, err
	}

	return &ListMovesOutput{Body: ListMovesResponse{Moves: s.mapMoveList(moves, user)}}, nil
}

// === Helpers ===

// splitParam parses a comma-separated query parameter into lowercase tokens.
func splitParam(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			out = append(out, p)
		}
	}
	return out
}
