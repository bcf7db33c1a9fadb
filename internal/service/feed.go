package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/campusmoves/campusmoves-server/internal/domain"
	"github.com/campusmoves/campusmoves-server/internal/store"
	"github.com/campusmoves/campusmoves-server/internal/store/savedset"
)

// FeedService computes the feed projections. Every projection is recomputed
// from the latest stored snapshot with the request's clock, never from a
// cached or locally mutated copy.
type FeedService struct {
	store  *store.Store
	saved  *savedset.Store
	logger *slog.Logger
}

// NewFeedService creates a new feed service.
func NewFeedService(store *store.Store, saved *savedset.Store, logger *slog.Logger) *FeedService {
	return &FeedService{
		store:  store,
		saved:  saved,
		logger: logger,
	}
}

// Explore returns moves matching the filter in the requested sort order.
// An empty filter shows Live Now and Upcoming moves across all areas.
func (s *FeedService) Explore(ctx context.Context, filter domain.ExploreFilter, mode domain.SortMode) ([]domain.Move, error) {
	moves, err := s.store.ListMoves(ctx)
	if err != nil {
		return nil, fmt.Errorf("list moves: %w", err)
	}

	if !mode.Valid() {
		mode = domain.SortUpcoming
	}

	return domain.Explore(moves, filter, mode, time.Now()), nil
}

// Joined returns moves the user attends but does not host.
func (s *FeedService) Joined(ctx context.Context, user *domain.User) ([]domain.Move, error) {
	moves, err := s.store.ListMoves(ctx)
	if err != nil {
		return nil, fmt.Errorf("list moves: %w", err)
	}

	return domain.Joined(moves, user.ID, user.DisplayName, time.Now()), nil
}

// Hosting returns moves the user created.
func (s *FeedService) Hosting(ctx context.Context, user *domain.User) ([]domain.Move, error) {
	moves, err := s.store.ListMoves(ctx)
	if err != nil {
		return nil, fmt.Errorf("list moves: %w", err)
	}

	return domain.Hosting(moves, user.ID, user.DisplayName, time.Now()), nil
}

// Waiting returns the moves the user is waitlisted for, with their 1-based
// position in each queue.
func (s *FeedService) Waiting(ctx context.Context, user *domain.User) ([]domain.WaitlistEntry, error) {
	moves, err := s.store.ListMoves(ctx)
	if err != nil {
		return nil, fmt.Errorf("list moves: %w", err)
	}

	return domain.Waiting(moves, user.DisplayName, time.Now()), nil
}

// Saved returns the user's bookmarked moves. Bookmarks pointing at deleted
// moves are skipped.
func (s *FeedService) Saved(ctx context.Context, user *domain.User) ([]domain.Move, error) {
	savedIDs, err := s.saved.List(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list saved: %w", err)
	}

	moves, err := s.store.ListMoves(ctx)
	if err != nil {
		return nil, fmt.Errorf("list moves: %w", err)
	}

	return domain.Saved(moves, savedIDs, time.Now()), nil
}
