package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/campusmoves/campusmoves-server/internal/store"
	"github.com/campusmoves/campusmoves-server/internal/store/savedset"
)

// SavedService manages per-user move bookmarks.
type SavedService struct {
	store  *store.Store
	saved  *savedset.Store
	logger *slog.Logger
}

// NewSavedService creates a new saved-moves service.
func NewSavedService(store *store.Store, saved *savedset.Store, logger *slog.Logger) *SavedService {
	return &SavedService{
		store:  store,
		saved:  saved,
		logger: logger,
	}
}

// Save bookmarks a move for the user. Saving an already-saved move is a
// no-op. The move must exist.
func (s *SavedService) Save(ctx context.Context, userID, moveID string) error {
	// Confirm the target exists so bookmarks never point at nothing.
	if _, err := s.store.GetMove(ctx, moveID); err != nil {
		return err
	}

	if err := s.saved.Save(ctx, userID, moveID); err != nil {
		return fmt.Errorf("save move: %w", err)
	}

	s.logger.Info("move saved", "user_id", userID, "move_id", moveID)
	return nil
}

// Unsave removes a bookmark. Idempotent.
func (s *SavedService) Unsave(ctx context.Context, userID, moveID string) error {
	if err := s.saved.Unsave(ctx, userID, moveID); err != nil {
		return fmt.Errorf("unsave move: %w", err)
	}

	s.logger.Info("move unsaved", "user_id", userID, "move_id", moveID)
	return nil
}

// IsSaved reports whether the user bookmarked the move.
func (s *SavedService) IsSaved(ctx context.Context, userID, moveID string) (bool, error) {
	return s.saved.IsSaved(ctx, userID, moveID)
}
