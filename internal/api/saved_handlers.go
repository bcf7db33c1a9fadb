package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerSavedRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "saveMove",
		Method:      http.MethodPut,
		Path:        "/api/v1/saved/{moveId}",
		Summary:     "Save move",
		Description: "Bookmarks a move for the saved feed. Saving twice is a no-op.",
		Tags:        []string{"Saved"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSaveMove)

	huma.Register(s.api, huma.Operation{
		OperationID: "unsaveMove",
		Method:      http.MethodDelete,
		Path:        "/api/v1/saved/{moveId}",
		Summary:     "Unsave move",
		Description: "Removes a bookmark. Removing an absent bookmark is a no-op.",
		Tags:        []string{"Saved"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUnsaveMove)
}

// SavedMoveInput contains parameters for save and unsave.
type SavedMoveInput struct {
	Authorization string `header:"Authorization"`
	MoveID        string `path:"moveId" doc:"Move ID"`
}

func (s *Server) handleSaveMove(ctx context.Context, input *SavedMoveInput) (*MessageOutput, error) {
	user, err := CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Saved.Save(ctx, user.ID, input.MoveID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Move saved"}}, nil
}

func (s *Server) handleUnsaveMove(ctx context.Context, input *SavedMoveInput) (*MessageOutput, error) {
	user, err := CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Saved.Unsave(ctx, user.ID, input.MoveID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Move unsaved"}}, nil
}
