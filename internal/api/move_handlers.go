package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/campusmoves/campusmoves-server/internal/domain"
	"github.com/campusmoves/campusmoves-server/internal/service"
)

func (s *Server) registerMoveRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createMove",
		Method:      http.MethodPost,
		Path:        "/api/v1/moves",
		Summary:     "Create move",
		Description: "Creates a new move with the authenticated user as host",
		Tags:        []string{"Moves"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateMove)

	huma.Register(s.api, huma.Operation{
		OperationID: "listMoves",
		Method:      http.MethodGet,
		Path:        "/api/v1/moves",
		Summary:     "List moves",
		Description: "Returns all moves, unfiltered. Use the feed endpoints for filtered views.",
		Tags:        []string{"Moves"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListMoves)

	huma.Register(s.api, huma.Operation{
		OperationID: "getMove",
		Method:      http.MethodGet,
		Path:        "/api/v1/moves/{id}",
		Summary:     "Get move",
		Description: "Returns a move by ID",
		Tags:        []string{"Moves"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetMove)

	huma.Register(s.api, huma.Operation{
		OperationID: "editMove",
		Method:      http.MethodPatch,
		Path:        "/api/v1/moves/{id}",
		Summary:     "Edit move",
		Description: "Updates move details (host only). Membership and capacity are not editable.",
		Tags:        []string{"Moves"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleEditMove)

	huma.Register(s.api, huma.Operation{
		OperationID: "cancelMove",
		Method:      http.MethodDelete,
		Path:        "/api/v1/moves/{id}",
		Summary:     "Cancel move",
		Description: "Deletes a move (host only)",
		Tags:        []string{"Moves"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCancelMove)

	huma.Register(s.api, huma.Operation{
		OperationID: "joinMove",
		Method:      http.MethodPost,
		Path:        "/api/v1/moves/{id}/join",
		Summary:     "Join move",
		Description: "Takes an attendee slot. The body may carry an answer to the host's signup prompt.",
		Tags:        []string{"Moves"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleJoinMove)

	huma.Register(s.api, huma.Operation{
		OperationID: "leaveMove",
		Method:      http.MethodPost,
		Path:        "/api/v1/moves/{id}/leave",
		Summary:     "Leave move",
		Description: "Gives up an attendee slot. The waitlist head, if any, is promoted into it.",
		Tags:        []string{"Moves"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleLeaveMove)

	huma.Register(s.api, huma.Operation{
		OperationID: "joinWaitlist",
		Method:      http.MethodPost,
		Path:        "/api/v1/moves/{id}/waitlist",
		Summary:     "Join waitlist",
		Description: "Queues for a full move. Positions are first-come, first-served.",
		Tags:        []string{"Moves"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleJoinWaitlist)

	huma.Register(s.api, huma.Operation{
		OperationID: "leaveWaitlist",
		Method:      http.MethodDelete,
		Path:        "/api/v1/moves/{id}/waitlist",
		Summary:     "Leave waitlist",
		Description: "Removes the authenticated user from the move's waitlist",
		Tags:        []string{"Moves"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleLeaveWaitlist)

	huma.Register(s.api, huma.Operation{
		OperationID: "addComment",
		Method:      http.MethodPost,
		Path:        "/api/v1/moves/{id}/comments",
		Summary:     "Add comment",
		Description: "Posts a comment on a move",
		Tags:        []string{"Moves"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAddComment)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteComment",
		Method:      http.MethodDelete,
		Path:        "/api/v1/moves/{id}/comments/{commentId}",
		Summary:     "Delete comment",
		Description: "Deletes a comment (author only)",
		Tags:        []string{"Moves"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteComment)
}

// === DTOs ===

// LocationRequest is the location part of create/edit requests. Free text is
// always required; a place ID upgrades it to a resolved place with
// coordinates.
type LocationRequest struct {
	Text    string `json:"text" validate:"required,max=200" doc:"Location as typed by the host"`
	PlaceID string `json:"place_id,omitempty" validate:"omitempty,max=64" doc:"Place ID from a predictions lookup"`
}

// CreateMoveRequest is the request body for creating a move.
type CreateMoveRequest struct {
	Title                        string          `json:"title" validate:"required,max=50" doc:"Move title"`
	Description                  string          `json:"description,omitempty" validate:"max=2000" doc:"Longer description"`
	Remarks                      string          `json:"remarks,omitempty" validate:"max=500" doc:"Extra remarks (what to bring, where to meet)"`
	Location                     LocationRequest `json:"location" doc:"Where the move happens"`
	Area                         string          `json:"area,omitempty" doc:"Campus area (north, south, downtown, other)"`
	ActivityType                 string          `json:"activity_type,omitempty" doc:"Activity type (food, study, sports, social, other)"`
	StartTime                    time.Time       `json:"start_time" validate:"required" doc:"Start time"`
	EndTime                      time.Time       `json:"end_time" validate:"required" doc:"End time, must be after start"`
	MaxParticipants              int             `json:"max_participants" validate:"required,gte=2,lte=50" doc:"Capacity including the host"`
	SignupPrompt                 string          `json:"signup_prompt,omitempty" validate:"max=200" doc:"Question shown to joiners"`
	SignupPromptRequiresResponse bool            `json:"signup_prompt_requires_response,omitempty" doc:"Whether joiners must answer the prompt"`
}

// CreateMoveInput wraps the create move request for Huma.
type CreateMoveInput struct {
	Authorization string `header:"Authorization"`
	Body          CreateMoveRequest
}

// PlaceResponse contains location data in API responses.
type PlaceResponse struct {
	Text      string   `json:"text" doc:"Location as typed by the host"`
	Name      string   `json:"name,omitempty" doc:"Resolved venue name"`
	URL       string   `json:"url,omitempty" doc:"Map link"`
	PlaceID   string   `json:"place_id,omitempty" doc:"Resolved place ID"`
	Latitude  *float64 `json:"latitude,omitempty" doc:"Latitude when resolved"`
	Longitude *float64 `json:"longitude,omitempty" doc:"Longitude when resolved"`
}

// CommentResponse contains a comment in API responses.
type CommentResponse struct {
	ID        string    `json:"id" doc:"Comment ID"`
	Author    string    `json:"author" doc:"Author display name"`
	Text      string    `json:"text" doc:"Comment text"`
	CreatedAt time.Time `json:"created_at" doc:"Post time"`
}

// SignupResponseEntry contains one attendee's prompt answer (host only).
type SignupResponseEntry struct {
	ID        string    `json:"id" doc:"Response ID"`
	Attendee  string    `json:"attendee" doc:"Attendee display name"`
	Response  string    `json:"response" doc:"Answer text"`
	CreatedAt time.Time `json:"created_at" doc:"Answer time"`
}

// MoveResponse contains move data in API responses. Status, spots, and the
// viewer-relative fields are computed at response time from the stored
// document.
type MoveResponse struct {
	ID                           string                `json:"id" doc:"Move ID"`
	Title                        string                `json:"title" doc:"Move title"`
	Description                  string                `json:"description,omitempty" doc:"Longer description"`
	Remarks                      string                `json:"remarks,omitempty" doc:"Extra remarks"`
	Location                     PlaceResponse         `json:"location" doc:"Where the move happens"`
	Area                         string                `json:"area" doc:"Campus area"`
	ActivityType                 string                `json:"activity_type" doc:"Activity type"`
	HostID                       string                `json:"host_id" doc:"Host user ID"`
	HostName                     string                `json:"host_name" doc:"Host display name"`
	Attendees                    []string              `json:"attendees" doc:"Attendee display names in join order"`
	MaxParticipants              int                   `json:"max_participants" doc:"Capacity including the host"`
	SpotsLeft                    int                   `json:"spots_left" doc:"Open attendee slots"`
	Waitlist                     []string              `json:"waitlist" doc:"Waitlist display names in queue order"`
	Status                       string                `json:"status" doc:"live | upcoming | past"`
	StartTime                    time.Time             `json:"start_time" doc:"Start time"`
	EndTime                      time.Time             `json:"end_time" doc:"End time"`
	CreatedAt                    time.Time             `json:"created_at" doc:"Creation time"`
	SignupPrompt                 string                `json:"signup_prompt,omitempty" doc:"Question shown to joiners"`
	SignupPromptRequiresResponse bool                  `json:"signup_prompt_requires_response,omitempty" doc:"Whether joiners must answer"`
	SignupResponses              []SignupResponseEntry `json:"signup_responses,omitempty" doc:"Prompt answers, visible to the host only"`
	Comments                     []CommentResponse     `json:"comments" doc:"Comments in post order"`
	IsHost                       bool                  `json:"is_host" doc:"Whether the viewer hosts this move"`
	IsAttending                  bool                  `json:"is_attending" doc:"Whether the viewer holds a slot"`
	WaitlistPosition             int                   `json:"waitlist_position,omitempty" doc:"Viewer's 1-based waitlist position, 0 when not queued"`
}

// MoveOutput wraps the move response for Huma.
type MoveOutput struct {
	Body MoveResponse
}

// ListMovesResponse contains a list of moves.
type ListMovesResponse struct {
	Moves []MoveResponse `json:"moves" doc:"Moves"`
}

// ListMovesOutput wraps the list moves response for Huma.
type ListMovesOutput struct {
	Body ListMovesResponse
}

// ListMovesInput contains parameters for listing moves.
type ListMovesInput struct {
	Authorization string `header:"Authorization"`
}

// GetMoveInput contains parameters for getting a move.
type GetMoveInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Move ID"`
}

// EditMoveRequest is the request body for editing a move. Absent fields are
// left alone.
type EditMoveRequest struct {
	Title        *string          `json:"title,omitempty" validate:"omitempty,max=50" doc:"New title"`
	Description  *string          `json:"description,omitempty" validate:"omitempty,max=2000" doc:"New description"`
	Remarks      *string          `json:"remarks,omitempty" validate:"omitempty,max=500" doc:"New remarks"`
	Location     *LocationRequest `json:"location,omitempty" doc:"New location"`
	Area         *string          `json:"area,omitempty" doc:"New campus area"`
	ActivityType *string          `json:"activity_type,omitempty" doc:"New activity type"`
	StartTime    *time.Time       `json:"start_time,omitempty" doc:"New start time"`
	EndTime      *time.Time       `json:"end_time,omitempty" doc:"New end time"`
}

// EditMoveInput wraps the edit move request for Huma.
type EditMoveInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Move ID"`
	Body          EditMoveRequest
}

// CancelMoveInput contains parameters for cancelling a move.
type CancelMoveInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Move ID"`
}

// JoinMoveRequest is the request body for joining a move.
type JoinMoveRequest struct {
	SignupResponse string `json:"signup_response,omitempty" validate:"max=500" doc:"Answer to the host's signup prompt"`
}

// JoinMoveInput wraps the join request for Huma.
type JoinMoveInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Move ID"`
	Body          JoinMoveRequest
}

// MoveMembershipInput contains parameters for leave and waitlist operations.
type MoveMembershipInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Move ID"`
}

// AddCommentRequest is the request body for posting a comment.
type AddCommentRequest struct {
	Text string `json:"text" validate:"required,max=1000" doc:"Comment text"`
}

// AddCommentInput wraps the add comment request for Huma.
type AddCommentInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Move ID"`
	Body          AddCommentRequest
}

// CommentOutput wraps a single comment response for Huma.
type CommentOutput struct {
	Body CommentResponse
}

// DeleteCommentInput contains parameters for deleting a comment.
type DeleteCommentInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Move ID"`
	CommentID     string `path:"commentId" doc:"Comment ID"`
}

// === Handlers ===

func (s *Server) handleCreateMove(ctx context.Context, input *CreateMoveInput) (*MoveOutput, error) {
	user, err := CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	req := service.CreateMoveRequest{
		Title:                        input.Body.Title,
		Description:                  input.Body.Description,
		Remarks:                      input.Body.Remarks,
		Location:                     s.resolveLocation(ctx, input.Body.Location),
		Area:                         input.Body.Area,
		ActivityType:                 input.Body.ActivityType,
		StartTime:                    input.Body.StartTime,
		EndTime:                      input.Body.EndTime,
		MaxParticipants:              input.Body.MaxParticipants,
		SignupPrompt:                 input.Body.SignupPrompt,
		SignupPromptRequiresResponse: input.Body.SignupPromptRequiresResponse,
	}

	move, err := s.services.Move.CreateMove(ctx, user, req)
	if err != nil {
		return nil, err
	}

	return &MoveOutput{Body: s.mapMoveResponse(move, user)}, nil
}

func (s *Server) handleListMoves(ctx context.Context, _ *ListMovesInput) (*ListMovesOutput, error) {
	user, err := CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	moves, err := s.services.Move.ListMoves(ctx)
	if err != nil {
		return nil, err
	}

	return &ListMovesOutput{Body: ListMovesResponse{Moves: s.mapMoveList(moves, user)}}, nil
}

func (s *Server) handleGetMove(ctx context.Context, input *GetMoveInput) (*MoveOutput, error) {
	user, err := CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	move, err := s.services.Move.GetMove(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &MoveOutput{Body: s.mapMoveResponse(move, user)}, nil
}

func (s *Server) handleEditMove(ctx context.Context, input *EditMoveInput) (*MoveOutput, error) {
	user, err := CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	req := service.EditMoveRequest{
		Title:        input.Body.Title,
		Description:  input.Body.Description,
		Remarks:      input.Body.Remarks,
		Area:         input.Body.Area,
		ActivityType: input.Body.ActivityType,
		StartTime:    input.Body.StartTime,
		EndTime:      input.Body.EndTime,
	}
	if input.Body.Location != nil {
		loc := s.resolveLocation(ctx, *input.Body.Location)
		req.Location = &loc
	}

	move, err := s.services.Move.EditMove(ctx, user, input.ID, req)
	if err != nil {
		return nil, err
	}

	return &MoveOutput{Body: s.mapMoveResponse(move, user)}, nil
}

func (s *Server) handleCancelMove(ctx context.Context, input *CancelMoveInput) (*MessageOutput, error) {
	user, err := CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Move.CancelMove(ctx, user, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Move cancelled"}}, nil
}

func (s *Server) handleJoinMove(ctx context.Context, input *JoinMoveInput) (*MoveOutput, error) {
	user, err := CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	move, err := s.services.Move.Join(ctx, user, input.ID, input.Body.SignupResponse)
	if err != nil {
		return nil, err
	}

	return &MoveOutput{Body: s.mapMoveResponse(move, user)}, nil
}

func (s *Server) handleLeaveMove(ctx context.Context, input *MoveMembershipInput) (*MoveOutput, error) {
	user, err := CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	move, err := s.services.Move.Leave(ctx, user, input.ID)
	if err != nil {
		return nil, err
	}

	return &MoveOutput{Body: s.mapMoveResponse(move, user)}, nil
}

func (s *Server) handleJoinWaitlist(ctx context.Context, input *MoveMembershipInput) (*MoveOutput, error) {
	user, err := CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	move, err := s.services.Move.JoinWaitlist(ctx, user, input.ID)
	if err != nil {
		return nil, err
	}

	return &MoveOutput{Body: s.mapMoveResponse(move, user)}, nil
}

func (s *Server) handleLeaveWaitlist(ctx context.Context, input *MoveMembershipInput) (*MoveOutput, error) {
	user, err := CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	move, err := s.services.Move.LeaveWaitlist(ctx, user, input.ID)
	if err != nil {
		return nil, err
	}

	return &MoveOutput{Body: s.mapMoveResponse(move, user)}, nil
}

func (s *Server) handleAddComment(ctx context.Context, input *AddCommentInput) (*CommentOutput, error) {
	user, err := CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	comment, err := s.services.Move.AddComment(ctx, user, input.ID, input.Body.Text)
	if err != nil {
		return nil, err
	}

	return &CommentOutput{Body: CommentResponse{
		ID:        comment.ID,
		Author:    comment.Author,
		Text:      comment.Text,
		CreatedAt: comment.CreatedAt,
	}}, nil
}

func (s *Server) handleDeleteComment(ctx context.Context, input *DeleteCommentInput) (*MessageOutput, error) {
	user, err := CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Move.DeleteComment(ctx, user, input.ID, input.CommentID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Comment deleted"}}, nil
}

// === Helpers ===

// resolveLocation upgrades a location to a resolved place when the request
// carries a place ID. Lookup failures degrade to the free text rather than
// blocking the move, since the text alone is a valid location.
func (s *Server) resolveLocation(ctx context.Context, loc LocationRequest) domain.Place {
	place := domain.Place{Text: loc.Text}
	if loc.PlaceID == "" {
		return place
	}

	resolved, err := s.services.Places.Resolve(ctx, loc.PlaceID)
	if err != nil {
		s.logger.Warn("place lookup failed, keeping free text",
			"place_id", loc.PlaceID,
			"error", err,
		)
		return place
	}

	resolved.Text = loc.Text
	return *resolved
}

// wireStatus renders a status as its wire token: live | upcoming | past.
func wireStatus(st domain.Status) string {
	switch st {
	case domain.StatusLive:
		return "live"
	case domain.StatusPast:
		return "past"
	default:
		return "upcoming"
	}
}

func (s *Server) mapMoveResponse(move *domain.Move, viewer *domain.User) MoveResponse {
	now := time.Now()

	resp := MoveResponse{
		ID:          move.ID,
		Title:       move.Title,
		Description: move.Description,
		Remarks:     move.Remarks,
		Location: PlaceResponse{
			Text:      move.Location.Text,
			Name:      move.Location.Name,
			URL:       move.Location.URL,
			PlaceID:   move.Location.PlaceID,
			Latitude:  move.Location.Latitude,
			Longitude: move.Location.Longitude,
		},
		Area:                         strings.ToLower(string(move.Area)),
		ActivityType:                 strings.ToLower(string(move.ActivityType)),
		HostID:                       move.HostID,
		HostName:                     move.HostName,
		Attendees:                    move.Attendees,
		MaxParticipants:              move.MaxParticipants,
		SpotsLeft:                    move.SpotsLeft(),
		Waitlist:                     move.Waitlist,
		Status:                       wireStatus(move.Status(now)),
		StartTime:                    move.StartTime,
		EndTime:                      move.EndTime,
		CreatedAt:                    move.CreatedAt,
		SignupPrompt:                 move.SignupPrompt,
		SignupPromptRequiresResponse: move.SignupPromptRequiresResponse,
		IsHost:                       move.IsHost(viewer.ID, viewer.DisplayName),
		IsAttending:                  move.HasAttendee(viewer.DisplayName),
		WaitlistPosition:             move.WaitlistPosition(viewer.DisplayName),
	}

	// Prompt answers are for the host's eyes only.
	if resp.IsHost {
		resp.SignupResponses = make([]SignupResponseEntry, len(move.SignupResponses))
		for i, r := range move.SignupResponses {
			resp.SignupResponses[i] = SignupResponseEntry{
				ID:        r.ID,
				Attendee:  r.Attendee,
				Response:  r.Response,
				CreatedAt: r.CreatedAt,
			}
		}
	}

	resp.Comments = make([]CommentResponse, len(move.Comments))
	for i, c := range move.Comments {
		resp.Comments[i] = CommentResponse{
			ID:        c.ID,
			Author:    c.Author,
			Text:      c.Text,
			CreatedAt: c.CreatedAt,
		}
	}

	return resp
}

func (s *Server) mapMoveList(moves []domain.Move, viewer *domain.User) []MoveResponse {
	resp := make([]MoveResponse, len(moves))
	for i := range moves {
		resp[i] = s.mapMoveResponse(&moves[i], viewer)
	}
	return resp
}
