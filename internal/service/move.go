package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/campusmoves/campusmoves-server/internal/domain"
	domainerrors "github.com/campusmoves/campusmoves-server/internal/errors"
	"github.com/campusmoves/campusmoves-server/internal/id"
	"github.com/campusmoves/campusmoves-server/internal/sse"
	"github.com/campusmoves/campusmoves-server/internal/store"
	"github.com/campusmoves/campusmoves-server/internal/store/savedset"
)

// MoveService orchestrates move lifecycle and membership with host enforcement
// and SSE events. Every mutation follows the same path: load the latest
// document, validate against it, write back in one store transaction. The
// store broadcasts the new snapshot after each successful write.
type MoveService struct {
	store      *store.Store
	saved      *savedset.Store
	sseManager *sse.Manager
	logger     *slog.Logger
}

// NewMoveService creates a new move service.
func NewMoveService(store *store.Store, saved *savedset.Store, sseManager *sse.Manager, logger *slog.Logger) *MoveService {
	return &MoveService{
		store:      store,
		saved:      saved,
		sseManager: sseManager,
		logger:     logger,
	}
}

// CreateMoveRequest contains the fields a host supplies when posting a move.
// The location is either raw text or a place resolved by the handler.
type CreateMoveRequest struct {
	Title           string       `json:"title" validate:"required,max=50"`
	Description     string       `json:"description" validate:"max=2000"`
	Remarks         string       `json:"remarks" validate:"max=500"`
	Location        domain.Place `json:"location"`
	Area            string       `json:"area"`
	ActivityType    string       `json:"activity_type"`
	StartTime       time.Time    `json:"start_time" validate:"required"`
	EndTime         time.Time    `json:"end_time" validate:"required"`
	MaxParticipants int          `json:"max_participants" validate:"required,gte=2,lte=50"`

	SignupPrompt                 string `json:"signup_prompt,omitempty" validate:"max=200"`
	SignupPromptRequiresResponse bool   `json:"signup_prompt_requires_response,omitempty"`
}

// EditMoveRequest carries a host's partial edit. Nil fields are left alone.
// Membership, comments, capacity, and the host are never editable.
type EditMoveRequest struct {
	Title        *string       `json:"title,omitempty" validate:"omitempty,max=50"`
	Description  *string       `json:"description,omitempty" validate:"omitempty,max=2000"`
	Remarks      *string       `json:"remarks,omitempty" validate:"omitempty,max=500"`
	Location     *domain.Place `json:"location,omitempty"`
	Area         *string       `json:"area,omitempty"`
	ActivityType *string       `json:"activity_type,omitempty"`
	StartTime    *time.Time    `json:"start_time,omitempty"`
	EndTime      *time.Time    `json:"end_time,omitempty"`
}

// CreateMove validates and stores a new move. The host takes the first
// attendee slot.
func (s *MoveService) CreateMove(ctx context.Context, host *domain.User, req CreateMoveRequest) (*domain.Move, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Title) == "" {
		return nil, domainerrors.Validation("title cannot be blank")
	}
	if strings.TrimSpace(req.Location.Text) == "" {
		return nil, domainerrors.Validation("location is required")
	}
	if !req.StartTime.After(time.Now()) {
		return nil, domainerrors.Validation("start_time must be in the future")
	}
	if !req.EndTime.After(req.StartTime) {
		return nil, domainerrors.Validation("end_time must be after start_time")
	}

	moveID, err := id.Generate("move")
	if err != nil {
		return nil, fmt.Errorf("generate move ID: %w", err)
	}

	move := &domain.Move{
		ID:              moveID,
		Title:           strings.TrimSpace(req.Title),
		Description:     req.Description,
		Remarks:         req.Remarks,
		Location:        req.Location,
		Area:            domain.NormalizeArea(req.Area),
		ActivityType:    domain.NormalizeActivityType(req.ActivityType),
		HostID:          host.ID,
		HostName:        host.DisplayName,
		Attendees:       []string{host.DisplayName},
		MaxParticipants: req.MaxParticipants,
		Waitlist:        []string{},
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		CreatedAt:       time.Now(),

		SignupPrompt:                 req.SignupPrompt,
		SignupPromptRequiresResponse: req.SignupPromptRequiresResponse,
		Comments:                     []domain.Comment{},
	}

	if err := s.store.CreateMove(ctx, move); err != nil {
		return nil, fmt.Errorf("create move: %w", err)
	}

	s.logger.Info("move created",
		"move_id", moveID,
		"host_id", host.ID,
		"title", move.Title,
	)

	return move, nil
}

// GetMove retrieves a move by ID.
func (s *MoveService) GetMove(ctx context.Context, id string) (*domain.Move, error) {
	return s.store.GetMove(ctx, id)
}

// ListMoves returns every stored move.
func (s *MoveService) ListMoves(ctx context.Context) ([]domain.Move, error) {
	return s.store.ListMoves(ctx)
}

// EditMove applies a partial edit. Requires hosting.
func (s *MoveService) EditMove(ctx context.Context, user *domain.User, moveID string, req EditMoveRequest) (*domain.Move, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	move, err := s.store.GetMove(ctx, moveID)
	if err != nil {
		return nil, err
	}

	if !move.IsHost(user.ID, user.DisplayName) {
		return nil, domainerrors.Forbidden("only the host can edit this move")
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, domainerrors.Validation("title cannot be blank")
		}
		move.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		move.Description = *req.Description
	}
	if req.Remarks != nil {
		move.Remarks = *req.Remarks
	}
	if req.Location != nil {
		if strings.TrimSpace(req.Location.Text) == "" {
			return nil, domainerrors.Validation("location is required")
		}
		move.Location = *req.Location
	}
	if req.Area != nil {
		move.Area = domain.NormalizeArea(*req.Area)
	}
	if req.ActivityType != nil {
		move.ActivityType = domain.NormalizeActivityType(*req.ActivityType)
	}
	if req.StartTime != nil {
		move.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		move.EndTime = *req.EndTime
	}
	if !move.EndTime.After(move.StartTime) {
		return nil, domainerrors.Validation("end_time must be after start_time")
	}

	if err := s.store.UpdateMove(ctx, move); err != nil {
		return nil, fmt.Errorf("update move: %w", err)
	}

	s.logger.Info("move edited",
		"move_id", moveID,
		"host_id", user.ID,
	)

	return move, nil
}

// CancelMove hard-deletes a move. Requires hosting. Members are not migrated
// anywhere; the deletion event is their notice.
func (s *MoveService) CancelMove(ctx context.Context, user *domain.User, moveID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	move, err := s.store.GetMove(ctx, moveID)
	if err != nil {
		return err
	}

	if !move.IsHost(user.ID, user.DisplayName) {
		return domainerrors.Forbidden("only the host can cancel this move")
	}

	if err := s.store.DeleteMove(ctx, moveID); err != nil {
		return fmt.Errorf("delete move: %w", err)
	}

	// Drop stale bookmarks pointing at the deleted move.
	if err := s.saved.PruneMove(ctx, moveID); err != nil {
		s.logger.Warn("failed to prune saved entries for deleted move",
			"move_id", moveID,
			"error", err,
		)
	}

	s.logger.Info("move canceled",
		"move_id", moveID,
		"host_id", user.ID,
	)

	return nil
}

// Join takes an attendee slot for the user. Joining a move you already attend
// succeeds without mutating. A full move rejects with a capacity code so the
// caller can offer the waitlist instead.
func (s *MoveService) Join(ctx context.Context, user *domain.User, moveID, signupResponse string) (*domain.Move, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	move, err := s.store.GetMove(ctx, moveID)
	if err != nil {
		return nil, err
	}

	if move.Status(time.Now()) == domain.StatusPast {
		return nil, domainerrors.Precondition("this move has already ended")
	}

	if move.HasAttendee(user.DisplayName) {
		// Already in; joining twice is a no-op.
		return move, nil
	}

	if move.IsFull() {
		return nil, domainerrors.MoveFull("this move is at capacity")
	}

	signupResponse = strings.TrimSpace(signupResponse)
	if move.RequiresSignupResponse() && signupResponse == "" {
		return nil, domainerrors.Validation("this move requires an answer to the signup prompt")
	}

	if signupResponse != "" && move.SignupPrompt != "" {
		respID, err := id.Generate("resp")
		if err != nil {
			return nil, fmt.Errorf("generate response ID: %w", err)
		}
		move.RecordSignupResponse(domain.SignupResponse{
			ID:        respID,
			Attendee:  user.DisplayName,
			Response:  signupResponse,
			CreatedAt: time.Now(),
		})
	}

	move.AddAttendee(user.DisplayName)

	if err := s.store.UpdateMove(ctx, move); err != nil {
		return nil, fmt.Errorf("update move: %w", err)
	}

	s.logger.Info("user joined move",
		"move_id", moveID,
		"user_id", user.ID,
	)

	return move, nil
}

// Leave gives up the user's attendee slot. The head of the waitlist, if any,
// is promoted into the freed slot; exactly one promotion per leave.
func (s *MoveService) Leave(ctx context.Context, user *domain.User, moveID string) (*domain.Move, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	move, err := s.store.GetMove(ctx, moveID)
	if err != nil {
		return nil, err
	}

	if move.IsHost(user.ID, user.DisplayName) {
		return nil, domainerrors.Precondition("the host cannot leave; cancel the move instead")
	}

	if !move.RemoveAttendee(user.DisplayName) {
		return nil, domainerrors.Precondition("you are not attending this move")
	}

	promoted, wasPromoted := move.PromoteNextWaiter()

	if err := s.store.UpdateMove(ctx, move); err != nil {
		return nil, fmt.Errorf("update move: %w", err)
	}

	s.logger.Info("user left move",
		"move_id", moveID,
		"user_id", user.ID,
	)

	if wasPromoted {
		s.notifyPromotion(ctx, move, promoted)
	}

	return move, nil
}

// JoinWaitlist puts the user at the tail of the waitlist. Only full moves
// take waiters; a move with open slots rejects so the caller joins directly.
func (s *MoveService) JoinWaitlist(ctx context.Context, user *domain.User, moveID string) (*domain.Move, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	move, err := s.store.GetMove(ctx, moveID)
	if err != nil {
		return nil, err
	}

	if move.Status(time.Now()) == domain.StatusPast {
		return nil, domainerrors.Precondition("this move has already ended")
	}

	if move.HasAttendee(user.DisplayName) {
		return nil, domainerrors.Precondition("you already attend this move")
	}

	if move.OnWaitlist(user.DisplayName) {
		return nil, domainerrors.Precondition("you are already on the waitlist")
	}

	if !move.IsFull() {
		return nil, domainerrors.Precondition("this move has open spots; join it directly")
	}

	move.AddToWaitlist(user.DisplayName)

	if err := s.store.UpdateMove(ctx, move); err != nil {
		return nil, fmt.Errorf("update move: %w", err)
	}

	s.logger.Info("user joined waitlist",
		"move_id", moveID,
		"user_id", user.ID,
		"position", move.WaitlistPosition(user.DisplayName),
	)

	return move, nil
}

// LeaveWaitlist removes the user from the waitlist, preserving everyone
// else's relative order.
func (s *MoveService) LeaveWaitlist(ctx context.Context, user *domain.User, moveID string) (*domain.Move, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	move, err := s.store.GetMove(ctx, moveID)
	if err != nil {
		return nil, err
	}

	if !move.RemoveFromWaitlist(user.DisplayName) {
		return nil, domainerrors.Precondition("you are not on the waitlist")
	}

	if err := s.store.UpdateMove(ctx, move); err != nil {
		return nil, fmt.Errorf("update move: %w", err)
	}

	s.logger.Info("user left waitlist",
		"move_id", moveID,
		"user_id", user.ID,
	)

	return move, nil
}

// AddComment appends a comment to a move. Any signed-in user may comment.
func (s *MoveService) AddComment(ctx context.Context, user *domain.User, moveID, text string) (*domain.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domainerrors.Validation("comment cannot be empty")
	}

	move, err := s.store.GetMove(ctx, moveID)
	if err != nil {
		return nil, err
	}

	commentID, err := id.Generate("comment")
	if err != nil {
		return nil, fmt.Errorf("generate comment ID: %w", err)
	}

	comment := domain.Comment{
		ID:        commentID,
		Author:    user.DisplayName,
		Text:      text,
		CreatedAt: time.Now(),
	}
	move.AppendComment(comment)

	if err := s.store.UpdateMove(ctx, move); err != nil {
		return nil, fmt.Errorf("update move: %w", err)
	}

	s.logger.Info("comment added",
		"move_id", moveID,
		"comment_id", commentID,
		"user_id", user.ID,
	)

	return &comment, nil
}

// DeleteComment removes a comment. Only its author may delete it.
func (s *MoveService) DeleteComment(ctx context.Context, user *domain.User, moveID, commentID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	move, err := s.store.GetMove(ctx, moveID)
	if err != nil {
		return err
	}

	comment, ok := move.FindComment(commentID)
	if !ok {
		return store.ErrCommentNotFound
	}

	if comment.Author != user.DisplayName {
		return domainerrors.Forbidden("only the author can delete this comment")
	}

	move.RemoveComment(commentID)

	if err := s.store.UpdateMove(ctx, move); err != nil {
		return fmt.Errorf("update move: %w", err)
	}

	s.logger.Info("comment deleted",
		"move_id", moveID,
		"comment_id", commentID,
		"user_id", user.ID,
	)

	return nil
}

// notifyPromotion tells a promoted waiter they now hold a slot. Waitlist
// entries are display names, so the event is scoped to the matching account
// when the name resolves to exactly one user, and broadcast otherwise.
func (s *MoveService) notifyPromotion(ctx context.Context, move *domain.Move, promotedName string) {
	event := sse.NewWaitlistPromotedEvent(move.ID, move.Title, promotedName)

	promotedUser, err := s.store.FindUserByDisplayName(ctx, promotedName)
	if err == nil {
		s.sseManager.EmitToUser(promotedUser.ID, event)
	} else {
		s.sseManager.Emit(event)
	}

	s.logger.Info("waitlist member promoted",
		"move_id", move.ID,
		"promoted", promotedName,
	)
}
