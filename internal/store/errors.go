package store

import apperrors "github.com/campusmoves/campusmoves-server/internal/errors"

// Sentinel errors returned by the store. They carry the application error
// codes so handlers can map them straight to HTTP responses.
var (
	ErrMoveNotFound    = apperrors.NotFound("move not found")
	ErrDuplicateMove   = apperrors.Conflict("move already exists")
	ErrUserNotFound    = apperrors.NotFound("user not found")
	ErrDuplicateEmail  = apperrors.Conflict("email already registered")
	ErrSessionNotFound = apperrors.NotFound("session not found")
	ErrCommentNotFound = apperrors.NotFound("comment not found")
)
