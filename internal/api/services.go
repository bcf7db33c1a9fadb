package api

import (
	"github.com/campusmoves/campusmoves-server/internal/places"
	"github.com/campusmoves/campusmoves-server/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Auth    *service.AuthService
	Session *service.SessionService
	Move    *service.MoveService
	Feed    *service.FeedService
	Saved   *service.SavedService
	Search  *service.SearchService
	Places  *places.Client
}
