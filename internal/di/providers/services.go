package providers

import (
	"github.com/samber/do/v2"

	"github.com/campusmoves/campusmoves-server/internal/auth"
	"github.com/campusmoves/campusmoves-server/internal/config"
	"github.com/campusmoves/campusmoves-server/internal/logger"
	"github.com/campusmoves/campusmoves-server/internal/places"
	"github.com/campusmoves/campusmoves-server/internal/service"
)

// ProvideSessionService provides the session service.
func ProvideSessionService(i do.Injector) (*service.SessionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSessionService(storeHandle.Store, tokenService, log.Logger), nil
}

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	sessionService := do.MustInvoke[*service.SessionService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, tokenService, sessionService, log.Logger), nil
}

// ProvideMoveService provides the move lifecycle and membership service.
func ProvideMoveService(i do.Injector) (*service.MoveService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	savedHandle := do.MustInvoke[*SavedSetHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewMoveService(storeHandle.Store, savedHandle.Store, sseHandle.Manager, log.Logger), nil
}

// ProvideFeedService provides the feed projection service.
func ProvideFeedService(i do.Injector) (*service.FeedService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	savedHandle := do.MustInvoke[*SavedSetHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewFeedService(storeHandle.Store, savedHandle.Store, log.Logger), nil
}

// ProvideSavedService provides the saved-moves service.
func ProvideSavedService(i do.Injector) (*service.SavedService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	savedHandle := do.MustInvoke[*SavedSetHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSavedService(storeHandle.Store, savedHandle.Store, log.Logger), nil
}

// ProvidePlacesClient provides the place lookup client.
func ProvidePlacesClient(i do.Injector) (*places.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	client := places.NewClient(log.Logger)
	client.SetBaseURL(cfg.Places.BaseURL)

	return client, nil
}
