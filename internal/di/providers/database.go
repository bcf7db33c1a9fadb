package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/campusmoves/campusmoves-server/internal/config"
	"github.com/campusmoves/campusmoves-server/internal/logger"
	"github.com/campusmoves/campusmoves-server/internal/sse"
	"github.com/campusmoves/campusmoves-server/internal/store"
	"github.com/campusmoves/campusmoves-server/internal/store/savedset"
)

// SSEManagerHandle wraps the SSE manager with its context for lifecycle management.
type SSEManagerHandle struct {
	*sse.Manager
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *SSEManagerHandle) Shutdown() error {
	h.cancel()
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Manager.Shutdown(ctx)
}

// ProvideSSEManager provides the server-sent events manager.
func ProvideSSEManager(i do.Injector) (*SSEManagerHandle, error) {
	log := do.MustInvoke[*logger.Logger](i)

	manager := sse.NewManager(log.Logger)

	// Start in background
	ctx, cancel := context.WithCancel(context.Background())
	go manager.Start(ctx)

	log.Info("SSE manager started")

	return &SSEManagerHandle{
		Manager: manager,
		cancel:  cancel,
	}, nil
}

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the move and user document store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)

	dbPath := cfg.MovesPath()
	db, err := store.New(dbPath, log.Logger, sseHandle.Manager)
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized", "path", dbPath)

	return &StoreHandle{Store: db}, nil
}

// SavedSetHandle wraps the saved-moves database with shutdown capability.
type SavedSetHandle struct {
	*savedset.Store
}

// Shutdown implements do.Shutdownable.
func (h *SavedSetHandle) Shutdown() error {
	return h.Close()
}

// ProvideSavedSet provides the per-user saved-moves database.
func ProvideSavedSet(i do.Injector) (*SavedSetHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	db, err := savedset.Open(cfg.SavedSetPath(), log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Saved set initialized", "path", cfg.SavedSetPath())

	return &SavedSetHandle{Store: db}, nil
}
