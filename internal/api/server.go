// Package api provides the HTTP API server and handlers for the CampusMoves application.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/campusmoves/campusmoves-server/internal/config"
	"github.com/campusmoves/campusmoves-server/internal/ratelimit"
	"github.com/campusmoves/campusmoves-server/internal/sse"
	"github.com/campusmoves/campusmoves-server/internal/store"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store       *store.Store
	services    *Services
	router      *chi.Mux
	api         huma.API
	sseManager  *sse.Manager
	sseHandler  *sse.Handler
	authLimiter *ratelimit.KeyedRateLimiter
	logger      *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(st *store.Store, services *Services, sseManager *sse.Manager, cfg *config.Config, logger *slog.Logger) *Server {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	router.Use(authMiddleware(services.Auth))

	humaConfig := huma.DefaultConfig(cfg.Server.Name, "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}

	humaAPI := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s := &Server{
		store:      st,
		services:   services,
		router:     router,
		api:        humaAPI,
		sseManager: sseManager,
		logger:     logger,
		// Login and refresh attempts share one per-IP bucket.
		authLimiter: ratelimit.New(cfg.Auth.LoginRateLimit, cfg.Auth.LoginBurst),
	}

	// The auth middleware has already resolved the user by the time the
	// stream handler runs, so the resolver only reads the context.
	s.sseHandler = sse.NewHandler(sseManager, logger, func(r *http.Request) string {
		if user, err := CurrentUser(r.Context()); err == nil {
			return user.ID
		}
		return ""
	})

	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerUserRoutes()
	s.registerMoveRoutes()
	s.registerFeedRoutes()
	s.registerSavedRoutes()
	s.registerSearchRoutes()
	s.registerPlacesRoutes()

	// SSE is a long-lived streaming response, which does not fit huma's
	// request/response model. Mounted directly on the router instead.
	router.Get("/api/v1/sync/stream", s.handleSyncStream)

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close releases server-held resources.
func (s *Server) Close() {
	s.authLimiter.Stop()
}

// handleSyncStream requires authentication before handing the connection to
// the SSE handler, so every stream is scoped to a user.
func (s *Server) handleSyncStream(w http.ResponseWriter, r *http.Request) {
	if _, err := CurrentUser(r.Context()); err != nil {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}
	s.sseHandler.ServeHTTP(w, r)
}
