package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/campusmoves/campusmoves-server/internal/domain"
	"github.com/campusmoves/campusmoves-server/internal/service"
)

// ctxKey is the type for context keys to avoid collisions.
type ctxKey string

// currentUserKey is the context key for the authenticated user.
const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the authenticated user from context.
// Returns 401 error if the request carried no valid token.
func CurrentUser(ctx context.Context) (*domain.User, error) {
	user, ok := ctx.Value(currentUserKey).(*domain.User)
	if !ok || user == nil {
		return nil, huma.Error401Unauthorized("Authentication required")
	}
	return user, nil
}

// setCurrentUser stores the authenticated user in context.
func setCurrentUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, currentUserKey, user)
}

// authMiddleware returns a middleware that validates Bearer tokens and stores
// the authenticated user in context. If no token is present or the token is
// invalid, the request continues without a user in context; handlers use
// CurrentUser to check authentication. Membership operations key on the
// user's display name, so the full user record goes into context rather than
// just the ID.
func authMiddleware(auth *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				next.ServeHTTP(w, r)
				return
			}

			token := authHeader[7:]
			user, _, err := auth.VerifyAccessToken(r.Context(), token)
			if err != nil {
				// Invalid token - continue without user (handler will reject if auth required)
				next.ServeHTTP(w, r)
				return
			}

			ctx := setCurrentUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
