package middleware

import (
	"context"
	"net/http"

	"github.com/mhalloran/golfsync/internal/api/apierr"
	"github.com/mhalloran/golfsync/internal/auth"
	"github.com/mhalloran/golfsync/internal/model"
)

type contextKey string

const userContextKey contextKey = "user"

// Auth requires a signed-in device session and injects the user into the
// request context. The server fronts one device's stores, so the session
// is the auth provider's current user rather than a per-request token.
func Auth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := authService.CurrentUser(r.Context())
			if user == nil {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}
			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUser returns the authenticated user from the request context.
func GetUser(ctx context.Context) *model.User {
	user, _ := ctx.Value(userContextKey).(*model.User)
	return user
}

// MustGetUser returns the authenticated user or panics.
func MustGetUser(ctx context.Context) *model.User {
	user := GetUser(ctx)
	if user == nil {
		panic("no user in context - auth middleware not applied?")
	}
	return user
}
