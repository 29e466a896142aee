package http

import (
	"context"
	"net/http"
)

type contextKey string

const userIDKey contextKey = "user_id"

// UserIDMiddleware picks up the user identity set by the auth layer in
// front of this service. Real token validation happens at the edge,
// the service only trusts the forwarded header.
func UserIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get("X-User-ID")
		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Maintenance gates a route group behind a feature flag. Flagged
// sections answer 503 without touching their handlers.
func Maintenance(enabled bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if enabled {
				respondError(w, http.StatusServiceUnavailable, "maintenance", "this section is temporarily unavailable")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
