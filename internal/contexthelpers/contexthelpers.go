// Package contexthelpers stores and retrieves request-scoped values shared
// between middleware and handlers.
package contexthelpers

import (
	"context"
	"net/http"
)

type contextKey string

const (
	isAuthenticatedContextKey      = contextKey("isAuthenticated")
	authenticatedAthleteContextKey = contextKey("authenticatedAthleteID")
	currentPathContextKey          = contextKey("currentPath")
)

// AuthenticateContext marks the request as authenticated for the given athlete.
func AuthenticateContext(r *http.Request, athleteID int64) *http.Request {
	return r.WithContext(WithAuthenticatedAthlete(r.Context(), athleteID))
}

// WithAuthenticatedAthlete marks a bare context as authenticated for the
// given athlete.
func WithAuthenticatedAthlete(ctx context.Context, athleteID int64) context.Context {
	ctx = context.WithValue(ctx, isAuthenticatedContextKey, true)
	return context.WithValue(ctx, authenticatedAthleteContextKey, athleteID)
}

// SetCurrentPath records the request path for logging and error reporting.
func SetCurrentPath(r *http.Request, currentPath string) *http.Request {
	ctx := context.WithValue(r.Context(), currentPathContextKey, currentPath)
	return r.WithContext(ctx)
}

// IsAuthenticated reports whether the request carries an authenticated athlete.
func IsAuthenticated(ctx context.Context) bool {
	isAuthenticated, ok := ctx.Value(isAuthenticatedContextKey).(bool)
	if !ok {
		return false
	}
	return isAuthenticated
}

// AuthenticatedAthleteID returns the athlete id established by the session
// middleware, or zero when the request is unauthenticated.
func AuthenticatedAthleteID(ctx context.Context) int64 {
	athleteID, ok := ctx.Value(authenticatedAthleteContextKey).(int64)
	if !ok {
		return 0
	}
	return athleteID
}

// CurrentPath returns the request path recorded by the routing middleware.
func CurrentPath(ctx context.Context) string {
	currentPath, ok := ctx.Value(currentPathContextKey).(string)
	if !ok {
		return ""
	}
	return currentPath
}
