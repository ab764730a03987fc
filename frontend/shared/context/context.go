package context

import (
	"context"

	"userhub/models"
)

type sessionKey struct{}

// NewContextWithSession stores the hydrated session for the rest of the request.
func NewContextWithSession(ctx context.Context, session models.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

// GetSessionFromContext returns the hydrated session, which carries the backend token in clear.
func GetSessionFromContext(ctx context.Context) (models.Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(models.Session)
	return s, ok
}

// IsLoggedIn is false when the request has no session or the session has no token.
func IsLoggedIn(ctx context.Context) bool {
	s, ok := GetSessionFromContext(ctx)
	return ok && s.IsLoggedIn()
}

// CurrentUser returns the identity on the request session, or false when there is none.
func CurrentUser(ctx context.Context) (models.CurrentUser, bool) {
	s, ok := GetSessionFromContext(ctx)
	if !ok || !s.IsLoggedIn() {
		return models.CurrentUser{}, false
	}
	return s.CurrentUser(), true
}
