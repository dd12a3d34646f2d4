package httpx

import (
	"context"

	domainauth "github.com/brightsteps/brightsteps-web/internal/domain/auth"
)

// sessionKey is the shared context key for the authenticated session. All
// middleware and handlers use this single key.
type sessionKey struct{}

// SetSessionInContext returns a child context carrying the session. A nil
// session leaves ctx unchanged.
func SetSessionInContext(ctx context.Context, session *domainauth.Session) context.Context {
	if session == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, session)
}

// GetUserSessionFromContext returns the session and whether one is present.
func GetUserSessionFromContext(ctx context.Context) (*domainauth.Session, bool) {
	if session, ok := ctx.Value(sessionKey{}).(*domainauth.Session); ok && session != nil {
		return session, true
	}
	return nil, false
}

// GetSessionFromContext returns the session or nil.
func GetSessionFromContext(ctx context.Context) *domainauth.Session {
	s, _ := GetUserSessionFromContext(ctx)
	return s
}

// IsGuestUser reports whether the request is unauthenticated or running under
// a guest session.
func IsGuestUser(ctx context.Context) bool {
	s, ok := GetUserSessionFromContext(ctx)
	return !ok || s.IsGuest()
}
