package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"

	domainauth "github.com/brightsteps/brightsteps-web/internal/domain/auth"
)

// AuthProvider verifies credentials against an identity backend and returns
// the authenticated identity. Implementations must return ErrInvalidCredentials
// (possibly wrapped) when the email/password pair is rejected, so callers can
// distinguish bad credentials from provider outages.
type AuthProvider interface {
	SignIn(ctx context.Context, creds domainauth.Credentials) (domainauth.Identity, error)
}

// SessionStore keeps admin sessions between requests. Get reports missing
// or expired sessions with an error; callers treat any Get failure as an
// unauthenticated request.
type SessionStore interface {
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Save(ctx context.Context, sess domainauth.Session) error
	Delete(ctx context.Context, id string) error
}

// RoleMapper turns the group claims on an identity into an application role.
type RoleMapper interface {
	Map(groups []string) domainauth.Role
}
