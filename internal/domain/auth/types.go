package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import (
	"errors"
	"time"
)

// ErrInvalidCredentials is returned by auth providers when the submitted
// email/password pair is rejected. Callers match with errors.Is.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Role represents an application's authorization role.
// Keep string form for easy persistence and cookies.
// Valid values are defined as constants below.
type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin"
	RoleGuest      Role = "guest"
)

// Valid reports whether the role is one of the known role values.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleGuest:
		return true
	default:
		return false
	}
}

// Credentials carries the email/password pair submitted on the login form.
type Credentials struct {
	Email    string
	Password string
}

// Identity represents the authenticated principal returned by an auth provider.
// Adapters map provider-specific account records or claims into this shape.
type Identity struct {
	UserID      string // stable user identifier (account id or sub claim)
	Email       string
	DisplayName string
	Groups      []string
	ExpiresAt   time.Time // absolute expiry for the authenticated identity
}

// Session is the server-side record we persist for an authenticated admin.
// ID is an opaque session identifier (e.g., random URL-safe string).
type Session struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        Role      `json:"role"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// IsGuest returns true if the session role is guest.
func (s Session) IsGuest() bool { return s.Role == RoleGuest }
