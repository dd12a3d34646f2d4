package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	domainauth "github.com/brightsteps/brightsteps-web/internal/domain/auth"
	"github.com/brightsteps/brightsteps-web/internal/ports"
)

// AuthServiceOptions names the collaborators an AuthService is built from.
type AuthServiceOptions struct {
	Sessions ports.SessionStore
	Provider ports.AuthProvider
	Roles    ports.RoleMapper
}

// AuthService runs the sign-in and sign-out flows: it checks credentials
// against the provider, turns group claims into a role, and owns the
// session lifecycle.
type AuthService struct {
	sessions ports.SessionStore
	provider ports.AuthProvider
	roles    ports.RoleMapper

	// logins collapses concurrent sign-in attempts for the same email into
	// one provider round trip.
	logins singleflight.Group
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	return &AuthService{sessions: opts.Sessions, provider: opts.Provider, roles: opts.Roles}
}

// LoginResult contains the session created by a successful login.
type LoginResult struct {
	Session domainauth.Session
}

// Login verifies credentials with the provider, maps the identity's groups
// to a role, and persists a new session. Credential failures come back as
// domainauth.ErrInvalidCredentials; callers render those inline instead of
// failing the page.
func (s *AuthService) Login(ctx context.Context, creds domainauth.Credentials) (*LoginResult, error) {
	creds.Email = strings.TrimSpace(creds.Email)
	if creds.Email == "" || creds.Password == "" {
		return nil, domainauth.ErrInvalidCredentials
	}

	key := strings.ToLower(creds.Email) + "\x00" + creds.Password
	v, err, _ := s.logins.Do(key, func() (any, error) {
		return s.login(ctx, creds)
	})
	if err != nil {
		if errors.Is(err, domainauth.ErrInvalidCredentials) {
			return nil, domainauth.ErrInvalidCredentials
		}
		return nil, err
	}
	return v.(*LoginResult), nil
}

func (s *AuthService) login(ctx context.Context, creds domainauth.Credentials) (*LoginResult, error) {
	identity, err := s.provider.SignIn(ctx, creds)
	if err != nil {
		if errors.Is(err, domainauth.ErrInvalidCredentials) {
			return nil, err
		}
		return nil, fmt.Errorf("sign in: %w", err)
	}

	role := s.roles.Map(identity.Groups)
	if role == domainauth.RoleGuest {
		// Authenticated but not in any admin group; no session for them.
		return nil, domainauth.ErrInvalidCredentials
	}

	session := domainauth.Session{
		ID:          uuid.NewString(),
		UserID:      identity.UserID,
		Email:       identity.Email,
		DisplayName: identity.DisplayName,
		Role:        role,
		ExpiresAt:   identity.ExpiresAt,
	}
	if saveErr := s.sessions.Save(ctx, session); saveErr != nil {
		return nil, fmt.Errorf("save session: %w", saveErr)
	}

	return &LoginResult{Session: session}, nil
}

var errSessionExpired = errors.New("session expired")

// GetSession retrieves a session by ID, deleting it if expired.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, errors.New("session ID is required")
	}
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if !time.Now().After(session.ExpiresAt) {
		return &session, nil
	}

	// Expired: drop the stored copy before reporting.
	if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
		return nil, errors.Join(errSessionExpired, fmt.Errorf("delete session: %w", deleteErr))
	}
	return nil, errSessionExpired
}

// Logout removes a session. Logging out an already-removed or empty session
// is a no-op.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
