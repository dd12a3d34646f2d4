package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"sync"
	"time"

	domainauth "github.com/brightsteps/brightsteps-web/internal/domain/auth"
	"github.com/brightsteps/brightsteps-web/internal/ports"
)

// Each double satisfies its port.
var (
	_ ports.SessionStore = (*MemorySessionStore)(nil)
	_ ports.AuthProvider = (*MockAuthProvider)(nil)
	_ ports.RoleMapper   = (*StaticRoleMapper)(nil)
)

// MockAuthProvider simulates a credential provider for tests.
type MockAuthProvider struct {
	SignInFunc func(ctx context.Context, creds domainauth.Credentials) (domainauth.Identity, error)

	// Password and DefaultIdentity drive the default behavior when
	// SignInFunc is nil: matching password returns DefaultIdentity.
	Password        string
	DefaultIdentity domainauth.Identity

	mu        sync.Mutex
	callCount int
}

// NewMockAuthProvider creates a MockAuthProvider with sensible defaults.
func NewMockAuthProvider() *MockAuthProvider {
	return &MockAuthProvider{
		Password: "mock-password",
		DefaultIdentity: domainauth.Identity{
			UserID:      "mock-user-1",
			Email:       "mock.user@example.com",
			DisplayName: "Mock User",
			Groups:      []string{"admins"},
			ExpiresAt:   time.Now().Add(time.Hour),
		},
	}
}

// SignIn verifies the password against the configured one.
func (m *MockAuthProvider) SignIn(ctx context.Context, creds domainauth.Credentials) (domainauth.Identity, error) {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()

	if m.SignInFunc != nil {
		return m.SignInFunc(ctx, creds)
	}
	if creds.Password == "" || creds.Password != m.Password {
		return domainauth.Identity{}, domainauth.ErrInvalidCredentials
	}
	identity := m.DefaultIdentity
	if creds.Email != "" {
		identity.Email = creds.Email
	}
	return identity, nil
}

// CallCount reports how many times SignIn was invoked.
func (m *MockAuthProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// MemorySessionStore is an in-memory ports.SessionStore for tests.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]domainauth.Session

	// FailSave and FailGet inject errors when set.
	FailSave error
	FailGet  error
}

// NewMemorySessionStore creates an empty MemorySessionStore.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]domainauth.Session)}
}

// Save stores a session in memory.
func (s *MemorySessionStore) Save(_ context.Context, session domainauth.Session) error {
	if s.FailSave != nil {
		return s.FailSave
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	return nil
}

// Get retrieves a session, or ErrSessionNotFound.
func (s *MemorySessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	if s.FailGet != nil {
		return domainauth.Session{}, s.FailGet
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return domainauth.Session{}, ErrSessionNotFound
	}
	return session, nil
}

// Delete removes a session. Unknown IDs are a no-op.
func (s *MemorySessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Len reports the number of stored sessions.
func (s *MemorySessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// ErrSessionNotFound is returned by MemorySessionStore.Get for unknown IDs.
var ErrSessionNotFound = errSessionNotFound{}

type errSessionNotFound struct{}

func (errSessionNotFound) Error() string { return "session not found" }

// StaticRoleMapper maps group names to roles from a fixed table.
type StaticRoleMapper struct {
	// GroupRoles maps a group name to the role it grants. The strongest
	// matching role wins.
	GroupRoles map[string]domainauth.Role
}

// NewStaticRoleMapper creates a mapper with the default admin groups.
func NewStaticRoleMapper() *StaticRoleMapper {
	return &StaticRoleMapper{GroupRoles: map[string]domainauth.Role{
		"super_admins": domainauth.RoleSuperAdmin,
		"admins":       domainauth.RoleAdmin,
	}}
}

// Map returns the strongest role granted by any of the groups.
func (m *StaticRoleMapper) Map(groups []string) domainauth.Role {
	role := domainauth.RoleGuest
	for _, g := range groups {
		mapped, ok := m.GroupRoles[g]
		if !ok {
			continue
		}
		if mapped == domainauth.RoleSuperAdmin {
			return domainauth.RoleSuperAdmin
		}
		if mapped == domainauth.RoleAdmin {
			role = domainauth.RoleAdmin
		}
	}
	return role
}
