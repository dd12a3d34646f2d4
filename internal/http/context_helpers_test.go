package httpx

import (
	"context"
	"testing"

	domainauth "github.com/brightsteps/brightsteps-web/internal/domain/auth"
	"github.com/stretchr/testify/assert"
)

func ctxWithRole(role domainauth.Role) context.Context {
	sess := &domainauth.Session{ID: "sess-1", Role: role}
	return SetSessionInContext(context.Background(), sess)
}

func TestGetUserSessionFromContext(t *testing.T) {
	s, ok := GetUserSessionFromContext(context.Background())
	assert.False(t, ok)
	assert.Nil(t, s)

	want := &domainauth.Session{ID: "sess-1", Role: domainauth.RoleAdmin}
	s, ok = GetUserSessionFromContext(SetSessionInContext(context.Background(), want))
	assert.True(t, ok)
	assert.Equal(t, want, s)
}

func TestIsGuestUser(t *testing.T) {
	assert.True(t, IsGuestUser(context.Background()), "no session counts as guest")
	assert.True(t, IsGuestUser(ctxWithRole(domainauth.RoleGuest)))
	assert.False(t, IsGuestUser(ctxWithRole(domainauth.RoleAdmin)))
	assert.False(t, IsGuestUser(ctxWithRole(domainauth.RoleSuperAdmin)))
}
