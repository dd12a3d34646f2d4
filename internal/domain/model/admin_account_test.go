package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/brightsteps/brightsteps-web/internal/domain/auth"
)

func TestCreateAdminAccountRequest_Validate(t *testing.T) {
	req := CreateAdminAccountRequest{
		Email:       " Staff@BrightSteps.org ",
		DisplayName: "Staff Member",
		Role:        domainauth.RoleAdmin,
		Password:    "long-enough-pw",
	}
	require.NoError(t, req.Validate())
	assert.Equal(t, "staff@brightsteps.org", req.Email)

	bad := req
	bad.Role = domainauth.RoleGuest
	assert.Error(t, bad.Validate())

	bad = req
	bad.Password = "short"
	assert.Error(t, bad.Validate())

	bad = req
	bad.Email = "not-an-email"
	assert.Error(t, bad.Validate())

	bad = req
	bad.DisplayName = "   "
	assert.Error(t, bad.Validate())
}

func TestUpdateAdminAccountRequest_Validate(t *testing.T) {
	assert.Error(t, (&UpdateAdminAccountRequest{}).Validate())

	role := domainauth.RoleSuperAdmin
	require.NoError(t, (&UpdateAdminAccountRequest{Role: &role}).Validate())

	guest := domainauth.RoleGuest
	assert.Error(t, (&UpdateAdminAccountRequest{Role: &guest}).Validate())

	pw := "short"
	assert.Error(t, (&UpdateAdminAccountRequest{Password: &pw}).Validate())

	active := false
	require.NoError(t, (&UpdateAdminAccountRequest{Active: &active}).Validate())
}

func TestEventFull(t *testing.T) {
	assert.False(t, Event{Capacity: 0, RSVPCount: 100}.Full())
	assert.False(t, Event{Capacity: 10, RSVPCount: 9}.Full())
	assert.True(t, Event{Capacity: 10, RSVPCount: 10}.Full())
}
