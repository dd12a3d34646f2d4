package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCapabilitiesFor_SuperAdmin(t *testing.T) {
	caps := CapabilitiesFor(RoleSuperAdmin)

	// Exactly the full section set, no more, no fewer.
	assert.Len(t, caps, len(AllSections()))
	for _, s := range AllSections() {
		assert.True(t, caps.Has(s), "super admin should have %s", s)
	}
}

func TestCapabilitiesFor_Admin(t *testing.T) {
	caps := CapabilitiesFor(RoleAdmin)

	want := []Section{SectionDashboard, SectionBlog, SectionGallery, SectionCoachees}
	assert.Len(t, caps, len(want))
	for _, s := range want {
		assert.True(t, caps.Has(s), "admin should have %s", s)
	}

	for _, s := range []Section{SectionEvents, SectionCoaches, SectionAdmins} {
		assert.False(t, caps.Has(s), "admin must not have %s", s)
	}
}

func TestCapabilitiesFor_AdminIsStrictSubsetOfSuperAdmin(t *testing.T) {
	super := CapabilitiesFor(RoleSuperAdmin)
	admin := CapabilitiesFor(RoleAdmin)

	for s := range admin {
		assert.True(t, super.Has(s), "super admin missing admin section %s", s)
	}
	assert.Less(t, len(admin), len(super))
}

func TestCapabilitiesFor_UnknownRolesAreEmpty(t *testing.T) {
	assert.Empty(t, CapabilitiesFor(RoleGuest))
	assert.Empty(t, CapabilitiesFor(Role("editor")))
	assert.Empty(t, CapabilitiesFor(Role("")))
}

func TestCapabilitySet_SectionsPreservesDisplayOrder(t *testing.T) {
	caps := CapabilitiesFor(RoleSuperAdmin)
	assert.Equal(t, AllSections(), caps.Sections())

	adminSections := CapabilitiesFor(RoleAdmin).Sections()
	assert.Equal(t, []Section{SectionDashboard, SectionBlog, SectionGallery, SectionCoachees}, adminSections)
}

func TestRole_Valid(t *testing.T) {
	assert.True(t, RoleSuperAdmin.Valid())
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleGuest.Valid())
	assert.False(t, Role("root").Valid())
}

func TestSession_IsGuest(t *testing.T) {
	assert.True(t, Session{Role: RoleGuest}.IsGuest())
	assert.False(t, Session{Role: RoleAdmin}.IsGuest())
}
