package auth

// Section identifies a navigable area of the admin panel.
type Section string

const (
	SectionDashboard Section = "dashboard"
	SectionBlog      Section = "blog"
	SectionGallery   Section = "gallery"
	SectionCoachees  Section = "coachees"
	SectionEvents    Section = "events"
	SectionCoaches   Section = "coaches"
	SectionAdmins    Section = "admins"
)

// AllSections lists every admin section in display order.
// The nav menu iterates this slice and filters by capability.
func AllSections() []Section {
	return []Section{
		SectionDashboard,
		SectionBlog,
		SectionGallery,
		SectionCoachees,
		SectionEvents,
		SectionCoaches,
		SectionAdmins,
	}
}

// CapabilitySet is the set of admin sections a role may navigate to.
type CapabilitySet map[Section]bool

// Has reports whether the section is part of the capability set.
func (c CapabilitySet) Has(s Section) bool { return c[s] }

// Sections returns the permitted sections in display order.
func (c CapabilitySet) Sections() []Section {
	out := make([]Section, 0, len(c))
	for _, s := range AllSections() {
		if c[s] {
			out = append(out, s)
		}
	}
	return out
}

// CapabilitiesFor maps a role to its capability set. It is a pure function
// and the single source of truth for the section policy: both menu rendering
// and route gating consult it. Roles receive fixed sets, never partial or
// custom grants. Unknown roles (including guest) resolve to an empty set.
func CapabilitiesFor(role Role) CapabilitySet {
	switch role {
	case RoleSuperAdmin:
		return CapabilitySet{
			SectionDashboard: true,
			SectionBlog:      true,
			SectionGallery:   true,
			SectionCoachees:  true,
			SectionEvents:    true,
			SectionCoaches:   true,
			SectionAdmins:    true,
		}
	case RoleAdmin:
		return CapabilitySet{
			SectionDashboard: true,
			SectionBlog:      true,
			SectionGallery:   true,
			SectionCoachees:  true,
		}
	default:
		return CapabilitySet{}
	}
}
