package viewmodel

// User represents the authenticated user context exposed to templates.
type User struct {
	Email       string
	DisplayName string
	Role        string
}

// NavSection is one entry of the admin navigation menu. Only sections the
// current role is permitted to visit are materialized into the layout.
type NavSection struct {
	ID    string // section identifier (matches route prefix)
	Label string
	Path  string
	Icon  string
}

// Layout captures shared chrome metadata (titles, navigation state, auth flags).
type Layout struct {
	Title           string
	PageTitle       string
	CurrentPage     string
	CSRFToken       string
	IsAuthenticated bool
	User            *User
	// Nav holds the permitted admin sections, in display order. Sections the
	// role may not navigate to are absent, not rendered disabled.
	Nav []NavSection
}

// LayoutProvider exposes layout metadata for renderer utilities.
type LayoutProvider interface {
	LayoutData() *Layout
}
