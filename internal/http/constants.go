package httpx

// CurrentPage identifiers shared by UI handlers, navigation and the
// template lookup below.
const (
	// Public site pages.
	PageHome     = "home"
	PageContact  = "contact"
	PageBlog     = "blog"
	PageBlogPost = "blog-post"
	PageGallery  = "gallery"
	PageEvents   = "events"
	PageApply    = "apply" // mentor application form

	// About section variants.
	PageAbout        = "about"
	PageAboutMission = "about-mission"
	PageAboutTeam    = "about-team"
	PageAboutImpact  = "about-impact"

	// Program pages.
	PageProgramMentoring   = "program-mentoring"
	PageProgramTutoring    = "program-tutoring"
	PageProgramSports      = "program-sports"
	PageProgramArts        = "program-arts"
	PageProgramLeadership  = "program-leadership"
	PageProgramSummerCamp  = "program-summer-camp"
	PageProgramCollegePrep = "program-college-prep"

	// Admin panel pages.
	PageLogin     = "login"
	PageDashboard = "dashboard"

	PageAdminBlog     = "admin-blog"
	PageAdminBlogForm = "admin-blog-form"

	PageAdminGallery     = "admin-gallery"
	PageAdminGalleryForm = "admin-gallery-form"

	PageAdminCoachees    = "admin-coachees"
	PageAdminCoacheeForm = "admin-coachee-form"

	PageAdminEvents          = "admin-events"
	PageAdminEventForm       = "admin-event-form"
	PageAdminEventAttendance = "admin-event-attendance"

	PageAdminCoaches      = "admin-coaches"
	PageAdminCoachForm    = "admin-coach-form"
	PageAdminApplications = "admin-applications"

	PageAdminAdmins    = "admin-admins"
	PageAdminAdminForm = "admin-admin-form"
)

// Template directory locations, relative to where the process runs.
const (
	TemplatePathFromRoot = "frontend/templates"       // project root
	TemplatePathFromTest = "../../frontend/templates" // internal/http test files
)

// FormMode distinguishes create from edit rendering in shared form templates.
type FormMode string

const (
	FormModeCreate FormMode = "create"
	FormModeEdit   FormMode = "edit"
)

// contentTemplates maps a CurrentPage identifier to its content template.
//
//nolint:gochecknoglobals // static read-only lookup
var contentTemplates = map[string]string{
	PageHome:     "home-content",
	PageContact:  "contact-content",
	PageBlog:     "blog-content",
	PageBlogPost: "blog-post-content",
	PageGallery:  "gallery-content",
	PageEvents:   "events-content",
	PageApply:    "apply-content",

	PageAbout:        "about-content",
	PageAboutMission: "about-mission-content",
	PageAboutTeam:    "about-team-content",
	PageAboutImpact:  "about-impact-content",

	PageProgramMentoring:   "program-mentoring-content",
	PageProgramTutoring:    "program-tutoring-content",
	PageProgramSports:      "program-sports-content",
	PageProgramArts:        "program-arts-content",
	PageProgramLeadership:  "program-leadership-content",
	PageProgramSummerCamp:  "program-summer-camp-content",
	PageProgramCollegePrep: "program-college-prep-content",

	PageLogin:     "login-content",
	PageDashboard: "dashboard-content",

	PageAdminBlog:     "admin-blog-content",
	PageAdminBlogForm: "admin-blog-form-content",

	PageAdminGallery:     "admin-gallery-content",
	PageAdminGalleryForm: "admin-gallery-form-content",

	PageAdminCoachees:    "admin-coachees-content",
	PageAdminCoacheeForm: "admin-coachee-form-content",

	PageAdminEvents:          "admin-events-content",
	PageAdminEventForm:       "admin-event-form-content",
	PageAdminEventAttendance: "admin-event-attendance-content",

	PageAdminCoaches:      "admin-coaches-content",
	PageAdminCoachForm:    "admin-coach-form-content",
	PageAdminApplications: "admin-applications-content",

	PageAdminAdmins:    "admin-admins-content",
	PageAdminAdminForm: "admin-admin-form-content",
}

// ContentTemplateMap exposes the page-to-template mapping, mostly for tests
// that assert every page has a template.
func ContentTemplateMap() map[string]string { return contentTemplates }

// ContentTemplateFor returns the content template for a CurrentPage value,
// falling back to home-content for unknown pages.
func ContentTemplateFor(currentPage string) string {
	if name, ok := contentTemplates[currentPage]; ok {
		return name
	}
	return "home-content"
}
