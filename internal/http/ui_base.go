package httpx

import (
	"context"
	"html"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	domainauth "github.com/brightsteps/brightsteps-web/internal/domain/auth"
	"github.com/brightsteps/brightsteps-web/internal/domain/model"
	"github.com/brightsteps/brightsteps-web/internal/http/ui/viewmodel"
	"github.com/brightsteps/brightsteps-web/internal/service"
)

const errMsgFixBelow = "Please fix the errors below."

// BlogContentService is a minimal interface for UI needs.
type BlogContentService interface {
	List(ctx context.Context, opts model.BlogPostsListOptions) ([]*model.BlogPost, error)
	ListRendered(ctx context.Context, opts model.BlogPostsListOptions) ([]*service.RenderedPost, error)
	GetByID(ctx context.Context, id string) (*model.BlogPost, error)
	GetRenderedBySlug(ctx context.Context, slug string) (*service.RenderedPost, error)
	Create(ctx context.Context, req *model.CreateBlogPostRequest) (*model.BlogPost, error)
	Update(ctx context.Context, id string, req model.UpdateBlogPostRequest) (*model.BlogPost, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// GalleryContentService is a minimal interface for UI needs.
type GalleryContentService interface {
	List(ctx context.Context, limit, offset int) ([]*model.GalleryImage, error)
	GetByID(ctx context.Context, id string) (*model.GalleryImage, error)
	Create(ctx context.Context, req *model.CreateGalleryImageRequest) (*model.GalleryImage, error)
	Update(ctx context.Context, id string, req model.UpdateGalleryImageRequest) (*model.GalleryImage, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// CoachesService is a minimal interface for the Coaches UI and the public team page.
type CoachesService interface {
	List(ctx context.Context, opts model.CoachesListOptions) ([]*model.Coach, error)
	ListActive(ctx context.Context) ([]*model.Coach, error)
	GetByID(ctx context.Context, id string) (*model.Coach, error)
	Create(ctx context.Context, req *model.CreateCoachRequest) (*model.Coach, error)
	Update(ctx context.Context, id string, req model.UpdateCoachRequest) (*model.Coach, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// CoacheesService is a minimal interface for the coachee assignment UI.
type CoacheesService interface {
	List(ctx context.Context, opts model.CoacheesListOptions) ([]*model.Coachee, error)
	GetByID(ctx context.Context, id string) (*model.Coachee, error)
	Create(ctx context.Context, req *model.CreateCoacheeRequest) (*model.Coachee, error)
	Update(ctx context.Context, id string, req model.UpdateCoacheeRequest) (*model.Coachee, error)
	AssignCoach(ctx context.Context, id string, coachID *string) (*model.Coachee, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// ApplicationsService is a minimal interface for mentor application review.
type ApplicationsService interface {
	Submit(ctx context.Context, req *model.CreateMentorApplicationRequest) (*model.MentorApplication, error)
	List(ctx context.Context, limit, offset int) ([]*model.MentorApplication, error)
	Count(ctx context.Context) (int, error)
	Approve(ctx context.Context, id string) (*model.Coach, error)
	Reject(ctx context.Context, id string) (bool, error)
}

// EventsContentService is a minimal interface for the Events UI and public events page.
type EventsContentService interface {
	List(ctx context.Context, opts model.EventsListOptions) ([]*model.Event, error)
	ListUpcomingPublic(ctx context.Context) ([]*model.Event, error)
	GetByID(ctx context.Context, id string) (*model.Event, error)
	Create(ctx context.Context, req *model.CreateEventRequest) (*model.Event, error)
	Update(ctx context.Context, id string, req model.UpdateEventRequest) (*model.Event, error)
	Delete(ctx context.Context, id string) (bool, error)
	RSVP(ctx context.Context, req *model.CreateEventRSVPRequest) (*model.EventRSVP, error)
	ListRSVPs(ctx context.Context, eventID string) ([]*model.EventRSVP, error)
	RemoveRSVP(ctx context.Context, id string) (bool, error)
}

// AdminAccountsService is a minimal interface for the admin management UI.
type AdminAccountsService interface {
	List(ctx context.Context) ([]*model.AdminAccount, error)
	GetByID(ctx context.Context, id string) (*model.AdminAccount, error)
	Create(ctx context.Context, req *model.CreateAdminAccountRequest) (*model.AdminAccount, error)
	Update(ctx context.Context, actorID, id string, req model.UpdateAdminAccountRequest) (*model.AdminAccount, error)
	Delete(ctx context.Context, actorID, id string) (bool, error)
}

// StatsService provides the aggregated counters shown on the dashboard.
type StatsService interface {
	Stats(ctx context.Context) (*service.DashboardStats, error)
}

// Compile-time interface assertions to ensure concrete services satisfy their UI interfaces.
var (
	_ BlogContentService    = (*service.BlogService)(nil)
	_ GalleryContentService = (*service.GalleryService)(nil)
	_ CoachesService        = (*service.CoachService)(nil)
	_ CoacheesService       = (*service.CoacheeService)(nil)
	_ ApplicationsService   = (*service.ApplicationService)(nil)
	_ EventsContentService  = (*service.EventService)(nil)
	_ AdminAccountsService  = (*service.AdminService)(nil)
	_ StatsService          = (*service.DashboardService)(nil)
)

// UIHandlers serves browser-facing routes, public and admin alike.
type UIHandlers struct {
	T            *TemplateRenderer
	BlogSvc      BlogContentService
	GallerySvc   GalleryContentService
	CoachSvc     CoachesService
	CoacheeSvc   CoacheesService
	AppSvc       ApplicationsService
	EventSvc     EventsContentService
	AdminSvc     AdminAccountsService
	DashboardSvc StatsService
	IsDev        bool // Development mode flag for enhanced error reporting
	Logger       *slog.Logger
}

// logger returns the configured logger or falls back to slog.Default().
func (h *UIHandlers) logger() *slog.Logger {
	if h == nil || h.Logger == nil {
		return slog.Default()
	}
	return h.Logger
}

const defaultPageSize = 10

// getPageParams reads page and page_size from the query, defaulting to
// page 1 and ten rows, with page_size capped at 100.
func getPageParams(q url.Values) (int, int) {
	page := 1
	if n, err := strconv.Atoi(q.Get("page")); err == nil && n > 0 {
		page = n
	}
	pageSize := defaultPageSize
	if n, err := strconv.Atoi(q.Get("page_size")); err == nil && n > 0 && n <= 100 {
		pageSize = n
	}
	return page, pageSize
}

// pageOpts is the page/page_size pair list views paginate with.
type pageOpts struct {
	Page     int
	PageSize int
}

// LimitAndOffset returns the fetch window for a page, requesting one row
// beyond the page size so list views can tell whether a next page exists.
func (p pageOpts) LimitAndOffset() (int, int) {
	page := max(p.Page, 1)
	pageSize := p.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return pageSize + 1, (page - 1) * pageSize
}

// deleteHandlerOpts describes one resource's delete flow. Only Delete is
// mandatory; the hooks override the default 404/500/redirect responses.
type deleteHandlerOpts struct {
	Delete       func(ctx context.Context, id string) (bool, error)
	RedirectPath string

	ServiceAvailable func() bool
	OnNotFound       func(http.ResponseWriter, *http.Request)
	OnSuccess        func(http.ResponseWriter, *http.Request, bool)
	OnError          func(http.ResponseWriter, *http.Request, error)
}

// handleDelete runs the delete flow every resource shares.
func (h *UIHandlers) handleDelete(w http.ResponseWriter, r *http.Request, opts deleteHandlerOpts) {
	id := r.PathValue("id")
	switch {
	case id == "", opts.ServiceAvailable != nil && !opts.ServiceAvailable():
		if opts.OnNotFound != nil {
			opts.OnNotFound(w, r)
			return
		}
		h.NotFound(w, r)
		return
	}

	deleted, err := opts.Delete(r.Context(), id)
	switch {
	case err != nil && opts.OnError != nil:
		opts.OnError(w, r, err)
	case err != nil:
		http.Error(w, "Unable to delete resource.", http.StatusInternalServerError)
	case opts.OnSuccess != nil:
		opts.OnSuccess(w, r, deleted)
	case opts.RedirectPath != "":
		HTMX(w).Redirect(opts.RedirectPath)
	}
}

// triggerToast emits the showToast HX-Trigger payload the frontend listens
// for. Empty messages are dropped.
func triggerToast(w http.ResponseWriter, message, toastType string) {
	if w == nil || strings.TrimSpace(message) == "" {
		return
	}
	payload := map[string]any{
		"message": message,
		"type":    strings.TrimSpace(toastType),
	}
	HTMX(w).Trigger("showToast", payload)
}

// FormFrameOpts names the inputs prepareFormFrame normalizes into form data.
type FormFrameOpts struct {
	Data        map[string]any
	R           *http.Request
	MetaForMode func(FormMode) PageMeta
	DefaultMode FormMode
}

// prepareFormFrame hydrates the fields every form template expects: an
// Errors map, a resolved Mode string, and the base layout keys. It returns
// the data map and the mode for further customization.
func prepareFormFrame(opts FormFrameOpts) (map[string]any, FormMode) {
	data := opts.Data
	if data == nil {
		data = map[string]any{}
	}
	if data["Errors"] == nil {
		data["Errors"] = map[string]string{}
	}
	mode := resolveFormMode(data["Mode"], opts.DefaultMode)
	data["Mode"] = string(mode)
	if opts.R != nil && opts.MetaForMode != nil {
		maps.Copy(data, basePageData(opts.R, opts.MetaForMode(mode)))
	}
	return data, mode
}

// resolveFormMode accepts Mode stored either as a FormMode or a plain string.
func resolveFormMode(raw any, fallback FormMode) FormMode {
	var mode FormMode
	switch v := raw.(type) {
	case FormMode:
		mode = v
	case string:
		mode = FormMode(strings.TrimSpace(v))
	}
	if mode == "" {
		return fallback
	}
	return mode
}

// buildPageURL rewrites basePath's query with the given page and page_size,
// carrying over the remaining parameters. Transient htmx params and
// whitespace-only values are dropped.
func buildPageURL(basePath string, q url.Values, p pageOpts) string {
	carried := make(url.Values, len(q))
	for key, values := range q {
		if strings.HasPrefix(key, "hx-") || strings.HasPrefix(key, "hx_") {
			continue
		}
		for _, v := range values {
			if strings.TrimSpace(v) != "" {
				carried.Add(key, v)
			}
		}
	}
	carried.Set("page", strconv.Itoa(p.Page))
	carried.Set("page_size", strconv.Itoa(p.PageSize))
	return basePath + "?" + carried.Encode()
}

// PageMeta carries the document title, header text and nav slug for a page.
type PageMeta struct {
	Title       string
	PageTitle   string
	CurrentPage string
}

// navEntries lists label/path/icon metadata per admin section, in display order.
// Which entries a given user sees is decided by CapabilitiesFor, never here.
//
//nolint:gochecknoglobals // static read-only nav metadata
var navEntries = map[domainauth.Section]viewmodel.NavSection{
	domainauth.SectionDashboard: {ID: "dashboard", Label: "Dashboard", Path: "/dashboard", Icon: "grid"},
	domainauth.SectionBlog:      {ID: "blog", Label: "Blog", Path: "/dashboard/blog", Icon: "pen"},
	domainauth.SectionGallery:   {ID: "gallery", Label: "Gallery", Path: "/dashboard/gallery", Icon: "image"},
	domainauth.SectionCoachees:  {ID: "coachees", Label: "Coachees", Path: "/dashboard/coachees", Icon: "users"},
	domainauth.SectionEvents:    {ID: "events", Label: "Events", Path: "/dashboard/events", Icon: "calendar"},
	domainauth.SectionCoaches:   {ID: "coaches", Label: "Coaches", Path: "/dashboard/coaches", Icon: "star"},
	domainauth.SectionAdmins:    {ID: "admins", Label: "Admins", Path: "/dashboard/admins", Icon: "shield"},
}

// navForRole materializes the navigation entries the role may visit.
func navForRole(role domainauth.Role) []viewmodel.NavSection {
	caps := domainauth.CapabilitiesFor(role)
	sections := caps.Sections()
	nav := make([]viewmodel.NavSection, 0, len(sections))
	for _, s := range sections {
		if entry, ok := navEntries[s]; ok {
			nav = append(nav, entry)
		}
	}
	return nav
}

// buildLayout assembles the chrome viewmodel from page metadata and whatever
// session the request carries.
func buildLayout(r *http.Request, meta PageMeta) viewmodel.Layout {
	layout := viewmodel.Layout{
		CSRFToken:   GetCSRFToken(r),
		Title:       meta.Title,
		PageTitle:   meta.PageTitle,
		CurrentPage: meta.CurrentPage,
	}

	session := GetSessionFromContext(r.Context())
	if session == nil {
		return layout
	}
	layout.IsAuthenticated = true
	layout.Nav = navForRole(session.Role)
	layout.User = &viewmodel.User{
		Email:       session.Email,
		DisplayName: session.DisplayName,
		Role:        string(session.Role),
	}
	return layout
}

// basePageData flattens the layout viewmodel into the map templates consume.
func basePageData(r *http.Request, meta PageMeta) map[string]any {
	layout := buildLayout(r, meta)
	data := map[string]any{
		"Title":           layout.Title,
		"PageTitle":       layout.PageTitle,
		"CurrentPage":     layout.CurrentPage,
		"IsAuthenticated": layout.IsAuthenticated,
		"Nav":             layout.Nav,
	}
	if layout.CSRFToken != "" {
		data["CSRFToken"] = layout.CSRFToken
	}
	if layout.User != nil {
		data["User"] = layout.User
	}
	return data
}

// PageSpec pairs page metadata with an optional content fetch.
type PageSpec struct {
	Meta  PageMeta
	Fetch func(ctx context.Context, data map[string]any) error
}

// pageData assembles the base data map and runs the spec's fetch, marking the
// map with a generic error banner when the fetch fails.
func (h *UIHandlers) pageData(r *http.Request, spec PageSpec) map[string]any {
	data := basePageData(r, spec.Meta)
	if spec.Fetch == nil {
		return data
	}
	if err := spec.Fetch(r.Context(), data); err != nil {
		data["Error"] = true
		if _, ok := data["ErrorMessage"]; !ok {
			data["ErrorMessage"] = "An unexpected error occurred. Please try again."
		}
	}
	return data
}

// Page builds base data, optionally fetches content data, and renders inside
// the admin chrome.
func (h *UIHandlers) Page(w http.ResponseWriter, r *http.Request, spec PageSpec) {
	h.renderDashboardPage(w, r, h.pageData(r, spec))
}

// SitePage builds base data, optionally fetches content data, and renders
// inside the public site chrome.
func (h *UIHandlers) SitePage(w http.ResponseWriter, r *http.Request, spec PageSpec) {
	h.renderSitePage(w, r, h.pageData(r, spec))
}

// renderSitePage renders a public page, answering htmx requests with a partial.
func (h *UIHandlers) renderSitePage(w http.ResponseWriter, r *http.Request, data any) {
	if WantsPartial(r) {
		h.renderPartialContent(w, r, data)
		return
	}
	if err := h.T.RenderSite(w, r, data); err != nil {
		h.logAndRenderTemplateError(w, r, err, "site page render")
	}
}

// renderDashboardPage renders an admin page, answering htmx requests with a partial.
func (h *UIHandlers) renderDashboardPage(w http.ResponseWriter, r *http.Request, data any) {
	if WantsPartial(r) {
		h.renderPartialContent(w, r, data)
		return
	}
	if err := h.T.RenderFull(w, r, data); err != nil {
		h.logAndRenderTemplateError(w, r, err, "full page render")
	}
}

// renderPartialContent renders the content fragment plus out-of-band header updates.
func (h *UIHandlers) renderPartialContent(w http.ResponseWriter, r *http.Request, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	// nav:activate tells the frontend which nav entry to highlight.
	SetHXTrigger(w, "nav:activate", map[string]string{"path": r.URL.Path})

	layout := extractLayoutInfo(data)
	if !h.writePartialChrome(w, layout) {
		return
	}

	if err := h.T.t.ExecuteTemplate(w, ContentTemplateFor(layout.CurrentPage), data); err != nil {
		h.logAndRenderTemplateError(w, r, err, "partial content render")
	}
}

// writePartialChrome emits the <title> element (so htmx updates document.title
// on partial swaps) and an out-of-band header <h1>. Reports whether the write
// succeeded.
func (h *UIHandlers) writePartialChrome(w http.ResponseWriter, layout viewmodel.Layout) bool {
	chrome := `<title>` + html.EscapeString(layout.Title) + `</title>` +
		`<h1 id="header-title" class="header-title" hx-swap-oob="outerHTML">` +
		html.EscapeString(layout.PageTitle) + `</h1>`
	if _, err := io.WriteString(w, chrome); err != nil {
		h.logger().Error("failed to write partial page chrome", "error", err)
		return false
	}
	return true
}

// extractLayoutInfo recovers layout metadata from whatever shape the handler
// passed: a LayoutProvider, a Layout value or pointer, or the plain data map.
func extractLayoutInfo(data any) viewmodel.Layout {
	switch v := data.(type) {
	case viewmodel.LayoutProvider:
		if layout := v.LayoutData(); layout != nil {
			return *layout
		}
	case viewmodel.Layout:
		return v
	case *viewmodel.Layout:
		if v != nil {
			return *v
		}
	case map[string]any:
		var layout viewmodel.Layout
		layout.Title, _ = v["Title"].(string)
		layout.PageTitle, _ = v["PageTitle"].(string)
		layout.CurrentPage, _ = v["CurrentPage"].(string)
		return layout
	}
	return viewmodel.Layout{}
}

// logAndRenderTemplateError logs template errors and renders them in dev mode.
func (h *UIHandlers) logAndRenderTemplateError(w http.ResponseWriter, r *http.Request, err error, context string) {
	log := h.logger().With("context", context, "path", r.URL.Path, "method", r.Method)
	log.Error("template rendering failed", "error", err)

	if !h.IsDev {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	// Dev mode surfaces the template error in the page itself.
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	page := `
		<div style="padding: 20px; background: #fee; border: 2px solid #c33; border-radius: 4px; margin: 20px; font-family: monospace;">
			<h2 style="color: #c33; margin-top: 0;">Template Rendering Error</h2>
			<p><strong>Context:</strong> ` + html.EscapeString(context) + `</p>
			<p><strong>Path:</strong> ` + html.EscapeString(r.URL.Path) + `</p>
			<p><strong>Error:</strong></p>
			<pre style="background: #fff; padding: 10px; border: 1px solid #ccc; overflow-x: auto;">` + html.EscapeString(err.Error()) + `</pre>
		</div>
	`
	if _, writeErr := io.WriteString(w, page); writeErr != nil {
		log.Error("failed to write template error response", "error", writeErr)
	}
}
