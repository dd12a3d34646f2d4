package httpx

import (
	"bytes"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	brightsteps "github.com/brightsteps/brightsteps-web"
	domainauth "github.com/brightsteps/brightsteps-web/internal/domain/auth"
	httpassets "github.com/brightsteps/brightsteps-web/internal/http/assets"
	"github.com/brightsteps/brightsteps-web/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Blog         *service.BlogService
	Gallery      *service.GalleryService
	Coaches      *service.CoachService
	Coachees     *service.CoacheeService
	Applications *service.ApplicationService
	Events       *service.EventService
	Admins       *service.AdminService
	Dashboard    *service.DashboardService
	Auth         *service.AuthService
	CookieDomain string
	// Configuration
	IsDev  bool         // Development mode flag for hot reloading, etc.
	Logger *slog.Logger // Logger for template and HTTP errors (optional)
}

// NewRouter creates and configures a new HTTP router with browser middleware.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	// Concrete service pointers are assigned into interface fields only when
	// non-nil; a typed nil would slip past the nil checks guarding each route.
	apiHandlers := &ContentAPIHandlers{}
	if services.Blog != nil {
		apiHandlers.BlogSvc = services.Blog
	}
	if services.Gallery != nil {
		apiHandlers.GallerySvc = services.Gallery
	}
	if services.Events != nil {
		apiHandlers.EventSvc = services.Events
	}
	registerContentAPIRoutes(mux, apiHandlers, services.Auth)
	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	// Static assets at /static
	// Dev mode: serve from disk for hot reloading
	// Prod mode: serve from embedded FS
	mux.Handle("GET /static/", staticHandler(services.IsDev))

	// UI routes with template renderer
	uiHandlers := setupUIHandlers(services)
	if uiHandlers != nil {
		cfg := uiRouteConfig{Auth: services.Auth, CookieDomain: services.CookieDomain}
		registerUIRoutes(mux, uiHandlers, cfg)

		if services.Auth != nil {
			authHandlers := &AuthHandlers{
				Svc:          services.Auth,
				T:            uiHandlers.T,
				CookieDomain: services.CookieDomain,
				Logger:       services.Logger,
			}
			registerAuthRoutes(mux, authHandlers, cfg)
		}
	}

	// 404s fall through to the UI error page; browser detection tags the
	// request before any routing happens.
	return BrowserDetection()(&notFoundHandler{mux: mux, uiHandlers: uiHandlers})
}

// assetEnv gathers the template filesystem, critical CSS filesystem, and
// asset resolver for one serving mode.
type assetEnv struct {
	templates   fs.FS
	criticalCSS fs.FS
	resolver    *AssetResolver
}

// manifestOnDisk is where the asset pipeline writes the manifest, relative to
// the project root.
var manifestOnDisk = filepath.Join("frontend", "static", "manifest.json")

// devAssetEnv reads everything from disk so edits show up without a rebuild.
func devAssetEnv() assetEnv {
	return assetEnv{
		templates:   os.DirFS(TemplatePathFromRoot),
		criticalCSS: os.DirFS("frontend/public"),
		resolver:    diskResolver(),
	}
}

// prodAssetEnv serves from the embedded filesystems, falling back to disk
// when a sub-filesystem cannot be built.
func prodAssetEnv() assetEnv {
	var env assetEnv

	templates, err := fs.Sub(brightsteps.TemplateFS, "frontend/templates")
	if err != nil {
		log.Printf("failed to create sub-filesystem for templates: %v; falling back to disk", err)
		templates = os.DirFS(TemplatePathFromRoot)
	}
	env.templates = templates

	staticSub, err := fs.Sub(brightsteps.StaticFS, "frontend/static")
	if err != nil {
		log.Printf("failed to create sub-filesystem for static assets: %v", err)
		env.resolver = diskResolver()
		return env
	}
	env.criticalCSS = staticSub

	resolver, err := httpassets.NewAssetResolverFromFS(staticSub, "manifest.json")
	if err != nil {
		log.Printf("failed to load asset manifest from embedded FS: %v", err)
		resolver = diskResolver()
	}
	env.resolver = resolver
	return env
}

// diskResolver loads the asset manifest from disk, degrading to logical
// asset names when it is missing.
func diskResolver() *AssetResolver {
	resolver, err := httpassets.NewAssetResolverFromDisk(manifestOnDisk)
	if err != nil {
		log.Printf("failed to load asset manifest %s: %v; falling back to logical asset names",
			manifestOnDisk, err)
	}
	return resolver
}

// setupUIHandlers creates UI handlers with a template renderer and asset
// resolver. Dev mode reads templates from disk for hot reloading; production
// uses the embedded filesystems.
func setupUIHandlers(services RouterServices) *UIHandlers {
	env := prodAssetEnv()
	if services.IsDev {
		env = devAssetEnv()
	}
	if env.resolver == nil {
		env.resolver = &AssetResolver{}
	}

	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		DevMode:       services.IsDev,
		Logger:        services.Logger,
		TemplateFS:    env.templates,
		Resolver:      env.resolver,
		CriticalCSSFS: env.criticalCSS,
	})
	if err != nil {
		if services.Logger == nil {
			log.Printf("ERROR: failed to create template renderer: %v", err)
		} else {
			services.Logger.Error("failed to create template renderer", slog.Any("error", err))
		}
		return nil
	}

	ui := &UIHandlers{
		T:      tr,
		IsDev:  services.IsDev,
		Logger: services.Logger,
	}
	// Same typed-nil discipline as the API handlers above: the per-section
	// availability guards compare interface fields against nil, which only
	// works when a missing service stays a true nil.
	if services.Blog != nil {
		ui.BlogSvc = services.Blog
	}
	if services.Gallery != nil {
		ui.GallerySvc = services.Gallery
	}
	if services.Coaches != nil {
		ui.CoachSvc = services.Coaches
	}
	if services.Coachees != nil {
		ui.CoacheeSvc = services.Coachees
	}
	if services.Applications != nil {
		ui.AppSvc = services.Applications
	}
	if services.Events != nil {
		ui.EventSvc = services.Events
	}
	if services.Admins != nil {
		ui.AdminSvc = services.Admins
	}
	if services.Dashboard != nil {
		ui.DashboardSvc = services.Dashboard
	}
	return ui
}

// staticHandler serves /static/* assets with cache headers. Dev mode serves
// from disk through a fallback chain so built and source assets both resolve;
// production serves the embedded filesystem.
func staticHandler(isDev bool) http.Handler {
	var root http.FileSystem
	switch staticSub, err := fs.Sub(brightsteps.StaticFS, "frontend/static"); {
	case isDev:
		root = fallbackFS{
			http.Dir("frontend/static"),
			http.Dir("frontend/public"),
			devStylesFS{},
		}
	case err != nil:
		log.Printf("failed to create sub-filesystem for static assets: %v", err)
		root = http.Dir("frontend/static")
	default:
		root = http.FS(staticSub)
	}
	return cacheHeaders(http.StripPrefix("/static/", http.FileServer(root)))
}

// fallbackFS tries each filesystem in order until one has the file.
type fallbackFS []http.FileSystem

func (fsys fallbackFS) Open(name string) (http.File, error) {
	for _, candidate := range fsys {
		f, err := candidate.Open(name)
		switch {
		case err == nil:
			return f, nil
		case !os.IsNotExist(err):
			return nil, err
		}
	}
	return nil, os.ErrNotExist
}

// devStylesFS serves the source stylesheet at the path the built bundle
// normally occupies.
type devStylesFS struct{}

func (devStylesFS) Open(name string) (http.File, error) {
	if strings.TrimPrefix(name, "/") != "css/styles.css" {
		return nil, os.ErrNotExist
	}
	return os.Open("frontend/styles/index.css")
}

// hashedAssetPattern matches content-hashed filenames, source maps included
// (app.abc12345.js, styles.def67890.css, app.abc12345.js.map).
var hashedAssetPattern = regexp.MustCompile(`\.[a-f0-9]{8}\.(?:js|css)(?:\.map)?$`)

// cacheHeaders marks content-hashed assets immutable for a year and keeps
// everything else uncached so dev builds are picked up.
func cacheHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hashedAssetPattern.MatchString(r.URL.Path) {
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		} else {
			w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
			w.Header().Set("Pragma", "no-cache")
			w.Header().Set("Expires", "0")
		}
		next.ServeHTTP(w, r)
	})
}

// notFoundHandler buffers mux responses so 404s from unmatched routes can be
// replaced with the branded not-found page. Missing static assets keep the
// file server's plain response.
type notFoundHandler struct {
	mux        *http.ServeMux
	uiHandlers *UIHandlers
}

func (h *notFoundHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	buf := &bufferedResponse{header: make(http.Header), status: http.StatusOK}
	h.mux.ServeHTTP(buf, r)

	if buf.status != http.StatusNotFound || strings.HasPrefix(r.URL.Path, "/static/") {
		buf.replay(w)
		return
	}
	if h.uiHandlers == nil {
		http.NotFound(w, r)
		return
	}
	h.uiHandlers.NotFound(w, r)
}

// bufferedResponse holds headers, status, and body until replay.
type bufferedResponse struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func (b *bufferedResponse) Header() http.Header         { return b.header }
func (b *bufferedResponse) WriteHeader(code int)        { b.status = code }
func (b *bufferedResponse) Write(p []byte) (int, error) { return b.body.Write(p) }

func (b *bufferedResponse) replay(w http.ResponseWriter) {
	dst := w.Header()
	for k, vs := range b.header {
		dst[k] = append(dst[k], vs...)
	}
	w.WriteHeader(b.status)
	if _, err := w.Write(b.body.Bytes()); err != nil {
		log.Printf("failed to write buffered response: %v", err)
	}
}

// registerContentAPIRoutes wires the JSON content API. Published-content reads
// are public; writes require the section capability for the resource. Without
// an auth service no capability can ever be granted, so the write endpoints
// stay unregistered and fall through to the JSON 404.
func registerContentAPIRoutes(mux *http.ServeMux, h *ContentAPIHandlers, auth *service.AuthService) {
	if h.BlogSvc != nil {
		mux.HandleFunc("GET /api/blog", h.ListBlogPosts)
		mux.HandleFunc("GET /api/blog/{slug}", h.GetBlogPost)
	}
	if h.GallerySvc != nil {
		mux.HandleFunc("GET /api/gallery", h.ListGalleryImages)
	}
	if h.EventSvc != nil {
		mux.HandleFunc("GET /api/events", h.ListEvents)
	}

	if auth == nil {
		return
	}

	if h.BlogSvc != nil {
		blogWrap := RequireCapability(auth, domainauth.SectionBlog)
		mux.Handle("POST /api/blog", blogWrap(http.HandlerFunc(h.CreateBlogPost)))
		mux.Handle("PUT /api/blog/{id}", blogWrap(http.HandlerFunc(h.UpdateBlogPost)))
		mux.Handle("DELETE /api/blog/{id}", blogWrap(http.HandlerFunc(h.DeleteBlogPost)))
	}

	if h.GallerySvc != nil {
		galleryWrap := RequireCapability(auth, domainauth.SectionGallery)
		mux.Handle("POST /api/gallery", galleryWrap(http.HandlerFunc(h.CreateGalleryImage)))
		mux.Handle("PUT /api/gallery/{id}", galleryWrap(http.HandlerFunc(h.UpdateGalleryImage)))
		mux.Handle("DELETE /api/gallery/{id}", galleryWrap(http.HandlerFunc(h.DeleteGalleryImage)))
	}

	if h.EventSvc != nil {
		eventsWrap := RequireCapability(auth, domainauth.SectionEvents)
		mux.Handle("POST /api/events", eventsWrap(http.HandlerFunc(h.CreateEvent)))
		mux.Handle("PUT /api/events/{id}", eventsWrap(http.HandlerFunc(h.UpdateEvent)))
		mux.Handle("DELETE /api/events/{id}", eventsWrap(http.HandlerFunc(h.DeleteEvent)))
	}
}

// registerAuthRoutes wires the login form, logout, and the session status endpoint.
// The login form still needs the CSRF cookie/token, so its routes get the CSRF wrapper.
func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers, cfg uiRouteConfig) {
	csrf := cfg.csrfWrap()
	mux.HandleFunc("GET /auth/status", h.Status)
	mux.Handle("GET /login", csrf(http.HandlerFunc(h.LoginPage)))
	mux.Handle("POST /login", csrf(http.HandlerFunc(h.SubmitLogin)))
	mux.Handle("POST /logout", csrf(http.HandlerFunc(h.Logout)))
}

// uiRouteConfig carries what the route registration helpers need to build
// their middleware wrappers.
type uiRouteConfig struct {
	CookieDomain string
	Auth         *service.AuthService
}

// csrfWrap returns the CSRF middleware used on every route that renders or
// accepts a form, public pages included, so templates always have a token.
func (cfg uiRouteConfig) csrfWrap() func(http.Handler) http.Handler {
	return CSRFProtection(CSRFConfig{CookieDomain: cfg.CookieDomain})
}

// publicWrap decorates public site routes: CSRF token plumbing plus optional
// session resolution so the site chrome can reflect a signed-in admin.
func (cfg uiRouteConfig) publicWrap() func(http.Handler) http.Handler {
	csrf := cfg.csrfWrap()
	if cfg.Auth == nil {
		return csrf
	}
	optional := OptionalAuth(cfg.Auth)
	return func(h http.Handler) http.Handler {
		return optional(csrf(h))
	}
}

// sectionWrap gates a dashboard section: session required, capability for the
// section required, CSRF validation on state-changing methods. With no auth
// service the gate denies everything; registerUIRoutes already skips admin
// routes in that case, so this branch only matters if one is wired anyway.
func (cfg uiRouteConfig) sectionWrap(section domainauth.Section) func(http.Handler) http.Handler {
	if cfg.Auth == nil {
		return AdminAreaDisabled()
	}
	csrf := cfg.csrfWrap()
	gate := RequireSectionBrowser(cfg.Auth, section)
	return func(h http.Handler) http.Handler {
		return gate(csrf(h))
	}
}

// registerUIRoutes delegates to per-domain UI route registration functions.
// Without an auth service the admin area is disabled: none of its routes are
// registered, so every /dashboard path answers 404.
func registerUIRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	registerSiteRoutes(mux, h, cfg)
	if cfg.Auth == nil {
		return
	}
	registerUIDashboardRoutes(mux, h, cfg)
	registerUIBlogRoutes(mux, h, cfg)
	registerUIGalleryRoutes(mux, h, cfg)
	registerUICoacheeRoutes(mux, h, cfg)
	registerUIEventRoutes(mux, h, cfg)
	registerUICoachRoutes(mux, h, cfg)
	registerUIAdminRoutes(mux, h, cfg)
}

// registerSiteRoutes wires the public site: no auth gate anywhere.
func registerSiteRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	wrap := cfg.publicWrap()
	mux.Handle("GET /{$}", wrap(http.HandlerFunc(h.Home)))
	mux.Handle("GET /about", wrap(http.HandlerFunc(h.About)))
	mux.Handle("GET /about/mission", wrap(http.HandlerFunc(h.AboutMission)))
	mux.Handle("GET /about/team", wrap(http.HandlerFunc(h.AboutTeam)))
	mux.Handle("GET /about/impact", wrap(http.HandlerFunc(h.AboutImpact)))
	mux.Handle("GET /programs/{slug}", wrap(http.HandlerFunc(h.Program)))
	mux.Handle("GET /blog", wrap(http.HandlerFunc(h.SiteBlog)))
	mux.Handle("GET /blog/{slug}", wrap(http.HandlerFunc(h.SiteBlogPost)))
	mux.Handle("GET /gallery", wrap(http.HandlerFunc(h.SiteGallery)))
	mux.Handle("GET /events", wrap(http.HandlerFunc(h.SiteEvents)))
	mux.Handle("POST /events/{id}/rsvp", wrap(http.HandlerFunc(h.SiteEventRSVP)))
	mux.Handle("GET /contact", wrap(http.HandlerFunc(h.Contact)))
	mux.Handle("GET /apply", wrap(http.HandlerFunc(h.Apply)))
	mux.Handle("POST /apply", wrap(http.HandlerFunc(h.ApplySubmit)))
}

// registerUIDashboardRoutes wires the dashboard landing page.
func registerUIDashboardRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	wrap := cfg.sectionWrap(domainauth.SectionDashboard)
	mux.Handle("GET /dashboard", wrap(http.HandlerFunc(h.Dashboard)))
}

func registerUIBlogRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	wrap := cfg.sectionWrap(domainauth.SectionBlog)
	mux.Handle("GET /dashboard/blog", wrap(http.HandlerFunc(h.BlogPosts)))
	mux.Handle("GET /dashboard/blog/new", wrap(http.HandlerFunc(h.BlogPostNew)))
	mux.Handle("GET /dashboard/blog/{id}/edit", wrap(http.HandlerFunc(h.BlogPostEdit)))
	mux.Handle("POST /dashboard/blog", wrap(http.HandlerFunc(h.BlogPostCreate)))
	mux.Handle("POST /dashboard/blog/{id}", wrap(http.HandlerFunc(h.BlogPostUpdate)))
	mux.Handle("POST /dashboard/blog/{id}/delete", wrap(http.HandlerFunc(h.BlogPostDelete)))
}

func registerUIGalleryRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	wrap := cfg.sectionWrap(domainauth.SectionGallery)
	mux.Handle("GET /dashboard/gallery", wrap(http.HandlerFunc(h.Gallery)))
	mux.Handle("GET /dashboard/gallery/new", wrap(http.HandlerFunc(h.GalleryImageNew)))
	mux.Handle("GET /dashboard/gallery/{id}/edit", wrap(http.HandlerFunc(h.GalleryImageEdit)))
	mux.Handle("POST /dashboard/gallery", wrap(http.HandlerFunc(h.GalleryImageCreate)))
	mux.Handle("POST /dashboard/gallery/{id}", wrap(http.HandlerFunc(h.GalleryImageUpdate)))
	mux.Handle("POST /dashboard/gallery/{id}/delete", wrap(http.HandlerFunc(h.GalleryImageDelete)))
}

func registerUICoacheeRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	wrap := cfg.sectionWrap(domainauth.SectionCoachees)
	mux.Handle("GET /dashboard/coachees", wrap(http.HandlerFunc(h.Coachees)))
	mux.Handle("GET /dashboard/coachees/new", wrap(http.HandlerFunc(h.CoacheeNew)))
	mux.Handle("GET /dashboard/coachees/{id}/edit", wrap(http.HandlerFunc(h.CoacheeEdit)))
	mux.Handle("POST /dashboard/coachees", wrap(http.HandlerFunc(h.CoacheeCreate)))
	mux.Handle("POST /dashboard/coachees/{id}", wrap(http.HandlerFunc(h.CoacheeUpdate)))
	mux.Handle("POST /dashboard/coachees/{id}/assign", wrap(http.HandlerFunc(h.CoacheeAssign)))
	mux.Handle("POST /dashboard/coachees/{id}/delete", wrap(http.HandlerFunc(h.CoacheeDelete)))
}

func registerUIEventRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	wrap := cfg.sectionWrap(domainauth.SectionEvents)
	mux.Handle("GET /dashboard/events", wrap(http.HandlerFunc(h.Events)))
	mux.Handle("GET /dashboard/events/new", wrap(http.HandlerFunc(h.EventNew)))
	mux.Handle("GET /dashboard/events/{id}/edit", wrap(http.HandlerFunc(h.EventEdit)))
	mux.Handle("GET /dashboard/events/{id}/attendance", wrap(http.HandlerFunc(h.EventAttendance)))
	mux.Handle("POST /dashboard/events", wrap(http.HandlerFunc(h.EventCreate)))
	mux.Handle("POST /dashboard/events/{id}", wrap(http.HandlerFunc(h.EventUpdate)))
	mux.Handle("POST /dashboard/events/{id}/delete", wrap(http.HandlerFunc(h.EventDelete)))
	mux.Handle("POST /dashboard/events/{id}/rsvps/{rsvpID}/delete", wrap(http.HandlerFunc(h.EventRSVPRemove)))
}

func registerUICoachRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	wrap := cfg.sectionWrap(domainauth.SectionCoaches)
	mux.Handle("GET /dashboard/coaches", wrap(http.HandlerFunc(h.Coaches)))
	mux.Handle("GET /dashboard/coaches/new", wrap(http.HandlerFunc(h.CoachNew)))
	mux.Handle("GET /dashboard/coaches/{id}/edit", wrap(http.HandlerFunc(h.CoachEdit)))
	mux.Handle("POST /dashboard/coaches", wrap(http.HandlerFunc(h.CoachCreate)))
	mux.Handle("POST /dashboard/coaches/{id}", wrap(http.HandlerFunc(h.CoachUpdate)))
	mux.Handle("POST /dashboard/coaches/{id}/delete", wrap(http.HandlerFunc(h.CoachDelete)))

	// Mentor application review lives with the coaches section
	mux.Handle("GET /dashboard/coaches/applications", wrap(http.HandlerFunc(h.Applications)))
	mux.Handle("POST /dashboard/coaches/applications/{id}/approve", wrap(http.HandlerFunc(h.ApplicationApprove)))
	mux.Handle("POST /dashboard/coaches/applications/{id}/reject", wrap(http.HandlerFunc(h.ApplicationReject)))
}

// registerUIAdminRoutes wires account management, reachable only with the admins capability.
func registerUIAdminRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	wrap := cfg.sectionWrap(domainauth.SectionAdmins)
	mux.Handle("GET /dashboard/admins", wrap(http.HandlerFunc(h.Admins)))
	mux.Handle("GET /dashboard/admins/new", wrap(http.HandlerFunc(h.AdminNew)))
	mux.Handle("GET /dashboard/admins/{id}/edit", wrap(http.HandlerFunc(h.AdminEdit)))
	mux.Handle("POST /dashboard/admins", wrap(http.HandlerFunc(h.AdminCreate)))
	mux.Handle("POST /dashboard/admins/{id}", wrap(http.HandlerFunc(h.AdminUpdate)))
	mux.Handle("POST /dashboard/admins/{id}/delete", wrap(http.HandlerFunc(h.AdminDelete)))
}
