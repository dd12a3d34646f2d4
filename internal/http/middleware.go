package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"runtime/debug"
	"strings"
	"time"

	domainauth "github.com/brightsteps/brightsteps-web/internal/domain/auth"
)

// Logging returns a middleware that logs one line per request.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(&rec, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rec.status),
				slog.Duration("duration", time.Since(start)))
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that turns handler panics into 500 responses.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				logger.Error("panic",
					slog.Any("error", v),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("stack", string(debug.Stack())))
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// sessionGate carries the session and capability checks shared by the
// authentication middlewares. Browser-aware gates answer failed browser
// navigations with redirects; plain gates always answer JSON.
type sessionGate struct {
	svc          AuthServiceInterface
	section      domainauth.Section
	checkSection bool
	browserAware bool
	optional     bool
}

// RequireAuth returns a middleware that rejects unauthenticated requests
// with a 401 JSON response.
func RequireAuth(authSvc AuthServiceInterface) func(http.Handler) http.Handler {
	return sessionGate{svc: authSvc}.middleware()
}

// RequireCapability returns a middleware that requires the session's role to
// carry the given section capability. Callers without it get a 403 JSON
// response.
func RequireCapability(authSvc AuthServiceInterface, section domainauth.Section) func(http.Handler) http.Handler {
	return sessionGate{svc: authSvc, section: section, checkSection: true}.middleware()
}

// OptionalAuth returns a middleware that attaches the session to the request
// context when one exists and lets the request through either way.
func OptionalAuth(authSvc AuthServiceInterface) func(http.Handler) http.Handler {
	return sessionGate{svc: authSvc, optional: true}.middleware()
}

// RequireAuthBrowser is RequireAuth with browser-aware failure handling:
// browser navigations are sent to the login page with a post-login redirect
// back, API requests get 401 JSON. Stale session cookies are cleared either
// way.
func RequireAuthBrowser(authSvc AuthServiceInterface) func(http.Handler) http.Handler {
	return sessionGate{svc: authSvc, browserAware: true}.middleware()
}

// RequireSectionBrowser gates one admin section by capability, with
// browser-aware behavior. Browser navigations whose role lacks the capability
// are silently sent back to /dashboard rather than shown an error page; API
// requests get 403 JSON. Requests without a valid session go to the login
// page (401 JSON for API callers).
func RequireSectionBrowser(authSvc AuthServiceInterface, section domainauth.Section) func(http.Handler) http.Handler {
	return sessionGate{svc: authSvc, section: section, checkSection: true, browserAware: true}.middleware()
}

// AdminAreaDisabled returns a middleware that refuses every request without
// consulting the wrapped handler. It stands in for the session gates when no
// auth service could be built: nobody can sign in, so nobody may pass, and a
// route registered despite the disabled admin area fails closed. Browsers get
// a 404 (the not-found handler swaps in the branded page); API callers get a
// 503 naming the condition.
func AdminAreaDisabled() func(http.Handler) http.Handler {
	return func(http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if IsBrowserRequest(r) {
				http.NotFound(w, r)
				return
			}
			WriteError(w, ErrorParams{
				Code:    http.StatusServiceUnavailable,
				ErrCode: "admin_area_disabled",
				Err:     errors.New("admin area disabled"),
			})
		})
	}
}

func (g sessionGate) middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			g.serve(w, r, next)
		})
	}
}

func (g sessionGate) serve(w http.ResponseWriter, r *http.Request, next http.Handler) {
	session := lookupSession(r, g.svc)
	switch {
	case session == nil && g.optional:
		next.ServeHTTP(w, r)
		return
	case session == nil:
		g.denyUnauthenticated(w, r)
		return
	case g.checkSection && !domainauth.CapabilitiesFor(session.Role).Has(g.section):
		g.denyForbidden(w, r)
		return
	}
	next.ServeHTTP(w, withSession(r, session))
}

func (g sessionGate) denyUnauthenticated(w http.ResponseWriter, r *http.Request) {
	if g.browserAware {
		clearStaleSessionCookie(w, r)
		if IsBrowserRequest(r) {
			redirectToLogin(w, r)
			return
		}
	}
	WriteError(w, ErrorParams{
		Code:    http.StatusUnauthorized,
		ErrCode: "authentication_required",
		Err:     errors.New("authentication required"),
	})
}

func (g sessionGate) denyForbidden(w http.ResponseWriter, r *http.Request) {
	if g.browserAware && IsBrowserRequest(r) {
		redirectToDashboard(w, r)
		return
	}
	WriteError(w, ErrorParams{
		Code:    http.StatusForbidden,
		ErrCode: "insufficient_permissions",
		Err:     errors.New("insufficient permissions"),
	})
}

// lookupSession resolves the session cookie against the server-side store.
// A cookie alone never grants access: the stored record must still exist.
func lookupSession(r *http.Request, authSvc AuthServiceInterface) *domainauth.Session {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return nil
	}
	session, err := authSvc.GetSession(r.Context(), cookie.Value)
	if err != nil {
		return nil
	}
	return session
}

func withSession(r *http.Request, session *domainauth.Session) *http.Request {
	return r.WithContext(SetSessionInContext(r.Context(), session))
}

// clearStaleSessionCookie expires the session cookie on the client. Used when
// a request presents a cookie whose server-side record is gone.
func clearStaleSessionCookie(w http.ResponseWriter, r *http.Request) {
	if _, err := r.Cookie(SessionCookieName); err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   requestIsSecure(r),
		SameSite: http.SameSiteLaxMode,
	})
}

// requestIsSecure reports whether the request arrived over HTTPS, directly or
// through a forwarding proxy.
func requestIsSecure(r *http.Request) bool {
	return r.TLS != nil || isForwardedHTTPS(r)
}

type browserRequestKey struct{}

// BrowserDetection returns a middleware that records whether the request came
// from a browser, so downstream handlers can pick HTML or JSON responses.
func BrowserDetection() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), browserRequestKey{}, isBrowserRequest(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IsBrowserRequest reports whether the current request is from a browser.
// Falls back to direct detection when the middleware did not run.
func IsBrowserRequest(r *http.Request) bool {
	if isBrowser, ok := r.Context().Value(browserRequestKey{}).(bool); ok {
		return isBrowser
	}
	return isBrowserRequest(r)
}

// isBrowserRequest classifies a request: /api/ and /static/ paths are never
// browser navigations, HTMX requests always are, and otherwise the Accept
// header decides (absent Accept counts as a browser).
func isBrowserRequest(r *http.Request) bool {
	switch {
	case strings.HasPrefix(r.URL.Path, "/api/"), strings.HasPrefix(r.URL.Path, "/static/"):
		return false
	case IsHTMX(r):
		return true
	}
	accept := r.Header.Get("Accept")
	return accept == "" || strings.Contains(accept, "text/html")
}

// browserRedirect navigates the browser to target. For HTMX requests an HTTP
// redirect would swap the target page into the current fragment, so the
// Hx-Redirect header instructs a full navigation instead.
func browserRedirect(w http.ResponseWriter, r *http.Request, target string) {
	if IsHTMX(r) {
		SetHXRedirect(w, target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	path := redirectPathForRequest(r)
	if path == "" {
		path = "/"
	}
	browserRedirect(w, r, "/login?redirect_uri="+url.QueryEscape(path))
}

func redirectToDashboard(w http.ResponseWriter, r *http.Request) {
	browserRedirect(w, r, "/dashboard")
}

// redirectPathForRequest picks the path to return to after login. HTMX
// requests carry the page URL in Hx-Current-Url; the request URI of a
// fragment fetch would strand the user on a partial.
func redirectPathForRequest(r *http.Request) string {
	if IsHTMX(r) {
		for _, raw := range []string{r.Header.Get("Hx-Current-Url"), r.Header.Get("Referer")} {
			if p := safeRedirectFromURL(raw); p != "" {
				return p
			}
		}
	}
	return safeRedirectPath(r.URL.RequestURI())
}

func safeRedirectFromURL(raw string) string {
	u, err := url.Parse(raw)
	if raw == "" || err != nil {
		return ""
	}
	switch {
	case u.IsAbs():
		// Keep only the path and query so redirects stay in-app.
		return safeRedirectPath(u.RequestURI())
	case u.Host != "":
		// Scheme-relative references could leave the site.
		return ""
	}
	return safeRedirectPath(raw)
}
