package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/brightsteps/brightsteps-web/internal/domain/auth"
)

// deadSessionSvc answers every lookup with "session not found".
func deadSessionSvc() *mockAuthServiceForMiddleware {
	return &mockAuthServiceForMiddleware{
		getSessionFunc: func(_ context.Context, _ string) (*domainauth.Session, error) {
			return nil, errors.New("session not found")
		},
	}
}

// browserChain wraps next in mw plus the browser-detection layer the real
// router always applies first.
func browserChain(mw func(http.Handler) http.Handler, next http.Handler) http.Handler {
	return BrowserDetection()(mw(next))
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

// browserGet issues a GET through handler with the given headers and an
// optional session cookie.
func browserGet(handler http.Handler, target, sessionID string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: sessionID})
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

var (
	acceptHTML = map[string]string{"Accept": "text/html"}
	acceptJSON = map[string]string{"Accept": "application/json"}
	htmxOnly   = map[string]string{"Hx-Request": "true"}
)

func TestRequireAuthBrowser_APIRequest(t *testing.T) {
	handler := browserChain(RequireAuthBrowser(deadSessionSvc()), okHandler())

	w := browserGet(handler, "/api/blog", "", acceptJSON)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
}

func TestRequireAuthBrowser_BrowserRequest_Unauthenticated(t *testing.T) {
	handler := browserChain(RequireAuthBrowser(deadSessionSvc()), okHandler())

	w := browserGet(handler, "/dashboard", "", acceptHTML)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	location := w.Header().Get("Location")
	assert.Contains(t, location, "/login")
	assert.Contains(t, location, "redirect_uri=%2Fdashboard")
}

func TestRequireAuthBrowser_StaleCookieCleared(t *testing.T) {
	handler := browserChain(RequireAuthBrowser(deadSessionSvc()), rejectCalls(t))

	// A cookie referencing a dead server-side session must be cleared
	w := browserGet(handler, "/dashboard", "expired-session", acceptHTML)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "/login")

	res := w.Result()
	defer res.Body.Close()
	var cleared bool
	for _, c := range res.Cookies() {
		if c.Name == SessionCookieName {
			cleared = true
			assert.Less(t, c.MaxAge, 0, "stale session cookie should be expired")
		}
	}
	require.True(t, cleared, "expected a Set-Cookie clearing the session cookie")
}

func TestRequireAuthBrowser_NoCookie_NoClearingSetCookie(t *testing.T) {
	handler := browserChain(RequireAuthBrowser(deadSessionSvc()), rejectCalls(t))

	w := browserGet(handler, "/dashboard", "", acceptHTML)

	res := w.Result()
	defer res.Body.Close()
	for _, c := range res.Cookies() {
		assert.NotEqual(t, SessionCookieName, c.Name, "no clearing cookie when none was sent")
	}
}

func TestRequireAuthBrowser_HTMXRequest_Unauthenticated(t *testing.T) {
	handler := browserChain(RequireAuthBrowser(deadSessionSvc()), okHandler())

	w := browserGet(handler, "/dashboard/blog", "", map[string]string{
		"Hx-Request":     "true",
		"Hx-Current-Url": "/dashboard",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/login?redirect_uri=%2Fdashboard", w.Header().Get("Hx-Redirect"))
	assert.Empty(t, w.Header().Get("Location"))
}

func TestRequireAuthBrowser_HTMXRequest_Unauthenticated_NoCurrentURL(t *testing.T) {
	handler := browserChain(RequireAuthBrowser(deadSessionSvc()), okHandler())

	w := browserGet(handler, "/dashboard/gallery", "", htmxOnly)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/login?redirect_uri=%2Fdashboard%2Fgallery", w.Header().Get("Hx-Redirect"))
	assert.Empty(t, w.Header().Get("Location"))
}

func TestRedirectPathForRequest(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		headers map[string]string
		want    string
	}{
		{
			name:   "prefers current URL",
			target: "/fragments/recent",
			headers: map[string]string{
				"Hx-Request":     "true",
				"Hx-Current-Url": "https://example.com/dashboard?page=2",
			},
			want: "/dashboard?page=2",
		},
		{
			name:   "falls back to referer",
			target: "/fragments/recent",
			headers: map[string]string{
				"Hx-Request": "true",
				"Referer":    "https://example.com/dashboard/events",
			},
			want: "/dashboard/events",
		},
		{
			name:   "rejects scheme-relative current URL",
			target: "/fragments/recent",
			headers: map[string]string{
				"Hx-Request":     "true",
				"Hx-Current-Url": "//evil.example.com/steal",
				"Referer":        "https://example.com/fallback",
			},
			want: "/fallback",
		},
		{
			name:   "malformed current URL",
			target: "/dashboard/coachees",
			headers: map[string]string{
				"Hx-Request":     "true",
				"Hx-Current-Url": "http://%zz",
				"Referer":        "https://example.com/dashboard/coachees?page=5",
			},
			want: "/dashboard/coachees?page=5",
		},
		{
			name:   "falls back to request URI",
			target: "/dashboard/blog?page=3",
			headers: map[string]string{
				"Hx-Request":     "true",
				"Hx-Current-Url": "//evil.example.com/steal",
				"Referer":        "http://%zz",
			},
			want: "/dashboard/blog?page=3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, redirectPathForRequest(req))
		})
	}
}

func TestRedirectToLoginDefaultsToRootRedirect(t *testing.T) {
	// An empty request path still produces a usable redirect_uri.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.URL.Path = ""

	w := httptest.NewRecorder()
	redirectToLogin(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login?redirect_uri=%2F", w.Header().Get("Location"))
}

func TestRequireAuthBrowser_BrowserRequest_Authenticated(t *testing.T) {
	svc := &mockAuthServiceForMiddleware{
		getSessionFunc: func(_ context.Context, sessionID string) (*domainauth.Session, error) {
			return &domainauth.Session{
				ID:        sessionID,
				UserID:    "test-user",
				Email:     "test@example.com",
				Role:      domainauth.RoleAdmin,
				ExpiresAt: time.Now().Add(time.Hour),
			}, nil
		},
	}

	handler := browserChain(RequireAuthBrowser(svc),
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := GetSessionFromContext(r.Context())
			assert.NotNil(t, session)
			assert.Equal(t, "test-user", session.UserID)
			w.WriteHeader(http.StatusOK)
		}))

	w := browserGet(handler, "/dashboard", "valid-session", acceptHTML)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireSectionBrowser_LackingCapability_BrowserRequest(t *testing.T) {
	svc := &mockAuthServiceForMiddleware{getSessionFunc: sessionWithRole(domainauth.RoleAdmin)}
	handler := browserChain(RequireSectionBrowser(svc, domainauth.SectionEvents), rejectCalls(t))

	// Admin navigating to a restricted section lands back on the dashboard,
	// with no error page in between.
	w := browserGet(handler, "/dashboard/events", "valid-session", acceptHTML)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))
}

func TestRequireSectionBrowser_LackingCapability_HTMXRequest(t *testing.T) {
	svc := &mockAuthServiceForMiddleware{getSessionFunc: sessionWithRole(domainauth.RoleAdmin)}
	handler := browserChain(RequireSectionBrowser(svc, domainauth.SectionAdmins), rejectCalls(t))

	w := browserGet(handler, "/dashboard/admins", "valid-session", htmxOnly)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Hx-Redirect"))
}

func TestRequireSectionBrowser_LackingCapability_APIRequest(t *testing.T) {
	svc := &mockAuthServiceForMiddleware{getSessionFunc: sessionWithRole(domainauth.RoleAdmin)}
	handler := browserChain(RequireSectionBrowser(svc, domainauth.SectionCoaches), rejectCalls(t))

	w := browserGet(handler, "/api/coaches", "valid-session", acceptJSON)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	assert.Contains(t, w.Body.String(), "insufficient_permissions")
}

func TestRequireSectionBrowser_WithCapability(t *testing.T) {
	svc := &mockAuthServiceForMiddleware{getSessionFunc: sessionWithRole(domainauth.RoleSuperAdmin)}
	handler := browserChain(RequireSectionBrowser(svc, domainauth.SectionAdmins),
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := GetSessionFromContext(r.Context())
			assert.NotNil(t, session)
			assert.Equal(t, domainauth.RoleSuperAdmin, session.Role)
			w.WriteHeader(http.StatusOK)
		}))

	w := browserGet(handler, "/dashboard/admins", "super-session", acceptHTML)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireSectionBrowser_Unauthenticated(t *testing.T) {
	handler := browserChain(RequireSectionBrowser(deadSessionSvc(), domainauth.SectionBlog), rejectCalls(t))

	w := browserGet(handler, "/dashboard/blog", "", acceptHTML)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "/login?redirect_uri=%2Fdashboard%2Fblog")
}
