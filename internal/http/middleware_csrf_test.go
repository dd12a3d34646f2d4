package httpx

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func newCSRFTestHandler(cfg CSRFConfig) http.Handler {
	return CSRFProtection(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

// serveCSRF runs req through the handler and returns the recorder.
func serveCSRF(handler http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func wantCSRFStatus(t *testing.T, w *httptest.ResponseRecorder, code int) {
	t.Helper()
	if w.Code != code {
		t.Errorf("expected status %d, got %d", code, w.Code)
	}
}

func csrfCookieFrom(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	resp := w.Result()
	defer resp.Body.Close()
	for _, c := range resp.Cookies() {
		if c.Name == DefaultCSRFCookieName {
			return c
		}
	}
	return nil
}

// issueCSRFToken runs a GET through the handler and returns the issued token.
func issueCSRFToken(t *testing.T, handler http.Handler) string {
	t.Helper()
	w := serveCSRF(handler, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	cookie := csrfCookieFrom(t, w)
	switch {
	case cookie == nil:
		t.Fatal("CSRF cookie not set")
	case cookie.Value == "":
		t.Fatal("CSRF token is empty")
	}
	return cookie.Value
}

func TestCSRFProtection_SafeMethodsIssueTokenAndPass(t *testing.T) {
	handler := newCSRFTestHandler(CSRFConfig{})

	for _, method := range []string{http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace} {
		t.Run(method, func(t *testing.T) {
			w := serveCSRF(handler, httptest.NewRequest(method, "/dashboard", nil))
			wantCSRFStatus(t, w, http.StatusOK)
			if csrfCookieFrom(t, w) == nil {
				t.Error("CSRF cookie not set")
			}
		})
	}
}

func TestCSRFProtection_PostWithoutTokenFails(t *testing.T) {
	handler := newCSRFTestHandler(CSRFConfig{})
	w := serveCSRF(handler, httptest.NewRequest(http.MethodPost, "/dashboard/blog", nil))
	wantCSRFStatus(t, w, http.StatusForbidden)
}

func TestCSRFProtection_PostWithValidHeaderToken(t *testing.T) {
	handler := newCSRFTestHandler(CSRFConfig{})
	token := issueCSRFToken(t, handler)

	req := httptest.NewRequest(http.MethodPost, "/dashboard/blog", nil)
	req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: token})
	req.Header.Set(DefaultCSRFHeaderName, token)
	wantCSRFStatus(t, serveCSRF(handler, req), http.StatusOK)
}

func TestCSRFProtection_PostWithValidFormToken(t *testing.T) {
	handler := newCSRFTestHandler(CSRFConfig{})
	token := issueCSRFToken(t, handler)

	form := url.Values{}
	form.Set(DefaultCSRFCookieName, token)
	req := httptest.NewRequest(http.MethodPost, "/dashboard/blog", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: token})
	wantCSRFStatus(t, serveCSRF(handler, req), http.StatusOK)
}

func TestCSRFProtection_PostWithMismatchedToken(t *testing.T) {
	handler := newCSRFTestHandler(CSRFConfig{})

	req := httptest.NewRequest(http.MethodPost, "/dashboard/blog", nil)
	req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: "cookie-token"})
	req.Header.Set(DefaultCSRFHeaderName, "different-token")
	wantCSRFStatus(t, serveCSRF(handler, req), http.StatusForbidden)
}

func TestCSRFProtection_TokenInContext(t *testing.T) {
	var capturedToken string
	handler := CSRFProtection(CSRFConfig{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedToken = GetCSRFToken(r)
		w.WriteHeader(http.StatusOK)
	}))

	w := serveCSRF(handler, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	if capturedToken == "" {
		t.Fatal("CSRF token not available in context")
	}

	cookie := csrfCookieFrom(t, w)
	if cookie == nil {
		t.Fatal("CSRF cookie not set")
	}
	if capturedToken != cookie.Value {
		t.Errorf("context token %q does not match cookie token %q", capturedToken, cookie.Value)
	}
}

func TestCSRFProtection_CookieAttributes(t *testing.T) {
	handler := newCSRFTestHandler(CSRFConfig{CookieDomain: "brightsteps.org"})

	req := httptest.NewRequest(http.MethodGet, "https://brightsteps.org/dashboard", nil)
	cookie := csrfCookieFrom(t, serveCSRF(handler, req))
	if cookie == nil {
		t.Fatal("CSRF cookie not set")
	}
	if !cookie.Secure {
		t.Error("expected Secure flag for HTTPS request")
	}
	if cookie.SameSite != http.SameSiteStrictMode {
		t.Errorf("expected SameSite=Strict, got %v", cookie.SameSite)
	}
	if cookie.HttpOnly {
		t.Error("expected HttpOnly false so htmx can read the token")
	}
	if cookie.Domain != "brightsteps.org" {
		t.Errorf("expected Domain=brightsteps.org, got %q", cookie.Domain)
	}
	if cookie.Path != "/" {
		t.Errorf("expected Path=/, got %q", cookie.Path)
	}
}

func TestCSRFProtection_ForwardedProtoMarksSecure(t *testing.T) {
	handler := newCSRFTestHandler(CSRFConfig{})

	req := httptest.NewRequest(http.MethodGet, "http://brightsteps.org/dashboard", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	cookie := csrfCookieFrom(t, serveCSRF(handler, req))
	if cookie == nil {
		t.Fatal("CSRF cookie not set")
	}
	if !cookie.Secure {
		t.Error("expected Secure flag when X-Forwarded-Proto=https")
	}
}

func TestCSRFProtection_CookieNotReissuedWhenPresent(t *testing.T) {
	handler := newCSRFTestHandler(CSRFConfig{})
	token := issueCSRFToken(t, handler)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: token})
	if cookie := csrfCookieFrom(t, serveCSRF(handler, req)); cookie != nil {
		t.Error("expected no Set-Cookie header when token already exists")
	}
}

func TestCSRFProtection_JSONBodyRequiresHeader(t *testing.T) {
	handler := newCSRFTestHandler(CSRFConfig{})
	token := issueCSRFToken(t, handler)

	jsonPost := func(withHeader bool) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/dashboard/blog", strings.NewReader(`{"title":"x"}`))
		req.Header.Set("Content-Type", "application/json")
		req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: token})
		if withHeader {
			req.Header.Set(DefaultCSRFHeaderName, token)
		}
		return req
	}

	t.Run("without header fails", func(t *testing.T) {
		wantCSRFStatus(t, serveCSRF(handler, jsonPost(false)), http.StatusForbidden)
	})

	t.Run("with header succeeds", func(t *testing.T) {
		wantCSRFStatus(t, serveCSRF(handler, jsonPost(true)), http.StatusOK)
	})
}

func TestGetCSRFToken_NoToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	if token := GetCSRFToken(req); token != "" {
		t.Errorf("expected empty token, got %q", token)
	}
}
