package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBrowserDetection(t *testing.T) {
	handler := BrowserDetection()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if IsBrowserRequest(r) {
			w.Header().Set("Content-Type", "text/html")
		} else {
			w.Header().Set("Content-Type", "application/json")
		}
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name        string
		path        string
		accept      string
		htmxRequest bool
		wantBrowser bool
	}{
		// API routes are never browser requests, whatever Accept says.
		{"API route with JSON accept", "/api/blog", "application/json", false, false},
		{"API route with HTML accept", "/api/blog", "text/html", false, false},
		{"static asset", "/static/css/styles.css", "text/css", false, false},
		{"page with full browser accept", "/dashboard", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8", false, true},
		{"htmx request", "/dashboard/blog", "text/html", true, true},
		{"root path", "/", "text/html", false, true},
		{"no accept header on page route", "/events", "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}
			if tt.htmxRequest {
				req.Header.Set("Hx-Request", "true")
			}

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			want := "application/json"
			if tt.wantBrowser {
				want = "text/html"
			}
			assert.Equal(t, want, w.Header().Get("Content-Type"))
		})
	}
}

func TestIsBrowserRequest_WithoutMiddleware(t *testing.T) {
	apiReq := httptest.NewRequest(http.MethodGet, "/api/blog", nil)
	apiReq.Header.Set("Accept", "application/json")
	assert.False(t, IsBrowserRequest(apiReq))

	pageReq := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	pageReq.Header.Set("Accept", "text/html")
	assert.True(t, IsBrowserRequest(pageReq))
}

func TestIsBrowserRequest_ContextOverride(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/gallery", nil)

	ctx := context.WithValue(req.Context(), browserRequestKey{}, true)
	assert.True(t, IsBrowserRequest(req.WithContext(ctx)))

	ctx = context.WithValue(req.Context(), browserRequestKey{}, false)
	assert.False(t, IsBrowserRequest(req.WithContext(ctx)))

	// A wrong value type falls back to header detection.
	ctx = context.WithValue(req.Context(), browserRequestKey{}, "invalid")
	req = req.WithContext(ctx)
	req.Header.Set("Accept", "text/html")
	assert.True(t, IsBrowserRequest(req))
}
