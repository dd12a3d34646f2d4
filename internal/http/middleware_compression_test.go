package httpx

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const gzipEncoding = "gzip"

// serveCompressed wraps the handler in the compression middleware and runs a
// single request against it.
func serveCompressed(t *testing.T, handler http.Handler, method, acceptEncoding string, level int) *http.Response {
	t.Helper()

	wrapped := Compression(CompressionConfig{Level: level})(handler)

	req := httptest.NewRequest(method, "/blog", nil)
	if acceptEncoding != "" {
		req.Header.Set("Accept-Encoding", acceptEncoding)
	}

	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)
	return rec.Result()
}

func htmlHandler(body string) http.Handler {
	return respondWith("text/html", http.StatusOK, body)
}

// respondWith builds a handler emitting a fixed content type, status, and
// body. Empty strings skip the corresponding write.
func respondWith(contentType string, status int, body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.WriteHeader(status)
		if body != "" {
			_, _ = w.Write([]byte(body))
		}
	})
}

// wantEncoding asserts whether the response was gzip-encoded.
func wantEncoding(t *testing.T, resp *http.Response, gzipped bool, context string) {
	t.Helper()
	got := resp.Header.Get("Content-Encoding")
	switch {
	case gzipped && got != gzipEncoding:
		t.Errorf("%s: expected gzip, got Content-Encoding %q", context, got)
	case !gzipped && got == gzipEncoding:
		t.Errorf("%s: expected uncompressed response", context)
	}
}

func gunzip(t *testing.T, r io.Reader) string {
	t.Helper()
	gr, err := gzip.NewReader(r)
	if err != nil {
		t.Fatalf("failed to create gzip reader: %v", err)
	}
	defer gr.Close()
	body, err := io.ReadAll(gr)
	if err != nil {
		t.Fatalf("failed to read decompressed body: %v", err)
	}
	return string(body)
}

func TestCompression(t *testing.T) {
	// Repetitive content compresses well.
	page := strings.Repeat("Our mentors pair with local students. ", 500)
	handler := htmlHandler(page)

	tests := []struct {
		name           string
		acceptEncoding string
		level          int
		expectGzip     bool
	}{
		{"client accepts gzip", "gzip, deflate", 6, true},
		{"client does not accept gzip", "deflate", 6, false},
		{"no accept-encoding header", "", 6, false},
		{"compression level 1 (fastest)", gzipEncoding, 1, true},
		{"compression level 9 (best)", gzipEncoding, 9, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := serveCompressed(t, handler, http.MethodGet, tt.acceptEncoding, tt.level)
			defer resp.Body.Close()

			wantEncoding(t, resp, tt.expectGzip, tt.name)
			if !tt.expectGzip {
				body, err := io.ReadAll(resp.Body)
				if err != nil {
					t.Fatalf("failed to read body: %v", err)
				}
				if string(body) != page {
					t.Error("content mismatch")
				}
				return
			}

			if resp.Header.Get("Content-Length") != "" {
				t.Errorf("expected no Content-Length header, got: %s", resp.Header.Get("Content-Length"))
			}
			// Vary keeps shared caches from serving gzip to clients that
			// cannot decode it.
			if resp.Header.Get("Vary") != "Accept-Encoding" {
				t.Errorf("expected Vary: Accept-Encoding, got: %s", resp.Header.Get("Vary"))
			}
			if gunzip(t, resp.Body) != page {
				t.Error("decompressed content mismatch")
			}
		})
	}
}

func TestCompressionWithStatusCodes(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		statusCode  int
		expectGzip  bool
	}{
		{"200 OK with HTML", "text/html", http.StatusOK, true},
		{"404 Not Found with HTML", "text/html", http.StatusNotFound, true},
		{"500 Internal Server Error with HTML", "text/html", http.StatusInternalServerError, true},
		{"204 No Content", "", http.StatusNoContent, false},
		{"304 Not Modified", "", http.StatusNotModified, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := ""
			if tt.contentType != "" {
				body = "page content"
			}
			handler := respondWith(tt.contentType, tt.statusCode, body)

			resp := serveCompressed(t, handler, http.MethodGet, gzipEncoding, 6)
			defer resp.Body.Close()

			if resp.StatusCode != tt.statusCode {
				t.Errorf("expected status code %d, got %d", tt.statusCode, resp.StatusCode)
			}
			wantEncoding(t, resp, tt.expectGzip, tt.name)
		})
	}
}

func TestCompressionContentTypeFiltering(t *testing.T) {
	tests := []struct {
		contentType string
		expectGzip  bool
	}{
		{"text/html", true},
		{"text/css", true},
		{"application/json", true},
		{"application/javascript", true},
		{"image/svg+xml", true},
		{"image/jpeg", false},
		{"image/png", false},
		{"application/pdf", false},
		{"application/zip", false},
		{"video/mp4", false},
		{"text/html; charset=utf-8", true},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			resp := serveCompressed(t,
				respondWith(tt.contentType, http.StatusOK, "page content"),
				http.MethodGet, gzipEncoding, 6)
			defer resp.Body.Close()

			wantEncoding(t, resp, tt.expectGzip, tt.contentType)
		})
	}
}

func TestCompressionHEADRequest(t *testing.T) {
	resp := serveCompressed(t, respondWith("text/html", http.StatusOK, ""), http.MethodHead, gzipEncoding, 6)
	defer resp.Body.Close()

	wantEncoding(t, resp, false, "HEAD request")
}

func TestCompressionAcceptEncodingQValue(t *testing.T) {
	tests := []struct {
		acceptEncoding string
		expectGzip     bool
	}{
		{"", false},
		{"deflate", false},
		{"deflate, gzip", true},
		{"gzip, deflate", true},
		{"gzip;q=0", false},
		{"gzip;q=0.5", true},
		{"gzip;q=1", true},
	}

	for _, tt := range tests {
		name := tt.acceptEncoding
		if name == "" {
			name = "no header"
		}
		t.Run(name, func(t *testing.T) {
			resp := serveCompressed(t, htmlHandler("page content"), http.MethodGet, tt.acceptEncoding, 6)
			defer resp.Body.Close()

			wantEncoding(t, resp, tt.expectGzip, tt.acceptEncoding)
		})
	}
}

func TestCompressionPreExistingContentEncoding(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Header().Set("Content-Encoding", "br")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("page content"))
	})

	resp := serveCompressed(t, handler, http.MethodGet, gzipEncoding, 6)
	defer resp.Body.Close()

	// An upstream encoding must never be double-compressed.
	if resp.Header.Get("Content-Encoding") != "br" {
		t.Errorf("expected Content-Encoding: br, got: %s", resp.Header.Get("Content-Encoding"))
	}
}
