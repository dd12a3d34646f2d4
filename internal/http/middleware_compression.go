package httpx

import (
	"bufio"
	"compress/gzip"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
)

// CompressionConfig holds configuration for the compression middleware.
type CompressionConfig struct {
	Level   int // gzip level 1-9; invalid values fall back to the default level
	MinSize int // minimum response size in bytes before compressing (0 = always)
	Logger  *slog.Logger
}

var compressibleTypes = make(map[string]bool)

func init() {
	for _, mt := range [...]string{
		"text/html", "text/css", "text/plain", "text/xml", "text/javascript",
		"application/javascript", "application/x-javascript", "application/json",
		"application/xml", "application/rss+xml", "application/atom+xml",
		"image/svg+xml",
	} {
		compressibleTypes[mt] = true
	}
}

// Compression returns a middleware that gzips responses when the client
// accepts gzip, the Content-Type is compressible, and the status carries a
// body (not 1xx, 204, or 304). HEAD requests and responses that already have
// a Content-Encoding pass through untouched.
func Compression(cfg CompressionConfig) func(http.Handler) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	pool := &sync.Pool{New: func() any { return newGzipWriter(cfg.Level) }}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodHead || !wantsGzip(r.Header.Get("Accept-Encoding")) {
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Add("Vary", "Accept-Encoding")

			// The writer defers the compress-or-not decision to WriteHeader
			// time, when status and Content-Type are known.
			cw := &compressWriter{
				ResponseWriter: w,
				req:            r,
				pool:           pool,
				logger:         logger,
				level:          cfg.Level,
				minSize:        cfg.MinSize,
			}
			next.ServeHTTP(cw, r)
			cw.close()
		})
	}
}

// wantsGzip reports whether an Accept-Encoding header allows gzip, honoring a
// q=0 opt-out.
func wantsGzip(header string) bool {
	for _, part := range strings.Split(header, ",") {
		name, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		if strings.EqualFold(strings.TrimSpace(name), "gzip") {
			return gzipQValue(params) > 0
		}
	}
	return false
}

// gzipQValue extracts the q parameter from an encoding's parameter list.
// A missing or malformed value counts as accepted.
func gzipQValue(params string) float64 {
	for _, param := range strings.Split(params, ";") {
		key, value, ok := strings.Cut(strings.TrimSpace(param), "=")
		if !ok || !strings.EqualFold(strings.TrimSpace(key), "q") {
			continue
		}
		q, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return 1
		}
		return q
	}
	return 1
}

func newGzipWriter(level int) *gzip.Writer {
	gz, err := gzip.NewWriterLevel(io.Discard, level)
	if err != nil {
		gz = gzip.NewWriter(io.Discard)
	}
	return gz
}

// compressWriter wraps http.ResponseWriter to gzip the response body.
type compressWriter struct {
	http.ResponseWriter
	req     *http.Request
	pool    *sync.Pool
	logger  *slog.Logger
	level   int
	minSize int

	gz           *gzip.Writer
	started      bool
	thresholdMet bool
	buffered     []byte
}

func (cw *compressWriter) WriteHeader(status int) {
	if cw.started {
		return
	}
	cw.started = true

	if cw.shouldCompress(status) {
		cw.gz = cw.acquireGzip()
		cw.Header().Set("Content-Encoding", "gzip")
		cw.Header().Del("Content-Length") // length changes after compression
	}
	cw.ResponseWriter.WriteHeader(status)
}

func (cw *compressWriter) shouldCompress(status int) bool {
	switch {
	case status < 200, status == http.StatusNoContent, status == http.StatusNotModified:
		return false
	case cw.Header().Get("Content-Encoding") != "":
		return false
	}
	ct := cw.Header().Get("Content-Type")
	if ct == "" {
		// Write settles an empty Content-Type via sniffing before headers go out.
		return true
	}
	mediaType, _, _ := strings.Cut(ct, ";")
	return compressibleTypes[strings.TrimSpace(strings.ToLower(mediaType))]
}

func (cw *compressWriter) acquireGzip() *gzip.Writer {
	gz, _ := cw.pool.Get().(*gzip.Writer)
	if gz == nil {
		gz = newGzipWriter(cw.level)
	}
	gz.Reset(cw.ResponseWriter)
	return gz
}

func (cw *compressWriter) Write(b []byte) (int, error) {
	if !cw.started {
		if cw.Header().Get("Content-Type") == "" {
			cw.Header().Set("Content-Type", http.DetectContentType(b))
		}
		cw.WriteHeader(http.StatusOK)
	}
	switch {
	case cw.gz == nil:
		return cw.ResponseWriter.Write(b)
	case cw.minSize > 0 && !cw.thresholdMet:
		// Hold back tiny bodies until the threshold is crossed.
		cw.buffered = append(cw.buffered, b...)
		if len(cw.buffered) < cw.minSize {
			return len(b), nil
		}
		cw.thresholdMet = true
		_, err := cw.gz.Write(cw.buffered)
		cw.buffered = nil
		return len(b), err
	}
	return cw.gz.Write(b)
}

// close flushes any held-back bytes and returns the gzip writer to the pool.
func (cw *compressWriter) close() {
	if cw.gz == nil {
		return
	}
	if len(cw.buffered) > 0 {
		if _, err := cw.gz.Write(cw.buffered); err != nil {
			cw.logger.ErrorContext(cw.req.Context(), "writing buffered response failed", "error", err)
		}
		cw.buffered = nil
	}
	if err := cw.gz.Close(); err != nil {
		cw.logger.ErrorContext(cw.req.Context(), "closing gzip writer failed", "error", err)
	}
	cw.gz.Reset(io.Discard)
	cw.pool.Put(cw.gz)
	cw.gz = nil
}

// Flush implements http.Flusher for streaming support.
func (cw *compressWriter) Flush() {
	if cw.gz != nil {
		if err := cw.gz.Flush(); err != nil {
			cw.logger.ErrorContext(cw.req.Context(), "flushing gzip writer failed", "error", err)
		}
	}
	if f, ok := cw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Hijack implements http.Hijacker for WebSocket support.
func (cw *compressWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := cw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("http.Hijacker not supported")
	}
	return h.Hijack()
}

// Push implements http.Pusher for HTTP/2 server push.
func (cw *compressWriter) Push(target string, opts *http.PushOptions) error {
	p, ok := cw.ResponseWriter.(http.Pusher)
	if !ok {
		return errors.New("http.Pusher not supported")
	}
	return p.Push(target, opts)
}
