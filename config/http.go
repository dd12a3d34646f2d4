package config

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the listen address for the HTTP server.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// BaseURL is the externally visible base of the site, used when
	// building absolute links (e.g. "https://www.brightsteps.org").
	BaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`

	// CookieDomain scopes the session cookie. Empty means the request
	// domain.
	CookieDomain string `env:"APP_COOKIE_DOMAIN" envDefault:""`

	// CompressionEnabled turns on gzip for text-based responses;
	// CompressionLevel is the gzip level (1-9, 6 is the gzip default).
	CompressionEnabled bool `env:"HTTP_COMPRESSION_ENABLED" envDefault:"false"`
	CompressionLevel   int  `env:"HTTP_COMPRESSION_LEVEL" envDefault:"6"`
}

// Sanitize clamps configuration values to their valid ranges.
func (h *HTTPConfig) Sanitize() {
	// gzip accepts levels 1-9
	h.CompressionLevel = min(max(h.CompressionLevel, 1), 9)
}
