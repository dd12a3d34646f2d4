// Package config loads application settings from environment variables via
// github.com/caarlos0/env. Settings are grouped by concern: auth.go,
// database.go, and http.go each declare the variables they read.
package config

import (
	"os"
	"strings"
)

// AppConfig is the root configuration shared by the public site and the
// admin binary.
type AppConfig struct {
	// IsDev enables development behavior such as template hot reloading.
	// Set DEV=true, or NODE_ENV=development when running under frontend
	// tooling.
	IsDev bool `env:"DEV" envDefault:"false"`

	Auth AuthConfig

	Postgres DBConfig    `envPrefix:"DB_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`

	HTTP HTTPConfig
}

// Sanitize clamps out-of-range values after env parsing. Call it once,
// right after env.Parse.
func (c *AppConfig) Sanitize() {
	c.HTTP.Sanitize()
	c.Auth.Sanitize()
	c.detectDevMode()
}

// NODE_ENV is honored as a fallback so a single env file can drive both the
// Go server and the asset pipeline.
func (c *AppConfig) detectDevMode() {
	if c.IsDev {
		return
	}
	switch strings.ToLower(os.Getenv("NODE_ENV")) {
	case "development", "dev":
		c.IsDev = true
	}
}
