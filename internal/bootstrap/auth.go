package bootstrap

import (
	"errors"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/brightsteps/brightsteps-web/config"
	"github.com/brightsteps/brightsteps-web/internal/adapters/authroles"
	"github.com/brightsteps/brightsteps-web/internal/adapters/devauth"
	"github.com/brightsteps/brightsteps-web/internal/adapters/hostedauth"
	"github.com/brightsteps/brightsteps-web/internal/adapters/pgauth"
	redisadapter "github.com/brightsteps/brightsteps-web/internal/adapters/redis"
	"github.com/brightsteps/brightsteps-web/internal/ports"
	"github.com/brightsteps/brightsteps-web/internal/service"
)

// AuthConfig contains configuration for auth service.
type AuthConfig struct {
	Auth config.AuthConfig
	// Accounts backs the password mode provider; usually the admin repo.
	Accounts    pgauth.AccountReader
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// warn logs through the configured logger, tolerating a nil one in tests.
func (c AuthConfig) warn(msg string, args ...any) {
	if c.Logger != nil {
		c.Logger.Warn(msg, args...)
	}
}

// BuildAuthService creates an auth service based on the configured auth mode.
// Returns nil if auth is not configured or configuration is invalid; the
// router treats a nil auth service as "admin area disabled".
func BuildAuthService(cfg AuthConfig) *service.AuthService {
	if cfg.RedisClient == nil {
		cfg.warn("auth service disabled: redis client not configured", "mode", cfg.Auth.Mode)
		return nil
	}

	prov, err := providerForMode(cfg)
	if err != nil {
		cfg.warn("auth provider unavailable, admin area disabled",
			"mode", cfg.Auth.Mode, "error", err)
		return nil
	}
	if prov == nil {
		return nil
	}

	return service.NewAuthService(service.AuthServiceOptions{
		Provider: prov,
		Sessions: redisadapter.NewSessionStoreWithPrefix(cfg.RedisClient, "session:"),
		Roles: authroles.StaticRoleMapper{
			SuperAdminGroup: cfg.Auth.SuperAdminGroup,
			AdminGroup:      cfg.Auth.AdminGroup,
		},
	})
}

// providerForMode builds the credential provider for the configured mode. A
// nil provider with a nil error means the mode is unrecognized and auth stays
// off without a warning.
func providerForMode(cfg AuthConfig) (ports.AuthProvider, error) {
	switch cfg.Auth.Mode {
	case config.AuthModePassword:
		return pgauth.NewProvider(cfg.Accounts, pgauth.Config{
			SuperAdminGroup: cfg.Auth.SuperAdminGroup,
			AdminGroup:      cfg.Auth.AdminGroup,
			SessionDuration: cfg.Auth.SessionDuration,
		})

	case config.AuthModeHosted:
		return hostedProvider(cfg)

	case config.AuthModeMock:
		return devauth.NewProvider(devauth.Config{
			UserID:          "dev-admin",
			Email:           cfg.Auth.DevAuth.Email,
			DisplayName:     cfg.Auth.DevAuth.DisplayName,
			Password:        cfg.Auth.DevAuth.Password,
			Groups:          cfg.Auth.DevAuth.Groups,
			SessionDuration: cfg.Auth.SessionDuration,
		})

	default:
		return nil, nil
	}
}

func hostedProvider(cfg AuthConfig) (ports.AuthProvider, error) {
	hosted := cfg.Auth.Hosted
	if hosted.DiscoveryURL == "" || hosted.ClientID == "" || hosted.ClientSecret == "" {
		return nil, errors.New("hosted auth requires discovery URL, client ID, and client secret")
	}

	return hostedauth.NewProvider(hostedauth.ProviderConfig{
		ClientID:        hosted.ClientID,
		ClientSecret:    hosted.ClientSecret,
		Scope:           hosted.Scope,
		DiscoveryURL:    hosted.DiscoveryURL,
		EmailClaim:      hosted.EmailClaim,
		NameClaim:       hosted.NameClaim,
		GroupsClaim:     hosted.GroupsClaim,
		SessionDuration: cfg.Auth.SessionDuration,
	})
}
