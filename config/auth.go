package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModePassword verifies credentials against the admin_accounts table.
	AuthModePassword AuthMode = "password"
	// AuthModeHosted delegates credential verification to a hosted auth service.
	AuthModeHosted AuthMode = "hosted"
	// AuthModeMock uses mock/dev authentication (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	switch mode := AuthMode(strings.ToLower(string(text))); mode {
	case AuthModePassword, AuthModeHosted, AuthModeMock:
		*a = mode
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: password, hosted, mock)", mode)
	}
}

// HostedAuthConfig contains configuration for the hosted auth provider.
// The provider exchanges email/password for a bearer token via the OAuth2
// password grant and resolves identity from the OIDC userinfo endpoint.
type HostedAuthConfig struct {
	ClientID     string `env:"CLIENT_ID"     envDefault:"brightsteps"`
	ClientSecret string `env:"CLIENT_SECRET" envDefault:""`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email groups"`
	DiscoveryURL string `env:"DISCOVERY_URL"`

	// JMESPath expressions mapping userinfo claims to identity fields.
	// Defaults cover the common OIDC claim names.
	EmailClaim  string `env:"EMAIL_CLAIM"  envDefault:"email"`
	NameClaim   string `env:"NAME_CLAIM"   envDefault:"name"`
	GroupsClaim string `env:"GROUPS_CLAIM" envDefault:"groups"`
}

// DevAuthConfig controls mock/dev authentication identity.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	Email       string   `env:"EMAIL"        envDefault:"dev@brightsteps.org"`
	DisplayName string   `env:"DISPLAY_NAME" envDefault:"Dev Admin"`
	Password    string   `env:"PASSWORD"     envDefault:"brightsteps-dev"`
	Groups      []string `env:"GROUPS"       envDefault:"super_admins" envSeparator:";"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which authentication provider to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"password"`

	// Hosted auth configuration (used when Mode=hosted).
	Hosted HostedAuthConfig `envPrefix:"HOSTED_AUTH_"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`

	// SuperAdminGroup is the provider group granting the super admin role.
	SuperAdminGroup string `env:"SUPER_ADMIN_GROUP" envDefault:"super_admins"`

	// AdminGroup is the provider group granting the admin role.
	AdminGroup string `env:"ADMIN_GROUP" envDefault:"admins"`

	// SessionDuration bounds how long a session stays valid.
	SessionDuration time.Duration `env:"SESSION_DURATION" envDefault:"8h"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	if a.SessionDuration <= 0 {
		a.SessionDuration = 8 * time.Hour
	}
}
