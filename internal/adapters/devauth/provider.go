// Package devauth is a config-driven AuthProvider for local development:
// one fixed email/password pair, no external dependencies.
package devauth

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	domainauth "github.com/brightsteps/brightsteps-web/internal/domain/auth"
)

// Config describes the single development account. Every field except
// Groups is required.
type Config struct {
	UserID          string
	Email           string
	DisplayName     string
	Password        string
	Groups          []string
	SessionDuration time.Duration // default 8h when zero
}

// Provider implements ports.AuthProvider for local development.
// It accepts exactly one email/password pair and returns the configured identity.
type Provider struct {
	email           string
	password        string
	identity        domainauth.Identity
	sessionDuration time.Duration
}

// NewProvider builds the provider, rejecting configs missing credentials.
func NewProvider(cfg Config) (*Provider, error) {
	switch {
	case cfg.UserID == "":
		return nil, errors.New("dev auth: UserID is required")
	case cfg.Email == "":
		return nil, errors.New("dev auth: Email is required")
	case cfg.Password == "":
		return nil, errors.New("dev auth: Password is required")
	}
	dur := cfg.SessionDuration
	if dur == 0 {
		dur = 8 * time.Hour
	}
	return &Provider{
		email:    cfg.Email,
		password: cfg.Password,
		identity: domainauth.Identity{
			UserID:      cfg.UserID,
			Email:       cfg.Email,
			DisplayName: cfg.DisplayName,
			Groups:      append([]string(nil), cfg.Groups...),
		},
		sessionDuration: dur,
	}, nil
}

// SignIn verifies the submitted credentials against the configured pair.
func (p *Provider) SignIn(_ context.Context, creds domainauth.Credentials) (domainauth.Identity, error) {
	emailOK := strings.EqualFold(strings.TrimSpace(creds.Email), p.email)
	passOK := subtle.ConstantTimeCompare([]byte(creds.Password), []byte(p.password)) == 1
	if !emailOK || !passOK {
		return domainauth.Identity{}, domainauth.ErrInvalidCredentials
	}
	id := p.identity
	id.Groups = append([]string(nil), p.identity.Groups...)
	id.ExpiresAt = time.Now().Add(p.sessionDuration)
	return id, nil
}
