package pgauth

// Package pgauth verifies admin credentials against the admin_accounts table.
// It is the default sign-in path when no hosted identity provider is
// configured.

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/brightsteps/brightsteps-web/internal/data"
	domainauth "github.com/brightsteps/brightsteps-web/internal/domain/auth"
	"github.com/brightsteps/brightsteps-web/internal/domain/model"
)

// AccountReader is the slice of the admin repository the provider needs.
type AccountReader interface {
	GetByEmail(ctx context.Context, email string) (*model.AdminAccount, error)
}

// Config holds settings for the database-backed auth provider.
type Config struct {
	// SuperAdminGroup and AdminGroup name the groups emitted on the
	// identity so the role mapper treats database accounts the same as
	// identities from a hosted provider.
	SuperAdminGroup string
	AdminGroup      string
	SessionDuration time.Duration
}

// Provider authenticates against stored bcrypt password hashes.
type Provider struct {
	accounts        AccountReader
	superAdminGroup string
	adminGroup      string
	sessionDuration time.Duration
}

// NewProvider creates a Provider backed by the given account reader.
func NewProvider(accounts AccountReader, cfg Config) (*Provider, error) {
	if accounts == nil {
		return nil, errors.New("pgauth: account reader is required")
	}
	if cfg.SuperAdminGroup == "" {
		cfg.SuperAdminGroup = "super_admins"
	}
	if cfg.AdminGroup == "" {
		cfg.AdminGroup = "admins"
	}
	if cfg.SessionDuration <= 0 {
		cfg.SessionDuration = 8 * time.Hour
	}
	return &Provider{
		accounts:        accounts,
		superAdminGroup: cfg.SuperAdminGroup,
		adminGroup:      cfg.AdminGroup,
		sessionDuration: cfg.SessionDuration,
	}, nil
}

// SignIn verifies the credentials and returns the account identity. Unknown
// emails, wrong passwords and deactivated accounts all come back as
// ErrInvalidCredentials so the login form reveals nothing about which it was.
func (p *Provider) SignIn(ctx context.Context, creds domainauth.Credentials) (domainauth.Identity, error) {
	email := strings.TrimSpace(creds.Email)
	if email == "" || creds.Password == "" {
		return domainauth.Identity{}, domainauth.ErrInvalidCredentials
	}

	account, err := p.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, data.ErrAdminNotFound) {
			// Burn a compare anyway to keep timing consistent with the
			// wrong-password path.
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(creds.Password))
			return domainauth.Identity{}, domainauth.ErrInvalidCredentials
		}
		return domainauth.Identity{}, fmt.Errorf("pgauth: lookup account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(creds.Password)); err != nil {
		return domainauth.Identity{}, domainauth.ErrInvalidCredentials
	}
	if !account.Active {
		return domainauth.Identity{}, domainauth.ErrInvalidCredentials
	}

	return domainauth.Identity{
		UserID:      account.ID,
		Email:       account.Email,
		DisplayName: account.DisplayName,
		Groups:      []string{p.groupForRole(account.Role)},
		ExpiresAt:   time.Now().Add(p.sessionDuration),
	}, nil
}

func (p *Provider) groupForRole(role domainauth.Role) string {
	if role == domainauth.RoleSuperAdmin {
		return p.superAdminGroup
	}
	return p.adminGroup
}

// dummyHash is a valid bcrypt hash of an unguessable value, used only to
// equalize timing when the account does not exist.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")
