package pgauth

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/brightsteps/brightsteps-web/internal/data"
	domainauth "github.com/brightsteps/brightsteps-web/internal/domain/auth"
	"github.com/brightsteps/brightsteps-web/internal/domain/model"
)

type stubAccounts struct {
	account *model.AdminAccount
	err     error
}

func (s *stubAccounts) GetByEmail(_ context.Context, _ string) (*model.AdminAccount, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.account, nil
}

func testAccount(t *testing.T, password string, role domainauth.Role, active bool) *model.AdminAccount {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return &model.AdminAccount{
		ID:           "acct-1",
		Email:        "admin@brightsteps.org",
		DisplayName:  "Site Admin",
		Role:         role,
		PasswordHash: string(hash),
		Active:       active,
	}
}

func TestProvider_SignIn_Success(t *testing.T) {
	account := testAccount(t, "correct horse battery", domainauth.RoleSuperAdmin, true)
	p, err := NewProvider(&stubAccounts{account: account}, Config{})
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}

	identity, err := p.SignIn(context.Background(), domainauth.Credentials{
		Email:    "admin@brightsteps.org",
		Password: "correct horse battery",
	})
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if identity.UserID != "acct-1" {
		t.Errorf("UserID = %q, want acct-1", identity.UserID)
	}
	if identity.DisplayName != "Site Admin" {
		t.Errorf("DisplayName = %q", identity.DisplayName)
	}
	if len(identity.Groups) != 1 || identity.Groups[0] != "super_admins" {
		t.Errorf("Groups = %v, want [super_admins]", identity.Groups)
	}
	if !identity.ExpiresAt.After(time.Now()) {
		t.Error("ExpiresAt should be in the future")
	}
}

func TestProvider_SignIn_AdminRoleGroup(t *testing.T) {
	account := testAccount(t, "pw1234567890", domainauth.RoleAdmin, true)
	p, err := NewProvider(&stubAccounts{account: account}, Config{AdminGroup: "staff"})
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}

	identity, err := p.SignIn(context.Background(), domainauth.Credentials{
		Email:    "admin@brightsteps.org",
		Password: "pw1234567890",
	})
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if len(identity.Groups) != 1 || identity.Groups[0] != "staff" {
		t.Errorf("Groups = %v, want [staff]", identity.Groups)
	}
}

func TestProvider_SignIn_InvalidCredentials(t *testing.T) {
	account := testAccount(t, "the real password", domainauth.RoleAdmin, true)

	tests := []struct {
		name     string
		accounts AccountReader
		creds    domainauth.Credentials
	}{
		{
			name:     "wrong password",
			accounts: &stubAccounts{account: account},
			creds:    domainauth.Credentials{Email: "admin@brightsteps.org", Password: "wrong"},
		},
		{
			name:     "empty password",
			accounts: &stubAccounts{account: account},
			creds:    domainauth.Credentials{Email: "admin@brightsteps.org"},
		},
		{
			name:     "empty email",
			accounts: &stubAccounts{account: account},
			creds:    domainauth.Credentials{Password: "the real password"},
		},
		{
			name:     "unknown account",
			accounts: &stubAccounts{err: data.ErrAdminNotFound},
			creds:    domainauth.Credentials{Email: "nobody@brightsteps.org", Password: "whatever"},
		},
		{
			name:     "deactivated account",
			accounts: &stubAccounts{account: testAccount(t, "the real password", domainauth.RoleAdmin, false)},
			creds:    domainauth.Credentials{Email: "admin@brightsteps.org", Password: "the real password"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProvider(tt.accounts, Config{})
			if err != nil {
				t.Fatalf("NewProvider: %v", err)
			}
			_, err = p.SignIn(context.Background(), tt.creds)
			if !errors.Is(err, domainauth.ErrInvalidCredentials) {
				t.Errorf("err = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

func TestProvider_SignIn_RepoErrorPassesThrough(t *testing.T) {
	repoErr := errors.New("connection refused")
	p, err := NewProvider(&stubAccounts{err: repoErr}, Config{})
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}

	_, err = p.SignIn(context.Background(), domainauth.Credentials{
		Email:    "admin@brightsteps.org",
		Password: "whatever",
	})
	if errors.Is(err, domainauth.ErrInvalidCredentials) {
		t.Error("infrastructure errors must not collapse into invalid credentials")
	}
	if !errors.Is(err, repoErr) {
		t.Errorf("err = %v, want wrapped repo error", err)
	}
}

func TestNewProvider_RequiresAccounts(t *testing.T) {
	if _, err := NewProvider(nil, Config{}); err == nil {
		t.Error("expected error for nil account reader")
	}
}
