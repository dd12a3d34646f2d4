//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	domainauth "github.com/brightsteps/brightsteps-web/internal/domain/auth"
)

const (
	minAdminPasswordLen = 10
	maxAdminPasswordLen = 128
)

// AdminAccount is a staff account that can sign in to the admin panel.
// PasswordHash is a bcrypt hash; the plaintext never leaves the auth adapter.
type AdminAccount struct {
	ID           string          `json:"id"           db:"id"`
	Email        string          `json:"email"        db:"email"`
	DisplayName  string          `json:"display_name" db:"display_name"`
	Role         domainauth.Role `json:"role"         db:"role"`
	PasswordHash string          `json:"-"            db:"password_hash"`
	Active       bool            `json:"active"       db:"active"`
	CreatedAt    time.Time       `json:"created_at"   db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"   db:"updated_at"`
}

// AdminAccountsListOptions controls paging for listing admin accounts.
type AdminAccountsListOptions struct {
	Limit  int
	Offset int
	Q      *string // substring match on email or display name (ILIKE)
}

// CreateAdminAccountRequest represents parameters to create an AdminAccount.
// Password is plaintext here; the admin service hashes it before storage.
type CreateAdminAccountRequest struct {
	Email       string          `json:"email"`
	DisplayName string          `json:"display_name"`
	Role        domainauth.Role `json:"role"`
	Password    string          `json:"password"`
}

// UpdateAdminAccountRequest represents parameters to update an AdminAccount.
type UpdateAdminAccountRequest struct {
	Email       *string          `json:"email,omitempty"`
	DisplayName *string          `json:"display_name,omitempty"`
	Role        *domainauth.Role `json:"role,omitempty"`
	Password    *string          `json:"password,omitempty"`
	Active      *bool            `json:"active,omitempty"`
}

func validAdminRole(role domainauth.Role) bool {
	return role == domainauth.RoleSuperAdmin || role == domainauth.RoleAdmin
}

func validAdminPassword(pw string) error {
	if utf8.RuneCountInString(pw) < minAdminPasswordLen {
		return errors.New("password must be at least 10 characters")
	}
	if utf8.RuneCountInString(pw) > maxAdminPasswordLen {
		return errors.New("password cannot exceed 128 characters")
	}
	return nil
}

// Validate validates CreateAdminAccountRequest.
func (r *CreateAdminAccountRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if r.Email == "" {
		return errors.New("email is required and cannot be empty")
	}
	if !validEmail(r.Email) {
		return errors.New("email is not valid")
	}
	r.DisplayName = strings.TrimSpace(r.DisplayName)
	if r.DisplayName == "" {
		return errors.New("display_name is required and cannot be empty")
	}
	if utf8.RuneCountInString(r.DisplayName) > maxPersonNameLen {
		return errors.New("display_name cannot exceed 120 characters")
	}
	if !validAdminRole(r.Role) {
		return errors.New("role must be super_admin or admin")
	}
	return validAdminPassword(r.Password)
}

// HasUpdates reports whether any field is set in UpdateAdminAccountRequest.
func (r *UpdateAdminAccountRequest) HasUpdates() bool {
	return r.Email != nil || r.DisplayName != nil || r.Role != nil || r.Password != nil || r.Active != nil
}

// Validate validates UpdateAdminAccountRequest.
func (r *UpdateAdminAccountRequest) Validate() error {
	if !r.HasUpdates() {
		return errors.New("at least one field must be updated")
	}
	if err := normalizeEmailUpdate(r.Email); err != nil {
		return err
	}
	if err := normalizeNameUpdate(r.DisplayName, "display_name"); err != nil {
		return err
	}
	if r.Role != nil && !validAdminRole(*r.Role) {
		return errors.New("role must be super_admin or admin")
	}
	if r.Password != nil {
		if err := validAdminPassword(*r.Password); err != nil {
			return err
		}
	}
	return nil
}
