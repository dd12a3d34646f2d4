//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxPersonNameLen = 120
	maxCoachBioLen   = 4000
)

// Coach represents an approved mentor shown on the public site and managed
// in the admin Coaches section.
type Coach struct {
	ID        string    `json:"id"                  db:"id"`
	Name      string    `json:"name"                db:"name"`
	Email     string    `json:"email"               db:"email"`
	Bio       string    `json:"bio"                 db:"bio"`
	PhotoURL  *string   `json:"photo_url,omitempty" db:"photo_url"`
	Active    bool      `json:"active"              db:"active"`
	CreatedAt time.Time `json:"created_at"          db:"created_at"`
	UpdatedAt time.Time `json:"updated_at"          db:"updated_at"`
}

// CoachesListOptions controls paging and filtering for listing coaches.
type CoachesListOptions struct {
	Limit      int
	Offset     int
	ActiveOnly bool
	Q          *string // substring match on name (ILIKE)
}

// CreateCoachRequest represents parameters to create a Coach.
type CreateCoachRequest struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Bio      string  `json:"bio,omitempty"`
	PhotoURL *string `json:"photo_url,omitempty"`
	Active   *bool   `json:"active,omitempty"` // defaults to true
}

// UpdateCoachRequest represents parameters to update a Coach.
type UpdateCoachRequest struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Bio      *string `json:"bio,omitempty"`
	PhotoURL *string `json:"photo_url,omitempty"`
	Active   *bool   `json:"active,omitempty"`
}

func validEmail(email string) bool {
	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return false
	}
	return !strings.ContainsAny(email, " \t\n")
}

// normalizeNameUpdate trims an optional name change in place. field is the
// request key used in error messages.
func normalizeNameUpdate(name *string, field string) error {
	if name == nil {
		return nil
	}
	n := strings.TrimSpace(*name)
	switch {
	case n == "":
		return errors.New(field + " cannot be empty")
	case utf8.RuneCountInString(n) > maxPersonNameLen:
		return errors.New(field + " cannot exceed 120 characters")
	}
	*name = n
	return nil
}

// normalizeEmailUpdate lowercases and validates an optional email change in
// place.
func normalizeEmailUpdate(email *string) error {
	if email == nil {
		return nil
	}
	e := strings.ToLower(strings.TrimSpace(*email))
	if !validEmail(e) {
		return errors.New("email is not valid")
	}
	*email = e
	return nil
}

// Validate validates CreateCoachRequest.
func (r *CreateCoachRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return errors.New("name is required and cannot be empty")
	}
	if utf8.RuneCountInString(r.Name) > maxPersonNameLen {
		return errors.New("name cannot exceed 120 characters")
	}
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if r.Email == "" {
		return errors.New("email is required and cannot be empty")
	}
	if !validEmail(r.Email) {
		return errors.New("email is not valid")
	}
	if utf8.RuneCountInString(r.Bio) > maxCoachBioLen {
		return errors.New("bio cannot exceed 4000 characters")
	}
	return nil
}

// HasUpdates reports whether any field is set in UpdateCoachRequest.
func (r *UpdateCoachRequest) HasUpdates() bool {
	return r.Name != nil || r.Email != nil || r.Bio != nil || r.PhotoURL != nil || r.Active != nil
}

// Validate validates UpdateCoachRequest.
func (r *UpdateCoachRequest) Validate() error {
	if !r.HasUpdates() {
		return errors.New("at least one field must be updated")
	}
	if err := normalizeNameUpdate(r.Name, "name"); err != nil {
		return err
	}
	if err := normalizeEmailUpdate(r.Email); err != nil {
		return err
	}
	if r.Bio != nil && utf8.RuneCountInString(*r.Bio) > maxCoachBioLen {
		return errors.New("bio cannot exceed 4000 characters")
	}
	return nil
}
