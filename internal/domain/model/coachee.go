//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const maxCoacheeNotesLen = 4000

// Coachee represents a mentee in the program. CoachID is nil while the
// coachee is unassigned.
type Coachee struct {
	ID        string    `json:"id"                   db:"id"`
	Name      string    `json:"name"                 db:"name"`
	Email     string    `json:"email"                db:"email"`
	Notes     string    `json:"notes"                db:"notes"`
	CoachID   *string   `json:"coach_id,omitempty"   db:"coach_id"`
	CoachName *string   `json:"coach_name,omitempty" db:"coach_name"`
	CreatedAt time.Time `json:"created_at"           db:"created_at"`
	UpdatedAt time.Time `json:"updated_at"           db:"updated_at"`
}

// CoacheesListOptions controls paging and filtering for listing coachees.
type CoacheesListOptions struct {
	Limit          int
	Offset         int
	UnassignedOnly bool
	Q              *string // substring match on name (ILIKE)
}

// CreateCoacheeRequest represents parameters to create a Coachee.
type CreateCoacheeRequest struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Notes   string  `json:"notes,omitempty"`
	CoachID *string `json:"coach_id,omitempty"`
}

// UpdateCoacheeRequest represents parameters to update a Coachee.
// Assigning and unassigning a coach goes through AssignCoach instead.
type UpdateCoacheeRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
	Notes *string `json:"notes,omitempty"`
}

// Validate validates CreateCoacheeRequest.
func (r *CreateCoacheeRequest) Validate() error {
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
	if utf8.RuneCountInString(r.Notes) > maxCoacheeNotesLen {
		return errors.New("notes cannot exceed 4000 characters")
	}
	if r.CoachID != nil && strings.TrimSpace(*r.CoachID) == "" {
		return errors.New("coach_id cannot be empty when set")
	}
	return nil
}

// HasUpdates reports whether any field is set in UpdateCoacheeRequest.
func (r *UpdateCoacheeRequest) HasUpdates() bool {
	return r.Name != nil || r.Email != nil || r.Notes != nil
}

// Validate validates UpdateCoacheeRequest.
func (r *UpdateCoacheeRequest) Validate() error {
	if !r.HasUpdates() {
		return errors.New("at least one field must be updated")
	}
	if err := normalizeNameUpdate(r.Name, "name"); err != nil {
		return err
	}
	if err := normalizeEmailUpdate(r.Email); err != nil {
		return err
	}
	if r.Notes != nil && utf8.RuneCountInString(*r.Notes) > maxCoacheeNotesLen {
		return errors.New("notes cannot exceed 4000 characters")
	}
	return nil
}
