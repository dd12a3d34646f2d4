//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxApplicationPhoneLen      = 40
	maxApplicationMotivationLen = 4000
)

// MentorApplication is a pending request from a visitor who would like to
// become a coach. It stays pending until a super admin approves it (which
// creates a Coach and removes the application in one transaction) or
// rejects it.
type MentorApplication struct {
	ID         string    `json:"id"              db:"id"`
	Name       string    `json:"name"            db:"name"`
	Email      string    `json:"email"           db:"email"`
	Phone      string    `json:"phone"           db:"phone"`
	Motivation string    `json:"motivation"      db:"motivation"`
	CreatedAt  time.Time `json:"created_at"      db:"created_at"`
}

// CreateMentorApplicationRequest represents the public application form.
type CreateMentorApplicationRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone,omitempty"`
	Motivation string `json:"motivation"`
}

// Validate validates CreateMentorApplicationRequest.
func (r *CreateMentorApplicationRequest) Validate() error {
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
	r.Phone = strings.TrimSpace(r.Phone)
	if utf8.RuneCountInString(r.Phone) > maxApplicationPhoneLen {
		return errors.New("phone cannot exceed 40 characters")
	}
	r.Motivation = strings.TrimSpace(r.Motivation)
	if r.Motivation == "" {
		return errors.New("motivation is required and cannot be empty")
	}
	if utf8.RuneCountInString(r.Motivation) > maxApplicationMotivationLen {
		return errors.New("motivation cannot exceed 4000 characters")
	}
	return nil
}
