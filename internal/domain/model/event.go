//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxEventTitleLen       = 255
	maxEventLocationLen    = 255
	maxEventDescriptionLen = 4000
)

// Event represents a community event. Published events appear on the public
// events page, where visitors can RSVP until capacity is reached.
type Event struct {
	ID          string     `json:"id"                 db:"id"`
	Title       string     `json:"title"              db:"title"`
	Description string     `json:"description"        db:"description"`
	Location    string     `json:"location"           db:"location"`
	StartsAt    time.Time  `json:"starts_at"          db:"starts_at"`
	EndsAt      *time.Time `json:"ends_at,omitempty"  db:"ends_at"`
	Capacity    int        `json:"capacity"           db:"capacity"` // 0 means unlimited
	Published   bool       `json:"published"          db:"published"`
	RSVPCount   int        `json:"rsvp_count"         db:"rsvp_count"`
	CreatedAt   time.Time  `json:"created_at"         db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"         db:"updated_at"`
}

// Full reports whether the event has a capacity and it has been reached.
func (e Event) Full() bool {
	return e.Capacity > 0 && e.RSVPCount >= e.Capacity
}

// EventRSVP is one attendance record for an event.
type EventRSVP struct {
	ID        string    `json:"id"         db:"id"`
	EventID   string    `json:"event_id"   db:"event_id"`
	Name      string    `json:"name"       db:"name"`
	Email     string    `json:"email"      db:"email"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// EventsListOptions controls paging and filtering for listing events.
type EventsListOptions struct {
	Limit         int
	Offset        int
	PublishedOnly bool
	UpcomingOnly  bool // starts_at >= now
}

// CreateEventRequest represents parameters to create an Event.
type CreateEventRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Location    string     `json:"location,omitempty"`
	StartsAt    time.Time  `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
	Capacity    int        `json:"capacity"`
	Published   bool       `json:"published"`
}

// UpdateEventRequest represents parameters to update an Event.
type UpdateEventRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Location    *string    `json:"location,omitempty"`
	StartsAt    *time.Time `json:"starts_at,omitempty"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
	Capacity    *int       `json:"capacity,omitempty"`
	Published   *bool      `json:"published,omitempty"`
}

// CreateEventRSVPRequest represents an RSVP submitted from the public events page.
type CreateEventRSVPRequest struct {
	EventID string `json:"event_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
}

// Validate validates CreateEventRequest.
func (r *CreateEventRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return errors.New("title is required and cannot be empty")
	}
	if utf8.RuneCountInString(r.Title) > maxEventTitleLen {
		return errors.New("title cannot exceed 255 characters")
	}
	if utf8.RuneCountInString(r.Location) > maxEventLocationLen {
		return errors.New("location cannot exceed 255 characters")
	}
	if utf8.RuneCountInString(r.Description) > maxEventDescriptionLen {
		return errors.New("description cannot exceed 4000 characters")
	}
	if r.StartsAt.IsZero() {
		return errors.New("starts_at is required")
	}
	if r.EndsAt != nil && r.EndsAt.Before(r.StartsAt) {
		return errors.New("ends_at cannot be before starts_at")
	}
	if r.Capacity < 0 {
		return errors.New("capacity cannot be negative")
	}
	return nil
}

// HasUpdates reports whether any field is set in UpdateEventRequest.
func (r *UpdateEventRequest) HasUpdates() bool {
	return r.Title != nil || r.Description != nil || r.Location != nil ||
		r.StartsAt != nil || r.EndsAt != nil || r.Capacity != nil || r.Published != nil
}

// Validate validates UpdateEventRequest.
func (r *UpdateEventRequest) Validate() error {
	if !r.HasUpdates() {
		return errors.New("at least one field must be updated")
	}
	if r.Title != nil {
		t := strings.TrimSpace(*r.Title)
		if t == "" {
			return errors.New("title cannot be empty")
		}
		if utf8.RuneCountInString(t) > maxEventTitleLen {
			return errors.New("title cannot exceed 255 characters")
		}
		*r.Title = t
	}
	if r.Location != nil && utf8.RuneCountInString(*r.Location) > maxEventLocationLen {
		return errors.New("location cannot exceed 255 characters")
	}
	if r.Description != nil && utf8.RuneCountInString(*r.Description) > maxEventDescriptionLen {
		return errors.New("description cannot exceed 4000 characters")
	}
	if r.StartsAt != nil && r.StartsAt.IsZero() {
		return errors.New("starts_at cannot be zero")
	}
	if r.StartsAt != nil && r.EndsAt != nil && r.EndsAt.Before(*r.StartsAt) {
		return errors.New("ends_at cannot be before starts_at")
	}
	if r.Capacity != nil && *r.Capacity < 0 {
		return errors.New("capacity cannot be negative")
	}
	return nil
}

// Validate validates CreateEventRSVPRequest.
func (r *CreateEventRSVPRequest) Validate() error {
	if strings.TrimSpace(r.EventID) == "" {
		return errors.New("event_id is required")
	}
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return errors.New("name is required and cannot be empty")
	}
	if utf8.RuneCountInString(r.Name) > maxPersonNameLen {
		return errors.New("name cannot exceed 120 characters")
	}
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if !validEmail(r.Email) {
		return errors.New("email is not valid")
	}
	return nil
}
