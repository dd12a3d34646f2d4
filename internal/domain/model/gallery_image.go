//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

const maxGalleryCaptionLen = 500

// GalleryImage represents one image on the public gallery page.
// The image itself lives at an external URL; no uploads or processing here.
type GalleryImage struct {
	ID        string    `json:"id"         db:"id"`
	ImageURL  string    `json:"image_url"  db:"image_url"`
	Caption   string    `json:"caption"    db:"caption"`
	SortOrder int       `json:"sort_order" db:"sort_order"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CreateGalleryImageRequest represents parameters to create a GalleryImage.
type CreateGalleryImageRequest struct {
	ImageURL  string `json:"image_url"`
	Caption   string `json:"caption,omitempty"`
	SortOrder int    `json:"sort_order"`
}

// UpdateGalleryImageRequest represents parameters to update a GalleryImage.
type UpdateGalleryImageRequest struct {
	ImageURL  *string `json:"image_url,omitempty"`
	Caption   *string `json:"caption,omitempty"`
	SortOrder *int    `json:"sort_order,omitempty"`
}

func validImageURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Validate validates CreateGalleryImageRequest.
func (r *CreateGalleryImageRequest) Validate() error {
	r.ImageURL = strings.TrimSpace(r.ImageURL)
	if r.ImageURL == "" {
		return errors.New("image_url is required and cannot be empty")
	}
	if !validImageURL(r.ImageURL) {
		return errors.New("image_url must be an absolute http(s) URL")
	}
	if utf8.RuneCountInString(r.Caption) > maxGalleryCaptionLen {
		return errors.New("caption cannot exceed 500 characters")
	}
	if r.SortOrder < 0 {
		return errors.New("sort_order cannot be negative")
	}
	return nil
}

// HasUpdates reports whether any field is set in UpdateGalleryImageRequest.
func (r *UpdateGalleryImageRequest) HasUpdates() bool {
	return r.ImageURL != nil || r.Caption != nil || r.SortOrder != nil
}

// Validate validates UpdateGalleryImageRequest.
func (r *UpdateGalleryImageRequest) Validate() error {
	if !r.HasUpdates() {
		return errors.New("at least one field must be updated")
	}
	if r.ImageURL != nil {
		u := strings.TrimSpace(*r.ImageURL)
		if u == "" || !validImageURL(u) {
			return errors.New("image_url must be an absolute http(s) URL")
		}
		*r.ImageURL = u
	}
	if r.Caption != nil && utf8.RuneCountInString(*r.Caption) > maxGalleryCaptionLen {
		return errors.New("caption cannot exceed 500 characters")
	}
	if r.SortOrder != nil && *r.SortOrder < 0 {
		return errors.New("sort_order cannot be negative")
	}
	return nil
}
