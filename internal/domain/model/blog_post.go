//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxBlogTitleLen  = 255
	maxBlogAuthorLen = 120
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// BlogPost represents a blog article. Body is Markdown source; rendering to
// HTML happens in the blog service, not here.
type BlogPost struct {
	ID          string     `json:"id"                     db:"id"`
	Title       string     `json:"title"                  db:"title"`
	Slug        string     `json:"slug"                   db:"slug"`
	Body        string     `json:"body"                   db:"body"`
	AuthorName  string     `json:"author_name"            db:"author_name"`
	Published   bool       `json:"published"              db:"published"`
	PublishedAt *time.Time `json:"published_at,omitempty" db:"published_at"`
	CreatedAt   time.Time  `json:"created_at"             db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"             db:"updated_at"`
}

// BlogPostsListOptions controls paging and filtering for listing blog posts.
// PublishedOnly restricts results to published posts (the public site always
// sets it; the admin section never does).
type BlogPostsListOptions struct {
	Limit         int
	Offset        int
	PublishedOnly bool
	Q             *string // substring match on title (ILIKE)
}

// CreateBlogPostRequest represents parameters to create a BlogPost.
type CreateBlogPostRequest struct {
	Title      string `json:"title"`
	Slug       string `json:"slug,omitempty"` // derived from title when empty
	Body       string `json:"body"`
	AuthorName string `json:"author_name"`
	Published  bool   `json:"published"`
}

// UpdateBlogPostRequest represents parameters to update a BlogPost.
type UpdateBlogPostRequest struct {
	Title      *string `json:"title,omitempty"`
	Slug       *string `json:"slug,omitempty"`
	Body       *string `json:"body,omitempty"`
	AuthorName *string `json:"author_name,omitempty"`
	Published  *bool   `json:"published,omitempty"`
}

// Slugify derives a URL slug from a title: lowercase, non-alphanumerics
// collapsed to single hyphens.
func Slugify(title string) string {
	var b strings.Builder
	lastHyphen := true // suppress leading hyphen
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// Validate validates CreateBlogPostRequest and fills a derived slug.
func (r *CreateBlogPostRequest) Validate() error {
	title := strings.TrimSpace(r.Title)
	if title == "" {
		return errors.New("title is required and cannot be empty")
	}
	if utf8.RuneCountInString(title) > maxBlogTitleLen {
		return errors.New("title cannot exceed 255 characters")
	}
	if strings.TrimSpace(r.Body) == "" {
		return errors.New("body is required and cannot be empty")
	}
	if utf8.RuneCountInString(r.AuthorName) > maxBlogAuthorLen {
		return errors.New("author_name cannot exceed 120 characters")
	}
	if r.Slug == "" {
		r.Slug = Slugify(title)
	}
	if !slugPattern.MatchString(r.Slug) {
		return errors.New("slug must contain only lowercase letters, digits and hyphens")
	}
	return nil
}

// HasUpdates reports whether any field is set in UpdateBlogPostRequest.
func (r *UpdateBlogPostRequest) HasUpdates() bool {
	return r.Title != nil || r.Slug != nil || r.Body != nil || r.AuthorName != nil || r.Published != nil
}

// Validate validates UpdateBlogPostRequest, ensuring at least one field is set and values are sane.
func (r *UpdateBlogPostRequest) Validate() error {
	if !r.HasUpdates() {
		return errors.New("at least one field must be updated")
	}
	if r.Title != nil {
		t := strings.TrimSpace(*r.Title)
		if t == "" {
			return errors.New("title cannot be empty")
		}
		if utf8.RuneCountInString(t) > maxBlogTitleLen {
			return errors.New("title cannot exceed 255 characters")
		}
	}
	if r.Slug != nil && !slugPattern.MatchString(*r.Slug) {
		return errors.New("slug must contain only lowercase letters, digits and hyphens")
	}
	if r.Body != nil && strings.TrimSpace(*r.Body) == "" {
		return errors.New("body cannot be empty")
	}
	if r.AuthorName != nil && utf8.RuneCountInString(*r.AuthorName) > maxBlogAuthorLen {
		return errors.New("author_name cannot exceed 120 characters")
	}
	return nil
}
