package data

import "errors"

// Shared sentinel errors for data-layer repositories.
var (
	// Blog repository sentinels.
	ErrBlogPostNotFound = errors.New("blog post not found")
	ErrBlogSlugExists   = errors.New("blog post slug already exists")

	// Gallery repository sentinels.
	ErrGalleryImageNotFound = errors.New("gallery image not found")

	// Coach repository sentinels.
	ErrCoachNotFound    = errors.New("coach not found")
	ErrCoachEmailExists = errors.New("coach email already exists")

	// Coachee repository sentinels.
	ErrCoacheeNotFound    = errors.New("coachee not found")
	ErrCoacheeEmailExists = errors.New("coachee email already exists")
	ErrCoachMissing       = errors.New("referenced coach does not exist")

	// Mentor application sentinels.
	ErrApplicationNotFound    = errors.New("mentor application not found")
	ErrApplicationEmailExists = errors.New("mentor application for this email already exists")

	// Event repository sentinels.
	ErrEventNotFound    = errors.New("event not found")
	ErrEventFull        = errors.New("event is at capacity")
	ErrAlreadyAttending = errors.New("this email has already RSVPed to the event")

	// Admin account repository sentinels.
	ErrAdminNotFound    = errors.New("admin account not found")
	ErrAdminEmailExists = errors.New("admin account email already exists")
)
