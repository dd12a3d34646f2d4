package core

import (
	"context"

	"github.com/brightsteps/brightsteps-web/internal/domain/model"
)

// This file contains repository interface definitions (ports in hexagonal architecture).
// These interfaces define the contracts between the service layer and data layer.
// Service implementations should depend on these interfaces, not concrete implementations.

// BlogRepository defines the interface for blog post data operations.
type BlogRepository interface {
	Create(ctx context.Context, req *model.CreateBlogPostRequest) (*model.BlogPost, error)
	GetByID(ctx context.Context, id string) (*model.BlogPost, error)
	GetBySlug(ctx context.Context, slug string) (*model.BlogPost, error)
	List(ctx context.Context, opts model.BlogPostsListOptions) ([]*model.BlogPost, error)
	Count(ctx context.Context, publishedOnly bool) (int, error)
	Update(ctx context.Context, id string, req model.UpdateBlogPostRequest) (*model.BlogPost, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// GalleryRepository defines the interface for gallery image data operations.
type GalleryRepository interface {
	Create(ctx context.Context, req *model.CreateGalleryImageRequest) (*model.GalleryImage, error)
	GetByID(ctx context.Context, id string) (*model.GalleryImage, error)
	List(ctx context.Context, limit, offset int) ([]*model.GalleryImage, error)
	Count(ctx context.Context) (int, error)
	Update(ctx context.Context, id string, req model.UpdateGalleryImageRequest) (*model.GalleryImage, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// CoachRepository defines the interface for coach data operations.
type CoachRepository interface {
	Create(ctx context.Context, req *model.CreateCoachRequest) (*model.Coach, error)
	GetByID(ctx context.Context, id string) (*model.Coach, error)
	List(ctx context.Context, opts model.CoachesListOptions) ([]*model.Coach, error)
	Count(ctx context.Context, activeOnly bool) (int, error)
	Update(ctx context.Context, id string, req model.UpdateCoachRequest) (*model.Coach, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// CoacheeRepository defines the interface for coachee data operations.
type CoacheeRepository interface {
	Create(ctx context.Context, req *model.CreateCoacheeRequest) (*model.Coachee, error)
	GetByID(ctx context.Context, id string) (*model.Coachee, error)
	List(ctx context.Context, opts model.CoacheesListOptions) ([]*model.Coachee, error)
	Count(ctx context.Context) (int, error)
	Update(ctx context.Context, id string, req model.UpdateCoacheeRequest) (*model.Coachee, error)
	AssignCoach(ctx context.Context, id string, coachID *string) (*model.Coachee, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// ApplicationRepository defines the interface for mentor application data operations.
type ApplicationRepository interface {
	Create(ctx context.Context, req *model.CreateMentorApplicationRequest) (*model.MentorApplication, error)
	GetByID(ctx context.Context, id string) (*model.MentorApplication, error)
	List(ctx context.Context, limit, offset int) ([]*model.MentorApplication, error)
	Count(ctx context.Context) (int, error)
	// Approve atomically turns an application into a coach and removes it
	// from the queue.
	Approve(ctx context.Context, id string) (*model.Coach, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// EventsRepository defines the interface for event and RSVP data operations.
type EventsRepository interface {
	Create(ctx context.Context, req *model.CreateEventRequest) (*model.Event, error)
	GetByID(ctx context.Context, id string) (*model.Event, error)
	List(ctx context.Context, opts model.EventsListOptions) ([]*model.Event, error)
	CountUpcoming(ctx context.Context) (int, error)
	Update(ctx context.Context, id string, req model.UpdateEventRequest) (*model.Event, error)
	Delete(ctx context.Context, id string) (bool, error)
	CreateRSVP(ctx context.Context, req *model.CreateEventRSVPRequest) (*model.EventRSVP, error)
	ListRSVPs(ctx context.Context, eventID string) ([]*model.EventRSVP, error)
	DeleteRSVP(ctx context.Context, id string) (bool, error)
}

// AdminRepository defines the interface for admin account data operations.
// Create and Update take precomputed password hashes; hashing lives in the
// service layer.
type AdminRepository interface {
	Create(ctx context.Context, email, displayName, role, passwordHash string) (*model.AdminAccount, error)
	GetByID(ctx context.Context, id string) (*model.AdminAccount, error)
	GetByEmail(ctx context.Context, email string) (*model.AdminAccount, error)
	List(ctx context.Context) ([]*model.AdminAccount, error)
	Update(ctx context.Context, id string, fields AdminUpdateFields) (*model.AdminAccount, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// AdminUpdateFields mirrors data.AdminUpdateFields at the interface boundary.
type AdminUpdateFields struct {
	Email        *string
	DisplayName  *string
	Role         *string
	PasswordHash *string
	Active       *bool
}
