package devseed

// Package devseed populates a development database with sample site content
// so the public pages and the admin area have something to show right after
// startup. Every seed is idempotent: duplicates reported by the data layer
// are treated as "already seeded" and skipped.

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/brightsteps/brightsteps-web/internal/data"
	domainauth "github.com/brightsteps/brightsteps-web/internal/domain/auth"
	"github.com/brightsteps/brightsteps-web/internal/domain/model"
	"github.com/brightsteps/brightsteps-web/internal/service"
)

// Deps bundles the services needed for development seeding.
type Deps struct {
	Blog         *service.BlogService
	Gallery      *service.GalleryService
	Coaches      *service.CoachService
	Coachees     *service.CoacheeService
	Applications *service.ApplicationService
	Events       *service.EventService
	Admins       *service.AdminService
	Logger       *slog.Logger

	// AdminEmail/AdminPassword seed the first sign-in account.
	AdminEmail       string
	AdminDisplayName string
	AdminPassword    string
}

// Seed executes the full development seeding workflow.
func Seed(ctx context.Context, d Deps) error {
	failures := 0
	failures += seedAdminAccount(ctx, d)
	coachIDs := seedCoaches(ctx, d, &failures)
	failures += seedCoachees(ctx, d, coachIDs)
	failures += seedBlogPosts(ctx, d)
	failures += seedGallery(ctx, d)
	failures += seedEvents(ctx, d)
	failures += seedApplications(ctx, d)

	if failures > 0 {
		return fmt.Errorf("%d seed errors; check logs", failures)
	}
	return nil
}

func seedAdminAccount(ctx context.Context, d Deps) int {
	if d.Admins == nil || d.AdminEmail == "" || d.AdminPassword == "" {
		return 0
	}

	displayName := d.AdminDisplayName
	if displayName == "" {
		displayName = "Dev Admin"
	}

	_, err := d.Admins.Create(ctx, &model.CreateAdminAccountRequest{
		Email:       d.AdminEmail,
		DisplayName: displayName,
		Role:        domainauth.RoleSuperAdmin,
		Password:    d.AdminPassword,
	})
	switch {
	case err == nil:
		logInfo(ctx, d.Logger, "seeded admin account", "email", d.AdminEmail)
	case errors.Is(err, data.ErrAdminEmailExists):
		// already seeded
	default:
		logWarn(ctx, d.Logger, "failed to seed admin account", "email", d.AdminEmail, "error", err)
		return 1
	}
	return 0
}

// seedCoaches creates the sample coaches and returns their IDs keyed by email
// so coachee seeding can assign mentors.
func seedCoaches(ctx context.Context, d Deps, failures *int) map[string]string {
	ids := make(map[string]string)
	if d.Coaches == nil {
		return ids
	}

	for _, req := range defaultCoaches() {
		coach, err := d.Coaches.Create(ctx, req)
		switch {
		case err == nil:
			ids[coach.Email] = coach.ID
			logInfo(ctx, d.Logger, "seeded coach", "name", req.Name)
		case errors.Is(err, data.ErrCoachEmailExists):
			// already seeded; look the ID up for coachee assignment
			if existing := findCoachByEmail(ctx, d.Coaches, req.Email); existing != nil {
				ids[existing.Email] = existing.ID
			}
		default:
			logWarn(ctx, d.Logger, "failed to seed coach", "name", req.Name, "error", err)
			*failures++
		}
	}
	return ids
}

func findCoachByEmail(ctx context.Context, svc *service.CoachService, email string) *model.Coach {
	coaches, err := svc.List(ctx, model.CoachesListOptions{Limit: 100})
	if err != nil {
		return nil
	}
	for _, c := range coaches {
		if c.Email == email {
			return c
		}
	}
	return nil
}

func defaultCoaches() []*model.CreateCoachRequest {
	return []*model.CreateCoachRequest{
		{
			Name:  "Maya Okafor",
			Email: "maya.okafor@brightsteps.org",
			Bio:   "Former college counselor with a decade of experience helping first-generation students find their footing.",
		},
		{
			Name:  "Daniel Reyes",
			Email: "daniel.reyes@brightsteps.org",
			Bio:   "Software engineer and weekend soccer coach. Runs our tutoring and STEM workshop sessions.",
		},
		{
			Name:  "Priya Natarajan",
			Email: "priya.natarajan@brightsteps.org",
			Bio:   "Arts educator focused on creative expression as a path to confidence.",
		},
	}
}

func seedCoachees(ctx context.Context, d Deps, coachIDs map[string]string) int {
	if d.Coachees == nil {
		return 0
	}

	failures := 0
	for _, seed := range defaultCoachees(coachIDs) {
		_, err := d.Coachees.Create(ctx, seed)
		switch {
		case err == nil:
			logInfo(ctx, d.Logger, "seeded coachee", "name", seed.Name)
		case errors.Is(err, data.ErrCoacheeEmailExists):
			// already seeded
		default:
			logWarn(ctx, d.Logger, "failed to seed coachee", "name", seed.Name, "error", err)
			failures++
		}
	}
	return failures
}

func defaultCoachees(coachIDs map[string]string) []*model.CreateCoacheeRequest {
	var mayaID *string
	if id, ok := coachIDs["maya.okafor@brightsteps.org"]; ok {
		mayaID = &id
	}

	return []*model.CreateCoacheeRequest{
		{
			Name:    "Jordan Willis",
			Email:   "jordan.willis@example.com",
			Notes:   "10th grade. Interested in robotics club and college prep.",
			CoachID: mayaID,
		},
		{
			Name:  "Aaliyah Chen",
			Email: "aaliyah.chen@example.com",
			Notes: "New this semester. Waiting for mentor match.",
		},
	}
}

func seedBlogPosts(ctx context.Context, d Deps) int {
	if d.Blog == nil {
		return 0
	}

	failures := 0
	for _, req := range defaultBlogPosts() {
		_, err := d.Blog.Create(ctx, req)
		switch {
		case err == nil:
			logInfo(ctx, d.Logger, "seeded blog post", "slug", req.Slug)
		case errors.Is(err, data.ErrBlogSlugExists):
			// already seeded
		default:
			logWarn(ctx, d.Logger, "failed to seed blog post", "slug", req.Slug, "error", err)
			failures++
		}
	}
	return failures
}

func defaultBlogPosts() []*model.CreateBlogPostRequest {
	return []*model.CreateBlogPostRequest{
		{
			Title:      "Welcome to the new Bright Steps site",
			Slug:       "welcome-to-the-new-site",
			AuthorName: "Maya Okafor",
			Published:  true,
			Body: "We are thrilled to launch our new home on the web.\n\n" +
				"Here you will find **program updates**, event announcements, and stories " +
				"from our mentors and students.\n\n" +
				"## What to expect\n\n" +
				"- Monthly program recaps\n" +
				"- Volunteer spotlights\n" +
				"- Event photos in the [gallery](/gallery)\n",
		},
		{
			Title:      "Summer camp registration opens soon",
			Slug:       "summer-camp-registration",
			AuthorName: "Daniel Reyes",
			Published:  true,
			Body: "Our summer camp returns this July with two weeks of workshops, " +
				"field trips, and team projects.\n\nRegistration opens on the first of " +
				"the month. Keep an eye on the [events page](/events) for details.",
		},
		{
			Title:      "Draft: volunteer handbook refresh",
			Slug:       "volunteer-handbook-refresh",
			AuthorName: "Priya Natarajan",
			Published:  false,
			Body:       "Working notes for the updated volunteer handbook. Not ready to publish.",
		},
	}
}

func seedGallery(ctx context.Context, d Deps) int {
	if d.Gallery == nil {
		return 0
	}

	// Gallery images have no natural unique key; only seed into an empty
	// gallery so restarts do not pile up duplicates.
	count, err := d.Gallery.Count(ctx)
	if err != nil {
		logWarn(ctx, d.Logger, "failed to count gallery images", "error", err)
		return 1
	}
	if count > 0 {
		return 0
	}

	failures := 0
	for i, req := range defaultGalleryImages() {
		req.SortOrder = i
		if _, err := d.Gallery.Create(ctx, req); err != nil {
			logWarn(ctx, d.Logger, "failed to seed gallery image", "url", req.ImageURL, "error", err)
			failures++
		}
	}
	return failures
}

func defaultGalleryImages() []*model.CreateGalleryImageRequest {
	return []*model.CreateGalleryImageRequest{
		{ImageURL: "https://images.brightsteps.org/dev/tutoring-session.jpg", Caption: "Tuesday tutoring session"},
		{ImageURL: "https://images.brightsteps.org/dev/soccer-practice.jpg", Caption: "Spring soccer practice"},
		{ImageURL: "https://images.brightsteps.org/dev/art-showcase.jpg", Caption: "Student art showcase"},
	}
}

func seedEvents(ctx context.Context, d Deps) int {
	if d.Events == nil {
		return 0
	}

	// Same story as the gallery: no unique key, so seed only once.
	count, err := d.Events.CountUpcoming(ctx)
	if err != nil {
		logWarn(ctx, d.Logger, "failed to count events", "error", err)
		return 1
	}
	if count > 0 {
		return 0
	}

	failures := 0
	for _, req := range defaultEvents() {
		if _, err := d.Events.Create(ctx, req); err != nil {
			logWarn(ctx, d.Logger, "failed to seed event", "title", req.Title, "error", err)
			failures++
		}
	}
	return failures
}

func defaultEvents() []*model.CreateEventRequest {
	openHouse := time.Now().AddDate(0, 0, 14).Truncate(time.Hour)
	openHouseEnd := openHouse.Add(2 * time.Hour)
	gameNight := time.Now().AddDate(0, 1, 0).Truncate(time.Hour)

	return []*model.CreateEventRequest{
		{
			Title:       "Family Open House",
			Description: "Meet our mentors, tour the center, and learn about fall programs.",
			Location:    "Bright Steps Community Center",
			StartsAt:    openHouse,
			EndsAt:      &openHouseEnd,
			Capacity:    60,
			Published:   true,
		},
		{
			Title:       "Mentor & Student Game Night",
			Description: "Board games, pizza, and a chance to meet other families.",
			Location:    "Main Hall",
			StartsAt:    gameNight,
			Capacity:    0, // unlimited
			Published:   true,
		},
	}
}

func seedApplications(ctx context.Context, d Deps) int {
	if d.Applications == nil {
		return 0
	}

	failures := 0
	for _, req := range defaultApplications() {
		_, err := d.Applications.Submit(ctx, req)
		switch {
		case err == nil:
			logInfo(ctx, d.Logger, "seeded mentor application", "email", req.Email)
		case errors.Is(err, data.ErrApplicationEmailExists):
			// already seeded
		default:
			logWarn(ctx, d.Logger, "failed to seed mentor application", "email", req.Email, "error", err)
			failures++
		}
	}
	return failures
}

func defaultApplications() []*model.CreateMentorApplicationRequest {
	return []*model.CreateMentorApplicationRequest{
		{
			Name:       "Sam Ibarra",
			Email:      "sam.ibarra@example.com",
			Phone:      "555-0140",
			Motivation: "I tutored math through college and want to keep working with students in my neighborhood.",
		},
	}
}

func logInfo(ctx context.Context, logger *slog.Logger, msg string, args ...any) {
	if logger != nil {
		logger.InfoContext(ctx, msg, args...)
	}
}

func logWarn(ctx context.Context, logger *slog.Logger, msg string, args ...any) {
	if logger != nil {
		logger.WarnContext(ctx, msg, args...)
	}
}
