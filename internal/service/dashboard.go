package service

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// DashboardStats holds the counters shown on the admin dashboard.
type DashboardStats struct {
	PublishedPosts      int `json:"published_posts"`
	DraftPosts          int `json:"draft_posts"`
	GalleryImages       int `json:"gallery_images"`
	ActiveCoaches       int `json:"active_coaches"`
	Coachees            int `json:"coachees"`
	PendingApplications int `json:"pending_applications"`
	UpcomingEvents      int `json:"upcoming_events"`
}

// DashboardServiceOptions groups the services the dashboard reads from.
type DashboardServiceOptions struct {
	Blog         *BlogService
	Gallery      *GalleryService
	Coaches      *CoachService
	Coachees     *CoacheeService
	Applications *ApplicationService
	Events       *EventService
}

// DashboardService aggregates counters across the content services.
type DashboardService struct {
	blog         *BlogService
	gallery      *GalleryService
	coaches      *CoachService
	coachees     *CoacheeService
	applications *ApplicationService
	events       *EventService
}

// NewDashboardService constructs a new DashboardService.
func NewDashboardService(opts DashboardServiceOptions) *DashboardService {
	return &DashboardService{
		blog:         opts.Blog,
		gallery:      opts.Gallery,
		coaches:      opts.Coaches,
		coachees:     opts.Coachees,
		applications: opts.Applications,
		events:       opts.Events,
	}
}

// Stats gathers all dashboard counters concurrently. A failure in any
// counter fails the whole call; the dashboard either shows real numbers or
// an error, never a mix.
func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.blog.Count(ctx, true)
		stats.PublishedPosts = n
		return err
	})
	g.Go(func() error {
		total, err := s.blog.Count(ctx, false)
		if err != nil {
			return err
		}
		published, err := s.blog.Count(ctx, true)
		stats.DraftPosts = total - published
		return err
	})
	g.Go(func() error {
		n, err := s.gallery.Count(ctx)
		stats.GalleryImages = n
		return err
	})
	g.Go(func() error {
		n, err := s.coaches.Count(ctx, true)
		stats.ActiveCoaches = n
		return err
	})
	g.Go(func() error {
		n, err := s.coachees.Count(ctx)
		stats.Coachees = n
		return err
	})
	g.Go(func() error {
		n, err := s.applications.Count(ctx)
		stats.PendingApplications = n
		return err
	})
	g.Go(func() error {
		n, err := s.events.CountUpcoming(ctx)
		stats.UpcomingEvents = n
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &stats, nil
}
