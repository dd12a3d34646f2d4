package service

import (
	"context"

	"github.com/brightsteps/brightsteps-web/internal/core"
	"github.com/brightsteps/brightsteps-web/internal/domain/model"
)

// EventServiceOptions groups dependencies for EventService.
type EventServiceOptions struct {
	Repo core.EventsRepository
}

// EventService orchestrates events and public RSVPs.
type EventService struct {
	repo core.EventsRepository
}

// NewEventService constructs a new EventService.
func NewEventService(opts EventServiceOptions) *EventService {
	if opts.Repo == nil {
		panic("EventService requires a repository")
	}
	return &EventService{repo: opts.Repo}
}

// Create creates an event.
func (s *EventService) Create(ctx context.Context, req *model.CreateEventRequest) (*model.Event, error) {
	return s.repo.Create(ctx, req)
}

// GetByID retrieves an event by ID.
func (s *EventService) GetByID(ctx context.Context, id string) (*model.Event, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns events matching the options, soonest first.
func (s *EventService) List(ctx context.Context, opts model.EventsListOptions) ([]*model.Event, error) {
	if opts.Limit <= 0 {
		opts.Limit = 50
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	return s.repo.List(ctx, opts)
}

// ListUpcomingPublic returns the published upcoming events for the public site.
func (s *EventService) ListUpcomingPublic(ctx context.Context) ([]*model.Event, error) {
	return s.repo.List(ctx, model.EventsListOptions{
		PublishedOnly: true,
		UpcomingOnly:  true,
		Limit:         100,
	})
}

// CountUpcoming returns the number of upcoming events.
func (s *EventService) CountUpcoming(ctx context.Context) (int, error) {
	return s.repo.CountUpcoming(ctx)
}

// Update updates an event.
func (s *EventService) Update(ctx context.Context, id string, req model.UpdateEventRequest) (*model.Event, error) {
	return s.repo.Update(ctx, id, req)
}

// Delete deletes an event and its RSVPs.
func (s *EventService) Delete(ctx context.Context, id string) (bool, error) {
	return s.repo.Delete(ctx, id)
}

// RSVP records an attendee for an event. Full events return
// data.ErrEventFull and repeat signups data.ErrAlreadyAttending.
func (s *EventService) RSVP(ctx context.Context, req *model.CreateEventRSVPRequest) (*model.EventRSVP, error) {
	return s.repo.CreateRSVP(ctx, req)
}

// ListRSVPs returns the attendee list for an event.
func (s *EventService) ListRSVPs(ctx context.Context, eventID string) ([]*model.EventRSVP, error) {
	return s.repo.ListRSVPs(ctx, eventID)
}

// RemoveRSVP removes an attendee from an event.
func (s *EventService) RemoveRSVP(ctx context.Context, id string) (bool, error) {
	return s.repo.DeleteRSVP(ctx, id)
}
