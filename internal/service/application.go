package service

import (
	"context"
	"log/slog"

	"github.com/brightsteps/brightsteps-web/internal/core"
	"github.com/brightsteps/brightsteps-web/internal/domain/model"
)

// ApplicationServiceOptions groups dependencies for ApplicationService.
type ApplicationServiceOptions struct {
	Repo   core.ApplicationRepository
	Logger *slog.Logger
}

// ApplicationService orchestrates the mentor application queue: public
// submissions in, approvals and rejections out.
type ApplicationService struct {
	repo   core.ApplicationRepository
	logger *slog.Logger
}

// NewApplicationService constructs a new ApplicationService.
func NewApplicationService(opts ApplicationServiceOptions) *ApplicationService {
	if opts.Repo == nil {
		panic("ApplicationService requires a repository")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ApplicationService{repo: opts.Repo, logger: logger}
}

// Submit records a mentor application from the public site.
func (s *ApplicationService) Submit(ctx context.Context, req *model.CreateMentorApplicationRequest) (*model.MentorApplication, error) {
	app, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	s.logger.Info("mentor application received", "application_id", app.ID)
	return app, nil
}

// GetByID retrieves a mentor application by ID.
func (s *ApplicationService) GetByID(ctx context.Context, id string) (*model.MentorApplication, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns a page of the application queue, oldest first.
func (s *ApplicationService) List(ctx context.Context, limit, offset int) ([]*model.MentorApplication, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset)
}

// Count returns the number of pending applications.
func (s *ApplicationService) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// Approve promotes an application to a coach and removes it from the queue.
func (s *ApplicationService) Approve(ctx context.Context, id string) (*model.Coach, error) {
	coach, err := s.repo.Approve(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("mentor application approved", "application_id", id, "coach_id", coach.ID)
	return coach, nil
}

// Reject removes an application from the queue without creating a coach.
func (s *ApplicationService) Reject(ctx context.Context, id string) (bool, error) {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if removed {
		s.logger.Info("mentor application rejected", "application_id", id)
	}
	return removed, nil
}
