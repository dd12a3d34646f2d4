package service

import (
	"context"

	"github.com/brightsteps/brightsteps-web/internal/core"
	"github.com/brightsteps/brightsteps-web/internal/domain/model"
)

// CoachServiceOptions groups dependencies for CoachService.
type CoachServiceOptions struct {
	Repo core.CoachRepository
}

// CoachService orchestrates coach CRUD.
type CoachService struct {
	repo core.CoachRepository
}

// NewCoachService constructs a new CoachService.
func NewCoachService(opts CoachServiceOptions) *CoachService {
	if opts.Repo == nil {
		panic("CoachService requires a repository")
	}
	return &CoachService{repo: opts.Repo}
}

// Create creates a coach.
func (s *CoachService) Create(ctx context.Context, req *model.CreateCoachRequest) (*model.Coach, error) {
	return s.repo.Create(ctx, req)
}

// GetByID retrieves a coach by ID.
func (s *CoachService) GetByID(ctx context.Context, id string) (*model.Coach, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns coaches matching the options.
func (s *CoachService) List(ctx context.Context, opts model.CoachesListOptions) ([]*model.Coach, error) {
	if opts.Limit <= 0 {
		opts.Limit = 50
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	return s.repo.List(ctx, opts)
}

// ListActive returns active coaches for the public team page.
func (s *CoachService) ListActive(ctx context.Context) ([]*model.Coach, error) {
	return s.repo.List(ctx, model.CoachesListOptions{ActiveOnly: true, Limit: 200})
}

// Count returns the number of coaches.
func (s *CoachService) Count(ctx context.Context, activeOnly bool) (int, error) {
	return s.repo.Count(ctx, activeOnly)
}

// Update updates a coach.
func (s *CoachService) Update(ctx context.Context, id string, req model.UpdateCoachRequest) (*model.Coach, error) {
	return s.repo.Update(ctx, id, req)
}

// Delete deletes a coach. Assigned coachees become unassigned.
func (s *CoachService) Delete(ctx context.Context, id string) (bool, error) {
	return s.repo.Delete(ctx, id)
}
