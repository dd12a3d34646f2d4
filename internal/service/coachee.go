package service

import (
	"context"
	"strings"

	"github.com/brightsteps/brightsteps-web/internal/core"
	"github.com/brightsteps/brightsteps-web/internal/domain/model"
)

// CoacheeServiceOptions groups dependencies for CoacheeService.
type CoacheeServiceOptions struct {
	Repo core.CoacheeRepository
}

// CoacheeService orchestrates coachee CRUD and coach assignment.
type CoacheeService struct {
	repo core.CoacheeRepository
}

// NewCoacheeService constructs a new CoacheeService.
func NewCoacheeService(opts CoacheeServiceOptions) *CoacheeService {
	if opts.Repo == nil {
		panic("CoacheeService requires a repository")
	}
	return &CoacheeService{repo: opts.Repo}
}

// Create creates a coachee.
func (s *CoacheeService) Create(ctx context.Context, req *model.CreateCoacheeRequest) (*model.Coachee, error) {
	return s.repo.Create(ctx, req)
}

// GetByID retrieves a coachee by ID.
func (s *CoacheeService) GetByID(ctx context.Context, id string) (*model.Coachee, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns coachees matching the options.
func (s *CoacheeService) List(ctx context.Context, opts model.CoacheesListOptions) ([]*model.Coachee, error) {
	if opts.Limit <= 0 {
		opts.Limit = 50
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	return s.repo.List(ctx, opts)
}

// Count returns the number of coachees.
func (s *CoacheeService) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// Update updates a coachee's details.
func (s *CoacheeService) Update(ctx context.Context, id string, req model.UpdateCoacheeRequest) (*model.Coachee, error) {
	return s.repo.Update(ctx, id, req)
}

// AssignCoach assigns a coach to a coachee. An empty or nil coachID unassigns.
func (s *CoacheeService) AssignCoach(ctx context.Context, id string, coachID *string) (*model.Coachee, error) {
	if coachID != nil && strings.TrimSpace(*coachID) == "" {
		coachID = nil
	}
	return s.repo.AssignCoach(ctx, id, coachID)
}

// Delete deletes a coachee.
func (s *CoacheeService) Delete(ctx context.Context, id string) (bool, error) {
	return s.repo.Delete(ctx, id)
}
