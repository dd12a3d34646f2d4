package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/brightsteps/brightsteps-web/internal/core"
	"github.com/brightsteps/brightsteps-web/internal/domain/model"
)

// ErrSelfDemotion is returned when an admin tries to change their own role,
// deactivate themselves, or delete their own account.
var ErrSelfDemotion = errors.New("cannot change role or status of your own account")

// AdminServiceOptions groups dependencies for AdminService.
type AdminServiceOptions struct {
	Repo core.AdminRepository
	// BcryptCost overrides the hashing cost; zero means bcrypt.DefaultCost.
	BcryptCost int
}

// AdminService manages admin accounts. Passwords are hashed here so the
// repository only ever sees bcrypt hashes.
type AdminService struct {
	repo core.AdminRepository
	cost int
}

// NewAdminService constructs a new AdminService.
func NewAdminService(opts AdminServiceOptions) *AdminService {
	if opts.Repo == nil {
		panic("AdminService requires a repository")
	}
	cost := opts.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &AdminService{repo: opts.Repo, cost: cost}
}

// Create creates an admin account from a plaintext password.
func (s *AdminService) Create(ctx context.Context, req *model.CreateAdminAccountRequest) (*model.AdminAccount, error) {
	if req == nil {
		return nil, errors.New("create admin account request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return s.repo.Create(ctx, req.Email, req.DisplayName, string(req.Role), string(hash))
}

// GetByID retrieves an admin account by ID.
func (s *AdminService) GetByID(ctx context.Context, id string) (*model.AdminAccount, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns all admin accounts.
func (s *AdminService) List(ctx context.Context) ([]*model.AdminAccount, error) {
	return s.repo.List(ctx)
}

// Update updates an admin account. actorID is the session user making the
// change; an account cannot change its own role or active flag, which keeps
// the last super admin from locking everyone out by accident.
func (s *AdminService) Update(ctx context.Context, actorID, id string, req model.UpdateAdminAccountRequest) (*model.AdminAccount, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if actorID == id && (req.Role != nil || req.Active != nil) {
		return nil, ErrSelfDemotion
	}

	fields := core.AdminUpdateFields{
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Active:      req.Active,
	}
	if req.Role != nil {
		role := string(*req.Role)
		fields.Role = &role
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), s.cost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		hashed := string(hash)
		fields.PasswordHash = &hashed
	}
	return s.repo.Update(ctx, id, fields)
}

// Delete deletes an admin account. Accounts cannot delete themselves.
func (s *AdminService) Delete(ctx context.Context, actorID, id string) (bool, error) {
	if actorID == id {
		return false, ErrSelfDemotion
	}
	return s.repo.Delete(ctx, id)
}
