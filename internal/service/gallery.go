package service

import (
	"context"

	"github.com/brightsteps/brightsteps-web/internal/core"
	"github.com/brightsteps/brightsteps-web/internal/domain/model"
)

// GalleryServiceOptions groups dependencies for GalleryService.
type GalleryServiceOptions struct {
	Repo core.GalleryRepository
}

// GalleryService orchestrates gallery image CRUD.
type GalleryService struct {
	repo core.GalleryRepository
}

// NewGalleryService constructs a new GalleryService.
func NewGalleryService(opts GalleryServiceOptions) *GalleryService {
	if opts.Repo == nil {
		panic("GalleryService requires a repository")
	}
	return &GalleryService{repo: opts.Repo}
}

// Create creates a gallery image.
func (s *GalleryService) Create(ctx context.Context, req *model.CreateGalleryImageRequest) (*model.GalleryImage, error) {
	return s.repo.Create(ctx, req)
}

// GetByID retrieves a gallery image by ID.
func (s *GalleryService) GetByID(ctx context.Context, id string) (*model.GalleryImage, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns a page of gallery images in display order.
func (s *GalleryService) List(ctx context.Context, limit, offset int) ([]*model.GalleryImage, error) {
	if limit <= 0 {
		limit = 60
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset)
}

// Count returns the number of gallery images.
func (s *GalleryService) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// Update updates a gallery image.
func (s *GalleryService) Update(ctx context.Context, id string, req model.UpdateGalleryImageRequest) (*model.GalleryImage, error) {
	return s.repo.Update(ctx, id, req)
}

// Delete deletes a gallery image.
func (s *GalleryService) Delete(ctx context.Context, id string) (bool, error) {
	return s.repo.Delete(ctx, id)
}
