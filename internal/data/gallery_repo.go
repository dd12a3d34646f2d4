package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/brightsteps/brightsteps-web/internal/data/pgxutil"
	"github.com/brightsteps/brightsteps-web/internal/domain/model"
)

// GalleryRepo provides database operations for gallery images.
type GalleryRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewGalleryRepo creates a new GalleryRepo with real time provider.
func NewGalleryRepo(db *sql.DB) *GalleryRepo {
	return &GalleryRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewGalleryRepoWithTimeProvider creates a new GalleryRepo with a custom time provider (useful for tests).
func NewGalleryRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *GalleryRepo {
	return &GalleryRepo{DB: db, timeProvider: tp}
}

// Create inserts a new gallery image.
func (r *GalleryRepo) Create(ctx context.Context, req *model.CreateGalleryImageRequest) (*model.GalleryImage, error) {
	if req == nil {
		return nil, errors.New("create gallery image request is required")
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	createdAt := r.timeProvider.Now().UTC()
	out, err := pgxutil.SelectOne[model.GalleryImage](ctx, r.DB, `
		INSERT INTO gallery_images (image_url, caption, sort_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		RETURNING `+galleryColumns,
		req.ImageURL,
		strings.TrimSpace(req.Caption),
		req.SortOrder,
		createdAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gallery image: %w", err)
	}
	return &out, nil
}

// GetByID retrieves a gallery image by ID.
func (r *GalleryRepo) GetByID(ctx context.Context, id string) (*model.GalleryImage, error) {
	img, err := pgxutil.SelectOne[model.GalleryImage](ctx, r.DB,
		`SELECT `+galleryColumns+` FROM gallery_images WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGalleryImageNotFound
		}
		return nil, fmt.Errorf("failed to get gallery image by ID: %w", err)
	}
	return &img, nil
}

// List retrieves gallery images ordered for display (sort_order, then oldest first).
func (r *GalleryRepo) List(ctx context.Context, limit, offset int) ([]*model.GalleryImage, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	rowsOut, err := pgxutil.SelectRows[model.GalleryImage](ctx, r.DB, `
		SELECT `+galleryColumns+`
		FROM gallery_images
		ORDER BY sort_order ASC, created_at ASC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list gallery images: %w", err)
	}
	return asPtrSlice(rowsOut), nil
}

// Count returns the number of gallery images.
func (r *GalleryRepo) Count(ctx context.Context) (int, error) {
	var count int
	if err := pgxutil.WithConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx, `SELECT COUNT(*) FROM gallery_images`).Scan(&count)
	}); err != nil {
		return 0, fmt.Errorf("failed to count gallery images: %w", err)
	}
	return count, nil
}

// Update updates fields of a gallery image.
func (r *GalleryRepo) Update(ctx context.Context, id string, req model.UpdateGalleryImageRequest) (*model.GalleryImage, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	setParts := make([]string, 0, 4)
	args := make([]any, 0, 5)
	nextIdx := func() int { return len(args) + 1 }

	if req.ImageURL != nil {
		setParts = append(setParts, fmt.Sprintf("image_url = $%d", nextIdx()))
		args = append(args, *req.ImageURL)
	}
	if req.Caption != nil {
		setParts = append(setParts, fmt.Sprintf("caption = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Caption))
	}
	if req.SortOrder != nil {
		setParts = append(setParts, fmt.Sprintf("sort_order = $%d", nextIdx()))
		args = append(args, *req.SortOrder)
	}
	setParts = append(setParts, fmt.Sprintf("updated_at = $%d", nextIdx()))
	args = append(args, r.timeProvider.Now().UTC())

	args = append(args, id)
	query := "UPDATE gallery_images SET " + strings.Join(setParts, ", ") +
		" WHERE id = $" + strconv.Itoa(len(args)) +
		" RETURNING " + galleryColumns

	out, err := pgxutil.SelectOne[model.GalleryImage](ctx, r.DB, query, args...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGalleryImageNotFound
		}
		return nil, fmt.Errorf("failed to update gallery image: %w", err)
	}
	return &out, nil
}

// Delete deletes a gallery image by ID.
func (r *GalleryRepo) Delete(ctx context.Context, id string) (bool, error) {
	rows, err := pgxutil.Exec(ctx, r.DB, `DELETE FROM gallery_images WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete gallery image: %w", err)
	}
	return rows > 0, nil
}

const galleryColumns = `id, image_url, caption, sort_order, created_at, updated_at`
