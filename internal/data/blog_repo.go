package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/brightsteps/brightsteps-web/internal/data/database"
	"github.com/brightsteps/brightsteps-web/internal/data/pgxutil"
	"github.com/brightsteps/brightsteps-web/internal/domain/model"
)

// BlogRepo provides database operations for blog posts.
type BlogRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewBlogRepo creates a new BlogRepo with real time provider.
func NewBlogRepo(db *sql.DB) *BlogRepo {
	return &BlogRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewBlogRepoWithTimeProvider creates a new BlogRepo with a custom time provider (useful for tests).
func NewBlogRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *BlogRepo {
	return &BlogRepo{DB: db, timeProvider: tp}
}

// Create inserts a new blog post. published_at is set when the post is
// created already published.
func (r *BlogRepo) Create(ctx context.Context, req *model.CreateBlogPostRequest) (*model.BlogPost, error) {
	if req == nil {
		return nil, errors.New("create blog post request is required")
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	createdAt := r.timeProvider.Now().UTC()
	var publishedAt any
	if req.Published {
		publishedAt = createdAt
	}

	out, err := pgxutil.SelectOne[model.BlogPost](ctx, r.DB, `
		INSERT INTO blog_posts (
			title, slug, body, author_name, published, published_at, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $7
		) RETURNING `+blogColumns,
		strings.TrimSpace(req.Title),
		req.Slug,
		req.Body,
		strings.TrimSpace(req.AuthorName),
		req.Published,
		publishedAt,
		createdAt,
	)
	if err != nil {
		return nil, r.mapWriteErr(err, false)
	}
	return &out, nil
}

// GetByID retrieves a blog post by ID.
func (r *BlogRepo) GetByID(ctx context.Context, id string) (*model.BlogPost, error) {
	return r.getByQuery(ctx, blogGetByIDQuery, "failed to get blog post by ID", id)
}

// GetBySlug retrieves a blog post by slug.
func (r *BlogRepo) GetBySlug(ctx context.Context, slug string) (*model.BlogPost, error) {
	return r.getByQuery(ctx, blogGetBySlugQuery, "failed to get blog post by slug", slug)
}

// List retrieves blog posts with optional filters, newest first.
func (r *BlogRepo) List(ctx context.Context, opts model.BlogPostsListOptions) ([]*model.BlogPost, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := max(opts.Offset, 0)

	queryOpts := []database.ListQueryOption{
		database.WithColumns(blogColumnList()...),
		database.WithLimit(limit),
		database.WithOffset(offset),
		database.WithOrderBy("created_at", sortDirDesc),
	}
	if opts.PublishedOnly {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("published", database.Equal, true),
		))
	}
	if opts.Q != nil && strings.TrimSpace(*opts.Q) != "" {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("title", database.ILike, "%"+strings.TrimSpace(*opts.Q)+"%"),
		))
	}
	query, args := database.BuildListQuery(database.NewListQueryOptions("blog_posts", queryOpts...))

	rowsOut, err := pgxutil.SelectRows[model.BlogPost](ctx, r.DB, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list blog posts: %w", err)
	}
	return asPtrSlice(rowsOut), nil
}

// Count returns the number of blog posts, optionally restricted to published.
func (r *BlogRepo) Count(ctx context.Context, publishedOnly bool) (int, error) {
	query := `SELECT COUNT(*) FROM blog_posts`
	if publishedOnly {
		query += ` WHERE published = TRUE`
	}
	var count int
	if err := pgxutil.WithConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx, query).Scan(&count)
	}); err != nil {
		return 0, fmt.Errorf("failed to count blog posts: %w", err)
	}
	return count, nil
}

// Update updates fields of a blog post. Publishing a previously unpublished
// post stamps published_at; unpublishing clears it.
func (r *BlogRepo) Update(ctx context.Context, id string, req model.UpdateBlogPostRequest) (*model.BlogPost, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	setClause, args := r.buildUpdateClause(req)
	args = append(args, id)
	query := "UPDATE blog_posts SET " + setClause +
		" WHERE id = $" + strconv.Itoa(len(args)) +
		" RETURNING " + blogColumns

	out, err := pgxutil.SelectOne[model.BlogPost](ctx, r.DB, query, args...)
	if err != nil {
		return nil, r.mapWriteErr(err, true)
	}
	return &out, nil
}

// buildUpdateClause builds the SQL SET clause and args for updating a blog post.
func (r *BlogRepo) buildUpdateClause(req model.UpdateBlogPostRequest) (string, []any) {
	setParts := make([]string, 0, 6)
	args := make([]any, 0, 8)
	nextIdx := func() int { return len(args) + 1 }

	if req.Title != nil {
		setParts = append(setParts, fmt.Sprintf("title = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Title))
	}
	if req.Slug != nil {
		setParts = append(setParts, fmt.Sprintf("slug = $%d", nextIdx()))
		args = append(args, *req.Slug)
	}
	if req.Body != nil {
		setParts = append(setParts, fmt.Sprintf("body = $%d", nextIdx()))
		args = append(args, *req.Body)
	}
	if req.AuthorName != nil {
		setParts = append(setParts, fmt.Sprintf("author_name = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.AuthorName))
	}
	if req.Published != nil {
		setParts = append(setParts, fmt.Sprintf("published = $%d", nextIdx()))
		args = append(args, *req.Published)
		if *req.Published {
			setParts = append(setParts, fmt.Sprintf("published_at = COALESCE(published_at, $%d)", nextIdx()))
			args = append(args, r.timeProvider.Now().UTC())
		} else {
			setParts = append(setParts, "published_at = NULL")
		}
	}

	setParts = append(setParts, fmt.Sprintf("updated_at = $%d", nextIdx()))
	args = append(args, r.timeProvider.Now().UTC())

	return strings.Join(setParts, ", "), args
}

// Delete deletes a blog post by ID.
func (r *BlogRepo) Delete(ctx context.Context, id string) (bool, error) {
	rows, err := pgxutil.Exec(ctx, r.DB, `DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete blog post: %w", err)
	}
	return rows > 0, nil
}

// --- helpers ---

const (
	sortDirAsc  = "ASC"
	sortDirDesc = "DESC"
)

const (
	blogColumns = `id, title, slug, body, author_name, published, published_at, created_at, updated_at`

	blogGetByIDQuery = `
		SELECT ` + blogColumns + `
		FROM blog_posts
		WHERE id = $1`

	blogGetBySlugQuery = `
		SELECT ` + blogColumns + `
		FROM blog_posts
		WHERE slug = $1`
)

func blogColumnList() []string {
	return []string{
		"id",
		"title",
		"slug",
		"body",
		"author_name",
		"published",
		"published_at",
		"created_at",
		"updated_at",
	}
}

func (r *BlogRepo) getByQuery(ctx context.Context, q, errMsg string, args ...any) (*model.BlogPost, error) {
	post, err := pgxutil.SelectOne[model.BlogPost](ctx, r.DB, q, args...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBlogPostNotFound
		}
		return nil, fmt.Errorf("%s: %w", errMsg, err)
	}
	return &post, nil
}

func (r *BlogRepo) mapWriteErr(err error, includeNotFound bool) error {
	if err == nil {
		return nil
	}
	if includeNotFound && errors.Is(err, pgx.ErrNoRows) {
		return ErrBlogPostNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return ErrBlogSlugExists
	}
	return err
}
