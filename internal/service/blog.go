package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/net/html"

	"github.com/brightsteps/brightsteps-web/internal/core"
	"github.com/brightsteps/brightsteps-web/internal/domain/model"
)

const (
	blogExcerptMaxLen  = 240
	blogRenderCacheTTL = 30 * time.Minute
)

// BlogServiceOptions groups dependencies for BlogService.
type BlogServiceOptions struct {
	Repo   core.BlogRepository
	Cache  core.CacheRepository // optional; caches rendered post HTML
	Logger *slog.Logger
}

// BlogService orchestrates blog post CRUD and markdown rendering.
type BlogService struct {
	repo     core.BlogRepository
	cache    core.CacheRepository
	logger   *slog.Logger
	markdown goldmark.Markdown
}

// NewBlogService constructs a new BlogService.
func NewBlogService(opts BlogServiceOptions) *BlogService {
	if opts.Repo == nil {
		panic("BlogService requires a repository")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &BlogService{
		repo:   opts.Repo,
		cache:  opts.Cache,
		logger: logger,
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(goldmarkhtml.WithHardWraps()),
		),
	}
}

// RenderedPost is a blog post with its body rendered to HTML and a plain
// text excerpt for listings.
type RenderedPost struct {
	*model.BlogPost
	HTML    string
	Excerpt string
}

// Create creates a blog post. An empty slug is derived from the title.
func (s *BlogService) Create(ctx context.Context, req *model.CreateBlogPostRequest) (*model.BlogPost, error) {
	if req != nil && strings.TrimSpace(req.Slug) == "" {
		req.Slug = model.Slugify(req.Title)
	}
	return s.repo.Create(ctx, req)
}

// GetByID retrieves a blog post by ID.
func (s *BlogService) GetByID(ctx context.Context, id string) (*model.BlogPost, error) {
	return s.repo.GetByID(ctx, id)
}

// GetRenderedBySlug retrieves a published-or-draft post by slug with its
// markdown body rendered to HTML.
func (s *BlogService) GetRenderedBySlug(ctx context.Context, slug string) (*RenderedPost, error) {
	post, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.render(ctx, post)
}

// List returns a page of posts.
func (s *BlogService) List(ctx context.Context, opts model.BlogPostsListOptions) ([]*model.BlogPost, error) {
	return s.repo.List(ctx, normalizeBlogListOptions(opts))
}

// ListRendered returns a page of posts with excerpts, for the public blog index.
func (s *BlogService) ListRendered(ctx context.Context, opts model.BlogPostsListOptions) ([]*RenderedPost, error) {
	posts, err := s.repo.List(ctx, normalizeBlogListOptions(opts))
	if err != nil {
		return nil, err
	}
	rendered := make([]*RenderedPost, 0, len(posts))
	for _, post := range posts {
		rp, renderErr := s.render(ctx, post)
		if renderErr != nil {
			return nil, renderErr
		}
		rendered = append(rendered, rp)
	}
	return rendered, nil
}

// Count returns the number of posts.
func (s *BlogService) Count(ctx context.Context, publishedOnly bool) (int, error) {
	return s.repo.Count(ctx, publishedOnly)
}

// Update updates a blog post and drops any cached rendering of it.
func (s *BlogService) Update(ctx context.Context, id string, req model.UpdateBlogPostRequest) (*model.BlogPost, error) {
	post, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, post)
	return post, nil
}

// Delete deletes a blog post.
func (s *BlogService) Delete(ctx context.Context, id string) (bool, error) {
	return s.repo.Delete(ctx, id)
}

func (s *BlogService) render(ctx context.Context, post *model.BlogPost) (*RenderedPost, error) {
	key := blogRenderCacheKey(post)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key); err != nil {
			s.logger.Warn("blog render cache read failed", "post_id", post.ID, "error", err)
		} else if cached != nil {
			return &RenderedPost{
				BlogPost: post,
				HTML:     string(cached),
				Excerpt:  excerptFromHTML(string(cached), blogExcerptMaxLen),
			}, nil
		}
	}

	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(post.Body), &buf); err != nil {
		return nil, fmt.Errorf("render post %s: %w", post.ID, err)
	}
	rendered := buf.String()

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, []byte(rendered), blogRenderCacheTTL); err != nil {
			s.logger.Warn("blog render cache write failed", "post_id", post.ID, "error", err)
		}
	}

	return &RenderedPost{
		BlogPost: post,
		HTML:     rendered,
		Excerpt:  excerptFromHTML(rendered, blogExcerptMaxLen),
	}, nil
}

func (s *BlogService) invalidate(ctx context.Context, post *model.BlogPost) {
	if s.cache == nil || post == nil {
		return
	}
	// Keys embed updated_at, so stale entries age out on their own; deleting
	// the current key covers the same-timestamp rewrite case.
	if _, err := s.cache.Delete(ctx, blogRenderCacheKey(post)); err != nil {
		s.logger.Warn("blog render cache invalidate failed", "post_id", post.ID, "error", err)
	}
}

func blogRenderCacheKey(post *model.BlogPost) string {
	return fmt.Sprintf("blog:render:%s:%d", post.ID, post.UpdatedAt.Unix())
}

func normalizeBlogListOptions(opts model.BlogPostsListOptions) model.BlogPostsListOptions {
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	return opts
}

// excerptFromHTML strips tags from rendered HTML and truncates the text on a
// word boundary.
func excerptFromHTML(rendered string, maxLen int) string {
	tokenizer := html.NewTokenizer(strings.NewReader(rendered))
	var b strings.Builder
	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			break
		}
		if tt == html.TextToken {
			text := strings.TrimSpace(string(tokenizer.Text()))
			if text == "" {
				continue
			}
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(text)
			if utf8.RuneCountInString(b.String()) > maxLen {
				break
			}
		}
	}

	out := b.String()
	if utf8.RuneCountInString(out) <= maxLen {
		return out
	}
	runes := []rune(out)
	cut := string(runes[:maxLen])
	if idx := strings.LastIndexByte(cut, ' '); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "…"
}
