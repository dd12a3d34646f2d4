package httpx

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/brightsteps/brightsteps-web/internal/domain/model"
)

type blogFilter struct {
	Q         string
	Published *bool
}

func parseBlogFilter(q url.Values) (blogFilter, error) {
	qv := strings.TrimSpace(q.Get("q"))
	publishedStr := strings.TrimSpace(q.Get("published"))
	var publishedPtr *bool
	switch publishedStr {
	case StrTrue, StrFalse:
		b := publishedStr == StrTrue
		publishedPtr = &b
	}
	return blogFilter{Q: qv, Published: publishedPtr}, nil
}

func buildBlogListOptions(f blogFilter, limit, offset int) model.BlogPostsListOptions {
	var qPtr *string
	if f.Q != "" {
		qLocal := f.Q
		qPtr = &qLocal
	}
	return model.BlogPostsListOptions{
		Limit:         limit,
		Offset:        offset,
		PublishedOnly: f.Published != nil && *f.Published,
		Q:             qPtr,
	}
}

// BlogPosts renders the blog management list, HTMX-aware.
func (h *UIHandlers) BlogPosts(w http.ResponseWriter, r *http.Request) {
	HandleList(ListHandlerOpts[*model.BlogPost, blogFilter]{
		Handler: h,
		W:       w,
		R:       r,
		FilteredFetcher: func(ctx context.Context, filters blogFilter, pg pageOpts) ([]*model.BlogPost, error) {
			limit, offset := pg.LimitAndOffset()
			posts, err := h.BlogSvc.List(ctx, buildBlogListOptions(filters, limit, offset))
			if err != nil {
				h.logger().Error("failed to load blog posts for UI",
					"error", err,
					"query", filters.Q,
					"page", pg.Page,
					"page_size", pg.PageSize,
				)
			}
			return posts, err
		},
		FilterParser: parseBlogFilter,
		EnrichData: func(builder *TemplateDataBuilder, _ []*model.BlogPost, filters blogFilter) {
			builder.With("Query", filters.Q)
			if filters.Published != nil {
				builder.With("PublishedFilterSet", true).With("Published", *filters.Published)
			}
		},
		BasePath: "/dashboard/blog",
		PageMeta: PageMeta{
			Title:       "Blog | Bright Steps",
			PageTitle:   "Blog",
			CurrentPage: PageAdminBlog,
		},
		ItemsKey:     "Posts",
		ErrorMessage: "Unable to load blog posts.",
		ServiceAvailable: func() bool {
			return h.BlogSvc != nil
		},
		UnavailableMessage: "Unable to load blog posts.",
	})
}

// BlogPostDelete handles deleting a post from the admin list.
func (h *UIHandlers) BlogPostDelete(w http.ResponseWriter, r *http.Request) {
	h.handleDelete(w, r, deleteHandlerOpts{
		ServiceAvailable: func() bool { return h.BlogSvc != nil },
		Delete: func(ctx context.Context, id string) (bool, error) {
			return h.BlogSvc.Delete(ctx, id)
		},
		RedirectPath: "/dashboard/blog",
	})
}
