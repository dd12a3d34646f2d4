package httpx

import (
	"context"
	"net/http"
	"net/url"
)

// ListFetcher fetches one page of items.
type ListFetcher[T any] func(ctx context.Context, pg pageOpts) ([]T, error)

// FilterParser parses URL query parameters into a filter value. Returning an
// error surfaces a validation message instead of a silent empty list.
type FilterParser[F any] func(url.Values) (F, error)

// FilteredFetcher fetches one page of items with filters applied.
type FilteredFetcher[T any, F any] func(ctx context.Context, filters F, pg pageOpts) ([]T, error)

// DataEnricher adds domain-specific template data after a successful fetch,
// such as counts or dropdown options.
type DataEnricher[T any, F any] func(builder *TemplateDataBuilder, items []T, filters F)

// ListHandlerOpts configures HandleList. T is the item type, F the filter
// type; handlers without filters use struct{}.
type ListHandlerOpts[T any, F any] struct {
	Handler *UIHandlers
	W       http.ResponseWriter
	R       *http.Request

	// Fetcher serves the simple unfiltered case. When FilteredFetcher is
	// also set, it takes precedence.
	Fetcher         ListFetcher[T]
	FilteredFetcher FilteredFetcher[T, F]
	FilterParser    FilterParser[F]
	EnrichData      DataEnricher[T, F]

	// BasePath is the URL the pagination links point at, e.g. "/dashboard/blog".
	BasePath string
	PageMeta PageMeta

	// ItemsKey is the template data key for the items, e.g. "Posts".
	ItemsKey string

	// ErrorMessage is shown when fetching fails.
	ErrorMessage string

	// ServiceAvailable, when set and returning false, short-circuits into the
	// unavailable view instead of fetching.
	ServiceAvailable   func() bool
	UnavailableItems   []T
	UnavailableMessage string
	UnavailableData    func(builder *TemplateDataBuilder)
}

// HandleList renders a paginated, optionally filtered admin list view. It
// owns the shared mechanics: page param parsing, filter parsing, fetching one
// item past the page size to detect a next page, and error rendering.
func HandleList[T, F any](opts ListHandlerOpts[T, F]) {
	if opts.W == nil || opts.R == nil || opts.Handler == nil {
		if opts.W != nil {
			http.Error(opts.W, "Internal configuration error", http.StatusInternalServerError)
		}
		return
	}

	if opts.ServiceAvailable != nil && !opts.ServiceAvailable() {
		opts.renderUnavailable()
		return
	}

	page, pageSize := getPageParams(opts.R.URL.Query())

	var filters F
	if opts.FilterParser != nil {
		parsed, err := opts.FilterParser(opts.R.URL.Query())
		if err != nil {
			opts.renderListError(page, pageSize, "Invalid filter parameters: "+err.Error())
			return
		}
		filters = parsed
	}

	var fetch ListFetcher[T]
	switch {
	case opts.FilteredFetcher != nil:
		fetch = func(ctx context.Context, pg pageOpts) ([]T, error) {
			return opts.FilteredFetcher(ctx, filters, pg)
		}
	case opts.Fetcher != nil:
		fetch = opts.Fetcher
	default:
		opts.renderListError(page, pageSize, "No data fetcher configured.")
		return
	}

	items, err := fetch(opts.R.Context(), pageOpts{Page: page, PageSize: pageSize})
	if err != nil {
		opts.renderListError(page, pageSize, opts.ErrorMessage)
		return
	}

	opts.renderListPage(page, pageSize, items, filters)
}

// renderListError renders an error page that keeps the pagination chrome.
func (lh *ListHandlerOpts[T, F]) renderListError(page, pageSize int, errMsg string) {
	builder := NewTemplateData(lh.R, lh.PageMeta).
		WithPagination(PaginationData{Page: page, PageSize: pageSize, BasePath: lh.BasePath}).
		WithError(errMsg)
	lh.Handler.renderDashboardPage(lh.W, lh.R, builder.Build())
}

// renderListPage renders a fetched page. The fetcher returned up to
// pageSize+1 items; the extra one only signals that a next page exists.
func (lh *ListHandlerOpts[T, F]) renderListPage(page, pageSize int, items []T, filters F) {
	hasNext := len(items) > pageSize
	if hasNext {
		items = items[:pageSize]
	}
	var start, end int
	if len(items) > 0 {
		offset := (page - 1) * pageSize
		start = offset + 1
		end = offset + len(items)
	}

	builder := NewTemplateData(lh.R, lh.PageMeta).
		WithPagination(PaginationData{
			Page:       page,
			PageSize:   pageSize,
			HasPrev:    page > 1,
			HasNext:    hasNext,
			StartIndex: start,
			EndIndex:   end,
			BasePath:   lh.BasePath,
		}).
		With(lh.ItemsKey, items)

	if lh.EnrichData != nil {
		lh.EnrichData(builder, items, filters)
	}

	lh.Handler.renderDashboardPage(lh.W, lh.R, builder.Build())
}

// renderUnavailable renders the list view when the backing service is down,
// with whatever placeholder items and messaging the handler configured.
func (lh *ListHandlerOpts[T, F]) renderUnavailable() {
	page, pageSize := getPageParams(lh.R.URL.Query())
	builder := NewTemplateData(lh.R, lh.PageMeta).
		WithPagination(PaginationData{Page: page, PageSize: pageSize, BasePath: lh.BasePath})

	if lh.ItemsKey != "" {
		builder.With(lh.ItemsKey, lh.UnavailableItems)
	}
	if lh.UnavailableMessage != "" {
		builder.WithError(lh.UnavailableMessage)
	}
	if lh.UnavailableData != nil {
		lh.UnavailableData(builder)
	}

	lh.Handler.renderDashboardPage(lh.W, lh.R, builder.Build())
}
