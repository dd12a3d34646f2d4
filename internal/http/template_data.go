package httpx

import "net/http"

// PaginationData carries pagination state for list views.
type PaginationData struct {
	Page       int
	PageSize   int
	HasPrev    bool
	HasNext    bool
	StartIndex int
	EndIndex   int
	TotalCount int // zero when the total is unknown
	BasePath   string
}

// TemplateDataBuilder assembles the data map handed to page templates.
type TemplateDataBuilder struct {
	data map[string]any
	r    *http.Request
}

// NewTemplateData starts a builder seeded with the shared page data
// (titles, session, navigation state).
func NewTemplateData(r *http.Request, meta PageMeta) *TemplateDataBuilder {
	return &TemplateDataBuilder{data: basePageData(r, meta), r: r}
}

// WithPagination adds pagination fields plus PrevURL/NextURL links that
// preserve the current query string.
func (b *TemplateDataBuilder) WithPagination(p PaginationData) *TemplateDataBuilder {
	b.With("Page", p.Page).
		With("PageSize", p.PageSize).
		With("HasPrev", p.HasPrev).
		With("HasNext", p.HasNext).
		With("StartIndex", p.StartIndex).
		With("EndIndex", p.EndIndex)
	if p.TotalCount > 0 {
		b.data["TotalCount"] = p.TotalCount
	}

	pageURL := func(page int) string {
		return buildPageURL(p.BasePath, b.r.URL.Query(), pageOpts{Page: page, PageSize: p.PageSize})
	}
	if p.HasPrev {
		b.data["PrevURL"] = pageURL(p.Page - 1)
	}
	if p.HasNext {
		b.data["NextURL"] = pageURL(p.Page + 1)
	}
	return b
}

// WithError sets a general error banner message.
func (b *TemplateDataBuilder) WithError(msg string) *TemplateDataBuilder {
	b.data["Error"] = true
	b.data["ErrorMessage"] = msg
	return b
}

// WithFieldErrors adds field-level validation errors, skipping empty maps so
// templates can test {{if .Errors}} directly.
func (b *TemplateDataBuilder) WithFieldErrors(errs map[string]string) *TemplateDataBuilder {
	if len(errs) > 0 {
		b.data["Errors"] = errs
	}
	return b
}

// With sets a custom key in the template data.
func (b *TemplateDataBuilder) With(key string, value any) *TemplateDataBuilder {
	b.data[key] = value
	return b
}

// Build returns the completed data map.
func (b *TemplateDataBuilder) Build() map[string]any {
	return b.data
}
