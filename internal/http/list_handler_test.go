package httpx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rosterEntry struct {
	ID   string
	Name string
}

type rosterFilter struct {
	Query      string
	ActiveOnly bool
}

func coachRoster(n int) []rosterEntry {
	entries := make([]rosterEntry, n)
	for i := range entries {
		entries[i] = rosterEntry{ID: fmt.Sprintf("c-%d", i+1), Name: fmt.Sprintf("Coach %d", i+1)}
	}
	return entries
}

// pageOfRoster slices entries the way a repo would for the given page opts,
// returning up to pageSize+1 items so the handler can detect a next page.
func pageOfRoster(entries []rosterEntry, pg pageOpts) []rosterEntry {
	limit, offset := pg.LimitAndOffset()
	if offset >= len(entries) {
		return nil
	}
	end := offset + limit
	if end > len(entries) {
		end = len(entries)
	}
	return entries[offset:end]
}

// rosterListOpts builds ListHandlerOpts for an unfiltered coach roster backed
// by an in-memory slice.
func rosterListOpts(t *testing.T, w http.ResponseWriter, r *http.Request, entries []rosterEntry) ListHandlerOpts[rosterEntry, struct{}] {
	t.Helper()
	return ListHandlerOpts[rosterEntry, struct{}]{
		Handler: CreateUIHandlersForTest(t),
		W:       w,
		R:       r,
		Fetcher: func(_ context.Context, pg pageOpts) ([]rosterEntry, error) {
			return pageOfRoster(entries, pg), nil
		},
		BasePath:     "/dashboard/coaches",
		PageMeta:     PageMeta{Title: "Coaches", PageTitle: "Coaches", CurrentPage: PageAdminCoaches},
		ItemsKey:     "Coaches",
		ErrorMessage: "Unable to load coaches.",
	}
}

func TestHandleList_Pagination(t *testing.T) {
	tests := []struct {
		name        string
		target      string
		rosterSize  int
		wantInBody  []string
		notInBody   []string
	}{
		{
			name:       "first page with more to come",
			target:     "/dashboard/coaches?page=1&page_size=2",
			rosterSize: 3,
			wantInBody: []string{
				"Showing 1–2",
				"page=2",
				`aria-disabled="true" tabindex="-1"`, // prev is disabled
				"<span>Prev</span>",
			},
		},
		{
			name:       "middle page links both ways",
			target:     "/dashboard/coaches?page=2&page_size=3",
			rosterSize: 10,
			wantInBody: []string{"Showing 4–6", "page=1", "page=3"},
		},
		{
			name:       "last page has no next link",
			target:     "/dashboard/coaches?page=2&page_size=2",
			rosterSize: 3,
			wantInBody: []string{"Showing 3–3", "page=1"},
			notInBody:  []string{"page=3"},
		},
		{
			name:       "empty roster disables both buttons",
			target:     "/dashboard/coaches",
			rosterSize: 0,
			wantInBody: []string{
				"&nbsp;",
				`aria-disabled="true" tabindex="-1">`,
				"<span>Prev</span>",
				"<span>Next</span>",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, tt.target, nil)

			HandleList(rosterListOpts(t, w, r, coachRoster(tt.rosterSize)))

			require.Equal(t, http.StatusOK, w.Code)
			body := w.Body.String()
			for _, want := range tt.wantInBody {
				assert.Contains(t, body, want)
			}
			for _, unwanted := range tt.notInBody {
				assert.NotContains(t, body, unwanted)
			}
		})
	}
}

func TestHandleList_FilteredFetcher(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/dashboard/coaches?q=Maya&active=true&page=2&page_size=3", nil)

	var gotFilter rosterFilter
	HandleList(ListHandlerOpts[rosterEntry, rosterFilter]{
		Handler: CreateUIHandlersForTest(t),
		W:       w,
		R:       r,
		FilteredFetcher: func(_ context.Context, f rosterFilter, pg pageOpts) ([]rosterEntry, error) {
			gotFilter = f
			return pageOfRoster(coachRoster(10), pg), nil
		},
		FilterParser: func(q url.Values) (rosterFilter, error) {
			return rosterFilter{Query: q.Get("q"), ActiveOnly: q.Get("active") == "true"}, nil
		},
		BasePath:     "/dashboard/coaches",
		PageMeta:     PageMeta{Title: "Coaches", PageTitle: "Coaches", CurrentPage: PageAdminCoaches},
		ItemsKey:     "Coaches",
		ErrorMessage: "Unable to load coaches.",
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, rosterFilter{Query: "Maya", ActiveOnly: true}, gotFilter)

	// Pagination links carry the filter params along.
	body := w.Body.String()
	assert.Contains(t, body, "q=Maya")
	assert.Contains(t, body, "active=true")
	assert.Contains(t, body, "page_size=3")
}

func TestHandleList_FetchError(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/dashboard/coaches", nil)

	opts := rosterListOpts(t, w, r, nil)
	opts.Fetcher = func(context.Context, pageOpts) ([]rosterEntry, error) {
		return nil, errors.New("connection refused")
	}
	HandleList(opts)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Unable to load coaches.")
}

func TestHandleList_FilterParseError(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/dashboard/coaches?active=maybe", nil)

	HandleList(ListHandlerOpts[rosterEntry, rosterFilter]{
		Handler: CreateUIHandlersForTest(t),
		W:       w,
		R:       r,
		FilteredFetcher: func(_ context.Context, _ rosterFilter, pg pageOpts) ([]rosterEntry, error) {
			t.Fatal("fetcher must not run when filter parsing fails")
			return nil, nil
		},
		FilterParser: func(url.Values) (rosterFilter, error) {
			return rosterFilter{}, errors.New("active must be true or false")
		},
		BasePath:     "/dashboard/coaches",
		PageMeta:     PageMeta{Title: "Coaches", PageTitle: "Coaches", CurrentPage: PageAdminCoaches},
		ItemsKey:     "Coaches",
		ErrorMessage: "Unable to load coaches.",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Invalid filter parameters")
	assert.Contains(t, body, "active must be true or false")
}

func TestHandleList_NoFetcherConfigured(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/dashboard/coaches", nil)

	opts := rosterListOpts(t, w, r, nil)
	opts.Fetcher = nil
	HandleList(opts)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No data fetcher configured.")
}

func TestHandleList_ServiceUnavailable(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/dashboard/coaches", nil)

	opts := rosterListOpts(t, w, r, coachRoster(3))
	opts.Fetcher = func(context.Context, pageOpts) ([]rosterEntry, error) {
		t.Fatal("fetcher must not run when the service is unavailable")
		return nil, nil
	}
	opts.ServiceAvailable = func() bool { return false }
	opts.UnavailableMessage = "Coach management is temporarily unavailable."
	opts.UnavailableData = func(builder *TemplateDataBuilder) {
		builder.With("Readonly", true)
	}
	HandleList(opts)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Coach management is temporarily unavailable.")
}

func TestHandleList_NilDependencies(t *testing.T) {
	t.Run("nil writer does not panic", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/dashboard/coaches", nil)
		opts := rosterListOpts(t, nil, r, coachRoster(3))
		HandleList(opts)
	})

	t.Run("nil request", func(t *testing.T) {
		w := httptest.NewRecorder()
		opts := rosterListOpts(t, w, httptest.NewRequest(http.MethodGet, "/dashboard/coaches", nil), coachRoster(3))
		opts.R = nil
		HandleList(opts)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "Internal configuration error")
	})

	t.Run("nil handler", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/dashboard/coaches", nil)
		opts := rosterListOpts(t, w, r, coachRoster(3))
		opts.Handler = nil
		HandleList(opts)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "Internal configuration error")
	})
}
