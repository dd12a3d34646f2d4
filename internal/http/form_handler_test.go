package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// volunteerForm mirrors the shape handlers feed into HandleForm: already-parsed
// fields ready for the service layer.
type volunteerForm struct {
	Title    string
	Location string
}

type volunteerFormStub struct {
	create func(ctx context.Context, req volunteerForm) (any, error)
	lastID string
}

func (s *volunteerFormStub) Create(ctx context.Context, req volunteerForm) (any, error) {
	if s.create != nil {
		return s.create(ctx, req)
	}
	return &req, nil
}

func (s *volunteerFormStub) Update(ctx context.Context, id string, req volunteerForm) (any, error) {
	s.lastID = id
	if s.create != nil {
		return s.create(ctx, req)
	}
	return &req, nil
}

// formHarness drives HandleForm with stub collaborators. Zero values give a
// create-mode submission that succeeds; tests override the pieces they care
// about and inspect rec/rendered afterwards.
type formHarness struct {
	mode        FormMode
	req         *http.Request
	form        volunteerForm
	parseErrors map[string]string
	service     *volunteerFormStub
	getID       func(*http.Request) string
	handleError ErrorHandler
	extra       map[string]any
	errorStatus int

	noParser   bool
	noService  bool
	noRenderer bool

	rec      *httptest.ResponseRecorder
	rendered map[string]any
}

func (h *formHarness) run(t *testing.T) {
	t.Helper()

	h.rec = httptest.NewRecorder()
	if h.req == nil {
		h.req = httptest.NewRequest(http.MethodPost, "/dashboard/events/new", nil)
	}
	if h.mode == "" {
		h.mode = FormModeCreate
	}
	if h.service == nil {
		h.service = &volunteerFormStub{}
	}

	opts := FormHandlerOpts[volunteerForm]{
		W:           h.rec,
		R:           h.req,
		Mode:        h.mode,
		SuccessURL:  "/dashboard/events",
		PageMeta:    PageMeta{Title: "Events", PageTitle: "Events", CurrentPage: "events"},
		GetID:       h.getID,
		HandleError: h.handleError,
		ExtraData:   h.extra,
		ErrorStatus: h.errorStatus,
	}
	if !h.noParser {
		opts.Parser = func(*http.Request) (volunteerForm, map[string]string) {
			return h.form, h.parseErrors
		}
	}
	if !h.noService {
		opts.Service = h.service
	}
	if !h.noRenderer {
		opts.Renderer = func(w http.ResponseWriter, r *http.Request, data map[string]any) {
			h.rendered = data
		}
	}

	HandleForm(opts)
}

func TestHandleForm_CreateRedirectsOnSuccess(t *testing.T) {
	t.Parallel()

	h := &formHarness{form: volunteerForm{Title: "Fall Kickoff", Location: "Community Center"}}
	h.run(t)

	assert.Equal(t, http.StatusNoContent, h.rec.Code)
	assert.Equal(t, "/dashboard/events", h.rec.Header().Get("Hx-Redirect"))
	assert.Nil(t, h.rendered)
}

func TestHandleForm_EditUsesPathID(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodPost, "/dashboard/events/ev-104/edit", nil)
	r.SetPathValue("id", "ev-104")

	h := &formHarness{
		mode: FormModeEdit,
		req:  r,
		form: volunteerForm{Title: "Fall Kickoff", Location: "Gym B"},
	}
	h.run(t)

	assert.Equal(t, http.StatusNoContent, h.rec.Code)
	assert.Equal(t, "/dashboard/events", h.rec.Header().Get("Hx-Redirect"))
	assert.Equal(t, "ev-104", h.service.lastID)
}

func TestHandleForm_EditWithoutIDNotFound(t *testing.T) {
	t.Parallel()

	h := &formHarness{mode: FormModeEdit, form: volunteerForm{Title: "Fall Kickoff"}}
	h.run(t)

	assert.Equal(t, http.StatusNotFound, h.rec.Code)
}

func TestHandleForm_CustomIDGetter(t *testing.T) {
	t.Parallel()

	h := &formHarness{
		mode: FormModeEdit,
		req:  httptest.NewRequest(http.MethodPost, "/dashboard/events/edit?event=ev-7", nil),
		form: volunteerForm{Title: "Mentor Mixer"},
		getID: func(r *http.Request) string {
			return r.URL.Query().Get("event")
		},
	}
	h.run(t)

	assert.Equal(t, http.StatusNoContent, h.rec.Code)
	assert.Equal(t, "ev-7", h.service.lastID)
}

func TestHandleForm_ValidationErrorsRerenderForm(t *testing.T) {
	t.Parallel()

	for _, mode := range []FormMode{FormModeCreate, FormModeEdit} {
		t.Run(string(mode), func(t *testing.T) {
			t.Parallel()

			r := httptest.NewRequest(http.MethodPost, "/dashboard/events", nil)
			r.SetPathValue("id", "ev-1")

			h := &formHarness{
				mode:        mode,
				req:         r,
				form:        volunteerForm{Location: "Community Center"},
				parseErrors: map[string]string{"title": "Title is required."},
			}
			h.run(t)

			assert.Equal(t, http.StatusOK, h.rec.Code)
			require.NotNil(t, h.rendered)
			assert.Equal(t, mode, h.rendered["Mode"])
			assert.Equal(t, map[string]string{"title": "Title is required."}, h.rendered["Errors"])
			assert.Equal(t, true, h.rendered["Error"])
			assert.Equal(t, errMsgFixBelow, h.rendered["ErrorMessage"])
			assert.Equal(t, volunteerForm{Location: "Community Center"}, h.rendered["FormData"])
		})
	}
}

func TestHandleForm_ValidationErrorStatusOverride(t *testing.T) {
	t.Parallel()

	h := &formHarness{
		parseErrors: map[string]string{"title": "Title is required."},
		errorStatus: http.StatusBadRequest,
	}
	h.run(t)

	assert.Equal(t, http.StatusBadRequest, h.rec.Code)
	require.NotNil(t, h.rendered)
	assert.Contains(t, h.rendered, "Errors")
}

func TestHandleForm_ExtraDataPassedThrough(t *testing.T) {
	t.Parallel()

	h := &formHarness{
		parseErrors: map[string]string{"title": "Title is required."},
		extra: map[string]any{
			"Coaches":  []string{"Maya Okafor", "Luis Herrera"},
			"MaxSeats": 40,
		},
	}
	h.run(t)

	require.NotNil(t, h.rendered)
	assert.Equal(t, []string{"Maya Okafor", "Luis Herrera"}, h.rendered["Coaches"])
	assert.Equal(t, 40, h.rendered["MaxSeats"])
}

func TestHandleForm_ServiceFailureShowsGenericError(t *testing.T) {
	t.Parallel()

	h := &formHarness{
		form: volunteerForm{Title: "Fall Kickoff"},
		service: &volunteerFormStub{
			create: func(context.Context, volunteerForm) (any, error) {
				return nil, errors.New("event insert failed")
			},
		},
	}
	h.run(t)

	assert.Equal(t, http.StatusOK, h.rec.Code)
	require.NotNil(t, h.rendered)
	assert.Equal(t, true, h.rendered["Error"])
	assert.Equal(t, "Unable to save. Please try again.", h.rendered["ErrorMessage"])
	assert.Equal(t, volunteerForm{Title: "Fall Kickoff"}, h.rendered["FormData"])
}

func TestHandleForm_CustomErrorHandler(t *testing.T) {
	t.Parallel()

	overlap := errors.New("event overlaps an existing booking")

	h := &formHarness{
		form: volunteerForm{Title: "Fall Kickoff", Location: "Gym B"},
		service: &volunteerFormStub{
			create: func(context.Context, volunteerForm) (any, error) {
				return nil, overlap
			},
		},
		handleError: func(err error) (map[string]string, string) {
			if errors.Is(err, overlap) {
				return map[string]string{"location": "That space is already booked."}, ""
			}
			return nil, ""
		},
	}
	h.run(t)

	require.NotNil(t, h.rendered)
	fieldErrors, ok := h.rendered["Errors"].(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "That space is already booked.", fieldErrors["location"])
}

func TestHandleForm_DatabaseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		pgErr      *pgconn.PgError
		wantField  string
		wantErrMsg string
	}{
		{
			name: "unique violation maps constraint to field",
			pgErr: &pgconn.PgError{
				Code:           "23505",
				Message:        "duplicate key value violates unique constraint",
				ConstraintName: "events_slug_key",
			},
			wantField: "slug",
		},
		{
			name: "unique violation without constraint falls back to name",
			pgErr: &pgconn.PgError{
				Code:    "23505",
				Message: "duplicate key value violates unique constraint",
			},
			wantField: "name",
		},
		{
			name: "foreign key violation",
			pgErr: &pgconn.PgError{
				Code:           "23503",
				Message:        "violates foreign key constraint",
				ConstraintName: "events_coach_id_fkey",
			},
			wantErrMsg: "related data constraints",
		},
		{
			name: "unrecognized code",
			pgErr: &pgconn.PgError{
				Code:    "57014",
				Message: "canceling statement due to statement timeout",
			},
			wantErrMsg: "database error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := &formHarness{
				form: volunteerForm{Title: "Fall Kickoff"},
				service: &volunteerFormStub{
					create: func(context.Context, volunteerForm) (any, error) {
						return nil, tt.pgErr
					},
				},
			}
			h.run(t)

			assert.Equal(t, http.StatusOK, h.rec.Code)
			require.NotNil(t, h.rendered)

			if tt.wantField != "" {
				fieldErrors, ok := h.rendered["Errors"].(map[string]string)
				require.True(t, ok)
				assert.Contains(t, fieldErrors[tt.wantField], "already exists")
				return
			}
			assert.Equal(t, true, h.rendered["Error"])
			assert.Contains(t, h.rendered["ErrorMessage"], tt.wantErrMsg)
		})
	}
}

func TestHandleForm_ContextCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	h := &formHarness{
		req:  httptest.NewRequest(http.MethodPost, "/dashboard/events/new", nil).WithContext(ctx),
		form: volunteerForm{Title: "Fall Kickoff"},
		service: &volunteerFormStub{
			create: func(ctx context.Context, _ volunteerForm) (any, error) {
				return nil, context.Canceled
			},
		},
	}
	h.run(t)

	assert.Equal(t, http.StatusRequestTimeout, h.rec.Code)
	assert.Contains(t, h.rec.Body.String(), "request canceled")
}

func TestHandleForm_Misconfigured(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		mutate   func(*formHarness)
		wantCode int
		wantBody string
	}{
		{
			name:     "missing parser",
			mutate:   func(h *formHarness) { h.noParser = true },
			wantCode: http.StatusInternalServerError,
			wantBody: "misconfigured form handler",
		},
		{
			name:     "missing service",
			mutate:   func(h *formHarness) { h.noService = true },
			wantCode: http.StatusInternalServerError,
			wantBody: "misconfigured form handler",
		},
		{
			name:     "missing renderer",
			mutate:   func(h *formHarness) { h.noRenderer = true },
			wantCode: http.StatusInternalServerError,
			wantBody: "misconfigured form handler",
		},
		{
			name:     "bogus mode",
			mutate:   func(h *formHarness) { h.mode = FormMode("archive") },
			wantCode: http.StatusBadRequest,
			wantBody: "invalid form mode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := &formHarness{form: volunteerForm{Title: "Fall Kickoff"}}
			tt.mutate(h)
			h.run(t)

			assert.Equal(t, tt.wantCode, h.rec.Code)
			assert.Contains(t, h.rec.Body.String(), tt.wantBody)
		})
	}
}
