package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/brightsteps/brightsteps-web/internal/data"
	"github.com/brightsteps/brightsteps-web/internal/domain/model"
	"github.com/brightsteps/brightsteps-web/internal/http/validation"
)

type coachesFilter struct {
	Q      string
	Active bool
}

func parseCoachesFilter(q url.Values) (coachesFilter, error) {
	return coachesFilter{
		Q:      strings.TrimSpace(q.Get("q")),
		Active: strings.TrimSpace(q.Get("active")) == StrTrue,
	}, nil
}

// Coaches renders the coach management list, HTMX-aware.
func (h *UIHandlers) Coaches(w http.ResponseWriter, r *http.Request) {
	HandleList(ListHandlerOpts[*model.Coach, coachesFilter]{
		Handler: h,
		W:       w,
		R:       r,
		FilteredFetcher: func(ctx context.Context, filters coachesFilter, pg pageOpts) ([]*model.Coach, error) {
			limit, offset := pg.LimitAndOffset()
			var qPtr *string
			if filters.Q != "" {
				qLocal := filters.Q
				qPtr = &qLocal
			}
			coaches, err := h.CoachSvc.List(ctx, model.CoachesListOptions{
				Limit:      limit,
				Offset:     offset,
				ActiveOnly: filters.Active,
				Q:          qPtr,
			})
			if err != nil {
				h.logger().Error("failed to load coaches for UI",
					"error", err,
					"query", filters.Q,
					"page", pg.Page,
					"page_size", pg.PageSize,
				)
			}
			return coaches, err
		},
		FilterParser: parseCoachesFilter,
		EnrichData: func(builder *TemplateDataBuilder, _ []*model.Coach, filters coachesFilter) {
			builder.With("Query", filters.Q).With("Active", filters.Active)
		},
		BasePath: "/dashboard/coaches",
		PageMeta: PageMeta{
			Title:       "Coaches | Bright Steps",
			PageTitle:   "Coaches",
			CurrentPage: PageAdminCoaches,
		},
		ItemsKey:     "Coaches",
		ErrorMessage: "Unable to load coaches.",
		ServiceAvailable: func() bool {
			return h.CoachSvc != nil
		},
		UnavailableMessage: "Unable to load coaches.",
	})
}

// CoachDelete handles removing a coach.
func (h *UIHandlers) CoachDelete(w http.ResponseWriter, r *http.Request) {
	h.handleDelete(w, r, deleteHandlerOpts{
		ServiceAvailable: func() bool { return h.CoachSvc != nil },
		Delete: func(ctx context.Context, id string) (bool, error) {
			return h.CoachSvc.Delete(ctx, id)
		},
		RedirectPath: "/dashboard/coaches",
		OnError: func(w http.ResponseWriter, _ *http.Request, _ error) {
			triggerToast(w, "Unable to delete coach. They may still have assigned coachees.", "error")
			HTMX(w).Redirect("/dashboard/coaches")
		},
	})
}

// --- Coach form (create/edit) ---

func (h *UIHandlers) renderCoachForm(w http.ResponseWriter, r *http.Request, data map[string]any) {
	data, _ = prepareFormFrame(FormFrameOpts{
		R:           r,
		Data:        data,
		DefaultMode: FormModeCreate,
		MetaForMode: func(mode FormMode) PageMeta {
			if mode == FormModeEdit {
				return PageMeta{
					Title:       "Edit Coach | Bright Steps",
					PageTitle:   "Edit Coach",
					CurrentPage: PageAdminCoachForm,
				}
			}
			return PageMeta{Title: "New Coach | Bright Steps", PageTitle: "New Coach", CurrentPage: PageAdminCoachForm}
		},
	})
	if formData, ok := data["FormData"].(coachFormData); ok {
		data["FormName"] = formData.Name
		data["FormEmail"] = formData.Email
		data["FormBio"] = formData.Bio
		data["FormPhotoURL"] = formData.PhotoURL
		data["FormActive"] = formData.Active
	}
	h.renderDashboardPage(w, r, data)
}

// coachFormData holds parsed form data for coach creation and updates.
type coachFormData struct {
	Name     string
	Email    string
	Bio      string
	PhotoURL string
	Active   bool
}

// parseCoachForm parses and validates coach form data.
func parseCoachForm(r *http.Request) (coachFormData, map[string]string) {
	errs := map[string]string{}
	if err := r.ParseForm(); err != nil {
		errs["_"] = "Invalid form submission."
	}

	f := coachFormData{
		Name:     strings.TrimSpace(r.Form.Get("name")),
		Email:    strings.TrimSpace(r.Form.Get("email")),
		Bio:      strings.TrimSpace(r.Form.Get("bio")),
		PhotoURL: strings.TrimSpace(r.Form.Get("photo_url")),
		Active:   r.Form.Get("active") == "on",
	}

	v := validation.New().
		Validate("name", f.Name, validation.Required("Name", 120)).
		Validate("email", f.Email, validation.Email("Email", 255)).
		Validate("bio", f.Bio, validation.Optional("Bio", 4000))
	if f.PhotoURL != "" {
		v.Validate("photo_url", f.PhotoURL, validation.HTTPSURL("Photo URL", 2048))
	}
	for k, msg := range v.Errors() {
		errs[k] = msg
	}
	return f, errs
}

// coachFormService adapts CoachesService to the generic form handler.
type coachFormService struct {
	svc CoachesService
}

func (s *coachFormService) Create(ctx context.Context, req coachFormData) (any, error) {
	var photoURL *string
	if req.PhotoURL != "" {
		photoURL = &req.PhotoURL
	}
	active := req.Active
	return s.svc.Create(ctx, &model.CreateCoachRequest{
		Name:     req.Name,
		Email:    req.Email,
		Bio:      req.Bio,
		PhotoURL: photoURL,
		Active:   &active,
	})
}

func (s *coachFormService) Update(ctx context.Context, id string, req coachFormData) (any, error) {
	updateReq := model.UpdateCoachRequest{
		Name:   &req.Name,
		Email:  &req.Email,
		Bio:    &req.Bio,
		Active: &req.Active,
	}
	if req.PhotoURL != "" {
		updateReq.PhotoURL = &req.PhotoURL
	}
	return s.svc.Update(ctx, id, updateReq)
}

func handleCoachFormError(err error) (map[string]string, string) {
	switch {
	case errors.Is(err, data.ErrCoachEmailExists):
		return map[string]string{"email": "A coach with this email already exists."}, ""
	case errors.Is(err, data.ErrCoachNotFound):
		return nil, "This coach no longer exists."
	case isValidationError(err):
		return nil, err.Error()
	}
	return nil, ""
}

// CoachNew renders the create form.
func (h *UIHandlers) CoachNew(w http.ResponseWriter, r *http.Request) {
	h.renderCoachForm(w, r, map[string]any{"Mode": FormModeCreate, "FormActive": true})
}

// CoachEdit renders the edit form populated from an existing coach.
func (h *UIHandlers) CoachEdit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" || h.CoachSvc == nil {
		h.NotFound(w, r)
		return
	}
	c, err := h.CoachSvc.GetByID(r.Context(), id)
	if err != nil || c == nil {
		h.NotFound(w, r)
		return
	}
	var photoURL string
	if c.PhotoURL != nil {
		photoURL = *c.PhotoURL
	}
	h.renderCoachForm(w, r, map[string]any{
		"Mode":         FormModeEdit,
		"CoachID":      c.ID,
		"FormName":     c.Name,
		"FormEmail":    c.Email,
		"FormBio":      c.Bio,
		"FormPhotoURL": photoURL,
		"FormActive":   c.Active,
	})
}

// CoachCreate handles POST to create a coach.
func (h *UIHandlers) CoachCreate(w http.ResponseWriter, r *http.Request) {
	if h.CoachSvc == nil {
		h.NotFound(w, r)
		return
	}
	HandleForm(FormHandlerOpts[coachFormData]{
		W:           w,
		R:           r,
		Mode:        FormModeCreate,
		Parser:      parseCoachForm,
		Service:     &coachFormService{svc: h.CoachSvc},
		Renderer:    h.renderCoachForm,
		SuccessURL:  "/dashboard/coaches",
		PageMeta:    PageMeta{Title: "New Coach | Bright Steps", PageTitle: "New Coach", CurrentPage: PageAdminCoachForm},
		HandleError: handleCoachFormError,
	})
}

// CoachUpdate handles POST to update an existing coach.
func (h *UIHandlers) CoachUpdate(w http.ResponseWriter, r *http.Request) {
	if h.CoachSvc == nil {
		h.NotFound(w, r)
		return
	}
	HandleForm(FormHandlerOpts[coachFormData]{
		W:           w,
		R:           r,
		Mode:        FormModeEdit,
		Parser:      parseCoachForm,
		Service:     &coachFormService{svc: h.CoachSvc},
		Renderer:    h.renderCoachForm,
		SuccessURL:  "/dashboard/coaches",
		PageMeta:    PageMeta{Title: "Edit Coach | Bright Steps", PageTitle: "Edit Coach", CurrentPage: PageAdminCoachForm},
		HandleError: handleCoachFormError,
	})
}
