package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/brightsteps/brightsteps-web/internal/data"
	"github.com/brightsteps/brightsteps-web/internal/domain/model"
	"github.com/brightsteps/brightsteps-web/internal/http/validation"
)

type coacheesFilter struct {
	Q          string
	Unassigned bool
}

func parseCoacheesFilter(q url.Values) (coacheesFilter, error) {
	return coacheesFilter{
		Q:          strings.TrimSpace(q.Get("q")),
		Unassigned: strings.TrimSpace(q.Get("unassigned")) == StrTrue,
	}, nil
}

func buildCoacheesListOptions(f coacheesFilter, limit, offset int) model.CoacheesListOptions {
	var qPtr *string
	if f.Q != "" {
		qLocal := f.Q
		qPtr = &qLocal
	}
	return model.CoacheesListOptions{
		Limit:          limit,
		Offset:         offset,
		UnassignedOnly: f.Unassigned,
		Q:              qPtr,
	}
}

// Coachees renders the coachee management list, HTMX-aware.
func (h *UIHandlers) Coachees(w http.ResponseWriter, r *http.Request) {
	HandleList(ListHandlerOpts[*model.Coachee, coacheesFilter]{
		Handler: h,
		W:       w,
		R:       r,
		FilteredFetcher: func(ctx context.Context, filters coacheesFilter, pg pageOpts) ([]*model.Coachee, error) {
			limit, offset := pg.LimitAndOffset()
			coachees, err := h.CoacheeSvc.List(ctx, buildCoacheesListOptions(filters, limit, offset))
			if err != nil {
				h.logger().Error("failed to load coachees for UI",
					"error", err,
					"query", filters.Q,
					"unassigned", filters.Unassigned,
					"page", pg.Page,
					"page_size", pg.PageSize,
				)
			}
			return coachees, err
		},
		FilterParser: parseCoacheesFilter,
		EnrichData: func(builder *TemplateDataBuilder, _ []*model.Coachee, filters coacheesFilter) {
			builder.With("Query", filters.Q).With("Unassigned", filters.Unassigned)
		},
		BasePath: "/dashboard/coachees",
		PageMeta: PageMeta{
			Title:       "Coachees | Bright Steps",
			PageTitle:   "Coachees",
			CurrentPage: PageAdminCoachees,
		},
		ItemsKey:     "Coachees",
		ErrorMessage: "Unable to load coachees.",
		ServiceAvailable: func() bool {
			return h.CoacheeSvc != nil
		},
		UnavailableMessage: "Unable to load coachees.",
	})
}

// CoacheeDelete handles removing a coachee.
func (h *UIHandlers) CoacheeDelete(w http.ResponseWriter, r *http.Request) {
	h.handleDelete(w, r, deleteHandlerOpts{
		ServiceAvailable: func() bool { return h.CoacheeSvc != nil },
		Delete: func(ctx context.Context, id string) (bool, error) {
			return h.CoacheeSvc.Delete(ctx, id)
		},
		RedirectPath: "/dashboard/coachees",
	})
}

// CoacheeAssign handles (re)assigning a coach from the list view.
// An empty coach_id unassigns.
func (h *UIHandlers) CoacheeAssign(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" || h.CoacheeSvc == nil {
		h.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	var coachID *string
	if v := strings.TrimSpace(r.Form.Get("coach_id")); v != "" {
		coachID = &v
	}

	coachee, err := h.CoacheeSvc.AssignCoach(r.Context(), id, coachID)
	switch {
	case errors.Is(err, data.ErrCoacheeNotFound):
		h.NotFound(w, r)
		return
	case errors.Is(err, data.ErrCoachMissing):
		triggerToast(w, "The selected coach no longer exists.", "error")
		HTMX(w).Redirect("/dashboard/coachees")
		return
	case err != nil:
		h.logger().Error("failed to assign coach", "error", err, "coachee_id", id)
		triggerToast(w, "Unable to update assignment.", "error")
		HTMX(w).Redirect("/dashboard/coachees")
		return
	}

	if coachee.CoachID == nil {
		triggerToast(w, coachee.Name+" is now unassigned.", "info")
	} else {
		triggerToast(w, coachee.Name+" assigned.", "success")
	}
	HTMX(w).Redirect("/dashboard/coachees")
}

// --- Coachee form (create/edit) ---

// buildCoachOptions returns [{ID, Name, Selected}] for the coach select.
func (h *UIHandlers) buildCoachOptions(ctx context.Context, selectedID string) ([]map[string]any, error) {
	var out []map[string]any
	if h.CoachSvc == nil {
		return out, errors.New("coaches service unavailable")
	}
	coaches, err := h.CoachSvc.ListActive(ctx)
	if err != nil {
		return out, err
	}
	sort.Slice(coaches, func(i, j int) bool {
		return strings.ToLower(coaches[i].Name) < strings.ToLower(coaches[j].Name)
	})
	for _, c := range coaches {
		out = append(out, map[string]any{
			"ID":       c.ID,
			"Name":     c.Name,
			"Selected": c.ID == selectedID,
		})
	}
	return out, nil
}

func (h *UIHandlers) renderCoacheeForm(w http.ResponseWriter, r *http.Request, data map[string]any) {
	data, _ = prepareFormFrame(FormFrameOpts{
		R:           r,
		Data:        data,
		DefaultMode: FormModeCreate,
		MetaForMode: func(mode FormMode) PageMeta {
			if mode == FormModeEdit {
				return PageMeta{
					Title:       "Edit Coachee | Bright Steps",
					PageTitle:   "Edit Coachee",
					CurrentPage: PageAdminCoacheeForm,
				}
			}
			return PageMeta{Title: "New Coachee | Bright Steps", PageTitle: "New Coachee", CurrentPage: PageAdminCoacheeForm}
		},
	})
	if formData, ok := data["FormData"].(coacheeFormData); ok {
		data["FormName"] = formData.Name
		data["FormEmail"] = formData.Email
		data["FormNotes"] = formData.Notes
		data["FormCoachID"] = formData.CoachID
	}

	selected, _ := data["FormCoachID"].(string)
	opts, err := h.buildCoachOptions(r.Context(), selected)
	data["CoachOptions"] = opts
	if err != nil {
		data["Error"], data["ErrorMessage"] = true, "Failed to load coaches."
	}

	h.renderDashboardPage(w, r, data)
}

// coacheeFormData holds parsed form data for coachee creation and updates.
type coacheeFormData struct {
	Name    string
	Email   string
	Notes   string
	CoachID string
}

// parseCoacheeForm parses and validates coachee form data.
func parseCoacheeForm(r *http.Request) (coacheeFormData, map[string]string) {
	errs := map[string]string{}
	if err := r.ParseForm(); err != nil {
		errs["_"] = "Invalid form submission."
	}

	f := coacheeFormData{
		Name:    strings.TrimSpace(r.Form.Get("name")),
		Email:   strings.TrimSpace(r.Form.Get("email")),
		Notes:   strings.TrimSpace(r.Form.Get("notes")),
		CoachID: strings.TrimSpace(r.Form.Get("coach_id")),
	}

	v := validation.New().
		Validate("name", f.Name, validation.Required("Name", 120)).
		Validate("email", f.Email, validation.Email("Email", 255)).
		Validate("notes", f.Notes, validation.Optional("Notes", 4000))
	for k, msg := range v.Errors() {
		errs[k] = msg
	}
	return f, errs
}

// coacheeFormService adapts CoacheesService to the generic form handler.
// Updates never change the assignment; that goes through AssignCoach.
type coacheeFormService struct {
	svc CoacheesService
}

func (s *coacheeFormService) Create(ctx context.Context, req coacheeFormData) (any, error) {
	var coachID *string
	if req.CoachID != "" {
		coachID = &req.CoachID
	}
	return s.svc.Create(ctx, &model.CreateCoacheeRequest{
		Name:    req.Name,
		Email:   req.Email,
		Notes:   req.Notes,
		CoachID: coachID,
	})
}

func (s *coacheeFormService) Update(ctx context.Context, id string, req coacheeFormData) (any, error) {
	return s.svc.Update(ctx, id, model.UpdateCoacheeRequest{
		Name:  &req.Name,
		Email: &req.Email,
		Notes: &req.Notes,
	})
}

func handleCoacheeFormError(err error) (map[string]string, string) {
	switch {
	case errors.Is(err, data.ErrCoacheeEmailExists):
		return map[string]string{"email": "A coachee with this email already exists."}, ""
	case errors.Is(err, data.ErrCoachMissing):
		return map[string]string{"coach_id": "The selected coach no longer exists."}, ""
	case errors.Is(err, data.ErrCoacheeNotFound):
		return nil, "This coachee no longer exists."
	case isValidationError(err):
		return nil, err.Error()
	}
	return nil, ""
}

// CoacheeNew renders the create form.
func (h *UIHandlers) CoacheeNew(w http.ResponseWriter, r *http.Request) {
	h.renderCoacheeForm(w, r, map[string]any{"Mode": FormModeCreate})
}

// CoacheeEdit renders the edit form populated from an existing coachee.
func (h *UIHandlers) CoacheeEdit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" || h.CoacheeSvc == nil {
		h.NotFound(w, r)
		return
	}
	c, err := h.CoacheeSvc.GetByID(r.Context(), id)
	if err != nil || c == nil {
		h.NotFound(w, r)
		return
	}
	var coachID string
	if c.CoachID != nil {
		coachID = *c.CoachID
	}
	h.renderCoacheeForm(w, r, map[string]any{
		"Mode":        FormModeEdit,
		"CoacheeID":   c.ID,
		"FormName":    c.Name,
		"FormEmail":   c.Email,
		"FormNotes":   c.Notes,
		"FormCoachID": coachID,
	})
}

// CoacheeCreate handles POST to create a coachee.
func (h *UIHandlers) CoacheeCreate(w http.ResponseWriter, r *http.Request) {
	if h.CoacheeSvc == nil {
		h.NotFound(w, r)
		return
	}
	HandleForm(FormHandlerOpts[coacheeFormData]{
		W:           w,
		R:           r,
		Mode:        FormModeCreate,
		Parser:      parseCoacheeForm,
		Service:     &coacheeFormService{svc: h.CoacheeSvc},
		Renderer:    h.renderCoacheeForm,
		SuccessURL:  "/dashboard/coachees",
		PageMeta:    PageMeta{Title: "New Coachee | Bright Steps", PageTitle: "New Coachee", CurrentPage: PageAdminCoacheeForm},
		HandleError: handleCoacheeFormError,
	})
}

// CoacheeUpdate handles POST to update an existing coachee.
func (h *UIHandlers) CoacheeUpdate(w http.ResponseWriter, r *http.Request) {
	if h.CoacheeSvc == nil {
		h.NotFound(w, r)
		return
	}
	HandleForm(FormHandlerOpts[coacheeFormData]{
		W:           w,
		R:           r,
		Mode:        FormModeEdit,
		Parser:      parseCoacheeForm,
		Service:     &coacheeFormService{svc: h.CoacheeSvc},
		Renderer:    h.renderCoacheeForm,
		SuccessURL:  "/dashboard/coachees",
		PageMeta:    PageMeta{Title: "Edit Coachee | Bright Steps", PageTitle: "Edit Coachee", CurrentPage: PageAdminCoacheeForm},
		HandleError: handleCoacheeFormError,
	})
}
