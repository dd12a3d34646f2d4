package httpx

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/brightsteps/brightsteps-web/internal/data"
	domainauth "github.com/brightsteps/brightsteps-web/internal/domain/auth"
	"github.com/brightsteps/brightsteps-web/internal/domain/model"
	"github.com/brightsteps/brightsteps-web/internal/http/validation"
	"github.com/brightsteps/brightsteps-web/internal/service"
)

// Admins renders the admin account management list.
func (h *UIHandlers) Admins(w http.ResponseWriter, r *http.Request) {
	HandleList(ListHandlerOpts[*model.AdminAccount, struct{}]{
		Handler: h,
		W:       w,
		R:       r,
		Fetcher: func(ctx context.Context, _ pageOpts) ([]*model.AdminAccount, error) {
			accounts, err := h.AdminSvc.List(ctx)
			if err != nil {
				h.logger().Error("failed to load admin accounts for UI", "error", err)
			}
			return accounts, err
		},
		BasePath: "/dashboard/admins",
		PageMeta: PageMeta{
			Title:       "Admins | Bright Steps",
			PageTitle:   "Admins",
			CurrentPage: PageAdminAdmins,
		},
		ItemsKey:     "Admins",
		ErrorMessage: "Unable to load admin accounts.",
		ServiceAvailable: func() bool {
			return h.AdminSvc != nil
		},
		UnavailableMessage: "Unable to load admin accounts.",
	})
}

// AdminDelete handles deactivating/removing an admin account. The acting
// admin can never delete their own account.
func (h *UIHandlers) AdminDelete(w http.ResponseWriter, r *http.Request) {
	actorID := sessionUserID(r)
	h.handleDelete(w, r, deleteHandlerOpts{
		ServiceAvailable: func() bool { return h.AdminSvc != nil && actorID != "" },
		Delete: func(ctx context.Context, id string) (bool, error) {
			return h.AdminSvc.Delete(ctx, actorID, id)
		},
		RedirectPath: "/dashboard/admins",
		OnError: func(w http.ResponseWriter, _ *http.Request, err error) {
			if errors.Is(err, service.ErrSelfDemotion) {
				triggerToast(w, "You cannot remove your own account.", "error")
			} else {
				triggerToast(w, "Unable to remove admin account.", "error")
			}
			HTMX(w).Redirect("/dashboard/admins")
		},
	})
}

func sessionUserID(r *http.Request) string {
	if session := GetSessionFromContext(r.Context()); session != nil {
		return session.UserID
	}
	return ""
}

// --- Admin account form (create/edit) ---

func (h *UIHandlers) renderAdminForm(w http.ResponseWriter, r *http.Request, data map[string]any) {
	data, _ = prepareFormFrame(FormFrameOpts{
		R:           r,
		Data:        data,
		DefaultMode: FormModeCreate,
		MetaForMode: func(mode FormMode) PageMeta {
			if mode == FormModeEdit {
				return PageMeta{
					Title:       "Edit Admin | Bright Steps",
					PageTitle:   "Edit Admin",
					CurrentPage: PageAdminAdminForm,
				}
			}
			return PageMeta{Title: "New Admin | Bright Steps", PageTitle: "New Admin", CurrentPage: PageAdminAdminForm}
		},
	})
	if formData, ok := data["FormData"].(adminFormData); ok {
		data["FormEmail"] = formData.Email
		data["FormDisplayName"] = formData.DisplayName
		data["FormRole"] = formData.Role
		data["FormActive"] = formData.Active
	}
	h.renderDashboardPage(w, r, data)
}

// adminFormData holds parsed form data for admin account creation and updates.
type adminFormData struct {
	Email       string
	DisplayName string
	Role        string
	Password    string
	Active      bool
}

// parseAdminForm parses and validates admin account form data. The password
// is optional on edit; requiring it there is the service's job when set.
func parseAdminForm(r *http.Request) (adminFormData, map[string]string) {
	errs := map[string]string{}
	if err := r.ParseForm(); err != nil {
		errs["_"] = "Invalid form submission."
	}

	f := adminFormData{
		Email:       strings.TrimSpace(r.Form.Get("email")),
		DisplayName: strings.TrimSpace(r.Form.Get("display_name")),
		Role:        strings.TrimSpace(r.Form.Get("role")),
		Password:    r.Form.Get("password"),
		Active:      r.Form.Get("active") == "on",
	}

	v := validation.New().
		Validate("email", f.Email, validation.Email("Email", 255)).
		Validate("display_name", f.DisplayName, validation.Required("Display name", 120)).
		Validate("role", f.Role, validation.OneOf("Role", []string{
			string(domainauth.RoleAdmin), string(domainauth.RoleSuperAdmin),
		}))
	for k, msg := range v.Errors() {
		errs[k] = msg
	}
	return f, errs
}

// adminFormService adapts AdminAccountsService to the generic form handler.
// ActorID carries the signed-in admin so the service can refuse self-demotion.
type adminFormService struct {
	svc     AdminAccountsService
	actorID string
}

func (s *adminFormService) Create(ctx context.Context, req adminFormData) (any, error) {
	return s.svc.Create(ctx, &model.CreateAdminAccountRequest{
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Role:        domainauth.Role(strings.ToLower(req.Role)),
		Password:    req.Password,
	})
}

func (s *adminFormService) Update(ctx context.Context, id string, req adminFormData) (any, error) {
	role := domainauth.Role(strings.ToLower(req.Role))
	updateReq := model.UpdateAdminAccountRequest{
		Email:       &req.Email,
		DisplayName: &req.DisplayName,
		Role:        &role,
		Active:      &req.Active,
	}
	if req.Password != "" {
		updateReq.Password = &req.Password
	}
	return s.svc.Update(ctx, s.actorID, id, updateReq)
}

func handleAdminFormError(err error) (map[string]string, string) {
	switch {
	case errors.Is(err, data.ErrAdminEmailExists):
		return map[string]string{"email": "An admin with this email already exists."}, ""
	case errors.Is(err, service.ErrSelfDemotion):
		return nil, "You cannot change the role or status of your own account."
	case errors.Is(err, data.ErrAdminNotFound):
		return nil, "This admin account no longer exists."
	case isValidationError(err):
		return nil, err.Error()
	}
	return nil, ""
}

// AdminNew renders the create form.
func (h *UIHandlers) AdminNew(w http.ResponseWriter, r *http.Request) {
	h.renderAdminForm(w, r, map[string]any{
		"Mode":       FormModeCreate,
		"FormRole":   string(domainauth.RoleAdmin),
		"FormActive": true,
	})
}

// AdminEdit renders the edit form populated from an existing account.
func (h *UIHandlers) AdminEdit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" || h.AdminSvc == nil {
		h.NotFound(w, r)
		return
	}
	a, err := h.AdminSvc.GetByID(r.Context(), id)
	if err != nil || a == nil {
		h.NotFound(w, r)
		return
	}
	h.renderAdminForm(w, r, map[string]any{
		"Mode":            FormModeEdit,
		"AdminID":         a.ID,
		"FormEmail":       a.Email,
		"FormDisplayName": a.DisplayName,
		"FormRole":        string(a.Role),
		"FormActive":      a.Active,
	})
}

// AdminCreate handles POST to create an admin account.
func (h *UIHandlers) AdminCreate(w http.ResponseWriter, r *http.Request) {
	if h.AdminSvc == nil {
		h.NotFound(w, r)
		return
	}
	HandleForm(FormHandlerOpts[adminFormData]{
		W:           w,
		R:           r,
		Mode:        FormModeCreate,
		Parser:      parseAdminFormRequiringPassword,
		Service:     &adminFormService{svc: h.AdminSvc, actorID: sessionUserID(r)},
		Renderer:    h.renderAdminForm,
		SuccessURL:  "/dashboard/admins",
		PageMeta:    PageMeta{Title: "New Admin | Bright Steps", PageTitle: "New Admin", CurrentPage: PageAdminAdminForm},
		HandleError: handleAdminFormError,
	})
}

// parseAdminFormRequiringPassword wraps parseAdminForm for create mode,
// where a password must be provided.
func parseAdminFormRequiringPassword(r *http.Request) (adminFormData, map[string]string) {
	f, errs := parseAdminForm(r)
	if strings.TrimSpace(f.Password) == "" {
		errs["password"] = "Password is required."
	} else if len(f.Password) < 10 {
		errs["password"] = "Password must be at least 10 characters."
	}
	return f, errs
}

// AdminUpdate handles POST to update an existing admin account.
func (h *UIHandlers) AdminUpdate(w http.ResponseWriter, r *http.Request) {
	if h.AdminSvc == nil {
		h.NotFound(w, r)
		return
	}
	HandleForm(FormHandlerOpts[adminFormData]{
		W:           w,
		R:           r,
		Mode:        FormModeEdit,
		Parser:      parseAdminForm,
		Service:     &adminFormService{svc: h.AdminSvc, actorID: sessionUserID(r)},
		Renderer:    h.renderAdminForm,
		SuccessURL:  "/dashboard/admins",
		PageMeta:    PageMeta{Title: "Edit Admin | Bright Steps", PageTitle: "Edit Admin", CurrentPage: PageAdminAdminForm},
		HandleError: handleAdminFormError,
	})
}
