package httpx

import (
	"context"
	"errors"
	"net/http"

	"github.com/brightsteps/brightsteps-web/internal/data"
	"github.com/brightsteps/brightsteps-web/internal/domain/model"
)

// Applications renders the pending mentor application queue.
func (h *UIHandlers) Applications(w http.ResponseWriter, r *http.Request) {
	HandleList(ListHandlerOpts[*model.MentorApplication, struct{}]{
		Handler: h,
		W:       w,
		R:       r,
		Fetcher: func(ctx context.Context, pg pageOpts) ([]*model.MentorApplication, error) {
			limit, offset := pg.LimitAndOffset()
			apps, err := h.AppSvc.List(ctx, limit, offset)
			if err != nil {
				h.logger().Error("failed to load mentor applications for UI",
					"error", err,
					"page", pg.Page,
					"page_size", pg.PageSize,
				)
			}
			return apps, err
		},
		BasePath: "/dashboard/coaches/applications",
		PageMeta: PageMeta{
			Title:       "Applications | Bright Steps",
			PageTitle:   "Mentor Applications",
			CurrentPage: PageAdminApplications,
		},
		ItemsKey:     "Applications",
		ErrorMessage: "Unable to load applications.",
		ServiceAvailable: func() bool {
			return h.AppSvc != nil
		},
		UnavailableMessage: "Unable to load applications.",
	})
}

// ApplicationApprove approves an application, creating a coach from it.
func (h *UIHandlers) ApplicationApprove(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" || h.AppSvc == nil {
		h.NotFound(w, r)
		return
	}

	coach, err := h.AppSvc.Approve(r.Context(), id)
	switch {
	case errors.Is(err, data.ErrApplicationNotFound):
		h.NotFound(w, r)
		return
	case errors.Is(err, data.ErrCoachEmailExists):
		triggerToast(w, "A coach with this email already exists.", "error")
		HTMX(w).Redirect("/dashboard/coaches/applications")
		return
	case err != nil:
		h.logger().Error("failed to approve application", "error", err, "application_id", id)
		triggerToast(w, "Unable to approve application.", "error")
		HTMX(w).Redirect("/dashboard/coaches/applications")
		return
	}

	triggerToast(w, coach.Name+" is now a coach.", "success")
	HTMX(w).Redirect("/dashboard/coaches/applications")
}

// ApplicationReject rejects and removes an application.
func (h *UIHandlers) ApplicationReject(w http.ResponseWriter, r *http.Request) {
	h.handleDelete(w, r, deleteHandlerOpts{
		ServiceAvailable: func() bool { return h.AppSvc != nil },
		Delete: func(ctx context.Context, id string) (bool, error) {
			return h.AppSvc.Reject(ctx, id)
		},
		RedirectPath: "/dashboard/coaches/applications",
	})
}
