package httpx

import (
	"context"
	"net/http"

	"github.com/brightsteps/brightsteps-web/internal/domain/model"
	"github.com/brightsteps/brightsteps-web/internal/http/uiutil"
)

const recentApplicationsLimit = 5

// RecentApplication is a mentor application row shown on the dashboard.
type RecentApplication struct {
	ID    string
	Name  string
	Email string
	Aged  string
}

// Dashboard serves the admin landing page with the overview counters.
func (h *UIHandlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "Dashboard | Bright Steps", PageTitle: "Dashboard", CurrentPage: PageDashboard},
		Fetch: func(ctx context.Context, data map[string]any) error {
			h.populateStats(ctx, data)
			h.populateRecentApplications(ctx, data)
			return nil
		},
	})
}

// populateStats loads the aggregated counters. A failure surfaces as a
// banner instead of a broken page.
func (h *UIHandlers) populateStats(ctx context.Context, data map[string]any) {
	if h.DashboardSvc == nil {
		data["StatsUnavailable"] = true
		return
	}
	stats, err := h.DashboardSvc.Stats(ctx)
	if err != nil {
		h.logger().WarnContext(ctx, "failed to load dashboard stats", "error", err)
		data["StatsUnavailable"] = true
		return
	}
	data["Stats"] = stats
}

func (h *UIHandlers) populateRecentApplications(ctx context.Context, data map[string]any) {
	if h.AppSvc == nil {
		data["RecentApplications"] = []RecentApplication{}
		return
	}
	apps, err := h.AppSvc.List(ctx, recentApplicationsLimit, 0)
	if err != nil {
		h.logger().WarnContext(ctx, "failed to load recent applications for dashboard", "error", err)
		data["RecentApplications"] = []RecentApplication{}
		return
	}
	data["RecentApplications"] = toRecentApplications(apps)
}

func toRecentApplications(apps []*model.MentorApplication) []RecentApplication {
	out := make([]RecentApplication, 0, len(apps))
	for _, a := range apps {
		out = append(out, RecentApplication{
			ID:    a.ID,
			Name:  a.Name,
			Email: a.Email,
			Aged:  uiutil.FriendlyRelativeTime(a.CreatedAt),
		})
	}
	return out
}
