package httpx

import (
	"context"
	"net/http"

	"github.com/brightsteps/brightsteps-web/internal/domain/model"
)

const (
	homeRecentPostsLimit = 3
	homeEventsLimit      = 3
)

// Home serves the public landing page with recent posts and upcoming events.
func (h *UIHandlers) Home(w http.ResponseWriter, r *http.Request) {
	h.SitePage(w, r, PageSpec{
		Meta: PageMeta{Title: "Bright Steps Youth Mentoring", PageTitle: "Bright Steps", CurrentPage: PageHome},
		Fetch: func(ctx context.Context, data map[string]any) error {
			h.populateHomeHighlights(ctx, data)
			return nil
		},
	})
}

// populateHomeHighlights loads the home page teasers. Failures degrade to an
// emptier home page rather than an error page.
func (h *UIHandlers) populateHomeHighlights(ctx context.Context, data map[string]any) {
	if h.BlogSvc != nil {
		posts, err := h.BlogSvc.ListRendered(ctx, model.BlogPostsListOptions{
			Limit:         homeRecentPostsLimit,
			PublishedOnly: true,
		})
		if err != nil {
			h.logger().WarnContext(ctx, "failed to load recent posts for home page", "error", err)
		} else {
			data["RecentPosts"] = posts
		}
	}
	if h.EventSvc != nil {
		events, err := h.EventSvc.ListUpcomingPublic(ctx)
		if err != nil {
			h.logger().WarnContext(ctx, "failed to load upcoming events for home page", "error", err)
		} else {
			if len(events) > homeEventsLimit {
				events = events[:homeEventsLimit]
			}
			data["UpcomingEvents"] = events
		}
	}
}

// About serves the about section landing page.
func (h *UIHandlers) About(w http.ResponseWriter, r *http.Request) {
	h.SitePage(w, r, PageSpec{
		Meta: PageMeta{Title: "About Us | Bright Steps", PageTitle: "About Us", CurrentPage: PageAbout},
	})
}

// AboutMission serves the mission statement page.
func (h *UIHandlers) AboutMission(w http.ResponseWriter, r *http.Request) {
	h.SitePage(w, r, PageSpec{
		Meta: PageMeta{Title: "Our Mission | Bright Steps", PageTitle: "Our Mission", CurrentPage: PageAboutMission},
	})
}

// AboutTeam serves the team page listing active coaches.
func (h *UIHandlers) AboutTeam(w http.ResponseWriter, r *http.Request) {
	h.SitePage(w, r, PageSpec{
		Meta: PageMeta{Title: "Our Team | Bright Steps", PageTitle: "Our Team", CurrentPage: PageAboutTeam},
		Fetch: func(ctx context.Context, data map[string]any) error {
			if h.CoachSvc == nil {
				return nil
			}
			coaches, err := h.CoachSvc.ListActive(ctx)
			if err != nil {
				h.logger().WarnContext(ctx, "failed to load coaches for team page", "error", err)
				return err
			}
			data["Coaches"] = coaches
			return nil
		},
	})
}

// AboutImpact serves the impact/results page.
func (h *UIHandlers) AboutImpact(w http.ResponseWriter, r *http.Request) {
	h.SitePage(w, r, PageSpec{
		Meta: PageMeta{Title: "Our Impact | Bright Steps", PageTitle: "Our Impact", CurrentPage: PageAboutImpact},
	})
}

// Contact serves the contact page.
func (h *UIHandlers) Contact(w http.ResponseWriter, r *http.Request) {
	h.SitePage(w, r, PageSpec{
		Meta: PageMeta{Title: "Contact | Bright Steps", PageTitle: "Contact Us", CurrentPage: PageContact},
	})
}

// programPages maps URL slugs to program page metadata.
//
//nolint:gochecknoglobals // static read-only route metadata
var programPages = map[string]PageMeta{
	"mentoring": {
		Title: "One-on-One Mentoring | Bright Steps", PageTitle: "One-on-One Mentoring", CurrentPage: PageProgramMentoring,
	},
	"tutoring": {
		Title: "Tutoring | Bright Steps", PageTitle: "Tutoring", CurrentPage: PageProgramTutoring,
	},
	"sports": {
		Title: "Sports & Recreation | Bright Steps", PageTitle: "Sports & Recreation", CurrentPage: PageProgramSports,
	},
	"arts": {
		Title: "Creative Arts | Bright Steps", PageTitle: "Creative Arts", CurrentPage: PageProgramArts,
	},
	"leadership": {
		Title: "Leadership | Bright Steps", PageTitle: "Leadership", CurrentPage: PageProgramLeadership,
	},
	"summer-camp": {
		Title: "Summer Camp | Bright Steps", PageTitle: "Summer Camp", CurrentPage: PageProgramSummerCamp,
	},
	"college-prep": {
		Title: "College Prep | Bright Steps", PageTitle: "College Prep", CurrentPage: PageProgramCollegePrep,
	},
}

// Program serves one of the program detail pages by slug.
func (h *UIHandlers) Program(w http.ResponseWriter, r *http.Request) {
	meta, ok := programPages[r.PathValue("slug")]
	if !ok {
		h.NotFound(w, r)
		return
	}
	h.SitePage(w, r, PageSpec{Meta: meta})
}
