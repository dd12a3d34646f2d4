package httpx

import (
	"context"
	"errors"
	"net/http"

	"github.com/brightsteps/brightsteps-web/internal/data"
	"github.com/brightsteps/brightsteps-web/internal/domain/model"
)

const galleryPageSize = 24

// SiteBlog serves the public blog index, published posts only.
func (h *UIHandlers) SiteBlog(w http.ResponseWriter, r *http.Request) {
	page, pageSize := getPageParams(r.URL.Query())
	meta := PageMeta{Title: "Blog | Bright Steps", PageTitle: "Blog", CurrentPage: PageBlog}

	if h.BlogSvc == nil {
		h.renderSitePage(w, r, NewTemplateData(r, meta).WithError("The blog is unavailable right now.").Build())
		return
	}

	pg := pageOpts{Page: page, PageSize: pageSize}
	limit, offset := pg.LimitAndOffset()
	posts, err := h.BlogSvc.ListRendered(r.Context(), model.BlogPostsListOptions{
		Limit:         limit,
		Offset:        offset,
		PublishedOnly: true,
	})
	if err != nil {
		h.logger().Error("failed to load public blog index", "error", err, "page", page)
		h.renderSitePage(w, r, NewTemplateData(r, meta).WithError("Unable to load blog posts.").Build())
		return
	}

	hasNext := len(posts) > pageSize
	if hasNext {
		posts = posts[:pageSize]
	}
	builder := NewTemplateData(r, meta).
		WithPagination(PaginationData{
			Page:     page,
			PageSize: pageSize,
			HasPrev:  page > 1,
			HasNext:  hasNext,
			BasePath: "/blog",
		}).
		With("Posts", posts)
	h.renderSitePage(w, r, builder.Build())
}

// SiteBlogPost serves one published post by slug.
func (h *UIHandlers) SiteBlogPost(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" || h.BlogSvc == nil {
		h.NotFound(w, r)
		return
	}

	post, err := h.BlogSvc.GetRenderedBySlug(r.Context(), slug)
	if err != nil || post == nil || !post.Published {
		if err != nil && !errors.Is(err, data.ErrBlogPostNotFound) {
			h.logger().Error("failed to load blog post", "error", err, "slug", slug)
		}
		h.NotFound(w, r)
		return
	}

	h.SitePage(w, r, PageSpec{
		Meta: PageMeta{Title: post.Title + " | Bright Steps", PageTitle: post.Title, CurrentPage: PageBlogPost},
		Fetch: func(_ context.Context, data map[string]any) error {
			data["Post"] = post
			return nil
		},
	})
}

// SiteGallery serves the public photo gallery.
func (h *UIHandlers) SiteGallery(w http.ResponseWriter, r *http.Request) {
	h.SitePage(w, r, PageSpec{
		Meta: PageMeta{Title: "Gallery | Bright Steps", PageTitle: "Gallery", CurrentPage: PageGallery},
		Fetch: func(ctx context.Context, data map[string]any) error {
			if h.GallerySvc == nil {
				return nil
			}
			images, err := h.GallerySvc.List(ctx, galleryPageSize, 0)
			if err != nil {
				h.logger().Error("failed to load public gallery", "error", err)
				return err
			}
			data["Images"] = images
			return nil
		},
	})
}

// SiteEvents serves the public events page with upcoming published events.
func (h *UIHandlers) SiteEvents(w http.ResponseWriter, r *http.Request) {
	h.SitePage(w, r, PageSpec{
		Meta: PageMeta{Title: "Events | Bright Steps", PageTitle: "Events", CurrentPage: PageEvents},
		Fetch: func(ctx context.Context, data map[string]any) error {
			return h.fetchPublicEvents(ctx, data)
		},
	})
}

func (h *UIHandlers) fetchPublicEvents(ctx context.Context, data map[string]any) error {
	if h.EventSvc == nil {
		return nil
	}
	events, err := h.EventSvc.ListUpcomingPublic(ctx)
	if err != nil {
		h.logger().Error("failed to load public events", "error", err)
		return err
	}
	data["Events"] = events
	return nil
}

// SiteEventRSVP handles an RSVP submitted from the public events page.
// Capacity and duplicate failures re-render the events page with a message
// next to the affected event.
func (h *UIHandlers) SiteEventRSVP(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("id")
	if eventID == "" || h.EventSvc == nil {
		h.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	req := &model.CreateEventRSVPRequest{
		EventID: eventID,
		Name:    r.Form.Get("name"),
		Email:   r.Form.Get("email"),
	}

	_, err := h.EventSvc.RSVP(r.Context(), req)
	var message, tone string
	switch {
	case err == nil:
		message, tone = "You're on the list. See you there!", "success"
	case errors.Is(err, data.ErrEventNotFound):
		h.NotFound(w, r)
		return
	case errors.Is(err, data.ErrEventFull):
		message, tone = "This event is at capacity.", "error"
	case errors.Is(err, data.ErrAlreadyAttending):
		message, tone = "This email has already RSVPed to this event.", "error"
	case isValidationError(err):
		message, tone = err.Error(), "error"
	default:
		h.logger().Error("failed to record RSVP", "error", err, "event_id", eventID)
		message, tone = "Unable to record your RSVP. Please try again.", "error"
	}

	meta := PageMeta{Title: "Events | Bright Steps", PageTitle: "Events", CurrentPage: PageEvents}
	builder := NewTemplateData(r, meta).
		With("RSVPMessage", message).
		With("RSVPTone", tone).
		With("RSVPEventID", eventID)
	if fetchErr := h.fetchPublicEvents(r.Context(), builder.Build()); fetchErr != nil {
		builder.WithError("Unable to load events.")
	}
	h.renderSitePage(w, r, builder.Build())
}

// Apply serves the public mentor application form.
func (h *UIHandlers) Apply(w http.ResponseWriter, r *http.Request) {
	h.SitePage(w, r, PageSpec{
		Meta: PageMeta{Title: "Become a Mentor | Bright Steps", PageTitle: "Become a Mentor", CurrentPage: PageApply},
	})
}

// ApplySubmit handles the public mentor application submission.
func (h *UIHandlers) ApplySubmit(w http.ResponseWriter, r *http.Request) {
	meta := PageMeta{Title: "Become a Mentor | Bright Steps", PageTitle: "Become a Mentor", CurrentPage: PageApply}
	if h.AppSvc == nil {
		h.renderSitePage(w, r, NewTemplateData(r, meta).WithError("Applications are unavailable right now.").Build())
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	req := &model.CreateMentorApplicationRequest{
		Name:       r.Form.Get("name"),
		Email:      r.Form.Get("email"),
		Phone:      r.Form.Get("phone"),
		Motivation: r.Form.Get("motivation"),
	}

	_, err := h.AppSvc.Submit(r.Context(), req)
	switch {
	case err == nil:
		h.renderSitePage(w, r, NewTemplateData(r, meta).With("ApplySuccess", true).Build())
	case errors.Is(err, data.ErrApplicationEmailExists):
		h.renderApplyError(w, r, req, map[string]string{"email": "An application with this email is already pending."})
	case isValidationError(err):
		h.renderApplyError(w, r, req, map[string]string{"_": err.Error()})
	default:
		h.logger().Error("failed to submit mentor application", "error", err)
		h.renderSitePage(w, r, NewTemplateData(r, meta).WithError("Unable to submit your application. Please try again.").Build())
	}
}

func (h *UIHandlers) renderApplyError(
	w http.ResponseWriter,
	r *http.Request,
	req *model.CreateMentorApplicationRequest,
	fieldErrors map[string]string,
) {
	meta := PageMeta{Title: "Become a Mentor | Bright Steps", PageTitle: "Become a Mentor", CurrentPage: PageApply}
	builder := NewTemplateData(r, meta).
		WithFieldErrors(fieldErrors).
		WithError(errMsgFixBelow).
		With("FormName", req.Name).
		With("FormEmail", req.Email).
		With("FormPhone", req.Phone).
		With("FormMotivation", req.Motivation)
	h.renderSitePage(w, r, builder.Build())
}
