package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/brightsteps/brightsteps-web/internal/data"
	"github.com/brightsteps/brightsteps-web/internal/domain/model"
	"github.com/brightsteps/brightsteps-web/internal/http/validation"
)

// datetimeLocalLayout matches <input type="datetime-local"> values.
const datetimeLocalLayout = "2006-01-02T15:04"

type eventsFilter struct {
	Upcoming  bool
	Published *bool
}

func parseEventsFilter(q url.Values) (eventsFilter, error) {
	publishedStr := strings.TrimSpace(q.Get("published"))
	var publishedPtr *bool
	switch publishedStr {
	case StrTrue, StrFalse:
		b := publishedStr == StrTrue
		publishedPtr = &b
	}
	return eventsFilter{
		Upcoming:  strings.TrimSpace(q.Get("upcoming")) == StrTrue,
		Published: publishedPtr,
	}, nil
}

// Events renders the event management list, HTMX-aware.
func (h *UIHandlers) Events(w http.ResponseWriter, r *http.Request) {
	HandleList(ListHandlerOpts[*model.Event, eventsFilter]{
		Handler: h,
		W:       w,
		R:       r,
		FilteredFetcher: func(ctx context.Context, filters eventsFilter, pg pageOpts) ([]*model.Event, error) {
			limit, offset := pg.LimitAndOffset()
			events, err := h.EventSvc.List(ctx, model.EventsListOptions{
				Limit:         limit,
				Offset:        offset,
				PublishedOnly: filters.Published != nil && *filters.Published,
				UpcomingOnly:  filters.Upcoming,
			})
			if err != nil {
				h.logger().Error("failed to load events for UI",
					"error", err,
					"page", pg.Page,
					"page_size", pg.PageSize,
				)
			}
			return events, err
		},
		FilterParser: parseEventsFilter,
		EnrichData: func(builder *TemplateDataBuilder, _ []*model.Event, filters eventsFilter) {
			builder.With("Upcoming", filters.Upcoming)
			if filters.Published != nil {
				builder.With("PublishedFilterSet", true).With("Published", *filters.Published)
			}
		},
		BasePath: "/dashboard/events",
		PageMeta: PageMeta{
			Title:       "Events | Bright Steps",
			PageTitle:   "Events",
			CurrentPage: PageAdminEvents,
		},
		ItemsKey:     "Events",
		ErrorMessage: "Unable to load events.",
		ServiceAvailable: func() bool {
			return h.EventSvc != nil
		},
		UnavailableMessage: "Unable to load events.",
	})
}

// EventDelete handles deleting an event and its RSVPs.
func (h *UIHandlers) EventDelete(w http.ResponseWriter, r *http.Request) {
	h.handleDelete(w, r, deleteHandlerOpts{
		ServiceAvailable: func() bool { return h.EventSvc != nil },
		Delete: func(ctx context.Context, id string) (bool, error) {
			return h.EventSvc.Delete(ctx, id)
		},
		RedirectPath: "/dashboard/events",
	})
}

// EventAttendance renders the RSVP list for one event.
func (h *UIHandlers) EventAttendance(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" || h.EventSvc == nil {
		h.NotFound(w, r)
		return
	}
	event, err := h.EventSvc.GetByID(r.Context(), id)
	if err != nil || event == nil {
		h.NotFound(w, r)
		return
	}

	h.Page(w, r, PageSpec{
		Meta: PageMeta{
			Title:       "Attendance | Bright Steps",
			PageTitle:   "Attendance: " + event.Title,
			CurrentPage: PageAdminEventAttendance,
		},
		Fetch: func(ctx context.Context, data map[string]any) error {
			rsvps, listErr := h.EventSvc.ListRSVPs(ctx, id)
			if listErr != nil {
				h.logger().Error("failed to load RSVPs", "error", listErr, "event_id", id)
				return listErr
			}
			data["Event"] = event
			data["RSVPs"] = rsvps
			return nil
		},
	})
}

// EventRSVPRemove removes one RSVP from an event's attendance list.
func (h *UIHandlers) EventRSVPRemove(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("id")
	h.handleDelete(w, r, deleteHandlerOpts{
		ServiceAvailable: func() bool { return h.EventSvc != nil },
		Delete: func(ctx context.Context, _ string) (bool, error) {
			return h.EventSvc.RemoveRSVP(ctx, r.PathValue("rsvpID"))
		},
		RedirectPath: "/dashboard/events/" + eventID + "/attendance",
	})
}

// --- Event form (create/edit) ---

func (h *UIHandlers) renderEventForm(w http.ResponseWriter, r *http.Request, data map[string]any) {
	data, _ = prepareFormFrame(FormFrameOpts{
		R:           r,
		Data:        data,
		DefaultMode: FormModeCreate,
		MetaForMode: func(mode FormMode) PageMeta {
			if mode == FormModeEdit {
				return PageMeta{
					Title:       "Edit Event | Bright Steps",
					PageTitle:   "Edit Event",
					CurrentPage: PageAdminEventForm,
				}
			}
			return PageMeta{Title: "New Event | Bright Steps", PageTitle: "New Event", CurrentPage: PageAdminEventForm}
		},
	})
	if formData, ok := data["FormData"].(eventFormData); ok {
		formData.fillTemplateData(data)
	}
	h.renderDashboardPage(w, r, data)
}

// eventFormData holds parsed form data for event creation and updates.
type eventFormData struct {
	Title       string
	Description string
	Location    string
	StartsAt    time.Time
	EndsAt      *time.Time
	Capacity    int
	Published   bool

	// Raw datetime strings preserved for re-rendering the form.
	StartsAtRaw string
	EndsAtRaw   string
}

func (f eventFormData) fillTemplateData(data map[string]any) {
	data["FormTitle"] = f.Title
	data["FormDescription"] = f.Description
	data["FormLocation"] = f.Location
	data["FormStartsAt"] = f.StartsAtRaw
	data["FormEndsAt"] = f.EndsAtRaw
	data["FormCapacity"] = f.Capacity
	data["FormPublished"] = f.Published
}

// parseEventForm parses and validates event form data.
func parseEventForm(r *http.Request) (eventFormData, map[string]string) {
	errs := map[string]string{}
	if err := r.ParseForm(); err != nil {
		errs["_"] = "Invalid form submission."
	}

	f := eventFormData{
		Title:       strings.TrimSpace(r.Form.Get("title")),
		Description: strings.TrimSpace(r.Form.Get("description")),
		Location:    strings.TrimSpace(r.Form.Get("location")),
		Published:   r.Form.Get("published") == "on",
		StartsAtRaw: strings.TrimSpace(r.Form.Get("starts_at")),
		EndsAtRaw:   strings.TrimSpace(r.Form.Get("ends_at")),
	}

	v := validation.New().
		Validate("title", f.Title, validation.Required("Title", 255)).
		Validate("location", f.Location, validation.Optional("Location", 255)).
		Validate("description", f.Description, validation.Optional("Description", 4000))
	for k, msg := range v.Errors() {
		errs[k] = msg
	}

	if f.StartsAtRaw == "" {
		errs["starts_at"] = "Start time is required."
	} else if t, err := time.ParseInLocation(datetimeLocalLayout, f.StartsAtRaw, time.Local); err != nil {
		errs["starts_at"] = "Enter a valid start time."
	} else {
		f.StartsAt = t
	}

	if f.EndsAtRaw != "" {
		t, err := time.ParseInLocation(datetimeLocalLayout, f.EndsAtRaw, time.Local)
		switch {
		case err != nil:
			errs["ends_at"] = "Enter a valid end time."
		case !f.StartsAt.IsZero() && t.Before(f.StartsAt):
			errs["ends_at"] = "End time cannot be before the start time."
		default:
			f.EndsAt = &t
		}
	}

	capTxt := strings.TrimSpace(r.Form.Get("capacity"))
	if capTxt != "" {
		n, err := strconv.Atoi(capTxt)
		if err != nil || n < 0 {
			errs["capacity"] = "Capacity must be a non-negative number (0 means unlimited)."
		} else {
			f.Capacity = n
		}
	}

	return f, errs
}

// eventFormService adapts EventsContentService to the generic form handler.
type eventFormService struct {
	svc EventsContentService
}

func (s *eventFormService) Create(ctx context.Context, req eventFormData) (any, error) {
	return s.svc.Create(ctx, &model.CreateEventRequest{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		Capacity:    req.Capacity,
		Published:   req.Published,
	})
}

func (s *eventFormService) Update(ctx context.Context, id string, req eventFormData) (any, error) {
	return s.svc.Update(ctx, id, model.UpdateEventRequest{
		Title:       &req.Title,
		Description: &req.Description,
		Location:    &req.Location,
		StartsAt:    &req.StartsAt,
		EndsAt:      req.EndsAt,
		Capacity:    &req.Capacity,
		Published:   &req.Published,
	})
}

func handleEventFormError(err error) (map[string]string, string) {
	switch {
	case errors.Is(err, data.ErrEventNotFound):
		return nil, "This event no longer exists."
	case isValidationError(err):
		return nil, err.Error()
	}
	return nil, ""
}

// EventNew renders the create form.
func (h *UIHandlers) EventNew(w http.ResponseWriter, r *http.Request) {
	h.renderEventForm(w, r, map[string]any{"Mode": FormModeCreate})
}

// EventEdit renders the edit form populated from an existing event.
func (h *UIHandlers) EventEdit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" || h.EventSvc == nil {
		h.NotFound(w, r)
		return
	}
	e, err := h.EventSvc.GetByID(r.Context(), id)
	if err != nil || e == nil {
		h.NotFound(w, r)
		return
	}
	var endsAt string
	if e.EndsAt != nil {
		endsAt = e.EndsAt.Local().Format(datetimeLocalLayout)
	}
	h.renderEventForm(w, r, map[string]any{
		"Mode":            FormModeEdit,
		"EventID":         e.ID,
		"FormTitle":       e.Title,
		"FormDescription": e.Description,
		"FormLocation":    e.Location,
		"FormStartsAt":    e.StartsAt.Local().Format(datetimeLocalLayout),
		"FormEndsAt":      endsAt,
		"FormCapacity":    e.Capacity,
		"FormPublished":   e.Published,
	})
}

// EventCreate handles POST to create an event.
func (h *UIHandlers) EventCreate(w http.ResponseWriter, r *http.Request) {
	if h.EventSvc == nil {
		h.NotFound(w, r)
		return
	}
	HandleForm(FormHandlerOpts[eventFormData]{
		W:           w,
		R:           r,
		Mode:        FormModeCreate,
		Parser:      parseEventForm,
		Service:     &eventFormService{svc: h.EventSvc},
		Renderer:    h.renderEventForm,
		SuccessURL:  "/dashboard/events",
		PageMeta:    PageMeta{Title: "New Event | Bright Steps", PageTitle: "New Event", CurrentPage: PageAdminEventForm},
		HandleError: handleEventFormError,
	})
}

// EventUpdate handles POST to update an existing event.
func (h *UIHandlers) EventUpdate(w http.ResponseWriter, r *http.Request) {
	if h.EventSvc == nil {
		h.NotFound(w, r)
		return
	}
	HandleForm(FormHandlerOpts[eventFormData]{
		W:           w,
		R:           r,
		Mode:        FormModeEdit,
		Parser:      parseEventForm,
		Service:     &eventFormService{svc: h.EventSvc},
		Renderer:    h.renderEventForm,
		SuccessURL:  "/dashboard/events",
		PageMeta:    PageMeta{Title: "Edit Event | Bright Steps", PageTitle: "Edit Event", CurrentPage: PageAdminEventForm},
		HandleError: handleEventFormError,
	})
}
