package httpx

import (
	"errors"
	"net/http"

	"github.com/brightsteps/brightsteps-web/internal/data"
	"github.com/brightsteps/brightsteps-web/internal/domain/model"
)

const (
	defaultAPIPageSize = 20
	maxAPIPageSize     = 100
)

// ContentAPIHandlers provides the JSON content API. Reads of published
// content are public; writes sit behind the section capability middleware.
type ContentAPIHandlers struct {
	BlogSvc    BlogContentService
	GallerySvc GalleryContentService
	EventSvc   EventsContentService
}

// --- Blog ---

// ListBlogPosts handles GET /api/blog, returning published posts only.
func (h *ContentAPIHandlers) ListBlogPosts(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, defaultAPIPageSize, maxAPIPageSize)
	posts, err := h.BlogSvc.List(r.Context(), model.BlogPostsListOptions{
		Limit:         limit,
		Offset:        offset,
		PublishedOnly: true,
	})
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "list_failed", Err: err})
		return
	}
	WriteJSON(w, http.StatusOK, posts)
}

// GetBlogPost handles GET /api/blog/{slug}, returning one published post
// with its rendered HTML.
func (h *ContentAPIHandlers) GetBlogPost(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	post, err := h.BlogSvc.GetRenderedBySlug(r.Context(), slug)
	if err != nil || post == nil || !post.Published {
		if err != nil && !errors.Is(err, data.ErrBlogPostNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "get_failed", Err: err})
			return
		}
		WriteError(w, ErrorParams{
			Code:    http.StatusNotFound,
			ErrCode: "not_found",
			Err:     errors.New("blog post not found"),
		})
		return
	}
	WriteJSON(w, http.StatusOK, post)
}

// CreateBlogPost handles POST /api/blog.
func (h *ContentAPIHandlers) CreateBlogPost(w http.ResponseWriter, r *http.Request) {
	var req *model.CreateBlogPostRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	post, err := h.BlogSvc.Create(r.Context(), req)
	if err != nil {
		writeContentWriteError(w, err, "create_failed",
			apiErrorCase{data.ErrBlogSlugExists, http.StatusConflict, "slug_conflict"})
		return
	}

	WriteJSON(w, http.StatusCreated, post)
}

// UpdateBlogPost handles PUT /api/blog/{id}.
func (h *ContentAPIHandlers) UpdateBlogPost(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateBlogPostRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	post, err := h.BlogSvc.Update(r.Context(), r.PathValue("id"), req)
	if err != nil {
		writeContentWriteError(w, err, "update_failed",
			apiErrorCase{data.ErrBlogPostNotFound, http.StatusNotFound, "not_found"},
			apiErrorCase{data.ErrBlogSlugExists, http.StatusConflict, "slug_conflict"})
		return
	}

	WriteJSON(w, http.StatusOK, post)
}

// DeleteBlogPost handles DELETE /api/blog/{id}.
func (h *ContentAPIHandlers) DeleteBlogPost(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.BlogSvc.Delete(r.Context(), r.PathValue("id"))
	writeDeleteResult(w, deleted, err)
}

// --- Gallery ---

// ListGalleryImages handles GET /api/gallery.
func (h *ContentAPIHandlers) ListGalleryImages(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, defaultAPIPageSize, maxAPIPageSize)
	images, err := h.GallerySvc.List(r.Context(), limit, offset)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "list_failed", Err: err})
		return
	}
	WriteJSON(w, http.StatusOK, images)
}

// CreateGalleryImage handles POST /api/gallery.
func (h *ContentAPIHandlers) CreateGalleryImage(w http.ResponseWriter, r *http.Request) {
	var req *model.CreateGalleryImageRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	img, err := h.GallerySvc.Create(r.Context(), req)
	if err != nil {
		writeContentWriteError(w, err, "create_failed")
		return
	}

	WriteJSON(w, http.StatusCreated, img)
}

// UpdateGalleryImage handles PUT /api/gallery/{id}.
func (h *ContentAPIHandlers) UpdateGalleryImage(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateGalleryImageRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	img, err := h.GallerySvc.Update(r.Context(), r.PathValue("id"), req)
	if err != nil {
		writeContentWriteError(w, err, "update_failed",
			apiErrorCase{data.ErrGalleryImageNotFound, http.StatusNotFound, "not_found"})
		return
	}

	WriteJSON(w, http.StatusOK, img)
}

// DeleteGalleryImage handles DELETE /api/gallery/{id}.
func (h *ContentAPIHandlers) DeleteGalleryImage(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.GallerySvc.Delete(r.Context(), r.PathValue("id"))
	writeDeleteResult(w, deleted, err)
}

// --- Events ---

// ListEvents handles GET /api/events, returning upcoming published events.
func (h *ContentAPIHandlers) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.EventSvc.ListUpcomingPublic(r.Context())
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "list_failed", Err: err})
		return
	}
	WriteJSON(w, http.StatusOK, events)
}

// CreateEvent handles POST /api/events.
func (h *ContentAPIHandlers) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req *model.CreateEventRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	event, err := h.EventSvc.Create(r.Context(), req)
	if err != nil {
		writeContentWriteError(w, err, "create_failed")
		return
	}

	WriteJSON(w, http.StatusCreated, event)
}

// UpdateEvent handles PUT /api/events/{id}.
func (h *ContentAPIHandlers) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateEventRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	event, err := h.EventSvc.Update(r.Context(), r.PathValue("id"), req)
	if err != nil {
		writeContentWriteError(w, err, "update_failed",
			apiErrorCase{data.ErrEventNotFound, http.StatusNotFound, "not_found"})
		return
	}

	WriteJSON(w, http.StatusOK, event)
}

// DeleteEvent handles DELETE /api/events/{id}.
func (h *ContentAPIHandlers) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.EventSvc.Delete(r.Context(), r.PathValue("id"))
	writeDeleteResult(w, deleted, err)
}

// apiErrorCase pairs a sentinel error with the status and code it maps to.
type apiErrorCase struct {
	sentinel error
	status   int
	code     string
}

// writeContentWriteError turns a failed create or update into a JSON error
// response. Sentinel mappings are tried in order, then validation errors
// become 400s and anything else falls back to a 500 with fallbackCode.
func writeContentWriteError(w http.ResponseWriter, err error, fallbackCode string, mapped ...apiErrorCase) {
	for _, c := range mapped {
		if errors.Is(err, c.sentinel) {
			WriteError(w, ErrorParams{Code: c.status, ErrCode: c.code, Err: err})
			return
		}
	}
	if isValidationError(err) {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: err})
		return
	}
	WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: fallbackCode, Err: err})
}

// writeDeleteResult maps a (deleted, err) pair to the standard JSON delete response.
func writeDeleteResult(w http.ResponseWriter, deleted bool, err error) {
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "delete_failed", Err: err})
		return
	}
	if !deleted {
		WriteError(w, ErrorParams{
			Code:    http.StatusNotFound,
			ErrCode: "not_found",
			Err:     errors.New("not found"),
		})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
