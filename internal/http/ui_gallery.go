package httpx

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/brightsteps/brightsteps-web/internal/data"
	"github.com/brightsteps/brightsteps-web/internal/domain/model"
	"github.com/brightsteps/brightsteps-web/internal/http/validation"
)

// Gallery renders the gallery management list, HTMX-aware.
func (h *UIHandlers) Gallery(w http.ResponseWriter, r *http.Request) {
	HandleList(ListHandlerOpts[*model.GalleryImage, struct{}]{
		Handler: h,
		W:       w,
		R:       r,
		Fetcher: func(ctx context.Context, pg pageOpts) ([]*model.GalleryImage, error) {
			limit, offset := pg.LimitAndOffset()
			images, err := h.GallerySvc.List(ctx, limit, offset)
			if err != nil {
				h.logger().Error("failed to load gallery images for UI",
					"error", err,
					"page", pg.Page,
					"page_size", pg.PageSize,
				)
			}
			return images, err
		},
		BasePath: "/dashboard/gallery",
		PageMeta: PageMeta{
			Title:       "Gallery | Bright Steps",
			PageTitle:   "Gallery",
			CurrentPage: PageAdminGallery,
		},
		ItemsKey:     "Images",
		ErrorMessage: "Unable to load gallery images.",
		ServiceAvailable: func() bool {
			return h.GallerySvc != nil
		},
		UnavailableMessage: "Unable to load gallery images.",
	})
}

// GalleryImageDelete handles deleting an image from the admin list.
func (h *UIHandlers) GalleryImageDelete(w http.ResponseWriter, r *http.Request) {
	h.handleDelete(w, r, deleteHandlerOpts{
		ServiceAvailable: func() bool { return h.GallerySvc != nil },
		Delete: func(ctx context.Context, id string) (bool, error) {
			return h.GallerySvc.Delete(ctx, id)
		},
		RedirectPath: "/dashboard/gallery",
	})
}

// --- Gallery image form (create/edit) ---

func (h *UIHandlers) renderGalleryForm(w http.ResponseWriter, r *http.Request, data map[string]any) {
	data, _ = prepareFormFrame(FormFrameOpts{
		R:           r,
		Data:        data,
		DefaultMode: FormModeCreate,
		MetaForMode: func(mode FormMode) PageMeta {
			if mode == FormModeEdit {
				return PageMeta{
					Title:       "Edit Image | Bright Steps",
					PageTitle:   "Edit Image",
					CurrentPage: PageAdminGalleryForm,
				}
			}
			return PageMeta{Title: "Add Image | Bright Steps", PageTitle: "Add Image", CurrentPage: PageAdminGalleryForm}
		},
	})
	if formData, ok := data["FormData"].(galleryFormData); ok {
		data["FormImageURL"] = formData.ImageURL
		data["FormCaption"] = formData.Caption
		data["FormSortOrder"] = formData.SortOrder
	}
	h.renderDashboardPage(w, r, data)
}

// galleryFormData holds parsed form data for gallery image creation and updates.
type galleryFormData struct {
	ImageURL  string
	Caption   string
	SortOrder int
}

// parseGalleryForm parses and validates gallery image form data.
func parseGalleryForm(r *http.Request) (galleryFormData, map[string]string) {
	errs := map[string]string{}
	if err := r.ParseForm(); err != nil {
		errs["_"] = "Invalid form submission."
	}

	sortOrder := 0
	sortTxt := strings.TrimSpace(r.Form.Get("sort_order"))
	if sortTxt != "" {
		n, err := strconv.Atoi(sortTxt)
		if err != nil || n < 0 {
			errs["sort_order"] = "Sort order must be a non-negative number."
		} else {
			sortOrder = n
		}
	}

	f := galleryFormData{
		ImageURL:  strings.TrimSpace(r.Form.Get("image_url")),
		Caption:   strings.TrimSpace(r.Form.Get("caption")),
		SortOrder: sortOrder,
	}

	v := validation.New().
		Validate("image_url", f.ImageURL, validation.HTTPSURL("Image URL", 2048)).
		Validate("caption", f.Caption, validation.Optional("Caption", 500))
	for k, msg := range v.Errors() {
		errs[k] = msg
	}
	return f, errs
}

// galleryFormService adapts GalleryContentService to the generic form handler.
type galleryFormService struct {
	svc GalleryContentService
}

func (s *galleryFormService) Create(ctx context.Context, req galleryFormData) (any, error) {
	return s.svc.Create(ctx, &model.CreateGalleryImageRequest{
		ImageURL:  req.ImageURL,
		Caption:   req.Caption,
		SortOrder: req.SortOrder,
	})
}

func (s *galleryFormService) Update(ctx context.Context, id string, req galleryFormData) (any, error) {
	return s.svc.Update(ctx, id, model.UpdateGalleryImageRequest{
		ImageURL:  &req.ImageURL,
		Caption:   &req.Caption,
		SortOrder: &req.SortOrder,
	})
}

func handleGalleryFormError(err error) (map[string]string, string) {
	switch {
	case errors.Is(err, data.ErrGalleryImageNotFound):
		return nil, "This image no longer exists."
	case isValidationError(err):
		return nil, err.Error()
	}
	return nil, ""
}

// GalleryImageNew renders the create form.
func (h *UIHandlers) GalleryImageNew(w http.ResponseWriter, r *http.Request) {
	h.renderGalleryForm(w, r, map[string]any{"Mode": FormModeCreate})
}

// GalleryImageEdit renders the edit form populated from an existing image.
func (h *UIHandlers) GalleryImageEdit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" || h.GallerySvc == nil {
		h.NotFound(w, r)
		return
	}
	img, err := h.GallerySvc.GetByID(r.Context(), id)
	if err != nil || img == nil {
		h.NotFound(w, r)
		return
	}
	h.renderGalleryForm(w, r, map[string]any{
		"Mode":          FormModeEdit,
		"ImageID":       img.ID,
		"FormImageURL":  img.ImageURL,
		"FormCaption":   img.Caption,
		"FormSortOrder": img.SortOrder,
	})
}

// GalleryImageCreate handles POST to add an image.
func (h *UIHandlers) GalleryImageCreate(w http.ResponseWriter, r *http.Request) {
	if h.GallerySvc == nil {
		h.NotFound(w, r)
		return
	}
	HandleForm(FormHandlerOpts[galleryFormData]{
		W:           w,
		R:           r,
		Mode:        FormModeCreate,
		Parser:      parseGalleryForm,
		Service:     &galleryFormService{svc: h.GallerySvc},
		Renderer:    h.renderGalleryForm,
		SuccessURL:  "/dashboard/gallery",
		PageMeta:    PageMeta{Title: "Add Image | Bright Steps", PageTitle: "Add Image", CurrentPage: PageAdminGalleryForm},
		HandleError: handleGalleryFormError,
	})
}

// GalleryImageUpdate handles POST to update an existing image.
func (h *UIHandlers) GalleryImageUpdate(w http.ResponseWriter, r *http.Request) {
	if h.GallerySvc == nil {
		h.NotFound(w, r)
		return
	}
	HandleForm(FormHandlerOpts[galleryFormData]{
		W:           w,
		R:           r,
		Mode:        FormModeEdit,
		Parser:      parseGalleryForm,
		Service:     &galleryFormService{svc: h.GallerySvc},
		Renderer:    h.renderGalleryForm,
		SuccessURL:  "/dashboard/gallery",
		PageMeta:    PageMeta{Title: "Edit Image | Bright Steps", PageTitle: "Edit Image", CurrentPage: PageAdminGalleryForm},
		HandleError: handleGalleryFormError,
	})
}
