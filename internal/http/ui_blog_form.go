package httpx

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/brightsteps/brightsteps-web/internal/data"
	"github.com/brightsteps/brightsteps-web/internal/domain/model"
	"github.com/brightsteps/brightsteps-web/internal/http/validation"
)

// --- Blog post form (create/edit) ---

func (h *UIHandlers) renderBlogForm(w http.ResponseWriter, r *http.Request, data map[string]any) {
	data, _ = prepareFormFrame(FormFrameOpts{
		R:           r,
		Data:        data,
		DefaultMode: FormModeCreate,
		MetaForMode: func(mode FormMode) PageMeta {
			if mode == FormModeEdit {
				return PageMeta{
					Title:       "Edit Post | Bright Steps",
					PageTitle:   "Edit Post",
					CurrentPage: PageAdminBlogForm,
				}
			}
			return PageMeta{Title: "New Post | Bright Steps", PageTitle: "New Post", CurrentPage: PageAdminBlogForm}
		},
	})
	if formData, ok := data["FormData"].(blogFormData); ok {
		formData.fillTemplateData(data)
	}
	h.renderDashboardPage(w, r, data)
}

// blogFormData holds parsed form data for post creation and updates.
type blogFormData struct {
	Title      string
	Slug       string
	Body       string
	AuthorName string
	Published  bool
}

func (f blogFormData) fillTemplateData(data map[string]any) {
	data["FormTitle"] = f.Title
	data["FormSlug"] = f.Slug
	data["FormBody"] = f.Body
	data["FormAuthorName"] = f.AuthorName
	data["FormPublished"] = f.Published
}

// parseBlogForm parses and validates blog post form data.
func parseBlogForm(r *http.Request) (blogFormData, map[string]string) {
	errs := map[string]string{}
	if err := r.ParseForm(); err != nil {
		errs["_"] = "Invalid form submission."
	}

	f := blogFormData{
		Title:      strings.TrimSpace(r.Form.Get("title")),
		Slug:       strings.TrimSpace(r.Form.Get("slug")),
		Body:       r.Form.Get("body"),
		AuthorName: strings.TrimSpace(r.Form.Get("author_name")),
		Published:  r.Form.Get("published") == "on",
	}

	v := validation.New().
		Validate("title", f.Title, validation.Required("Title", 255)).
		Validate("author_name", f.AuthorName, validation.Optional("Author", 120))
	if strings.TrimSpace(f.Body) == "" {
		v.Errors()["body"] = "Body is required."
	}
	for k, msg := range v.Errors() {
		errs[k] = msg
	}
	return f, errs
}

// blogFormService adapts BlogContentService to the generic form handler.
type blogFormService struct {
	svc BlogContentService
}

func (s *blogFormService) Create(ctx context.Context, req blogFormData) (any, error) {
	return s.svc.Create(ctx, &model.CreateBlogPostRequest{
		Title:      req.Title,
		Slug:       req.Slug,
		Body:       req.Body,
		AuthorName: req.AuthorName,
		Published:  req.Published,
	})
}

func (s *blogFormService) Update(ctx context.Context, id string, req blogFormData) (any, error) {
	slug := req.Slug
	if slug == "" {
		slug = model.Slugify(req.Title)
	}
	return s.svc.Update(ctx, id, model.UpdateBlogPostRequest{
		Title:      &req.Title,
		Slug:       &slug,
		Body:       &req.Body,
		AuthorName: &req.AuthorName,
		Published:  &req.Published,
	})
}

// handleBlogFormError maps blog-specific service errors to form feedback.
func handleBlogFormError(err error) (map[string]string, string) {
	switch {
	case errors.Is(err, data.ErrBlogSlugExists):
		return map[string]string{"slug": "A post with this slug already exists."}, ""
	case errors.Is(err, data.ErrBlogPostNotFound):
		return nil, "This post no longer exists."
	case isValidationError(err):
		return nil, err.Error()
	}
	return nil, ""
}

// BlogPostNew renders the create form.
func (h *UIHandlers) BlogPostNew(w http.ResponseWriter, r *http.Request) {
	h.renderBlogForm(w, r, map[string]any{"Mode": FormModeCreate})
}

// BlogPostEdit renders the edit form populated from an existing post.
func (h *UIHandlers) BlogPostEdit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" || h.BlogSvc == nil {
		h.NotFound(w, r)
		return
	}
	p, err := h.BlogSvc.GetByID(r.Context(), id)
	if err != nil || p == nil {
		h.NotFound(w, r)
		return
	}
	h.renderBlogForm(w, r, map[string]any{
		"Mode":           FormModeEdit,
		"PostID":         p.ID,
		"FormTitle":      p.Title,
		"FormSlug":       p.Slug,
		"FormBody":       p.Body,
		"FormAuthorName": p.AuthorName,
		"FormPublished":  p.Published,
	})
}

// BlogPostCreate handles POST to create a post.
func (h *UIHandlers) BlogPostCreate(w http.ResponseWriter, r *http.Request) {
	if h.BlogSvc == nil {
		h.NotFound(w, r)
		return
	}
	HandleForm(FormHandlerOpts[blogFormData]{
		W:           w,
		R:           r,
		Mode:        FormModeCreate,
		Parser:      parseBlogForm,
		Service:     &blogFormService{svc: h.BlogSvc},
		Renderer:    h.renderBlogForm,
		SuccessURL:  "/dashboard/blog",
		PageMeta:    PageMeta{Title: "New Post | Bright Steps", PageTitle: "New Post", CurrentPage: PageAdminBlogForm},
		HandleError: handleBlogFormError,
	})
}

// BlogPostUpdate handles POST to update an existing post.
func (h *UIHandlers) BlogPostUpdate(w http.ResponseWriter, r *http.Request) {
	if h.BlogSvc == nil {
		h.NotFound(w, r)
		return
	}
	HandleForm(FormHandlerOpts[blogFormData]{
		W:           w,
		R:           r,
		Mode:        FormModeEdit,
		Parser:      parseBlogForm,
		Service:     &blogFormService{svc: h.BlogSvc},
		Renderer:    h.renderBlogForm,
		SuccessURL:  "/dashboard/blog",
		PageMeta:    PageMeta{Title: "Edit Post | Bright Steps", PageTitle: "Edit Post", CurrentPage: PageAdminBlogForm},
		HandleError: handleBlogFormError,
	})
}
