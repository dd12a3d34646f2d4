package httpx

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// FormParser parses form data from the request and returns the parsed value
// along with any field-level validation errors.
type FormParser[T any] func(r *http.Request) (T, map[string]string)

// FormService is implemented by services that back a create/edit form.
type FormService[T any] interface {
	Create(ctx context.Context, req T) (any, error)
	Update(ctx context.Context, id string, req T) (any, error)
}

// FormRenderer renders the form template with the given data.
type FormRenderer func(w http.ResponseWriter, r *http.Request, data map[string]any)

// ErrorHandler maps a service error to field errors and a general message.
// Returning nil and "" defers to the default handling.
type ErrorHandler func(err error) (fieldErrors map[string]string, generalError string)

// FormHandlerOpts configures a single HandleForm invocation.
type FormHandlerOpts[T any] struct {
	W        http.ResponseWriter
	R        *http.Request
	Mode     FormMode
	Parser   FormParser[T]
	Service  FormService[T]
	Renderer FormRenderer

	// SuccessURL is where htmx redirects the browser after a successful save.
	SuccessURL string
	PageMeta   PageMeta

	// ExtraData is merged into the template data when re-rendering on error.
	ExtraData map[string]any
	// GetID overrides ID extraction for edit mode; defaults to r.PathValue("id").
	GetID func(r *http.Request) string
	// HandleError intercepts domain-specific service errors.
	HandleError ErrorHandler
	// ErrorStatus is written on validation errors. Zero leaves the status at
	// 200, which htmx needs to swap the re-rendered form in.
	ErrorStatus int
}

// HandleForm runs the shared create/edit form workflow: parse, validate,
// call the service, and either redirect on success or re-render the form
// with errors.
func HandleForm[T any](opts FormHandlerOpts[T]) {
	if opts.Parser == nil || opts.Service == nil || opts.Renderer == nil {
		http.Error(opts.W, "misconfigured form handler", http.StatusInternalServerError)
		return
	}
	if opts.Mode != FormModeCreate && opts.Mode != FormModeEdit {
		http.Error(opts.W, "invalid form mode", http.StatusBadRequest)
		return
	}

	var id string
	if opts.Mode == FormModeEdit {
		if id = opts.formID(); id == "" {
			http.NotFound(opts.W, opts.R)
			return
		}
	}

	data, fieldErrors := opts.Parser(opts.R)
	if len(fieldErrors) > 0 {
		opts.renderFormError(fieldErrors, "", data)
		return
	}

	var err error
	if opts.Mode == FormModeEdit {
		_, err = opts.Service.Update(opts.R.Context(), id, data)
	} else {
		_, err = opts.Service.Create(opts.R.Context(), data)
	}
	if err != nil {
		opts.handleServiceError(err, data)
		return
	}

	HTMX(opts.W).Redirect(opts.SuccessURL)
}

func (fh FormHandlerOpts[T]) formID() string {
	if fh.GetID != nil {
		return fh.GetID(fh.R)
	}
	return fh.R.PathValue("id")
}

func (fh FormHandlerOpts[T]) handleServiceError(err error, data T) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		http.Error(fh.W, "request canceled", http.StatusRequestTimeout)
		return
	}

	if fh.HandleError != nil {
		fieldErrors, generalError := fh.HandleError(err)
		if fieldErrors != nil || generalError != "" {
			fh.renderFormError(fieldErrors, generalError, data)
			return
		}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		fh.handleDBError(pgErr, data)
		return
	}

	fh.renderFormError(nil, "Unable to save. Please try again.", data)
}

func (fh FormHandlerOpts[T]) handleDBError(pgErr *pgconn.PgError, data T) {
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		// Infer the field from the constraint name: "coaches_name_key" → "name".
		field := "name"
		if pgErr.ConstraintName != "" {
			if parts := strings.Split(pgErr.ConstraintName, "_"); len(parts) >= 2 {
				field = parts[len(parts)-2]
			}
		}
		fh.renderFormError(map[string]string{
			field: "This value already exists. Please choose a different one.",
		}, "", data)
	case pgerrcode.ForeignKeyViolation:
		fh.renderFormError(nil, "Cannot complete operation due to related data constraints.", data)
	default:
		fh.renderFormError(nil, "A database error occurred. Please try again.", data)
	}
}

// renderFormError re-renders the form with errors, preserving the submitted
// values so the user does not lose their input.
func (fh FormHandlerOpts[T]) renderFormError(fieldErrors map[string]string, generalError string, data T) {
	if fh.ErrorStatus != 0 && len(fieldErrors) > 0 {
		fh.W.WriteHeader(fh.ErrorStatus)
	}

	templateData := NewTemplateData(fh.R, fh.PageMeta)
	if len(fieldErrors) > 0 {
		templateData.WithFieldErrors(fieldErrors)
	}
	if generalError != "" {
		templateData.WithError(generalError)
	} else if len(fieldErrors) > 0 {
		templateData.WithError(errMsgFixBelow)
	}

	templateData.With("Mode", fh.Mode)
	for k, v := range fh.ExtraData {
		templateData.With(k, v)
	}
	templateData.With("FormData", data)

	fh.Renderer(fh.W, fh.R, templateData.Build())
}
