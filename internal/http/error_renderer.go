package httpx

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrorRenderer renders an error template with the given data, so the same
// error flow works for full pages and HTMX partials alike.
type ErrorRenderer func(w http.ResponseWriter, r *http.Request, data any)

// ErrorOpts describes one error response.
type ErrorOpts struct {
	W http.ResponseWriter
	R *http.Request

	// Err is the underlying failure; nil when only field errors are shown.
	Err error

	// FieldErrors maps field name to validation message.
	FieldErrors map[string]string

	// Renderer draws the page, typically h.renderDashboardPage.
	Renderer ErrorRenderer

	PageMeta PageMeta

	// Data is merged into the template data, useful for preserving form
	// values and dropdown options.
	Data map[string]any

	// StatusCode overrides the response status; 0 leaves the default, which
	// keeps HTMX swaps working.
	StatusCode int

	// ShowToast sends an HX-Trigger toast with the general error message.
	ShowToast bool
}

// DetermineErrorStatus returns 409 for foreign key violations and 0 for
// everything else; 0 tells RenderError to keep the default status.
func DetermineErrorStatus(err error) int {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
		return http.StatusConflict
	}
	return 0
}

// RenderError renders an error response. Database errors are mapped to
// user-facing messages, and unique/not-null/check violations become
// field-level errors when the driver reports enough metadata.
func RenderError(opts ErrorOpts) {
	if opts.Renderer == nil {
		http.Error(opts.W, "misconfigured error renderer", http.StatusInternalServerError)
		return
	}

	builder := NewTemplateData(opts.R, opts.PageMeta)

	// May add entries to opts.FieldErrors.
	generalError := processError(opts.Err, &opts.FieldErrors)

	if len(opts.FieldErrors) > 0 {
		builder.WithFieldErrors(opts.FieldErrors)
	}

	switch {
	case generalError != "":
		builder.WithError(generalError)
	case len(opts.FieldErrors) > 0:
		builder.WithError(errMsgFixBelow)
	}

	for k, v := range opts.Data {
		builder.With(k, v)
	}

	if opts.ShowToast && generalError != "" {
		triggerToast(opts.W, generalError, "error")
	}

	if opts.StatusCode != 0 {
		opts.W.WriteHeader(opts.StatusCode)
	}

	opts.Renderer(opts.W, opts.R, builder.Build())
}

// processError turns an error into a user-facing message, adding field-level
// entries to fieldErrors where the error points at a single column.
func processError(err error, fieldErrors *map[string]string) string {
	var pgErr *pgconn.PgError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.DeadlineExceeded):
		return "Request timed out. Please try again."
	case errors.Is(err, context.Canceled):
		return "Request was canceled."
	case errors.As(err, &pgErr):
		return processDBError(pgErr, fieldErrors)
	}
	return "An error occurred. Please try again."
}

func processDBError(pgErr *pgconn.PgError, fieldErrors *map[string]string) string {
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		return handleUniqueViolation(pgErr, fieldErrors)
	case pgerrcode.ForeignKeyViolation:
		return handleForeignKeyViolation(pgErr)
	case pgerrcode.CheckViolation:
		if setFieldError(fieldErrors, pgErr.ColumnName, "This field has an invalid value.") {
			return errMsgFixBelow
		}
		return "Invalid data. Please check your input."
	case pgerrcode.NotNullViolation:
		if setFieldError(fieldErrors, pgErr.ColumnName, "This field is required.") {
			return errMsgFixBelow
		}
		return "Required field is missing. Please check your input."
	default:
		return "A database error occurred. Please try again."
	}
}

// setFieldError records a message for field, allocating the map on first use.
// Reports false when field is empty or no map was supplied.
func setFieldError(fieldErrors *map[string]string, field, msg string) bool {
	if field == "" || fieldErrors == nil {
		return false
	}
	if *fieldErrors == nil {
		*fieldErrors = make(map[string]string)
	}
	(*fieldErrors)[field] = msg
	return true
}

// handleUniqueViolation prefers the driver's ColumnName metadata and falls
// back to inferring the column from the constraint name.
func handleUniqueViolation(pgErr *pgconn.PgError, fieldErrors *map[string]string) string {
	field := pgErr.ColumnName
	if field == "" {
		field = inferFieldFromConstraint(pgErr.ConstraintName)
	}

	const msg = "This value already exists. Please choose a different one."
	if setFieldError(fieldErrors, field, msg) {
		return errMsgFixBelow
	}
	return msg
}

// handleForeignKeyViolation builds a context-aware message from PgError
// metadata, with constraint-name heuristics as a fallback.
func handleForeignKeyViolation(pgErr *pgconn.PgError) string {
	// TableName is the referencing table, the one holding the FK.
	if pgErr.TableName != "" {
		return "Cannot complete operation because this item is in use by " + pgErr.TableName + "."
	}

	constraintName := strings.ToLower(pgErr.ConstraintName)

	// coachees_coach_id_fkey fires when deleting a coach that still has coachees
	if strings.Contains(constraintName, "coach") {
		return "Cannot delete coach because they still have assigned Coachees."
	}
	if strings.Contains(constraintName, "rsvp") || strings.Contains(constraintName, "event") {
		return "Cannot delete event because it still has RSVPs."
	}

	return "Cannot complete operation because this item is in use."
}

// inferFieldFromConstraint extracts the column from single-column constraint
// names like "coaches_name_key". Multi-column constraints (4+ segments) and
// expression indexes ("blog_posts_lower_key") are ambiguous and yield "".
func inferFieldFromConstraint(constraintName string) string {
	parts := strings.Split(constraintName, "_")
	if len(parts) != 3 {
		return ""
	}
	if sqlFunctionNames[strings.ToLower(parts[1])] {
		return ""
	}
	return parts[1]
}

// sqlFunctionNames lists functions that commonly appear in expression index
// names and must not be mistaken for columns.
var sqlFunctionNames = map[string]bool{
	"lower":  true,
	"upper":  true,
	"trim":   true,
	"ltrim":  true,
	"rtrim":  true,
	"md5":    true,
	"sha1":   true,
	"sha256": true,
	"encode": true,
	"decode": true,
}
