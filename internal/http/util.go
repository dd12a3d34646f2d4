package httpx

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
)

// validationErrorPatterns classifies service errors as 400 vs 5xx by message.
// A stopgap until typed validation errors are adopted across services.
var validationErrorPatterns = []string{ //nolint:gochecknoglobals // read-only pattern list
	"at least one field must be updated",
	"cannot be empty",
	"cannot contain empty",
	"cannot exceed",
	"contain only",
	"is required and cannot be empty",
	"must be a valid URL",
	"must be at least",
	"must be between",
	"must be non-negative",
	"must be one of:",
	"must have a valid host",
	"must start with",
	"must use http or https scheme",
	"value is required and cannot be empty",
}

func isValidationError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return slices.ContainsFunc(validationErrorPatterns, func(p string) bool {
		return strings.Contains(msg, p)
	})
}

// ParseLimitOffset reads limit/offset query params, tolerating missing or
// invalid values, and clamps limit to [1, maxLimit].
func ParseLimitOffset(r *http.Request, defLimit, maxLimit int) (int, int) {
	if maxLimit < 1 {
		maxLimit = 1
	}

	lim := intQueryParam(r, "limit", defLimit)
	off := intQueryParam(r, "offset", 0)

	lim = min(max(lim, 1), maxLimit)
	off = max(off, 0)
	return lim, off
}

func intQueryParam(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}
