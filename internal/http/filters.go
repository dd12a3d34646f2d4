package httpx

import (
	"net/url"
	"strings"
)

// Canonical spellings for boolean and sort-direction query parameters.
const (
	StrTrue     = "true"
	StrFalse    = "false"
	SortDirAsc  = "asc"
	SortDirDesc = "desc"
)

// validSortDir normalizes a direction and returns "" for anything that is not
// asc or desc.
func validSortDir(dir string) string {
	dir = strings.ToLower(strings.TrimSpace(dir))
	if dir == SortDirAsc || dir == SortDirDesc {
		return dir
	}
	return ""
}

// ParseSortParam extracts and validates the sort field and direction from
// query parameters. Two formats are accepted:
//
//	?sort=field:dir          (combined, e.g. ?sort=created_at:desc)
//	?sort=field&dir=dir      (separate keys)
//
// The combined form wins when both are present. An unknown direction comes
// back as the empty string so callers fall through to their default ordering.
func ParseSortParam(q url.Values, sortKey, dirKey string) (string, string) {
	sortParam := strings.TrimSpace(q.Get(sortKey))

	if field, dir, found := strings.Cut(sortParam, ":"); found {
		return strings.TrimSpace(field), validSortDir(dir)
	}

	return sortParam, validSortDir(q.Get(dirKey))
}
