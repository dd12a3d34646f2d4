package httpx

import (
	"net/url"
	"testing"
)

func TestParseSortParam(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantField string
		wantDir   string
	}{
		{"combined asc", "sort=created_at:asc", "created_at", "asc"},
		{"combined desc", "sort=name:desc", "name", "desc"},
		{"combined uppercase direction", "sort=id:DESC", "id", "desc"},
		{"combined mixed case direction", "sort=email:AsC", "email", "asc"},
		{"combined invalid direction", "sort=starts_at:sideways", "starts_at", ""},
		{"combined empty direction", "sort=starts_at:", "starts_at", ""},
		{"combined whitespace", "sort=+created_at+:+desc+", "created_at", "desc"},
		{"separate asc", "sort=created_at&dir=asc", "created_at", "asc"},
		{"separate desc", "sort=name&dir=desc", "name", "desc"},
		{"separate uppercase direction", "sort=id&dir=DESC", "id", "desc"},
		{"separate invalid direction", "sort=name&dir=sideways", "name", ""},
		{"separate empty direction", "sort=name", "name", ""},
		{"separate whitespace", "sort=+email+&dir=+asc+", "email", "asc"},
		{"no parameters", "", "", ""},
		{"combined wins over separate", "sort=name:desc&dir=asc", "name", "desc"},
		// Split happens at the first colon only; the remainder is not a
		// valid direction.
		{"multiple colons", "sort=events:starts_at:desc", "events", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatalf("bad query %q: %v", tt.query, err)
			}

			field, dir := ParseSortParam(q, "sort", "dir")

			if field != tt.wantField {
				t.Errorf("field = %q, want %q", field, tt.wantField)
			}
			if dir != tt.wantDir {
				t.Errorf("dir = %q, want %q", dir, tt.wantDir)
			}
		})
	}
}

func TestParseSortParam_CustomKeys(t *testing.T) {
	q := url.Values{"order_by": {"created_at"}, "order_dir": {"desc"}}

	field, dir := ParseSortParam(q, "order_by", "order_dir")

	if field != "created_at" || dir != "desc" {
		t.Errorf("ParseSortParam() = (%q, %q), want (%q, %q)", field, dir, "created_at", "desc")
	}
}
