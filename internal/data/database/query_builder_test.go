package database

import (
	"reflect"
	"strings"
	"testing"
)

func TestBuildListQuery(t *testing.T) {
	tests := []struct {
		name      string
		opts      *ListQueryOptions
		wantQuery string
		wantArgs  []any
	}{
		{
			name:      "basic select",
			opts:      NewListQueryOptions("coaches"),
			wantQuery: `SELECT * FROM "coaches"`,
		},
		{
			name: "explicit columns",
			opts: NewListQueryOptions("coaches",
				WithColumns("id", "name", "email"),
			),
			wantQuery: `SELECT "id", "name", "email" FROM "coaches"`,
		},
		{
			name: "qualified columns",
			opts: NewListQueryOptions("coachees",
				WithColumns("coachees.id", "coachees.name", "coaches.email"),
			),
			wantQuery: `SELECT "coachees"."id", "coachees"."name", "coaches"."email" FROM "coachees"`,
		},
		{
			name: "count only",
			opts: NewListQueryOptions("blog_posts",
				WithCountOnly(),
				WithCondition(WhereCond("published", Equal, true)),
			),
			wantQuery: `SELECT COUNT(*) FROM "blog_posts" WHERE "published" = $1`,
			wantArgs:  []any{true},
		},
		{
			name: "count only ignores order and pagination",
			opts: NewListQueryOptions("blog_posts",
				WithCountOnly(),
				WithOrderBy("created_at", "DESC"),
				WithLimit(10),
				WithOffset(20),
			),
			wantQuery: `SELECT COUNT(*) FROM "blog_posts"`,
		},
		{
			name: "multiple where conditions",
			opts: NewListQueryOptions("events",
				WithCondition(WhereCond("published", Equal, true)),
				WithCondition(WhereCond("capacity", GreaterThan, 0)),
			),
			wantQuery: `SELECT * FROM "events" WHERE "published" = $1 AND "capacity" > $2`,
			wantArgs:  []any{true, 0},
		},
		{
			name: "ilike condition",
			opts: NewListQueryOptions("coaches",
				WithCondition(WhereCond("name", ILike, "%maya%")),
			),
			wantQuery: `SELECT * FROM "coaches" WHERE "name" ILIKE $1`,
			wantArgs:  []any{"%maya%"},
		},
		{
			name: "in condition with string slice",
			opts: NewListQueryOptions("admin_accounts",
				WithCondition(WhereCond("role", In, []string{"super_admin", "admin"})),
			),
			wantQuery: `SELECT * FROM "admin_accounts" WHERE "role" IN ($1, $2)`,
			wantArgs:  []any{"super_admin", "admin"},
		},
		{
			name: "in condition with int slice",
			opts: NewListQueryOptions("gallery_images",
				WithCondition(WhereCond("sort_order", In, []int{1, 2, 3})),
			),
			wantQuery: `SELECT * FROM "gallery_images" WHERE "sort_order" IN ($1, $2, $3)`,
			wantArgs:  []any{1, 2, 3},
		},
		{
			name: "empty in slice skipped",
			opts: NewListQueryOptions("coaches",
				WithCondition(WhereCond("id", In, []string{})),
				WithCondition(WhereCond("active", Equal, true)),
			),
			wantQuery: `SELECT * FROM "coaches" WHERE "active" = $1`,
			wantArgs:  []any{true},
		},
		{
			name: "empty field skipped",
			opts: NewListQueryOptions("coaches",
				WithConditions(
					WhereCond("", Equal, "ignored"),
					WhereCond("active", Equal, true),
				),
			),
			wantQuery: `SELECT * FROM "coaches" WHERE "active" = $1`,
			wantArgs:  []any{true},
		},
		{
			name: "order by",
			opts: NewListQueryOptions("blog_posts",
				WithOrderBy("created_at", "DESC"),
			),
			wantQuery: `SELECT * FROM "blog_posts" ORDER BY "created_at" DESC`,
		},
		{
			name: "order by qualified column",
			opts: NewListQueryOptions("events",
				WithOrderBy("events.starts_at", "ASC"),
			),
			wantQuery: `SELECT * FROM "events" ORDER BY "events"."starts_at" ASC`,
		},
		{
			name: "invalid order direction dropped",
			opts: NewListQueryOptions("blog_posts",
				WithOrderBy("created_at", "SIDEWAYS"),
			),
			wantQuery: `SELECT * FROM "blog_posts" ORDER BY "created_at"`,
		},
		{
			name: "limit and offset",
			opts: NewListQueryOptions("coachees",
				WithLimit(10),
				WithOffset(20),
			),
			wantQuery: `SELECT * FROM "coachees" LIMIT $1 OFFSET $2`,
			wantArgs:  []any{10, 20},
		},
		{
			name: "negative limit and offset ignored",
			opts: NewListQueryOptions("coachees",
				WithLimit(-5),
				WithOffset(-1),
			),
			wantQuery: `SELECT * FROM "coachees"`,
		},
		{
			name: "all clauses combined",
			opts: NewListQueryOptions("coaches",
				WithColumns("id", "name", "email"),
				WithCondition(WhereCond("active", Equal, true)),
				WithCondition(WhereCond("name", ILike, "%reyes%")),
				WithOrderBy("name", "ASC"),
				WithLimit(20),
				WithOffset(0),
			),
			wantQuery: `SELECT "id", "name", "email" FROM "coaches" WHERE "active" = $1 AND "name" ILIKE $2 ORDER BY "name" ASC LIMIT $3 OFFSET $4`,
			wantArgs:  []any{true, "%reyes%", 20, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args := BuildListQuery(tt.opts)
			if query != tt.wantQuery {
				t.Errorf("query = %q, want %q", query, tt.wantQuery)
			}
			if len(args) == 0 && len(tt.wantArgs) == 0 {
				return
			}
			if !reflect.DeepEqual(args, tt.wantArgs) {
				t.Errorf("args = %v, want %v", args, tt.wantArgs)
			}
		})
	}
}

func TestBuildListQuery_SQLInjectionPrevention(t *testing.T) {
	// Attempt SQL injection via table name
	opts := NewListQueryOptions("coaches; DROP TABLE coaches;--")
	query, _ := BuildListQuery(opts)

	// The entire malicious string becomes a quoted identifier, making it harmless
	expected := `SELECT * FROM "coaches; DROP TABLE coaches;--"`
	if query != expected {
		t.Errorf("Expected %q, got %q", expected, query)
	}
}

func TestBuildListQuery_SQLInjectionPrevention_Columns(t *testing.T) {
	opts := NewListQueryOptions("coaches",
		WithColumns(`name", (SELECT password_hash FROM admin_accounts LIMIT 1) AS "name`),
	)
	query, _ := BuildListQuery(opts)

	// The embedded quote is doubled inside the quoted identifier, so the
	// subquery never escapes into the SELECT list.
	if strings.Contains(query, `(SELECT password_hash`) && !strings.Contains(query, `""`) {
		t.Errorf("Column spec not properly quoted: %q", query)
	}
}

func TestBuildListQuery_NilOptions(t *testing.T) {
	query, args := BuildListQuery(nil)
	if query != "" {
		t.Errorf("Expected empty query, got %q", query)
	}
	if args != nil {
		t.Errorf("Expected nil args, got %v", args)
	}
}
