// Package database builds parameterized list queries for the Postgres repos.
// Identifiers are sanitized with pgx so column and table names coming from
// code can never break out of their quoting.
package database

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/jackc/pgx/v5"
)

// ConditionType is the SQL operator a Condition renders with.
type ConditionType string

const (
	Equal              ConditionType = "="
	NotEqual           ConditionType = "!="
	GreaterThan        ConditionType = ">"
	GreaterThanOrEqual ConditionType = ">="
	LessThan           ConditionType = "<"
	LessThanOrEqual    ConditionType = "<="
	Like               ConditionType = "LIKE"
	ILike              ConditionType = "ILIKE"
	In                 ConditionType = "IN"
)

// unset marks Limit/Offset as "not requested"; WithLimit(0) is still valid.
const unset = -1

type Condition struct {
	Field string
	Type  ConditionType
	Value any
}

func WhereCond(field string, condType ConditionType, value any) Condition {
	return Condition{Field: field, Type: condType, Value: value}
}

// ListQueryOptions describes one list query; build it with
// NewListQueryOptions and the With* options.
type ListQueryOptions struct {
	Table     string
	CountOnly bool

	Columns    []string
	Conditions []Condition

	OrderBy  string
	OrderDir string
	Limit    int
	Offset   int
}

type ListQueryOption func(*ListQueryOptions)

func NewListQueryOptions(table string, opts ...ListQueryOption) *ListQueryOptions {
	o := &ListQueryOptions{Table: table, Limit: unset, Offset: unset}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithColumns sets the columns to select; the default is every column.
func WithColumns(cols ...string) ListQueryOption {
	return func(o *ListQueryOptions) { o.Columns = cols }
}

// WithCondition appends one WHERE condition.
func WithCondition(cond Condition) ListQueryOption {
	return func(o *ListQueryOptions) { o.Conditions = append(o.Conditions, cond) }
}

// WithConditions replaces the WHERE conditions.
func WithConditions(conds ...Condition) ListQueryOption {
	return func(o *ListQueryOptions) { o.Conditions = conds }
}

// WithOrderBy sets the ordering column and direction.
func WithOrderBy(column, direction string) ListQueryOption {
	return func(o *ListQueryOptions) { o.OrderBy, o.OrderDir = column, direction }
}

// WithLimit sets the row limit. Zero is honored; negatives are ignored.
func WithLimit(limit int) ListQueryOption {
	if limit < 0 {
		return func(*ListQueryOptions) {}
	}
	return func(o *ListQueryOptions) { o.Limit = limit }
}

// WithOffset sets the row offset. Zero is honored; negatives are ignored.
func WithOffset(offset int) ListQueryOption {
	if offset < 0 {
		return func(*ListQueryOptions) {}
	}
	return func(o *ListQueryOptions) { o.Offset = offset }
}

// WithCountOnly switches the query to SELECT COUNT(*). Ordering and
// pagination are dropped so the count covers the whole filtered set.
func WithCountOnly() ListQueryOption {
	return func(o *ListQueryOptions) { o.CountOnly = true }
}

// quoteIdent sanitizes a possibly qualified identifier such as
// "events.starts_at", quoting each dotted part separately.
func quoteIdent(ident string) string {
	return pgx.Identifier(strings.Split(ident, ".")).Sanitize()
}

// listQuery accumulates SQL text and arguments. Placeholder numbers follow
// from the argument count, so clauses can be emitted in any order.
type listQuery struct {
	sql  strings.Builder
	args []any
}

func (q *listQuery) bind(v any) string {
	q.args = append(q.args, v)
	return fmt.Sprintf("$%d", len(q.args))
}

func (q *listQuery) writeSelect(o *ListQueryOptions) {
	switch {
	case o.CountOnly:
		q.sql.WriteString("SELECT COUNT(*)")
	case len(o.Columns) == 0:
		q.sql.WriteString("SELECT *")
	default:
		quoted := make([]string, len(o.Columns))
		for i, col := range o.Columns {
			quoted[i] = quoteIdent(col)
		}
		q.sql.WriteString("SELECT " + strings.Join(quoted, ", "))
	}
	q.sql.WriteString(" FROM ")
	q.sql.WriteString(pgx.Identifier{o.Table}.Sanitize())
}

func (q *listQuery) writeWhere(conds []Condition) {
	exprs := make([]string, 0, len(conds))
	for _, cond := range conds {
		if expr := q.condExpr(cond); expr != "" {
			exprs = append(exprs, expr)
		}
	}
	if len(exprs) > 0 {
		q.sql.WriteString(" WHERE " + strings.Join(exprs, " AND "))
	}
}

// condExpr renders one condition, binding its arguments. Conditions with an
// empty field or an unknown operator are skipped rather than emitted as
// invalid SQL.
func (q *listQuery) condExpr(cond Condition) string {
	if cond.Field == "" {
		return ""
	}
	field := pgx.Identifier{cond.Field}.Sanitize()

	switch cond.Type {
	case In:
		return q.inExpr(field, cond.Value)
	case Equal, NotEqual, GreaterThan, LessThan, LessThanOrEqual, GreaterThanOrEqual, Like, ILike:
		return fmt.Sprintf("%s %s %s", field, cond.Type, q.bind(cond.Value))
	}
	return ""
}

// inExpr accepts any slice type; empty slices drop the condition entirely.
func (q *listQuery) inExpr(field string, value any) string {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice || rv.Len() == 0 {
		return ""
	}
	placeholders := make([]string, rv.Len())
	for i := range rv.Len() {
		placeholders[i] = q.bind(rv.Index(i).Interface())
	}
	return fmt.Sprintf("%s IN (%s)", field, strings.Join(placeholders, ", "))
}

func (q *listQuery) writeOrderAndPage(o *ListQueryOptions) {
	if o.OrderBy != "" {
		q.sql.WriteString(" ORDER BY ")
		q.sql.WriteString(quoteIdent(o.OrderBy))
		if dir := strings.ToUpper(o.OrderDir); dir == "ASC" || dir == "DESC" {
			q.sql.WriteString(" " + dir)
		}
	}
	if o.Limit != unset {
		q.sql.WriteString(" LIMIT " + q.bind(o.Limit))
	}
	if o.Offset != unset {
		q.sql.WriteString(" OFFSET " + q.bind(o.Offset))
	}
}

// BuildListQuery renders options into a SQL string and its argument list.
//
//	query, args := BuildListQuery(NewListQueryOptions("coaches",
//		WithColumns("id", "name", "email"),
//		WithCondition(WhereCond("active", Equal, true)),
//		WithOrderBy("name", "ASC"),
//		WithLimit(20),
//	))
func BuildListQuery(options *ListQueryOptions) (string, []any) {
	if options == nil {
		return "", nil
	}

	var q listQuery
	q.writeSelect(options)
	q.writeWhere(options.Conditions)
	if !options.CountOnly {
		q.writeOrderAndPage(options)
	}
	return q.sql.String(), q.args
}
