// Package core provides the template helpers shared by every page: time
// formatting, number formatting, status badges, and section rendering.
package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/brightsteps/brightsteps-web/internal/http/uiutil"
)

// Deps wires the func map to the template set it renders into. Template is
// doubly indirected because the set is only parsed after Funcs runs.
type Deps struct {
	Template           **template.Template
	ContentTemplateFor func(string) string
}

// Funcs returns the func map installed into every template set.
func Funcs(deps Deps) template.FuncMap {
	return template.FuncMap{
		"sectionTmpl":   deps.ContentTemplateFor,
		"renderSection": renderSectionFunc(deps),
		"friendlyTime":  friendlyTime,
		"timeTag":       timeTag,
		"slice":         func(nums ...int) []int { return nums },
		"add":           func(a, b int) int { return a + b },
		"sub":           func(a, b int) int { return a - b },
		"contains":      strings.Contains,
		"formatNumber":  formatNumber,
		"statusClass":   statusClass,
		"truncateText":  truncateText,
		"strLen":        func(s string) int { return len(s) },
		"safeHTML": func(s string) template.HTML {
			// #nosec G203 - Used only for HTML produced by our own markdown
			// renderer, which sanitizes user input before it reaches templates.
			return template.HTML(s)
		},
		"toJSON": func(v any) (string, error) {
			b, err := json.Marshal(v)
			if err != nil {
				return "", err
			}
			return string(b), nil
		},
	}
}

// renderSectionFunc returns a helper that executes a page's content template
// and embeds the result, used to inline one page inside another.
func renderSectionFunc(deps Deps) func(string, any) (template.HTML, error) {
	return func(page string, data any) (template.HTML, error) {
		root := deps.Template
		if root == nil || *root == nil {
			return "", errors.New("template not initialized")
		}
		var buf bytes.Buffer
		err := (*root).ExecuteTemplate(&buf, deps.ContentTemplateFor(page), data)
		if err != nil {
			return "", err
		}
		// #nosec G203 - The HTML was just produced by html/template with user
		// values already auto-escaped.
		return template.HTML(buf.String()), nil
	}
}

// coerceTime accepts time.Time or *time.Time; everything else (and zero
// times) is rejected so templates can pass optional timestamps freely.
func coerceTime(ts any) (time.Time, bool) {
	var t time.Time
	switch v := ts.(type) {
	case time.Time:
		t = v
	case *time.Time:
		if v != nil {
			t = *v
		}
	default:
		return time.Time{}, false
	}
	if t.IsZero() {
		return time.Time{}, false
	}
	return t, true
}

func friendlyTime(ts any) string {
	t, ok := coerceTime(ts)
	if !ok {
		return ""
	}
	return uiutil.FormatFriendlyDateTime(t)
}

// timeTag renders a <time> element with a machine-readable datetime attribute
// and a human-readable label.
func timeTag(ts any) template.HTML {
	t, ok := coerceTime(ts)
	if !ok {
		return ""
	}
	friendly := t.Local().Format("Jan 2, 2006 3:04:05 PM")
	dt := t.UTC().Format(time.RFC3339)
	title := t.Local().Format(time.RFC1123)
	// #nosec G203 - Constructed from trusted, escaped values only.
	return template.HTML(
		fmt.Sprintf(
			"<time datetime=\"%s\" title=\"%s\">%s</time>",
			dt,
			template.HTMLEscapeString(title),
			template.HTMLEscapeString(friendly),
		),
	)
}

// formatNumber renders any integer type with comma thousands separators.
// Non-integer values fall back to fmt.Sprint.
func formatNumber(v any) string {
	var s string
	switch x := v.(type) {
	case int:
		s = strconv.FormatInt(int64(x), 10)
	case int8:
		s = strconv.FormatInt(int64(x), 10)
	case int16:
		s = strconv.FormatInt(int64(x), 10)
	case int32:
		s = strconv.FormatInt(int64(x), 10)
	case int64:
		s = strconv.FormatInt(x, 10)
	case uint:
		s = strconv.FormatUint(uint64(x), 10)
	case uint8:
		s = strconv.FormatUint(uint64(x), 10)
	case uint16:
		s = strconv.FormatUint(uint64(x), 10)
	case uint32:
		s = strconv.FormatUint(uint64(x), 10)
	case uint64:
		s = strconv.FormatUint(x, 10)
	default:
		return fmt.Sprint(v)
	}
	return groupThousands(s)
}

// groupThousands inserts commas into a decimal string, minus sign included.
func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	if len(s) <= 3 {
		return sign + s
	}

	var b strings.Builder
	b.Grow(len(sign) + len(s) + (len(s)-1)/3)
	b.WriteString(sign)

	head := len(s) % 3
	if head == 0 {
		head = 3
	}
	b.WriteString(s[:head])
	for i := head; i < len(s); i += 3 {
		b.WriteByte(',')
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// statusClass maps a content or application status to its badge CSS class.
func statusClass(status string) string {
	switch strings.ToLower(status) {
	case "rejected", "cancelled":
		return "badge-danger"
	case "pending", "draft":
		return "badge-warning"
	case "approved", "published", "active":
		return "badge-success"
	default:
		return "badge-light"
	}
}

// truncateText shortens a string to maxLen runes, ending with an ellipsis
// when cut. maxLen may be any numeric type templates produce.
func truncateText(s string, maxLen any) string {
	n, ok := templateInt(maxLen)
	if !ok || n <= 0 {
		return s
	}

	runes := []rune(s)
	switch {
	case len(runes) <= n:
		return s
	case n == 1:
		return string(runes[:1])
	}
	return string(runes[:n-1]) + "…"
}

// templateInt coerces the numeric types template expressions produce.
func templateInt(v any) (int, bool) {
	switch val := v.(type) {
	case int:
		return val, true
	case float64:
		return int(val), true
	case int64:
		return int(val), true
	}
	return 0, false
}
