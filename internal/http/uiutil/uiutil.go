// Package uiutil holds small presentation helpers shared by templates and
// view models.
package uiutil

import (
	"strconv"
	"strings"
	"time"
)

const FriendlyDateTimeLayout = "Jan 2, 2006 3:04 PM"

// FriendlyRelativeTime describes how long ago t happened. Future times read
// as "just now" rather than a negative duration.
func FriendlyRelativeTime(t time.Time) string {
	diff := time.Since(t)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return agoPhrase(int(diff.Minutes()), "minute")
	case diff < 24*time.Hour:
		return agoPhrase(int(diff.Hours()), "hour")
	case diff < 7*24*time.Hour:
		return agoPhrase(int(diff.Hours()/24), "day")
	default:
		return FormatFriendlyDateTime(t)
	}
}

func agoPhrase(n int, unit string) string {
	if n == 1 {
		return "1 " + unit + " ago"
	}
	return strconv.Itoa(n) + " " + unit + "s ago"
}

// FormatFriendlyDateTime returns a user-friendly local timestamp, or the
// empty string for the zero time.
func FormatFriendlyDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(FriendlyDateTimeLayout)
}

// TruncateWithEllipsis shortens text to limit runes, appending an ellipsis
// when it was cut.
func TruncateWithEllipsis(text string, limit int) string {
	runes := []rune(text)
	switch {
	case len(runes) <= limit:
		return text
	case limit <= 1:
		return "…"
	}
	return strings.TrimSpace(string(runes[:limit-1])) + "…"
}
