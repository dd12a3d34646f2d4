package httpx

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
)

// Header names from the htmx request/response protocol.
const (
	hdrHXRequest  = "Hx-Request"
	hdrHXBoosted  = "Hx-Boosted"
	hdrHXTarget   = "Hx-Target"
	hdrHXTrigger  = "Hx-Trigger"
	hdrHXRedirect = "Hx-Redirect"
	hdrHXPushURL  = "Hx-Push-Url"
	hdrHXRefresh  = "Hx-Refresh"
)

// IsHTMX reports whether htmx issued the request.
func IsHTMX(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get(hdrHXRequest), "true")
}

// IsBoosted reports whether the request came from an hx-boost navigation.
func IsBoosted(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get(hdrHXBoosted), "true")
}

// WantsPartial reports whether the handler should return only the content
// fragment rather than the full layout. All htmx requests get partials,
// history restores included.
func WantsPartial(r *http.Request) bool {
	return IsHTMX(r)
}

// HXTarget returns the id of the element htmx will swap.
func HXTarget(r *http.Request) string { return r.Header.Get(hdrHXTarget) }

// HXTrigger returns the id or name of the element that fired the request.
func HXTrigger(r *http.Request) string { return r.Header.Get(hdrHXTrigger) }

// SetHXRedirect tells htmx to navigate the browser to url.
func SetHXRedirect(w http.ResponseWriter, url string) { w.Header().Set(hdrHXRedirect, url) }

// SetHXPushURL pushes url into the browser history alongside the swap.
func SetHXPushURL(w http.ResponseWriter, url string) { w.Header().Set(hdrHXPushURL, url) }

// SetHXRefresh forces a full page refresh when true.
func SetHXRefresh(w http.ResponseWriter, refresh bool) {
	w.Header().Set(hdrHXRefresh, strconv.FormatBool(refresh))
}

// SetHXTrigger fires a client-side event after the swap, encoded as the
// Hx-Trigger header JSON object {"<event>": <payload>}. A nil payload
// becomes true.
func SetHXTrigger(w http.ResponseWriter, event string, payload any) {
	value := payload
	if value == nil {
		value = true
	}
	b, err := json.Marshal(map[string]any{event: value})
	if err != nil {
		// Unserializable payload, fall back to a bare event.
		w.Header().Set(hdrHXTrigger, `{"`+event+`":true}`)
		return
	}
	w.Header().Set(hdrHXTrigger, string(b))
}
