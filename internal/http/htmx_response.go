package httpx

import "net/http"

// HTMXResponse builds htmx response headers fluently.
type HTMXResponse struct {
	w http.ResponseWriter
}

// HTMX wraps a ResponseWriter for chained htmx header building.
func HTMX(w http.ResponseWriter) *HTMXResponse {
	return &HTMXResponse{w: w}
}

// Redirect sets Hx-Redirect and writes 204 No Content. The handler should
// return immediately afterward; later writes are ignored by htmx.
func (h *HTMXResponse) Redirect(url string) {
	SetHXRedirect(h.w, url)
	h.w.WriteHeader(http.StatusNoContent)
}

// Trigger fires a client-side event after the swap. Chainable; a second call
// overwrites the header.
func (h *HTMXResponse) Trigger(event string, payload any) *HTMXResponse {
	SetHXTrigger(h.w, event, payload)
	return h
}

// PushURL pushes the given URL into browser history. Chainable.
func (h *HTMXResponse) PushURL(url string) *HTMXResponse {
	SetHXPushURL(h.w, url)
	return h
}

// Refresh forces a full page refresh and writes 204 No Content. The handler
// should return immediately afterward.
func (h *HTMXResponse) Refresh() {
	SetHXRefresh(h.w, true)
	h.w.WriteHeader(http.StatusNoContent)
}
