package httpx

import (
	"errors"
	"net/http"
)

// NotFound serves the catch-all 404. Browsers get the error page, everything
// else gets JSON.
func (h *UIHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	if !IsBrowserRequest(r) {
		WriteError(w, ErrorParams{
			Code:    http.StatusNotFound,
			ErrCode: "not_found",
			Err:     errors.New("not found"),
		})
		return
	}
	h.notFoundPage(w, r)
}

func (h *UIHandlers) notFoundPage(w http.ResponseWriter, r *http.Request) {
	signedIn := GetSessionFromContext(r.Context()) != nil

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)

	data := map[string]any{
		"Title":           "Page Not Found | Bright Steps",
		"Code":            "404",
		"Message":         "The page you're looking for doesn't exist.",
		"IsAuthenticated": signedIn,
		"ShowLogin":       !signedIn,
		"RedirectURI":     r.URL.RequestURI(),
	}
	if h.T == nil || h.T.RenderError(w, r, data) != nil {
		http.Error(w, "Page not found", http.StatusNotFound)
	}
}
