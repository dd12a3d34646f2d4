package httpx

import (
	"io"
	"net/http"
)

// healthHandler answers readiness and liveness probes.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	// A write failure means the prober went away.
	_, _ = io.WriteString(w, `{"status":"ok"}`)
}
