package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTMXResponse_Redirect(t *testing.T) {
	for _, url := range []string{
		"/",
		"/dashboard/blog",
		"/dashboard/coachees?page=2&unassigned=true",
	} {
		w := httptest.NewRecorder()
		HTMX(w).Redirect(url)

		if got := w.Header().Get("Hx-Redirect"); got != url {
			t.Errorf("Redirect(%q) header = %q", url, got)
		}
		if w.Code != http.StatusNoContent {
			t.Errorf("Redirect(%q) status = %d, want %d", url, w.Code, http.StatusNoContent)
		}
	}
}

// decodeTrigger parses the Hx-Trigger header into its event map.
func decodeTrigger(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var events map[string]any
	if err := json.Unmarshal([]byte(w.Header().Get("Hx-Trigger")), &events); err != nil {
		t.Fatalf("unmarshal Hx-Trigger: %v", err)
	}
	return events
}

func TestHTMXResponse_Trigger(t *testing.T) {
	tests := []struct {
		event   string
		payload any
		want    string
	}{
		{event: "refresh", payload: nil, want: `{"refresh":true}`},
		{event: "showToast", payload: "RSVP saved", want: `{"showToast":"RSVP saved"}`},
		{
			event:   "coachUpdated",
			payload: map[string]string{"id": "c-12", "status": "active"},
			want:    `{"coachUpdated":{"id":"c-12","status":"active"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.event, func(t *testing.T) {
			w := httptest.NewRecorder()
			HTMX(w).Trigger(tt.event, tt.payload)

			got := decodeTrigger(t, w)
			var want map[string]any
			if err := json.Unmarshal([]byte(tt.want), &want); err != nil {
				t.Fatalf("unmarshal want: %v", err)
			}
			gotJSON, _ := json.Marshal(got)
			wantJSON, _ := json.Marshal(want)
			if string(gotJSON) != string(wantJSON) {
				t.Errorf("Trigger() header = %s, want %s", gotJSON, wantJSON)
			}
		})
	}
}

func TestHTMXResponse_Refresh(t *testing.T) {
	w := httptest.NewRecorder()
	HTMX(w).Refresh()

	if got := w.Header().Get("Hx-Refresh"); got != "true" {
		t.Errorf("Refresh() header = %q", got)
	}
	if w.Code != http.StatusNoContent {
		t.Errorf("Refresh() status = %d, want %d", w.Code, http.StatusNoContent)
	}
}

func TestHTMXResponse_Chaining(t *testing.T) {
	w := httptest.NewRecorder()
	HTMX(w).Trigger("showToast", "Saved").PushURL("/dashboard/blog")

	if got := w.Header().Get("Hx-Trigger"); got == "" {
		t.Error("Trigger header not set")
	}
	if got := w.Header().Get("Hx-Push-Url"); got != "/dashboard/blog" {
		t.Errorf("Hx-Push-Url = %q", got)
	}
	// Chainable methods never commit a status code; the handler decides later.
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want default %d", w.Code, http.StatusOK)
	}
}

func TestHTMXResponse_TriggerOverwrites(t *testing.T) {
	w := httptest.NewRecorder()
	HTMX(w).Trigger("first", "a").Trigger("second", "b")

	events := decodeTrigger(t, w)
	if _, ok := events["second"]; !ok {
		t.Errorf("expected second trigger to win, got %v", events)
	}
	if _, ok := events["first"]; ok {
		t.Errorf("first trigger should have been overwritten, got %v", events)
	}
}
