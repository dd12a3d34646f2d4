package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTMXRequestDetection(t *testing.T) {
	htmxReq := httptest.NewRequest(http.MethodGet, "/dashboard/blog", nil)
	htmxReq.Header.Set("Hx-Request", "true")
	htmxReq.Header.Set("Hx-Boosted", "true")
	if !IsHTMX(htmxReq) {
		t.Error("expected IsHTMX true")
	}
	if !IsBoosted(htmxReq) {
		t.Error("expected IsBoosted true")
	}
	if !WantsPartial(htmxReq) {
		t.Error("htmx request should want a partial")
	}

	// History restores carry Hx-Request too and still get partials.
	htmxReq.Header.Set("Hx-History-Restore-Request", "true")
	if !WantsPartial(htmxReq) {
		t.Error("history restore should still want a partial")
	}

	plain := httptest.NewRequest(http.MethodGet, "/dashboard/blog", nil)
	if IsHTMX(plain) || IsBoosted(plain) || WantsPartial(plain) {
		t.Error("plain browser request should not be detected as htmx")
	}
}

func TestHTMXRequestHeaders(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/dashboard/coaches", nil)
	r.Header.Set("Hx-Target", "coach-list")
	r.Header.Set("Hx-Trigger", "coach-filter")
	if got := HXTarget(r); got != "coach-list" {
		t.Errorf("HXTarget = %q, want %q", got, "coach-list")
	}
	if got := HXTrigger(r); got != "coach-filter" {
		t.Errorf("HXTrigger = %q, want %q", got, "coach-filter")
	}
}

func TestHTMXResponseHeaders(t *testing.T) {
	rr := httptest.NewRecorder()
	SetHXRedirect(rr, "/login")
	SetHXPushURL(rr, "/dashboard/blog")
	SetHXRefresh(rr, true)
	SetHXTrigger(rr, "saved", map[string]any{"id": "bp-204"})

	h := rr.Header()
	if got := h.Get("Hx-Redirect"); got != "/login" {
		t.Errorf("Hx-Redirect = %q", got)
	}
	if got := h.Get("Hx-Push-Url"); got != "/dashboard/blog" {
		t.Errorf("Hx-Push-Url = %q", got)
	}
	if got := h.Get("Hx-Refresh"); got != "true" {
		t.Errorf("Hx-Refresh = %q", got)
	}

	var payload map[string]map[string]string
	if err := json.Unmarshal([]byte(h.Get("Hx-Trigger")), &payload); err != nil {
		t.Fatalf("unmarshal Hx-Trigger: %v", err)
	}
	if payload["saved"]["id"] != "bp-204" {
		t.Errorf("Hx-Trigger payload = %v", payload)
	}
}

func TestSetHXRefreshFalse(t *testing.T) {
	rr := httptest.NewRecorder()
	SetHXRefresh(rr, false)
	if got := rr.Header().Get("Hx-Refresh"); got != "false" {
		t.Errorf("Hx-Refresh = %q, want %q", got, "false")
	}
}
