package validation

import (
	"regexp"
	"testing"
)

const errNameRequired = "Name is required."

// runValidator checks that the validator returns exactly wantMsg ("" means
// valid).
func runValidator(t *testing.T, v Validator, value, wantMsg string) {
	t.Helper()
	if got := v(value); got != wantMsg {
		t.Errorf("validator(%q) = %q, want %q", value, got, wantMsg)
	}
}

func TestRequired(t *testing.T) {
	tests := []struct {
		name    string
		maxLen  int
		value   string
		wantMsg string
	}{
		{"valid input", 10, "valid", ""},
		{"empty string", 10, "", errNameRequired},
		{"whitespace only", 10, "   ", errNameRequired},
		{"exceeds max length", 5, "toolong", "Name cannot exceed 5 characters."},
		{"exactly max length", 5, "exact", ""},
		// Length counts runes, not bytes.
		{"unicode within limit", 5, "🚀🚀🚀🚀🚀", ""},
		{"unicode exceeds limit", 5, "🚀🚀🚀🚀🚀🚀", "Name cannot exceed 5 characters."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runValidator(t, Required("Name", tt.maxLen), tt.value, tt.wantMsg)
		})
	}
}

func TestRequiredRange(t *testing.T) {
	tests := []struct {
		name     string
		min, max int
		value    string
		wantMsg  string
	}{
		{"valid input", 3, 10, "valid", ""},
		{"empty string", 3, 10, "", errNameRequired},
		{"too short", 5, 10, "ab", "Name must be between 5 and 10 characters."},
		{"too long", 3, 5, "toolong", "Name must be between 3 and 5 characters."},
		{"exactly min length", 3, 10, "abc", ""},
		{"exactly max length", 3, 5, "abcde", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runValidator(t, RequiredRange("Name", tt.min, tt.max), tt.value, tt.wantMsg)
		})
	}
}

func TestIntRange(t *testing.T) {
	tests := []struct {
		name     string
		min, max int
		value    string
		wantMsg  string
	}{
		{"valid integer", 1, 100, "50", ""},
		{"below minimum", 10, 100, "5", "Capacity must be between 10 and 100."},
		{"above maximum", 1, 10, "20", "Capacity must be between 1 and 10."},
		{"not a number", 1, 100, "abc", "Capacity must be a number."},
		{"empty string", 1, 100, "", "Capacity must be a number."},
		{"exactly minimum", 10, 100, "10", ""},
		{"exactly maximum", 1, 100, "100", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runValidator(t, IntRange("Capacity", tt.min, tt.max), tt.value, tt.wantMsg)
		})
	}
}

func TestHTTPSURL(t *testing.T) {
	tests := []struct {
		name    string
		maxLen  int
		value   string
		wantMsg string
	}{
		{"valid HTTPS URL", 100, "https://cdn.brightsteps.org/photos/maya.jpg", ""},
		{"valid HTTP URL", 100, "http://example.com", ""},
		{"empty string", 100, "", "Photo URL is required."},
		{"exceeds max length", 10, "https://example.com/very/long/path", "Photo URL cannot exceed 10 characters."},
		{"invalid URL", 100, "not a url", "Enter a valid http(s) URL."},
		{"missing scheme", 100, "example.com", "Enter a valid http(s) URL."},
		{"invalid scheme", 100, "ftp://example.com", "Enter a valid http(s) URL."},
		{"missing host", 100, "https://", "Enter a valid http(s) URL."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runValidator(t, HTTPSURL("Photo URL", tt.maxLen), tt.value, tt.wantMsg)
		})
	}
}

func TestEmail(t *testing.T) {
	tests := []struct {
		name    string
		maxLen  int
		value   string
		wantMsg string
	}{
		{"valid address", 255, "maya.okafor@brightsteps.org", ""},
		{"valid with whitespace", 255, "  sam@example.org  ", ""},
		{"empty string", 255, "", "Email is required."},
		{"missing at sign", 255, "not-an-email", "Enter a valid email address."},
		{"missing domain", 255, "maya@", "Enter a valid email address."},
		{"multiple at signs", 255, "a@b@c.org", "Enter a valid email address."},
		{"exceeds max length", 10, "maya.okafor@brightsteps.org", "Email cannot exceed 10 characters."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runValidator(t, Email("Email", tt.maxLen), tt.value, tt.wantMsg)
		})
	}
}

func TestOneOf(t *testing.T) {
	roles := []string{"super_admin", "admin"}

	tests := []struct {
		name    string
		value   string
		wantMsg string
	}{
		{"valid option exact case", "admin", ""},
		{"valid option different case", "ADMIN", ""},
		{"invalid option", "viewer", "Role must be one of: super_admin, admin"},
		{"empty string", "", "Role must be one of: super_admin, admin"},
		{"whitespace trimmed", "  super_admin  ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runValidator(t, OneOf("Role", roles), tt.value, tt.wantMsg)
		})
	}
}

func TestPattern(t *testing.T) {
	slugRe := regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

	tests := []struct {
		name    string
		value   string
		wantMsg string
	}{
		{"matches pattern", "summer-camp-2025", ""},
		{"does not match pattern", "Summer Camp", "Slug has an invalid format."},
		{"invalid leading hyphen", "-invalid", "Slug has an invalid format."},
		// Optional semantics: empty passes, pair with Required when needed.
		{"empty string allowed", "", ""},
		{"whitespace trimmed before validation", "  summer-camp  ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runValidator(t, Pattern("Slug", slugRe), tt.value, tt.wantMsg)
		})
	}
}

func TestFieldValidator(t *testing.T) {
	t.Run("no errors", func(t *testing.T) {
		errs := New().
			Validate("name", "Maya Okafor", Required("Name", 120)).
			Validate("capacity", "60", IntRange("Capacity", 0, 1000)).
			Errors()
		if len(errs) != 0 {
			t.Errorf("expected no errors, got %v", errs)
		}
	})

	t.Run("collects one error per field", func(t *testing.T) {
		errs := New().
			Validate("name", "", Required("Name", 120)).
			Validate("capacity", "-1", IntRange("Capacity", 0, 1000)).
			Errors()
		if len(errs) != 2 {
			t.Fatalf("expected 2 errors, got %d: %v", len(errs), errs)
		}
		if errs["name"] != errNameRequired {
			t.Errorf("name error = %q", errs["name"])
		}
		if errs["capacity"] != "Capacity must be between 0 and 1000." {
			t.Errorf("capacity error = %q", errs["capacity"])
		}
	})

	t.Run("stops at first failing validator", func(t *testing.T) {
		slugRe := regexp.MustCompile(`^[a-z-]+$`)
		errs := New().
			Validate("slug", "", Required("Slug", 120), Pattern("Slug", slugRe)).
			Errors()
		if len(errs) != 1 || errs["slug"] != "Slug is required." {
			t.Errorf("expected required error only, got %v", errs)
		}
	})

	t.Run("later validator triggers when earlier passes", func(t *testing.T) {
		slugRe := regexp.MustCompile(`^[a-z-]+$`)
		errs := New().
			Validate("slug", "Bad Slug", Required("Slug", 120), Pattern("Slug", slugRe)).
			Errors()
		if len(errs) != 1 || errs["slug"] != "Slug has an invalid format." {
			t.Errorf("expected pattern error, got %v", errs)
		}
	})

	t.Run("empty validator has no errors", func(t *testing.T) {
		if errs := New().Errors(); len(errs) != 0 {
			t.Errorf("expected empty errors map, got %v", errs)
		}
	})
}
