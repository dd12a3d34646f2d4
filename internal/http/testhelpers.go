package httpx

import (
	"os"
	"strings"
	"testing"
)

// RequireTemplateRenderer builds a renderer from the on-disk templates,
// skipping the test when they are not present.
func RequireTemplateRenderer(t *testing.T) *TemplateRenderer {
	t.Helper()
	return requireRendererAt(t, TemplatePathFromTest)
}

// RequireTemplateRendererFromRoot is the project-root variant for tests that
// run with the repository root as working directory.
func RequireTemplateRendererFromRoot(t *testing.T) *TemplateRenderer {
	t.Helper()
	return requireRendererAt(t, TemplatePathFromRoot)
}

func requireRendererAt(t *testing.T, dir string) *TemplateRenderer {
	t.Helper()
	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: os.DirFS(dir),
	})
	if err != nil {
		t.Skipf("templates not available at %s, skipping: %v", dir, err)
		return nil
	}
	return tr
}

// CreateUIHandlersForTest wires a UIHandlers with a real template renderer so
// rendering tests can assert on produced HTML.
func CreateUIHandlersForTest(t *testing.T) *UIHandlers {
	t.Helper()
	if tr := RequireTemplateRenderer(t); tr != nil {
		return &UIHandlers{T: tr}
	}
	return nil
}

// ContainsAll reports whether every substring in subs occurs in s.
func ContainsAll(s string, subs []string) bool {
	for _, want := range subs {
		if !strings.Contains(s, want) {
			return false
		}
	}
	return true
}
