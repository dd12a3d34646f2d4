package httpx

import (
	"bytes"
	"errors"
	"html/template"
	"io/fs"
	"log/slog"
	"maps"
	"net/http"

	httpassets "github.com/brightsteps/brightsteps-web/internal/http/assets"
	assetfuncs "github.com/brightsteps/brightsteps-web/internal/http/templates/assets"
	corefuncs "github.com/brightsteps/brightsteps-web/internal/http/templates/core"
)

// AssetResolver aliases the asset resolver for callers inside httpx.
type AssetResolver = httpassets.AssetResolver

// fallbackCriticalCSS keeps pages legible when the critical stylesheet is missing.
const fallbackCriticalCSS = ":root{--color-background:#f6f7f9;--color-surface:#fff;--color-text-primary:#2e3138;}"

// templateGlobs are the patterns parsed into the template set, relative to
// the template filesystem root.
var templateGlobs = []string{"*.tmpl", "pages/*.tmpl", "partials/*.tmpl"}

// TemplateRenderer renders HTML templates for UI responses.
type TemplateRenderer struct {
	t             *template.Template
	resolver      *AssetResolver
	criticalCSSFS fs.FS  // re-read per request in dev mode
	criticalCSS   string // cached for production
	devMode       bool
	logger        *slog.Logger
}

// TemplateRendererConfig holds configuration for creating a TemplateRenderer.
type TemplateRendererConfig struct {
	TemplateFS    fs.FS          // filesystem containing templates (required)
	Resolver      *AssetResolver // asset resolver for hashed filenames (optional)
	CriticalCSSFS fs.FS          // filesystem containing css/critical.css (optional)
	DevMode       bool           // reload critical CSS on every request
	Logger        *slog.Logger   // logger for template errors (optional)
}

// NewTemplateRenderer parses the template set and prepares critical CSS.
// In dev mode CriticalCSSFS is typically os.DirFS("frontend/public"); in
// production it is fs.Sub of the embedded static filesystem.
func NewTemplateRenderer(cfg TemplateRendererConfig) (*TemplateRenderer, error) {
	if cfg.TemplateFS == nil {
		return nil, errors.New("TemplateFS is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	renderer := &TemplateRenderer{
		resolver:      cfg.Resolver,
		criticalCSSFS: cfg.CriticalCSSFS,
		devMode:       cfg.DevMode,
		logger:        cfg.Logger,
	}
	if cfg.CriticalCSSFS != nil && !cfg.DevMode {
		renderer.criticalCSS = renderer.readCriticalCSS()
	}

	// The func map closes over root so renderSection can re-enter the parsed set.
	var root *template.Template
	root, err := template.New("root").
		Funcs(renderer.templateFuncs(&root)).
		ParseFS(cfg.TemplateFS, templateGlobs...)
	if err != nil {
		cfg.Logger.Error("template parsing failed",
			slog.Any("error", err),
			slog.String("phase", "initialization"))
		return nil, err
	}

	renderer.t = root
	return renderer, nil
}

func (r *TemplateRenderer) readCriticalCSS() string {
	css, err := fs.ReadFile(r.criticalCSSFS, "css/critical.css")
	if err != nil {
		r.logger.Warn("critical CSS not loadable, using fallback", slog.Any("error", err))
		return fallbackCriticalCSS
	}
	return string(css)
}

// currentCriticalCSS returns the critical CSS, re-reading from disk in dev mode.
func (r *TemplateRenderer) currentCriticalCSS() string {
	if r.devMode && r.criticalCSSFS != nil {
		return r.readCriticalCSS()
	}
	return r.criticalCSS
}

// RenderFull renders a dashboard page inside the admin layout.
func (r *TemplateRenderer) RenderFull(w http.ResponseWriter, _ *http.Request, data any) error {
	return r.renderTemplate(w, "layout", data)
}

// RenderSite renders a public page inside the site chrome (header, footer,
// public navigation) rather than the admin layout.
func (r *TemplateRenderer) RenderSite(w http.ResponseWriter, _ *http.Request, data any) error {
	return r.renderTemplate(w, "site-layout", data)
}

// RenderPartial renders only the main content area, used for htmx swaps.
func (r *TemplateRenderer) RenderPartial(w http.ResponseWriter, _ *http.Request, data any) error {
	return r.renderTemplate(w, "content", data)
}

// RenderError renders the standalone error page.
func (r *TemplateRenderer) RenderError(w http.ResponseWriter, _ *http.Request, data any) error {
	return r.renderTemplate(w, "error-layout", data)
}

// renderTemplate buffers the whole template so a mid-render failure never
// produces a half-written response.
func (r *TemplateRenderer) renderTemplate(w http.ResponseWriter, name string, data any) error {
	var buf bytes.Buffer
	if err := r.t.ExecuteTemplate(&buf, name, data); err != nil {
		r.logger.Error("template execution failed",
			slog.String("template", name),
			slog.Any("error", err))
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		r.logger.Error("failed to write rendered template",
			slog.String("template", name),
			slog.Any("error", err))
		return err
	}
	return nil
}

func (r *TemplateRenderer) templateFuncs(root **template.Template) template.FuncMap {
	funcs := template.FuncMap{}
	maps.Copy(funcs, corefuncs.Funcs(corefuncs.Deps{
		Template:           root,
		ContentTemplateFor: ContentTemplateFor,
	}))
	maps.Copy(funcs, assetfuncs.Funcs(assetfuncs.Options{
		Resolver:    r.resolver,
		DevMode:     r.devMode,
		CriticalCSS: r.currentCriticalCSS,
	}))
	return funcs
}
