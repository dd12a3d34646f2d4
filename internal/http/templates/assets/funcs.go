// Package assets provides the template helpers for resolving hashed asset
// paths and inlining critical CSS.
package assets

import (
	"html/template"

	httpassets "github.com/brightsteps/brightsteps-web/internal/http/assets"
)

// Options configures the asset template helpers.
type Options struct {
	Resolver    *httpassets.AssetResolver
	DevMode     bool
	CriticalCSS func() string
}

// Funcs returns the asset and criticalCSS template helpers.
func Funcs(opts Options) template.FuncMap {
	return template.FuncMap{
		"asset":       opts.resolve,
		"criticalCSS": opts.inlineCSS,
	}
}

func (opts Options) resolve(logicalName string) string {
	return httpassets.ResolveAsset(opts.Resolver, logicalName, opts.DevMode)
}

func (opts Options) inlineCSS() template.CSS {
	if opts.CriticalCSS == nil {
		return ""
	}
	// #nosec G203 - Critical CSS comes from our own stylesheet, not user input.
	return template.CSS(opts.CriticalCSS())
}
