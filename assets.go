// Package brightsteps embeds the site's static assets and templates for
// production builds. Dev mode (IsDev=true) reads both from disk instead so
// edits show up without a rebuild.
package brightsteps

import "embed"

var (
	//go:embed all:frontend/static
	StaticFS embed.FS

	//go:embed all:frontend/templates
	TemplateFS embed.FS
)
