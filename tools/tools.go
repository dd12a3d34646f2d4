//go:build tools
// +build tools

// Package tools pins development tooling that is installed with `go install`
// rather than tracked as a module dependency.
package tools

// air reloads the site server on source changes during development:
//
//	go install github.com/air-verse/air@v1.63.0
