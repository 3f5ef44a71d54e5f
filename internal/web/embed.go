// Package web holds the embedded UI: page templates and static assets.
package web

import "embed"

// Pages contains the HTML templates
//
//go:embed pages/*.html
var Pages embed.FS

// Static contains the stylesheet and client script served under /static/
//
//go:embed static
var Static embed.FS
