// Package pages embeds the HTML templates and static assets served by the
// portal.
package pages

import "embed"

// FS holds the page templates, partials and static assets.
//
//go:embed *.html partials/*.html static
var FS embed.FS
