// Package render turns newsletter tables into HTML pages, markdown and
// terminal output.
package render

import (
	"fmt"
	"html/template"
	"io/fs"

	"github.com/bobmcallan/newsletter-portal/pages"
)

// ParseTemplates parses the page templates and partials from fsys.
func ParseTemplates(fsys fs.FS) (*template.Template, error) {
	tmpl, err := template.ParseFS(fsys, "*.html", "partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return tmpl, nil
}

var defaultTemplates = template.Must(ParseTemplates(pages.FS))
