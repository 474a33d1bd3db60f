package render

import (
	"html/template"
	"io"
	"strings"

	"github.com/bobmcallan/newsletter-portal/internal/models"
)

// RenderTable writes one category section. A table without rows writes
// nothing at all.
func RenderTable(w io.Writer, t models.TableData) error {
	return renderTable(defaultTemplates, w, t)
}

func renderTable(tmpl *template.Template, w io.Writer, t models.TableData) error {
	if t.IsEmpty() {
		return nil
	}
	return tmpl.ExecuteTemplate(w, "table", t)
}

// renderTables renders every non-empty table in order and returns the
// fragment with the number of sections written.
func renderTables(tmpl *template.Template, tables []models.TableData) (template.HTML, int, error) {
	var b strings.Builder
	sections := 0
	for _, t := range tables {
		if t.IsEmpty() {
			continue
		}
		if err := renderTable(tmpl, &b, t); err != nil {
			return "", 0, err
		}
		sections++
	}
	// Cell values were escaped by the table template.
	return template.HTML(b.String()), sections, nil
}
