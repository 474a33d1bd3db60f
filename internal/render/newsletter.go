package render

import (
	"fmt"
	"html/template"
	"io"

	"github.com/bobmcallan/newsletter-portal/internal/models"
	"github.com/bobmcallan/newsletter-portal/internal/theme"
)

// Branding is the fixed page chrome.
type Branding struct {
	Title      string
	BrandURL   string
	BrandLabel string
}

// PageState is the per-request part of the page.
type PageState struct {
	RootClass  string
	Mode       theme.Mode
	StorageKey string
	CSRFToken  string
}

// Newsletter is the composed page. Tables and dates are fixed at
// construction; only the theme and CSRF token vary per request.
type Newsletter struct {
	tmpl     *template.Template
	branding Branding
	dates    models.NewsletterMetadata
	tables   []models.TableData
	fragment template.HTML
	sections int
}

// NewNewsletter pre-renders the tables of doc in category order.
func NewNewsletter(doc models.OutputDocument, dates models.NewsletterMetadata, branding Branding) (*Newsletter, error) {
	return newNewsletter(defaultTemplates, doc, dates, branding)
}

func newNewsletter(tmpl *template.Template, doc models.OutputDocument, dates models.NewsletterMetadata, branding Branding) (*Newsletter, error) {
	tables := doc.Tables()
	fragment, sections, err := renderTables(tmpl, tables)
	if err != nil {
		return nil, fmt.Errorf("failed to render tables: %w", err)
	}
	return &Newsletter{
		tmpl:     tmpl,
		branding: branding,
		dates:    dates,
		tables:   tables,
		fragment: fragment,
		sections: sections,
	}, nil
}

// Sections returns the number of table sections on the page.
func (n *Newsletter) Sections() int { return n.sections }

// Dates returns the badge values.
func (n *Newsletter) Dates() models.NewsletterMetadata { return n.dates }

type pageData struct {
	Branding
	PageState
	Dark   bool
	Dates  models.NewsletterMetadata
	Tables template.HTML
}

// Render writes the full page for one request.
func (n *Newsletter) Render(w io.Writer, state PageState) error {
	if state.RootClass == "" {
		state.RootClass = string(state.Mode)
	}
	return n.tmpl.ExecuteTemplate(w, "newsletter.html", pageData{
		Branding:  n.branding,
		PageState: state,
		Dark:      state.Mode.IsDark(),
		Dates:     n.dates,
		Tables:    n.fragment,
	})
}
