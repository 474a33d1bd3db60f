package render

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/bobmcallan/newsletter-portal/internal/models"
)

func parseHTML(t *testing.T, s string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		t.Fatalf("failed to parse HTML: %v", err)
	}
	return doc
}

// findAll returns every element of type a below n in document order,
// skipping <template> contents.
func findAll(n *html.Node, a atom.Atom) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Template {
			return
		}
		if n.Type == html.ElementNode && n.DataAtom == a {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func textOf(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func sampleDocument() models.OutputDocument {
	table := func(title string, rows int) models.TableData {
		t := models.TableData{Title: title, Columns: []string{"Emisor", "Tasa"}}
		for i := 0; i < rows; i++ {
			t.Data = append(t.Data, []string{title + " emisor", "7,5%"})
		}
		return t
	}
	return models.OutputDocument{
		MutualFundsGs:      table("Fondos Mutuos en Guaraníes", 2),
		MutualFundsUsd:     table("Fondos Mutuos en Dólares", 1),
		InvestmentFundsGs:  table("Fondos de Inversión en Guaraníes", 1),
		InvestmentFundsUsd: table("Fondos de Inversión en Dólares", 1),
		BondsGs:            table("Bonos (Guaraníes)", 3),
		BondsUsd:           table("Bonos (Dólares)", 1),
		CdaGs:              table("CDA (Guaraníes)", 1),
		CdaUsd:             table("CDA (Dólares)", 1),
		Stocks:             table("Acciones", 2),
	}
}

var sampleDates = models.NewsletterMetadata{
	NewsletterDate: "Lunes 4 de marzo de 2024",
	UpdatedAt:      "05-03-2024 8:15:30",
}

var sampleBranding = Branding{
	Title:      "Newsletter Cadiem",
	BrandURL:   "https://github.com/veraivan",
	BrandLabel: "@veraivan",
}
