package render

import (
	"fmt"
	"strings"

	"github.com/bobmcallan/newsletter-portal/internal/models"
)

var cellEscaper = strings.NewReplacer("|", `\|`, "\n", " ", "\r", "")

// Headings end at the first line break.
var headingEscaper = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// Markdown renders the newsletter as GitHub-flavoured markdown. Empty
// tables are skipped like on the page.
func (n *Newsletter) Markdown() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", headingEscaper.Replace(n.branding.Title))
	fmt.Fprintf(&b, "- **Fecha boletín:** %s\n", n.dates.NewsletterDate)
	fmt.Fprintf(&b, "- **Actualización:** %s\n", n.dates.UpdatedAt)

	for _, t := range n.tables {
		if t.IsEmpty() {
			continue
		}
		b.WriteString("\n")
		writeMarkdownTable(&b, t)
	}
	return b.String()
}

// MarkdownTable renders one table. A table without rows renders as "".
func MarkdownTable(t models.TableData) string {
	if t.IsEmpty() {
		return ""
	}
	var b strings.Builder
	writeMarkdownTable(&b, t)
	return b.String()
}

func writeMarkdownTable(b *strings.Builder, t models.TableData) {
	fmt.Fprintf(b, "## %s\n\n", headingEscaper.Replace(t.Title))

	// GFM needs a header row, even an empty one.
	cols := len(t.Columns)
	if cols == 0 {
		cols = 1
	}
	b.WriteString("|")
	for i := 0; i < cols; i++ {
		c := ""
		if i < len(t.Columns) {
			c = cellEscaper.Replace(t.Columns[i])
		}
		fmt.Fprintf(b, " %s |", c)
	}
	b.WriteString("\n|")
	for i := 0; i < cols; i++ {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")

	for _, row := range t.Data {
		b.WriteString("|")
		for _, cell := range row {
			fmt.Fprintf(b, " %s |", cellEscaper.Replace(cell))
		}
		b.WriteString("\n")
	}
}
