package render

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"

	"github.com/bobmcallan/newsletter-portal/internal/theme"
)

// DefaultTerminalWidth is used when no width is given.
const DefaultTerminalWidth = 100

// Terminal renders markdown for a terminal in the glamour style matching
// mode.
func Terminal(md string, mode theme.Mode, width int) (string, error) {
	if width <= 0 {
		width = DefaultTerminalWidth
	}
	style := styles.LightStyle
	if mode.IsDark() {
		style = styles.DarkStyle
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create terminal renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}
