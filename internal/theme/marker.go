package theme

import (
	"slices"
	"strings"
	"sync"
)

// RootMarker is the class list of the document root element.
type RootMarker struct {
	mu      sync.Mutex
	classes []string
}

// NewRootMarker returns a marker holding the given classes.
func NewRootMarker(classes ...string) *RootMarker {
	return &RootMarker{classes: slices.Clone(classes)}
}

// Apply removes the light and dark classes and adds mode.
func (m *RootMarker) Apply(mode Mode) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.classes = slices.DeleteFunc(m.classes, func(c string) bool {
		return c == string(Light) || c == string(Dark)
	})
	if mode != "" && !slices.Contains(m.classes, string(mode)) {
		m.classes = append(m.classes, string(mode))
	}
}

// Has reports whether class is set.
func (m *RootMarker) Has(class string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Contains(m.classes, class)
}

// Class returns the space-separated class attribute value.
func (m *RootMarker) Class() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return strings.Join(m.classes, " ")
}
