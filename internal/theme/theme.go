// Package theme holds the per-visitor colour theme: the persisted mode, the
// root class marker that styling keys off, and the request-scoped provider
// that ties them together.
package theme

// Mode is a colour theme. Values read back from storage are kept verbatim,
// so a Mode may hold a string outside the three constants.
type Mode string

const (
	Dark   Mode = "dark"
	Light  Mode = "light"
	System Mode = "system"
)

// DefaultStorageKey is the storage key used when none is configured.
const DefaultStorageKey = "vite-ui-theme"

// Toggled returns the mode a toggle moves to. Only dark flips to light;
// every other value, system included, flips to dark.
func (m Mode) Toggled() Mode {
	if m == Dark {
		return Light
	}
	return Dark
}

// IsDark reports whether m is the dark theme.
func (m Mode) IsDark() bool { return m == Dark }

func (m Mode) String() string { return string(m) }
