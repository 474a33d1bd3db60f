package theme

import (
	"net/http"
	"strings"
)

// ClientHintHeader carries the browser's prefers-color-scheme value.
const ClientHintHeader = "Sec-CH-Prefers-Color-Scheme"

// Environment reports the host's ambient colour-scheme preference.
type Environment interface {
	PrefersDark() bool
}

// EnvironmentFunc adapts a function to Environment.
type EnvironmentFunc func() bool

func (f EnvironmentFunc) PrefersDark() bool { return f() }

// HeaderEnvironment reads the preference from request headers.
type HeaderEnvironment struct {
	Header http.Header
}

// RequestEnvironment returns the environment of r.
func RequestEnvironment(r *http.Request) HeaderEnvironment {
	return HeaderEnvironment{Header: r.Header}
}

// PrefersDark reports whether the client hint asks for dark. Hint values are
// structured-header tokens and may arrive quoted.
func (e HeaderEnvironment) PrefersDark() bool {
	v := strings.Trim(strings.TrimSpace(e.Header.Get(ClientHintHeader)), `"`)
	return strings.EqualFold(v, string(Dark))
}

// AdvertiseClientHints asks the browser to send ClientHintHeader on later
// requests, and to retry the first one with it.
func AdvertiseClientHints(h http.Header) {
	h.Set("Accept-CH", ClientHintHeader)
	h.Set("Critical-CH", ClientHintHeader)
	h.Add("Vary", ClientHintHeader)
}
