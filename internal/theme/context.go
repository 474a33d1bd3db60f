package theme

import (
	"context"
	"net/http"

	"github.com/bobmcallan/newsletter-portal/internal/interfaces"
)

type contextKey struct{}

// Provider couples a Store with the RootMarker it drives.
type Provider struct {
	Store  *Store
	Marker *RootMarker

	unsubscribe func()
}

// NewProvider applies the current mode to a fresh marker and keeps it in
// sync with the store.
func NewProvider(store *Store) *Provider {
	marker := NewRootMarker()
	marker.Apply(store.Mode())
	return &Provider{
		Store:       store,
		Marker:      marker,
		unsubscribe: store.Subscribe(marker.Apply),
	}
}

// NewRequestProvider builds the provider for one HTTP request.
func NewRequestProvider(r *http.Request, kv interfaces.KeyValueStorage, storageKey string) (*Provider, error) {
	store, err := NewStore(r.Context(), kv, storageKey, RequestEnvironment(r))
	if err != nil {
		return nil, err
	}
	return NewProvider(store), nil
}

// Close detaches the marker from the store.
func (p *Provider) Close() {
	if p.unsubscribe != nil {
		p.unsubscribe()
		p.unsubscribe = nil
	}
}

// Mode returns the current mode.
func (p *Provider) Mode() Mode { return p.Store.Mode() }

// Toggle flips the theme.
func (p *Provider) Toggle(ctx context.Context) (Mode, error) { return p.Store.Toggle(ctx) }

// WithProvider returns a context carrying p.
func WithProvider(ctx context.Context, p *Provider) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// Lookup returns the provider in ctx, if any.
func Lookup(ctx context.Context) (*Provider, bool) {
	p, ok := ctx.Value(contextKey{}).(*Provider)
	return p, ok && p != nil
}

// FromContext returns the provider in ctx. A missing provider is a wiring
// error and panics.
func FromContext(ctx context.Context) *Provider {
	p, ok := Lookup(ctx)
	if !ok {
		panic("theme: FromContext must be used within a theme Provider")
	}
	return p
}
