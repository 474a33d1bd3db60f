// Package cookie stores key-value pairs in browser cookies, scoped to one
// HTTP request/response pair.
package cookie

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/bobmcallan/newsletter-portal/internal/interfaces"
)

// Options controls the attributes of written cookies.
type Options struct {
	MaxAge time.Duration
	Secure bool
}

// KVStorage reads keys from the request cookies and writes Set-Cookie
// headers on the response. Writes are visible to later reads on the same
// instance.
type KVStorage struct {
	w    http.ResponseWriter
	r    *http.Request
	opts Options

	mu      sync.Mutex
	pending map[string]*string // nil value marks a deletion
}

// NewKVStorage binds cookie storage to one request.
func NewKVStorage(w http.ResponseWriter, r *http.Request, opts Options) *KVStorage {
	return &KVStorage{
		w:       w,
		r:       r,
		opts:    opts,
		pending: make(map[string]*string),
	}
}

func (s *KVStorage) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.pending[key]; ok {
		if v == nil {
			return "", fmt.Errorf("%w: %s", interfaces.ErrNotFound, key)
		}
		return *v, nil
	}

	c, err := s.r.Cookie(key)
	if err != nil {
		return "", fmt.Errorf("%w: %s", interfaces.ErrNotFound, key)
	}
	v, err := url.QueryUnescape(c.Value)
	if err != nil {
		return "", fmt.Errorf("failed to decode cookie %s: %w", key, err)
	}
	return v, nil
}

func (s *KVStorage) Set(_ context.Context, key, value string) error {
	c := &http.Cookie{
		Name:     key,
		Value:    url.QueryEscape(value),
		Path:     "/",
		MaxAge:   int(s.opts.MaxAge.Seconds()),
		Secure:   s.opts.Secure,
		HttpOnly: false, // the page script reads the theme for no-reload toggles
		SameSite: http.SameSiteLaxMode,
	}
	if err := c.Valid(); err != nil {
		return fmt.Errorf("invalid cookie for key %s: %w", key, err)
	}
	http.SetCookie(s.w, c)

	s.mu.Lock()
	s.pending[key] = &value
	s.mu.Unlock()
	return nil
}

func (s *KVStorage) Delete(_ context.Context, key string) error {
	http.SetCookie(s.w, &http.Cookie{
		Name:   key,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	s.mu.Lock()
	s.pending[key] = nil
	s.mu.Unlock()
	return nil
}

func (s *KVStorage) GetAll(_ context.Context) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]string)
	for _, c := range s.r.Cookies() {
		if v, err := url.QueryUnescape(c.Value); err == nil {
			out[c.Name] = v
		}
	}
	for k, v := range s.pending {
		if v == nil {
			delete(out, k)
			continue
		}
		out[k] = *v
	}
	return out, nil
}

// ReplaceRequestCookie drops every request cookie called name and adds one
// with value, so later r.Cookie(name) calls in the same request see value.
func ReplaceRequestCookie(r *http.Request, name, value string) {
	existing := r.Cookies()
	r.Header.Del("Cookie")
	for _, c := range existing {
		if c.Name != name {
			r.AddCookie(c)
		}
	}
	r.AddCookie(&http.Cookie{Name: name, Value: value})
}
