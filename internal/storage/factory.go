package storage

import (
	"fmt"
	"net/http"
	"time"

	"github.com/bobmcallan/newsletter-portal/internal/common"
	"github.com/bobmcallan/newsletter-portal/internal/config"
	"github.com/bobmcallan/newsletter-portal/internal/interfaces"
	"github.com/bobmcallan/newsletter-portal/internal/storage/badger"
	"github.com/bobmcallan/newsletter-portal/internal/storage/cookie"
	"github.com/bobmcallan/newsletter-portal/internal/storage/memory"
	"github.com/google/uuid"
)

// VisitorCookie identifies a browser when values are stored server-side.
const VisitorCookie = "newsletter_visitor"

// NewStorageManager creates the server-side storage manager for the
// configured backend. The cookie backend keeps nothing server-side and
// returns a nil manager.
func NewStorageManager(logger *common.Logger, cfg *config.Config) (interfaces.StorageManager, error) {
	switch cfg.Storage.Backend {
	case "badger":
		m, err := badger.NewManager(logger, &cfg.Storage.Badger)
		if err != nil {
			return nil, err
		}
		return m, nil
	case "memory":
		return memory.NewManager(), nil
	case "cookie":
		return nil, nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
}

// RequestStorage hands out the key-value storage visible to one HTTP request.
type RequestStorage struct {
	manager interfaces.StorageManager
	cookie  config.CookieConfig
}

// NewRequestStorage opens the configured backend.
func NewRequestStorage(logger *common.Logger, cfg *config.Config) (*RequestStorage, error) {
	manager, err := NewStorageManager(logger, cfg)
	if err != nil {
		return nil, err
	}

	logger.Info().Str("backend", cfg.Storage.Backend).Msg("storage initialized")

	return &RequestStorage{
		manager: manager,
		cookie:  cfg.Storage.Cookie,
	}, nil
}

// ForRequest returns the storage for the browser behind r. Server-side
// backends are scoped by the visitor cookie, which is issued when missing.
func (s *RequestStorage) ForRequest(w http.ResponseWriter, r *http.Request) interfaces.KeyValueStorage {
	if s.manager == nil {
		return cookie.NewKVStorage(w, r, s.cookieOptions())
	}
	return Scoped(s.manager.KeyValueStorage(), VisitorID(w, r, s.cookieOptions())+":")
}

// Close releases the server-side backend.
func (s *RequestStorage) Close() error {
	if s.manager == nil {
		return nil
	}
	return s.manager.Close()
}

func (s *RequestStorage) cookieOptions() cookie.Options {
	return cookie.Options{
		MaxAge: time.Duration(s.cookie.MaxAgeDays) * 24 * time.Hour,
		Secure: s.cookie.Secure,
	}
}

// VisitorID returns the visitor cookie value, issuing a new UUID when the
// request has none (or an unparseable one).
func VisitorID(w http.ResponseWriter, r *http.Request, opts cookie.Options) string {
	if c, err := r.Cookie(VisitorCookie); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			return id.String()
		}
	}

	id := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     VisitorCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(opts.MaxAge.Seconds()),
		Secure:   opts.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	// Later reads within the same request see the new visitor.
	cookie.ReplaceRequestCookie(r, VisitorCookie, id)
	return id
}
