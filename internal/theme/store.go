package theme

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bobmcallan/newsletter-portal/internal/interfaces"
)

// Store is the theme state for one visitor. Every change is written to the
// key-value storage before it becomes visible.
type Store struct {
	kv  interfaces.KeyValueStorage
	key string

	mu     sync.Mutex
	mode   Mode
	subs   map[int]func(Mode)
	order  []int
	nextID int
}

// NewStore loads the mode persisted under storageKey. A missing or empty
// value falls back to env. An empty storageKey means DefaultStorageKey.
func NewStore(ctx context.Context, kv interfaces.KeyValueStorage, storageKey string, env Environment) (*Store, error) {
	if storageKey == "" {
		storageKey = DefaultStorageKey
	}

	s := &Store{
		kv:   kv,
		key:  storageKey,
		subs: make(map[int]func(Mode)),
	}

	v, err := kv.Get(ctx, storageKey)
	switch {
	case err == nil && v != "":
		s.mode = Mode(v)
	case err == nil || errors.Is(err, interfaces.ErrNotFound):
		s.mode = Light
		if env != nil && env.PrefersDark() {
			s.mode = Dark
		}
	default:
		return nil, fmt.Errorf("failed to read theme %s: %w", storageKey, err)
	}

	return s, nil
}

// Mode returns the current mode.
func (s *Store) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// StorageKey returns the key the mode is persisted under.
func (s *Store) StorageKey() string { return s.key }

// Set persists mode, then makes it current and notifies subscribers in
// subscription order. On a storage error nothing changes.
func (s *Store) Set(ctx context.Context, mode Mode) error {
	s.mu.Lock()
	if err := s.kv.Set(ctx, s.key, string(mode)); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to persist theme %s: %w", s.key, err)
	}
	s.mode = mode
	subs := make([]func(Mode), 0, len(s.order))
	for _, id := range s.order {
		subs = append(subs, s.subs[id])
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(mode)
	}
	return nil
}

// Toggle flips dark to light and anything else to dark.
func (s *Store) Toggle(ctx context.Context) (Mode, error) {
	next := s.Mode().Toggled()
	if err := s.Set(ctx, next); err != nil {
		return s.Mode(), err
	}
	return next, nil
}

// Subscribe registers fn for mode changes and returns a function that
// removes it.
func (s *Store) Subscribe(fn func(Mode)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.order = append(s.order, id)

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.subs[id]; !ok {
			return
		}
		delete(s.subs, id)
		for i, v := range s.order {
			if v == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}
}
