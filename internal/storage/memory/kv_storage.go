// Package memory provides a process-local key-value storage backend.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/bobmcallan/newsletter-portal/internal/interfaces"
)

// KVStorage is a map-backed interfaces.KeyValueStorage. Values are lost on restart.
type KVStorage struct {
	mu    sync.RWMutex
	items map[string]string
}

// NewKVStorage creates an empty in-memory store.
func NewKVStorage() *KVStorage {
	return &KVStorage{items: make(map[string]string)}
}

func (s *KVStorage) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.items[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", interfaces.ErrNotFound, key)
	}
	return v, nil
}

func (s *KVStorage) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	s.items[key] = value
	s.mu.Unlock()
	return nil
}

func (s *KVStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()
	return nil
}

func (s *KVStorage) GetAll(_ context.Context) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]string, len(s.items))
	for k, v := range s.items {
		out[k] = v
	}
	return out, nil
}

// Manager implements interfaces.StorageManager over a single KVStorage.
type Manager struct {
	kv *KVStorage
}

// NewManager creates a memory storage manager.
func NewManager() *Manager {
	return &Manager{kv: NewKVStorage()}
}

func (m *Manager) KeyValueStorage() interfaces.KeyValueStorage { return m.kv }
func (m *Manager) Close() error                                { return nil }
