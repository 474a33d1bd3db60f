package interfaces

import (
	"context"
	"errors"
)

// ErrNotFound is returned (wrapped) by KeyValueStorage.Get for missing keys.
var ErrNotFound = errors.New("key not found")

// StorageManager provides access to the process-wide storage backend.
type StorageManager interface {
	KeyValueStorage() KeyValueStorage
	Close() error
}

// KeyValueStorage provides basic key-value operations.
type KeyValueStorage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	GetAll(ctx context.Context) (map[string]string, error)
}
