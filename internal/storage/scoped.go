package storage

import (
	"context"
	"strings"

	"github.com/bobmcallan/newsletter-portal/internal/interfaces"
)

// scopedKV prefixes every key so several visitors can share one backend.
type scopedKV struct {
	inner  interfaces.KeyValueStorage
	prefix string
}

// Scoped returns a view of kv restricted to keys starting with prefix.
// Keys passed to and returned from the view have the prefix removed.
func Scoped(kv interfaces.KeyValueStorage, prefix string) interfaces.KeyValueStorage {
	return &scopedKV{inner: kv, prefix: prefix}
}

func (s *scopedKV) Get(ctx context.Context, key string) (string, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

func (s *scopedKV) Set(ctx context.Context, key, value string) error {
	return s.inner.Set(ctx, s.prefix+key, value)
}

func (s *scopedKV) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, s.prefix+key)
}

func (s *scopedKV) GetAll(ctx context.Context) (map[string]string, error) {
	all, err := s.inner.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string)
	for k, v := range all {
		if rest, ok := strings.CutPrefix(k, s.prefix); ok {
			out[rest] = v
		}
	}
	return out, nil
}
