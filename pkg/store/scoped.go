package store

import (
	"context"
	"strings"
)

// Scoped wraps a Store with a key prefix for namespace isolation.
// Several solves with different settings can share one backend this way.
//
// Example usage:
//
//	// Keep xxhash digests apart from sha256 ones
//	s := store.NewScoped(redisStore, "inarow:xxhash:")
type Scoped struct {
	inner  Store
	prefix string
}

// NewScoped creates a store whose keys are prefixed. An empty prefix returns
// inner unchanged.
func NewScoped(inner Store, prefix string) Store {
	if prefix == "" {
		return inner
	}
	return &Scoped{inner: inner, prefix: prefix}
}

// Prefix returns the namespace prefix.
func (s *Scoped) Prefix() string { return s.prefix }

// Exists reports whether the prefixed key is present.
func (s *Scoped) Exists(ctx context.Context, key string) (bool, error) {
	return s.inner.Exists(ctx, s.prefix+key)
}

// Get retrieves the prefixed key.
func (s *Scoped) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

// Set stores under the prefixed key.
func (s *Scoped) Set(ctx context.Context, key string, data []byte) error {
	return s.inner.Set(ctx, s.prefix+key, data)
}

// Delete removes the prefixed key.
func (s *Scoped) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, s.prefix+key)
}

// Keys lists keys inside the namespace with the namespace stripped.
func (s *Scoped) Keys(ctx context.Context, prefix string) ([]string, error) {
	keys, err := s.inner.Keys(ctx, s.prefix+prefix)
	if err != nil {
		return nil, err
	}
	for i, k := range keys {
		keys[i] = strings.TrimPrefix(k, s.prefix)
	}
	return keys, nil
}

// Close closes the wrapped store.
func (s *Scoped) Close() error {
	return s.inner.Close()
}

var _ Store = (*Scoped)(nil)
