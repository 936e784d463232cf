// Package store provides the key-value backends that hold serialized
// positions.
//
// A [Store] is a flat byte map. The vault layers content addressing and
// encoding on top; backends only move bytes. Available implementations:
//
//   - [MemoryStore]: process-local map, used by tests and one-off solves
//   - [FileStore]: one file per key under a directory
//   - [RedisStore]: a Redis server through go-redis
//   - [MongoStore]: a MongoDB collection, one document per key
//
// [Scoped] prefixes every key with a namespace so several solves can share
// one backend. [Open] builds a backend from a [Config].
package store

import (
	"context"
	"sort"
)

// Store is the key-value contract the vault depends on.
type Store interface {
	// Exists reports whether key is present.
	Exists(ctx context.Context, key string) (bool, error)

	// Get returns the value for key. The boolean is false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key, replacing any previous value.
	Set(ctx context.Context, key string, data []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys returns every key starting with prefix, in no particular order.
	Keys(ctx context.Context, prefix string) ([]string, error)

	// Close releases backend resources.
	Close() error
}

// Summary describes the contents of a store.
type Summary struct {
	Keys  int   `json:"keys"`
	Bytes int64 `json:"bytes"`
}

// Summarize counts the keys and value bytes in s.
func Summarize(ctx context.Context, s Store) (Summary, error) {
	keys, err := s.Keys(ctx, "")
	if err != nil {
		return Summary{}, err
	}
	var sum Summary
	for _, k := range keys {
		data, ok, err := s.Get(ctx, k)
		if err != nil {
			return Summary{}, err
		}
		if ok {
			sum.Keys++
			sum.Bytes += int64(len(data))
		}
	}
	return sum, nil
}

// Clear deletes every key in s and returns how many were removed.
func Clear(ctx context.Context, s Store) (int, error) {
	keys, err := s.Keys(ctx, "")
	if err != nil {
		return 0, err
	}
	sort.Strings(keys)
	for i, k := range keys {
		if err := s.Delete(ctx, k); err != nil {
			return i, err
		}
	}
	return len(keys), nil
}
