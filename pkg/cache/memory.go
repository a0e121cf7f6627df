package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	// DefaultMemorySize bounds the in-memory store when no size is
	// configured.
	DefaultMemorySize = 4096

	// DefaultMemoryTTL is used when no TTL is configured.
	DefaultMemoryTTL = 120 * time.Second
)

// MemoryStore is a Store backed by an in-process expirable LRU. Useful
// for single-process deployments and tests where Redis is overkill.
//
// The LRU expires entries on the TTL the store was built with; the
// per-call TTL on SetMany is ignored. Configure the store with the same
// period the permissions client uses.
type MemoryStore struct {
	cache *expirable.LRU[string, string]
}

// NewMemoryStore builds a bounded in-memory store. Zero size or ttl fall
// back to the package defaults.
func NewMemoryStore(size int, ttl time.Duration) *MemoryStore {
	if size <= 0 {
		size = DefaultMemorySize
	}
	if ttl <= 0 {
		ttl = DefaultMemoryTTL
	}
	return &MemoryStore{
		cache: expirable.NewLRU[string, string](size, nil, ttl),
	}
}

// GetMany returns the unexpired subset of keys.
func (s *MemoryStore) GetMany(_ context.Context, keys []string) (map[string]string, error) {
	found := make(map[string]string, len(keys))
	for _, key := range keys {
		if value, ok := s.cache.Get(key); ok {
			found[key] = value
		}
	}
	return found, nil
}

// SetMany stores every entry. See the type comment about TTL handling.
func (s *MemoryStore) SetMany(_ context.Context, entries map[string]string, _ time.Duration) error {
	for key, value := range entries {
		s.cache.Add(key, value)
	}
	return nil
}

// Len reports the number of live entries, for tests and debugging.
func (s *MemoryStore) Len() int {
	return s.cache.Len()
}
