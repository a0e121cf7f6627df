package token

import (
	"context"
	"time"

	"github.com/osplatform/permissions-client/pkg/cache"
)

// Storage persists tokens between refreshes. Get returns an empty
// string, not an error, when nothing is stored.
type Storage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// CacheStorage stores tokens in a cache.Store with a fixed expiry, so a
// token is re-minted shortly before upstream would reject it.
type CacheStorage struct {
	store cache.Store
	ttl   time.Duration
}

// NewCacheStorage wraps store. The TTL should sit comfortably under the
// token lifetime granted by the auth server.
func NewCacheStorage(store cache.Store, ttl time.Duration) *CacheStorage {
	return &CacheStorage{store: store, ttl: ttl}
}

func (s *CacheStorage) Get(ctx context.Context, key string) (string, error) {
	found, err := s.store.GetMany(ctx, []string{key})
	if err != nil {
		return "", err
	}
	return found[key], nil
}

func (s *CacheStorage) Set(ctx context.Context, key, value string) error {
	return s.store.SetMany(ctx, map[string]string{key: value}, s.ttl)
}

// MemoryStorage is a Storage for tests and single-shot CLI use.
type MemoryStorage struct {
	tokens map[string]string
}

// NewMemoryStorage returns an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{tokens: make(map[string]string)}
}

func (s *MemoryStorage) Get(_ context.Context, key string) (string, error) {
	return s.tokens[key], nil
}

func (s *MemoryStorage) Set(_ context.Context, key, value string) error {
	s.tokens[key] = value
	return nil
}
