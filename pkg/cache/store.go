package cache

import (
	"context"
	"fmt"
	"time"
)

// Backend names accepted by New.
const (
	BackendRedis    = "redis"
	BackendMemory   = "memory"
	BackendDisabled = "disabled"
)

// Store is a batched key/value cache. Both operations may fail; callers
// decide how failures surface. Keys absent from GetMany's result were
// misses, not errors.
type Store interface {
	// GetMany returns the subset of keys present in the cache.
	GetMany(ctx context.Context, keys []string) (map[string]string, error)

	// SetMany writes every entry with the given expiry.
	SetMany(ctx context.Context, entries map[string]string, ttl time.Duration) error
}

// Config selects and configures a cache backend.
type Config struct {
	// Backend is one of BackendRedis, BackendMemory, BackendDisabled.
	Backend string

	// Redis settings, used when Backend is BackendRedis.
	RedisURL      string
	RedisPassword string
	RedisDB       int

	// Memory settings, used when Backend is BackendMemory.
	MemorySize int
	MemoryTTL  time.Duration
}

// New builds the Store named by cfg.Backend. BackendDisabled returns a
// nil Store with no error.
func New(cfg Config) (Store, error) {
	switch cfg.Backend {
	case BackendRedis:
		return NewRedisStore(cfg)
	case BackendMemory:
		return NewMemoryStore(cfg.MemorySize, cfg.MemoryTTL), nil
	case BackendDisabled, "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
