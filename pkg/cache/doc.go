// Package cache provides the batched key/value store consumed by the
// permissions client, with Redis and in-process backends.
//
// # Overview
//
// The Store interface is deliberately small: one batched read, one
// batched TTL'd write. Entries expire on their TTL; nothing here deletes
// them. A missing key is not an error, it simply is absent from the
// returned map.
//
// # Backends
//
// Redis (shared across processes):
//
//	store, err := cache.NewRedisStore(cache.Config{
//		Backend:  cache.BackendRedis,
//		RedisURL: "redis://localhost:6379",
//	})
//
// In-memory (single process, expirable LRU):
//
//	store := cache.NewMemoryStore(4096, 2*time.Minute)
//
// Or selected by name from configuration:
//
//	store, err := cache.New(cfg)  // BackendRedis, BackendMemory, BackendDisabled
//
// BackendDisabled yields a nil Store, which the permissions client
// treats as "always fetch".
package cache
