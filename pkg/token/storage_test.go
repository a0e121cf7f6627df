package token

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osplatform/permissions-client/pkg/cache"
)

func TestMemoryStorage(t *testing.T) {
	storage := NewMemoryStorage()
	ctx := context.Background()

	got, err := storage.Get(ctx, "token:oscore")
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, storage.Set(ctx, "token:oscore", "tok"))

	got, err = storage.Get(ctx, "token:oscore")
	require.NoError(t, err)
	assert.Equal(t, "tok", got)
}

func TestCacheStorage(t *testing.T) {
	mr := miniredis.RunT(t)
	store, err := cache.NewRedisStore(cache.Config{RedisURL: "redis://" + mr.Addr()})
	require.NoError(t, err)
	defer store.Close()

	storage := NewCacheStorage(store, time.Minute)
	ctx := context.Background()

	got, err := storage.Get(ctx, "token:oscore")
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, storage.Set(ctx, "token:oscore", "tok"))

	got, err = storage.Get(ctx, "token:oscore")
	require.NoError(t, err)
	assert.Equal(t, "tok", got)

	assert.Equal(t, time.Minute, mr.TTL("token:oscore"))

	mr.FastForward(2 * time.Minute)
	got, err = storage.Get(ctx, "token:oscore")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestAuthenticatorStampsBearerToken(t *testing.T) {
	fake := newFakeTokenServer(t)
	manager, err := NewManager(fake.settings(), NewMemoryStorage())
	require.NoError(t, err)

	auth := NewAuthenticator(manager, "oscore")

	req, err := http.NewRequest(http.MethodGet, "http://example.com", nil)
	require.NoError(t, err)

	require.NoError(t, auth.Authenticate(req))
	assert.Contains(t, req.Header.Get("Authorization"), "Bearer token-")
}

func TestAuthenticatorPropagatesRefreshFailure(t *testing.T) {
	fake := newFakeTokenServer(t)
	fake.failNext.Store(true)
	manager, err := NewManager(fake.settings(), NewMemoryStorage())
	require.NoError(t, err)

	auth := NewAuthenticator(manager, "oscore")

	req, err := http.NewRequest(http.MethodGet, "http://example.com", nil)
	require.NoError(t, err)

	assert.Error(t, auth.Authenticate(req))
}
