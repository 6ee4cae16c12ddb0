package repository

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social-app/config"
)

func newTestCache(t *testing.T) (*miniredis.Miniredis, *CacheRepository) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return server, NewCacheRepository(&config.RedisClient{Client: client})
}

func TestCacheRepository_MarkRevoked(t *testing.T) {
	server, cache := newTestCache(t)
	ctx := context.Background()

	revoked, err := cache.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, cache.MarkRevoked(ctx, "jti-1", time.Minute))
	assert.True(t, server.Exists("revoked:jti-1"))

	revoked, err = cache.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	server.FastForward(2 * time.Minute)
	revoked, err = cache.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestCacheRepository_MarkRevoked_ExpiredTTL(t *testing.T) {
	server, cache := newTestCache(t)

	require.NoError(t, cache.MarkRevoked(context.Background(), "jti-1", 0))
	assert.False(t, server.Exists("revoked:jti-1"))
}
