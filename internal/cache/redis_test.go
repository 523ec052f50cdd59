package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/cashplane/internal/config"
)

func setupTestCache(t *testing.T) *Cache {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	t.Cleanup(func() { mr.Close() })

	cfg := config.RedisConnection{
		AddressRedis: mr.Addr(),
		Password:     "",
		DB:           0,
		User:         "",
	}

	cache, err := InitServer(context.Background(), cfg)
	require.NoError(t, err)
	return cache
}

func TestSetAndGet(t *testing.T) {
	cache := setupTestCache(t)

	err := cache.Set("verify:token123", "user@example.com", time.Hour)
	require.NoError(t, err)

	var email string
	found, err := cache.Get("verify:token123", &email)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "user@example.com", email)
}

func TestGet_MissingKey(t *testing.T) {
	cache := setupTestCache(t)

	var email string
	found, err := cache.Get("verify:unknown", &email)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInvalidate(t *testing.T) {
	cache := setupTestCache(t)

	require.NoError(t, cache.Set("verify:token123", "user@example.com", time.Hour))
	require.NoError(t, cache.Invalidate("verify:token123"))

	var email string
	found, err := cache.Get("verify:token123", &email)
	require.NoError(t, err)
	assert.False(t, found)
}
