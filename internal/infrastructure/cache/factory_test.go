package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vikasgargbear/production-infra-sub001/internal/infrastructure/config"
)

// unreachableRedis points at a port nothing listens on
var unreachableRedis = config.RedisConfig{Host: "127.0.0.1", Port: 1}

func TestIdempotencyStoreFactory_CreateStore(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled returns no store", func(t *testing.T) {
		f := NewIdempotencyStoreFactory(config.IdempotencyConfig{Enabled: false}, unreachableRedis)

		store, err := f.CreateStore(ctx)
		require.NoError(t, err)
		assert.Nil(t, store)
	})

	t.Run("memory backend", func(t *testing.T) {
		f := NewIdempotencyStoreFactory(config.IdempotencyConfig{Enabled: true, Backend: "memory", TTL: time.Hour}, unreachableRedis)

		store, err := f.CreateStore(ctx)
		require.NoError(t, err)
		defer store.Close()
		assert.IsType(t, &InMemoryIdempotencyStore{}, store)
	})

	t.Run("unreachable redis fails without fallback", func(t *testing.T) {
		f := NewIdempotencyStoreFactory(config.IdempotencyConfig{Enabled: true, Backend: "redis"}, unreachableRedis)

		store, err := f.CreateStore(ctx)
		require.Error(t, err)
		assert.Nil(t, store)
		assert.Contains(t, err.Error(), "redis required")
	})

	t.Run("unreachable redis falls back when allowed", func(t *testing.T) {
		f := NewIdempotencyStoreFactory(config.IdempotencyConfig{Enabled: true, Backend: "redis"}, unreachableRedis,
			WithInMemoryFallback(true))

		store, err := f.CreateStore(ctx)
		require.NoError(t, err)
		defer store.Close()
		assert.IsType(t, &InMemoryIdempotencyStore{}, store)
	})

	t.Run("unknown backend", func(t *testing.T) {
		f := NewIdempotencyStoreFactory(config.IdempotencyConfig{Enabled: true, Backend: "memcached"}, unreachableRedis)

		_, err := f.CreateStore(ctx)
		require.Error(t, err)
	})
}
