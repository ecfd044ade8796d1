package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/poi-crawler/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupRedis(t *testing.T) *Redis {
	t.Helper()

	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("Redis not available at %s: %v", addr, err)
	}
	t.Cleanup(func() { client.Close() })

	return NewRedisFromClient(client, zap.NewNop())
}

func TestCacheRepository_Redis(t *testing.T) {
	r := setupRedis(t)
	repo := NewCacheRepository(r)
	ctx := context.Background()

	require.NoError(t, repo.Delete(ctx, domain.CacheKeyCategories, "test:key"))

	val, err := repo.Get(ctx, "test:key")
	require.NoError(t, err)
	assert.Nil(t, val)

	require.NoError(t, repo.Set(ctx, "test:key", []byte("v"), time.Minute))
	ok, err := repo.Exists(ctx, "test:key")
	require.NoError(t, err)
	assert.True(t, ok)

	in := []domain.CategoryCount{{SourceQuery: "美食", Count: 2}, {SourceQuery: "酒店", Count: 1}}
	require.NoError(t, repo.SetCategories(ctx, in, time.Minute))
	out, err := repo.GetCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	require.NoError(t, repo.Delete(ctx, domain.CacheKeyCategories, "test:key"))
	ok, err = repo.Exists(ctx, "test:key")
	require.NoError(t, err)
	assert.False(t, ok)
}
