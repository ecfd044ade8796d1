package cache

import (
	"context"
	"testing"
	"time"

	"github.com/poi-crawler/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMemoryRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository(time.Minute, zap.NewNop())

	t.Run("miss returns nil without error", func(t *testing.T) {
		val, err := repo.Get(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, val)

		counts, err := repo.GetCategories(ctx)
		require.NoError(t, err)
		assert.Nil(t, counts)
	})

	t.Run("set get delete", func(t *testing.T) {
		require.NoError(t, repo.Set(ctx, "k", []byte("v"), 0))

		ok, err := repo.Exists(ctx, "k")
		require.NoError(t, err)
		assert.True(t, ok)

		val, err := repo.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, []byte("v"), val)

		require.NoError(t, repo.Delete(ctx, "k"))
		ok, _ = repo.Exists(ctx, "k")
		assert.False(t, ok)
	})

	t.Run("categories round trip", func(t *testing.T) {
		in := []domain.CategoryCount{{SourceQuery: "美食", Count: 3}}
		require.NoError(t, repo.SetCategories(ctx, in, time.Minute))

		out, err := repo.GetCategories(ctx)
		require.NoError(t, err)
		assert.Equal(t, in, out)
	})

	t.Run("expired entries are gone", func(t *testing.T) {
		require.NoError(t, repo.Set(ctx, "short", []byte("x"), time.Millisecond))
		time.Sleep(5 * time.Millisecond)

		val, err := repo.Get(ctx, "short")
		require.NoError(t, err)
		assert.Nil(t, val)
	})
}
