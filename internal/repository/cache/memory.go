package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/poi-crawler/internal/domain"
	"github.com/poi-crawler/internal/domain/repository"
	"go.uber.org/zap"
)

type memoryRepository struct {
	store  *gocache.Cache
	logger *zap.Logger
}

// NewMemoryRepository - кеш в памяти процесса, используется когда Redis выключен
func NewMemoryRepository(defaultTTL time.Duration, logger *zap.Logger) repository.CacheRepository {
	return &memoryRepository{
		store:  gocache.New(defaultTTL, 2*defaultTTL),
		logger: logger,
	}
}

func (r *memoryRepository) Get(_ context.Context, key string) ([]byte, error) {
	val, ok := r.store.Get(key)
	if !ok {
		return nil, nil
	}
	data, ok := val.([]byte)
	if !ok {
		return nil, fmt.Errorf("cache get error: unexpected value type %T", val)
	}

	r.logger.Debug("Cache hit", zap.String("key", key))
	return data, nil
}

func (r *memoryRepository) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	r.store.Set(key, value, ttl)
	return nil
}

func (r *memoryRepository) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		r.store.Delete(k)
	}
	return nil
}

func (r *memoryRepository) Exists(_ context.Context, key string) (bool, error) {
	_, ok := r.store.Get(key)
	return ok, nil
}

func (r *memoryRepository) GetCategories(ctx context.Context) ([]domain.CategoryCount, error) {
	data, err := r.Get(ctx, domain.CacheKeyCategories)
	if err != nil {
		return nil, err
	}
	return decodeCategories(data, r.logger)
}

func (r *memoryRepository) SetCategories(ctx context.Context, counts []domain.CategoryCount, ttl time.Duration) error {
	data, err := json.Marshal(counts)
	if err != nil {
		return fmt.Errorf("marshal categories: %w", err)
	}
	return r.Set(ctx, domain.CacheKeyCategories, data, ttl)
}
