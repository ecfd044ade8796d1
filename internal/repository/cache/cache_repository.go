package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/poi-crawler/internal/domain"
	"github.com/poi-crawler/internal/domain/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type cacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

func NewCacheRepository(redis *Redis) repository.CacheRepository {
	return &cacheRepository{
		client: redis.Client(),
		logger: redis.logger,
	}
}

func (r *cacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil // Cache miss
	}
	if err != nil {
		r.logger.Error("Failed to get from cache", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("cache get error: %w", err)
	}

	r.logger.Debug("Cache hit", zap.String("key", key))
	return val, nil
}

func (r *cacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := r.client.Set(ctx, key, value, ttl).Err()
	if err != nil {
		r.logger.Error("Failed to set cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache set error: %w", err)
	}

	r.logger.Debug("Cache set", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

func (r *cacheRepository) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	err := r.client.Del(ctx, keys...).Err()
	if err != nil {
		r.logger.Error("Failed to delete from cache", zap.Strings("keys", keys), zap.Error(err))
		return fmt.Errorf("cache delete error: %w", err)
	}

	r.logger.Debug("Cache deleted", zap.Strings("keys", keys))
	return nil
}

func (r *cacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	val, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		r.logger.Error("Failed to check cache existence", zap.String("key", key), zap.Error(err))
		return false, fmt.Errorf("cache exists error: %w", err)
	}

	return val > 0, nil
}

// GetCategories получает гистограмму категорий из кеша
func (r *cacheRepository) GetCategories(ctx context.Context) ([]domain.CategoryCount, error) {
	data, err := r.Get(ctx, domain.CacheKeyCategories)
	if err != nil {
		return nil, err
	}
	return decodeCategories(data, r.logger)
}

// SetCategories сохраняет гистограмму категорий в кеше
func (r *cacheRepository) SetCategories(ctx context.Context, counts []domain.CategoryCount, ttl time.Duration) error {
	data, err := json.Marshal(counts)
	if err != nil {
		r.logger.Error("Failed to marshal categories", zap.Error(err))
		return fmt.Errorf("marshal categories: %w", err)
	}

	return r.Set(ctx, domain.CacheKeyCategories, data, ttl)
}

func decodeCategories(data []byte, logger *zap.Logger) ([]domain.CategoryCount, error) {
	if data == nil {
		return nil, nil // Cache miss
	}

	var counts []domain.CategoryCount
	if err := json.Unmarshal(data, &counts); err != nil {
		logger.Error("Failed to unmarshal categories from cache", zap.Error(err))
		return nil, fmt.Errorf("unmarshal categories: %w", err)
	}

	return counts, nil
}
