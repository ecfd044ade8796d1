package repository

import (
	"context"
	"time"

	"github.com/poi-crawler/internal/domain"
)

// CacheRepository определяет методы для работы с кешем экспортов
type CacheRepository interface {
	// Get получает значение из кеша по ключу. (nil, nil) - промах.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set сохраняет значение в кеше с TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete удаляет значения из кеша
	Delete(ctx context.Context, keys ...string) error

	// Exists проверяет существование ключа
	Exists(ctx context.Context, key string) (bool, error)

	// GetCategories получает гистограмму категорий из кеша
	GetCategories(ctx context.Context) ([]domain.CategoryCount, error)

	// SetCategories сохраняет гистограмму категорий в кеше
	SetCategories(ctx context.Context, counts []domain.CategoryCount, ttl time.Duration) error
}
