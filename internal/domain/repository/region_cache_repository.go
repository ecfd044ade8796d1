package repository

import (
	"context"

	"github.com/poi-crawler/internal/domain"
)

// RegionCacheRepository хранит разрешенную иерархию регионов между запусками
type RegionCacheRepository interface {
	// Load возвращает сохраненную иерархию. (nil, nil) - кеша нет или он поврежден.
	Load(ctx context.Context) (*domain.RegionMap, error)

	// Save атомарно заменяет сохраненную иерархию
	Save(ctx context.Context, regions *domain.RegionMap) error
}
