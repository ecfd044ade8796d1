package repository

import (
	"context"

	"github.com/poi-crawler/internal/domain"
)

// POIRepository определяет методы для работы с хранилищем точек интереса
type POIRepository interface {
	// Upsert вставляет или обновляет записи по uid. Возвращает число записанных строк.
	// Записи без uid пропускаются.
	Upsert(ctx context.Context, records []*domain.POIRecord) (int, error)

	// Query возвращает записи, подходящие под фильтр, в порядке вставки
	Query(ctx context.Context, filter domain.POIFilter) ([]*domain.POIRecord, error)

	// CategoryCounts возвращает число записей по source_query, по убыванию
	CategoryCounts(ctx context.Context) ([]domain.CategoryCount, error)

	// Count возвращает общее число записей
	Count(ctx context.Context) (int, error)
}
