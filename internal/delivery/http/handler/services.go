package handler

import (
	"context"
	"io"

	"github.com/poi-crawler/internal/domain"
	"github.com/poi-crawler/internal/usecase/dto"
)

// RegionService - то, что обработчику регионов нужно от usecase.RegionUseCase
type RegionService interface {
	Resolve(ctx context.Context, opts domain.ResolveOptions) (*domain.RegionMap, error)
}

type CrawlService interface {
	CrawlBatch(ctx context.Context, req dto.CrawlRequest) (*dto.CrawlSummary, error)
}

type ExportService interface {
	GetGeoJSON(ctx context.Context, sourceQuery string) (*domain.FeatureCollection, error)
	GetCategories(ctx context.Context) ([]domain.CategoryCount, error)
	WriteCSV(ctx context.Context, w io.Writer, sourceQuery string) (int, error)
}
