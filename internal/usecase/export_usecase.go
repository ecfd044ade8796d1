package usecase

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/poi-crawler/internal/domain"
	"github.com/poi-crawler/internal/domain/repository"
	apperrors "github.com/poi-crawler/internal/pkg/errors"
	"github.com/poi-crawler/internal/pkg/utils"
	"go.uber.org/zap"
)

// CSVColumns - порядок колонок CSV-выгрузки
var CSVColumns = []string{
	"uid", "name", "address", "province", "city", "area", "adcode", "lat", "lng", "type", "tag",
	"classified_poi_tag", "telephone", "detail", "overall_rating", "price", "shop_hours", "brand",
	"content_tag", "source_query",
}

// utf8BOM нужен Excel, чтобы распознать кодировку
const utf8BOM = "\ufeff"

// ExportUseCase отдает накопленные POI для карты: GeoJSON в WGS-84, гистограмма категорий, CSV
type ExportUseCase struct {
	poiRepo   repository.POIRepository
	cacheRepo repository.CacheRepository
	cacheTTL  time.Duration
	logger    *zap.Logger
}

func NewExportUseCase(
	poiRepo repository.POIRepository,
	cacheRepo repository.CacheRepository,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *ExportUseCase {
	return &ExportUseCase{
		poiRepo:   poiRepo,
		cacheRepo: cacheRepo,
		cacheTTL:  cacheTTL,
		logger:    logger,
	}
}

// GetGeoJSON возвращает точки с координатами, перепроецированными из GCJ-02 в WGS-84.
// Записи без координат или с координатами вне допустимого диапазона пропускаются.
func (uc *ExportUseCase) GetGeoJSON(ctx context.Context, sourceQuery string) (*domain.FeatureCollection, error) {
	records, err := uc.poiRepo.Query(ctx, domain.POIFilter{
		SourceQuery:     sourceQuery,
		WithCoordinates: true,
	})
	if err != nil {
		uc.logger.Error("Failed to load POIs for GeoJSON", zap.Error(err))
		return nil, apperrors.ErrDatabaseError.Wrap(err)
	}

	features := make([]domain.Feature, 0, len(records))
	for _, r := range records {
		if !r.HasCoordinates() {
			continue
		}
		if !utils.ValidateCoordinates(*r.Lat, *r.Lng) {
			uc.logger.Warn("Skipping POI with invalid coordinates",
				zap.String("uid", r.UID),
				zap.Float64("lat", *r.Lat),
				zap.Float64("lng", *r.Lng))
			continue
		}
		lng, lat := utils.GCJ02ToWGS84(*r.Lng, *r.Lat)
		features = append(features, domain.NewPointFeature(lng, lat, r.Properties()))
	}

	return domain.NewFeatureCollection(features), nil
}

// GetCategories возвращает число записей по source_query по убыванию, с кешированием
func (uc *ExportUseCase) GetCategories(ctx context.Context) ([]domain.CategoryCount, error) {
	if uc.cacheRepo != nil {
		cached, err := uc.cacheRepo.GetCategories(ctx)
		if err == nil && cached != nil {
			uc.logger.Debug("Categories fetched from cache")
			return cached, nil
		}
		if err != nil {
			uc.logger.Warn("Failed to get categories from cache", zap.Error(err))
		}
	}

	counts, err := uc.poiRepo.CategoryCounts(ctx)
	if err != nil {
		uc.logger.Error("Failed to count categories", zap.Error(err))
		return nil, apperrors.ErrDatabaseError.Wrap(err)
	}

	if uc.cacheRepo != nil {
		if err := uc.cacheRepo.SetCategories(ctx, counts, uc.cacheTTL); err != nil {
			uc.logger.Warn("Failed to cache categories", zap.Error(err))
		}
	}

	return counts, nil
}

// WriteCSV пишет все точки с координатами (WGS-84) в CSV с BOM и фиксированным порядком колонок.
// Возвращает число строк данных.
func (uc *ExportUseCase) WriteCSV(ctx context.Context, w io.Writer, sourceQuery string) (int, error) {
	fc, err := uc.GetGeoJSON(ctx, sourceQuery)
	if err != nil {
		return 0, err
	}

	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return 0, fmt.Errorf("write bom: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(CSVColumns); err != nil {
		return 0, fmt.Errorf("write csv header: %w", err)
	}

	row := make([]string, len(CSVColumns))
	for _, f := range fc.Features {
		for i, col := range CSVColumns {
			switch col {
			case "lng":
				row[i] = formatFloat(f.Geometry.Coordinates[0])
			case "lat":
				row[i] = formatFloat(f.Geometry.Coordinates[1])
			default:
				row[i] = formatValue(f.Properties[col])
			}
		}
		if err := cw.Write(row); err != nil {
			return 0, fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, fmt.Errorf("flush csv: %w", err)
	}

	uc.logger.Info("CSV exported", zap.Int("rows", len(fc.Features)), zap.String("source_query", sourceQuery))
	return len(fc.Features), nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatValue(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case float64:
		return formatFloat(t)
	default:
		return fmt.Sprint(t)
	}
}
