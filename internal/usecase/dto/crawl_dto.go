package dto

import "github.com/poi-crawler/internal/domain"

// CrawlRequest - запрос на обход выбранных регионов.
// Queries - список через запятую; пустой означает набор категорий по умолчанию.
type CrawlRequest struct {
	APIKey    string   `json:"ak" validate:"required"`
	Province  string   `json:"province" validate:"required"`
	City      string   `json:"city" validate:"region_selector"`
	District  string   `json:"district" validate:"region_selector"`
	Queries   string   `json:"queries"`
	QPS       *float64 `json:"qps,omitempty" validate:"omitempty,gt=0"`
	CityLimit *bool    `json:"city_limit,omitempty"`
}

// Selection - выбор региона из запроса
func (r *CrawlRequest) Selection() domain.RegionSelection {
	return domain.RegionSelection{
		Province: r.Province,
		City:     r.City,
		District: r.District,
	}
}

// CrawlSummary - итог пакетного обхода. Ошибки листовых регионов не прерывают остальные.
type CrawlSummary struct {
	OK                bool                      `json:"ok"`
	BatchID           string                    `json:"batch_id"`
	Regions           []string                  `json:"regions"`
	Queries           []string                  `json:"queries"`
	InsertedOrUpdated int                       `json:"inserted_or_updated"`
	PerRegion         []domain.RegionCrawlStats `json:"per_region"`
	Errors            []domain.RegionError      `json:"errors"`
	DurationMS        int64                     `json:"duration_ms"`
}

// HasErrors - хотя бы один листовой регион завершился ошибкой
func (s *CrawlSummary) HasErrors() bool {
	return len(s.Errors) > 0
}
