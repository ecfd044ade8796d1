package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/poi-crawler/internal/config"
	"github.com/poi-crawler/internal/domain"
	"github.com/poi-crawler/internal/domain/repository"
	apperrors "github.com/poi-crawler/internal/pkg/errors"
	"github.com/poi-crawler/internal/pkg/metrics"
	"github.com/poi-crawler/internal/pkg/ratelimit"
	"github.com/poi-crawler/internal/pkg/retry"
	"github.com/poi-crawler/internal/usecase/dto"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// PageSize - размер страницы Place API
const PageSize = 20

// RegionResolver - источник иерархии регионов для пакетного обхода
type RegionResolver interface {
	Resolve(ctx context.Context, opts domain.ResolveOptions) (*domain.RegionMap, error)
}

// CrawlConfig - параметры обхода
type CrawlConfig struct {
	Retry          retry.Policy
	Workers        int
	DefaultQPS     float64
	CityLimit      bool
	DefaultQueries []string
	ExcludeHKMacau bool
	ExcludeTaiwan  bool
}

// DefaultCrawlConfig: 3 попытки на страницу с паузой (0.35s + U[0, 0.25s)) * 1.6^(n-1)
func DefaultCrawlConfig() CrawlConfig {
	return CrawlConfig{
		Retry: retry.Policy{
			MaxAttempts: 3,
			Backoff:     retry.ExponentialJitter(350*time.Millisecond, 250*time.Millisecond, 1.6),
		},
		Workers:        1,
		DefaultQPS:     2.0,
		CityLimit:      true,
		DefaultQueries: config.DefaultQueries,
	}
}

// CrawlConfigFrom собирает CrawlConfig из конфигурации приложения
func CrawlConfigFrom(cfg *config.Config) CrawlConfig {
	c := DefaultCrawlConfig()
	c.Workers = cfg.Crawler.Workers
	c.DefaultQPS = cfg.Crawler.QPS
	c.CityLimit = cfg.Crawler.CityLimit
	if len(cfg.Crawler.DefaultQueries) > 0 {
		c.DefaultQueries = cfg.Crawler.DefaultQueries
	}
	c.ExcludeHKMacau = cfg.Region.ExcludeHKMacau
	c.ExcludeTaiwan = cfg.Region.ExcludeTaiwan
	return c
}

// CrawlUseCase обходит регионы × запросы через Place API и складывает результаты в хранилище
type CrawlUseCase struct {
	placeAPI  repository.PlaceAPI
	poiRepo   repository.POIRepository
	cacheRepo repository.CacheRepository
	regions   RegionResolver
	cfg       CrawlConfig
	logger    *zap.Logger
}

func NewCrawlUseCase(
	placeAPI repository.PlaceAPI,
	poiRepo repository.POIRepository,
	cacheRepo repository.CacheRepository,
	regions RegionResolver,
	cfg CrawlConfig,
	logger *zap.Logger,
) *CrawlUseCase {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &CrawlUseCase{
		placeAPI:  placeAPI,
		poiRepo:   poiRepo,
		cacheRepo: cacheRepo,
		regions:   regions,
		cfg:       cfg,
		logger:    logger,
	}
}

// CrawlRegion обходит один регион по всем запросам со своим ограничителем темпа.
// Сбой одного запроса не останавливает остальные: статистика возвращается вместе с CrawlError.
func (uc *CrawlUseCase) CrawlRegion(ctx context.Context, params domain.CrawlRegionParams) (*domain.RegionCrawlStats, error) {
	return uc.crawlRegion(ctx, ratelimit.New(params.QPS), params)
}

func (uc *CrawlUseCase) crawlRegion(
	ctx context.Context,
	limiter *ratelimit.Limiter,
	params domain.CrawlRegionParams,
) (*domain.RegionCrawlStats, error) {
	stats := &domain.RegionCrawlStats{
		Region:   params.Region,
		PerQuery: make([]domain.QueryStats, 0, len(params.Queries)),
	}

	var failed []error
	for _, q := range params.Queries {
		if err := ctx.Err(); err != nil {
			failed = append(failed, err)
			break
		}

		qs, err := uc.crawlQuery(ctx, limiter, params, q)
		stats.InsertedOrUpdated += qs.Count
		if err != nil {
			qs.State = domain.CrawlJobFailed
			qs.Error = err.Error()
			failed = append(failed, err)
			metrics.CrawlFailuresTotal.Inc()
			uc.logger.Warn("Query crawl failed",
				zap.String("region", params.Region),
				zap.String("query", q),
				zap.Int("pages", qs.Pages),
				zap.Error(err))
		}
		stats.PerQuery = append(stats.PerQuery, qs)
	}

	uc.logger.Info("Region crawled",
		zap.String("region", params.Region),
		zap.Int("inserted_or_updated", stats.InsertedOrUpdated),
		zap.Int("failed_queries", len(failed)))

	if len(failed) > 0 {
		return stats, apperrors.ErrCrawl.
			WithMessage("Region %s: %d of %d queries failed", params.Region, len(failed), len(params.Queries)).
			WithDetails(map[string]interface{}{"region": params.Region}).
			Wrap(errors.Join(failed...))
	}

	return stats, nil
}

// crawlQuery листает страницы 0, 1, ... пока API не вернет пустой results.
// Каждая непустая страница сразу пишется в хранилище.
func (uc *CrawlUseCase) crawlQuery(
	ctx context.Context,
	limiter *ratelimit.Limiter,
	params domain.CrawlRegionParams,
	query string,
) (domain.QueryStats, error) {
	qs := domain.QueryStats{Query: query, State: domain.CrawlJobDone}
	job := domain.CrawlJob{Region: params.Region, Query: query}

	for ; ; job.Page++ {
		resp, err := uc.fetchPage(ctx, limiter, params, job)
		if err != nil {
			return qs, fmt.Errorf("query %s page %d: %w", query, job.Page, err)
		}
		if len(resp.Results) == 0 {
			return qs, nil
		}

		records := make([]*domain.POIRecord, 0, len(resp.Results))
		for i := range resp.Results {
			records = append(records, resp.Results[i].ToRecord(query))
		}
		if _, err := uc.poiRepo.Upsert(ctx, records); err != nil {
			return qs, apperrors.ErrDatabaseError.Wrap(err)
		}

		qs.Count += len(resp.Results)
		qs.Pages++
		metrics.CrawlPagesTotal.Inc()
		metrics.CrawlRowsTotal.Add(float64(len(resp.Results)))

		uc.logger.Debug("Page stored",
			zap.String("region", job.Region),
			zap.String("query", job.Query),
			zap.Int("page", job.Page),
			zap.Int("rows", len(resp.Results)))
	}
}

// fetchPage запрашивает одну страницу. Повторяются сетевые ошибки, HTTP != 200 и статус API != 0.
func (uc *CrawlUseCase) fetchPage(
	ctx context.Context,
	limiter *ratelimit.Limiter,
	params domain.CrawlRegionParams,
	job domain.CrawlJob,
) (*domain.PlaceResponse, error) {
	query := domain.PlaceQuery{
		Query:     job.Query,
		Region:    job.Region,
		CityLimit: params.CityLimit,
		PageSize:  PageSize,
		PageNum:   job.Page,
		APIKey:    params.APIKey,
	}

	var resp *domain.PlaceResponse
	err := retry.DoNotify(ctx, uc.cfg.Retry, func(ctx context.Context, attempt int) error {
		if err := limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}

		r, err := uc.placeAPI.SearchPlace(ctx, query)
		if err == nil && !r.Status.OK() {
			err = apperrors.ErrUpstream.WithMessage("Place API status=%d msg=%s", int(r.Status), r.Message)
		}
		if err != nil {
			return err
		}

		resp = r
		return nil
	}, func(err error, attempt int, next time.Duration) {
		metrics.RetriesTotal.WithLabelValues("place_search").Inc()
		uc.logger.Debug("Place API attempt failed",
			zap.String("region", job.Region),
			zap.String("query", job.Query),
			zap.Int("page", job.Page),
			zap.Int("attempt", attempt),
			zap.Duration("next_retry", next),
			zap.Error(err))
	})
	if err != nil {
		return nil, err
	}

	return resp, nil
}

// CrawlBatch разворачивает выбор в листовые регионы и обходит их пулом воркеров
// с общим ограничителем темпа. Ошибка листа попадает в Errors и не прерывает соседей.
func (uc *CrawlUseCase) CrawlBatch(ctx context.Context, req dto.CrawlRequest) (*dto.CrawlSummary, error) {
	if req.APIKey == "" {
		return nil, apperrors.ErrMissingAPIKey
	}

	regions, err := uc.regions.Resolve(ctx, domain.ResolveOptions{
		APIKey:         req.APIKey,
		ExcludeHKMacau: uc.cfg.ExcludeHKMacau,
		ExcludeTaiwan:  uc.cfg.ExcludeTaiwan,
	})
	if err != nil {
		return nil, err
	}

	leaves, err := ExpandSelection(regions, req.Selection())
	if err != nil {
		return nil, err
	}

	queries := config.ParseList(req.Queries)
	if len(queries) == 0 {
		queries = append([]string(nil), uc.cfg.DefaultQueries...)
	}
	qps := uc.cfg.DefaultQPS
	if req.QPS != nil {
		qps = *req.QPS
	}
	cityLimit := uc.cfg.CityLimit
	if req.CityLimit != nil {
		cityLimit = *req.CityLimit
	}

	batchID := uuid.NewString()
	limiter := ratelimit.New(qps)
	start := time.Now()

	uc.logger.Info("Crawl batch started",
		zap.String("batch_id", batchID),
		zap.Int("regions", len(leaves)),
		zap.Int("queries", len(queries)),
		zap.Float64("qps", limiter.QPS()),
		zap.Int("workers", uc.cfg.Workers))

	type leafResult struct {
		stats *domain.RegionCrawlStats
		err   error
	}
	results := make([]leafResult, len(leaves))

	var g errgroup.Group
	g.SetLimit(uc.cfg.Workers)
	for i, leaf := range leaves {
		g.Go(func() error {
			stats, err := uc.crawlRegion(ctx, limiter, domain.CrawlRegionParams{
				APIKey:    req.APIKey,
				Region:    leaf,
				Queries:   queries,
				QPS:       qps,
				CityLimit: cityLimit,
			})
			results[i] = leafResult{stats: stats, err: err}
			return nil
		})
	}
	_ = g.Wait()

	summary := &dto.CrawlSummary{
		OK:        true,
		BatchID:   batchID,
		Regions:   leaves,
		Queries:   queries,
		PerRegion: make([]domain.RegionCrawlStats, 0, len(leaves)),
		Errors:    make([]domain.RegionError, 0),
	}
	for i, r := range results {
		if r.stats != nil {
			summary.PerRegion = append(summary.PerRegion, *r.stats)
			summary.InsertedOrUpdated += r.stats.InsertedOrUpdated
		}
		if r.err != nil {
			summary.Errors = append(summary.Errors, domain.RegionError{Region: leaves[i], Error: r.err.Error()})
		}
	}
	summary.DurationMS = time.Since(start).Milliseconds()

	if summary.InsertedOrUpdated > 0 {
		uc.invalidateExports(ctx)
	}

	uc.logger.Info("Crawl batch finished",
		zap.String("batch_id", batchID),
		zap.Int("inserted_or_updated", summary.InsertedOrUpdated),
		zap.Int("errors", len(summary.Errors)),
		zap.Int64("duration_ms", summary.DurationMS))

	return summary, nil
}

func (uc *CrawlUseCase) invalidateExports(ctx context.Context) {
	if uc.cacheRepo == nil {
		return
	}
	if err := uc.cacheRepo.Delete(ctx, domain.CacheKeyCategories); err != nil {
		uc.logger.Warn("Failed to invalidate export cache", zap.Error(err))
	}
}
