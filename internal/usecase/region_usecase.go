package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/poi-crawler/internal/domain"
	"github.com/poi-crawler/internal/domain/repository"
	apperrors "github.com/poi-crawler/internal/pkg/errors"
	"github.com/poi-crawler/internal/pkg/metrics"
	"github.com/poi-crawler/internal/pkg/retry"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	countryKeyword = "中国"

	strategyCache     = "cache"
	strategyFallback  = "fallback"
	strategyPrimary   = "primary"
	strategySecondary = "secondary"
)

// RegionResolverConfig - параметры запросов к API административного деления
type RegionResolverConfig struct {
	Retry         retry.Policy
	ProvincePause time.Duration
}

// DefaultRegionResolverConfig: 3 попытки с паузой 0.7s * 1.5^i, 250ms между провинциями
func DefaultRegionResolverConfig() RegionResolverConfig {
	return RegionResolverConfig{
		Retry: retry.Policy{
			MaxAttempts: 3,
			Backoff:     retry.Exponential(700*time.Millisecond, 1.5),
		},
		ProvincePause: 250 * time.Millisecond,
	}
}

// RegionUseCase разрешает иерархию административного деления: кеш, API или встроенный запасной вариант
type RegionUseCase struct {
	regionAPI repository.RegionAPI
	cacheRepo repository.RegionCacheRepository
	cfg       RegionResolverConfig
	logger    *zap.Logger

	group singleflight.Group
	mu    sync.Mutex
}

func NewRegionUseCase(
	regionAPI repository.RegionAPI,
	cacheRepo repository.RegionCacheRepository,
	cfg RegionResolverConfig,
	logger *zap.Logger,
) *RegionUseCase {
	return &RegionUseCase{
		regionAPI: regionAPI,
		cacheRepo: cacheRepo,
		cfg:       cfg,
		logger:    logger,
	}
}

// Resolve возвращает иерархию регионов. Кешу доверяем без проверки, пока не запрошено обновление.
// Одновременные обновления выполняются один раз, остальные вызовы получают тот же результат.
func (uc *RegionUseCase) Resolve(ctx context.Context, opts domain.ResolveOptions) (*domain.RegionMap, error) {
	if !opts.ForceRefresh {
		if cached := uc.loadCache(ctx); cached != nil {
			return cached, nil
		}
	}

	key := fmt.Sprintf("%t|%t|%t|%s", opts.ForceRefresh, opts.ExcludeHKMacau, opts.ExcludeTaiwan, opts.APIKey)
	v, err, shared := uc.group.Do(key, func() (interface{}, error) {
		uc.mu.Lock()
		defer uc.mu.Unlock()

		// пока ждали блокировку, кеш мог заполнить другой вызов
		if !opts.ForceRefresh {
			if cached := uc.loadCache(ctx); cached != nil {
				return cached, nil
			}
		}
		return uc.refresh(ctx, opts)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		uc.logger.Debug("Region resolution shared with concurrent caller")
	}

	return v.(*domain.RegionMap), nil
}

func (uc *RegionUseCase) loadCache(ctx context.Context) *domain.RegionMap {
	cached, err := uc.cacheRepo.Load(ctx)
	if err != nil {
		uc.logger.Warn("Failed to load region cache", zap.Error(err))
		return nil
	}
	if cached.IsEmpty() {
		return nil
	}

	metrics.RegionCacheHitsTotal.Inc()
	uc.logger.Debug("Regions served from cache", zap.Int("provinces", len(cached.Provinces)))
	return cached
}

func (uc *RegionUseCase) refresh(ctx context.Context, opts domain.ResolveOptions) (*domain.RegionMap, error) {
	if opts.APIKey == "" {
		uc.logger.Info("No API key, using built-in fallback regions")
		regions := domain.FallbackRegions()
		uc.save(ctx, regions)
		metrics.RegionResolutionsTotal.WithLabelValues(strategyFallback).Inc()
		return regions, nil
	}

	strategy := strategyPrimary
	nodes, err := uc.fetchAllOnce(ctx, opts.APIKey)
	if err != nil {
		if !isStructuralFailure(err) {
			uc.logger.Error("Region API unavailable", zap.Error(err))
			return nil, err
		}

		uc.logger.Warn("Single-request region fetch failed, falling back to per-province fetch", zap.Error(err))
		strategy = strategySecondary
		nodes, err = uc.fetchAllByProvince(ctx, opts.APIKey)
		if err != nil {
			uc.logger.Error("Per-province region fetch failed", zap.Error(err))
			return nil, err
		}
	}

	regions := NormalizeRegions(nodes, NormalizeOptions{
		ExcludeHKMacau: opts.ExcludeHKMacau,
		ExcludeTaiwan:  opts.ExcludeTaiwan,
	})
	if regions.IsEmpty() {
		uc.logger.Warn("Normalized region map is empty, using built-in fallback regions")
		regions = domain.FallbackRegions()
		strategy = strategyFallback
	}

	uc.save(ctx, regions)
	metrics.RegionResolutionsTotal.WithLabelValues(strategy).Inc()

	uc.logger.Info("Regions resolved",
		zap.String("strategy", strategy),
		zap.Int("provinces", len(regions.Provinces)))

	return regions, nil
}

func (uc *RegionUseCase) save(ctx context.Context, regions *domain.RegionMap) {
	if err := uc.cacheRepo.Save(ctx, regions); err != nil {
		// результат уже получен, кеш только ускоряет следующий запуск
		uc.logger.Warn("Failed to save region cache", zap.Error(err))
	}
}

// errRegionTransport помечает ошибки, после которых API так и не ответил
var errRegionTransport = errors.New("region api transport failure")

// isStructuralFailure - API ответил, но не тем: ошибочный статус или нераспознанная форма
func isStructuralFailure(err error) bool {
	if errors.Is(err, errRegionTransport) {
		return false
	}
	return errors.Is(err, apperrors.ErrUpstream) || errors.Is(err, apperrors.ErrEmptyResult)
}

func (uc *RegionUseCase) fetchAllOnce(ctx context.Context, apiKey string) ([]domain.RegionNode, error) {
	resp, err := uc.search(ctx, domain.RegionQuery{
		Keyword:        countryKeyword,
		SubAdmin:       3,
		ExtensionsCode: 1,
		APIKey:         apiKey,
	})
	if err != nil {
		return nil, err
	}

	provinces := ExtractProvinceList(resp.Raw)
	if len(provinces) == 0 {
		return nil, apperrors.ErrEmptyResult
	}

	return ParseRegionNodes(provinces), nil
}

func (uc *RegionUseCase) fetchAllByProvince(ctx context.Context, apiKey string) ([]domain.RegionNode, error) {
	resp, err := uc.search(ctx, domain.RegionQuery{
		Keyword:        countryKeyword,
		SubAdmin:       1,
		ExtensionsCode: 1,
		APIKey:         apiKey,
	})
	if err != nil {
		return nil, err
	}

	root := ParseRegionNodes(ExtractProvinceList(resp.Raw))
	if len(root) == 0 {
		return nil, apperrors.ErrEmptyResult.WithMessage("No province list found in upstream response (province level)")
	}

	provinces := make([]domain.RegionNode, 0, len(root))
	for _, p := range root {
		if p.Name == "" {
			continue
		}

		resp, err := uc.search(ctx, domain.RegionQuery{
			Keyword:        p.Name,
			SubAdmin:       2,
			ExtensionsCode: 1,
			APIKey:         apiKey,
		})
		if err != nil {
			return nil, fmt.Errorf("province %s: %w", p.Name, err)
		}

		nodes := ParseRegionNodes(ExtractProvinceList(resp.Raw))
		if len(nodes) > 0 && nodes[0].Name == p.Name {
			provinces = append(provinces, nodes[0])
		} else {
			provinces = append(provinces, domain.Node(p.Name, nodes...))
		}

		if err := retry.Sleep(ctx, uc.cfg.ProvincePause); err != nil {
			return nil, err
		}
	}

	return provinces, nil
}

// search выполняет запрос с повторами; статус API проверяется после повторов и сам не повторяется
func (uc *RegionUseCase) search(ctx context.Context, query domain.RegionQuery) (*domain.RegionResponse, error) {
	var resp *domain.RegionResponse
	err := retry.DoNotify(ctx, uc.cfg.Retry, func(ctx context.Context, attempt int) error {
		r, err := uc.regionAPI.SearchRegion(ctx, query)
		if err != nil {
			return err
		}
		resp = r
		return nil
	}, func(err error, attempt int, next time.Duration) {
		metrics.RetriesTotal.WithLabelValues("region_search").Inc()
		uc.logger.Warn("Region API request failed",
			zap.String("keyword", query.Keyword),
			zap.Int("attempt", attempt),
			zap.Duration("next_retry", next),
			zap.Error(err))
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		uc.logger.Warn("Region API request failed, attempts exhausted",
			zap.String("keyword", query.Keyword),
			zap.Error(err))
		return nil, apperrors.ErrUpstream.
			WithMessage("Region API request failed: %s", query.Keyword).
			WithDetails(map[string]interface{}{"keyword": query.Keyword}).
			Wrap(fmt.Errorf("%w: %w", errRegionTransport, err))
	}

	if !resp.Status.OK() {
		return nil, apperrors.ErrUpstream.
			WithMessage("Region API status=%d msg=%s", int(resp.Status), resp.Message).
			WithDetails(map[string]interface{}{"keyword": query.Keyword})
	}

	return resp, nil
}

// ExpandSelection переводит выбор пользователя в список листовых регионов для обхода.
// Все проверки выполняются до любого сетевого запроса.
func ExpandSelection(regions *domain.RegionMap, sel domain.RegionSelection) ([]string, error) {
	if sel.Province == "" {
		return nil, apperrors.ErrInvalidSelection.WithMessage("Province is not selected")
	}
	province, ok := regions.Province(sel.Province)
	if !ok {
		return nil, apperrors.ErrInvalidSelection.
			WithMessage("Unknown province").
			WithDetails(map[string]interface{}{"province": sel.Province})
	}

	cityAll := sel.City == "" || sel.City == domain.SelectAll
	districtAll := sel.District == "" || sel.District == domain.SelectAll

	if cityAll {
		var leaves []string
		for _, c := range province.Cities {
			if len(c.Districts) > 0 {
				leaves = append(leaves, c.Districts...)
			} else {
				leaves = append(leaves, c.Name)
			}
		}
		return leaves, nil
	}

	city, ok := province.City(sel.City)
	if !ok {
		return nil, apperrors.ErrInvalidSelection.
			WithMessage("Unknown city").
			WithDetails(map[string]interface{}{"province": sel.Province, "city": sel.City})
	}

	if !districtAll {
		if !city.HasDistrict(sel.District) {
			return nil, apperrors.ErrInvalidSelection.
				WithMessage("Unknown district").
				WithDetails(map[string]interface{}{"city": sel.City, "district": sel.District})
		}
		return []string{sel.District}, nil
	}

	if len(city.Districts) > 0 {
		return append([]string(nil), city.Districts...), nil
	}
	return []string{city.Name}, nil
}
