package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/poi-crawler/internal/config"
	"github.com/poi-crawler/internal/domain/repository"
	"github.com/poi-crawler/internal/infrastructure/baidu"
	"github.com/poi-crawler/internal/repository/cache"
	"github.com/poi-crawler/internal/repository/file"
	"github.com/poi-crawler/internal/repository/postgres"
	"github.com/poi-crawler/internal/repository/sqlite"
	"github.com/poi-crawler/internal/usecase"
	"go.uber.org/zap"
)

// App - собранные зависимости, общие для HTTP API и poictl
type App struct {
	Config *config.Config
	Logger *zap.Logger

	POIRepo   repository.POIRepository
	CacheRepo repository.CacheRepository

	RegionUC *usecase.RegionUseCase
	CrawlUC  *usecase.CrawlUseCase
	ExportUC *usecase.ExportUseCase

	closers []func() error
}

type store interface {
	Migrate(ctx context.Context) error
	Health(ctx context.Context) error
	Close() error
}

// New подключает хранилище и кеш по конфигурации, применяет схему и собирает use cases
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	app := &App{Config: cfg, Logger: log}

	poiRepo, err := app.openStore(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.POIRepo = poiRepo

	cacheRepo, err := app.openCache()
	if err != nil {
		app.Close()
		return nil, err
	}
	app.CacheRepo = cacheRepo

	baiduClient := baidu.NewBaiduClient(&cfg.Baidu, log)
	regionCache := file.NewRegionCacheRepository(cfg.Region.CacheFile, log)

	app.RegionUC = usecase.NewRegionUseCase(baiduClient, regionCache, usecase.DefaultRegionResolverConfig(), log)
	app.CrawlUC = usecase.NewCrawlUseCase(baiduClient, poiRepo, cacheRepo, app.RegionUC, usecase.CrawlConfigFrom(cfg), log)
	app.ExportUC = usecase.NewExportUseCase(poiRepo, cacheRepo, cfg.Cache.ExportCacheTTL, log)

	log.Info("Application initialized",
		zap.String("db_driver", cfg.Database.Driver),
		zap.Bool("redis", cfg.Redis.Enabled),
		zap.Int("crawler_workers", cfg.Crawler.Workers))

	return app, nil
}

func (a *App) openStore(ctx context.Context) (repository.POIRepository, error) {
	var (
		db      store
		poiRepo repository.POIRepository
	)

	switch a.Config.Database.Driver {
	case "sqlite":
		sdb, err := sqlite.New(&a.Config.Database, a.Logger)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		db, poiRepo = sdb, sqlite.NewPOIRepository(sdb)
	case "postgres", "postgresql":
		pdb, err := postgres.New(&a.Config.Database, a.Logger)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		db, poiRepo = pdb, postgres.NewPOIRepository(pdb)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", a.Config.Database.Driver)
	}
	a.closers = append(a.closers, db.Close)

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := db.Health(ctx); err != nil {
		return nil, fmt.Errorf("database health check: %w", err)
	}
	if err := db.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return poiRepo, nil
}

func (a *App) openCache() (repository.CacheRepository, error) {
	if !a.Config.Redis.Enabled {
		a.Logger.Info("Redis disabled, using in-process cache")
		return cache.NewMemoryRepository(a.Config.Cache.ExportCacheTTL, a.Logger), nil
	}

	redisClient, err := cache.NewRedis(&a.Config.Redis, a.Logger)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	a.closers = append(a.closers, redisClient.Close)

	return cache.NewCacheRepository(redisClient), nil
}

// Close закрывает соединения в обратном порядке открытия
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
