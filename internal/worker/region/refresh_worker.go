package region

import (
	"context"
	"time"

	"github.com/poi-crawler/internal/domain"
	"github.com/poi-crawler/internal/worker"
	"go.uber.org/zap"
)

// Resolver - разрешение иерархии регионов (usecase.RegionUseCase)
type Resolver interface {
	Resolve(ctx context.Context, opts domain.ResolveOptions) (*domain.RegionMap, error)
}

// RefreshWorker периодически перечитывает иерархию регионов из API и обновляет файл кеша.
// Ошибка обновления не трогает существующий кеш.
type RefreshWorker struct {
	*worker.BaseWorker
	resolver Resolver
	opts     domain.ResolveOptions
	interval time.Duration
}

func NewRefreshWorker(resolver Resolver, opts domain.ResolveOptions, interval time.Duration, logger *zap.Logger) *RefreshWorker {
	opts.ForceRefresh = true
	return &RefreshWorker{
		BaseWorker: worker.NewBaseWorker("region-refresh", logger),
		resolver:   resolver,
		opts:       opts,
		interval:   interval,
	}
}

func (w *RefreshWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Region refresh worker started", zap.Duration("interval", w.interval))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.StopChan():
			return nil
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.refresh(ctx)
		}
	}
}

func (w *RefreshWorker) refresh(ctx context.Context) {
	start := time.Now()
	regions, err := w.resolver.Resolve(ctx, w.opts)
	if err != nil {
		w.Logger().Warn("Region refresh failed, keeping cached hierarchy", zap.Error(err))
		return
	}
	w.Logger().Info("Region hierarchy refreshed",
		zap.Int("provinces", len(regions.Provinces)),
		zap.Duration("took", time.Since(start)))
}
