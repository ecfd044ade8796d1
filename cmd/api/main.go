package main

// @title POI Crawler API
// @version 1.0.0
// @description Сервис сбора точек интереса из Baidu Place API по иерархии административных регионов Китая.
// @description
// @description Основные возможности:
// @description - Иерархия провинция -> город -> район с кешированием на диске
// @description - Обход регионов по списку запросов с ограничением темпа и повторами
// @description - Выгрузка точек в GeoJSON (WGS-84), гистограмма категорий и CSV

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:5000
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/poi-crawler/docs"
	"github.com/poi-crawler/internal/bootstrap"
	"github.com/poi-crawler/internal/config"
	httpDelivery "github.com/poi-crawler/internal/delivery/http"
	"github.com/poi-crawler/internal/delivery/http/handler"
	"github.com/poi-crawler/internal/domain"
	"github.com/poi-crawler/internal/pkg/logger"
	"github.com/poi-crawler/internal/worker"
	regionworker "github.com/poi-crawler/internal/worker/region"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting POI Crawler")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
	)

	// 3. Storage, cache, Baidu client, use cases
	app, err := bootstrap.New(context.Background(), cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize application", zap.Error(err))
	}

	// 4. Background workers
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	workers := worker.NewWorkerManager(log)
	if cfg.Region.RefreshInterval > 0 && cfg.Baidu.AccessKey != "" {
		workers.Register(regionworker.NewRefreshWorker(app.RegionUC, domain.ResolveOptions{
			APIKey:         cfg.Baidu.AccessKey,
			ExcludeHKMacau: cfg.Region.ExcludeHKMacau,
			ExcludeTaiwan:  cfg.Region.ExcludeTaiwan,
		}, cfg.Region.RefreshInterval, log))
	}
	if err := workers.Start(workerCtx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	// 5. Initialize HTTP Handlers
	regionHandler := handler.NewRegionHandler(app.RegionUC, cfg.Region.ExcludeHKMacau, cfg.Region.ExcludeTaiwan, log)
	crawlHandler := handler.NewCrawlHandler(app.CrawlUC, log)
	exportHandler := handler.NewExportHandler(app.ExportUC, log)

	// 6. Initialize HTTP Server
	server := httpDelivery.NewServer(cfg, log, regionHandler, crawlHandler, exportHandler)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 7. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	if err := workers.Stop(); err != nil {
		log.Error("Workers shutdown error", zap.Error(err))
	}
	stopWorkers()

	if err := app.Close(); err != nil {
		log.Error("Failed to close connections", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}
