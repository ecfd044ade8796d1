package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/poi-crawler/internal/bootstrap"
	"github.com/poi-crawler/internal/config"
	"github.com/poi-crawler/internal/pkg/logger"
	"github.com/spf13/cobra"
)

var (
	envFile string
	verbose bool
)

var (
	okColor   = color.New(color.FgGreen, color.Bold)
	warnColor = color.New(color.FgYellow)
	errColor  = color.New(color.FgRed, color.Bold)
)

var rootCmd = &cobra.Command{
	Use:          "poictl",
	Short:        "Сбор POI из Baidu Place API",
	Long:         `poictl разрешает иерархию регионов, обходит их по списку запросов и выгружает накопленные точки.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&envFile, "env", "e", ".env", "путь к .env файлу")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "подробный лог в stderr")
}

// Execute запускает корневую команду. Ctrl-C отменяет текущий обход.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		errColor.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}

// withApp загружает конфигурацию, собирает зависимости и закрывает их после fn
func withApp(ctx context.Context, fn func(app *bootstrap.App) error) error {
	cfg, err := config.LoadFrom(envFile)
	if err != nil {
		return err
	}

	log, err := logger.NewCLI(verbose)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	app, err := bootstrap.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer app.Close()

	return fn(app)
}
