package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"service-order-pipeline/internal/api"
	"service-order-pipeline/internal/api/handler"
	"service-order-pipeline/internal/app"
	"service-order-pipeline/internal/config"
	"service-order-pipeline/pkg/router"
	"service-order-pipeline/pkg/utils"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, *configPath, os.Stderr)
	stop()
	if err != nil {
		slog.Error("startup failed", "error", err)
		os.Exit(1)
	}
}

// run serves the API until ctx is cancelled. Errors before the server is up
// are returned; a server that stops on its own is logged.
func run(ctx context.Context, configPath string, logOut io.Writer) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg.Log.Format = "json"
	logger := cfg.Log.NewLogger(logOut)

	a, err := app.Build(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("build app: %w", err)
	}
	defer a.Close()

	if _, err := a.Seed(ctx); err != nil {
		logger.Warn("could not seed defect categories", "error", err)
	}

	var outputs *utils.OutputManager
	if cfg.Server.ReportDir != "" {
		outputs = utils.NewOutputManager(cfg.Server.ReportDir)
	}

	r := router.New(logger)
	uploads := handler.NewUploadHandler(a.Ingestor, a.Store, cfg.Server.MaxUploadBytes, outputs, logger)
	api.RegisterRoutes(r, uploads, a.Metrics.Handler())

	if err := r.Start(ctx, cfg.Server.Addr); err != nil {
		logger.Error("server stopped", "error", err)
	}
	return nil
}
