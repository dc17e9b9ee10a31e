package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"service-order-pipeline/internal/classifier"
	"service-order-pipeline/internal/config"
	"service-order-pipeline/internal/lock"
	"service-order-pipeline/internal/metrics"
	"service-order-pipeline/internal/model"
	"service-order-pipeline/internal/pipeline"
	"service-order-pipeline/internal/store"
)

// App holds the long-lived components shared by the binaries.
type App struct {
	Config   config.Config
	Store    *store.DB
	Ingestor *pipeline.Ingestor
	Metrics  *metrics.Registry
	Logger   *slog.Logger

	redis *redis.Client
}

// Build opens the store, migrates it and wires an Ingestor around it.
func Build(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	db, err := store.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	a := &App{Config: cfg, Store: db, Metrics: metrics.NewRegistry(), Logger: logger}

	var locker pipeline.KeyLocker = lock.NewMemory()
	if cfg.Redis.Addr != "" {
		rdb, err := lock.Dial(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			db.Close()
			return nil, err
		}
		a.redis = rdb
		locker = lock.NewRedis(rdb, cfg.Redis.TTL(), logger)
		logger.Info("using redis order locks", "addr", cfg.Redis.Addr)
	}

	deps := pipeline.Deps{
		Orders:    db,
		Sessions:  db,
		Mechanics: db,
		Locker:    locker,
		Metrics:   a.Metrics,
		Logger:    logger,
	}
	if cfg.Classifier.Enabled {
		catalog := classifier.NewCatalog(db)
		deps.Classifier = classifier.NewService(catalog, db, cfg.Classifier.RatePerSecond, cfg.Classifier.Burst, logger)
	}

	a.Ingestor, err = pipeline.New(cfg.IngestorConfig(), deps)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("build ingestor: %w", err)
	}
	return a, nil
}

// Seed stores the default defect categories that are missing.
func (a *App) Seed(ctx context.Context) (int64, error) {
	return a.Store.SeedCategories(ctx, classifier.DefaultCategories)
}

// CheckIntegrity re-checks the stored orders against the configured year
// range and records the result.
func (a *App) CheckIntegrity(ctx context.Context) (*model.IntegrityReport, error) {
	return pipeline.NewIntegrityChecker(a.Store, a.Config.IngestorConfig().Rules, a.Logger).Check(ctx)
}

// Close waits for background work, then releases connections.
func (a *App) Close() error {
	if a.Ingestor != nil {
		a.Ingestor.Wait()
	}
	if a.redis != nil {
		a.redis.Close()
	}
	return a.Store.Close()
}
