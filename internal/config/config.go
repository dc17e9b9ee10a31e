package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"service-order-pipeline/internal/model"
	"service-order-pipeline/internal/pipeline"
	"service-order-pipeline/internal/store"
	"service-order-pipeline/pkg/utils"
)

// Config is the full service configuration, loaded from YAML and then
// overridden from the environment.
type Config struct {
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Server     ServerConfig     `yaml:"server"`
	Pipeline   PipelineConfig   `yaml:"pipeline"`
	Reconcile  ReconcileConfig  `yaml:"reconcile"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Log        LogConfig        `yaml:"log"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// RedisConfig enables cross-process order locks when Addr is set.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	LockTTL  string `yaml:"lock_ttl"`
}

type ServerConfig struct {
	Addr           string `yaml:"addr"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes"`
	// ReportDir, when set, receives a copy of every upload report.
	ReportDir string `yaml:"report_dir"`
}

type PipelineConfig struct {
	Sheet             string   `yaml:"sheet"`
	DateFormats       []string `yaml:"date_formats"`
	MinYear           int      `yaml:"min_year"`
	MaxYear           int      `yaml:"max_year"`
	RejectFutureDates bool     `yaml:"reject_future_dates"`
	SampleSize        int      `yaml:"sample_size"`
	RunTimeout        string   `yaml:"run_timeout"`
	RunAttempts       int      `yaml:"run_attempts"`
	RunRetryPause     string   `yaml:"run_retry_pause"`
	IgnoredMechanics  []string `yaml:"ignored_mechanics"`
}

type ReconcileConfig struct {
	LookupBatchSize int         `yaml:"lookup_batch_size"`
	InsertBatchSize int         `yaml:"insert_batch_size"`
	Retry           RetryConfig `yaml:"retry"`
}

type RetryConfig struct {
	MaxAttempts  int     `yaml:"max_attempts"`
	InitialDelay string  `yaml:"initial_delay"`
	MaxDelay     string  `yaml:"max_delay"`
	Multiplier   float64 `yaml:"multiplier"`
}

type ClassifierConfig struct {
	Enabled       bool    `yaml:"enabled"`
	MaxPerRun     int     `yaml:"max_per_run"`
	RatePerSecond float64 `yaml:"rate_per_second"`
	Burst         int     `yaml:"burst"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Database: DatabaseConfig{Driver: store.DriverSQLite, DSN: "pipeline.db"},
		Redis:    RedisConfig{LockTTL: "30s"},
		Server:   ServerConfig{Addr: ":8080", MaxUploadBytes: 50 << 20},
		Pipeline: PipelineConfig{
			Sheet:            pipeline.DefaultSheet,
			DateFormats:      append([]string(nil), pipeline.DefaultDateFormats...),
			MinYear:          pipeline.DefaultMinYear,
			MaxYear:          pipeline.DefaultMaxYear,
			SampleSize:       pipeline.DefaultSampleSize,
			RunTimeout:       "15m",
			RunAttempts:      pipeline.DefaultRunAttempts,
			RunRetryPause:    "2s",
			IgnoredMechanics: append([]string(nil), pipeline.DefaultIgnoredMechanics...),
		},
		Reconcile: ReconcileConfig{
			LookupBatchSize: pipeline.DefaultLookupBatchSize,
			InsertBatchSize: pipeline.DefaultInsertBatchSize,
			Retry:           RetryConfig{MaxAttempts: 3, InitialDelay: "1s", MaxDelay: "10s", Multiplier: 2},
		},
		Classifier: ClassifierConfig{Enabled: true, MaxPerRun: pipeline.DefaultClassifyLimit, RatePerSecond: 5, Burst: 1},
		Log:        LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads path (if non-empty) over the defaults, applies environment
// overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("load config %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %q: %w", path, err)
		}
	}
	cfg.applyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup("PIPELINE_DB_DRIVER"); ok && v != "" {
		c.Database.Driver = v
	}
	if v, ok := lookup("PIPELINE_DB_DSN"); ok && v != "" {
		c.Database.DSN = v
	}
	if v, ok := lookup("PIPELINE_REDIS_ADDR"); ok {
		c.Redis.Addr = v
	}
	if v, ok := lookup("PIPELINE_ADDR"); ok && v != "" {
		c.Server.Addr = v
	}
	if v, ok := lookup("PIPELINE_SHEET"); ok && v != "" {
		c.Pipeline.Sheet = v
	}
}

// Validate rejects settings the pipeline cannot run with.
func (c Config) Validate() error {
	var problems []string
	switch c.Database.Driver {
	case store.DriverSQLite, store.DriverPostgres:
	default:
		problems = append(problems, fmt.Sprintf("database.driver %q is not sqlite3 or postgres", c.Database.Driver))
	}
	if c.Database.DSN == "" {
		problems = append(problems, "database.dsn is empty")
	}
	if c.Pipeline.MinYear > c.Pipeline.MaxYear {
		problems = append(problems, fmt.Sprintf("pipeline.min_year %d is after max_year %d", c.Pipeline.MinYear, c.Pipeline.MaxYear))
	}
	if _, err := pipeline.NewDateNormalizer(c.Pipeline.DateFormats); err != nil {
		problems = append(problems, "pipeline.date_formats: "+err.Error())
	}
	if c.Reconcile.LookupBatchSize <= 0 {
		problems = append(problems, "reconcile.lookup_batch_size must be positive")
	}
	if c.Reconcile.InsertBatchSize <= 0 {
		problems = append(problems, "reconcile.insert_batch_size must be positive")
	}
	if c.Reconcile.Retry.MaxAttempts <= 0 {
		problems = append(problems, "reconcile.retry.max_attempts must be positive")
	}
	if c.Server.MaxUploadBytes <= 0 {
		problems = append(problems, "server.max_upload_bytes must be positive")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// IngestorConfig translates the file settings into pipeline settings.
func (c Config) IngestorConfig() pipeline.Config {
	limit := c.Classifier.MaxPerRun
	if !c.Classifier.Enabled {
		limit = 0
	}
	return pipeline.Config{
		Sheet:       c.Pipeline.Sheet,
		DateFormats: c.Pipeline.DateFormats,
		Rules: pipeline.ValidationRules{
			MinYear:           c.Pipeline.MinYear,
			MaxYear:           c.Pipeline.MaxYear,
			RejectFutureDates: c.Pipeline.RejectFutureDates,
		},
		SampleSize:    c.Pipeline.SampleSize,
		RunTimeout:    utils.ParseDuration(c.Pipeline.RunTimeout, pipeline.DefaultRunTimeout),
		RunAttempts:   c.Pipeline.RunAttempts,
		RunRetryPause: utils.ParseDuration(c.Pipeline.RunRetryPause, pipeline.DefaultRunRetryPause),
		Reconcile: pipeline.ReconcileOptions{
			LookupBatchSize: c.Reconcile.LookupBatchSize,
			InsertBatchSize: c.Reconcile.InsertBatchSize,
			Retry:           c.Reconcile.Retry.Model(),
		},
		ClassifyLimit:    limit,
		IgnoredMechanics: c.Pipeline.IgnoredMechanics,
	}
}

// Model converts to the runtime retry policy.
func (r RetryConfig) Model() model.RetryConfig {
	def := model.DefaultRetryConfig
	mult := r.Multiplier
	if mult < 1 {
		mult = def.BackoffMultiplier
	}
	return model.RetryConfig{
		MaxAttempts:       r.MaxAttempts,
		InitialDelay:      utils.ParseDuration(r.InitialDelay, def.InitialDelay),
		MaxDelay:          utils.ParseDuration(r.MaxDelay, def.MaxDelay),
		BackoffMultiplier: mult,
	}
}

// TTL is how long a Redis order lock lives without renewal.
func (r RedisConfig) TTL() time.Duration {
	return utils.ParseDuration(r.LockTTL, 30*time.Second)
}

// NewLogger builds the slog logger described by the log section.
func (l LogConfig) NewLogger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(l.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.ToLower(l.Format) == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
