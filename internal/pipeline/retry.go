package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"service-order-pipeline/internal/model"
)

// Retrier runs an operation with bounded exponential backoff.
type Retrier struct {
	config  model.RetryConfig
	logger  *slog.Logger
	onRetry func(op string)
}

func NewRetrier(cfg model.RetryConfig, logger *slog.Logger, onRetry func(op string)) *Retrier {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if cfg.BackoffMultiplier < 1 {
		cfg.BackoffMultiplier = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Retrier{config: cfg, logger: logger, onRetry: onRetry}
}

// Do calls fn until it succeeds, attempts run out, or ctx is done. The last
// error is returned wrapped with the operation name.
func (r *Retrier) Do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if attempt == r.config.MaxAttempts {
			break
		}

		delay := backoffDelay(r.config, attempt)
		r.logger.Warn("retrying store operation",
			"op", op, "attempt", attempt, "max_attempts", r.config.MaxAttempts, "delay", delay, "error", err)
		if r.onRetry != nil {
			r.onRetry(op)
		}

		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return fmt.Errorf("%s: %w (last error: %v)", op, ctx.Err(), err)
		case <-t.C:
		}
	}
	return fmt.Errorf("%s failed after %d attempts: %w", op, r.config.MaxAttempts, err)
}

// backoffDelay is the pause after the given failed attempt (1-based).
func backoffDelay(cfg model.RetryConfig, attempt int) time.Duration {
	delay := time.Duration(float64(cfg.InitialDelay) * math.Pow(cfg.BackoffMultiplier, float64(attempt-1)))
	if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
		delay = cfg.MaxDelay
	}
	return delay
}
