package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"service-order-pipeline/internal/model"
)

func TestBackoffDelay(t *testing.T) {
	cfg := model.DefaultRetryConfig

	assert.Equal(t, 1*time.Second, backoffDelay(cfg, 1))
	assert.Equal(t, 2*time.Second, backoffDelay(cfg, 2))
	assert.Equal(t, 4*time.Second, backoffDelay(cfg, 3))
	assert.Equal(t, 8*time.Second, backoffDelay(cfg, 4))
	assert.Equal(t, 10*time.Second, backoffDelay(cfg, 5))
}

func TestRetrier_Do(t *testing.T) {
	cfg := model.RetryConfig{MaxAttempts: 3, InitialDelay: time.Millisecond, BackoffMultiplier: 2}

	t.Run("succeeds after transient failures", func(t *testing.T) {
		var ops []string
		r := NewRetrier(cfg, nil, func(op string) { ops = append(ops, op) })
		calls := 0
		err := r.Do(context.Background(), "insert", func(context.Context) error {
			calls++
			if calls < 3 {
				return errors.New("transient")
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 3, calls)
		assert.Equal(t, []string{"insert", "insert"}, ops)
	})

	t.Run("gives up with the last error", func(t *testing.T) {
		last := errors.New("still down")
		calls := 0
		err := NewRetrier(cfg, nil, nil).Do(context.Background(), "lookup", func(context.Context) error {
			calls++
			return last
		})
		assert.ErrorIs(t, err, last)
		assert.Contains(t, err.Error(), "lookup failed after 3 attempts")
		assert.Equal(t, 3, calls)
	})

	t.Run("stops waiting when cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		slow := model.RetryConfig{MaxAttempts: 3, InitialDelay: time.Hour, BackoffMultiplier: 1}
		calls := 0
		err := NewRetrier(slow, nil, nil).Do(ctx, "insert", func(context.Context) error {
			calls++
			cancel()
			return errors.New("fail")
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})

	t.Run("zero attempts still runs once", func(t *testing.T) {
		calls := 0
		err := NewRetrier(model.RetryConfig{}, nil, nil).Do(context.Background(), "x", func(context.Context) error {
			calls++
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 1, calls)
	})
}
