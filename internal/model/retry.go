package model

import "time"

// RetryConfig defines bounded exponential backoff for store operations.
type RetryConfig struct {
	MaxAttempts       int           `json:"max_attempts" yaml:"max_attempts"`
	InitialDelay      time.Duration `json:"initial_delay" yaml:"-"`
	MaxDelay          time.Duration `json:"max_delay" yaml:"-"`
	BackoffMultiplier float64       `json:"backoff_multiplier" yaml:"backoff_multiplier"`
}

// DefaultRetryConfig mirrors the batch policy of the upload service: three
// attempts starting at one second.
var DefaultRetryConfig = RetryConfig{
	MaxAttempts:       3,
	InitialDelay:      1 * time.Second,
	MaxDelay:          10 * time.Second,
	BackoffMultiplier: 2.0,
}
