package source

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// RetryConfig controls exponential backoff for remote reads.
type RetryConfig struct {
	MaxRetries     int
	InitialDelay   time.Duration
	MaxDelay       time.Duration
	BackoffFactor  float64
	JitterFraction float64 // 0.0 to 1.0, fraction of delay to randomize

	// Retryable reports whether err is worth another attempt. Nil retries
	// everything.
	Retryable func(error) bool
}

// DefaultGCSRetryConfig is tuned for transient object-read failures.
var DefaultGCSRetryConfig = RetryConfig{
	MaxRetries:     3,
	InitialDelay:   200 * time.Millisecond,
	MaxDelay:       5 * time.Second,
	BackoffFactor:  2.0,
	JitterFraction: 0.2,
}

// WithRetry calls fn until it succeeds, returns a non-retryable error, or
// MaxRetries extra attempts have been spent. Waits honor ctx.
func WithRetry[T any](ctx context.Context, cfg RetryConfig, fn func(ctx context.Context) (T, error)) (T, error) {
	var lastErr error
	var zero T

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if cfg.Retryable != nil && !cfg.Retryable(err) {
			return zero, err
		}
		if attempt >= cfg.MaxRetries {
			break
		}

		delay := float64(cfg.InitialDelay) * math.Pow(cfg.BackoffFactor, float64(attempt))
		if delay > float64(cfg.MaxDelay) {
			delay = float64(cfg.MaxDelay)
		}
		if cfg.JitterFraction > 0 {
			jitter := delay * cfg.JitterFraction * (rand.Float64()*2 - 1)
			delay += jitter
			if delay < 0 {
				delay = float64(cfg.InitialDelay)
			}
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(time.Duration(delay)):
		}
	}

	return zero, lastErr
}
