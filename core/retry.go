package core

import (
	"context"
	"errors"
	"time"
)

// RetryPolicy determines retry behavior for failed non-streaming requests.
// Streaming calls are never retried: a stream may already have delivered
// partial output, and a transparent retry would duplicate or corrupt the
// observed sequence.
type RetryPolicy interface {
	// NextDelay returns the delay before the next retry attempt and whether
	// to retry at all. attempt starts at 0 for the first retry after the
	// initial failure.
	NextDelay(attempt int, err error) (delay time.Duration, ok bool)
}

// RetryConfig configures retry behavior.
type RetryConfig struct {
	MaxAttempts int           // Total attempts including the first (default: 3)
	BaseDelay   time.Duration // Delay before the first retry (default: 1s)
	MaxDelay    time.Duration // Delay cap (default: 60s)
}

// DefaultRetryPolicy returns the standard policy: 3 attempts, exponential
// backoff starting at 1s, capped at 60s, no jitter.
func DefaultRetryPolicy() RetryPolicy {
	return NewRetryPolicy(RetryConfig{})
}

// NewRetryPolicy creates a retry policy with the given configuration.
// Zero or negative fields fall back to the defaults.
func NewRetryPolicy(cfg RetryConfig) RetryPolicy {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = time.Second
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = 60 * time.Second
	}
	return &exponentialBackoff{cfg: cfg}
}

// NoRetryPolicy returns a policy that never retries.
func NoRetryPolicy() RetryPolicy {
	return noRetry{}
}

type noRetry struct{}

func (noRetry) NextDelay(int, error) (time.Duration, bool) { return 0, false }

type exponentialBackoff struct {
	cfg RetryConfig
}

func (e *exponentialBackoff) NextDelay(attempt int, err error) (time.Duration, bool) {
	// attempt N means N+1 attempts have already run.
	if attempt >= e.cfg.MaxAttempts-1 {
		return 0, false
	}
	if !isRetryable(err) {
		return 0, false
	}

	delay := e.cfg.BaseDelay << uint(attempt)
	if delay > e.cfg.MaxDelay || delay <= 0 {
		delay = e.cfg.MaxDelay
	}
	if delay < e.cfg.BaseDelay {
		delay = e.cfg.BaseDelay
	}
	return delay, true
}

// isRetryable reports whether an error should trigger a retry. Only the
// RateLimit and Timeout kinds recover; every other kind propagates on first
// occurrence.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	// Caller-driven cancellation is never retried.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	return errors.Is(err, ErrRateLimited) || errors.Is(err, ErrTimeout)
}
