package chain

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	sigilerr "github.com/mrz1836/tonsigil/pkg/errors"
)

// Transient failure classes. Errors matching one of these are retried.
var (
	ErrRetryable = &sigilerr.SigilError{
		Code:     "RETRYABLE_ERROR",
		Message:  "retryable error",
		ExitCode: sigilerr.ExitGeneral,
	}

	ErrTimeout = &sigilerr.SigilError{
		Code:     "TIMEOUT",
		Message:  "operation timed out",
		ExitCode: sigilerr.ExitGeneral,
	}

	ErrRateLimited = &sigilerr.SigilError{
		Code:     "RATE_LIMITED",
		Message:  "rate limited",
		ExitCode: sigilerr.ExitGeneral,
	}
)

// RetryConfig configures retry behavior.
type RetryConfig struct {
	MaxAttempts int           // attempts including the first
	BaseDelay   time.Duration // delay before the first retry
	MaxDelay    time.Duration // upper bound for any single delay

	// OnRetry, when set, is called before each backoff sleep.
	OnRetry func(attempt int, err error)
}

// DefaultRetryConfig returns 4 attempts with delays of about 1s, 2s and 4s.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 4,
		BaseDelay:   time.Second,
		MaxDelay:    4 * time.Second,
	}
}

// Retry runs operation with DefaultRetryConfig.
func Retry[T any](ctx context.Context, operation func() (T, error)) (T, error) {
	return RetryWithConfig(ctx, DefaultRetryConfig(), operation)
}

// RetryWithConfig runs operation until it succeeds, fails with an error
// IsRetryable rejects, or runs out of attempts. A server hint attached
// with WithRetryAfter stretches the next delay, still bounded by MaxDelay.
func RetryWithConfig[T any](ctx context.Context, cfg RetryConfig, operation func() (T, error)) (T, error) {
	var (
		zero    T
		lastErr error
	)

	attempts := max(cfg.MaxAttempts, 1)
	for attempt := range attempts {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := operation()
		switch {
		case err == nil:
			return result, nil
		case !IsRetryable(err):
			return result, err
		}
		lastErr = err

		if attempt == attempts-1 {
			break
		}
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt+1, err)
		}
		if err := sleep(ctx, nextDelay(attempt, cfg, err)); err != nil {
			return zero, err
		}
	}

	return zero, fmt.Errorf("operation failed after %d attempts: %w", attempts, lastErr)
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// nextDelay picks the jittered backoff or the server hint, whichever is
// longer, capped at MaxDelay.
func nextDelay(attempt int, cfg RetryConfig, err error) time.Duration {
	d := calculateDelay(attempt, cfg.BaseDelay, cfg.MaxDelay)
	var hint *retryAfterError
	if errors.As(err, &hint) && hint.after > d {
		d = hint.after
	}
	if cfg.MaxDelay > 0 && d > cfg.MaxDelay {
		d = cfg.MaxDelay
	}
	return d
}

// calculateDelay returns 2^attempt * baseDelay capped at maxDelay, with
// jitter in [delay/2, delay).
func calculateDelay(attempt int, baseDelay, maxDelay time.Duration) time.Duration {
	delay := baseDelay << min(attempt, 30)
	if delay > maxDelay || delay <= 0 {
		delay = maxDelay
	}
	half := delay / 2
	if half <= 0 {
		return delay
	}
	return half + rand.N(half) //nolint:gosec // G404: jitter does not need crypto randomness
}

// IsRetryable reports whether err belongs to a transient failure class.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	for _, target := range []error{ErrRetryable, ErrTimeout, ErrRateLimited, context.DeadlineExceeded} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// WrapRetryable marks err as transient.
func WrapRetryable(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrRetryable, err)
}

// retryAfterError carries a server-requested wait.
type retryAfterError struct {
	err   error
	after time.Duration
}

func (e *retryAfterError) Error() string { return e.err.Error() }
func (e *retryAfterError) Unwrap() error { return e.err }

// WithRetryAfter attaches a server-requested wait to err. Non-positive
// waits return err unchanged.
func WithRetryAfter(err error, after time.Duration) error {
	if err == nil || after <= 0 {
		return err
	}
	return &retryAfterError{err: err, after: after}
}

// ParseRetryAfter parses a Retry-After header given in seconds.
// Empty or malformed values give 0.
func ParseRetryAfter(header string) time.Duration {
	seconds, err := strconv.Atoi(header)
	if err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
