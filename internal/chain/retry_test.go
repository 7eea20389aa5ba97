package chain_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/tonsigil/internal/chain"
)

var (
	errNonRetryable = errors.New("non-retryable error")
	errSomeError    = errors.New("some error")
)

func fastRetry(attempts int) chain.RetryConfig {
	return chain.RetryConfig{
		MaxAttempts: attempts,
		BaseDelay:   time.Millisecond,
		MaxDelay:    5 * time.Millisecond,
	}
}

func TestRetry_SuccessFirstAttempt(t *testing.T) {
	t.Parallel()
	attempts := 0
	result, err := chain.Retry(context.Background(), func() (string, error) {
		attempts++
		return "success", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "success", result)
	assert.Equal(t, 1, attempts)
}

func TestRetry_SuccessAfterRetry(t *testing.T) {
	t.Parallel()
	attempts := 0
	result, err := chain.RetryWithConfig(context.Background(), fastRetry(4), func() (string, error) {
		attempts++
		if attempts < 3 {
			return "", chain.ErrRetryable
		}
		return "success", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "success", result)
	assert.Equal(t, 3, attempts)
}

func TestRetry_NonRetryableError(t *testing.T) {
	t.Parallel()
	attempts := 0
	_, err := chain.RetryWithConfig(context.Background(), fastRetry(4), func() (string, error) {
		attempts++
		return "", errNonRetryable
	})

	require.ErrorIs(t, err, errNonRetryable)
	assert.Equal(t, 1, attempts)
}

func TestRetry_MaxAttempts(t *testing.T) {
	t.Parallel()
	attempts := 0
	var retried []int
	cfg := fastRetry(3)
	cfg.OnRetry = func(attempt int, _ error) { retried = append(retried, attempt) }

	_, err := chain.RetryWithConfig(context.Background(), cfg, func() (int, error) {
		attempts++
		return 0, chain.ErrRateLimited
	})

	require.ErrorIs(t, err, chain.ErrRateLimited)
	assert.Contains(t, err.Error(), "after 3 attempts")
	assert.Equal(t, 3, attempts)
	assert.Equal(t, []int{1, 2}, retried)
}

func TestRetry_ZeroAttemptsRunsOnce(t *testing.T) {
	t.Parallel()
	attempts := 0
	_, err := chain.RetryWithConfig(context.Background(), chain.RetryConfig{}, func() (int, error) {
		attempts++
		return 1, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, attempts)
}

func TestRetry_ContextCancellation(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0

	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := chain.Retry(ctx, func() (string, error) {
		attempts++
		return "", chain.ErrRetryable
	})

	require.ErrorIs(t, err, context.Canceled)
	assert.Less(t, attempts, 4)
}

func TestRetry_CanceledBeforeStart(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	_, err := chain.Retry(ctx, func() (string, error) {
		called = true
		return "", nil
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestIsRetryable(t *testing.T) {
	t.Parallel()
	assert.True(t, chain.IsRetryable(chain.ErrRetryable))
	assert.True(t, chain.IsRetryable(chain.ErrTimeout))
	assert.True(t, chain.IsRetryable(chain.ErrRateLimited))
	assert.True(t, chain.IsRetryable(context.DeadlineExceeded))
	assert.True(t, chain.IsRetryable(chain.WrapRetryable(errSomeError)))

	assert.False(t, chain.IsRetryable(errSomeError))
	assert.False(t, chain.IsRetryable(nil))
	assert.NoError(t, chain.WrapRetryable(nil))
}

func TestParseRetryAfter(t *testing.T) {
	t.Parallel()
	tests := []struct {
		header   string
		expected time.Duration
	}{
		{"5", 5 * time.Second},
		{"120", 120 * time.Second},
		{"0", 0},
		{"", 0},
		{"-3", 0},
		{"invalid", 0},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, chain.ParseRetryAfter(tt.header))
		})
	}
}

func TestWithRetryAfter(t *testing.T) {
	t.Parallel()

	assert.NoError(t, chain.WithRetryAfter(nil, time.Second))
	assert.Same(t, errSomeError, chain.WithRetryAfter(errSomeError, 0))

	err := chain.WithRetryAfter(chain.ErrRateLimited, time.Second)
	require.ErrorIs(t, err, chain.ErrRateLimited)
	assert.True(t, chain.IsRetryable(err))
	assert.Equal(t, chain.ErrRateLimited.Error(), err.Error())
}

func TestRetry_HintBoundedByMaxDelay(t *testing.T) {
	t.Parallel()
	attempts := 0
	start := time.Now()

	result, err := chain.RetryWithConfig(context.Background(), fastRetry(2), func() (int, error) {
		attempts++
		if attempts == 1 {
			return 0, chain.WithRetryAfter(chain.ErrRateLimited, time.Hour)
		}
		return 7, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7, result)
	assert.Less(t, time.Since(start), time.Second, "hint is capped at MaxDelay")
}
