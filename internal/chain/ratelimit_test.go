package chain_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/tonsigil/internal/chain"
)

func TestRateLimiter_Allow(t *testing.T) {
	t.Parallel()
	rl := chain.NewRateLimiter(10, 10)

	for i := 0; i < 10; i++ {
		assert.True(t, rl.Allow("toncenter"), "request %d in burst", i)
	}
	assert.False(t, rl.Allow("toncenter"), "burst exhausted")
}

func TestRateLimiter_Wait(t *testing.T) {
	t.Parallel()
	rl := chain.NewRateLimiter(100, 1)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, rl.Wait(ctx, "toncenter"))

	start := time.Now()
	require.NoError(t, rl.Wait(ctx, "toncenter"))
	assert.GreaterOrEqual(t, time.Since(start), 5*time.Millisecond)
}

func TestRateLimiter_SeparateEndpoints(t *testing.T) {
	t.Parallel()
	rl := chain.NewRateLimiter(10, 2)

	assert.True(t, rl.Allow("mainnet"))
	assert.True(t, rl.Allow("mainnet"))
	assert.False(t, rl.Allow("mainnet"))

	assert.True(t, rl.Allow("testnet"))
	assert.True(t, rl.Allow("testnet"))
}

func TestRateLimiter_Unlimited(t *testing.T) {
	t.Parallel()
	rl := chain.NewRateLimiter(0, 0)
	for i := 0; i < 1000; i++ {
		require.True(t, rl.Allow("toncenter"))
	}
}

func TestRateLimiter_ContextCancellation(t *testing.T) {
	t.Parallel()
	rl := chain.NewRateLimiter(1, 1)
	require.NoError(t, rl.Wait(context.Background(), "toncenter"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, rl.Wait(ctx, "toncenter"))
}

func TestRateLimiter_Concurrent(t *testing.T) {
	t.Parallel()
	rl := chain.NewRateLimiter(100, 100)

	var wg sync.WaitGroup
	successes := make(chan bool, 200)
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			successes <- rl.Allow("toncenter")
		}()
	}
	wg.Wait()
	close(successes)

	count := 0
	for s := range successes {
		if s {
			count++
		}
	}
	assert.GreaterOrEqual(t, count, 90)
	assert.LessOrEqual(t, count, 110)
}
