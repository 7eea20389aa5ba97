package chain

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Default toncenter limits. Without an API key toncenter allows about one
// request per second; keyed access allows ten.
const (
	DefaultRatePerSecond      = 1
	DefaultKeyedRatePerSecond = 10
	DefaultBurst              = 1
)

// RateLimiter keeps one token bucket per endpoint. Buckets are created on
// first use and live as long as the limiter.
type RateLimiter struct {
	buckets sync.Map // endpoint -> *rate.Limiter
	limit   rate.Limit
	burst   int
}

// NewRateLimiter creates a rate limiter allowing ratePerSecond requests
// per endpoint with the given burst. A non-positive rate disables limiting.
func NewRateLimiter(ratePerSecond float64, burst int) *RateLimiter {
	limit := rate.Inf
	if ratePerSecond > 0 {
		limit = rate.Limit(ratePerSecond)
	}
	return &RateLimiter{limit: limit, burst: max(burst, 1)}
}

// Allow reports whether a request to endpoint may proceed now.
func (r *RateLimiter) Allow(endpoint string) bool {
	return r.bucket(endpoint).Allow()
}

// Wait blocks until a request to endpoint is allowed or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context, endpoint string) error {
	return r.bucket(endpoint).Wait(ctx)
}

func (r *RateLimiter) bucket(endpoint string) *rate.Limiter {
	if l, ok := r.buckets.Load(endpoint); ok {
		return l.(*rate.Limiter)
	}
	l, _ := r.buckets.LoadOrStore(endpoint, rate.NewLimiter(r.limit, r.burst))
	return l.(*rate.Limiter)
}
