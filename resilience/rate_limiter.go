package resilience

import (
	"math"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiterConfig configures a token bucket.
type RateLimiterConfig struct {
	// Rate is tokens added per second.
	Rate float64
	// Burst is the bucket size. Defaults to Rate rounded up.
	Burst int
}

// RateLimiter is a token bucket safe for concurrent use.
type RateLimiter struct {
	limiter *rate.Limiter
	now     func() time.Time
}

// NewRateLimiter creates a full bucket. A non-positive Rate defaults to 10/s.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.Rate <= 0 {
		config.Rate = 10
	}
	if config.Burst <= 0 {
		config.Burst = int(math.Ceil(config.Rate))
	}
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(config.Rate), config.Burst),
		now:     time.Now,
	}
}

// Allow takes one token if available.
func (rl *RateLimiter) Allow() bool {
	return rl.limiter.AllowN(rl.now(), 1)
}

// RetryAfter estimates when the next token will be available. It reserves a
// token to read the delay and hands it straight back.
func (rl *RateLimiter) RetryAfter() time.Duration {
	now := rl.now()
	r := rl.limiter.ReserveN(now, 1)
	defer r.CancelAt(now)
	return r.DelayFrom(now)
}
