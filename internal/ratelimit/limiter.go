// Package ratelimit paces benchmark trials.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimiter spaces trial starts evenly at a fixed number of trials per
// second. A zero rate disables pacing.
type RateLimiter struct {
	limiter *rate.Limiter
}

func NewRateLimiter(perSecond float64) *RateLimiter {
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(perSecond), 1),
	}
}

// Wait blocks until the next trial may start or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if r.limiter.Limit() <= 0 {
		return nil
	}
	return r.limiter.Wait(ctx)
}

// Rate returns the trials-per-second limit.
func (r *RateLimiter) Rate() float64 {
	return float64(r.limiter.Limit())
}
