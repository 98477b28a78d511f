package pawmart

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimiter throttles outgoing requests
type RateLimiter interface {
	Wait(ctx context.Context) error
}

// NewRateLimiter creates a token-bucket rate limiter allowing rps requests
// per second with the given burst.
func NewRateLimiter(rps float64, burst int) RateLimiter {
	return rate.NewLimiter(rate.Limit(rps), burst)
}
