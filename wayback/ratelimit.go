package wayback

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// RateLimiter is the engine's only blocking collaborator. Acquire suspends
// the caller until a request slot is available; implementations must be safe
// for concurrent use.
type RateLimiter interface {
	Acquire(ctx context.Context) error
}

// tokenBucket adapts golang.org/x/time/rate to the RateLimiter interface.
type tokenBucket struct {
	limiter *rate.Limiter
}

// NewTokenBucket returns a token-bucket rate limiter allowing rps requests
// per second with the given burst.
func NewTokenBucket(rps float64, burst int) (RateLimiter, error) {
	if rps <= 0 {
		return nil, fmt.Errorf("rate must be positive, got %v", rps)
	}
	if burst < 1 {
		burst = 1
	}
	return &tokenBucket{limiter: rate.NewLimiter(rate.Limit(rps), burst)}, nil
}

func (t *tokenBucket) Acquire(ctx context.Context) error {
	return t.limiter.Wait(ctx)
}
