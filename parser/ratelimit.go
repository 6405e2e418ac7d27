package parser

import (
	"context"
	"time"
)

// RateLimiter spaces out sequential operations by a fixed interval.
// A zero interval disables waiting.
//
// Example usage:
//
//	limiter := parser.NewRateLimiter(2 * time.Second)
//	defer limiter.Stop()
//
//	for _, chapter := range chapters {
//	    if err := limiter.Wait(ctx); err != nil {
//	        return err
//	    }
//	    // ... process chapter ...
//	}
type RateLimiter struct {
	ticker *time.Ticker
	first  bool
}

// NewRateLimiter creates a rate limiter with the specified interval.
// The first call to Wait returns immediately.
func NewRateLimiter(interval time.Duration) *RateLimiter {
	rl := &RateLimiter{first: true}
	if interval > 0 {
		rl.ticker = time.NewTicker(interval)
	}
	return rl
}

// Wait blocks until the next tick or until ctx is done.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	if rl.first || rl.ticker == nil {
		rl.first = false
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-rl.ticker.C:
		return nil
	}
}

// Stop releases the ticker. Typically used with defer.
func (rl *RateLimiter) Stop() {
	if rl.ticker != nil {
		rl.ticker.Stop()
	}
}
