// Package ratelimiter throttles outbound provider calls.
package ratelimiter

import (
	"context"
	"log/slog"
	"time"
)

// Limiter blocks until the next call is allowed.
type Limiter interface {
	Wait(ctx context.Context) error
}

// RateLimiter allows at most limit calls per interval. A limit of 0 or less disables it.
type RateLimiter struct {
	limit     int
	interval  time.Duration
	count     int
	lastReset time.Time

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRateLimiter creates a RateLimiter allowing limit calls per interval.
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:     limit,
		interval:  interval,
		lastReset: time.Now(),
		now:       time.Now,
		sleep:     sleepContext,
	}
}

// PerMinute is shorthand for NewRateLimiter(limit, time.Minute).
func PerMinute(limit int) *RateLimiter {
	return NewRateLimiter(limit, time.Minute)
}

// Wait counts a call and, once the window's budget is spent, sleeps until the
// window resets. It returns early with the context error if ctx is cancelled.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	if rl.limit <= 0 {
		return nil
	}

	now := rl.now()
	if now.Sub(rl.lastReset) >= rl.interval {
		rl.count = 0
		rl.lastReset = now
	}

	rl.count++
	if rl.count <= rl.limit {
		return nil
	}

	if d := rl.interval - now.Sub(rl.lastReset); d > 0 {
		slog.Info("provider rate limit reached", "limit", rl.limit, "sleep", d)
		if err := rl.sleep(ctx, d); err != nil {
			return err
		}
	}
	rl.count = 1
	rl.lastReset = rl.now()
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
