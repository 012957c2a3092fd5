// Package ratelimit implements fixed-window rate limiting over a shared atomic
// counter store. The disclosure gate uses it per (subject, endpoint) pair.
//
// The store contract is a single atomic read-modify-write: implementations
// must never expose a read-then-write pair, or concurrent callers could both
// observe count = max-1 and both be allowed. When the store is unreachable the
// limiter fails closed: unlimited disclosure attempts are worse than a denied
// request.
package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// CounterStore is the shared atomic counter backing the limiter.
type CounterStore interface {
	// Incr atomically increments the window counter for key unless it already
	// reached max, and reports whether the caller is within budget. Counters
	// never grow beyond max so a flooding caller cannot inflate storage.
	// The window starts at the first increment and resets when it elapses.
	Incr(ctx context.Context, key string, max int64, window time.Duration) (allowed bool, err error)
}

// Limiter enforces a fixed-window request budget per (subject, endpoint).
type Limiter struct {
	store  CounterStore
	logger *slog.Logger
}

// NewLimiter creates a Limiter on top of the given counter store.
func NewLimiter(store CounterStore, logger *slog.Logger) *Limiter {
	return &Limiter{store: store, logger: logger}
}

// Allow reports whether subject may call endpoint within the current window.
// A store failure denies the request (fail closed) and is logged outside the
// audit chain; rate-limit denials never reach the chain.
func (l *Limiter) Allow(ctx context.Context, subject, endpoint string, max int64, window time.Duration) bool {
	key := fmt.Sprintf("ratelimit:%s:%s", subject, endpoint)

	allowed, err := l.store.Incr(ctx, key, max, window)
	if err != nil {
		l.logger.Error("rate limit counter store unavailable, failing closed",
			slog.String("subject", subject),
			slog.String("endpoint", endpoint),
			slog.Any("error", err),
		)
		return false
	}

	if !allowed {
		l.logger.Debug("rate limit exceeded",
			slog.String("subject", subject),
			slog.String("endpoint", endpoint),
			slog.Int64("max", max),
			slog.Duration("window", window),
		)
	}

	return allowed
}
