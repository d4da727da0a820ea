// Package ratelimit throttles repeated failed login attempts per client
// identifier using a fixed window: five failures within fifteen minutes
// locks the identifier out until the window elapses.
//
// Counters live in a dedicated keyed store (Redis when available, an
// in-process map otherwise) rather than inside the session, so discarding
// a session cookie does not reset the count.
package ratelimit

import (
	"context"
	"log"
	"time"
)

// Store persists attempt counters.  Implementations must be safe for
// concurrent use.  A Get miss is reported through ok=false, not an error.
type Store interface {
	Get(ctx context.Context, key string) (count int, first time.Time, ok bool, err error)
	Set(ctx context.Context, key string, count int, first time.Time, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Limiter applies the fixed-window policy over a Store.  Store errors are
// logged and fail open: a broken Redis must not lock every resident out of
// the portal.
type Limiter struct {
	store       Store
	maxAttempts int
	window      time.Duration
	now         func() time.Time
}

// New builds a limiter.  maxAttempts and window must be positive.
func New(store Store, maxAttempts int, window time.Duration) *Limiter {
	return &Limiter{store: store, maxAttempts: maxAttempts, window: window, now: time.Now}
}

// SetClock overrides the limiter's clock.  Tests only.
func (l *Limiter) SetClock(now func() time.Time) { l.now = now }

// Allow reports whether the identifier may attempt a login.  A window that
// has fully elapsed resets the counter to zero before answering.
func (l *Limiter) Allow(ctx context.Context, id string) bool {
	count, first, ok, err := l.store.Get(ctx, id)
	if err != nil {
		log.Printf("ratelimit: store get failed for %q: %v", id, err)
		return true
	}
	if !ok {
		return true
	}
	if l.now().Sub(first) > l.window {
		if err := l.store.Delete(ctx, id); err != nil {
			log.Printf("ratelimit: store delete failed for %q: %v", id, err)
		}
		return true
	}
	return count < l.maxAttempts
}

// RecordFailure counts one failed attempt, starting a new window when none
// is open.
func (l *Limiter) RecordFailure(ctx context.Context, id string) {
	now := l.now()
	count, first, ok, err := l.store.Get(ctx, id)
	if err != nil {
		log.Printf("ratelimit: store get failed for %q: %v", id, err)
		return
	}
	if !ok || now.Sub(first) > l.window {
		count, first = 0, now
	}
	if err := l.store.Set(ctx, id, count+1, first, l.window); err != nil {
		log.Printf("ratelimit: store set failed for %q: %v", id, err)
	}
}

// Reset clears the identifier's counter after a successful login.
func (l *Limiter) Reset(ctx context.Context, id string) {
	if err := l.store.Delete(ctx, id); err != nil {
		log.Printf("ratelimit: store delete failed for %q: %v", id, err)
	}
}
