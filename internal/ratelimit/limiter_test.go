package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestLimiter(t *testing.T) (*Limiter, *time.Time) {
	t.Helper()
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	l := New(NewMemoryStore(), 5, 15*time.Minute)
	l.SetClock(func() time.Time { return now })
	return l, &now
}

func TestLimiterBlocksAfterMaxFailures(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLimiter(t)

	for i := 0; i < 5; i++ {
		assert.True(t, l.Allow(ctx, "10.0.0.1"), "attempt %d should be allowed", i+1)
		l.RecordFailure(ctx, "10.0.0.1")
	}
	assert.False(t, l.Allow(ctx, "10.0.0.1"))

	// Other clients are unaffected.
	assert.True(t, l.Allow(ctx, "10.0.0.2"))
}

func TestLimiterWindowElapses(t *testing.T) {
	ctx := context.Background()
	l, now := newTestLimiter(t)

	for i := 0; i < 5; i++ {
		l.RecordFailure(ctx, "10.0.0.1")
	}
	assert.False(t, l.Allow(ctx, "10.0.0.1"))

	// Just inside the window: still locked out.
	*now = now.Add(15 * time.Minute)
	assert.False(t, l.Allow(ctx, "10.0.0.1"))

	// Past the window: the counter resets entirely.
	*now = now.Add(time.Second)
	assert.True(t, l.Allow(ctx, "10.0.0.1"))
	l.RecordFailure(ctx, "10.0.0.1")
	assert.True(t, l.Allow(ctx, "10.0.0.1"))
}

func TestLimiterResetOnSuccess(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLimiter(t)

	for i := 0; i < 4; i++ {
		l.RecordFailure(ctx, "10.0.0.1")
	}
	assert.True(t, l.Allow(ctx, "10.0.0.1"))

	l.Reset(ctx, "10.0.0.1")
	for i := 0; i < 4; i++ {
		l.RecordFailure(ctx, "10.0.0.1")
	}
	// Four failures after the reset is still under the limit.
	assert.True(t, l.Allow(ctx, "10.0.0.1"))
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	base := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	current := base
	s.now = func() time.Time { return current }

	assert.NoError(t, s.Set(ctx, "k", 3, base, time.Minute))
	count, first, ok, err := s.Get(ctx, "k")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3, count)
	assert.Equal(t, base, first)

	current = base.Add(2 * time.Minute)
	_, _, ok, err = s.Get(ctx, "k")
	assert.NoError(t, err)
	assert.False(t, ok)
}
