package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"
)

// memoryWindowStore mirrors the Redis script against a plain slice so the
// admission semantics can be exercised without a server.
type memoryWindowStore struct {
	entries map[string][]time.Time
}

func newMemoryWindowStore() *memoryWindowStore {
	return &memoryWindowStore{entries: make(map[string][]time.Time)}
}

func (s *memoryWindowStore) TrimCountAdd(_ context.Context, key string, now time.Time, window time.Duration, quota int) (bool, error) {
	cutoff := now.Add(-window)
	kept := s.entries[key][:0]
	for _, ts := range s.entries[key] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	s.entries[key] = kept

	if len(kept) >= quota {
		return false, nil
	}
	s.entries[key] = append(kept, now)
	return true, nil
}

type failingWindowStore struct{}

func (failingWindowStore) TrimCountAdd(context.Context, string, time.Time, time.Duration, int) (bool, error) {
	return false, errors.New("connection refused")
}

func TestLimiterSlidingWindow(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	current := base
	limiter := NewLimiter(newMemoryWindowStore(), 10*time.Second, 3).
		WithClock(func() time.Time { return current })

	steps := []struct {
		offset  time.Duration
		allowed bool
	}{
		{0 * time.Second, true},
		{1 * time.Second, true},
		{2 * time.Second, true},
		{3 * time.Second, false},
		{11 * time.Second, true},
	}

	for _, step := range steps {
		current = base.Add(step.offset)
		err := limiter.Allow(context.Background(), "203.0.113.7")
		if step.allowed && err != nil {
			t.Fatalf("t=%v: expected admit, got %v", step.offset, err)
		}
		if !step.allowed && !errors.Is(err, ErrRateLimited) {
			t.Fatalf("t=%v: expected ErrRateLimited, got %v", step.offset, err)
		}
	}
}

func TestLimiterRejectionDoesNotConsumeSlot(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	current := base
	limiter := NewLimiter(newMemoryWindowStore(), 10*time.Second, 2).
		WithClock(func() time.Time { return current })

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if err := limiter.Allow(ctx, "client"); err != nil {
			t.Fatalf("warmup %d: %v", i, err)
		}
	}

	// Hammer while full: none of these may extend the window.
	for i := 0; i < 5; i++ {
		current = base.Add(time.Duration(i+1) * time.Second)
		if err := limiter.Allow(ctx, "client"); !errors.Is(err, ErrRateLimited) {
			t.Fatalf("rejection %d: expected ErrRateLimited, got %v", i, err)
		}
	}

	// The original two entries age out regardless of the rejected attempts.
	current = base.Add(10*time.Second + time.Millisecond)
	if err := limiter.Allow(ctx, "client"); err != nil {
		t.Fatalf("after window: expected admit, got %v", err)
	}
}

func TestLimiterIsolatesIdentities(t *testing.T) {
	limiter := NewLimiter(newMemoryWindowStore(), 10*time.Second, 1)

	ctx := context.Background()
	if err := limiter.Allow(ctx, "alpha"); err != nil {
		t.Fatalf("alpha: %v", err)
	}
	if err := limiter.Allow(ctx, "beta"); err != nil {
		t.Fatalf("beta should have its own quota, got %v", err)
	}
	if err := limiter.Allow(ctx, "alpha"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("alpha second request: expected ErrRateLimited, got %v", err)
	}
}

func TestLimiterFailsOpenOnStoreError(t *testing.T) {
	limiter := NewLimiter(failingWindowStore{}, 10*time.Second, 1)

	for i := 0; i < 3; i++ {
		if err := limiter.Allow(context.Background(), "client"); err != nil {
			t.Fatalf("request %d: expected fail-open admit, got %v", i, err)
		}
	}
}
