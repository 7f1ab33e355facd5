package notification

import (
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(capacity int, window time.Duration) (*TokenBucketRateLimiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	tb := NewTokenBucketRateLimiter(capacity, window)
	tb.now = clock.Now
	tb.lastRefill = clock.Now()
	return tb, clock
}

func TestTokenBucketRateLimiter_Allow(t *testing.T) {
	type op struct {
		advance   time.Duration
		wantAllow bool
	}

	tests := []struct {
		name     string
		capacity int
		window   time.Duration
		ops      []op
	}{
		{
			name:     "allow up to capacity immediately",
			capacity: 3,
			window:   time.Hour,
			ops: []op{
				{wantAllow: true},
				{wantAllow: true},
				{wantAllow: true},
				{wantAllow: false},
			},
		},
		{
			name:     "refill after window share elapses",
			capacity: 2,
			window:   time.Minute, // one token per 30s
			ops: []op{
				{wantAllow: true},
				{wantAllow: true},
				{wantAllow: false},
				{advance: 29 * time.Second, wantAllow: false},
				{advance: time.Second, wantAllow: true},
				{wantAllow: false},
			},
		},
		{
			name:     "refill is capped at capacity",
			capacity: 2,
			window:   time.Second,
			ops: []op{
				{wantAllow: true},
				{wantAllow: true},
				{advance: time.Hour, wantAllow: true},
				{wantAllow: true},
				{wantAllow: false},
			},
		},
		{
			name:     "zero capacity always denies",
			capacity: 0,
			window:   time.Second,
			ops: []op{
				{wantAllow: false},
				{advance: time.Hour, wantAllow: false},
			},
		},
		{
			name:     "zero window never refills",
			capacity: 1,
			window:   0,
			ops: []op{
				{wantAllow: true},
				{advance: time.Hour, wantAllow: false},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tb, clock := newTestLimiter(tt.capacity, tt.window)
			for i, o := range tt.ops {
				clock.Advance(o.advance)
				if got := tb.Allow(); got != o.wantAllow {
					t.Errorf("op %d: Allow() = %v, want %v", i, got, o.wantAllow)
				}
			}
		})
	}
}

func TestTokenBucketRateLimiter_KeepsPartialPeriods(t *testing.T) {
	tb, clock := newTestLimiter(1, 10*time.Second)

	if !tb.Allow() {
		t.Fatal("first Allow() = false")
	}

	clock.Advance(15 * time.Second)
	if !tb.Allow() {
		t.Fatal("Allow() after one refill period = false")
	}

	// 5s of the previous 15s carry over, so 5 more seconds are enough.
	clock.Advance(5 * time.Second)
	if !tb.Allow() {
		t.Error("Allow() after carried-over remainder = false")
	}
}

func TestTokenBucketRateLimiter_Reset(t *testing.T) {
	tb, _ := newTestLimiter(2, time.Hour)

	tb.Allow()
	tb.Allow()
	if tb.Allow() {
		t.Fatal("expected bucket to be empty")
	}

	tb.Reset()

	if !tb.Allow() || !tb.Allow() {
		t.Error("expected two tokens after Reset()")
	}
}

func TestTokenBucketRateLimiter_Concurrent(t *testing.T) {
	tb := NewTokenBucketRateLimiter(10, time.Hour)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if tb.Allow() {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowed != 10 {
		t.Errorf("allowed = %d, want 10", allowed)
	}
}
