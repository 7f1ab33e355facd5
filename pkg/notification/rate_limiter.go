package notification

import (
	"sync"
	"time"

	"github.com/Veraticus/sniffnotify/pkg/interfaces"
)

// TokenBucketRateLimiter allows up to capacity events per window, refilling
// one token every window/capacity.
type TokenBucketRateLimiter struct {
	capacity   int
	tokens     int
	refillRate time.Duration
	lastRefill time.Time
	now        func() time.Time
	mu         sync.Mutex
}

var _ interfaces.RateLimiter = (*TokenBucketRateLimiter)(nil)

// NewTokenBucketRateLimiter creates a limiter for capacity events per window.
// A non-positive window means tokens never refill.
func NewTokenBucketRateLimiter(capacity int, window time.Duration) *TokenBucketRateLimiter {
	tb := &TokenBucketRateLimiter{
		capacity: max(capacity, 0),
		now:      time.Now,
	}
	tb.tokens = tb.capacity
	if capacity > 0 && window > 0 {
		tb.refillRate = max(window/time.Duration(capacity), time.Nanosecond)
	}
	tb.lastRefill = tb.now()
	return tb
}

// Allow consumes a token if one is available
func (tb *TokenBucketRateLimiter) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill()

	if tb.tokens > 0 {
		tb.tokens--
		return true
	}
	return false
}

// Reset refills the bucket to capacity
func (tb *TokenBucketRateLimiter) Reset() {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.tokens = tb.capacity
	tb.lastRefill = tb.now()
}

func (tb *TokenBucketRateLimiter) refill() {
	if tb.refillRate == 0 {
		return
	}

	now := tb.now()
	add := int(now.Sub(tb.lastRefill) / tb.refillRate)
	if add <= 0 {
		return
	}

	tb.tokens = min(tb.capacity, tb.tokens+add)
	// Keep the remainder so partial periods are not lost.
	tb.lastRefill = tb.lastRefill.Add(time.Duration(add) * tb.refillRate)
}
