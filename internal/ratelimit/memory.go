package ratelimit

import (
	"context"
	"sync"
	"time"
)

type window struct {
	count int
	start time.Time
}

// MemoryLimiter keeps counters in process memory. It backs development
// setups without Redis and the test suite; it does not survive restarts and
// does not share state between instances.
type MemoryLimiter struct {
	mu      sync.Mutex
	now     func() time.Time
	buckets map[string]*window
}

func NewMemoryLimiter(now func() time.Time) *MemoryLimiter {
	if now == nil {
		now = time.Now
	}
	return &MemoryLimiter{
		now:     now,
		buckets: make(map[string]*window),
	}
}

func (l *MemoryLimiter) Check(ctx context.Context, identity string, rule Rule) (Decision, error) {
	key := bucketKey(identity, rule)
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.buckets[key]
	if !ok || now.Sub(w.start) >= rule.Window {
		l.buckets[key] = &window{count: 1, start: now}
		return Allowed, nil
	}
	if w.count >= rule.Requests {
		return Throttled, nil
	}
	w.count++
	return Allowed, nil
}
