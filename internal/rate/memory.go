package rate

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiter implementa el mismo fixed window que RedisLimiter pero en
// memoria de proceso. Para desarrollo y tests; no comparte ventana entre
// instancias.
type MemoryLimiter struct {
	mu     sync.Mutex
	hits   map[string]int64
	starts map[string]time.Time
	max    int64
	window time.Duration
}

func NewMemoryLimiter(max int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		hits:   make(map[string]int64),
		starts: make(map[string]time.Time),
		max:    int64(max),
		window: window,
	}
}

func (l *MemoryLimiter) Allow(ctx context.Context, key string) (Result, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now().UTC()
	winStart := now.Truncate(l.window)
	if start, ok := l.starts[key]; !ok || !start.Equal(winStart) {
		l.starts[key] = winStart
		l.hits[key] = 0
	}

	l.hits[key]++
	hits := l.hits[key]
	remaining := l.max - hits
	if remaining < 0 {
		remaining = 0
	}

	res := Result{Allowed: hits <= l.max, Remaining: remaining}
	if !res.Allowed {
		res.RetryAfter = winStart.Add(l.window).Sub(now)
	}
	return res, nil
}
