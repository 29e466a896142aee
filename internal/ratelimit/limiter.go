package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter decides whether one more request keyed by key (usually a
// client IP) is allowed right now. An error means the limiter itself
// failed, not that the request is over the limit.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

const cleanupInterval = 30 * time.Second

// MemoryLimiter is a per-key sliding window over request timestamps.
// Good enough for a single instance, use RedisLimiter when several
// replicas must share counters.
type MemoryLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	entries map[string][]time.Time

	stopCleanup chan struct{}
	wg          sync.WaitGroup
}

func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	l := &MemoryLimiter{
		limit:       limit,
		window:      window,
		entries:     make(map[string][]time.Time),
		stopCleanup: make(chan struct{}),
	}

	// Drop idle keys in the background so the map does not grow forever
	l.wg.Add(1)
	go l.cleanupLoop()

	return l
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	window := l.entries[key]

	validStart := len(window)
	for i, t := range window {
		if now.Sub(t) < l.window {
			validStart = i
			break
		}
	}
	window = window[validStart:]

	if len(window) >= l.limit {
		l.entries[key] = window
		return false, nil
	}

	l.entries[key] = append(window, now)
	return true, nil
}

func (l *MemoryLimiter) cleanupLoop() {
	defer l.wg.Done()

	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.expireKeys()
		case <-l.stopCleanup:
			return
		}
	}
}

func (l *MemoryLimiter) expireKeys() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	for key, window := range l.entries {
		if len(window) == 0 || now.Sub(window[len(window)-1]) >= l.window {
			delete(l.entries, key)
		}
	}
}

func (l *MemoryLimiter) Close() {
	close(l.stopCleanup)
	l.wg.Wait()
}
