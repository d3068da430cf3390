package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	memoryCleanupInterval = 5 * time.Minute
	memoryEntryTTL        = 30 * time.Minute
)

type limiterEntry struct {
	limiter *rate.Limiter
	lastUse time.Time
}

// MemoryLimiter is a per-process token bucket per key. Used when Redis is
// not configured; limits are not shared between replicas.
type MemoryLimiter struct {
	mu        sync.Mutex
	entries   map[string]*limiterEntry
	lastSweep time.Time
	now       func() time.Time
}

func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{
		entries:   make(map[string]*limiterEntry),
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

func (m *MemoryLimiter) Allow(_ context.Context, key string, rule Rule) (*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.sweep(now)

	e, ok := m.entries[key]
	if !ok {
		every := rule.Window / time.Duration(max(rule.Limit, 1))
		e = &limiterEntry{limiter: rate.NewLimiter(rate.Every(every), rule.Limit)}
		m.entries[key] = e
	}
	e.lastUse = now

	res := &Result{Limit: rule.Limit}
	r := e.limiter.ReserveN(now, 1)
	if !r.OK() {
		res.RetryAfter = rule.Window
		return res, nil
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		res.RetryAfter = delay
		return res, nil
	}

	res.Allowed = true
	res.Remaining = int(e.limiter.TokensAt(now))
	return res, nil
}

// sweep drops idle keys. Caller holds m.mu.
func (m *MemoryLimiter) sweep(now time.Time) {
	if now.Sub(m.lastSweep) < memoryCleanupInterval {
		return
	}
	m.lastSweep = now
	for key, e := range m.entries {
		if now.Sub(e.lastUse) > memoryEntryTTL {
			delete(m.entries, key)
		}
	}
}
