package memory

import (
	"AidDesk/internal/core/ports"
	"context"
	"sync"
	"time"
)

var _ ports.AttemptLimiter = (*attemptLimiter)(nil)

type window struct {
	count   int
	resetAt time.Time
}

// attemptLimiter is a fixed-window counter per key, for single-instance deployments.
type attemptLimiter struct {
	mu      sync.Mutex
	limit   int
	period  time.Duration
	windows map[string]*window
	// lastSweep bounds the cleanup to one pass per period.
	lastSweep time.Time
	now       func() time.Time
}

// NewAttemptLimiter allows limit attempts per key in every period.
func NewAttemptLimiter(limit int, period time.Duration) ports.AttemptLimiter {
	return &attemptLimiter{
		limit:   limit,
		period:  period,
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

func (l *attemptLimiter) Allow(ctx context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= l.period {
		l.sweep(now)
		l.lastSweep = now
	}

	w, ok := l.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(l.period)}
		l.windows[key] = w
	}
	w.count++
	return w.count <= l.limit, nil
}

// sweep drops expired windows so the map does not grow with every client seen.
func (l *attemptLimiter) sweep(now time.Time) {
	for k, w := range l.windows {
		if !now.Before(w.resetAt) {
			delete(l.windows, k)
		}
	}
}
