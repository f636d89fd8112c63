// Package cooldown provides per-key rate limiting for interactive commands.
// Each key (usually "user:command") gets its own token bucket.
//
// Example usage:
//
//	lim := cooldown.New(3*time.Second, 1)
//	if ok, wait := lim.Allow(userID + ":balance"); !ok {
//	    return fmt.Errorf("try again in %s", wait.Round(time.Second))
//	}
package cooldown

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// =============================================================================
// Limiter
// =============================================================================

type entry struct {
	lim  *rate.Limiter
	seen time.Time
}

// Limiter is safe for concurrent use. A zero or negative interval disables it.
type Limiter struct {
	mu      sync.Mutex
	every   time.Duration
	burst   int
	entries map[string]*entry
	now     func() time.Time
}

// New allows burst events per key, refilled one every interval.
func New(every time.Duration, burst int) *Limiter {
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		every:   every,
		burst:   burst,
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// Allow consumes one token for key. When none is left it returns false and
// how long until the next one.
func (l *Limiter) Allow(key string) (bool, time.Duration) {
	if l == nil || l.every <= 0 {
		return true, 0
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.entries[key]
	if !ok {
		e = &entry{lim: rate.NewLimiter(rate.Every(l.every), l.burst)}
		l.entries[key] = e
	}
	e.seen = now

	r := e.lim.ReserveN(now, 1)
	if !r.OK() {
		return false, l.every
	}
	if wait := r.DelayFrom(now); wait > 0 {
		r.CancelAt(now)
		return false, wait
	}
	return true, 0
}

// =============================================================================
// Housekeeping
// =============================================================================

// Sweep drops keys not seen for idle and returns how many were removed.
func (l *Limiter) Sweep(idle time.Duration) int {
	if l == nil {
		return 0
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-idle)
	removed := 0
	for key, e := range l.entries {
		if e.seen.Before(cutoff) {
			delete(l.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked keys.
func (l *Limiter) Len() int {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
