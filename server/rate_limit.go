package server

import (
	"net"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// How long an idle per-client limiter survives before the sweep
// drops it.
const limiterIdleTTL = 5 * time.Minute

// WithRateLimit enables per-client rate limiting: each remote host
// gets its own token bucket of rps requests per second with the
// given burst.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		s.limiter = &rateLimiter{
			limit: rate.Limit(rps),
			burst: burst,
			byKey: make(map[string]*limiterEntry),
		}
	}
}

type rateLimiter struct {
	limit rate.Limit
	burst int

	mu    sync.Mutex
	byKey map[string]*limiterEntry
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// allow reports whether a request from remoteAddr fits its bucket.
func (l *rateLimiter) allow(remoteAddr string) bool {
	key := remoteAddr
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		key = host
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	entry, ok := l.byKey[key]
	if !ok {
		l.sweepLocked(now)
		entry = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.byKey[key] = entry
	}
	entry.lastSeen = now
	return entry.limiter.Allow()
}

func (l *rateLimiter) sweepLocked(now time.Time) {
	for key, entry := range l.byKey {
		if now.Sub(entry.lastSeen) > limiterIdleTTL {
			delete(l.byKey, key)
		}
	}
}
