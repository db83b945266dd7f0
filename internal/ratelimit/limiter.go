package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Config holds rate limiter configuration
type Config struct {
	PerMinute int // per-IP request limit per minute
	Burst     int // burst capacity
}

// DefaultConfig returns default rate limiting configuration
func DefaultConfig() Config {
	return Config{
		PerMinute: 60,
		Burst:     10,
	}
}

// ipLimiter tracks one client's token bucket and its last use, so idle
// buckets can be pruned.
type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter provides in-memory per-IP token bucket rate limiting.
type Limiter struct {
	mu       sync.Mutex
	limiters map[string]*ipLimiter
	config   Config
}

// New creates a rate limiter and starts the idle-bucket pruner.
func New(config Config) *Limiter {
	if config.PerMinute <= 0 {
		config.PerMinute = DefaultConfig().PerMinute
	}
	if config.Burst <= 0 {
		config.Burst = DefaultConfig().Burst
	}

	l := &Limiter{
		limiters: make(map[string]*ipLimiter),
		config:   config,
	}

	go l.prune()

	return l
}

// Allow reports whether the given IP may make a request now.
func (l *Limiter) Allow(ip string) bool {
	l.mu.Lock()
	entry, ok := l.limiters[ip]
	if !ok {
		rps := rate.Limit(float64(l.config.PerMinute) / 60.0)
		entry = &ipLimiter{limiter: rate.NewLimiter(rps, l.config.Burst)}
		l.limiters[ip] = entry
	}
	entry.lastSeen = time.Now()
	l.mu.Unlock()

	return entry.limiter.Allow()
}

// Limit returns the configured per-minute limit.
func (l *Limiter) Limit() int {
	return l.config.PerMinute
}

// prune removes buckets not seen for a while.
func (l *Limiter) prune() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-30 * time.Minute)
		l.mu.Lock()
		for ip, entry := range l.limiters {
			if entry.lastSeen.Before(cutoff) {
				delete(l.limiters, ip)
			}
		}
		l.mu.Unlock()
	}
}
