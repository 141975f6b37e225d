package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter is a bounded sliding-window counter keyed by client IP. It is
// owned by the router that constructs it, not ambient global state, so a
// multi-instance deployment can swap it for a shared store.
type RateLimiter struct {
	mu       sync.Mutex
	limit    int
	window   time.Duration
	capacity int
	hits     map[string][]time.Time
	now      func() time.Time
}

// NewRateLimiter allows limit requests per client per minute. A non-positive
// limit disables limiting.
func NewRateLimiter(limit int) *RateLimiter {
	return &RateLimiter{
		limit:    limit,
		window:   time.Minute,
		capacity: 10000,
		hits:     map[string][]time.Time{},
		now:      time.Now,
	}
}

// Allow records one hit for key and reports whether it is within the limit.
func (l *RateLimiter) Allow(key string) bool {
	if l == nil || l.limit <= 0 {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	recent := l.hits[key][:0]
	for _, t := range l.hits[key] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= l.limit {
		l.hits[key] = recent
		return false
	}

	if len(l.hits) >= l.capacity {
		l.evictStale(cutoff)
	}
	l.hits[key] = append(recent, now)
	return true
}

// evictStale drops keys with no hits inside the window. Called under mu.
func (l *RateLimiter) evictStale(cutoff time.Time) {
	for key, times := range l.hits {
		stale := true
		for _, t := range times {
			if t.After(cutoff) {
				stale = false
				break
			}
		}
		if stale {
			delete(l.hits, key)
		}
	}
}

// Middleware rejects over-limit clients with 429.
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
