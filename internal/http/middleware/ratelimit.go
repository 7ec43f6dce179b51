package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type clientInfo struct {
	last  time.Time
	count int
}

// windowLimiter is the per-process fixed-window counter behind
// SimpleRateLimit. Expired clients are evicted at most once per window.
type windowLimiter struct {
	mu        sync.Mutex
	max       int
	window    time.Duration
	now       func() time.Time
	clients   map[string]*clientInfo
	lastSweep time.Time
}

func newWindowLimiter(maxRequests int, window time.Duration) *windowLimiter {
	return &windowLimiter{
		max:     maxRequests,
		window:  window,
		now:     time.Now,
		clients: make(map[string]*clientInfo),
	}
}

func (l *windowLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	ci, ok := l.clients[ip]
	if !ok || now.Sub(ci.last) > l.window {
		l.clients[ip] = &clientInfo{last: now, count: 1}
		if now.Sub(l.lastSweep) > l.window {
			l.evict(now)
		}
		return true
	}
	ci.count++
	return ci.count <= l.max
}

func (l *windowLimiter) evict(now time.Time) {
	for ip, ci := range l.clients {
		if now.Sub(ci.last) > l.window {
			delete(l.clients, ip)
		}
	}
	l.lastSweep = now
}

func (l *windowLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// SimpleRateLimit blocks clients that send more than maxRequests per window.
// State is per process; used when Redis is not configured.
func SimpleRateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	return newWindowLimiter(maxRequests, window).handler()
}

func (l *windowLimiter) handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.allow(c.ClientIP()) {
			RLBlocked.WithLabelValues(c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}

		RLRequests.WithLabelValues(c.FullPath()).Inc()
		c.Next()
	}
}
