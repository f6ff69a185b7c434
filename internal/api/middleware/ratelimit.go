package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/stitts-dev/hoops-sim/pkg/utils"
)

const maxTrackedClients = 10000

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ClientRateLimiter hands out one token bucket per client IP.
type ClientRateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rps      rate.Limit
	burst    int
	idle     time.Duration
}

func NewClientRateLimiter(rps float64, burst int) *ClientRateLimiter {
	return &ClientRateLimiter{
		visitors: make(map[string]*visitor),
		rps:      rate.Limit(rps),
		burst:    burst,
		idle:     10 * time.Minute,
	}
}

func (l *ClientRateLimiter) Allow(clientIP string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if len(l.visitors) >= maxTrackedClients {
		l.pruneLocked(now)
	}
	v, ok := l.visitors[clientIP]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.visitors[clientIP] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// Prune forgets clients idle for longer than the idle window.
func (l *ClientRateLimiter) Prune() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pruneLocked(time.Now())
}

func (l *ClientRateLimiter) pruneLocked(now time.Time) int {
	cutoff := now.Add(-l.idle)
	removed := 0
	for ip, v := range l.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(l.visitors, ip)
			removed++
		}
	}
	return removed
}

// Middleware rejects requests over the per-client rate with 429.
func (l *ClientRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.ClientIP()) {
			utils.SendTooManyRequests(c, "Too many requests. Please slow down.")
			c.Abort()
			return
		}
		c.Next()
	}
}
