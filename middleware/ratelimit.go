package middleware

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Vidhyalakshmi16/svm-mobiles/config"
	"github.com/Vidhyalakshmi16/svm-mobiles/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// idleTTL is how long a client's bucket is kept after its last request.
const idleTTL = 10 * time.Minute

// RateLimiter keeps one token bucket per client IP. Buckets idle for longer
// than idleTTL are dropped by a sweep that runs at most once per idleTTL.
type RateLimiter struct {
	visitors  sync.Map // ip -> *visitor
	rate      rate.Limit
	burst     int
	lastSweep atomic.Int64
	now       func() time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64
}

func NewRateLimiter(r float64, burst int) *RateLimiter {
	return &RateLimiter{rate: rate.Limit(r), burst: burst, now: time.Now}
}

func (rl *RateLimiter) limiter(ip string) *rate.Limiter {
	now := rl.now()
	rl.sweep(now)

	v, ok := rl.visitors.Load(ip)
	if !ok {
		v, _ = rl.visitors.LoadOrStore(ip, &visitor{limiter: rate.NewLimiter(rl.rate, rl.burst)})
	}
	vis := v.(*visitor)
	vis.lastSeen.Store(now.UnixNano())
	return vis.limiter
}

func (rl *RateLimiter) sweep(now time.Time) {
	last := rl.lastSweep.Load()
	if now.UnixNano()-last < int64(idleTTL) || !rl.lastSweep.CompareAndSwap(last, now.UnixNano()) {
		return
	}
	cutoff := now.Add(-idleTTL).UnixNano()
	rl.visitors.Range(func(ip, v any) bool {
		if v.(*visitor).lastSeen.Load() < cutoff {
			rl.visitors.Delete(ip)
		}
		return true
	})
}

// Len returns the number of tracked clients.
func (rl *RateLimiter) Len() int {
	n := 0
	rl.visitors.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// RateLimit answers 429 once a client exceeds its bucket. Disabled config
// yields a pass-through handler.
func RateLimit(cfg config.RateLimitConfig, log *zap.Logger) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}
	limiter := NewRateLimiter(cfg.Rate, cfg.Burst)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !limiter.limiter(ip).Allow() {
			log.Warn("rate limit exceeded",
				zap.String("request_id", response.RequestID(c)),
				zap.String("client_ip", ip))
			response.Message(c, http.StatusTooManyRequests, "Too many requests, please try again later")
			c.Abort()
			return
		}
		c.Next()
	}
}
