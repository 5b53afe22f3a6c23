// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements an in-memory token-bucket rate limiter with one bucket
// per caller. Requests may cost more than one token: training the mood model
// scans a user's whole range and fits a regression, so it is priced above a
// plain read. The limiter is process-local.
package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// keyFunc selects the identity used to key a rate-limit bucket, e.g.
// "user:<id>" or "ip:<addr>".
type keyFunc func(*gin.Context) string

// costFunc prices a request in tokens.
type costFunc func(*gin.Context) int

// KeyByUserOrIP returns a keyFunc that prefers the user identity stored by
// Identity and falls back to the client IP address. Requests that Identity
// attributed to the default user are keyed by IP, so anonymous clients do not
// share one bucket.
func KeyByUserOrIP() keyFunc {
	return func(c *gin.Context) string {
		if _, ok := c.Get(ctxKeyUserID); ok && !IsAnonymous(c) {
			return "user:" + UserIDFrom(c)
		}
		return "ip:" + c.ClientIP()
	}
}

// CostByRoute prices requests by "METHOD /route/pattern" (Gin's FullPath).
// Unlisted routes cost one token.
func CostByRoute(costs map[string]int) costFunc {
	return func(c *gin.Context) int {
		if n, ok := costs[c.Request.Method+" "+c.FullPath()]; ok && n > 0 {
			return n
		}
		return 1
	}
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter implements a per-key token-bucket rate limiter. Buckets are
// created on demand and idle ones are evicted during lookups.
//
// This type is safe for concurrent use.
type RateLimiter struct {
	rps      rate.Limit
	burst    int
	keyFn    keyFunc
	costFn   costFunc
	mu       sync.Mutex
	visitors map[string]*visitor

	ttl      time.Duration
	cleanupN uint64
}

// NewRateLimiter constructs a RateLimiter refilling rps tokens per second up
// to burst (coerced to at least 1), keyed by keyFn. Every request costs one
// token until WithCost installs a pricing function.
func NewRateLimiter(rps float64, burst int, keyFn keyFunc) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		rps:      rate.Limit(rps),
		burst:    burst,
		keyFn:    keyFn,
		visitors: make(map[string]*visitor),
		ttl:      10 * time.Minute,
	}
}

// WithCost sets the request pricing and returns rl.
func (rl *RateLimiter) WithCost(fn costFunc) *RateLimiter {
	rl.costFn = fn
	return rl
}

// cost is the token price of the request, capped at the burst so that an
// expensive call can still succeed against a full bucket.
func (rl *RateLimiter) cost(c *gin.Context) int {
	if rl.costFn == nil {
		return 1
	}
	return min(max(rl.costFn(c), 1), rl.burst)
}

// getVisitor returns (and touches) the limiter for key, creating it if
// absent. Every 5000 lookups idle buckets are evicted first, so a stale bucket
// is dropped even when it is the one being fetched.
func (rl *RateLimiter) getVisitor(key string) *rate.Limiter {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.cleanupN++
	if rl.cleanupN >= 5000 {
		for k, vv := range rl.visitors {
			if now.Sub(vv.lastSeen) >= rl.ttl {
				delete(rl.visitors, k)
			}
		}
		rl.cleanupN = 0
	}

	if v, ok := rl.visitors[key]; ok {
		v.lastSeen = now
		return v.limiter
	}
	lim := rate.NewLimiter(rl.rps, rl.burst)
	rl.visitors[key] = &visitor{limiter: lim, lastSeen: now}
	return lim
}

// retryAfter is the whole number of seconds until lim holds n tokens, at
// least one.
func (rl *RateLimiter) retryAfter(lim *rate.Limiter, n int) int {
	if rl.rps <= 0 {
		return 60
	}
	deficit := float64(n) - lim.Tokens()
	secs := int(math.Ceil(deficit / float64(rl.rps)))
	return max(secs, 1)
}

// IsRateBypass reports whether IdempotencyValidator marked this request as a
// replay of a completed request. Replays are served without consuming tokens.
func IsRateBypass(c *gin.Context) bool {
	v, ok := c.Get(ctxKeyRateBypass)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// Handler returns a Gin middleware that enforces the per-key limits. Denied
// requests get 429 with a Retry-After header and the JSON error envelope:
//
//	{ "request_id": "<uuid>", "code": "rate_limited", "message": "rate limit exceeded" }
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsRateBypass(c) {
			c.Next()
			return
		}

		lim := rl.getVisitor(rl.keyFn(c))
		n := rl.cost(c)
		if lim.AllowN(time.Now(), n) {
			c.Next()
			return
		}

		c.Header("Retry-After", strconv.Itoa(rl.retryAfter(lim, n)))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"request_id": c.Writer.Header().Get(requestIDHeader),
			"code":       "rate_limited",
			"message":    "rate limit exceeded",
		})
	}
}
