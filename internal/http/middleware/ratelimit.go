// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements a fixed-window, in-memory rate limiter with
// per-tier budgets. Endpoints are assigned a sensitivity tier; each client
// IP gets an independent counter per tier, so hammering a write endpoint
// does not starve cheap reads.
//
// Notes:
//   - This limiter is process-local. It does not coordinate across
//     instances and resets on restart, which is acceptable for a
//     single-process deployment at human request rates.
//   - The limiter is edge-level abuse control, not an authorization
//     mechanism.
package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Tier is a rate-limit budget class assigned per endpoint sensitivity.
type Tier string

// Tiers ordered from cheapest to most sensitive.
const (
	TierLow    Tier = "low"    // reads
	TierMedium Tier = "medium" // writes
	TierHigh   Tier = "high"   // carrier actions, record mutations
)

// codeRateLimited is the stable error code on 429 envelopes.
const codeRateLimited = "too_many_requests"

var limiterRejections = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "rate_limit_rejections_total",
	Help: "Requests rejected by the fixed-window rate limiter.",
}, []string{"tier"})

func init() {
	prometheus.MustRegister(limiterRejections)
}

// window is one fixed counting window for a key.
type window struct {
	start time.Time
	count int
}

// RateLimiter enforces fixed-window budgets keyed by client IP + tier.
//
// A window opens at the first request after expiry; the counter resets when
// the window elapses. Exactly limit requests succeed per window per key.
// This type is safe for concurrent use.
type RateLimiter struct {
	window time.Duration
	limits map[Tier]int

	mu      sync.Mutex
	windows map[string]*window

	now func() time.Time // injectable clock for tests
}

// NewRateLimiter constructs a RateLimiter with the given window length and
// per-tier budgets. Non-positive values fall back to the defaults
// (60s window; low=60, medium=30, high=10).
func NewRateLimiter(windowLen time.Duration, low, medium, high int) *RateLimiter {
	if windowLen <= 0 {
		windowLen = time.Minute
	}
	if low <= 0 {
		low = 60
	}
	if medium <= 0 {
		medium = 30
	}
	if high <= 0 {
		high = 10
	}
	return &RateLimiter{
		window:  windowLen,
		limits:  map[Tier]int{TierLow: low, TierMedium: medium, TierHigh: high},
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

// Limit returns the budget for tier.
func (rl *RateLimiter) Limit(tier Tier) int {
	if n, ok := rl.limits[tier]; ok {
		return n
	}
	return rl.limits[TierHigh]
}

// check consumes one request from the key's window. It reports whether the
// request is allowed, the remaining budget, and when the window resets.
func (rl *RateLimiter) check(key string, tier Tier) (allowed bool, remaining int, reset time.Time) {
	limit := rl.Limit(tier)
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, ok := rl.windows[key]
	if !ok || now.Sub(w.start) >= rl.window {
		w = &window{start: now}
		rl.windows[key] = w
	}
	reset = w.start.Add(rl.window)

	if w.count >= limit {
		return false, 0, reset
	}
	w.count++
	return true, limit - w.count, reset
}

// StartSweeper runs a background loop that deletes windows older than the
// window length, bounding memory. It stops when ctx is cancelled.
func (rl *RateLimiter) StartSweeper(ctx context.Context) {
	go func() {
		t := time.NewTicker(rl.window)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				rl.sweep()
			}
		}
	}()
}

// sweep deletes expired windows.
func (rl *RateLimiter) sweep() {
	now := rl.now()
	rl.mu.Lock()
	for k, w := range rl.windows {
		if now.Sub(w.start) >= rl.window {
			delete(rl.windows, k)
		}
	}
	rl.mu.Unlock()
}

// Handler returns a Gin middleware enforcing the given tier.
//
// Responses always carry X-RateLimit-Limit, X-RateLimit-Remaining and
// X-RateLimit-Reset. Rejections are 429 with Retry-After bounded by the
// window length:
//
//	HTTP/1.1 429 Too Many Requests
//	{
//	  "success":   false,
//	  "error":     "Too many requests",
//	  "code":      "too_many_requests",
//	  "limit":     10,
//	  "remaining": 0,
//	  "reset":     "<RFC3339>"
//	}
func (rl *RateLimiter) Handler(tier Tier) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP() + ":" + string(tier)
		allowed, remaining, reset := rl.check(key, tier)

		h := c.Writer.Header()
		h.Set("X-RateLimit-Limit", strconv.Itoa(rl.Limit(tier)))
		h.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		h.Set("X-RateLimit-Reset", reset.UTC().Format(time.RFC3339))

		if allowed {
			c.Next()
			return
		}

		limiterRejections.WithLabelValues(string(tier)).Inc()

		retryAfter := reset.Sub(rl.now())
		if retryAfter > rl.window {
			retryAfter = rl.window
		}
		if retryAfter < 0 {
			retryAfter = 0
		}
		// Round up so clients never retry before the window opens.
		h.Set("Retry-After", strconv.Itoa(int((retryAfter+time.Second-1)/time.Second)))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"success":   false,
			"error":     "Too many requests",
			"code":      codeRateLimited,
			"limit":     rl.Limit(tier),
			"remaining": 0,
			"reset":     reset.UTC().Format(time.RFC3339),
		})
	}
}
