package middleware

import (
	"net/http"
	"sync"
	"time"

	"l2lsales/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// rateEntry tracks request counts per IP within a fixed window.
type rateEntry struct {
	count     int
	windowEnd time.Time
}

// RateLimiter is a per-IP fixed-window limiter. Expired entries are purged
// inline, at most once per window.
type RateLimiter struct {
	mu        sync.Mutex
	limit     int
	window    time.Duration
	entries   map[string]*rateEntry
	nextPurge time.Time
	now       func() time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:   limit,
		window:  window,
		entries: make(map[string]*rateEntry),
		now:     time.Now,
	}
}

// Allow records one request from ip and reports whether it is within the limit.
func (l *RateLimiter) Allow(ip string) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.After(l.nextPurge) {
		l.purgeLocked(now)
		l.nextPurge = now.Add(l.window)
	}

	entry, ok := l.entries[ip]
	if !ok || now.After(entry.windowEnd) {
		entry = &rateEntry{windowEnd: now.Add(l.window)}
		l.entries[ip] = entry
	}
	entry.count++
	return entry.count <= l.limit, entry.windowEnd
}

func (l *RateLimiter) purgeLocked(now time.Time) {
	purged := 0
	for ip, entry := range l.entries {
		if now.After(entry.windowEnd) {
			delete(l.entries, ip)
			purged++
		}
	}
	if purged > 0 {
		log.Debug().Int("purged", purged).Int("remaining", len(l.entries)).Msg("rate limiter entries purged")
	}
}

// Handler returns the gin middleware. A non-positive limit disables limiting.
func (l *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if l.limit <= 0 {
			c.Next()
			return
		}
		ok, windowEnd := l.Allow(c.ClientIP())
		if !ok {
			c.Header("Retry-After", windowEnd.UTC().Format(http.TimeFormat))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(apierror.KindRateLimit, "too many requests, retry shortly"))
			return
		}
		c.Next()
	}
}
