// Package middleware holds the gin middleware shared by AI-backed routes.
package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// IdentityKey is where the session layer puts the caller's identity in the
// gin context. Session management itself lives outside this service.
const IdentityKey = "user_id"

type windowEntry struct {
	count   int
	resetAt time.Time
}

// Limiter is a fixed-window counter keyed by (identity, route). It is a
// process-wide object created once at startup and injected where needed, so
// tests can reset it and a multi-instance deployment could swap it for a
// shared store.
//
// Known limits, accepted for a soft abuse guard: state is lost on restart,
// and key cardinality grows unbounded over long uptimes.
type Limiter struct {
	mu      sync.Mutex
	entries map[string]*windowEntry
	max     int
	window  time.Duration
	now     func() time.Time
}

// Result is the outcome of one CheckAndConsume call.
type Result struct {
	Limited   bool
	Remaining int
	ResetAt   time.Time
}

// NewLimiter creates a limiter allowing max calls per window per key.
func NewLimiter(max int, window time.Duration) *Limiter {
	return &Limiter{
		entries: make(map[string]*windowEntry),
		max:     max,
		window:  window,
		now:     time.Now,
	}
}

// CheckAndConsume charges one attempt against (identity, routeKey) and
// reports whether the caller is over the limit. The charge lands even on a
// limited call — callers must check Limited before doing the expensive work.
// A missing identity is always limited (fail-closed) and leaves no state.
func (l *Limiter) CheckAndConsume(identity, routeKey string) Result {
	now := l.now()

	if identity == "" {
		return Result{Limited: true, Remaining: 0, ResetAt: now}
	}

	key := identity + "|" + routeKey

	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.entries[key]
	if !ok || now.After(entry.resetAt) {
		// Lazy window reset — no background sweep.
		entry = &windowEntry{resetAt: now.Add(l.window)}
		l.entries[key] = entry
	}

	entry.count++

	remaining := l.max - entry.count
	if remaining < 0 {
		remaining = 0
	}

	return Result{
		Limited:   entry.count > l.max,
		Remaining: remaining,
		ResetAt:   entry.resetAt,
	}
}

// RateLimit guards a route with the limiter. 429 with a generic message when
// the caller is over budget; unauthenticated callers are always rejected.
func RateLimit(l *Limiter, routeKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := c.GetString(IdentityKey)

		res := l.CheckAndConsume(identity, routeKey)
		if res.Limited {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "You've hit the limit for this feature. Please try again later.",
			})
			return
		}
		c.Next()
	}
}

// SessionIdentity copies the caller identity from the session header into
// the request context. It stands in for the real session middleware, which
// is owned by the auth service.
func SessionIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := c.GetHeader("X-Session-User"); id != "" {
			c.Set(IdentityKey, id)
		}
		c.Next()
	}
}
