package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock lets tests step through windows without sleeping.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(max int, window time.Duration) (*Limiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	l := NewLimiter(max, window)
	l.now = clock.now
	return l, clock
}

func TestLimiterWindowing(t *testing.T) {
	l, clock := newTestLimiter(2, time.Second)

	first := l.CheckAndConsume("user-1", "research")
	second := l.CheckAndConsume("user-1", "research")
	third := l.CheckAndConsume("user-1", "research")

	assert.False(t, first.Limited)
	assert.Equal(t, 1, first.Remaining)
	assert.False(t, second.Limited)
	assert.Equal(t, 0, second.Remaining)
	assert.True(t, third.Limited)
	assert.Equal(t, 0, third.Remaining)

	// After the window elapses the counter resets lazily.
	clock.advance(1100 * time.Millisecond)
	fourth := l.CheckAndConsume("user-1", "research")
	assert.False(t, fourth.Limited)
	assert.Equal(t, 1, fourth.Remaining)
}

func TestLimiterChargesOnAttempt(t *testing.T) {
	l, _ := newTestLimiter(1, time.Hour)

	require.False(t, l.CheckAndConsume("user-1", "r").Limited)

	// Rejected attempts still count against the window.
	for i := 0; i < 3; i++ {
		assert.True(t, l.CheckAndConsume("user-1", "r").Limited)
	}
	assert.Equal(t, 4, l.entries["user-1|r"].count)
}

func TestLimiterMissingIdentityFailClosed(t *testing.T) {
	l, _ := newTestLimiter(100, time.Hour)

	res := l.CheckAndConsume("", "research")
	assert.True(t, res.Limited)
	assert.Equal(t, 0, res.Remaining)

	// No state is created for the anonymous caller.
	assert.Empty(t, l.entries)
}

func TestLimiterKeysAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(1, time.Hour)

	assert.False(t, l.CheckAndConsume("user-1", "research").Limited)
	assert.True(t, l.CheckAndConsume("user-1", "research").Limited)

	// Other user, other route: fresh windows.
	assert.False(t, l.CheckAndConsume("user-2", "research").Limited)
	assert.False(t, l.CheckAndConsume("user-1", "cover-letter").Limited)
}

func TestLimiterResetAtStableWithinWindow(t *testing.T) {
	l, clock := newTestLimiter(5, time.Minute)

	first := l.CheckAndConsume("user-1", "r")
	clock.advance(10 * time.Second)
	second := l.CheckAndConsume("user-1", "r")

	assert.Equal(t, first.ResetAt, second.ResetAt)
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	l, _ := newTestLimiter(2, time.Minute)

	r := gin.New()
	r.Use(SessionIdentity())
	r.POST("/research", RateLimit(l, "research"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	do := func(user string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/research", http.NoBody)
		if user != "" {
			req.Header.Set("X-Session-User", user)
		}
		r.ServeHTTP(w, req)
		return w.Code
	}

	// Unauthenticated: always 429.
	assert.Equal(t, http.StatusTooManyRequests, do(""))

	assert.Equal(t, http.StatusOK, do("u1"))
	assert.Equal(t, http.StatusOK, do("u1"))
	assert.Equal(t, http.StatusTooManyRequests, do("u1"))

	// Another user is unaffected.
	assert.Equal(t, http.StatusOK, do("u2"))
}
