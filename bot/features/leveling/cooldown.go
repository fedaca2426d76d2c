package leveling

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// cooldownTracker rate-limits passive XP to one grant per user per
// window. State is instance-scoped, not process-wide, so tests and
// multiple bots stay independent.
type cooldownTracker struct {
	mu       sync.Mutex
	window   time.Duration
	limiters map[int64]*rate.Limiter
}

// NewCooldownTracker creates a tracker with the given window between grants.
func NewCooldownTracker(window time.Duration) *cooldownTracker {
	return &cooldownTracker{
		window:   window,
		limiters: make(map[int64]*rate.Limiter),
	}
}

// Allow reports whether the user may receive XP now, consuming the slot
// when they may.
func (c *cooldownTracker) Allow(userID int64) bool {
	if c.window <= 0 {
		return true
	}

	c.mu.Lock()
	limiter, ok := c.limiters[userID]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(c.window), 1)
		c.limiters[userID] = limiter
	}
	c.mu.Unlock()

	return limiter.Allow()
}
