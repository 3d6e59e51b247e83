package mock

import (
	"sync"
	"time"
)

// Clock is a controllable time source. Pass its Now method wherever a
// component accepts a clock function, such as token.WithClock or
// discovery.WithClock.
type Clock struct {
	mu      sync.RWMutex
	current time.Time
}

// NewClock creates a clock set to t. A zero t starts at the current time.
func NewClock(t time.Time) *Clock {
	if t.IsZero() {
		t = time.Now()
	}
	return &Clock{current: t}
}

// Now returns the current time of the clock.
func (c *Clock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
}

// Set moves the clock to t.
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = t
}

// Ticking returns a clock function that advances c by step on every call.
// It simulates elapsed time in polling loops without sleeping.
func (c *Clock) Ticking(step time.Duration) func() time.Time {
	return func() time.Time {
		c.mu.Lock()
		defer c.mu.Unlock()
		now := c.current
		c.current = c.current.Add(step)
		return now
	}
}
