package testfixtures

import (
	"sync"
	"time"
)

var referenceTime = time.Date(2024, time.January, 15, 9, 30, 0, 0, time.UTC)

// ReferenceTime is the instant fixtures treat as "now": 09:30 UTC on the
// date of the seeded attendance records.
func ReferenceTime() time.Time {
	return referenceTime
}

// Clock provides a controllable time source for tests.
type Clock struct {
	mu      sync.Mutex
	current time.Time
}

// NewClock returns a clock initialised to start, or to ReferenceTime when
// start is the zero value.
func NewClock(start time.Time) *Clock {
	if start.IsZero() {
		start = ReferenceTime()
	}
	return &Clock{current: start}
}

// Now returns the current instant tracked by the clock.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// NowFunc exposes Now for injection into services.
func (c *Clock) NowFunc() func() time.Time {
	if c == nil {
		return time.Now
	}
	return c.Now
}

// Set moves the clock to t.
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	c.current = t
	c.mu.Unlock()
}

// SetClock keeps the current date and location and moves the time of day to
// hour:minute.
func (c *Clock) SetClock(hour, minute int) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	y, m, d := c.current.Date()
	c.current = time.Date(y, m, d, hour, minute, 0, 0, c.current.Location())
	return c.current
}

// Advance moves the clock forward by d and returns the new time.
func (c *Clock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	c.current = c.current.Add(d)
	updated := c.current
	c.mu.Unlock()
	return updated
}
