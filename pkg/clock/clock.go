package clock

import (
	"sync"
	"time"
)

// Clock yields unix-millisecond timestamps for task bookkeeping
type Clock interface {
	Now() int64
}

// Monotonic is a wall clock that never repeats or goes backwards.
// Each reading is strictly greater than the previous one.
type Monotonic struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewMonotonic creates a monotonic clock backed by time.Now
func NewMonotonic() *Monotonic {
	return &Monotonic{now: time.Now}
}

// Now returns the current time in unix milliseconds
func (c *Monotonic) Now() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	ms := c.now().UnixMilli()
	if ms <= c.last {
		ms = c.last + 1
	}
	c.last = ms
	return ms
}

// Manual is a deterministic clock for tests. Every reading advances by Step.
type Manual struct {
	mu   sync.Mutex
	next int64
	Step int64
}

// NewManual creates a manual clock whose first reading is start
func NewManual(start int64) *Manual {
	return &Manual{next: start, Step: 1}
}

// Now returns the next reading
func (c *Manual) Now() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := c.next
	c.next += c.Step
	return v
}

// Set moves the clock so that the next reading is v
func (c *Manual) Set(v int64) {
	c.mu.Lock()
	c.next = v
	c.mu.Unlock()
}
