// Package testutil provides deterministic stand-ins for time and identity
// so command output and stored runs can be compared byte for byte.
package testutil

import (
	"sync"
	"time"
)

// Epoch is the instant a StepClock starts from.
var Epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// StepClock is a thread-safe clock that advances by a fixed step on every
// reading. Two consecutive Now calls are always exactly Step apart, so an
// elapsed time measured with it is deterministic.
type StepClock struct {
	mu    sync.Mutex
	step  time.Duration
	now   time.Time
	reads int64
}

// NewStepClock creates a clock starting at Epoch.
//
// The first call to Now() returns Epoch.
func NewStepClock(step time.Duration) *StepClock {
	return &StepClock{step: step, now: Epoch}
}

// Now returns the current time and advances the clock by one step.
func (c *StepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.step)
	c.reads++
	return t
}

// Reads returns how many times Now has been called.
func (c *StepClock) Reads() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reads
}

// Reset rewinds the clock to Epoch.
//
// Used for test reuse. After Reset(), the next call to Now() returns Epoch.
func (c *StepClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = Epoch
	c.reads = 0
}
