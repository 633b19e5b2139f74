// Package clock abstracts the monotonic time source used for measurements.
package clock

import (
	"sync"
	"time"
)

// Clock reports the current instant and the time elapsed since an earlier one.
// Instants returned by Now must carry a monotonic reading so Since never goes
// backwards across wall-clock adjustments.
type Clock interface {
	Now() time.Time
	Since(t time.Time) time.Duration
}

// RealClock reads the process clock via the time package.
type RealClock struct{}

func (RealClock) Now() time.Time                  { return time.Now() }
func (RealClock) Since(t time.Time) time.Duration { return time.Since(t) }

// FakeClock is a manually driven clock for tests. It is safe for concurrent use.
type FakeClock struct {
	mu      sync.Mutex
	current time.Time
	step    time.Duration
}

func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{current: start}
}

// Now returns the current fake instant, then moves the clock forward by the
// auto-advance step, if one is set.
func (f *FakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := f.current
	f.current = f.current.Add(f.step)
	return now
}

func (f *FakeClock) Since(t time.Time) time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current.Sub(t)
}

func (f *FakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.current = f.current.Add(d)
	f.mu.Unlock()
}

func (f *FakeClock) Set(t time.Time) {
	f.mu.Lock()
	f.current = t
	f.mu.Unlock()
}

// AutoAdvance makes every subsequent Now call advance the clock by step.
// A zero step turns auto-advance off.
func (f *FakeClock) AutoAdvance(step time.Duration) {
	f.mu.Lock()
	f.step = step
	f.mu.Unlock()
}
