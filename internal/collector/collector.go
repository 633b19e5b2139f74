// Package collector aggregates trial records and computes summaries.
package collector

import (
	"sync"
	"time"

	"stopwatch/internal/clock"
	"stopwatch/internal/core"
	"stopwatch/internal/elapsed"
)

const defaultBufferSize = 1000

// Collector aggregates records from runners and produces a summary.
type Collector struct {
	records   []core.Record
	ch        chan core.Record
	done      chan struct{}
	mu        sync.Mutex
	clock     clock.Clock
	startTime time.Time
	endTime   time.Time
}

// NewCollector creates a new Collector and starts its collection goroutine.
func NewCollector() *Collector {
	return NewCollectorWithClock(clock.RealClock{})
}

// NewCollectorWithClock creates a Collector whose wall time is read from c.
func NewCollectorWithClock(c clock.Clock) *Collector {
	col := &Collector{
		records:   make([]core.Record, 0),
		ch:        make(chan core.Record, defaultBufferSize),
		done:      make(chan struct{}),
		clock:     c,
		startTime: c.Now(),
	}
	go col.collect()
	return col
}

func (c *Collector) collect() {
	for rec := range c.ch {
		c.mu.Lock()
		c.records = append(c.records, rec)
		c.mu.Unlock()
	}
	close(c.done)
}

// Report sends a record to the collector. Thread-safe.
// It blocks while the buffer is full, so no record is lost. Runners report
// after the timed region, so the wait never shows up in a measurement.
func (c *Collector) Report(rec core.Record) {
	c.ch <- rec
}

// Close stops accepting records and waits for buffered ones to be stored.
func (c *Collector) Close() {
	c.mu.Lock()
	c.endTime = c.clock.Now()
	c.mu.Unlock()
	close(c.ch)
	<-c.done
}

// Records returns a copy of collected records.
func (c *Collector) Records() []core.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	result := make([]core.Record, len(c.records))
	copy(result, c.records)
	return result
}

// WallTime returns the time from creation to Close, or to now if still open.
func (c *Collector) WallTime() elapsed.Seconds {
	c.mu.Lock()
	end := c.endTime
	c.mu.Unlock()
	if !end.IsZero() {
		return elapsed.FromDuration(end.Sub(c.startTime))
	}
	return elapsed.FromDuration(c.clock.Since(c.startTime))
}

// Compute summarizes the records collected so far.
func (c *Collector) Compute() *Summary {
	return ComputeSummary(c.Records(), c.WallTime())
}
