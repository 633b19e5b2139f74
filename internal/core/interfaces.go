// Package core defines trial records and the runner that times benchmark trials.
package core

import (
	"context"
	"time"

	"stopwatch/internal/elapsed"
)

// Record is the measurement of a single trial.
type Record struct {
	Benchmark string    `json:"benchmark"`
	Iteration int       `json:"iteration"`
	StartedAt time.Time `json:"startedAt"`
	// Elapsed is nil when the trial failed; failed work has no elapsed time.
	Elapsed *elapsed.Seconds `json:"elapsed,omitempty"`
	Success bool             `json:"success"`
	Error   string           `json:"error,omitempty"`
}

// Trial is the unit of work being benchmarked.
type Trial interface {
	Run(ctx context.Context) error
}

// TrialFunc adapts a function to a Trial.
type TrialFunc func(ctx context.Context) error

func (f TrialFunc) Run(ctx context.Context) error { return f(ctx) }

// Reporter receives records from a Runner.
type Reporter interface {
	Report(Record)
}

// Pacer blocks until the next trial may start.
type Pacer interface {
	Wait(ctx context.Context) error
}
