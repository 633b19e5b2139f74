package core

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"stopwatch/internal/clock"
	"stopwatch/internal/elapsed"
)

// ErrMaxIterationsReached indicates the runner hit its iteration limit.
var ErrMaxIterationsReached = errors.New("max iterations reached")

// NullReporter discards all records (used during warmup).
var NullReporter Reporter = nullReporter{}

type nullReporter struct{}

func (nullReporter) Report(Record) {}

// RunnerConfig controls execution behavior.
type RunnerConfig struct {
	Benchmark       string
	MaxIterations   int // 0 = unlimited
	WarmupIters     int // iterations executed before records are reported
	ContinueOnError bool
}

// Runner times one trial per iteration.
// A Runner is NOT safe for concurrent use.
type Runner struct {
	trial     Trial
	reporter  Reporter
	config    RunnerConfig
	clock     clock.Clock
	pacer     Pacer
	iteration int
}

// NewRunner creates a Runner measuring on the real clock.
func NewRunner(trial Trial, reporter Reporter, config RunnerConfig) *Runner {
	return NewRunnerWithClock(trial, reporter, config, clock.RealClock{})
}

// NewRunnerWithClock creates a Runner with a custom clock (for testing).
func NewRunnerWithClock(trial Trial, reporter Reporter, config RunnerConfig, c clock.Clock) *Runner {
	return &Runner{
		trial:    trial,
		reporter: reporter,
		config:   config,
		clock:    c,
	}
}

// SetPacer makes the runner wait on p before each trial. Waiting is not
// part of the measured time.
func (r *Runner) SetPacer(p Pacer) {
	r.pacer = p
}

// RunIteration executes and times one trial.
// Returns nil on success, ErrMaxIterationsReached when the limit is hit, or the trial error.
func (r *Runner) RunIteration(ctx context.Context) error {
	if r.config.MaxIterations > 0 && r.iteration >= r.config.MaxIterations {
		return ErrMaxIterationsReached
	}

	if r.pacer != nil {
		if err := r.pacer.Wait(ctx); err != nil {
			return err
		}
	}

	rep := r.reporter
	if r.iteration < r.config.WarmupIters {
		rep = NullReporter
	}

	rec := Record{
		Benchmark: r.config.Benchmark,
		Iteration: r.iteration + 1,
		StartedAt: r.clock.Now(),
	}
	_, secs, err := elapsed.TryTimeWith(r.clock, func() (struct{}, error) {
		return struct{}{}, r.trial.Run(ctx)
	})
	r.iteration++

	if err != nil {
		// A trial cut short by cancellation is neither a result nor a failure.
		if ctx.Err() != nil {
			return err
		}
		rec.Error = err.Error()
		rep.Report(rec)
		return err
	}
	rec.Success = true
	rec.Elapsed = &secs
	rep.Report(rec)
	return nil
}

// Run executes trials until the iteration limit is reached or ctx is done.
// A failing trial stops the run unless ContinueOnError is set, in which case
// all trial errors are combined into the returned error.
func (r *Runner) Run(ctx context.Context) error {
	var errs error
	for {
		if ctx.Err() != nil {
			return multierr.Append(errs, ctx.Err())
		}

		err := r.RunIteration(ctx)
		switch {
		case err == nil:
		case errors.Is(err, ErrMaxIterationsReached):
			return errs
		case ctx.Err() != nil:
			return multierr.Append(errs, ctx.Err())
		case r.config.ContinueOnError:
			errs = multierr.Append(errs, fmt.Errorf("iteration %d: %w", r.iteration, err))
		default:
			return fmt.Errorf("iteration %d: %w", r.iteration, err)
		}
	}
}

// Iteration returns the number of trials executed so far, warmup included.
func (r *Runner) Iteration() int {
	return r.iteration
}

// IsWarmup returns true if still in warmup phase.
func (r *Runner) IsWarmup() bool {
	return r.iteration < r.config.WarmupIters
}
