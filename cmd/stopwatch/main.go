package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"go.uber.org/multierr"

	"stopwatch/internal/collector"
	"stopwatch/internal/command"
	"stopwatch/internal/config"
	"stopwatch/internal/core"
	"stopwatch/internal/progress"
	"stopwatch/internal/ratelimit"
)

const (
	ExitSuccess         = 0
	ExitThresholdFailed = 1
	ExitError           = 2
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	var interrupted atomic.Bool
	go func() {
		<-sigCh
		interrupted.Store(true)
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, stopping after the current trial...")
		cancel()
	}()

	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	if interrupted.Load() && code != ExitError {
		code = ExitSuccess
	}
	os.Exit(code)
}

type options struct {
	configPath      string
	name            string
	iterations      int
	warmup          int
	rate            float64
	timeout         time.Duration
	continueOnError bool
	output          string
	export          string
	quiet           bool
	verbose         bool
}

func parseFlags(args []string, stderr io.Writer) (*options, []string, error) {
	fs := flag.NewFlagSet("stopwatch", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: stopwatch [flags] [-- command args...]")
		fs.PrintDefaults()
	}

	opts := &options{}
	fs.StringVar(&opts.configPath, "config", "", "path to YAML config file")
	fs.StringVar(&opts.name, "name", "", "benchmark name (defaults to the program name)")
	fs.IntVar(&opts.iterations, "n", 0, fmt.Sprintf("measured iterations (default %d)", config.DefaultIterations))
	fs.IntVar(&opts.warmup, "warmup", 0, "warmup iterations before recording")
	fs.Float64Var(&opts.rate, "rate", 0, "max trials per second (0 = unpaced)")
	fs.DurationVar(&opts.timeout, "timeout", 0, "per-trial timeout (0 = none)")
	fs.BoolVar(&opts.continueOnError, "continue-on-error", false, "keep running after a failed trial")
	fs.StringVar(&opts.output, "output", "text", "output format: text, json")
	fs.StringVar(&opts.export, "export", "", "write per-trial records as JSON lines to this file")
	fs.BoolVar(&opts.quiet, "quiet", false, "suppress progress output")
	fs.BoolVar(&opts.verbose, "verbose", false, "log each command run and its output")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	if opts.output != "text" && opts.output != "json" {
		return nil, nil, fmt.Errorf("--output must be 'text' or 'json', got %q", opts.output)
	}
	return opts, fs.Args(), nil
}

// loadConfig merges the config file, if any, with flags. Flags win.
func loadConfig(opts *options, argv []string) (*config.Config, error) {
	cfg := &config.Config{}
	if opts.configPath != "" {
		loaded, err := config.LoadConfig(opts.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if len(argv) > 0 {
		cfg.Benchmark.Command = argv
	}
	if opts.name != "" {
		cfg.Benchmark.Name = opts.name
	}
	if opts.iterations > 0 {
		cfg.Execution.Iterations = opts.iterations
	}
	if opts.warmup > 0 {
		cfg.Execution.Warmup = opts.warmup
	}
	if opts.rate > 0 {
		cfg.Execution.Rate = opts.rate
	}
	if opts.timeout > 0 {
		cfg.Execution.Timeout = opts.timeout
	}
	if opts.continueOnError {
		cfg.Execution.ContinueOnError = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, argv, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintf(stderr, "error: %v\n", err)
		return ExitError
	}

	cfg, err := loadConfig(opts, argv)
	if err != nil {
		for _, e := range multierr.Errors(err) {
			fmt.Fprintf(stderr, "error: %v\n", e)
		}
		return ExitError
	}

	coll := collector.NewCollector()
	prog := progress.NewProgress(coll, opts.quiet)
	prog.SetOutput(stderr)

	var debug *command.DebugLogger
	if opts.verbose {
		debug = command.NewDebugLogger(stderr)
	}
	trial := &command.Command{
		Config:  cfg.Benchmark,
		Timeout: cfg.Execution.Timeout,
		Debug:   debug,
	}

	runner := core.NewRunner(trial, coll, core.RunnerConfig{
		Benchmark:       cfg.Name(),
		MaxIterations:   cfg.TotalIterations(),
		WarmupIters:     cfg.Execution.Warmup,
		ContinueOnError: cfg.Execution.ContinueOnError,
	})
	if cfg.Execution.Rate > 0 {
		runner.SetPacer(ratelimit.NewRateLimiter(cfg.Execution.Rate))
	}

	prog.Printf("Stopwatch starting: %q, %d iterations (%d warmup)",
		cfg.Name(), cfg.TotalIterations(), cfg.Execution.Warmup)
	prog.Start()
	runErr := runner.Run(ctx)
	prog.Stop()
	coll.Close()

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		prog.Printf("Run stopped: %v", runErr)
	}

	summary := coll.Compute()
	var thresholdResults *collector.ThresholdResults
	if cfg.Thresholds != nil {
		thresholdResults = cfg.Thresholds.Check(summary)
	}

	if opts.export != "" {
		if err := exportRecords(opts.export, coll.Records()); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return ExitError
		}
	}

	if opts.output == "json" {
		if err := collector.FormatJSON(stdout, summary, thresholdResults); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return ExitError
		}
	} else {
		collector.FormatText(stdout, summary, thresholdResults)
	}

	if thresholdResults != nil && !thresholdResults.Passed {
		if opts.output == "text" {
			fmt.Fprintln(stderr, "\nThreshold check failed!")
		}
		return ExitThresholdFailed
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) && !cfg.Execution.ContinueOnError {
		return ExitError
	}
	return ExitSuccess
}

func exportRecords(path string, records []core.Record) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()

	enc := json.NewEncoder(f)
	for _, r := range records {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("writing record %d: %w", r.Iteration, err)
		}
	}
	return nil
}
