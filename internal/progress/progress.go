// Package progress prints a live status line while a benchmark runs.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"stopwatch/internal/collector"
)

// Progress periodically renders collector state to its output.
type Progress struct {
	startTime time.Time
	collector *collector.Collector
	interval  time.Duration
	ticker    *time.Ticker
	stopCh    chan struct{}
	stopped   atomic.Bool
	quiet     bool
	output    io.Writer
	mu        sync.Mutex
}

func NewProgress(c *collector.Collector, quiet bool) *Progress {
	return &Progress{
		collector: c,
		quiet:     quiet,
		interval:  time.Second,
		output:    os.Stderr,
	}
}

func (p *Progress) SetOutput(w io.Writer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.output = w
}

// SetInterval changes the refresh period. It must be called before Start.
func (p *Progress) SetInterval(d time.Duration) {
	p.interval = d
}

func (p *Progress) Start() {
	if p.quiet {
		return
	}
	p.startTime = time.Now()
	p.stopCh = make(chan struct{})
	p.ticker = time.NewTicker(p.interval)
	go p.run(p.ticker, p.stopCh)
}

func (p *Progress) run(ticker *time.Ticker, stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			p.printProgress()
		}
	}
}

func (p *Progress) printProgress() {
	s := p.collector.Compute()
	since := time.Since(p.startTime).Round(time.Second)
	mins := int(since.Minutes())
	secs := int(since.Seconds()) % 60

	mean := "-"
	if s.SuccessCount > 0 {
		mean = collector.FormatSeconds(s.Elapsed.Mean)
	}

	p.mu.Lock()
	fmt.Fprintf(p.output, "\033[K[%02d:%02d] Trials: %d | Failures: %d | Mean: %s\r",
		mins, secs, s.Trials, s.FailureCount, mean)
	p.mu.Unlock()
}

func (p *Progress) Stop() {
	if p.quiet || p.stopped.Swap(true) {
		return
	}
	if p.ticker != nil {
		p.ticker.Stop()
	}
	if p.stopCh != nil {
		close(p.stopCh)
	}
	p.mu.Lock()
	fmt.Fprintf(p.output, "\033[K")
	p.mu.Unlock()
}

func (p *Progress) Print(message string) {
	if p.quiet {
		return
	}
	p.mu.Lock()
	fmt.Fprintf(p.output, "\033[K%s\n", message)
	p.mu.Unlock()
}

func (p *Progress) Printf(format string, args ...interface{}) {
	if p.quiet {
		return
	}
	p.mu.Lock()
	fmt.Fprintf(p.output, "\033[K"+format+"\n", args...)
	p.mu.Unlock()
}
