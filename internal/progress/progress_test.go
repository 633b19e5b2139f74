package progress

import (
	"strings"
	"sync"
	"testing"
	"time"

	"stopwatch/internal/collector"
	"stopwatch/internal/core"
	"stopwatch/internal/elapsed"
)

// syncBuffer is a thread-safe io.Writer for testing.
type syncBuffer struct {
	mu   sync.Mutex
	data []byte
}

func (w *syncBuffer) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.data = append(w.data, p...)
	return len(p), nil
}

func (w *syncBuffer) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return string(w.data)
}

func TestNewProgress(t *testing.T) {
	c := collector.NewCollector()
	defer c.Close()

	p := NewProgress(c, false)
	if p.collector != c {
		t.Error("collector not assigned")
	}
	if p.quiet {
		t.Error("quiet should be false")
	}
	if p.interval != time.Second {
		t.Errorf("expected default interval 1s, got %v", p.interval)
	}
}

func TestProgress_QuietMode(t *testing.T) {
	c := collector.NewCollector()
	defer c.Close()

	var buf syncBuffer
	p := NewProgress(c, true)
	p.SetOutput(&buf)

	p.Start()
	p.Print("hello")
	p.Printf("trial %d", 1)
	p.Stop()

	if buf.String() != "" {
		t.Errorf("expected no output in quiet mode, got %q", buf.String())
	}
}

func TestProgress_DoubleStop(t *testing.T) {
	c := collector.NewCollector()
	defer c.Close()

	p := NewProgress(c, false)
	p.SetOutput(&syncBuffer{})
	p.Start()

	p.Stop()
	p.Stop()
}

func TestProgress_StopWithoutStart(t *testing.T) {
	c := collector.NewCollector()
	defer c.Close()

	p := NewProgress(c, false)
	p.SetOutput(&syncBuffer{})
	p.Stop()
}

func TestProgress_Printf(t *testing.T) {
	c := collector.NewCollector()
	defer c.Close()

	var buf syncBuffer
	p := NewProgress(c, false)
	p.SetOutput(&buf)
	p.Printf("Benchmark %q: %d trials", "sleep", 10)

	if !strings.Contains(buf.String(), `Benchmark "sleep": 10 trials`) {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestProgress_PrintsStatus(t *testing.T) {
	c := collector.NewCollector()
	e := elapsed.New(0.002)
	c.Report(core.Record{Success: true, Elapsed: &e})
	c.Report(core.Record{Success: false, Error: "boom"})

	var buf syncBuffer
	p := NewProgress(c, false)
	p.SetOutput(&buf)
	p.SetInterval(10 * time.Millisecond)
	p.Start()

	deadline := time.Now().Add(2 * time.Second)
	for !strings.Contains(buf.String(), "Trials: 2 | Failures: 1 | Mean: 2.00ms") {
		if time.Now().After(deadline) {
			t.Fatalf("status line never appeared, got %q", buf.String())
		}
		time.Sleep(5 * time.Millisecond)
	}
	p.Stop()
	c.Close()
}
