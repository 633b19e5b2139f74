package collector

import (
	"context"
	"sync"
	"testing"
	"time"

	"stopwatch/internal/clock"
	"stopwatch/internal/core"
	"stopwatch/internal/elapsed"
)

func ok(seconds float64) core.Record {
	e := elapsed.New(seconds)
	return core.Record{Benchmark: "bench", Success: true, Elapsed: &e}
}

func failed(msg string) core.Record {
	return core.Record{Benchmark: "bench", Success: false, Error: msg}
}

func TestCollector_CollectsRecords(t *testing.T) {
	c := NewCollector()
	c.Report(ok(0.01))
	c.Report(failed("exit status 1"))
	c.Close()

	if records := c.Records(); len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
}

func TestCollector_Compute(t *testing.T) {
	fc := clock.NewFakeClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	c := NewCollectorWithClock(fc)
	c.Report(ok(0.5))
	c.Report(ok(1.5))
	c.Report(failed("boom"))
	fc.Advance(3 * time.Second)
	c.Close()

	s := c.Compute()
	if s.Trials != 3 {
		t.Errorf("expected 3 trials, got %d", s.Trials)
	}
	if s.SuccessCount != 2 || s.FailureCount != 1 {
		t.Errorf("expected 2 success / 1 failure, got %d / %d", s.SuccessCount, s.FailureCount)
	}
	if s.WallTime.Get() != 3 {
		t.Errorf("expected wall time 3s, got %v", s.WallTime)
	}
	if s.TrialsPerSec != 1 {
		t.Errorf("expected 1 trial/sec, got %v", s.TrialsPerSec)
	}
	if s.Elapsed.Mean.Get() != 1 {
		t.Errorf("expected mean 1s, got %v", s.Elapsed.Mean)
	}
	if s.Total.Get() != 2 {
		t.Errorf("expected total 2s, got %v", s.Total)
	}
	if s.Benchmark != "bench" {
		t.Errorf("expected benchmark name, got %q", s.Benchmark)
	}
}

func TestCollector_WallTimeWhileOpen(t *testing.T) {
	fc := clock.NewFakeClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	c := NewCollectorWithClock(fc)
	defer c.Close()

	fc.Advance(1250 * time.Millisecond)
	if got := c.WallTime().Get(); got != 1.25 {
		t.Errorf("expected 1.25s while open, got %v", got)
	}
}

func TestCollector_ThreadSafety(t *testing.T) {
	c := NewCollector()
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				c.Report(ok(0.001))
			}
		}()
	}

	wg.Wait()
	c.Close()

	if got := len(c.Records()); got != 400 {
		t.Errorf("expected 400 records, got %d", got)
	}
}

func TestCollector_KeepsEveryRecordFromRunner(t *testing.T) {
	const iterations = 20 * defaultBufferSize

	c := NewCollector()
	runner := core.NewRunner(core.TrialFunc(func(ctx context.Context) error { return nil }), c,
		core.RunnerConfig{Benchmark: "noop", MaxIterations: iterations})
	if err := runner.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c.Close()

	records := c.Records()
	if len(records) != iterations {
		t.Fatalf("expected %d records, got %d", iterations, len(records))
	}
	if s := c.Compute(); s.Trials != iterations || s.SuccessCount != iterations {
		t.Errorf("expected summary over all %d trials, got %d (%d successful)",
			iterations, s.Trials, s.SuccessCount)
	}
	if last := records[len(records)-1].Iteration; last != iterations {
		t.Errorf("expected last iteration %d, got %d", iterations, last)
	}
}

func TestCollector_HandlesNoRecords(t *testing.T) {
	c := NewCollector()
	c.Close()

	s := c.Compute()
	if s.Trials != 0 {
		t.Errorf("expected 0 trials, got %d", s.Trials)
	}
	if s.Elapsed != (Stats{}) {
		t.Errorf("expected empty stats, got %+v", s.Elapsed)
	}
}

func TestComputeSummary_AllFailed(t *testing.T) {
	s := ComputeSummary([]core.Record{failed("a"), failed("b")}, elapsed.New(1))

	if s.SuccessRate != 0 {
		t.Errorf("expected 0%% success, got %.1f", s.SuccessRate)
	}
	if s.Elapsed.Max.Get() != 0 {
		t.Errorf("expected no elapsed statistics, got %+v", s.Elapsed)
	}
}

func TestComputePercentile(t *testing.T) {
	sorted := []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}

	tests := []struct {
		p    float64
		want float64
	}{
		{0, 10},
		{0.5, 50},
		{0.9, 90},
		{1, 100},
	}
	for _, tt := range tests {
		if got := ComputePercentile(sorted, tt.p); got != tt.want {
			t.Errorf("p%v: expected %v, got %v", tt.p*100, tt.want, got)
		}
	}
	if got := ComputePercentile(nil, 0.5); got != 0 {
		t.Errorf("expected 0 for empty input, got %v", got)
	}
}

func TestComputeStats(t *testing.T) {
	st := ComputeStats([]float64{4, 2, 8, 6})

	if st.Min.Get() != 2 || st.Max.Get() != 8 {
		t.Errorf("expected min 2 / max 8, got %v / %v", st.Min, st.Max)
	}
	if st.Mean.Get() != 5 {
		t.Errorf("expected mean 5, got %v", st.Mean)
	}
	// sample variance: (9+1+1+9)/3
	if got := st.StdDev.Get(); got < 2.58 || got > 2.59 {
		t.Errorf("expected stddev ~2.582, got %v", got)
	}
	if st.P50.Get() != 4 {
		t.Errorf("expected p50 4, got %v", st.P50)
	}
}

func TestComputeStats_SingleValue(t *testing.T) {
	st := ComputeStats([]float64{0.25})
	if st.Min.Get() != 0.25 || st.P99.Get() != 0.25 || st.StdDev.Get() != 0 {
		t.Errorf("unexpected stats for single value: %+v", st)
	}
}
