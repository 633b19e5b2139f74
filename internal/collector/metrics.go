package collector

import (
	"math"
	"sort"

	"stopwatch/internal/core"
	"stopwatch/internal/elapsed"
)

// Summary contains aggregated benchmark results.
type Summary struct {
	Benchmark    string          `json:"benchmark,omitempty"`
	Trials       int             `json:"trials"`
	SuccessCount int             `json:"successCount"`
	FailureCount int             `json:"failureCount"`
	SuccessRate  float64         `json:"successRate"`
	TrialsPerSec float64         `json:"trialsPerSec"`
	WallTime     elapsed.Seconds `json:"wallTime"`
	Total        elapsed.Seconds `json:"total"`
	Elapsed      Stats           `json:"elapsed"`
}

// Stats contains elapsed-time statistics over successful trials.
type Stats struct {
	Min    elapsed.Seconds `json:"min"`
	Max    elapsed.Seconds `json:"max"`
	Mean   elapsed.Seconds `json:"mean"`
	StdDev elapsed.Seconds `json:"stddev"`
	P50    elapsed.Seconds `json:"p50"`
	P90    elapsed.Seconds `json:"p90"`
	P95    elapsed.Seconds `json:"p95"`
	P99    elapsed.Seconds `json:"p99"`
}

// ComputeSummary computes a summary from records. Pure function, no side effects.
// Failed trials count toward totals but carry no elapsed time.
func ComputeSummary(records []core.Record, wall elapsed.Seconds) *Summary {
	s := &Summary{WallTime: wall}
	if len(records) == 0 {
		return s
	}
	s.Benchmark = records[0].Benchmark

	values := make([]float64, 0, len(records))
	for _, r := range records {
		s.Trials++
		if !r.Success {
			s.FailureCount++
			continue
		}
		s.SuccessCount++
		if r.Elapsed != nil {
			values = append(values, r.Elapsed.Get())
		}
	}

	s.SuccessRate = float64(s.SuccessCount) / float64(s.Trials) * 100
	if wall.Get() > 0 {
		s.TrialsPerSec = float64(s.Trials) / wall.Get()
	}

	var total float64
	for _, v := range values {
		total += v
	}
	s.Total = elapsed.New(total)
	s.Elapsed = ComputeStats(values)
	return s
}

// ComputePercentile returns the p-th percentile of sorted using the nearest
// rank method.
func ComputePercentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}
	index := int(float64(len(sorted)-1) * p)
	return sorted[index]
}

// ComputeStats calculates elapsed statistics from seconds values.
func ComputeStats(values []float64) Stats {
	if len(values) == 0 {
		return Stats{}
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	mean := sum / float64(len(sorted))

	var stddev float64
	if len(sorted) > 1 {
		var sq float64
		for _, v := range sorted {
			sq += (v - mean) * (v - mean)
		}
		stddev = math.Sqrt(sq / float64(len(sorted)-1))
	}

	return Stats{
		Min:    elapsed.New(sorted[0]),
		Max:    elapsed.New(sorted[len(sorted)-1]),
		Mean:   elapsed.New(mean),
		StdDev: elapsed.New(stddev),
		P50:    elapsed.New(ComputePercentile(sorted, 0.50)),
		P90:    elapsed.New(ComputePercentile(sorted, 0.90)),
		P95:    elapsed.New(ComputePercentile(sorted, 0.95)),
		P99:    elapsed.New(ComputePercentile(sorted, 0.99)),
	}
}
