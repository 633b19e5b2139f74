package collector

import (
	"fmt"
	"strconv"
	"strings"

	"stopwatch/internal/elapsed"
)

// Thresholds defines pass/fail criteria for a benchmark. Zero limits are ignored.
type Thresholds struct {
	Mean        elapsed.Seconds `yaml:"mean"`
	P95         elapsed.Seconds `yaml:"p95"`
	P99         elapsed.Seconds `yaml:"p99"`
	Max         elapsed.Seconds `yaml:"max"`
	FailureRate string          `yaml:"failure_rate"`
}

// ThresholdResult represents the outcome of a single threshold check.
type ThresholdResult struct {
	Name      string `json:"name"`
	Passed    bool   `json:"passed"`
	Threshold string `json:"threshold"`
	Actual    string `json:"actual"`
}

// ThresholdResults contains all threshold check results.
type ThresholdResults struct {
	Passed  bool              `json:"passed"`
	Results []ThresholdResult `json:"results"`
}

// Check evaluates all thresholds against a summary.
func (t *Thresholds) Check(s *Summary) *ThresholdResults {
	if t == nil {
		return &ThresholdResults{Passed: true, Results: nil}
	}

	results := &ThresholdResults{
		Passed:  true,
		Results: make([]ThresholdResult, 0),
	}

	checks := []struct {
		name      string
		threshold elapsed.Seconds
		actual    elapsed.Seconds
	}{
		{"elapsed.mean", t.Mean, s.Elapsed.Mean},
		{"elapsed.p95", t.P95, s.Elapsed.P95},
		{"elapsed.p99", t.P99, s.Elapsed.P99},
		{"elapsed.max", t.Max, s.Elapsed.Max},
	}
	for _, check := range checks {
		if check.threshold.Get() == 0 {
			continue
		}
		results.add(ThresholdResult{
			Name:      check.name,
			Passed:    check.actual.Get() < check.threshold.Get(),
			Threshold: FormatSeconds(check.threshold),
			Actual:    FormatSeconds(check.actual),
		})
	}

	if t.FailureRate != "" {
		results.checkFailureRate(t.FailureRate, s)
	}

	return results
}

func (r *ThresholdResults) add(result ThresholdResult) {
	if !result.Passed {
		r.Passed = false
	}
	r.Results = append(r.Results, result)
}

func (r *ThresholdResults) checkFailureRate(limit string, s *Summary) {
	thresholdRate, err := parsePercentage(limit)
	if err != nil {
		r.add(ThresholdResult{
			Name:      "failure_rate",
			Threshold: limit,
			Actual:    err.Error(),
		})
		return
	}

	actualRate := 0.0
	if s.Trials > 0 {
		actualRate = 100.0 - s.SuccessRate
	}
	r.add(ThresholdResult{
		Name:      "failure_rate",
		Passed:    actualRate < thresholdRate,
		Threshold: limit,
		Actual:    fmt.Sprintf("%.2f%%", actualRate),
	})
}

func parsePercentage(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if !strings.HasSuffix(s, "%") {
		return 0, fmt.Errorf("invalid percentage format: %s", s)
	}
	return strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
}

// Violations returns only the failed threshold results.
func (r *ThresholdResults) Violations() []ThresholdResult {
	violations := make([]ThresholdResult, 0)
	for _, result := range r.Results {
		if !result.Passed {
			violations = append(violations, result)
		}
	}
	return violations
}
