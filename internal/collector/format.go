package collector

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"stopwatch/internal/elapsed"
)

// FormatText writes a summary in human-readable format.
func FormatText(w io.Writer, s *Summary, thresholds *ThresholdResults) {
	if s.Trials == 0 {
		fmt.Fprintln(w, "No trials recorded")
		return
	}

	title := "Stopwatch - Benchmark Results"
	if s.Benchmark != "" {
		title = fmt.Sprintf("Stopwatch - %s", s.Benchmark)
	}

	fmt.Fprintln(w, "")
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, "==============================")
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "Wall time:      %s\n", FormatSeconds(s.WallTime))
	fmt.Fprintf(w, "Trials:         %s\n", formatNumber(s.Trials))
	fmt.Fprintf(w, "Success Rate:   %.1f%% (%s / %s)\n",
		s.SuccessRate, formatNumber(s.SuccessCount), formatNumber(s.Trials))
	fmt.Fprintf(w, "Trials/sec:     %.2f\n", s.TrialsPerSec)

	if s.SuccessCount > 0 {
		fmt.Fprintln(w, "")
		fmt.Fprintln(w, "Elapsed:")
		fmt.Fprintf(w, "  Mean:   %s ± %s\n", FormatSeconds(s.Elapsed.Mean), FormatSeconds(s.Elapsed.StdDev))
		fmt.Fprintf(w, "  Min:    %s\n", FormatSeconds(s.Elapsed.Min))
		fmt.Fprintf(w, "  P50:    %s\n", FormatSeconds(s.Elapsed.P50))
		fmt.Fprintf(w, "  P90:    %s\n", FormatSeconds(s.Elapsed.P90))
		fmt.Fprintf(w, "  P95:    %s\n", FormatSeconds(s.Elapsed.P95))
		fmt.Fprintf(w, "  P99:    %s\n", FormatSeconds(s.Elapsed.P99))
		fmt.Fprintf(w, "  Max:    %s\n", FormatSeconds(s.Elapsed.Max))
		fmt.Fprintf(w, "  Total:  %s\n", FormatSeconds(s.Total))
	}

	if thresholds != nil && len(thresholds.Results) > 0 {
		fmt.Fprintln(w, "")
		fmt.Fprintln(w, "Thresholds:")
		for _, result := range thresholds.Results {
			symbol := "✓"
			if !result.Passed {
				symbol = "✗"
			}
			fmt.Fprintf(w, "  %s %s < %s (actual: %s)\n",
				symbol, result.Name, result.Threshold, result.Actual)
		}
	}
}

// FormatJSON writes a summary as a JSON record. Elapsed values are plain
// numbers of seconds.
func FormatJSON(w io.Writer, s *Summary, thresholds *ThresholdResults) error {
	output := struct {
		*Summary
		Thresholds *ThresholdResults `json:"thresholds,omitempty"`
	}{
		Summary:    s,
		Thresholds: thresholds,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(output); err != nil {
		return fmt.Errorf("encoding summary: %w", err)
	}
	return nil
}

// FormatSeconds formats elapsed seconds for display.
func FormatSeconds(s elapsed.Seconds) string {
	d := s.ToDuration()
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%.1fµs", float64(d)/float64(time.Microsecond))
	case d < time.Second:
		return fmt.Sprintf("%.2fms", float64(d)/float64(time.Millisecond))
	case d < time.Minute:
		return fmt.Sprintf("%.3fs", s.Get())
	}
	return d.Round(time.Millisecond).String()
}

func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%s,%03d", formatNumber(n/1000), n%1000)
}
