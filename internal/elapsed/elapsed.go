// Package elapsed measures and represents elapsed wall-clock time as
// fractional seconds.
package elapsed

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"stopwatch/internal/clock"
)

// Seconds is a span of elapsed time in fractional seconds. The zero value is
// zero seconds. Values are immutable and copied freely.
//
// Seconds encodes as a bare number in both JSON and YAML so it can be embedded
// directly in result records.
type Seconds struct {
	v float64
}

// New wraps seconds verbatim. Negative values are accepted.
func New(seconds float64) Seconds {
	return Seconds{v: seconds}
}

// Zero returns zero seconds.
func Zero() Seconds {
	return Seconds{}
}

// Get returns the stored number of seconds.
func (s Seconds) Get() float64 {
	return s.v
}

// Split breaks s into whole seconds and a nanosecond remainder. Both parts
// are truncated toward zero. The result for negative values is unspecified.
func (s Seconds) Split() (secs int64, nanos int64) {
	whole, frac := math.Modf(s.v)
	return int64(whole), int64(frac * 1e9)
}

// maxDurationSeconds is the largest span, in seconds, a time.Duration holds.
const maxDurationSeconds = float64(math.MaxInt64) / float64(time.Second)

// ToDuration converts s to a time.Duration at nanosecond granularity.
// Values beyond the range of time.Duration saturate at its limits.
func (s Seconds) ToDuration() time.Duration {
	switch {
	case s.v >= maxDurationSeconds:
		return time.Duration(math.MaxInt64)
	case s.v <= -maxDurationSeconds:
		return time.Duration(math.MinInt64)
	}
	secs, nanos := s.Split()
	return time.Duration(secs)*time.Second + time.Duration(nanos)
}

// FromDuration converts d to Seconds. The sub-second part is kept only to
// microsecond precision, so FromDuration(s.ToDuration()) may differ from s
// by up to a microsecond.
func FromDuration(d time.Duration) Seconds {
	secs := d / time.Second
	micros := (d % time.Second).Microseconds()
	return Seconds{v: float64(secs) + float64(micros)/1_000_000.0}
}

func (s Seconds) String() string {
	return strconv.FormatFloat(s.v, 'f', -1, 64) + "s"
}

func (s Seconds) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.v)
}

func (s *Seconds) UnmarshalJSON(data []byte) error {
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("decoding seconds: %w", err)
	}
	s.v = v
	return nil
}

func (s Seconds) MarshalYAML() (interface{}, error) {
	return s.v, nil
}

// UnmarshalYAML accepts a plain number of seconds or a Go duration string
// such as "250ms".
func (s *Seconds) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: seconds must be a scalar", node.Line)
	}
	var v float64
	if err := node.Decode(&v); err == nil {
		s.v = v
		return nil
	}
	d, err := time.ParseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: invalid seconds %q", node.Line, node.Value)
	}
	*s = FromDuration(d)
	return nil
}

// Time runs f and returns its result with the time it took, measured on the
// real clock.
func Time[T any](f func() T) (T, Seconds) {
	return TimeWith(clock.RealClock{}, f)
}

// TimeWith is Time measured on c.
func TimeWith[T any](c clock.Clock, f func() T) (T, Seconds) {
	start := c.Now()
	result := f()
	return result, FromDuration(c.Since(start))
}

// TryTime runs f and returns its value with the time it took. If f fails,
// its error is returned unchanged and no elapsed time is reported: the
// returned Seconds is zero and must be ignored.
func TryTime[T any](f func() (T, error)) (T, Seconds, error) {
	return TryTimeWith(clock.RealClock{}, f)
}

// TryTimeWith is TryTime measured on c.
func TryTimeWith[T any](c clock.Clock, f func() (T, error)) (T, Seconds, error) {
	start := c.Now()
	value, err := f()
	if err != nil {
		var zero T
		return zero, Seconds{}, err
	}
	return value, FromDuration(c.Since(start)), nil
}
