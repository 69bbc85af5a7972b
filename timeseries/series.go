package timeseries

import (
	"errors"
	"math"
	"time"
)

// Series represents a univariate time series with timestamps and values.
// A Series is treated as read-only once constructed: every operation
// returns a new Series and never modifies the receiver.
type Series struct {
	Timestamps []time.Time
	Values     []float64
	Name       string
}

// ErrIrregular is returned when timestamps are not strictly increasing at
// a constant sampling period.
var ErrIrregular = errors.New("timeseries: timestamps must be strictly increasing at a constant period")

// New creates a series from values with synthetic daily timestamps.
func New(values []float64) *Series {
	timestamps := make([]time.Time, len(values))
	base := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range timestamps {
		timestamps[i] = base.AddDate(0, 0, i)
	}
	return &Series{
		Timestamps: timestamps,
		Values:     values,
	}
}

// NewWithTimestamps creates a series with explicit timestamps. The
// timestamps must be strictly increasing with constant spacing.
func NewWithTimestamps(timestamps []time.Time, values []float64) (*Series, error) {
	if len(timestamps) != len(values) {
		return nil, errors.New("timeseries: timestamps and values must have the same length")
	}
	if len(timestamps) >= 2 {
		period := timestamps[1].Sub(timestamps[0])
		if period <= 0 {
			return nil, ErrIrregular
		}
		for i := 2; i < len(timestamps); i++ {
			if timestamps[i].Sub(timestamps[i-1]) != period {
				return nil, ErrIrregular
			}
		}
	}
	return &Series{
		Timestamps: timestamps,
		Values:     values,
	}, nil
}

// Len returns the number of observations.
func (s *Series) Len() int {
	return len(s.Values)
}

// Period returns the sampling period, or zero for series shorter than two
// observations.
func (s *Series) Period() time.Duration {
	if len(s.Timestamps) < 2 {
		return 0
	}
	return s.Timestamps[1].Sub(s.Timestamps[0])
}

// Mean calculates the arithmetic mean of the series.
func (s *Series) Mean() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range s.Values {
		sum += v
	}
	return sum / float64(len(s.Values))
}

// Variance calculates the sample variance of the series.
func (s *Series) Variance() float64 {
	if len(s.Values) < 2 {
		return 0
	}
	mean := s.Mean()
	sumSq := 0.0
	for _, v := range s.Values {
		diff := v - mean
		sumSq += diff * diff
	}
	return sumSq / float64(len(s.Values)-1)
}

// Std calculates the standard deviation of the series.
func (s *Series) Std() float64 {
	return math.Sqrt(s.Variance())
}

// Diff calculates the first difference of the series (d=1).
func (s *Series) Diff() *Series {
	return s.DiffLag(1)
}

// DiffLag differences the series at lag k: y'_t = y_t - y_{t-k}.
// Lag 1 is ordinary differencing, lag m is seasonal differencing.
func (s *Series) DiffLag(k int) *Series {
	if k <= 0 || len(s.Values) <= k {
		return &Series{Values: []float64{}}
	}

	result := make([]float64, len(s.Values)-k)
	for i := k; i < len(s.Values); i++ {
		result[i-k] = s.Values[i] - s.Values[i-k]
	}

	timestamps := make([]time.Time, len(result))
	if len(s.Timestamps) > k {
		copy(timestamps, s.Timestamps[k:])
	}

	return &Series{
		Timestamps: timestamps,
		Values:     result,
		Name:       s.Name + "_diff",
	}
}

// SeasonalDiff calculates the seasonal difference with period m.
func (s *Series) SeasonalDiff(m int) *Series {
	return s.DiffLag(m)
}

// Integrate undoes one order of lag-k differencing. The seed slice must
// end with the last k observed values of the undifferenced series, so the
// result continues that series on the original scale.
func Integrate(diffed []float64, seed []float64, k int) []float64 {
	result := make([]float64, len(diffed))
	for i := range diffed {
		var base float64
		if i < k {
			base = seed[len(seed)-k+i]
		} else {
			base = result[i-k]
		}
		result[i] = diffed[i] + base
	}
	return result
}

// SplitAt splits the series chronologically into s[:i] and s[i:].
// Order is preserved; there is no shuffling.
func (s *Series) SplitAt(i int) (train, test *Series) {
	if i < 0 {
		i = 0
	}
	if i > len(s.Values) {
		i = len(s.Values)
	}
	return s.Slice(0, i), s.Slice(i, len(s.Values))
}

// SplitFraction splits the series chronologically with the first
// fraction of observations in the training part.
func (s *Series) SplitFraction(fraction float64) (train, test *Series) {
	i := int(math.Round(fraction * float64(len(s.Values))))
	return s.SplitAt(i)
}

// Slice returns a copy of the series from start to end (exclusive).
func (s *Series) Slice(start, end int) *Series {
	if start < 0 {
		start = 0
	}
	if end > len(s.Values) {
		end = len(s.Values)
	}
	if start >= end {
		return &Series{Values: []float64{}}
	}

	values := make([]float64, end-start)
	copy(values, s.Values[start:end])

	var timestamps []time.Time
	if len(s.Timestamps) >= end {
		timestamps = make([]time.Time, end-start)
		copy(timestamps, s.Timestamps[start:end])
	}

	return &Series{
		Timestamps: timestamps,
		Values:     values,
		Name:       s.Name,
	}
}

// Tail returns a copy of the last n values of the series.
func (s *Series) Tail(n int) []float64 {
	if n > len(s.Values) {
		n = len(s.Values)
	}
	out := make([]float64, n)
	copy(out, s.Values[len(s.Values)-n:])
	return out
}

// Copy creates a deep copy of the series.
func (s *Series) Copy() *Series {
	values := make([]float64, len(s.Values))
	copy(values, s.Values)

	timestamps := make([]time.Time, len(s.Timestamps))
	copy(timestamps, s.Timestamps)

	return &Series{
		Timestamps: timestamps,
		Values:     values,
		Name:       s.Name,
	}
}

// ExtendTimestamps returns h timestamps continuing past the last
// observation at the sampling period. Falls back to daily spacing when
// the series has no usable period.
func (s *Series) ExtendTimestamps(h int) []time.Time {
	out := make([]time.Time, h)
	period := s.Period()
	if period <= 0 {
		period = 24 * time.Hour
	}
	last := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	if len(s.Timestamps) > 0 {
		last = s.Timestamps[len(s.Timestamps)-1]
	}
	for i := range out {
		last = last.Add(period)
		out[i] = last
	}
	return out
}
