package timeseries

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiff(t *testing.T) {
	s := New([]float64{1, 3, 6, 10, 15})
	d := s.Diff()

	require.Equal(t, 4, d.Len())
	assert.Equal(t, []float64{2, 3, 4, 5}, d.Values)

	// The source series must be untouched.
	assert.Equal(t, []float64{1, 3, 6, 10, 15}, s.Values)
}

func TestSeasonalDiff(t *testing.T) {
	s := New([]float64{10, 20, 30, 13, 24, 36})
	d := s.SeasonalDiff(3)

	require.Equal(t, 3, d.Len())
	assert.Equal(t, []float64{3, 4, 6}, d.Values)
}

func TestDiffIntegrateRoundTrip(t *testing.T) {
	values := []float64{100, 102.5, 101.3, 104.8, 103.2, 107.9, 110.4, 108.8, 112.1, 115.6}

	for d := 0; d <= 2; d++ {
		s := New(values)
		diffed := s
		for i := 0; i < d; i++ {
			diffed = diffed.Diff()
		}

		// Undifference d times. Each level's seed is the value just before
		// the first recovered point: the first recovered point sits at
		// index d-i of the level-i series.
		recovered := diffed.Values
		for i := d - 1; i >= 0; i-- {
			level := s
			for j := 0; j < i; j++ {
				level = level.Diff()
			}
			recovered = Integrate(recovered, level.Values[d-1-i:d-i], 1)
		}

		require.Equal(t, len(values)-d, len(recovered), "d=%d", d)
		for i, v := range recovered {
			assert.InDelta(t, values[i+d], v, 1e-9, "d=%d i=%d", d, i)
		}
	}
}

func TestIntegrateContinuesSeries(t *testing.T) {
	// Forecast-style use: integrate future differences seeded with the
	// last observed value.
	diffed := []float64{1, 2, 3}
	out := Integrate(diffed, []float64{100}, 1)
	assert.Equal(t, []float64{101, 103, 106}, out)
}

func TestSplitFraction(t *testing.T) {
	s := New([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})
	train, test := s.SplitFraction(0.8)

	assert.Equal(t, 8, train.Len())
	assert.Equal(t, 2, test.Len())
	assert.Equal(t, 9.0, test.Values[0])

	// Splits are copies, not views.
	train.Values[0] = -1
	assert.Equal(t, 1.0, s.Values[0])
}

func TestNewWithTimestampsRejectsIrregular(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ts := []time.Time{base, base.Add(24 * time.Hour), base.Add(72 * time.Hour)}

	_, err := NewWithTimestamps(ts, []float64{1, 2, 3})
	assert.ErrorIs(t, err, ErrIrregular)
}

func TestPeriodAndExtendTimestamps(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ts := make([]time.Time, 5)
	for i := range ts {
		ts[i] = base.Add(time.Duration(i) * time.Hour)
	}
	s, err := NewWithTimestamps(ts, []float64{1, 2, 3, 4, 5})
	require.NoError(t, err)

	assert.Equal(t, time.Hour, s.Period())

	ext := s.ExtendTimestamps(3)
	require.Len(t, ext, 3)
	assert.Equal(t, ts[4].Add(time.Hour), ext[0])
	assert.Equal(t, ts[4].Add(3*time.Hour), ext[2])
}

func TestMeanVariance(t *testing.T) {
	s := New([]float64{2, 4, 4, 4, 5, 5, 7, 9})

	assert.InDelta(t, 5.0, s.Mean(), 1e-12)
	assert.InDelta(t, 4.571428571, s.Variance(), 1e-6)
	assert.InDelta(t, math.Sqrt(s.Variance()), s.Std(), 1e-12)
}

func TestTail(t *testing.T) {
	s := New([]float64{1, 2, 3, 4})
	assert.Equal(t, []float64{3, 4}, s.Tail(2))
	assert.Equal(t, []float64{1, 2, 3, 4}, s.Tail(10))
}
