package stats

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/goforecast/timeseries"
)

func TestLjungBoxWhiteNoise(t *testing.T) {
	rng := rand.New(rand.NewSource(10))
	resid := make([]float64, 200)
	for i := range resid {
		resid[i] = rng.NormFloat64()
	}

	result := LjungBox(resid, 10, 0)
	require.NotNil(t, result)

	assert.Equal(t, 10, result.DOF)
	assert.Greater(t, result.PValue, 0.05, "white noise should not be flagged, Q=%.3f", result.Statistic)
}

func TestLjungBoxFalsePositiveRate(t *testing.T) {
	// For true white noise the test should keep its nominal size: the
	// p-value exceeds 0.05 in at least 90% of repeated trials.
	rng := rand.New(rand.NewSource(11))
	trials := 200
	passed := 0

	for trial := 0; trial < trials; trial++ {
		resid := make([]float64, 150)
		for i := range resid {
			resid[i] = rng.NormFloat64()
		}
		result := LjungBox(resid, 10, 0)
		require.NotNil(t, result)
		if result.PValue > 0.05 {
			passed++
		}
	}

	rate := float64(passed) / float64(trials)
	assert.GreaterOrEqual(t, rate, 0.90, "false positive rate too high: %.2f", 1-rate)
}

func TestLjungBoxAutocorrelated(t *testing.T) {
	rng := rand.New(rand.NewSource(12))
	resid := make([]float64, 300)
	for i := 1; i < len(resid); i++ {
		resid[i] = 0.7*resid[i-1] + rng.NormFloat64()
	}

	result := LjungBox(resid, 10, 0)
	require.NotNil(t, result)

	assert.Less(t, result.PValue, 0.01, "AR(1) residuals must be flagged, Q=%.3f", result.Statistic)
}

func TestLjungBoxDOFFloor(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	resid := make([]float64, 100)
	for i := range resid {
		resid[i] = rng.NormFloat64()
	}

	result := LjungBox(resid, 5, 8)
	require.NotNil(t, result)
	assert.Equal(t, 1, result.DOF)
}

func TestDefaultLjungBoxLags(t *testing.T) {
	assert.Equal(t, 10, DefaultLjungBoxLags(300))
	assert.Equal(t, 4, DefaultLjungBoxLags(20))
	assert.Equal(t, 1, DefaultLjungBoxLags(3))
}

func TestACFLagZero(t *testing.T) {
	rng := rand.New(rand.NewSource(14))
	series := timeseries.New(ar1(100, 0.6, rng))

	r := ACF(series, 10)
	require.NotNil(t, r)
	assert.InDelta(t, 1.0, r[0], 1e-12)
}

func TestPACFCutsOffForAR1(t *testing.T) {
	rng := rand.New(rand.NewSource(15))
	series := timeseries.New(ar1(1000, 0.7, rng))

	pacf := PACF(series, 8)
	require.NotNil(t, pacf)

	assert.InDelta(t, 0.7, pacf[1], 0.1)
	bound := ConfidenceBound(series.Len())
	for k := 3; k <= 8; k++ {
		assert.Less(t, math.Abs(pacf[k]), 4*bound, "PACF at lag %d should be near zero", k)
	}
}
