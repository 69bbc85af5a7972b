package eval

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/goforecast/stats"
	"github.com/sartorproj/goforecast/timeseries"
)

func genAR1(n int, phi float64, rng *rand.Rand) []float64 {
	values := make([]float64, n)
	for i := 1; i < n; i++ {
		values[i] = phi*values[i-1] + rng.NormFloat64()
	}
	return values
}

func TestComputeKnownValues(t *testing.T) {
	actuals := []float64{2, 4, 6}
	forecasts := []float64{1, 5, 6}
	train := []float64{1, 2, 3, 4, 5}

	m := Compute(actuals, forecasts, train, 1)

	assert.InDelta(t, math.Sqrt(2.0/3.0), m.RMSE, 1e-12)
	assert.InDelta(t, 2.0/3.0, m.MAE, 1e-12)
	assert.InDelta(t, 25.0, m.MAPE, 1e-12)
	// Training scale is 1, so MASE equals MAE.
	assert.InDelta(t, 2.0/3.0, m.MASE, 1e-12)
	assert.InDelta(t, math.Sqrt(11.0/3.0), m.NaiveRMSE, 1e-12)
}

func TestComputeSeasonalScale(t *testing.T) {
	actuals := []float64{4, 4}
	forecasts := []float64{3, 5}
	train := []float64{1, 2, 3, 4, 5, 6}

	m := Compute(actuals, forecasts, train, 2)

	// Lag-2 training differences are all 2, so MASE halves the MAE.
	assert.InDelta(t, 0.5, m.MASE, 1e-12)
}

func TestComputeZeroActualsSkipMAPE(t *testing.T) {
	m := Compute([]float64{0, 2}, []float64{1, 2}, []float64{1, 2, 3}, 1)
	assert.True(t, math.IsNaN(m.MAPE), "MAPE is undefined when actuals contain zeros")
	assert.False(t, math.IsNaN(m.RMSE))
}

func TestHoldoutBeatsNaiveOnAR1(t *testing.T) {
	rng := rand.New(rand.NewSource(30))
	series := timeseries.New(genAR1(300, 0.8, rng))

	report, err := Holdout(series, &Config{TestHorizon: 40})
	require.NoError(t, err)

	assert.Equal(t, 260, report.TrainSize)
	assert.Equal(t, 40, report.TestSize)
	require.NotNil(t, report.Selection)
	require.Len(t, report.Forecast.Mean, 40)

	// A mean-reverting forecast should not lose to freezing the last
	// observation over a long horizon.
	assert.LessOrEqual(t, report.Metrics.RMSE, report.Metrics.NaiveRMSE*1.05,
		"model RMSE %.4f vs naive %.4f", report.Metrics.RMSE, report.Metrics.NaiveRMSE)
}

func TestHoldoutDefaultSplit(t *testing.T) {
	rng := rand.New(rand.NewSource(31))
	series := timeseries.New(genAR1(200, 0.5, rng))

	report, err := Holdout(series, nil)
	require.NoError(t, err)

	assert.Equal(t, 160, report.TrainSize)
	assert.Equal(t, 40, report.TestSize)
	assert.Positive(t, report.Metrics.MASE)
}

func TestHoldoutTooShort(t *testing.T) {
	series := timeseries.New(make([]float64, 12))

	_, err := Holdout(series, nil)
	assert.ErrorIs(t, err, stats.ErrInsufficientData)
}
