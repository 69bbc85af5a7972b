package autoarima

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/goforecast/arima"
	"github.com/sartorproj/goforecast/timeseries"
)

func genARMA(n int, phi, theta float64, rng *rand.Rand) []float64 {
	values := make([]float64, n)
	prevEps := 0.0
	for i := 1; i < n; i++ {
		eps := rng.NormFloat64()
		values[i] = phi*values[i-1] + eps + theta*prevEps
		prevEps = eps
	}
	return values
}

func cumsum(values []float64) []float64 {
	out := make([]float64, len(values))
	sum := 0.0
	for i, v := range values {
		sum += v
		out[i] = sum
	}
	return out
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 5, cfg.MaxP)
	assert.Equal(t, 2, cfg.MaxD)
	assert.Equal(t, 5, cfg.MaxQ)
	assert.Equal(t, Stepwise, cfg.Mode)
	assert.Equal(t, AICc, cfg.Criterion)
	assert.Equal(t, 0.05, cfg.Alpha)
	assert.Positive(t, cfg.Parallelism)
}

func TestAutoARIMAWhiteNoise(t *testing.T) {
	rng := rand.New(rand.NewSource(20))
	values := make([]float64, 500)
	for i := range values {
		values[i] = rng.NormFloat64()
	}

	result, err := AutoARIMA(timeseries.New(values), DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, 0, result.Spec.D)
	assert.LessOrEqual(t, result.Spec.TotalOrder(), 1,
		"white noise should select the lowest-order candidate, got %s", result.Spec)
	assert.False(t, result.NonStationary)
	assert.Positive(t, result.ModelsEvaluated)
}

func TestAutoARIMARecoversARIMA111(t *testing.T) {
	rng := rand.New(rand.NewSource(21))
	values := cumsum(genARMA(330, 0.5, 0.3, rng))
	series := timeseries.New(values[:300])

	cfg := DefaultConfig()
	cfg.MaxP = 3
	cfg.MaxQ = 3

	result, err := AutoARIMA(series, cfg)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Spec.D)
	assert.LessOrEqual(t, result.Spec.P, 2)
	assert.LessOrEqual(t, result.Spec.Q, 2)

	// The held-back tail should mostly fall inside the 95% band.
	fc, err := result.Forecast(30, []float64{0.95})
	require.NoError(t, err)

	inside := 0
	band := fc.Bands[0]
	for j := 0; j < 30; j++ {
		actual := values[300+j]
		if actual >= band.Lower[j] && actual <= band.Upper[j] {
			inside++
		}
	}
	assert.GreaterOrEqual(t, inside, 24, "only %d/30 actuals inside the 95%% interval", inside)
}

func TestAutoARIMAExhaustive(t *testing.T) {
	rng := rand.New(rand.NewSource(22))
	series := timeseries.New(genARMA(400, 0.7, 0, rng))

	cfg := DefaultConfig()
	cfg.Mode = Exhaustive
	cfg.MaxP = 2
	cfg.MaxQ = 2

	result, err := AutoARIMA(series, cfg)
	require.NoError(t, err)

	// The grid has 9 candidates; the winner must beat or match the
	// white-noise baseline.
	baseline := arima.New(arima.Spec{Intercept: result.Spec.Intercept})
	require.NoError(t, baseline.Fit(series))
	assert.LessOrEqual(t, result.CriterionValue, baseline.AICc+criterionTol)
	assert.GreaterOrEqual(t, result.Spec.P+result.Spec.Q, 1, "AR(1) data should not select white noise")
}

func TestAutoARIMADeterministicSelection(t *testing.T) {
	rng := rand.New(rand.NewSource(23))
	values := genARMA(300, 0.5, 0, rng)

	var specs []arima.Spec
	for i := 0; i < 3; i++ {
		result, err := AutoARIMA(timeseries.New(values), DefaultConfig())
		require.NoError(t, err)
		specs = append(specs, result.Spec)
	}

	assert.Equal(t, specs[0], specs[1])
	assert.Equal(t, specs[1], specs[2])
}

func TestAutoARIMANonStationaryWarning(t *testing.T) {
	rng := rand.New(rand.NewSource(24))
	values := cumsum(cumsum(cumsum(genARMA(300, 0, 0, rng))))

	result, err := AutoARIMA(timeseries.New(values), DefaultConfig())
	require.NoError(t, err)

	assert.True(t, result.NonStationary, "triple-integrated noise cannot be stationary at d=2")
	assert.Equal(t, 2, result.Spec.D)
}

func TestAutoARIMASurvivesCandidateFailures(t *testing.T) {
	// A one-iteration optimizer budget makes every non-trivial candidate
	// fail estimation; the search should recover with the white-noise
	// model rather than abort.
	rng := rand.New(rand.NewSource(25))
	series := timeseries.New(genARMA(200, 0.4, 0, rng))

	cfg := DefaultConfig()
	cfg.MaxFitIterations = 1

	result, err := AutoARIMA(series, cfg)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Spec.TotalOrder())
}

func TestSearchExhausted(t *testing.T) {
	// Too short for any candidate to fit once differencing is fixed.
	series := timeseries.New([]float64{1, 2, 1, 3, 2, 4, 3, 5, 4, 6, 5})

	_, err := newSearch(series, 2, 0, DefaultConfig()).run()
	assert.ErrorIs(t, err, ErrSearchExhausted)
}

func TestAutoARIMASeasonal(t *testing.T) {
	rng := rand.New(rand.NewSource(26))
	n := 160
	period := 4
	values := make([]float64, n)
	seasonal := []float64{5, -2, -4, 1}
	for i := range values {
		values[i] = seasonal[i%period] + 0.5*rng.NormFloat64()
	}

	cfg := DefaultConfig()
	cfg.Seasonal = true
	cfg.SeasonalM = period
	cfg.MaxP = 1
	cfg.MaxQ = 1
	cfg.MaxSP = 1
	cfg.MaxSQ = 1
	cfg.MaxOrder = 3

	result, err := AutoARIMA(timeseries.New(values), cfg)
	require.NoError(t, err)

	assert.Equal(t, period, result.Spec.M)
	assert.Equal(t, 1, result.Spec.SD, "strong seasonality should trigger seasonal differencing")

	fc, err := result.Forecast(8, []float64{0.95})
	require.NoError(t, err)
	assert.Len(t, fc.Mean, 8)
}

func TestAutoARIMALeaderboard(t *testing.T) {
	rng := rand.New(rand.NewSource(27))
	series := timeseries.New(genARMA(250, 0.5, 0, rng))

	cfg := DefaultConfig()
	cfg.Leaderboard = 3

	result, err := AutoARIMA(series, cfg)
	require.NoError(t, err)

	require.NotEmpty(t, result.Leaderboard)
	assert.LessOrEqual(t, len(result.Leaderboard), 3)
	assert.Equal(t, result.Spec, result.Leaderboard[0].Spec)

	for i := 1; i < len(result.Leaderboard); i++ {
		a := result.Leaderboard[i-1].Criterion(string(cfg.Criterion))
		b := result.Leaderboard[i].Criterion(string(cfg.Criterion))
		assert.LessOrEqual(t, a, b+criterionTol)
	}
}

func TestAutoARIMASeasonalRequiresPeriod(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seasonal = true

	_, err := AutoARIMA(timeseries.New(make([]float64, 100)), cfg)
	assert.Error(t, err)
}
