package eval

import (
	"fmt"
	"math"

	mstats "github.com/montanaflynn/stats"

	"github.com/sartorproj/goforecast/arima"
	"github.com/sartorproj/goforecast/autoarima"
	"github.com/sartorproj/goforecast/stats"
	"github.com/sartorproj/goforecast/timeseries"
)

// Config controls the hold-out evaluation.
type Config struct {
	// SplitFraction puts this share of observations in the training
	// prefix (default 0.8). Ignored when TestHorizon is set.
	SplitFraction float64

	// TestHorizon fixes the test suffix length directly.
	TestHorizon int

	// Search configures the model selection run on the training prefix;
	// nil uses autoarima defaults.
	Search *autoarima.Config
}

// Metrics holds forecast accuracy scores against held-out actuals.
type Metrics struct {
	RMSE float64 `json:"rmse"`
	MAE  float64 `json:"mae"`
	MAPE float64 `json:"mape"` // percent; NaN when actuals contain zeros
	MASE float64 `json:"mase"`

	// NaiveRMSE is the RMSE of a last-value forecast over the same
	// suffix, the minimal usefulness bound.
	NaiveRMSE float64 `json:"naive_rmse"`
}

// Report is the full outcome of a hold-out run.
type Report struct {
	Metrics   Metrics
	Selection *autoarima.Result
	Forecast  *arima.Forecast
	TrainSize int
	TestSize  int
}

// Holdout splits the series chronologically, reruns the full selection
// pipeline on the training prefix, forecasts over the suffix, and
// scores the forecasts against the actuals.
func Holdout(series *timeseries.Series, cfg *Config) (*Report, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	fraction := cfg.SplitFraction
	if fraction <= 0 || fraction >= 1 {
		fraction = 0.8
	}

	var train, test *timeseries.Series
	if cfg.TestHorizon > 0 {
		train, test = series.SplitAt(series.Len() - cfg.TestHorizon)
	} else {
		train, test = series.SplitFraction(fraction)
	}
	if test.Len() < 1 || train.Len() < 20 {
		return nil, fmt.Errorf("%w: %d train / %d test observations", stats.ErrInsufficientData, train.Len(), test.Len())
	}

	searchCfg := cfg.Search
	if searchCfg == nil {
		searchCfg = autoarima.DefaultConfig()
	}

	selection, err := autoarima.AutoARIMA(train, searchCfg)
	if err != nil {
		return nil, err
	}

	fc, err := selection.Forecast(test.Len(), nil)
	if err != nil {
		return nil, err
	}

	period := 1
	if searchCfg.Seasonal && searchCfg.SeasonalM > 1 {
		period = searchCfg.SeasonalM
	}

	return &Report{
		Metrics:   Compute(test.Values, fc.Mean, train.Values, period),
		Selection: selection,
		Forecast:  fc,
		TrainSize: train.Len(),
		TestSize:  test.Len(),
	}, nil
}

// Compute scores forecasts against actuals. The training values and
// seasonal period feed the MASE scale (the mean absolute seasonal
// difference of the training set) and the naive baseline.
func Compute(actuals, forecasts, train []float64, period int) Metrics {
	n := len(actuals)
	if len(forecasts) < n {
		n = len(forecasts)
	}

	sqErrs := make([]float64, n)
	absErrs := make([]float64, n)
	pctErrs := make([]float64, 0, n)
	naiveSq := make([]float64, n)

	last := math.NaN()
	if len(train) > 0 {
		last = train[len(train)-1]
	}

	for i := 0; i < n; i++ {
		err := actuals[i] - forecasts[i]
		sqErrs[i] = err * err
		absErrs[i] = math.Abs(err)
		if actuals[i] != 0 {
			pctErrs = append(pctErrs, math.Abs(err/actuals[i])*100)
		}
		naiveErr := actuals[i] - last
		naiveSq[i] = naiveErr * naiveErr
	}

	mse, _ := mstats.Mean(sqErrs)
	mae, _ := mstats.Mean(absErrs)
	naiveMSE, _ := mstats.Mean(naiveSq)

	mape := math.NaN()
	if len(pctErrs) == n {
		mape, _ = mstats.Mean(pctErrs)
	}

	mase := math.NaN()
	if scale := seasonalNaiveScale(train, period); scale > 0 {
		mase = mae / scale
	}

	return Metrics{
		RMSE:      math.Sqrt(mse),
		MAE:       mae,
		MAPE:      mape,
		MASE:      mase,
		NaiveRMSE: math.Sqrt(naiveMSE),
	}
}

// seasonalNaiveScale is the in-sample MAE of the seasonal naive
// forecast, the denominator of MASE.
func seasonalNaiveScale(train []float64, period int) float64 {
	if period < 1 {
		period = 1
	}
	if len(train) <= period {
		return 0
	}

	diffs := make([]float64, 0, len(train)-period)
	for i := period; i < len(train); i++ {
		diffs = append(diffs, math.Abs(train[i]-train[i-period]))
	}
	scale, _ := mstats.Mean(diffs)
	return scale
}
