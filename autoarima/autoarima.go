package autoarima

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/rs/zerolog"

	"github.com/sartorproj/goforecast/arima"
	"github.com/sartorproj/goforecast/stats"
	"github.com/sartorproj/goforecast/timeseries"
)

// ErrSearchExhausted indicates no candidate in the entire search
// admitted a valid fit.
var ErrSearchExhausted = errors.New("autoarima: no candidate model could be estimated")

// Criterion names the information criterion used to rank candidates.
type Criterion string

const (
	AICc Criterion = "aicc"
	AIC  Criterion = "aic"
	BIC  Criterion = "bic"
)

// Mode selects the search strategy.
type Mode string

const (
	Stepwise   Mode = "stepwise"
	Exhaustive Mode = "exhaustive"
)

// Config holds configuration for the automatic order search.
type Config struct {
	MaxP int // Maximum AR order (default 5)
	MaxD int // Maximum differencing order (default 2)
	MaxQ int // Maximum MA order (default 5)

	MaxSP int // Maximum seasonal AR order (default 2)
	MaxSD int // Maximum seasonal differencing order (default 1)
	MaxSQ int // Maximum seasonal MA order (default 2)

	// MaxOrder bounds p+q+P+Q so the search space stays finite
	// (default 5).
	MaxOrder int

	Seasonal  bool // Whether to consider seasonal models
	SeasonalM int  // Seasonal period (required if Seasonal)

	Mode      Mode      // stepwise (default) or exhaustive
	Criterion Criterion // ranking criterion (default AICc)

	// Alpha is the significance level for the stationarity test
	// (default 0.05).
	Alpha float64

	// MaxSearchSteps bounds the number of neighbor expansions in
	// stepwise mode (default 50).
	MaxSearchSteps int

	// MaxFitIterations bounds the optimizer per candidate; zero uses
	// the estimator default.
	MaxFitIterations int

	// Parallelism bounds concurrent candidate fits within one search
	// iteration (default GOMAXPROCS).
	Parallelism int

	// Leaderboard keeps the top-N fitted candidates for debugging in
	// addition to the winner (default 0: winner only).
	Leaderboard int

	// Logger traces candidate fits at debug level and the selection at
	// info level. Defaults to a no-op logger.
	Logger zerolog.Logger
}

// DefaultConfig returns the default search configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxP:           5,
		MaxD:           2,
		MaxQ:           5,
		MaxSP:          2,
		MaxSD:          1,
		MaxSQ:          2,
		MaxOrder:       5,
		Mode:           Stepwise,
		Criterion:      AICc,
		Alpha:          0.05,
		MaxSearchSteps: 50,
		Parallelism:    runtime.GOMAXPROCS(0),
		Logger:         zerolog.Nop(),
	}
}

// Result represents the outcome of automatic model selection.
type Result struct {
	Model *arima.Model
	Spec  arima.Spec

	CriterionValue  float64
	ModelsEvaluated int

	// NonStationary is set when differencing-order selection exhausted
	// MaxD without achieving stationarity; the model is still fitted at
	// d = MaxD.
	NonStationary bool

	// Leaderboard holds the next-best fitted candidates, best first,
	// when Config.Leaderboard was positive.
	Leaderboard []*arima.Model
}

// AutoARIMA selects and fits the best ARIMA model for the series: it
// determines the differencing orders, searches candidate (p,q) and
// seasonal orders, and returns the candidate with the best criterion
// score.
func AutoARIMA(series *timeseries.Series, cfg *Config) (*Result, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Seasonal && cfg.SeasonalM <= 1 {
		return nil, fmt.Errorf("autoarima: seasonal search requires a period, got %d", cfg.SeasonalM)
	}

	period := 0
	if cfg.Seasonal {
		period = cfg.SeasonalM
	}

	sel, err := stats.SelectD(series, cfg.Alpha, cfg.MaxD, period)
	if err != nil {
		return nil, fmt.Errorf("autoarima: %w", err)
	}

	sd := 0
	if cfg.Seasonal {
		sd = stats.SelectSeasonalD(series, cfg.SeasonalM, cfg.MaxSD)
	}

	cfg.Logger.Debug().
		Int("d", sel.D).
		Int("seasonal_d", sd).
		Bool("non_stationary", sel.NonStationary).
		Msg("differencing selected")

	result, err := newSearch(series, sel.D, sd, cfg).run()
	if err != nil {
		return nil, err
	}
	result.NonStationary = sel.NonStationary

	cfg.Logger.Info().
		Stringer("spec", result.Spec).
		Float64("criterion", result.CriterionValue).
		Int("models_evaluated", result.ModelsEvaluated).
		Msg("model selected")

	return result, nil
}

// Forecast delegates to the selected model.
func (r *Result) Forecast(h int, levels []float64) (*arima.Forecast, error) {
	if r.Model == nil {
		return nil, arima.ErrNotFitted
	}
	return r.Model.Forecast(h, levels)
}

// Diagnose delegates to the selected model.
func (r *Result) Diagnose(alpha float64) (*arima.Diagnostics, error) {
	if r.Model == nil {
		return nil, arima.ErrNotFitted
	}
	return r.Model.Diagnose(alpha)
}
