package arima

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"

	"github.com/sartorproj/goforecast/stats"
	"github.com/sartorproj/goforecast/timeseries"
)

// DefaultMaxIterations bounds the optimizer per candidate so order
// search terminates regardless of convergence difficulty.
const DefaultMaxIterations = 500

// Model represents an ARIMA model. After a successful Fit the exported
// fields are populated and the model is immutable.
type Model struct {
	Spec Spec

	ARCoeffs  []float64 // phi
	MACoeffs  []float64 // theta
	SARCoeffs []float64 // seasonal phi
	SMACoeffs []float64 // seasonal theta
	Intercept float64

	Sigma2 float64 // innovation variance
	LogLik float64
	AIC    float64
	AICc   float64
	BIC    float64
	NEff   int // effective sample size the likelihood was computed on

	// MaxIterations caps the optimizer; zero means DefaultMaxIterations.
	MaxIterations int

	fitted    bool
	stages    []diffStage // differencing trail, original series first
	residuals []float64
	arFull    []float64 // seasonal-expanded AR polynomial
	maFull    []float64
	ss        *stateSpace
	fres      *filterResult
}

// diffStage records one level of the differencing trail so forecasts can
// be integrated back to the original scale.
type diffStage struct {
	series *timeseries.Series
	lag    int // lag of the difference applied to produce the next stage
}

// New creates an unfitted model for the given spec.
func New(spec Spec) *Model {
	return &Model{Spec: spec}
}

// Fit estimates the model on the given series by maximizing the exact
// state-space likelihood. The series is differenced according to the
// spec before estimation and is never modified.
func (m *Model) Fit(series *timeseries.Series) error {
	return m.FitWithStart(series, nil, nil)
}

// FitWithStart is Fit with an optional initial coefficient guess. Guess
// slices must match the spec's non-seasonal orders; nil slices fall back
// to a zero start in the unconstrained space.
func (m *Model) FitWithStart(series *timeseries.Series, arGuess, maGuess []float64) error {
	spec := m.Spec

	nEff := spec.EffectiveSampleSize(series.Len())
	if nEff < spec.NumParams()+10 {
		return fmt.Errorf("%w: %d effective observations for %s", stats.ErrInsufficientData, nEff, spec)
	}

	// Build the differencing trail: regular differences first, then
	// seasonal, mirroring how forecasts are integrated back.
	m.stages = m.stages[:0]
	current := series
	for i := 0; i < spec.D; i++ {
		m.stages = append(m.stages, diffStage{series: current, lag: 1})
		current = current.Diff()
	}
	for i := 0; i < spec.SD; i++ {
		m.stages = append(m.stages, diffStage{series: current, lag: spec.M})
		current = current.SeasonalDiff(spec.M)
	}
	m.stages = append(m.stages, diffStage{series: current})

	y := current.Values
	if len(y) != nEff {
		return fmt.Errorf("%w: differencing left %d observations, expected %d", stats.ErrInsufficientData, len(y), nEff)
	}

	mu := 0.0
	if spec.Intercept {
		mu = current.Mean()
	}

	if spec.TotalOrder() == 0 {
		m.fitWhiteNoise(y, mu)
		m.finishFit(nEff)
		return nil
	}

	x0, err := m.startingPoint(arGuess, maGuess)
	if err != nil {
		return err
	}

	nAR, nMA := spec.P, spec.Q
	negLogLik := func(x []float64) float64 {
		ll, _, _, _ := m.evaluate(x[:nAR], x[nAR:nAR+nMA], x[nAR+nMA:nAR+nMA+spec.SP], x[nAR+nMA+spec.SP:], y, mu)
		return -ll
	}

	maxIter := m.MaxIterations
	if maxIter <= 0 {
		maxIter = DefaultMaxIterations
	}
	settings := &optimize.Settings{
		MajorIterations: maxIter,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-9,
			Iterations: 50,
		},
	}

	result, err := optimize.Minimize(optimize.Problem{Func: negLogLik}, x0, settings, &optimize.NelderMead{})
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrEstimation, spec, err)
	}
	if result == nil || math.IsInf(result.F, 0) || math.IsNaN(result.F) {
		return fmt.Errorf("%w: %s: likelihood not finite at optimum", ErrEstimation, spec)
	}
	if result.Status == optimize.IterationLimit || result.Status == optimize.FunctionEvaluationLimit {
		return fmt.Errorf("%w: %s: optimizer iteration budget exhausted", ErrEstimation, spec)
	}

	x := result.X
	ll, sigma2, ss, fres := m.evaluate(x[:nAR], x[nAR:nAR+nMA], x[nAR+nMA:nAR+nMA+spec.SP], x[nAR+nMA+spec.SP:], y, mu)
	if math.IsInf(ll, 0) || math.IsNaN(ll) || sigma2 <= 0 {
		return fmt.Errorf("%w: %s: degenerate variance at optimum", ErrEstimation, spec)
	}

	m.ARCoeffs = arFromUnconstrained(x[:nAR])
	m.MACoeffs = maFromUnconstrained(x[nAR : nAR+nMA])
	m.SARCoeffs = arFromUnconstrained(x[nAR+nMA : nAR+nMA+spec.SP])
	m.SMACoeffs = maFromUnconstrained(x[nAR+nMA+spec.SP:])
	m.Intercept = mu
	m.Sigma2 = sigma2
	m.LogLik = ll
	m.arFull = expandAR(m.ARCoeffs, m.SARCoeffs, spec.M)
	m.maFull = expandMA(m.MACoeffs, m.SMACoeffs, spec.M)
	m.ss = ss
	m.fres = fres
	m.residuals = fres.innovations

	m.finishFit(nEff)
	return nil
}

// evaluate maps unconstrained parameters to coefficients, runs the
// filter, and returns the concentrated log-likelihood.
func (m *Model) evaluate(xAR, xMA, xSAR, xSMA, y []float64, mu float64) (float64, float64, *stateSpace, *filterResult) {
	ar := arFromUnconstrained(xAR)
	ma := maFromUnconstrained(xMA)
	sar := arFromUnconstrained(xSAR)
	sma := maFromUnconstrained(xSMA)

	ss := newStateSpace(expandAR(ar, sar, m.Spec.M), expandMA(ma, sma, m.Spec.M))
	fres, err := ss.filter(y, mu)
	if err != nil {
		return math.Inf(-1), 0, nil, nil
	}

	ll, sigma2 := concentratedLogLik(fres, len(y))
	return ll, sigma2, ss, fres
}

// startingPoint builds the optimizer start from an optional coefficient
// guess; absent a guess it starts at zero, which maps to all-zero
// coefficients.
func (m *Model) startingPoint(arGuess, maGuess []float64) ([]float64, error) {
	spec := m.Spec
	x0 := make([]float64, spec.P+spec.Q+spec.SP+spec.SQ)

	if arGuess != nil {
		if len(arGuess) != spec.P {
			return nil, fmt.Errorf("%w: AR guess has %d coefficients, spec wants %d", ErrEstimation, len(arGuess), spec.P)
		}
		xs, err := unconstrainedFromCoeffs(arGuess, -1)
		if err != nil {
			return nil, err
		}
		copy(x0, xs)
	}
	if maGuess != nil {
		if len(maGuess) != spec.Q {
			return nil, fmt.Errorf("%w: MA guess has %d coefficients, spec wants %d", ErrEstimation, len(maGuess), spec.Q)
		}
		xs, err := unconstrainedFromCoeffs(maGuess, +1)
		if err != nil {
			return nil, err
		}
		copy(x0[spec.P:], xs)
	}
	return x0, nil
}

// fitWhiteNoise handles the closed-form (0,d,0) case.
func (m *Model) fitWhiteNoise(y []float64, mu float64) {
	n := len(y)
	ssq := 0.0
	resid := make([]float64, n)
	for i, v := range y {
		resid[i] = v - mu
		ssq += resid[i] * resid[i]
	}

	sigma2 := ssq / float64(n)
	if sigma2 <= 0 {
		sigma2 = math.SmallestNonzeroFloat64
	}

	m.ARCoeffs = nil
	m.MACoeffs = nil
	m.SARCoeffs = nil
	m.SMACoeffs = nil
	m.Intercept = mu
	m.Sigma2 = sigma2
	m.LogLik = -0.5 * float64(n) * (math.Log(2*math.Pi) + 1 + math.Log(sigma2))
	m.arFull = nil
	m.maFull = nil
	m.ss = newStateSpace(nil, nil)
	m.fres = &filterResult{innovations: resid}
	m.residuals = resid
}

// finishFit computes the information criteria and marks the model usable.
func (m *Model) finishFit(nEff int) {
	k := float64(m.Spec.NumParams())
	n := float64(nEff)

	m.NEff = nEff
	m.AIC = -2*m.LogLik + 2*k
	if n-k-1 > 0 {
		m.AICc = m.AIC + 2*k*(k+1)/(n-k-1)
	} else {
		m.AICc = math.Inf(1)
	}
	m.BIC = -2*m.LogLik + k*math.Log(n)
	m.fitted = true
}

// Fitted reports whether Fit completed successfully.
func (m *Model) Fitted() bool {
	return m.fitted
}

// Residuals returns a copy of the one-step prediction errors on the
// differenced scale.
func (m *Model) Residuals() []float64 {
	if !m.fitted {
		return nil
	}
	out := make([]float64, len(m.residuals))
	copy(out, m.residuals)
	return out
}

// Criterion returns the named information criterion value.
func (m *Model) Criterion(name string) float64 {
	switch name {
	case "aic":
		return m.AIC
	case "bic":
		return m.BIC
	default:
		return m.AICc
	}
}

// Summary holds the fitted-model metadata consumed by reporting layers.
type Summary struct {
	Spec      Spec      `json:"spec"`
	ARCoeffs  []float64 `json:"ar_coeffs,omitempty"`
	MACoeffs  []float64 `json:"ma_coeffs,omitempty"`
	SARCoeffs []float64 `json:"sar_coeffs,omitempty"`
	SMACoeffs []float64 `json:"sma_coeffs,omitempty"`
	Intercept float64   `json:"intercept"`
	Sigma2    float64   `json:"sigma2"`
	LogLik    float64   `json:"log_lik"`
	AIC       float64   `json:"aic"`
	AICc      float64   `json:"aicc"`
	BIC       float64   `json:"bic"`
	NEff      int       `json:"n_eff"`
}

// Summary returns the fitted-model metadata, or nil before Fit.
func (m *Model) Summary() *Summary {
	if !m.fitted {
		return nil
	}
	return &Summary{
		Spec:      m.Spec,
		ARCoeffs:  m.ARCoeffs,
		MACoeffs:  m.MACoeffs,
		SARCoeffs: m.SARCoeffs,
		SMACoeffs: m.SMACoeffs,
		Intercept: m.Intercept,
		Sigma2:    m.Sigma2,
		LogLik:    m.LogLik,
		AIC:       m.AIC,
		AICc:      m.AICc,
		BIC:       m.BIC,
		NEff:      m.NEff,
	}
}
