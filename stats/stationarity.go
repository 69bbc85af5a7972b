package stats

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/sartorproj/goforecast/timeseries"
)

// Errors surfaced by differencing-order selection.
var (
	// ErrInsufficientData indicates the series is too short for the
	// requested differencing and seasonal period.
	ErrInsufficientData = errors.New("stats: insufficient data")

	// ErrDegenerateSeries indicates differencing produced a series with
	// numerically zero variance.
	ErrDegenerateSeries = errors.New("stats: degenerate series with zero variance")
)

// ADFResult represents the result of an augmented Dickey-Fuller test.
type ADFResult struct {
	Statistic float64
	PValue    float64
	Lags      int
	NObs      int
}

// ADF performs the augmented Dickey-Fuller test for a unit root using a
// regression with constant and no trend. The null hypothesis is that the
// series is non-stationary; a p-value below the chosen significance
// rejects it.
func ADF(series *timeseries.Series, maxLag int) (*ADFResult, error) {
	n := series.Len()
	if n < 10 {
		return nil, fmt.Errorf("%w: %d observations for ADF test", ErrInsufficientData, n)
	}

	// Schwert-style default lag: floor((n-1)^(1/3)).
	if maxLag <= 0 {
		maxLag = int(math.Floor(math.Cbrt(float64(n - 1))))
	}
	if maxLag >= n-1 {
		maxLag = n - 2
	}

	diff := series.Diff()
	nObs := n - maxLag - 1
	if nObs < 10 {
		return nil, fmt.Errorf("%w: %d effective observations for ADF regression", ErrInsufficientData, nObs)
	}

	// Regression: dy_t = a + b*y_{t-1} + sum_i g_i*dy_{t-i} + e_t.
	// The test statistic is the t-ratio on b.
	k := 2 + maxLag
	x := mat.NewDense(nObs, k, nil)
	y := mat.NewVecDense(nObs, nil)

	for i := 0; i < nObs; i++ {
		t := i + maxLag
		y.SetVec(i, diff.Values[t])
		x.Set(i, 0, 1)
		x.Set(i, 1, series.Values[t])
		for j := 1; j <= maxLag; j++ {
			x.Set(i, 1+j, diff.Values[t-j])
		}
	}

	// A singular test regression means the series is deterministic in a
	// way the unit-root null cannot describe (a pure trend differences to
	// a constant, duplicating the intercept column).
	beta, se, err := olsFit(x, y)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDegenerateSeries, err)
	}
	if se[1] == 0 {
		return nil, ErrDegenerateSeries
	}

	tStat := beta[1] / se[1]

	return &ADFResult{
		Statistic: tStat,
		PValue:    dickeyFullerPValue(tStat),
		Lags:      maxLag,
		NObs:      nObs,
	}, nil
}

// olsFit solves least squares via QR and returns coefficients with their
// standard errors.
func olsFit(x *mat.Dense, y *mat.VecDense) (beta, se []float64, err error) {
	n, k := x.Dims()

	var qr mat.QR
	qr.Factorize(x)

	var sol mat.Dense
	if err := qr.SolveTo(&sol, false, y); err != nil {
		return nil, nil, fmt.Errorf("stats: singular design matrix: %w", err)
	}

	beta = make([]float64, k)
	for j := 0; j < k; j++ {
		beta[j] = sol.At(j, 0)
	}

	var fitted mat.VecDense
	fitted.MulVec(x, sol.ColView(0))

	sse := 0.0
	for i := 0; i < n; i++ {
		r := y.AtVec(i) - fitted.AtVec(i)
		sse += r * r
	}
	if n <= k {
		return nil, nil, fmt.Errorf("%w: %d observations for %d regressors", ErrInsufficientData, n, k)
	}
	s2 := sse / float64(n-k)

	var xtx, inv mat.Dense
	xtx.Mul(x.T(), x)
	if err := inv.Inverse(&xtx); err != nil {
		return nil, nil, fmt.Errorf("stats: singular design matrix: %w", err)
	}

	se = make([]float64, k)
	for j := 0; j < k; j++ {
		se[j] = math.Sqrt(s2 * inv.At(j, j))
	}
	return beta, se, nil
}

// dickeyFullerPValue interpolates an approximate p-value for the ADF
// t-statistic from the MacKinnon critical values for the constant-only
// regression.
func dickeyFullerPValue(stat float64) float64 {
	knots := []struct{ stat, p float64 }{
		{-3.96, 0.001},
		{-3.43, 0.01},
		{-2.86, 0.05},
		{-2.57, 0.10},
		{-1.94, 0.25},
		{-1.62, 0.50},
		{-0.50, 0.90},
	}

	if stat <= knots[0].stat {
		return knots[0].p
	}
	for i := 1; i < len(knots); i++ {
		if stat <= knots[i].stat {
			lo, hi := knots[i-1], knots[i]
			frac := (stat - lo.stat) / (hi.stat - lo.stat)
			return lo.p + frac*(hi.p-lo.p)
		}
	}
	return 0.99
}

// DSelection is the outcome of differencing-order selection.
type DSelection struct {
	D           int
	Differenced *timeseries.Series

	// NonStationary is set when the maximum differencing order was
	// exhausted without the unit-root test rejecting non-stationarity.
	// The pipeline proceeds anyway; the flag annotates the result.
	NonStationary bool
}

// SelectD determines the differencing order d by repeatedly applying the
// ADF test at significance alpha and differencing until stationarity is
// accepted or maxD (default 2) is reached. seasonalPeriod, when positive,
// raises the minimum usable series length to 3 periods.
func SelectD(series *timeseries.Series, alpha float64, maxD, seasonalPeriod int) (*DSelection, error) {
	if alpha <= 0 {
		alpha = 0.05
	}
	if maxD <= 0 {
		maxD = 2
	}
	if maxD > 2 {
		maxD = 2
	}

	minLen := 10
	if 3*seasonalPeriod > minLen {
		minLen = 3 * seasonalPeriod
	}
	if series.Len() < minLen {
		return nil, fmt.Errorf("%w: %d observations, need at least %d", ErrInsufficientData, series.Len(), minLen)
	}

	current := series
	for d := 0; d <= maxD; d++ {
		if current.Variance() < 1e-12 {
			return nil, fmt.Errorf("%w: after %d differences", ErrDegenerateSeries, d)
		}

		result, err := ADF(current, 0)
		if err != nil {
			return nil, fmt.Errorf("selecting d at order %d: %w", d, err)
		}
		if result.PValue < alpha {
			return &DSelection{D: d, Differenced: current}, nil
		}

		if d == maxD {
			break
		}
		current = current.Diff()
		if current.Len() < minLen {
			return nil, fmt.Errorf("%w: %d observations after %d differences, need at least %d",
				ErrInsufficientData, current.Len(), d+1, minLen)
		}
	}

	// Forecastability over strict correctness: proceed at maxD with the
	// non-stationarity recorded rather than failing the pipeline.
	return &DSelection{D: maxD, Differenced: current, NonStationary: true}, nil
}
