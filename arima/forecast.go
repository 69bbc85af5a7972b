package arima

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sartorproj/goforecast/timeseries"
)

// Band holds the symmetric prediction interval at one confidence level.
type Band struct {
	Level float64   `json:"level"` // e.g. 0.95
	Lower []float64 `json:"lower"`
	Upper []float64 `json:"upper"`
}

// Forecast holds multi-step forecasts on the original (undifferenced)
// scale with aligned timestamps extending past the last observation.
type Forecast struct {
	Horizon    int         `json:"horizon"`
	Timestamps []time.Time `json:"timestamps"`
	Mean       []float64   `json:"mean"`
	StdErr     []float64   `json:"std_err"` // forecast standard error per step
	Bands      []Band      `json:"bands"`
}

// Forecast propagates the fitted state-space model h steps ahead with no
// new observations. Intervals assume Gaussian forecast errors; the
// forecast-error variance is non-decreasing in the horizon. When the
// spec includes differencing, forecasts are integrated back to the
// original scale seeded with the last observed values.
func (m *Model) Forecast(h int, levels []float64) (*Forecast, error) {
	if !m.fitted {
		return nil, ErrNotFitted
	}
	if h < 1 {
		return nil, fmt.Errorf("arima: horizon must be at least 1, got %d", h)
	}
	for _, level := range levels {
		if level <= 0 || level >= 1 {
			return nil, fmt.Errorf("arima: confidence level %v outside (0,1)", level)
		}
	}

	// Point forecasts on the differenced scale.
	var diffed []float64
	if m.Spec.TotalOrder() == 0 {
		diffed = make([]float64, h)
		for i := range diffed {
			diffed[i] = m.Intercept
		}
	} else {
		diffed = m.ss.propagate(m.fres.finalState, h)
		for i := range diffed {
			diffed[i] += m.Intercept
		}
	}

	// Integrate back through the differencing trail, innermost level
	// first, each stage seeded with the series that was differenced.
	mean := diffed
	psi := psiWeights(m.arFull, m.maFull, h)
	for i := len(m.stages) - 2; i >= 0; i-- {
		stage := m.stages[i]
		mean = timeseries.Integrate(mean, stage.series.Tail(stage.lag), stage.lag)
		psi = timeseries.Integrate(psi, make([]float64, stage.lag), stage.lag)
	}

	// Var(h) = sigma^2 * sum_{j<h} psi_j^2 on the integrated scale.
	stderr := make([]float64, h)
	acc := 0.0
	for j := 0; j < h; j++ {
		acc += psi[j] * psi[j]
		stderr[j] = math.Sqrt(m.Sigma2 * acc)
	}

	bands := make([]Band, 0, len(levels))
	for _, level := range levels {
		z := distuv.UnitNormal.Quantile(0.5 + level/2)
		lower := make([]float64, h)
		upper := make([]float64, h)
		for j := 0; j < h; j++ {
			lower[j] = mean[j] - z*stderr[j]
			upper[j] = mean[j] + z*stderr[j]
		}
		bands = append(bands, Band{Level: level, Lower: lower, Upper: upper})
	}

	return &Forecast{
		Horizon:    h,
		Timestamps: m.stages[0].series.ExtendTimestamps(h),
		Mean:       mean,
		StdErr:     stderr,
		Bands:      bands,
	}, nil
}
