package arima

import (
	"fmt"

	"github.com/sartorproj/goforecast/stats"
)

// Diagnostics reports the Ljung-Box test on the fitted model's
// residuals. Adequate is false when the test rejects the joint null of
// zero residual autocorrelation at the chosen significance.
type Diagnostics struct {
	Statistic float64 `json:"statistic"`
	PValue    float64 `json:"p_value"`
	Lags      int     `json:"lags"`
	DOF       int     `json:"dof"`
	Adequate  bool    `json:"adequate"`
}

// Diagnose runs the Ljung-Box test over lags 1..min(10, n/5) against a
// chi-squared reference with lags minus the estimated coefficient count
// degrees of freedom. alpha defaults to 0.05 when non-positive.
func (m *Model) Diagnose(alpha float64) (*Diagnostics, error) {
	return m.DiagnoseLags(alpha, 0)
}

// DiagnoseLags is Diagnose with an explicit maximum lag; zero picks the
// default.
func (m *Model) DiagnoseLags(alpha float64, lags int) (*Diagnostics, error) {
	if !m.fitted {
		return nil, ErrNotFitted
	}
	if alpha <= 0 {
		alpha = 0.05
	}
	if lags <= 0 {
		lags = stats.DefaultLjungBoxLags(len(m.residuals))
	}

	fitdf := m.Spec.P + m.Spec.Q + m.Spec.SP + m.Spec.SQ
	result := stats.LjungBox(m.residuals, lags, fitdf)
	if result == nil {
		return nil, fmt.Errorf("%w: %d residuals for Ljung-Box", stats.ErrInsufficientData, len(m.residuals))
	}

	return &Diagnostics{
		Statistic: result.Statistic,
		PValue:    result.PValue,
		Lags:      result.Lags,
		DOF:       result.DOF,
		Adequate:  result.PValue >= alpha,
	}, nil
}
