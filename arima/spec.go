package arima

import "fmt"

// Spec identifies one candidate model order: ARIMA(p,d,q) with optional
// seasonal (P,D,Q)m component and an intercept flag.
type Spec struct {
	P int `json:"p"` // AR order
	D int `json:"d"` // Differencing order
	Q int `json:"q"` // MA order

	SP int `json:"sp,omitempty"` // Seasonal AR order
	SD int `json:"sd,omitempty"` // Seasonal differencing order
	SQ int `json:"sq,omitempty"` // Seasonal MA order
	M  int `json:"m,omitempty"`  // Seasonal period (0 or 1 means non-seasonal)

	Intercept bool `json:"intercept"`
}

// Seasonal reports whether the spec has a seasonal component.
func (s Spec) Seasonal() bool {
	return s.M > 1 && (s.SP > 0 || s.SD > 0 || s.SQ > 0)
}

// TotalOrder returns p+q+P+Q, the search-space size measure used for
// bounding candidates and breaking criterion ties.
func (s Spec) TotalOrder() int {
	return s.P + s.Q + s.SP + s.SQ
}

// NumParams returns the number of estimated parameters k used by the
// information criteria: the coefficients, the intercept when present,
// and the innovation variance.
func (s Spec) NumParams() int {
	k := s.P + s.Q + s.SP + s.SQ + 1
	if s.Intercept {
		k++
	}
	return k
}

// EffectiveSampleSize returns the sample length remaining after
// differencing an n-observation series: n - d - D*m. Candidates are only
// criterion-comparable when fitted on the same effective sample size.
func (s Spec) EffectiveSampleSize(n int) int {
	return n - s.D - s.SD*s.M
}

func (s Spec) String() string {
	base := fmt.Sprintf("ARIMA(%d,%d,%d)", s.P, s.D, s.Q)
	if s.Seasonal() {
		base += fmt.Sprintf("(%d,%d,%d)[%d]", s.SP, s.SD, s.SQ, s.M)
	}
	if s.Intercept {
		base += " with intercept"
	}
	return base
}
