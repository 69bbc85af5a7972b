package stats

import (
	"gonum.org/v1/gonum/stat/distuv"
)

// LjungBoxResult represents the result of a Ljung-Box test.
type LjungBoxResult struct {
	Statistic float64
	PValue    float64
	Lags      int
	DOF       int
}

// LjungBox performs the Ljung-Box portmanteau test on a residual
// sequence. The null hypothesis is that autocorrelations up to the given
// lag are jointly zero. fitdf is the number of parameters estimated by
// the model that produced the residuals; the chi-squared reference
// distribution has lags-fitdf degrees of freedom (floored at 1).
func LjungBox(residuals []float64, lags, fitdf int) *LjungBoxResult {
	n := len(residuals)
	if n < 10 || lags < 1 {
		return nil
	}
	if lags >= n {
		lags = n - 1
	}

	r := acf(residuals, lags)
	if r == nil {
		return nil
	}

	q := 0.0
	for k := 1; k <= lags; k++ {
		q += (r[k] * r[k]) / float64(n-k)
	}
	q *= float64(n) * float64(n+2)

	dof := lags - fitdf
	if dof < 1 {
		dof = 1
	}

	chi2 := distuv.ChiSquared{K: float64(dof)}
	pValue := 1 - chi2.CDF(q)

	return &LjungBoxResult{
		Statistic: q,
		PValue:    pValue,
		Lags:      lags,
		DOF:       dof,
	}
}

// DefaultLjungBoxLags returns the conventional lag choice min(10, n/5)
// for a residual sequence of length n.
func DefaultLjungBoxLags(n int) int {
	lags := n / 5
	if lags > 10 {
		lags = 10
	}
	if lags < 1 {
		lags = 1
	}
	return lags
}
