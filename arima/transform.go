package arima

import (
	"fmt"
	"math"
)

// Coefficient reparameterization after Monahan (1984) / Jones (1980).
// The optimizer works in an unconstrained space; each raw value is
// squashed to a partial autocorrelation in (-1,1) and the Levinson-style
// recursion maps partials to AR or MA coefficients. Every point the
// optimizer can reach therefore corresponds to a stationary AR and an
// invertible MA polynomial, so inadmissible polynomials are never
// evaluated.

// arFromUnconstrained maps raw optimizer values to AR coefficients.
func arFromUnconstrained(x []float64) []float64 {
	return coeffsFromPartials(partials(x), -1)
}

// maFromUnconstrained maps raw optimizer values to MA coefficients.
func maFromUnconstrained(x []float64) []float64 {
	return coeffsFromPartials(partials(x), +1)
}

func partials(x []float64) []float64 {
	r := make([]float64, len(x))
	for i, v := range x {
		r[i] = math.Tanh(v / 2)
	}
	return r
}

// coeffsFromPartials runs the Durbin-Levinson recursion. sign is -1 for
// the AR convention and +1 for MA.
func coeffsFromPartials(r []float64, sign float64) []float64 {
	n := len(r)
	c := make([]float64, n)
	work := make([]float64, n)

	for k := 0; k < n; k++ {
		c[k] = r[k]
		for j := 0; j < k; j++ {
			work[j] = c[j] + sign*r[k]*c[k-1-j]
		}
		copy(c[:k], work[:k])
	}
	return c
}

// unconstrainedFromCoeffs inverts the recursion so a coefficient guess
// can seed the optimizer. It fails when the guess itself violates
// stationarity or invertibility.
func unconstrainedFromCoeffs(coeffs []float64, sign float64) ([]float64, error) {
	n := len(coeffs)
	c := make([]float64, n)
	copy(c, coeffs)
	r := make([]float64, n)
	work := make([]float64, n)

	for k := n - 1; k >= 0; k-- {
		r[k] = c[k]
		if math.Abs(r[k]) >= 1 {
			return nil, fmt.Errorf("%w: initial guess outside the admissible region", ErrEstimation)
		}
		den := 1 - r[k]*r[k]
		for j := 0; j < k; j++ {
			work[j] = (c[j] - sign*r[k]*c[k-1-j]) / den
		}
		copy(c[:k], work[:k])
	}

	x := make([]float64, n)
	for i, v := range r {
		x[i] = 2 * math.Atanh(v)
	}
	return x, nil
}
