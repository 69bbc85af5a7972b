package arima

// Lag-polynomial helpers. Seasonal models are estimated by expanding the
// product of the non-seasonal and seasonal polynomials into a single set
// of coefficients, so the state-space filter never needs to know about
// seasonality.

// expandAR multiplies (1 - phi(B)) by (1 - Phi(B^m)) and returns the
// coefficients a_i of the expanded recursion x_t = sum a_i x_{t-i}.
func expandAR(phi, sphi []float64, m int) []float64 {
	return expandPoly(phi, sphi, m, -1)
}

// expandMA multiplies (1 + theta(B)) by (1 + Theta(B^m)) and returns the
// coefficients b_i of the expanded moving-average terms.
func expandMA(theta, stheta []float64, m int) []float64 {
	return expandPoly(theta, stheta, m, +1)
}

// expandPoly multiplies two lag polynomials with unit constant term. The
// sign is -1 for AR convention (1 - c_1 B - ...) and +1 for MA
// (1 + c_1 B + ...); either way the returned slice holds the c_i.
func expandPoly(c, sc []float64, m int, sign float64) []float64 {
	if len(sc) == 0 || m <= 1 {
		out := make([]float64, len(c))
		copy(out, c)
		return out
	}

	a := make([]float64, len(c)+1)
	a[0] = 1
	for i, v := range c {
		a[i+1] = sign * v
	}

	b := make([]float64, len(sc)*m+1)
	b[0] = 1
	for j, v := range sc {
		b[(j+1)*m] = sign * v
	}

	prod := make([]float64, len(a)+len(b)-1)
	for i, av := range a {
		for j, bv := range b {
			prod[i+j] += av * bv
		}
	}

	out := make([]float64, len(prod)-1)
	for i := range out {
		out[i] = sign * prod[i+1]
	}
	return out
}

// psiWeights computes the first h MA(inf) coefficients of the ARMA
// process with the given expanded polynomials. psi[0] is always 1.
func psiWeights(arFull, maFull []float64, h int) []float64 {
	psi := make([]float64, h)
	if h == 0 {
		return psi
	}
	psi[0] = 1
	for j := 1; j < h; j++ {
		v := 0.0
		if j-1 < len(maFull) {
			v = maFull[j-1]
		}
		for i := 1; i <= j && i <= len(arFull); i++ {
			v += arFull[i-1] * psi[j-i]
		}
		psi[j] = v
	}
	return psi
}
