package arima

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// stateSpace holds the Hamilton companion form of an ARMA process. The
// hidden state has dimension r = max(p, q+1) for the seasonal-expanded
// orders p and q; the observation is the first state element.
type stateSpace struct {
	r    int
	tr   *mat.Dense // transition matrix
	load []float64  // innovation loading [1, theta_1, ..., theta_{r-1}]
	rr   *mat.Dense // load * load'
}

func newStateSpace(arFull, maFull []float64) *stateSpace {
	r := len(arFull)
	if len(maFull)+1 > r {
		r = len(maFull) + 1
	}
	if r < 1 {
		r = 1
	}

	tr := mat.NewDense(r, r, nil)
	for i := 0; i < r; i++ {
		if i < len(arFull) {
			tr.Set(i, 0, arFull[i])
		}
		if i+1 < r {
			tr.Set(i, i+1, 1)
		}
	}

	load := make([]float64, r)
	load[0] = 1
	for i, v := range maFull {
		load[i+1] = v
	}

	rr := mat.NewDense(r, r, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < r; j++ {
			rr.Set(i, j, load[i]*load[j])
		}
	}

	return &stateSpace{r: r, tr: tr, load: load, rr: rr}
}

// initialCovariance solves the discrete Lyapunov equation
// P = T P T' + R R' for the stationary state covariance via the
// vectorized system (I - T (x) T) vec(P) = vec(RR').
func (ss *stateSpace) initialCovariance() (*mat.Dense, error) {
	r := ss.r
	r2 := r * r

	var kron mat.Dense
	kron.Kronecker(ss.tr, ss.tr)

	a := mat.NewDense(r2, r2, nil)
	for i := 0; i < r2; i++ {
		a.Set(i, i, 1)
	}
	a.Sub(a, &kron)

	b := mat.NewVecDense(r2, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < r; j++ {
			b.SetVec(i*r+j, ss.rr.At(i, j))
		}
	}

	var x mat.VecDense
	if err := x.SolveVec(a, b); err != nil {
		return nil, fmt.Errorf("%w: stationary covariance is singular: %v", ErrEstimation, err)
	}

	p := mat.NewDense(r, r, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < r; j++ {
			p.Set(i, j, x.AtVec(i*r+j))
		}
	}
	return p, nil
}

// filterResult carries the Kalman recursion outputs needed for the
// concentrated likelihood and for forecasting.
type filterResult struct {
	innovations []float64 // one-step prediction errors v_t
	ssq         float64   // sum of v_t^2 / F_t
	sumLogF     float64   // sum of log F_t
	finalState  *mat.VecDense
}

// filter runs the Kalman recursion over y with unit innovation variance.
// mu is subtracted from every observation before filtering.
func (ss *stateSpace) filter(y []float64, mu float64) (*filterResult, error) {
	r := ss.r

	p, err := ss.initialCovariance()
	if err != nil {
		return nil, err
	}

	a := mat.NewVecDense(r, nil)
	aPred := mat.NewVecDense(r, nil)
	var pPred, tmp mat.Dense

	res := &filterResult{innovations: make([]float64, len(y))}

	for t, obs := range y {
		if t == 0 {
			// The stationary distribution is the time-zero prior.
			aPred.CopyVec(a)
			pPred.CloneFrom(p)
		} else {
			aPred.MulVec(ss.tr, a)
			tmp.Mul(ss.tr, p)
			pPred.Mul(&tmp, ss.tr.T())
			pPred.Add(&pPred, ss.rr)
		}

		f := pPred.At(0, 0)
		if f <= 0 || math.IsNaN(f) {
			return nil, fmt.Errorf("%w: non-positive prediction variance at step %d", ErrEstimation, t)
		}

		v := (obs - mu) - aPred.AtVec(0)
		res.innovations[t] = v
		res.ssq += v * v / f
		res.sumLogF += math.Log(f)

		// Update: a += K v, P -= K P[0,:] with K = P[:,0]/F.
		for i := 0; i < r; i++ {
			a.SetVec(i, aPred.AtVec(i)+pPred.At(i, 0)*v/f)
		}
		for i := 0; i < r; i++ {
			ki := pPred.At(i, 0) / f
			for j := 0; j < r; j++ {
				p.Set(i, j, pPred.At(i, j)-ki*pPred.At(0, j))
			}
		}
	}

	res.finalState = a
	return res, nil
}

// concentratedLogLik turns filter sums into the profile Gaussian
// log-likelihood with sigma^2 concentrated out, returning both.
func concentratedLogLik(res *filterResult, n int) (logLik, sigma2 float64) {
	nf := float64(n)
	sigma2 = res.ssq / nf
	if sigma2 <= 0 {
		return math.Inf(-1), 0
	}
	logLik = -0.5*nf*(math.Log(2*math.Pi)+1+math.Log(sigma2)) - 0.5*res.sumLogF
	return logLik, sigma2
}

// propagate advances the final filter state h steps with no new
// observations and returns the point predictions of the observable.
func (ss *stateSpace) propagate(state *mat.VecDense, h int) []float64 {
	a := mat.NewVecDense(ss.r, nil)
	a.CopyVec(state)
	next := mat.NewVecDense(ss.r, nil)

	out := make([]float64, h)
	for j := 0; j < h; j++ {
		next.MulVec(ss.tr, a)
		a.CopyVec(next)
		out[j] = a.AtVec(0)
	}
	return out
}
