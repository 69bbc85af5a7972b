// Package arima fits ARIMA(p,d,q) models, optionally with a seasonal
// (P,D,Q)m component, by exact maximum likelihood.
//
// The ARMA part is cast into a companion state-space form and a Kalman
// filter produces one-step prediction errors and variances that feed a
// concentrated Gaussian log-likelihood. The optimizer searches an
// unconstrained space mapped through partial autocorrelations, so every
// candidate point satisfies stationarity and invertibility by
// construction. Seasonal polynomials are expanded into the non-seasonal
// lag polynomial before filtering.
//
//	model := arima.New(arima.Spec{P: 1, D: 1, Q: 1, Intercept: true})
//	if err := model.Fit(series); err != nil { ... }
//	fc, _ := model.Forecast(30, []float64{0.80, 0.95})
//	diag, _ := model.Diagnose(0.05)
package arima
