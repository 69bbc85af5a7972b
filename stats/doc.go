// Package stats provides the statistical tests behind the forecasting
// pipeline: the augmented Dickey-Fuller unit-root test and
// differencing-order selection, autocorrelation functions, and the
// Ljung-Box portmanteau test for residual adequacy.
package stats
