// Package autoarima selects ARIMA model orders automatically.
//
// AutoARIMA first fixes the differencing orders with a unit-root test,
// then searches candidate (p,q) and seasonal orders, ranking fitted
// candidates by an information criterion (AICc by default). The default
// stepwise search fits a small set of seed specs and walks to improving
// neighbors; exhaustive mode enumerates the whole grid. Candidates
// within one search iteration are fitted in parallel, and ties are
// broken deterministically toward the smaller total order.
//
//	result, err := autoarima.AutoARIMA(series, autoarima.DefaultConfig())
//	if err != nil { ... }
//	fc, _ := result.Forecast(30, []float64{0.80, 0.95})
package autoarima
