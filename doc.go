// Package goforecast provides automatic ARIMA time series forecasting.
//
// GoForecast fits seasonal and non-seasonal ARIMA models by exact
// maximum likelihood through a state-space Kalman filter, selects model
// orders automatically with unit-root tests and an information-criterion
// search, and produces multi-step forecasts with prediction intervals.
//
// # Features
//
//   - ARIMA and seasonal ARIMA estimation by exact maximum likelihood
//   - Automatic order selection (stepwise or exhaustive search)
//   - Stationarity testing (ADF) and automatic differencing
//   - Forecasts with normal-theory prediction intervals
//   - Residual whiteness diagnostics (Ljung-Box)
//   - Out-of-sample accuracy evaluation (RMSE, MAE, MAPE, MASE)
//
// # Quick Start
//
// Select and fit a model automatically, then forecast:
//
//	series := timeseries.New(values)
//	result, err := autoarima.AutoARIMA(series, autoarima.DefaultConfig())
//	if err != nil { ... }
//	fc, _ := result.Forecast(30, []float64{0.80, 0.95})
//
// Fit a fixed specification directly:
//
//	model := arima.New(arima.Spec{P: 1, D: 1, Q: 1})
//	if err := model.Fit(series); err != nil { ... }
//	fc, _ := model.Forecast(10, nil)
//
// # Packages
//
//   - arima: model estimation, forecasting and diagnostics
//   - autoarima: automatic order selection
//   - stats: stationarity tests, autocorrelation and residual tests
//   - timeseries: series container, differencing and CSV I/O
//   - eval: hold-out accuracy evaluation
//   - cmd/goforecast: command-line interface
//
// # References
//
//   - Hyndman, R.J., & Athanasopoulos, G. (2021). Forecasting: Principles and Practice
//   - Hamilton, J.D. (1994). Time Series Analysis
package goforecast
