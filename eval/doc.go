// Package eval measures forecast accuracy out of sample.
//
// Holdout splits a series chronologically, reruns the full selection
// pipeline on the training prefix, forecasts over the withheld suffix
// and scores the forecasts with RMSE, MAE, MAPE and MASE. The naive
// last-value RMSE is reported alongside as the minimal usefulness
// bound: a model whose RMSE exceeds it adds nothing over carrying the
// last observation forward.
package eval
