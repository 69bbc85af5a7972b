package arima

import "errors"

var (
	// ErrEstimation indicates the optimizer failed to converge or the
	// likelihood was not finite at the optimum. Order search treats this
	// as "candidate inadmissible" rather than a fatal error.
	ErrEstimation = errors.New("arima: estimation failed")

	// ErrNotFitted indicates a forecast or diagnostic was requested
	// before the model was successfully fitted.
	ErrNotFitted = errors.New("arima: model is not fitted")
)
