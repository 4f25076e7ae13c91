package model

import "errors"

var (
	// ErrUnknownCoin is returned when a display name is not in the coin table.
	ErrUnknownCoin = errors.New("unknown coin")
	// ErrDataUnavailable means the provider failed or returned no samples.
	ErrDataUnavailable = errors.New("price data unavailable")
	// ErrInsufficientHistory means there are too few candles to fit the model.
	ErrInsufficientHistory = errors.New("insufficient price history")
	// ErrNoConvergence means the forecasting model could not be estimated.
	ErrNoConvergence = errors.New("forecast model did not converge")
)
