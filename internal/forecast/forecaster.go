package forecast

import (
	"fmt"
	"time"

	"CoinCast/internal/calculator"
	"CoinCast/internal/model"
)

// Forecaster projects candle closes forward with an ARIMA model fitted on a
// trailing training window.
type Forecaster struct {
	Order    Order
	Window   int
	Horizon  int
	Interval time.Duration
}

// NewForecaster creates a Forecaster.
func NewForecaster(order Order, window, horizon int, interval time.Duration) *Forecaster {
	return &Forecaster{Order: order, Window: window, Horizon: horizon, Interval: interval}
}

// Forecast fits the model on the last Window candles (fewer when history is
// shorter) and returns Horizon points spaced Interval apart after the last candle.
func (f *Forecaster) Forecast(candles []model.Candle) ([]model.ForecastPoint, error) {
	if need := f.Order.MinObservations(); len(candles) < need {
		return nil, fmt.Errorf("%w: %d candles available, %s needs at least %d",
			model.ErrInsufficientHistory, len(candles), f.Order, need)
	}

	training := candles
	if f.Window > 0 && len(training) > f.Window {
		training = training[len(training)-f.Window:]
	}

	fitted, err := Fit(calculator.Closes(training), f.Order)
	if err != nil {
		return nil, fmt.Errorf("fit %s: %w", f.Order, err)
	}

	values := fitted.Forecast(f.Horizon)
	last := training[len(training)-1].Time
	points := make([]model.ForecastPoint, len(values))
	for i, v := range values {
		points[i] = model.ForecastPoint{
			Time:  last.Add(time.Duration(i+1) * f.Interval),
			Close: v,
		}
	}
	return points, nil
}
