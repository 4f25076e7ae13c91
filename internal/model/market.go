package model

import "time"

// PriceSample is a single raw price observation from the market-data provider.
type PriceSample struct {
	Time  time.Time
	Price float64
}

// Candle represents a single OHLC bar. Time is the start of the bar's interval.
type Candle struct {
	Time  time.Time
	Open  float64
	High  float64
	Low   float64
	Close float64
}

// RSIPoint is the oscillator value for one candle. Valid is false while the
// rolling window has insufficient history or the ratio is undefined.
type RSIPoint struct {
	Time  time.Time
	Value float64
	Valid bool
}

// ForecastPoint is a predicted close for a future interval.
type ForecastPoint struct {
	Time  time.Time
	Close float64
}

// Peak is the highest predicted close within the forecast horizon.
type Peak struct {
	Time  time.Time
	Close float64
}
