package model

import "time"

// Recommendation is the three-way action derived from the forecast.
type Recommendation string

const (
	RecommendBuy  Recommendation = "BUY"
	RecommendSell Recommendation = "SELL"
	RecommendHold Recommendation = "HOLD"
)

// Coin pairs a display name with the provider-specific identifier.
type Coin struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// Analysis is the full output of one pipeline run for a single coin.
type Analysis struct {
	Coin           Coin
	GeneratedAt    time.Time
	Samples        int
	Candles        []Candle
	RSI            []RSIPoint
	LatestRSI      RSIPoint
	Forecast       []ForecastPoint
	Peak           Peak
	RecentMA       float64
	MeanTrend      float64
	Recommendation Recommendation
}

// LastCandles returns up to n of the most recent candles.
func (a *Analysis) LastCandles(n int) []Candle {
	if n >= len(a.Candles) {
		return a.Candles
	}
	return a.Candles[len(a.Candles)-n:]
}

// LastRSI returns up to n of the most recent oscillator points.
func (a *Analysis) LastRSI(n int) []RSIPoint {
	if n >= len(a.RSI) {
		return a.RSI
	}
	return a.RSI[len(a.RSI)-n:]
}
