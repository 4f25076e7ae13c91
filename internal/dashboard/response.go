package dashboard

import (
	"time"

	"CoinCast/internal/model"
)

// APIResponse is the envelope of every JSON response.
type APIResponse struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type candleDTO struct {
	Time  time.Time `json:"time"`
	Open  float64   `json:"open"`
	High  float64   `json:"high"`
	Low   float64   `json:"low"`
	Close float64   `json:"close"`
}

type rsiDTO struct {
	Time  time.Time `json:"time"`
	Value *float64  `json:"value"`
}

type pointDTO struct {
	Time  time.Time `json:"time"`
	Close float64   `json:"close"`
}

// AnalysisResponse is the JSON view of an analysis, trimmed to the display window.
type AnalysisResponse struct {
	Coin           model.Coin  `json:"coin"`
	GeneratedAt    time.Time   `json:"generated_at"`
	Candles        []candleDTO `json:"candles"`
	RSI            []rsiDTO    `json:"rsi"`
	LatestRSI      *float64    `json:"latest_rsi"`
	Forecast       []pointDTO  `json:"forecast"`
	Peak           pointDTO    `json:"peak"`
	RecentMA       float64     `json:"recent_ma"`
	MeanTrend      float64     `json:"mean_trend"`
	Recommendation string      `json:"recommendation"`
}

func rsiValue(p model.RSIPoint) *float64 {
	if !p.Valid {
		return nil
	}
	v := p.Value
	return &v
}

// NewAnalysisResponse converts an analysis, keeping the last n candles and RSI points.
func NewAnalysisResponse(a *model.Analysis, n int) *AnalysisResponse {
	resp := &AnalysisResponse{
		Coin:           a.Coin,
		GeneratedAt:    a.GeneratedAt,
		LatestRSI:      rsiValue(a.LatestRSI),
		Peak:           pointDTO{Time: a.Peak.Time, Close: a.Peak.Close},
		RecentMA:       a.RecentMA,
		MeanTrend:      a.MeanTrend,
		Recommendation: string(a.Recommendation),
	}
	for _, c := range a.LastCandles(n) {
		resp.Candles = append(resp.Candles, candleDTO{c.Time, c.Open, c.High, c.Low, c.Close})
	}
	for _, p := range a.LastRSI(n) {
		resp.RSI = append(resp.RSI, rsiDTO{Time: p.Time, Value: rsiValue(p)})
	}
	for _, p := range a.Forecast {
		resp.Forecast = append(resp.Forecast, pointDTO{Time: p.Time, Close: p.Close})
	}
	return resp
}
