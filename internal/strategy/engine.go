package strategy

import "CoinCast/internal/model"

// Signal is the presenter-side reading of a forecast.
type Signal struct {
	Peak           model.Peak
	MeanTrend      float64
	RecentMA       float64
	Recommendation model.Recommendation
}

// PeakForecast returns the highest predicted close; ties keep the earliest point.
func PeakForecast(points []model.ForecastPoint) model.Peak {
	if len(points) == 0 {
		return model.Peak{}
	}
	peak := model.Peak{Time: points[0].Time, Close: points[0].Close}
	for _, p := range points[1:] {
		if p.Close > peak.Close {
			peak = model.Peak{Time: p.Time, Close: p.Close}
		}
	}
	return peak
}

// MeanTrend is the mean of successive differences across the forecast.
func MeanTrend(points []model.ForecastPoint) float64 {
	if len(points) < 2 {
		return 0
	}
	sum := 0.0
	for i := 1; i < len(points); i++ {
		sum += points[i].Close - points[i-1].Close
	}
	return sum / float64(len(points)-1)
}

// Recommend maps trend direction and the final forecast's position relative to
// the recent moving average to an action. BUY and SELL require both the trend
// and the crossing condition; everything else holds.
func Recommend(points []model.ForecastPoint, recentMA float64) model.Recommendation {
	if len(points) == 0 {
		return model.RecommendHold
	}
	trend := MeanTrend(points)
	final := points[len(points)-1].Close
	switch {
	case trend > 0 && final < recentMA:
		return model.RecommendBuy
	case trend < 0 && final > recentMA:
		return model.RecommendSell
	default:
		return model.RecommendHold
	}
}

// Evaluate computes the full signal from a forecast and the recent moving average.
func Evaluate(points []model.ForecastPoint, recentMA float64) *Signal {
	return &Signal{
		Peak:           PeakForecast(points),
		MeanTrend:      MeanTrend(points),
		RecentMA:       recentMA,
		Recommendation: Recommend(points, recentMA),
	}
}
