package calculator

import (
	"errors"

	"CoinCast/internal/model"
)

// CalculateRSISeries computes the RSI for every candle using simple rolling
// means of gains and losses over the trailing period deltas. Point i is valid
// only when i >= period. A zero average loss yields 100 when there were gains
// and an undefined point when the window was flat.
func CalculateRSISeries(candles []model.Candle, period int) ([]model.RSIPoint, error) {
	if period <= 0 {
		return nil, errors.New("period must be positive")
	}

	series := make([]model.RSIPoint, len(candles))
	gains := make([]float64, len(candles))
	losses := make([]float64, len(candles))

	for i, c := range candles {
		series[i].Time = c.Time
		if i == 0 {
			continue
		}
		change := c.Close - candles[i-1].Close
		if change > 0 {
			gains[i] = change
		} else {
			losses[i] = -change
		}
	}

	for i := period; i < len(candles); i++ {
		var sumGain, sumLoss float64
		for j := i - period + 1; j <= i; j++ {
			sumGain += gains[j]
			sumLoss += losses[j]
		}
		series[i].Value, series[i].Valid = rsiFromAverages(sumGain/float64(period), sumLoss/float64(period))
	}
	return series, nil
}

func rsiFromAverages(avgGain, avgLoss float64) (float64, bool) {
	if avgLoss == 0 {
		if avgGain == 0 {
			return 0, false
		}
		return 100.0, true
	}
	rs := avgGain / avgLoss
	rsi := 100.0 - 100.0/(1.0+rs)
	if rsi < 0 {
		rsi = 0
	}
	if rsi > 100 {
		rsi = 100
	}
	return rsi, true
}

// LatestRSI returns the most recent defined oscillator point, or an invalid
// point when none is defined.
func LatestRSI(series []model.RSIPoint) model.RSIPoint {
	for i := len(series) - 1; i >= 0; i-- {
		if series[i].Valid {
			return series[i]
		}
	}
	return model.RSIPoint{}
}
