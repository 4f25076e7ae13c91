package calculator

import (
	"errors"
	"math"

	"CoinCast/internal/model"
)

// CalculateRange scans the most recent n candles and returns the high and low.
func CalculateRange(candles []model.Candle, n int) (high, low float64, err error) {
	if len(candles) == 0 {
		return 0, 0, errors.New("no candles provided")
	}
	start := len(candles) - n
	if start < 0 {
		start = 0
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for i := start; i < len(candles); i++ {
		if candles[i].High > high {
			high = candles[i].High
		}
		if candles[i].Low < low {
			low = candles[i].Low
		}
	}
	return high, low, nil
}
