package calculator

import (
	"sort"
	"time"

	"CoinCast/internal/model"
)

// Resample buckets raw samples into fixed-interval candles. Buckets start at
// t.Truncate(interval); buckets without samples are skipped, never filled.
func Resample(samples []model.PriceSample, interval time.Duration) []model.Candle {
	if len(samples) == 0 || interval <= 0 {
		return nil
	}

	sorted := make([]model.PriceSample, len(samples))
	copy(sorted, samples)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time.Before(sorted[j].Time) })

	var candles []model.Candle
	var cur model.Candle
	started := false

	for _, s := range sorted {
		bucket := s.Time.Truncate(interval)
		if !started || !bucket.Equal(cur.Time) {
			if started {
				candles = append(candles, cur)
			}
			cur = model.Candle{Time: bucket, Open: s.Price, High: s.Price, Low: s.Price, Close: s.Price}
			started = true
			continue
		}
		if s.Price > cur.High {
			cur.High = s.Price
		}
		if s.Price < cur.Low {
			cur.Low = s.Price
		}
		cur.Close = s.Price
	}
	if started {
		candles = append(candles, cur)
	}
	return candles
}
