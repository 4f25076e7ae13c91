package collector

import (
	"context"
	"time"

	"CoinCast/internal/model"
)

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	// FetchPriceRange returns price samples for the coin id quoted in
	// vsCurrency between from and to, in chronological order.
	FetchPriceRange(ctx context.Context, id, vsCurrency string, from, to time.Time) ([]model.PriceSample, error)
	Name() string
}
