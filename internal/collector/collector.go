package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"CoinCast/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price   float64
	Samples []model.PriceSample
	Err     error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchPriceRange(_ context.Context, _, _ string, from, to time.Time) ([]model.PriceSample, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Samples != nil {
		return m.Samples, nil
	}
	return generateMockSamples(m.Price, from, to), nil
}

// generateMockSamples produces a gently oscillating series every 5 minutes.
func generateMockSamples(basePrice float64, from, to time.Time) []model.PriceSample {
	var samples []model.PriceSample
	i := 0
	for t := from.UTC(); !t.After(to); t = t.Add(5 * time.Minute) {
		p := basePrice * (1 + float64(i%24-12)*0.0005 + float64(i)*0.00002)
		samples = append(samples, model.PriceSample{Time: t, Price: p})
		i++
	}
	return samples
}

// Options controls the fetch window and timestamp adjustment.
type Options struct {
	Lookback      time.Duration
	VsCurrency    string
	DisplayOffset time.Duration
}

// Collector fetches the recent price history of a coin.
type Collector struct {
	Fetcher Fetcher
	Options Options
	Now     func() time.Time
	Log     zerolog.Logger
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, opts Options, log zerolog.Logger) *Collector {
	return &Collector{Fetcher: fetcher, Options: opts, Now: time.Now, Log: log}
}

// Collect fetches samples for the lookback window ending now and shifts them
// into display time. A failed call or an empty series is fatal for the run.
func (c *Collector) Collect(ctx context.Context, coin model.Coin) ([]model.PriceSample, error) {
	to := c.Now()
	from := to.Add(-c.Options.Lookback)

	samples, err := c.Fetcher.FetchPriceRange(ctx, coin.ID, c.Options.VsCurrency, from, to)
	if err != nil {
		return nil, fmt.Errorf("%w for %s: %w", model.ErrDataUnavailable, coin.Name, err)
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w for %s: provider %s returned no prices", model.ErrDataUnavailable, coin.Name, c.Fetcher.Name())
	}

	shifted := make([]model.PriceSample, len(samples))
	for i, s := range samples {
		shifted[i] = model.PriceSample{Time: s.Time.UTC().Add(c.Options.DisplayOffset), Price: s.Price}
	}

	c.Log.Debug().
		Str("coin", coin.Name).
		Str("source", c.Fetcher.Name()).
		Int("samples", len(shifted)).
		Time("from", from).
		Time("to", to).
		Msg("fetched price history")
	return shifted, nil
}
