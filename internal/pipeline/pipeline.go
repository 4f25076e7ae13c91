// Package pipeline runs the fetch, resample, indicator, forecast and signal
// stages for one coin.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"CoinCast/internal/calculator"
	"CoinCast/internal/collector"
	"CoinCast/internal/forecast"
	"CoinCast/internal/metrics"
	"CoinCast/internal/model"
	"CoinCast/internal/selector"
	"CoinCast/internal/strategy"
)

// Settings are the indicator parameters of a run.
type Settings struct {
	Interval  time.Duration
	RSIPeriod int
	MAPeriod  int
}

// Pipeline computes an Analysis from scratch on every call. It holds no
// state between runs.
type Pipeline struct {
	Collector  *collector.Collector
	Forecaster *forecast.Forecaster
	Metrics    *metrics.Recorder
	Settings   Settings
	Log        zerolog.Logger
	Now        func() time.Time
}

// New creates a Pipeline.
func New(col *collector.Collector, fc *forecast.Forecaster, rec *metrics.Recorder, settings Settings, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		Collector:  col,
		Forecaster: fc,
		Metrics:    rec,
		Settings:   settings,
		Log:        log,
		Now:        time.Now,
	}
}

// Run executes every stage for the coin with the given display name. Any
// stage failure aborts the run.
func (p *Pipeline) Run(ctx context.Context, coinName string) (*model.Analysis, error) {
	start := time.Now()
	a, err := p.run(ctx, coinName)
	p.Metrics.ObserveStage("total", start)
	p.Metrics.RecordRun(coinName, Outcome(err))
	if err != nil {
		p.Log.Error().Err(err).Str("coin", coinName).Msg("pipeline run failed")
		return nil, err
	}

	p.Metrics.RecordLastClose(a.Coin.Name, a.Candles[len(a.Candles)-1].Close)
	if a.LatestRSI.Valid {
		p.Metrics.RecordRSI(a.Coin.Name, a.LatestRSI.Value)
	}
	p.Metrics.RecordRecommendation(a.Coin.Name, string(a.Recommendation))
	p.Log.Info().
		Str("coin", a.Coin.Name).
		Int("samples", a.Samples).
		Int("candles", len(a.Candles)).
		Float64("peak", a.Peak.Close).
		Str("recommendation", string(a.Recommendation)).
		Dur("took", time.Since(start)).
		Msg("pipeline run finished")
	return a, nil
}

func (p *Pipeline) run(ctx context.Context, coinName string) (*model.Analysis, error) {
	coin, err := selector.Lookup(coinName)
	if err != nil {
		return nil, err
	}

	stageStart := time.Now()
	samples, err := p.Collector.Collect(ctx, coin)
	p.Metrics.ObserveStage("fetch", stageStart)
	if err != nil {
		return nil, err
	}

	stageStart = time.Now()
	candles := calculator.Resample(samples, p.Settings.Interval)
	if len(candles) == 0 {
		return nil, fmt.Errorf("%w for %s: no candles after resampling", model.ErrDataUnavailable, coin.Name)
	}
	rsi, err := calculator.CalculateRSISeries(candles, p.Settings.RSIPeriod)
	if err != nil {
		return nil, fmt.Errorf("rsi: %w", err)
	}
	p.Metrics.ObserveStage("aggregate", stageStart)

	stageStart = time.Now()
	points, err := p.Forecaster.Forecast(candles)
	p.Metrics.ObserveStage("forecast", stageStart)
	if err != nil {
		return nil, fmt.Errorf("forecast %s: %w", coin.Name, err)
	}

	recentMA, err := calculator.RecentAverage(candles, p.Settings.MAPeriod)
	if err != nil {
		return nil, fmt.Errorf("%w for %s: moving average: %v", model.ErrInsufficientHistory, coin.Name, err)
	}
	signal := strategy.Evaluate(points, recentMA)

	return &model.Analysis{
		Coin:           coin,
		GeneratedAt:    p.Now(),
		Samples:        len(samples),
		Candles:        candles,
		RSI:            rsi,
		LatestRSI:      calculator.LatestRSI(rsi),
		Forecast:       points,
		Peak:           signal.Peak,
		RecentMA:       signal.RecentMA,
		MeanTrend:      signal.MeanTrend,
		Recommendation: signal.Recommendation,
	}, nil
}

// Outcome classifies a run error into a short label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, model.ErrUnknownCoin):
		return "unknown_coin"
	case errors.Is(err, model.ErrDataUnavailable):
		return "data_unavailable"
	case errors.Is(err, model.ErrInsufficientHistory):
		return "insufficient_history"
	case errors.Is(err, model.ErrNoConvergence):
		return "no_convergence"
	default:
		return "error"
	}
}
