// Package metrics exposes pipeline measurements to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder records pipeline metrics on its own registry.
type Recorder struct {
	registry        *prometheus.Registry
	runsTotal       *prometheus.CounterVec
	stageDuration   *prometheus.HistogramVec
	lastClose       *prometheus.GaugeVec
	latestRSI       *prometheus.GaugeVec
	recommendations *prometheus.CounterVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Recorder{
		registry: reg,
		runsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coincast_pipeline_runs_total",
				Help: "Total number of pipeline runs by coin and result",
			},
			[]string{"coin", "result"},
		),
		stageDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "coincast_stage_duration_seconds",
				Help:    "Duration of pipeline stages in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
		lastClose: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "coincast_last_close_usd",
				Help: "Close of the most recent candle",
			},
			[]string{"coin"},
		),
		latestRSI: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "coincast_latest_rsi",
				Help: "Most recent defined RSI value",
			},
			[]string{"coin"},
		),
		recommendations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coincast_recommendations_total",
				Help: "Recommendations produced by coin and action",
			},
			[]string{"coin", "action"},
		),
	}
}

// RecordRun records the outcome of a pipeline run.
func (r *Recorder) RecordRun(coin, result string) {
	r.runsTotal.WithLabelValues(coin, result).Inc()
}

// ObserveStage records how long a stage took since start.
func (r *Recorder) ObserveStage(stage string, start time.Time) {
	r.stageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

// RecordLastClose records the latest close price for a coin.
func (r *Recorder) RecordLastClose(coin string, price float64) {
	r.lastClose.WithLabelValues(coin).Set(price)
}

// RecordRSI records the latest RSI for a coin.
func (r *Recorder) RecordRSI(coin string, value float64) {
	r.latestRSI.WithLabelValues(coin).Set(value)
}

// RecordRecommendation counts a produced recommendation.
func (r *Recorder) RecordRecommendation(coin, action string) {
	r.recommendations.WithLabelValues(coin, action).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
