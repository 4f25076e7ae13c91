package forecast

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CoinCast/internal/model"
)

var t0 = time.Date(2024, 11, 20, 0, 0, 0, 0, time.UTC)

func candles(closes []float64) []model.Candle {
	out := make([]model.Candle, len(closes))
	for i, c := range closes {
		out[i] = model.Candle{Time: t0.Add(time.Duration(i) * 15 * time.Minute), Open: c, High: c, Low: c, Close: c}
	}
	return out
}

func randomWalk(n int, seed int64) []float64 {
	r := rand.New(rand.NewSource(seed))
	out := make([]float64, n)
	p := 30000.0
	for i := range out {
		p += r.NormFloat64() * 40
		out[i] = p
	}
	return out
}

func defaultForecaster() *Forecaster {
	return NewForecaster(Order{P: 3, D: 1, Q: 1}, 96, 8, 15*time.Minute)
}

func TestForecaster_EightPointsWithTimestamps(t *testing.T) {
	cs := candles(randomWalk(120, 1))
	points, err := defaultForecaster().Forecast(cs)
	require.NoError(t, err)
	require.Len(t, points, 8)

	last := cs[len(cs)-1].Time
	for k, p := range points {
		assert.Equal(t, last.Add(time.Duration(15*(k+1))*time.Minute), p.Time)
		assert.False(t, math.IsNaN(p.Close))
	}
}

func TestForecaster_FlatSeriesStaysFlat(t *testing.T) {
	closes := make([]float64, 96)
	for i := range closes {
		closes[i] = 2.5
	}
	points, err := defaultForecaster().Forecast(candles(closes))
	require.NoError(t, err)
	for _, p := range points {
		assert.InDelta(t, 2.5, p.Close, 1e-12)
	}
}

func TestForecaster_ShortHistory(t *testing.T) {
	_, err := defaultForecaster().Forecast(candles([]float64{1, 2, 3, 4}))
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInsufficientHistory)
}

func TestForecaster_MinimumHistoryFits(t *testing.T) {
	points, err := defaultForecaster().Forecast(candles([]float64{10, 11, 10.5, 11.2, 11.0}))
	require.NoError(t, err)
	assert.Len(t, points, 8)
}

func TestForecaster_UsesTrainingWindow(t *testing.T) {
	// A wild prefix outside the window must not affect the fit.
	tail := randomWalk(96, 3)
	prefix := make([]float64, 50)
	for i := range prefix {
		prefix[i] = float64(i%2) * 1e6
	}
	a, err := defaultForecaster().Forecast(candles(tail))
	require.NoError(t, err)
	b, err := defaultForecaster().Forecast(candles(append(prefix, tail...)))
	require.NoError(t, err)
	for i := range a {
		assert.InDelta(t, a[i].Close, b[i].Close, 1e-9)
	}
}

func TestFit_UpTrendForecastRises(t *testing.T) {
	closes := make([]float64, 96)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	fitted, err := Fit(closes, Order{P: 3, D: 1, Q: 1})
	require.NoError(t, err)
	out := fitted.Forecast(8)
	require.Len(t, out, 8)
	prev := closes[len(closes)-1]
	for _, v := range out {
		assert.Greater(t, v, prev)
		prev = v
	}
}

func TestFit_RecoversAR1(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	x := make([]float64, 3000)
	for i := 1; i < len(x); i++ {
		x[i] = 0.6*x[i-1] + r.NormFloat64()
	}
	fitted, err := Fit(x, Order{P: 1})
	require.NoError(t, err)
	assert.InDelta(t, 0.6, fitted.AR[0], 0.05)
	assert.InDelta(t, 1.0, fitted.Sigma2, 0.1)
}

func TestFit_StationaryAndInvertible(t *testing.T) {
	fitted, err := Fit(randomWalk(96, 9), Order{P: 3, D: 1, Q: 1})
	require.NoError(t, err)
	require.Len(t, fitted.AR, 3)
	require.Len(t, fitted.MA, 1)
	assert.Less(t, math.Abs(fitted.MA[0]), 1.0)
}

func TestFit_RejectsNonFinite(t *testing.T) {
	closes := randomWalk(20, 2)
	closes[5] = math.NaN()
	_, err := Fit(closes, Order{P: 3, D: 1, Q: 1})
	assert.ErrorIs(t, err, model.ErrNoConvergence)
}

func TestConstrainStationary_SingleLag(t *testing.T) {
	got := constrainStationary([]float64{0.5})
	assert.InDelta(t, math.Tanh(0.5), got[0], 1e-12)
}

func TestOrder(t *testing.T) {
	o := Order{P: 3, D: 1, Q: 1}
	assert.Equal(t, 5, o.MinObservations())
	assert.Equal(t, "ARIMA(3,1,1)", o.String())
}

func TestOrder_MinObservationsLeavesOneResidual(t *testing.T) {
	assert.Equal(t, 1, Order{}.MinObservations())
	assert.Equal(t, 2, Order{P: 1}.MinObservations())
	assert.Equal(t, 4, Order{P: 2, D: 1}.MinObservations())
	assert.Equal(t, 4, Order{P: 1, D: 1, Q: 2}.MinObservations())
}

func TestFit_AcceptsMinimumHistory(t *testing.T) {
	for _, o := range []Order{{P: 3, D: 1, Q: 1}, {P: 3, D: 1}, {P: 1}, {P: 1, D: 1, Q: 2}} {
		series := randomWalk(o.MinObservations(), 5)
		fitted, err := Fit(series, o)
		require.NoError(t, err, o.String())
		assert.Len(t, fitted.Forecast(8), 8, o.String())

		_, err = Fit(series[:len(series)-1], o)
		assert.ErrorIs(t, err, model.ErrInsufficientHistory, o.String())
	}
}
