package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CoinCast/internal/model"
)

func sampleAnalysis() *model.Analysis {
	base := time.Date(2024, 11, 20, 9, 0, 0, 0, time.UTC)
	candles := make([]model.Candle, 20)
	for i := range candles {
		p := 90000 + float64(i)*10
		candles[i] = model.Candle{
			Time: base.Add(time.Duration(i-19) * 15 * time.Minute),
			Open: p, High: p + 50, Low: p - 50, Close: p,
		}
	}
	return &model.Analysis{
		Coin:           model.Coin{Name: "Bitcoin", ID: "bitcoin"},
		GeneratedAt:    base,
		Candles:        candles,
		LatestRSI:      model.RSIPoint{Time: base, Value: 72.346, Valid: true},
		Peak:           model.Peak{Time: base.Add(45 * time.Minute), Close: 91234.5},
		RecentMA:       90175,
		Recommendation: model.RecommendSell,
	}
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "91234.50", FormatPrice(91234.5))
	assert.Equal(t, "0.1235", FormatPrice(0.12345))
	assert.Equal(t, "n/a", FormatPrice(math.NaN()))
}

func TestFormatReport(t *testing.T) {
	out := FormatReport(sampleAnalysis(), 16)

	assert.Contains(t, out, "### Peak forecast: $91234.50 USD at 09:45")
	assert.Contains(t, out, "**Latest RSI:** 72.35 (overbought)")
	assert.Contains(t, out, "$89990.00 – $90240.00 USD")
	assert.Contains(t, out, "### Recommendation: SELL")
}

func TestFormatReportUndefinedRSI(t *testing.T) {
	a := sampleAnalysis()
	a.LatestRSI = model.RSIPoint{}

	out := FormatReport(a, 16)
	assert.Contains(t, out, "**Latest RSI:** insufficient data")
	assert.NotContains(t, out, "NaN")
}

func TestRSIZone(t *testing.T) {
	assert.Equal(t, "oversold", RSIZone(model.RSIPoint{Value: 25, Valid: true}))
	assert.Equal(t, "neutral", RSIZone(model.RSIPoint{Value: 50, Valid: true}))
	assert.Equal(t, "overbought", RSIZone(model.RSIPoint{Value: 80, Valid: true}))
	assert.Equal(t, "", RSIZone(model.RSIPoint{}))
}

func TestFormatTelegramReport(t *testing.T) {
	out := FormatTelegramReport(sampleAnalysis())
	assert.Contains(t, out, "<b>Bitcoin</b>")
	assert.Contains(t, out, "Last close: $90190.00")
	assert.Contains(t, out, "<b>Recommendation: SELL</b>")
}

func TestFormatError(t *testing.T) {
	err := fmt.Errorf("%w for Kaspa: boom", model.ErrDataUnavailable)
	out := FormatError("Kaspa", err)
	assert.Contains(t, out, "Kaspa: price data unavailable")

	out = FormatError("Dogecoin", fmt.Errorf("%w: %q", model.ErrUnknownCoin, "Dogecoin"))
	assert.Contains(t, out, "unknown coin")

	out = FormatError("Bitcoin", errors.New("other"))
	assert.Contains(t, out, "analysis failed")
}

func TestFormatTelegramErrorEscapes(t *testing.T) {
	err := fmt.Errorf("%w for X: status 502, body: <html>a & b</html>", model.ErrDataUnavailable)
	out := FormatTelegramError("<b>", err)

	assert.Contains(t, out, "&lt;b&gt;: price data unavailable")
	assert.Contains(t, out, "&lt;html&gt;a &amp; b&lt;/html&gt;")
	assert.NotContains(t, out, "<")
}

func newTestNotifier(url string) *TelegramNotifier {
	tn := NewTelegramNotifier("token", "42", "", zerolog.Nop())
	tn.APIURL = url
	return tn
}

func TestSend(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bottoken/sendMessage", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	require.NoError(t, newTestNotifier(srv.URL).Send(context.Background(), "hello"))
	assert.Equal(t, "42", got["chat_id"])
	assert.Equal(t, "hello", got["text"])
	assert.Equal(t, "HTML", got["parse_mode"])
}

func TestSendWithRetryRecovers(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	require.NoError(t, newTestNotifier(srv.URL).SendWithRetry(context.Background(), "hi", 3))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestSendWithRetryStopsOnClientError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	err := newTestNotifier(srv.URL).SendWithRetry(context.Background(), "hi", 3)
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestPollDispatchesCommands(t *testing.T) {
	var replies []string
	mux := http.NewServeMux()
	mux.HandleFunc("/bottoken/getUpdates", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "7", r.URL.Query().Get("offset"))
		fmt.Fprint(w, `{"ok":true,"result":[{"update_id":7,"message":{"text":" /coins "}},{"update_id":8}]}`)
	})
	mux.HandleFunc("/bottoken/sendMessage", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		replies = append(replies, body["text"])
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	tn := newTestNotifier(srv.URL)
	next, err := tn.poll(context.Background(), srv.Client(), 7, func(_ context.Context, cmd string) string {
		return "got " + cmd
	})
	require.NoError(t, err)
	assert.Equal(t, 9, next)
	assert.Equal(t, []string{"got /coins"}, replies)
}
