package notifier

import (
	"errors"
	"fmt"
	"html"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"CoinCast/internal/calculator"
	"CoinCast/internal/model"
)

// RSI reference levels.
const (
	Overbought = 70.0
	Oversold   = 30.0
)

// FormatPrice renders a USD price with two decimals, or more for sub-dollar coins.
func FormatPrice(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	places := int32(2)
	if math.Abs(v) < 1 {
		places = 4
	}
	return decimal.NewFromFloat(v).StringFixed(places)
}

// FormatRSI renders the latest RSI, or a placeholder when it is undefined.
func FormatRSI(p model.RSIPoint) string {
	if !p.Valid {
		return "insufficient data"
	}
	return fmt.Sprintf("%.2f", p.Value)
}

// RSIZone describes where the RSI sits relative to the reference levels.
func RSIZone(p model.RSIPoint) string {
	switch {
	case !p.Valid:
		return ""
	case p.Value > Overbought:
		return "overbought"
	case p.Value < Oversold:
		return "oversold"
	default:
		return "neutral"
	}
}

// FormatReport renders the textual part of the dashboard as markdown blocks.
func FormatReport(a *model.Analysis, displayCandles int) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("### Peak forecast: $%s USD at %s\n\n",
		FormatPrice(a.Peak.Close), a.Peak.Time.Format("15:04")))

	b.WriteString(fmt.Sprintf("**Latest RSI:** %s", FormatRSI(a.LatestRSI)))
	if zone := RSIZone(a.LatestRSI); zone != "" {
		b.WriteString(fmt.Sprintf(" (%s)", zone))
	}
	b.WriteString("  \n")
	b.WriteString(fmt.Sprintf("**1h moving average:** $%s USD  \n", FormatPrice(a.RecentMA)))
	if h, l, err := calculator.CalculateRange(a.Candles, displayCandles); err == nil {
		b.WriteString(fmt.Sprintf("**Range (last %d candles):** $%s – $%s USD\n\n",
			displayCandles, FormatPrice(l), FormatPrice(h)))
	} else {
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("### Recommendation: %s\n", a.Recommendation))
	return b.String()
}

// FormatTelegramReport formats the analysis into a Telegram HTML message.
func FormatTelegramReport(a *model.Analysis) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>%s</b> | %s\n\n", a.Coin.Name, a.GeneratedAt.Format("2006-01-02 15:04")))
	if n := len(a.Candles); n > 0 {
		b.WriteString(fmt.Sprintf("Last close: $%s\n", FormatPrice(a.Candles[n-1].Close)))
	}
	b.WriteString(fmt.Sprintf("1h MA: $%s\n", FormatPrice(a.RecentMA)))
	b.WriteString(fmt.Sprintf("RSI: %s", FormatRSI(a.LatestRSI)))
	if zone := RSIZone(a.LatestRSI); zone != "" {
		b.WriteString(fmt.Sprintf(" (%s)", zone))
	}
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("📈 Peak forecast: $%s at %s\n", FormatPrice(a.Peak.Close), a.Peak.Time.Format("15:04")))
	b.WriteString(fmt.Sprintf("💡 <b>Recommendation: %s</b>\n", a.Recommendation))
	return b.String()
}

// FormatTelegramError renders a failed run as Telegram HTML, escaping the
// user-supplied coin name and the error text.
func FormatTelegramError(coin string, err error) string {
	return html.EscapeString(FormatError(coin, err))
}

// FormatError renders a failed run for the user.
func FormatError(coin string, err error) string {
	reason := "analysis failed"
	switch {
	case errors.Is(err, model.ErrUnknownCoin):
		reason = "unknown coin"
	case errors.Is(err, model.ErrDataUnavailable):
		reason = "price data unavailable"
	case errors.Is(err, model.ErrInsufficientHistory):
		reason = "not enough price history"
	case errors.Is(err, model.ErrNoConvergence):
		reason = "forecast model did not converge"
	}
	return fmt.Sprintf("❌ %s: %s (%v)", coin, reason, err)
}
