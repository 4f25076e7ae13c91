package dashboard

import (
	"fmt"
	"html/template"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"CoinCast/internal/model"
	"CoinCast/internal/notifier"
)

const axisTimeFormat = "15:04"

// missing marks an absent value in an echarts series.
const missing = "-"

// Chart is a rendered chart ready to be embedded in the page.
type Chart struct {
	ID      string
	Options template.JS
}

type renderable interface {
	Validate()
	JSONNotEscaped() template.HTML
}

func render(id string, c renderable) Chart {
	c.Validate()
	return Chart{ID: id, Options: template.JS(c.JSONNotEscaped())}
}

// CandleChart plots the last n candles.
func CandleChart(a *model.Analysis, n int) *charts.Kline {
	candles := a.LastCandles(n)
	x := make([]string, len(candles))
	data := make([]opts.KlineData, len(candles))
	for i, c := range candles {
		x[i] = c.Time.Format(axisTimeFormat)
		data[i] = opts.KlineData{Value: [4]float64{c.Open, c.Close, c.Low, c.High}}
	}

	kline := charts.NewKLine()
	kline.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: fmt.Sprintf("%s price, last %d candles", a.Coin.Name, len(candles))}),
		charts.WithYAxisOpts(opts.YAxis{Scale: true}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "axis"}),
	)
	kline.SetXAxis(x).AddSeries(a.Coin.Name, data)
	return kline
}

// RSIChart plots the last n RSI points with the overbought and oversold levels.
func RSIChart(a *model.Analysis, n int) *charts.Line {
	points := a.LastRSI(n)
	x := make([]string, len(points))
	data := make([]opts.LineData, len(points))
	for i, p := range points {
		x[i] = p.Time.Format(axisTimeFormat)
		if p.Valid {
			data[i] = opts.LineData{Value: p.Value}
		} else {
			data[i] = opts.LineData{Value: missing}
		}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("%s RSI", a.Coin.Name),
			Subtitle: "Latest RSI: " + notifier.FormatRSI(a.LatestRSI),
		}),
		charts.WithYAxisOpts(opts.YAxis{Min: 0, Max: 100}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "axis"}),
	)
	line.SetXAxis(x).AddSeries("RSI", data,
		charts.WithMarkLineNameYAxisItemOpts(
			opts.MarkLineNameYAxisItem{Name: "Overbought", YAxis: notifier.Overbought},
			opts.MarkLineNameYAxisItem{Name: "Oversold", YAxis: notifier.Oversold},
		),
	)
	return line
}

// ForecastChart plots the last n closes followed by the forecast. The
// forecast series starts at the last actual close so the two lines join.
func ForecastChart(a *model.Analysis, n int) *charts.Line {
	candles := a.LastCandles(n)
	total := len(candles) + len(a.Forecast)
	x := make([]string, 0, total)
	actual := make([]opts.LineData, 0, total)
	predicted := make([]opts.LineData, 0, total)

	for i, c := range candles {
		x = append(x, c.Time.Format(axisTimeFormat))
		actual = append(actual, opts.LineData{Value: c.Close})
		if i == len(candles)-1 {
			predicted = append(predicted, opts.LineData{Value: c.Close})
		} else {
			predicted = append(predicted, opts.LineData{Value: missing})
		}
	}
	for _, p := range a.Forecast {
		x = append(x, p.Time.Format(axisTimeFormat))
		actual = append(actual, opts.LineData{Value: missing})
		predicted = append(predicted, opts.LineData{Value: p.Close})
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("%s price and forecast", a.Coin.Name),
			Subtitle: fmt.Sprintf("Next %d intervals", len(a.Forecast)),
		}),
		charts.WithYAxisOpts(opts.YAxis{Scale: true}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: true}),
	)
	line.SetXAxis(x).
		AddSeries("Close", actual).
		AddSeries("Forecast", predicted, charts.WithLineStyleOpts(opts.LineStyle{Type: "dashed"}))
	return line
}

// Charts renders the three dashboard charts for an analysis.
func Charts(a *model.Analysis, n int) []Chart {
	return []Chart{
		render("candles", CandleChart(a, n)),
		render("rsi", RSIChart(a, n)),
		render("forecast", ForecastChart(a, n)),
	}
}
