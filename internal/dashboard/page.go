package dashboard

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/yuin/goldmark"

	"CoinCast/internal/model"
	"CoinCast/internal/notifier"
	"CoinCast/internal/selector"
)

// DefaultAssetsHost serves the echarts bundle.
const DefaultAssetsHost = "https://go-echarts.github.io/go-echarts-assets/assets/"

const introMarkdown = `Pick a coin to load the last 30 hours of prices, aggregated into 15-minute candles.

* **Candlesticks** show the last four hours of price action.
* **RSI** tracks momentum; above 70 is overbought, below 30 is oversold.
* **Forecast** extends the recent closes by two hours with an ARIMA model (dashed).`

const footerMarkdown = `Prices from CoinGecko. Forecasts are statistical estimates, not financial advice.`

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// PageData is the view model of the dashboard page.
type PageData struct {
	Title      string
	AssetsHost string
	Intro      template.HTML
	Coins      []string
	Selected   string
	Charts     []Chart
	Report     template.HTML
	Error      string
	Footer     template.HTML
}

// Markdown converts a markdown block to HTML.
func Markdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// NewPage builds the page for a successful analysis, or for a failed run
// when err is non-nil. A failed page carries no charts.
func NewPage(coin string, a *model.Analysis, runErr error, displayCandles int, assetsHost string) (*PageData, error) {
	intro, err := Markdown(introMarkdown)
	if err != nil {
		return nil, err
	}
	footer, err := Markdown(footerMarkdown)
	if err != nil {
		return nil, err
	}
	page := &PageData{
		Title:      "CoinCast crypto dashboard",
		AssetsHost: assetsHost,
		Intro:      intro,
		Coins:      selector.Names(),
		Selected:   coin,
		Footer:     footer,
	}
	if runErr != nil {
		page.Error = notifier.FormatError(coin, runErr)
		return page, nil
	}

	page.Charts = Charts(a, displayCandles)
	page.Report, err = Markdown(notifier.FormatReport(a, displayCandles))
	if err != nil {
		return nil, err
	}
	return page, nil
}

// Render writes the page as HTML.
func (p *PageData) Render(w io.Writer) error {
	return pageTemplate.Execute(w, p)
}
