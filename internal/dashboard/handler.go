// Package dashboard serves the coin dashboard page and its JSON API.
package dashboard

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"CoinCast/internal/model"
	"CoinCast/internal/notifier"
	"CoinCast/internal/selector"
)

// Analyzer runs the analysis pipeline for a coin.
type Analyzer interface {
	Run(ctx context.Context, coinName string) (*model.Analysis, error)
}

// Handler serves the dashboard routes.
type Handler struct {
	analyzer       Analyzer
	displayCandles int
	assetsHost     string
	log            zerolog.Logger
}

// NewHandler creates a dashboard handler.
func NewHandler(analyzer Analyzer, displayCandles int, log zerolog.Logger) *Handler {
	return &Handler{
		analyzer:       analyzer,
		displayCandles: displayCandles,
		assetsHost:     DefaultAssetsHost,
		log:            log,
	}
}

// RegisterRoutes attaches the dashboard routes to e.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Index)
	e.GET("/healthz", h.Health)
	g := e.Group("/api")
	g.GET("/coins", h.Coins)
	g.GET("/analysis", h.Analysis)
}

// StatusFor maps a run error to an HTTP status code.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, model.ErrUnknownCoin):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrDataUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, model.ErrInsufficientHistory), errors.Is(err, model.ErrNoConvergence):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func coinParam(c echo.Context) string {
	if coin := c.QueryParam("coin"); coin != "" {
		return coin
	}
	return selector.Default().Name
}

// Index renders the dashboard for the selected coin.
func (h *Handler) Index(c echo.Context) error {
	coin := coinParam(c)
	a, runErr := h.analyzer.Run(c.Request().Context(), coin)

	page, err := NewPage(coin, a, runErr, h.displayCandles, h.assetsHost)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		h.log.Error().Err(err).Str("coin", coin).Msg("render dashboard")
		return err
	}
	return c.HTMLBlob(StatusFor(runErr), buf.Bytes())
}

// Analysis returns the analysis of the selected coin as JSON.
func (h *Handler) Analysis(c echo.Context) error {
	coin := coinParam(c)
	a, err := h.analyzer.Run(c.Request().Context(), coin)
	if err != nil {
		status := StatusFor(err)
		return c.JSON(status, APIResponse{
			Status:  status,
			Message: notifier.FormatError(coin, err),
		})
	}
	return c.JSON(http.StatusOK, APIResponse{
		Status:  http.StatusOK,
		Message: http.StatusText(http.StatusOK),
		Data:    NewAnalysisResponse(a, h.displayCandles),
	})
}

// Coins lists the selectable coins in display order.
func (h *Handler) Coins(c echo.Context) error {
	return c.JSON(http.StatusOK, APIResponse{
		Status:  http.StatusOK,
		Message: http.StatusText(http.StatusOK),
		Data:    selector.Coins(),
	})
}

// Health reports liveness.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
