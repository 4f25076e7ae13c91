package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"CoinCast/internal/collector"
	"CoinCast/internal/config"
	"CoinCast/internal/dashboard"
	"CoinCast/internal/forecast"
	"CoinCast/internal/logger"
	"CoinCast/internal/metrics"
	"CoinCast/internal/notifier"
	"CoinCast/internal/pipeline"
	"CoinCast/internal/scheduler"
	"CoinCast/internal/server"
)

func main() {
	// A missing .env is fine; real environment variables still apply.
	_ = godotenv.Load()

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}

	lg, logCloser, err := logger.New(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: cfg.Log.TimeFormat,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("init logger")
	}
	defer logCloser.Close()
	lg.Info().Str("config", cfgPath).Msg("CoinCast starting")

	fetcher := collector.NewCoinGeckoFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	lg.Info().Str("source", fetcher.Name()).Msg("data source ready")

	col := collector.NewCollector(fetcher, collector.Options{
		Lookback:      cfg.Analysis.Lookback,
		VsCurrency:    cfg.DataSource.VsCurrency,
		DisplayOffset: cfg.Analysis.DisplayOffset,
	}, component(lg, "collector"))
	fc := forecast.NewForecaster(cfg.Analysis.Order, cfg.Analysis.TrainingWindow, cfg.Analysis.Horizon, cfg.Analysis.Interval)
	rec := metrics.New()
	pl := pipeline.New(col, fc, rec, pipeline.Settings{
		Interval:  cfg.Analysis.Interval,
		RSIPeriod: cfg.Analysis.RSIPeriod,
		MAPeriod:  cfg.Analysis.MAPeriod,
	}, component(lg, "pipeline"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != "" {
		tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, component(lg, "telegram"))
		sched := scheduler.NewScheduler(ctx, pl, tn, cfg.WatchCoins(), component(lg, "scheduler"))
		if cfg.WatchEnabled() {
			if err := sched.Register(cfg.Watch.Cron); err != nil {
				lg.Fatal().Err(err).Msg("register watch task")
			}
			sched.Start()
			defer sched.Stop()
			if cfg.Watch.RunOnStart {
				lg.Info().Msg("run_on_start enabled, executing watch task now")
				go sched.RunNow()
			}
		}
		go tn.StartPolling(ctx, sched.HandleCommand)
		lg.Info().Msg("telegram polling started")
	}

	dash := dashboard.NewHandler(pl, cfg.Analysis.DisplayCandles, component(lg, "dashboard"))
	srv := server.New(component(lg, "http"), rec.Handler(), []server.Handler{dash},
		server.WithAddr(cfg.Server.Addr),
		server.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
	)

	if err := srv.Run(ctx); err != nil {
		lg.Error().Err(err).Msg("http server")
	}
	lg.Info().Msg("CoinCast stopped")
}

func component(lg zerolog.Logger, name string) zerolog.Logger {
	return lg.With().Str("component", name).Logger()
}
