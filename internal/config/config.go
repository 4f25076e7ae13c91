package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"CoinCast/internal/forecast"
	"CoinCast/internal/selector"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr            string        `yaml:"addr" default:":8080" validate:"required"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"15s" validate:"gt=0"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"90s" validate:"gt=0"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s" validate:"gt=0"`
	} `yaml:"server"`
	DataSource struct {
		BaseURL    string `yaml:"base_url" default:"https://api.coingecko.com/api/v3" validate:"required,url"`
		APIKey     string `yaml:"api_key"`
		VsCurrency string `yaml:"vs_currency" default:"usd" validate:"required,lowercase"`
	} `yaml:"data_source"`
	Analysis struct {
		Lookback       time.Duration  `yaml:"lookback" default:"30h" validate:"gt=0"`
		Interval       time.Duration  `yaml:"interval" default:"15m" validate:"gt=0"`
		DisplayOffset  time.Duration  `yaml:"display_offset" default:"-3h"`
		RSIPeriod      int            `yaml:"rsi_period" default:"14" validate:"gt=0"`
		Order          forecast.Order `yaml:"order"`
		TrainingWindow int            `yaml:"training_window" default:"96" validate:"gt=0"`
		Horizon        int            `yaml:"horizon" default:"8" validate:"gt=0"`
		DisplayCandles int            `yaml:"display_candles" default:"16" validate:"gt=0"`
		MAPeriod       int            `yaml:"ma_period" default:"4" validate:"gt=0"`
	} `yaml:"analysis"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Watch struct {
		Cron       string   `yaml:"cron"`
		Coins      []string `yaml:"coins"`
		RunOnStart bool     `yaml:"run_on_start"`
	} `yaml:"watch"`
	Log struct {
		Level      string `yaml:"level" default:"info" validate:"oneof=trace debug info warn error"`
		Format     string `yaml:"format" default:"console" validate:"oneof=console json"`
		Output     string `yaml:"output" default:"stdout" validate:"required"`
		TimeFormat string `yaml:"time_format" default:"2006-01-02T15:04:05Z07:00"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

var validate = validator.New()

// Default returns a Config populated with default values only.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	// Struct tags are static; a failure here is a programming error.
	if err := defaults.Set(cfg); err != nil {
		panic(fmt.Sprintf("config defaults: %v", err))
	}
	// forecast.Order carries no default tags.
	cfg.Analysis.Order = forecast.Order{P: 3, D: 1, Q: 1}
}

// Load applies defaults, then the YAML file (a missing file is not an error),
// then environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("COINGECKO_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("COINGECKO_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("WATCH_CRON"); v != "" {
		cfg.Watch.Cron = v
	}
	if v := os.Getenv("WATCH_COINS"); v != "" {
		cfg.Watch.Coins = nil
		for _, c := range strings.Split(v, ",") {
			if c = strings.TrimSpace(c); c != "" {
				cfg.Watch.Coins = append(cfg.Watch.Coins, c)
			}
		}
	}
	if os.Getenv("RUN_ON_START") == "true" {
		cfg.Watch.RunOnStart = true
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	return cfg, nil
}

// Validate checks field constraints and cross-field rules.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if need := c.Analysis.Order.MinObservations(); c.Analysis.TrainingWindow < need {
		return fmt.Errorf("analysis.training_window must be at least %d for %s", need, c.Analysis.Order)
	}
	if c.Analysis.Lookback < c.Analysis.Interval {
		return fmt.Errorf("analysis.lookback must cover at least one interval")
	}
	for _, name := range c.Watch.Coins {
		if _, err := selector.Lookup(name); err != nil {
			return fmt.Errorf("watch.coins: %w", err)
		}
	}
	if c.WatchEnabled() {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required when watch.cron is set")
		}
		if c.Telegram.ChatID == "" {
			return fmt.Errorf("telegram.chat_id is required when watch.cron is set")
		}
	}
	return nil
}

// WatchEnabled reports whether the scheduled Telegram watcher should run.
func (c *Config) WatchEnabled() bool {
	return c.Watch.Cron != ""
}

// WatchCoins returns the coins to watch, defaulting to every known coin.
func (c *Config) WatchCoins() []string {
	if len(c.Watch.Coins) == 0 {
		return selector.Names()
	}
	return c.Watch.Coins
}
