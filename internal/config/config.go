package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"CoinLens/internal/model"
)

// Countdown is an externally supplied countdown target.
type Countdown struct {
	Name   string    `yaml:"name"`
	Target time.Time `yaml:"target"`
}

// Config holds all application configuration.
type Config struct {
	Store struct {
		Driver     string        `yaml:"driver"` // sqlite, http or memory
		SQLitePath string        `yaml:"sqlite_path"`
		BaseURL    string        `yaml:"base_url"`
		APIKey     string        `yaml:"api_key"`
		Timeout    time.Duration `yaml:"timeout"`
		RatePerSec float64       `yaml:"rate_per_sec"`
	} `yaml:"store"`
	Cache struct {
		RedisAddr string        `yaml:"redis_addr"`
		TTL       time.Duration `yaml:"ttl"`
	} `yaml:"cache"`
	Source struct {
		Symbol   string `yaml:"symbol"`
		FromYear int    `yaml:"from_year"`
	} `yaml:"source"`
	Schedule struct {
		RefreshCron   string `yaml:"refresh_cron"`
		CountdownTick string `yaml:"countdown_tick"`
		SyncCron      string `yaml:"sync_cron"` // empty disables scheduled sync
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Metrics struct {
		Addr string `yaml:"addr"`
	} `yaml:"metrics"`
	Recorder struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"recorder"`
	Log struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"log"`
	Countdowns  []Countdown                `yaml:"countdowns"`
	Predictions []model.HalvingCycleRecord `yaml:"predictions"`
	Proxy       string                     `yaml:"proxy"`
}

// env lists the variables that override the YAML file.
type env struct {
	StoreDriver   string  `envconfig:"STORE_DRIVER"`
	StorePath     string  `envconfig:"STORE_SQLITE_PATH"`
	StoreURL      string  `envconfig:"STORE_BASE_URL"`
	StoreAPIKey   string  `envconfig:"STORE_API_KEY"`
	RedisAddr     string  `envconfig:"REDIS_ADDR"`
	RefreshCron   string  `envconfig:"CRON_REFRESH"`
	SyncCron      string  `envconfig:"CRON_SYNC"`
	SourceSymbol  string  `envconfig:"SOURCE_SYMBOL"`
	TelegramToken string  `envconfig:"TELEGRAM_BOT_TOKEN"`
	TelegramChat  string  `envconfig:"TELEGRAM_CHAT_ID"`
	MetricsAddr   string  `envconfig:"METRICS_ADDR"`
	RecorderPath  string  `envconfig:"RECORDER_SQLITE_PATH"`
	LogLevel      string  `envconfig:"LOG_LEVEL"`
	Proxy         string  `envconfig:"HTTPS_PROXY"`
	RatePerSec    float64 `envconfig:"STORE_RATE_PER_SEC"`
}

// Load reads config from a YAML file, then applies .env and environment
// overrides and fills defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// .env is optional; real environment variables take precedence.
	_ = godotenv.Load()

	var e env
	if err := envconfig.Process("", &e); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	cfg.applyEnv(e)
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv(e env) {
	override := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	override(&c.Store.Driver, e.StoreDriver)
	override(&c.Store.SQLitePath, e.StorePath)
	override(&c.Store.BaseURL, e.StoreURL)
	override(&c.Store.APIKey, e.StoreAPIKey)
	override(&c.Cache.RedisAddr, e.RedisAddr)
	override(&c.Schedule.RefreshCron, e.RefreshCron)
	override(&c.Schedule.SyncCron, e.SyncCron)
	override(&c.Source.Symbol, e.SourceSymbol)
	override(&c.Telegram.BotToken, e.TelegramToken)
	override(&c.Telegram.ChatID, e.TelegramChat)
	override(&c.Metrics.Addr, e.MetricsAddr)
	override(&c.Recorder.SQLitePath, e.RecorderPath)
	override(&c.Log.Level, e.LogLevel)
	override(&c.Proxy, e.Proxy)
	if e.RatePerSec > 0 {
		c.Store.RatePerSec = e.RatePerSec
	}
}

func (c *Config) applyDefaults() {
	if c.Store.Driver == "" {
		if c.Store.BaseURL != "" {
			c.Store.Driver = "http"
		} else {
			c.Store.Driver = "sqlite"
		}
	}
	if c.Store.SQLitePath == "" {
		c.Store.SQLitePath = "data/coinlens.db"
	}
	if c.Store.Timeout == 0 {
		c.Store.Timeout = 30 * time.Second
	}
	if c.Store.RatePerSec == 0 {
		c.Store.RatePerSec = 5
	}
	if c.Source.Symbol == "" {
		c.Source.Symbol = "BTC-USD"
	}
	if c.Source.FromYear == 0 {
		c.Source.FromYear = 2015
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 60 * time.Second
	}
	if c.Schedule.RefreshCron == "" {
		c.Schedule.RefreshCron = "@every 60s"
	}
	if c.Schedule.CountdownTick == "" {
		c.Schedule.CountdownTick = "@every 1s"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// TelegramEnabled reports whether alerts can be sent.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "sqlite":
		if c.Store.SQLitePath == "" {
			return errors.New("store.sqlite_path is required for the sqlite driver")
		}
	case "http":
		if c.Store.BaseURL == "" {
			return errors.New("store.base_url is required for the http driver")
		}
	case "memory":
	default:
		return fmt.Errorf("store.driver %q is not one of sqlite, http, memory", c.Store.Driver)
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return errors.New("telegram.bot_token and telegram.chat_id must be set together")
	}
	for i, cd := range c.Countdowns {
		if cd.Name == "" {
			return fmt.Errorf("countdowns[%d].name is required", i)
		}
		if cd.Target.IsZero() {
			return fmt.Errorf("countdowns[%d].target is required", i)
		}
	}
	for i, p := range c.Predictions {
		if p.Source == "" {
			return fmt.Errorf("predictions[%d].source is required", i)
		}
	}
	return nil
}
