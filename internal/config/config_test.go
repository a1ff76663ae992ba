package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
store:
  driver: sqlite
  sqlite_path: /tmp/prices.db
schedule:
  refresh_cron: "@every 30s"
countdowns:
  - name: next-halving
    target: 2028-04-15T00:00:00Z
predictions:
  - source: model-a
    halving_date: "2024-04-20"
    price_at_halving: 64000
    ath_date: "2025-10-06"
    ath_price: 150000
    days_halving_to_ath: 534
    trough_date: "2026-10-06"
    trough_price: 60000
    drawdown_pct: 60
    days_ath_to_trough: 365
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_FileAndDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "/tmp/prices.db", cfg.Store.SQLitePath)
	assert.Equal(t, "@every 30s", cfg.Schedule.RefreshCron)
	assert.Equal(t, "@every 1s", cfg.Schedule.CountdownTick)
	assert.Equal(t, 60*time.Second, cfg.Cache.TTL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "BTC-USD", cfg.Source.Symbol)
	assert.Equal(t, 2015, cfg.Source.FromYear)
	assert.Empty(t, cfg.Schedule.SyncCron)

	require.Len(t, cfg.Countdowns, 1)
	assert.Equal(t, time.Date(2028, 4, 15, 0, 0, 0, 0, time.UTC), cfg.Countdowns[0].Target.UTC())
	require.Len(t, cfg.Predictions, 1)
	assert.Equal(t, 534, cfg.Predictions[0].DaysHalvingToAth)

	assert.NoError(t, cfg.Validate())
	assert.False(t, cfg.TelegramEnabled())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "@every 60s", cfg.Schedule.RefreshCron)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("STORE_BASE_URL", "https://docs.example.com")
	t.Setenv("STORE_DRIVER", "http")
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("TELEGRAM_CHAT_ID", "42")

	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)
	assert.Equal(t, "http", cfg.Store.Driver)
	assert.Equal(t, "https://docs.example.com", cfg.Store.BaseURL)
	assert.True(t, cfg.TelegramEnabled())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_BadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "store: [unclosed"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	cfg.Store.Driver = "mongo"
	assert.Error(t, cfg.Validate())

	cfg.Store.Driver = "http"
	cfg.Store.BaseURL = ""
	assert.Error(t, cfg.Validate())

	cfg.Store.Driver = "memory"
	cfg.Telegram.BotToken = "only-token"
	assert.Error(t, cfg.Validate())

	cfg.Telegram.BotToken = ""
	cfg.Countdowns[0].Name = ""
	assert.Error(t, cfg.Validate())
}
