package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"CoinLens/internal/collector"
	"CoinLens/internal/config"
	"CoinLens/internal/dashboard"
	"CoinLens/internal/store"
)

// app carries what every subcommand needs once config is loaded.
type app struct {
	cfgPath string
	cfg     *config.Config
	store   store.Store
	writer  store.Writer
	closers []io.Closer
}

func (a *app) close() {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			log.Warn().Err(err).Msg("close")
		}
	}
}

func (a *app) service() *dashboard.Service { return dashboard.NewService(a.store) }

func (a *app) collector() (*collector.Collector, error) {
	if a.writer == nil {
		return nil, fmt.Errorf("store driver %q is read-only", a.cfg.Store.Driver)
	}
	return collector.NewCollector(collector.NewYahooFetcher(a.cfg.Proxy), a.writer, a.cfg.Source.Symbol), nil
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "coinlens",
		Short:         "Crypto dashboard analytics over stored price documents",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			a.close()
		},
	}
	defaultCfg := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultCfg = v
	}
	root.PersistentFlags().StringVar(&a.cfgPath, "config", defaultCfg, "path to the YAML config file")

	root.AddCommand(
		runCmd(a),
		returnsCmd(a),
		historyCmd(a),
		calendarCmd(a),
		modelCmd(a),
		ahr999Cmd(a),
		halvingCmd(a),
		statsCmd(a),
		importCmd(a),
		syncCmd(a),
	)
	return root
}

func (a *app) setup() error {
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	a.cfg = cfg
	setupLogging(cfg.Log.Level, cfg.Log.Pretty)

	if err := a.openStore(); err != nil {
		return err
	}
	log.Debug().Str("store", a.store.Name()).Msg("document store ready")
	return nil
}

func setupLogging(level string, pretty bool) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	if pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
}

func (a *app) openStore() error {
	var base store.Store
	switch a.cfg.Store.Driver {
	case "sqlite":
		s, err := store.NewSQLite(a.cfg.Store.SQLitePath)
		if err != nil {
			return fmt.Errorf("open sqlite store: %w", err)
		}
		a.closers = append(a.closers, s)
		base, a.writer = s, s
	case "http":
		base = store.NewHTTP(a.cfg.Store.BaseURL, a.cfg.Store.APIKey, a.cfg.Proxy, a.cfg.Store.Timeout, a.cfg.Store.RatePerSec)
	default:
		m := store.NewMemory()
		base, a.writer = m, m
	}
	a.store = store.NewCached(base, store.NewAutoCache(a.cfg.Cache.RedisAddr), a.cfg.Cache.TTL)
	if w, ok := a.store.(store.Writer); ok && a.writer != nil {
		a.writer = w
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
