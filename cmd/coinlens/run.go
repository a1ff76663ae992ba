package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"CoinLens/internal/metrics"
	"CoinLens/internal/notifier"
	"CoinLens/internal/recorder"
	"CoinLens/internal/scheduler"
)

func runCmd(a *app) *cobra.Command {
	var refreshOnStart bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Refresh the dashboard on a schedule and serve alerts and metrics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd.Context(), refreshOnStart)
		},
	}
	cmd.Flags().BoolVar(&refreshOnStart, "refresh-on-start", true, "refresh the snapshot immediately")
	return cmd
}

func (a *app) run(ctx context.Context, refreshOnStart bool) error {
	log.Info().Str("store", a.store.Name()).Msg("CoinLens starting")

	var rec recorder.Recorder = recorder.NewNoopRecorder()
	if a.cfg.Recorder.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(a.cfg.Recorder.SQLitePath)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
		} else {
			rec = sr
		}
	}
	defer rec.Close()

	reg := metrics.NewRegistry()

	var tn *notifier.TelegramNotifier
	var n scheduler.Notifier
	if a.cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(a.cfg.Telegram.BotToken, a.cfg.Telegram.ChatID, a.cfg.Proxy)
		n = tn
	}

	sched := scheduler.NewScheduler(ctx, a.service(), n, rec, reg)
	sched.Predictions = a.cfg.Predictions
	sched.StoreName = a.store.Name()
	if err := sched.RegisterAll(a.cfg.Schedule.RefreshCron, a.cfg.Schedule.CountdownTick); err != nil {
		return err
	}

	if spec := a.cfg.Schedule.SyncCron; spec != "" {
		c, err := a.collector()
		if err != nil {
			return err
		}
		if err := sched.AddSync(spec, c, a.cfg.Source.FromYear); err != nil {
			return err
		}
	}

	for _, cd := range a.cfg.Countdowns {
		if err := sched.AddCountdown(cd.Name, cd.Target); err != nil {
			return err
		}
	}
	if next, err := sched.Service.NextHalving(ctx); err != nil {
		log.Warn().Err(err).Msg("next halving estimate unavailable")
	} else if next != nil && sched.Countdown("halving") == nil {
		if err := sched.AddCountdown("halving", *next); err != nil {
			return err
		}
	}

	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Info().Msg("telegram polling started")
	}

	var srv *http.Server
	if a.cfg.Metrics.Addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", reg.Handler())
		srv = &http.Server{Addr: a.cfg.Metrics.Addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("metrics server")
			}
		}()
		log.Info().Str("addr", a.cfg.Metrics.Addr).Msg("metrics server listening")
	}

	if refreshOnStart {
		go func() {
			if _, err := sched.RefreshNow(); err != nil {
				log.Error().Err(err).Msg("initial refresh")
			}
		}()
	}

	log.Info().Msg("CoinLens is running. Press Ctrl+C to stop.")
	<-ctx.Done()
	log.Info().Msg("shutdown signal received, stopping...")

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("metrics server shutdown: %w", err)
		}
	}
	log.Info().Msg("CoinLens stopped")
	return nil
}
