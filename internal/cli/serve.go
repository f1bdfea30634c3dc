package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/terraincognita07/cyclekit/internal/api"
	"github.com/terraincognita07/cyclekit/internal/metrics"
	"github.com/terraincognita07/cyclekit/internal/scheduler"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(state *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the reminder dispatch schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), state)
		},
	}
}

func runServe(parent context.Context, state *rootState) error {
	cfg, logger := state.cfg, state.logger

	rt, err := openRuntime(cfg, logger)
	if err != nil {
		return err
	}
	defer rt.Close()

	registry := metrics.New()

	var sweeper *scheduler.Scheduler
	if cfg.Dispatch.Enabled {
		sweeper = scheduler.New(
			rt.dispatcher(cfg, logger),
			cfg.Location(),
			logger,
			scheduler.WithObserver(registry.ObserveDispatch),
		)
		if err := sweeper.Schedule(cfg.Dispatch.Spec); err != nil {
			return err
		}
	}

	accessLog := logger.WriterLevel(logrus.InfoLevel)
	defer accessLog.Close()

	handler, err := api.NewHandler(api.Dependencies{
		Cycles:    rt.cycles,
		Reminders: rt.reminders,
		I18n:      rt.i18n,
		Metrics:   registry,
		Logger:    logger.WithField("component", "api"),
		AccessLog: accessLog,
		SecretKey: []byte(cfg.Auth.Secret),
	})
	if err != nil {
		return fmt.Errorf("api init failed: %w", err)
	}
	app := api.NewApp(handler)

	sigCtx, stopSignals := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	if sweeper != nil {
		sweeper.Start()
	}

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if sweeper != nil {
			if err := sweeper.Stop(shutdownCtx); err != nil {
				logger.WithError(err).Warn("scheduler stop timed out")
			}
		}
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logger.WithError(err).Error("server shutdown failed")
		}
	}()

	logger.WithFields(logrus.Fields{
		"address":  cfg.Address(),
		"db":       cfg.DB.Path,
		"tz":       cfg.Location().String(),
		"auth":     cfg.AuthEnabled(),
		"dispatch": cfg.Dispatch.Enabled,
	}).Info("cyclekit listening")

	if err := app.Listen(cfg.Address()); err != nil {
		return fmt.Errorf("server exited: %w", err)
	}
	return nil
}
