package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"scenario-engine/internal/baselinestore"
	"scenario-engine/internal/config"
	"scenario-engine/internal/engine"
	"scenario-engine/internal/evalcache"
	"scenario-engine/internal/handler"
	"scenario-engine/internal/logging"
	"scenario-engine/internal/metrics"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.Development)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	settings, err := config.LoadSettings(cfg.SettingsFile)
	if err != nil {
		return err
	}
	baselines, err := baselinestore.Open(cfg.BaselineFile)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	opts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithMetrics(metrics.New(reg)),
		engine.WithWorkers(cfg.Workers),
	}
	if cfg.Cache {
		opts = append(opts, engine.WithCache(evalcache.New()))
	}
	svc := engine.NewService(settings, baselines, opts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := &fasthttp.Server{
		Handler: handler.New(ctx, svc, logger, reg).Serve,
		Name:    "scenario-engine",
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("scenario engine starting",
			zap.String("port", cfg.Port),
			zap.String("settings_file", cfg.SettingsFile),
			zap.String("baseline_file", cfg.BaselineFile),
			zap.Bool("cache", cfg.Cache))
		errCh <- server.ListenAndServe(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		logger.Info("shutting down")
		return server.Shutdown()
	}
}
