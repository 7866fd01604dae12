package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	httpapi "github.com/i474232898/weather-history/internal/api/http"
	"github.com/i474232898/weather-history/internal/apidoc"
	"github.com/i474232898/weather-history/internal/config"
	"github.com/i474232898/weather-history/internal/logging"
	"github.com/i474232898/weather-history/internal/metrics"
	"github.com/i474232898/weather-history/internal/scheduler"
	"github.com/i474232898/weather-history/internal/source"
	"github.com/i474232898/weather-history/internal/store"
	"github.com/i474232898/weather-history/internal/weather"
)

const apiVersion = "1.0.0"

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := logging.New(os.Stderr, cfg.SlogLevel())
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("weather-history stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) error {
	// The dataset is loaded once, before anything listens.
	memStore, err := loadStore(ctx, cfg, logger)
	if err != nil {
		return err
	}

	service := weather.NewService(memStore, logger)

	m := metrics.New()
	m.SetDataset(memStore.Stats())

	doc := apidoc.Build(apidoc.Info{
		Title:       "weather-history",
		Version:     apiVersion,
		Description: "Historical monthly high/low temperatures by country and city.",
	})
	if path, err := apidoc.WriteFile(cfg.WellKnownDir, doc); err != nil {
		logger.Warn("could not publish openapi document", slog.Any("error", err))
	} else {
		logger.Info("published openapi document", slog.String("path", path))
	}

	sched := scheduler.New(cfg.HeartbeatInterval, memStore, m, logger)
	if err := sched.Start(); err != nil {
		return err
	}
	defer sched.Stop()

	app := httpapi.NewApp(service, httpapi.Options{
		Logger:       logger,
		Metrics:      m,
		WellKnownDir: cfg.WellKnownDir,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("listening", slog.String("port", cfg.Port))
		return app.Listen(":" + cfg.Port)
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		logger.Info("shutting down")
		return app.ShutdownWithContext(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func loadStore(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) (*store.MemoryStore, error) {
	loader := source.NewLoader(&http.Client{Timeout: cfg.DatasetFetchTimeout})

	payload, err := loader.Load(ctx, cfg.DatasetSource)
	if err != nil {
		return nil, err
	}

	dataset, err := weather.Decode(payload.Data, payload.Format)
	if err != nil {
		return nil, err
	}

	err = weather.CheckConsistency(dataset, cfg.Consistency(), func(inc weather.Inconsistency) {
		logger.Warn("dataset month sets differ", slog.String("detail", inc.String()))
	})
	if err != nil {
		return nil, err
	}

	memStore := store.NewMemoryStore(dataset)
	stats := memStore.Stats()
	logger.Info("dataset loaded",
		slog.String("origin", payload.Origin),
		slog.String("format", string(payload.Format)),
		slog.Int("countries", stats.Countries),
		slog.Int("cities", stats.Cities),
		slog.Int("records", stats.Records),
	)
	return memStore, nil
}
