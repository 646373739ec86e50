package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/audiohaus/melody/pkg/api"
	"github.com/audiohaus/melody/pkg/config"
	"github.com/audiohaus/melody/pkg/library"
	"github.com/audiohaus/melody/pkg/observability"
	"github.com/audiohaus/melody/pkg/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "melodyd: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := observability.NewLogger(cfg.Observability.LogLevel, os.Stdout)
	logger.WithFields(map[string]interface{}{
		"music_directory": cfg.Library.MusicDirectory,
		"port":            cfg.Server.Port,
		"title":           cfg.Server.Title,
	}).Info("Starting melody music server")

	ctx := context.Background()

	// Tracing (optional, metrics stay on Prometheus)
	otelProviders, err := observability.InitOTel(ctx, observability.OTelConfig{
		Enabled:        cfg.Observability.OTelEnabled,
		Endpoint:       cfg.Observability.OTelEndpoint,
		ServiceName:    cfg.Observability.OTelServiceName,
		ServiceVersion: cfg.Observability.OTelServiceVersion,
		Insecure:       cfg.Observability.OTelInsecure,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)

	store, err := storage.NewSQLiteStore(cfg.Library.IndexPath)
	if err != nil {
		return fmt.Errorf("failed to open library index: %w", err)
	}
	logger.WithField("index_path", cfg.Library.IndexPath).Info("Library index opened")

	tags := library.NewTagReader(cfg.Library.TagCacheSize, cfg.Library.TagCacheTTL, metrics)
	scanner := library.NewScanner(cfg.Library.MusicDirectory, cfg.Library.ScanWorkers, tags, logger, metrics)
	manager := library.NewManager(scanner, store, logger, metrics)

	// Populate the index before serving requests. A failed scan is not
	// fatal: the server still comes up with whatever the index holds.
	if total, err := manager.Rescan(ctx); err != nil {
		logger.WithError(err).Warn("Initial library scan failed")
	} else {
		logger.WithField("tracks", total).Info("Initial library scan complete")
	}

	var watcher *library.Watcher
	if cfg.Library.WatchEnabled {
		watcher, err = library.NewWatcher(cfg.Library.MusicDirectory, cfg.Library.WatchDebounce, logger, func() {
			if _, err := manager.Rescan(context.Background()); err != nil {
				logger.WithError(err).Warn("Watcher-triggered rescan failed")
			}
		})
		if err != nil {
			logger.WithError(err).Warn("Filesystem watching unavailable")
		} else if err := watcher.Start(); err != nil {
			logger.WithError(err).Warn("Failed to start filesystem watcher")
		} else {
			logger.WithField("debounce", cfg.Library.WatchDebounce.String()).Info("Filesystem watcher started")
		}
	}

	var scheduler *library.RescanScheduler
	if cfg.Library.RescanSchedule != "" {
		scheduler, err = library.NewRescanScheduler(cfg.Library.RescanSchedule, logger, func() {
			if _, err := manager.Rescan(context.Background()); err != nil {
				logger.WithError(err).Error("Scheduled rescan failed")
			}
		})
		if err != nil {
			return err
		}
		scheduler.Start()
		logger.WithField("schedule", cfg.Library.RescanSchedule).Info("Rescan scheduler started")
	}

	server := api.NewServer(store, manager, cfg.Server.Title, logger, metrics)

	httpServer := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      server,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Probes and metrics live on a separate listener so they are never
	// exposed through the add-on ingress.
	healthChecker := observability.NewHealthChecker(store.DB(), cfg.Library.MusicDirectory)
	healthMux := http.NewServeMux()
	healthMux.HandleFunc("/healthz", healthChecker.Liveness)
	healthMux.HandleFunc("/readyz", healthChecker.Readiness)
	if cfg.Observability.MetricsEnabled {
		healthMux.Handle("/metrics", metrics.Handler())
	}
	healthServer := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.HealthPort,
		Handler:      healthMux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	shutdownManager := observability.NewShutdownManager(logger, cfg.Server.ShutdownTimeout, httpServer, healthServer)
	if scheduler != nil {
		shutdownManager.RegisterShutdownFunc(func(ctx context.Context) error {
			return scheduler.Stop(ctx)
		})
	}
	if watcher != nil {
		shutdownManager.RegisterShutdownFunc(func(ctx context.Context) error {
			return watcher.Close()
		})
	}
	shutdownManager.RegisterShutdownFunc(func(ctx context.Context) error {
		return store.Close()
	})
	if otelProviders != nil {
		shutdownManager.RegisterShutdownFunc(func(ctx context.Context) error {
			return observability.ShutdownOTel(ctx, otelProviders, logger)
		})
	}

	go func() {
		logger.WithField("addr", healthServer.Addr).Info("Health server listening")
		if err := healthServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("Health server failed")
		}
	}()

	go func() {
		logger.WithField("addr", httpServer.Addr).Info("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("HTTP server failed")
			os.Exit(1)
		}
	}()

	return shutdownManager.WaitForShutdown()
}
