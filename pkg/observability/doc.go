// Package observability provides structured logging, Prometheus metrics,
// health checks, and OpenTelemetry tracing for the melody server.
//
// # Structured Logging
//
// Create a logger:
//
//	logger := observability.NewLogger(observability.InfoLevel, os.Stdout)
//	logger.WithField("port", cfg.Server.Port).Info("server started")
//
// # Prometheus Metrics
//
//	metrics := observability.NewMetrics(prometheus.NewRegistry())
//	metrics.ScansTotal.WithLabelValues("ok").Inc()
//	metrics.LibraryTracks.Set(float64(total))
//
// # Health Checks
//
// The HealthChecker exposes liveness and readiness probes over HTTP. The
// readiness probe verifies the library index database and the configured
// music directory.
//
// # Graceful Shutdown
//
// The ShutdownManager listens for SIGINT/SIGTERM, drains the HTTP server,
// and runs registered shutdown functions (cron scheduler, directory watcher,
// store) within a timeout.
package observability
