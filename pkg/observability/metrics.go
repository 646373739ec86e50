package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Library scan metrics
	ScansTotal       *prometheus.CounterVec
	ScanDuration     prometheus.Histogram
	ScanFilesSkipped prometheus.Counter
	LibraryTracks    prometheus.Gauge
	LibrarySizeBytes prometheus.Gauge

	// Tag cache metrics
	TagCacheHitsTotal   prometheus.Counter
	TagCacheMissesTotal prometheus.Counter

	// Streaming metrics
	StreamRequestsTotal *prometheus.CounterVec
	StreamBytesTotal    prometheus.Counter

	// Search metrics
	SearchesTotal  prometheus.Counter
	SearchDuration prometheus.Histogram

	registry *prometheus.Registry
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "melody_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "melody_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		ScansTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "melody_library_scans_total",
				Help: "Total number of library scans",
			},
			[]string{"status"},
		),
		ScanDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "melody_library_scan_duration_seconds",
				Help:    "Library scan duration in seconds",
				Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
			},
		),
		ScanFilesSkipped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "melody_library_scan_files_skipped_total",
				Help: "Total number of files skipped during scans due to read errors",
			},
		),
		LibraryTracks: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "melody_library_tracks",
				Help: "Number of tracks currently in the library index",
			},
		),
		LibrarySizeBytes: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "melody_library_size_bytes",
				Help: "Total size of indexed audio files in bytes",
			},
		),

		TagCacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "melody_tag_cache_hits_total",
				Help: "Total number of tag cache hits",
			},
		),
		TagCacheMissesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "melody_tag_cache_misses_total",
				Help: "Total number of tag cache misses",
			},
		),

		StreamRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "melody_stream_requests_total",
				Help: "Total number of stream requests",
			},
			[]string{"format", "status"},
		),
		StreamBytesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "melody_stream_bytes_total",
				Help: "Total number of bytes streamed to clients",
			},
		),

		SearchesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "melody_searches_total",
				Help: "Total number of library searches",
			},
		),
		SearchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "melody_search_duration_seconds",
				Help:    "Search duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),

		registry: registry,
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.ScansTotal,
		m.ScanDuration,
		m.ScanFilesSkipped,
		m.LibraryTracks,
		m.LibrarySizeBytes,
		m.TagCacheHitsTotal,
		m.TagCacheMissesTotal,
		m.StreamRequestsTotal,
		m.StreamBytesTotal,
		m.SearchesTotal,
		m.SearchDuration,
	)

	return m
}

// Handler returns an HTTP handler exposing the metrics registry
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// HTTPMiddleware instruments HTTP handlers with request counters and latency
func (m *Metrics) HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		m.HTTPRequestsTotal.WithLabelValues(r.Method, r.URL.Path, strconv.Itoa(rw.status)).Inc()
		m.HTTPRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(duration)
	})
}

// statusRecorder wraps http.ResponseWriter to capture the status code
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
