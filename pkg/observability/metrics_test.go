package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics_RegistersAll(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)

	m.ScansTotal.WithLabelValues("ok").Inc()
	m.LibraryTracks.Set(42)
	m.TagCacheHitsTotal.Inc()
	m.StreamRequestsTotal.WithLabelValues("mp3", "ok").Inc()
	m.SearchesTotal.Inc()

	assert.Equal(t, float64(1), testutil.ToFloat64(m.ScansTotal.WithLabelValues("ok")))
	assert.Equal(t, float64(42), testutil.ToFloat64(m.LibraryTracks))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.TagCacheHitsTotal))
}

func TestMetrics_Handler(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)
	m.LibraryTracks.Set(7)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "melody_library_tracks 7")
}

func TestMetrics_HTTPMiddleware(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)

	handler := m.HTTPMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/library", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, float64(1),
		testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/library", "404")))
}
