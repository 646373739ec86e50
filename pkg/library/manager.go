package library

import (
	"context"
	"sync"
	"time"

	"github.com/audiohaus/melody/pkg/observability"
)

// Index is the slice of the storage layer the manager needs to publish scan
// results.
type Index interface {
	ReplaceLibrary(ctx context.Context, tracks []*Track) error
}

// Manager ties the scanner to the library index and keeps metrics current.
// Rescans are serialized; concurrent triggers (watcher, cron, API) queue up
// behind the running one.
type Manager struct {
	scanner *Scanner
	index   Index
	logger  *observability.Logger
	metrics *observability.Metrics

	mu sync.Mutex
}

// NewManager creates a library manager. metrics may be nil in tests.
func NewManager(scanner *Scanner, index Index, logger *observability.Logger, metrics *observability.Metrics) *Manager {
	return &Manager{
		scanner: scanner,
		index:   index,
		logger:  logger,
		metrics: metrics,
	}
}

// MusicDirectory returns the scanned music directory
func (m *Manager) MusicDirectory() string {
	return m.scanner.Root()
}

// Rescan scans the music directory and atomically replaces the library
// index with the result. It returns the number of indexed tracks.
func (m *Manager) Rescan(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	start := time.Now()

	tracks, err := m.scanner.Scan(ctx)
	if err != nil {
		m.recordScan("error", start)
		return 0, err
	}

	if err := m.index.ReplaceLibrary(ctx, tracks); err != nil {
		m.recordScan("error", start)
		return 0, err
	}

	m.recordScan("ok", start)
	if m.metrics != nil {
		var totalSize int64
		for _, t := range tracks {
			totalSize += t.Size
		}
		m.metrics.LibraryTracks.Set(float64(len(tracks)))
		m.metrics.LibrarySizeBytes.Set(float64(totalSize))
	}

	m.logger.WithFields(map[string]interface{}{
		"tracks":   len(tracks),
		"duration": time.Since(start).String(),
	}).Info("Library index updated")

	return len(tracks), nil
}

func (m *Manager) recordScan(status string, start time.Time) {
	if m.metrics == nil {
		return
	}
	m.metrics.ScansTotal.WithLabelValues(status).Inc()
	m.metrics.ScanDuration.Observe(time.Since(start).Seconds())
}
