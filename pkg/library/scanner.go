package library

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/audiohaus/melody/pkg/observability"
)

// DefaultScanWorkers bounds concurrent tag extraction during a scan
const DefaultScanWorkers = 4

// Scanner walks the music directory and extracts track metadata
type Scanner struct {
	root    string
	workers int
	tags    *TagReader
	logger  *observability.Logger
	metrics *observability.Metrics
}

// NewScanner creates a scanner rooted at the music directory. metrics may be
// nil in tests.
func NewScanner(root string, workers int, tags *TagReader, logger *observability.Logger, metrics *observability.Metrics) *Scanner {
	if workers <= 0 {
		workers = DefaultScanWorkers
	}
	return &Scanner{
		root:    root,
		workers: workers,
		tags:    tags,
		logger:  logger,
		metrics: metrics,
	}
}

// Root returns the music directory the scanner walks
func (s *Scanner) Root() string {
	return s.root
}

// Scan walks the music directory and returns every supported audio track,
// sorted by relative path. A missing directory logs a warning and yields an
// empty library. Files that cannot be read are logged and skipped.
func (s *Scanner) Scan(ctx context.Context) ([]*Track, error) {
	if _, err := os.Stat(s.root); err != nil {
		s.logger.WithField("directory", s.root).Warn("Music directory does not exist")
		return nil, nil
	}

	s.logger.WithField("directory", s.root).Info("Scanning music directory")

	var paths []string
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			s.logger.WithError(err).WithField("path", path).Warn("Skipping unreadable path")
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if IsSupportedFile(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var (
		mu     sync.Mutex
		tracks []*Track
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for _, path := range paths {
		path := path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			info, err := os.Stat(path)
			if err != nil {
				s.skip(path, err)
				return nil
			}

			track, err := s.tags.ReadTrack(s.root, path, info)
			if err != nil {
				s.skip(path, err)
				return nil
			}

			mu.Lock()
			tracks = append(tracks, track)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(tracks, func(i, j int) bool {
		return tracks[i].RelativePath < tracks[j].RelativePath
	})

	s.logger.WithField("tracks", len(tracks)).Info("Scan complete")
	return tracks, nil
}

func (s *Scanner) skip(path string, err error) {
	s.logger.WithError(err).WithField("path", path).Warn("Failed to read audio file")
	if s.metrics != nil {
		s.metrics.ScanFilesSkipped.Inc()
	}
}
