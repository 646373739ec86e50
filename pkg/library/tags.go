package library

import (
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dhowden/tag"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/audiohaus/melody/pkg/observability"
)

const (
	defaultArtist = "Unknown Artist"
	defaultAlbum  = "Unknown Album"
)

// TagReader extracts track metadata from audio files, caching results so
// rescans skip unchanged files.
type TagReader struct {
	cache   *expirable.LRU[string, *Track]
	metrics *observability.Metrics
}

// NewTagReader creates a tag reader with an expirable LRU cache. metrics may
// be nil in tests.
func NewTagReader(cacheSize int, cacheTTL time.Duration, metrics *observability.Metrics) *TagReader {
	if cacheSize < 16 {
		cacheSize = 16
	}
	return &TagReader{
		cache:   expirable.NewLRU[string, *Track](cacheSize, nil, cacheTTL),
		metrics: metrics,
	}
}

// ReadTrack builds a Track for the audio file at path. root is the music
// directory the relative path is computed against. Missing or unreadable
// tags fall back to filename-derived metadata; only filesystem errors are
// returned.
func (tr *TagReader) ReadTrack(root, path string, info fs.FileInfo) (*Track, error) {
	key := cacheKey(path, info)
	if cached, ok := tr.cache.Get(key); ok {
		if tr.metrics != nil {
			tr.metrics.TagCacheHitsTotal.Inc()
		}
		return cached, nil
	}
	if tr.metrics != nil {
		tr.metrics.TagCacheMissesTotal.Inc()
	}

	relPath, err := filepath.Rel(root, path)
	if err != nil {
		relPath = filepath.Base(path)
	}

	track := &Track{
		ID:           TrackID(path),
		Title:        stem(path),
		Artist:       defaultArtist,
		Album:        defaultAlbum,
		Filename:     filepath.Base(path),
		Path:         path,
		RelativePath: relPath,
		Size:         info.Size(),
		Format:       Format(path),
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer f.Close()

	// Tag read failures are expected for untagged or oddball files; the
	// filename-derived defaults stand in.
	if meta, err := tag.ReadFrom(f); err == nil {
		if t := strings.TrimSpace(meta.Title()); t != "" {
			track.Title = t
		}
		if a := strings.TrimSpace(meta.Artist()); a != "" {
			track.Artist = a
		}
		if a := strings.TrimSpace(meta.Album()); a != "" {
			track.Album = a
		}
	}

	track.Duration = roundDuration(probeDuration(path))

	tr.cache.Add(key, track)
	return track, nil
}

// cacheKey identifies a file version by path, mtime, and size
func cacheKey(path string, info fs.FileInfo) string {
	return fmt.Sprintf("%s|%d|%d", path, info.ModTime().UnixNano(), info.Size())
}

// stem returns the filename without its extension
func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// roundDuration rounds a duration in seconds to two decimal places
func roundDuration(seconds float64) float64 {
	return math.Round(seconds*100) / 100
}
