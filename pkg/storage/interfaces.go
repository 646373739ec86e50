package storage

import (
	"context"
	"errors"

	"github.com/audiohaus/melody/pkg/library"
	"github.com/audiohaus/melody/pkg/search"
)

// ErrTrackNotFound is returned when a track id is not in the index
var ErrTrackNotFound = errors.New("track not found")

// Store is the library index used by the API server and the scan manager
type Store interface {
	// ReplaceLibrary atomically replaces the whole index with tracks
	ReplaceLibrary(ctx context.Context, tracks []*library.Track) error

	// GetTrack returns the track with the given id, or ErrTrackNotFound
	GetTrack(ctx context.Context, id string) (*library.Track, error)

	// ListTracks returns tracks ordered by relative path plus the total
	// count. limit <= 0 returns everything.
	ListTracks(ctx context.Context, limit, offset int) ([]*library.Track, int64, error)

	// CountTracks returns the number of indexed tracks
	CountTracks(ctx context.Context) (int64, error)

	// SearchTracks implements search.Index
	SearchTracks(ctx context.Context, query *search.ParsedQuery, limit, offset int) ([]*library.Track, int64, error)

	// HealthCheck verifies the index is usable
	HealthCheck(ctx context.Context) error

	// Close releases index resources
	Close() error
}

// Store implementations must satisfy the search and scan-manager surfaces
var (
	_ search.Index  = Store(nil)
	_ library.Index = Store(nil)
)
