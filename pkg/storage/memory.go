package storage

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/audiohaus/melody/pkg/library"
	"github.com/audiohaus/melody/pkg/search"
)

// MemoryStore implements Store in memory, for tests and ephemeral setups
type MemoryStore struct {
	mu     sync.RWMutex
	byID   map[string]*library.Track
	sorted []*library.Track
}

// NewMemoryStore creates an empty in-memory index
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID: make(map[string]*library.Track),
	}
}

// ReplaceLibrary implements Store.ReplaceLibrary
func (s *MemoryStore) ReplaceLibrary(ctx context.Context, tracks []*library.Track) error {
	sorted := make([]*library.Track, len(tracks))
	copy(sorted, tracks)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].RelativePath < sorted[j].RelativePath
	})

	byID := make(map[string]*library.Track, len(sorted))
	for _, t := range sorted {
		byID[t.ID] = t
	}

	s.mu.Lock()
	s.byID = byID
	s.sorted = sorted
	s.mu.Unlock()
	return nil
}

// GetTrack implements Store.GetTrack
func (s *MemoryStore) GetTrack(ctx context.Context, id string) (*library.Track, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	track, ok := s.byID[id]
	if !ok {
		return nil, ErrTrackNotFound
	}
	return track, nil
}

// ListTracks implements Store.ListTracks
func (s *MemoryStore) ListTracks(ctx context.Context, limit, offset int) ([]*library.Track, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return paginate(s.sorted, limit, offset), int64(len(s.sorted)), nil
}

// CountTracks implements Store.CountTracks
func (s *MemoryStore) CountTracks(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.sorted)), nil
}

// SearchTracks implements search.Index
func (s *MemoryStore) SearchTracks(ctx context.Context, query *search.ParsedQuery, limit, offset int) ([]*library.Track, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if query == nil || query.IsEmpty() {
		return paginate(s.sorted, limit, offset), int64(len(s.sorted)), nil
	}

	var matched []*library.Track
	for _, t := range s.sorted {
		if matches(t, query) {
			matched = append(matched, t)
		}
	}

	return paginate(matched, limit, offset), int64(len(matched)), nil
}

// matches applies the parsed query to a single track
func matches(t *library.Track, query *search.ParsedQuery) bool {
	title := strings.ToLower(t.Title)
	artist := strings.ToLower(t.Artist)
	album := strings.ToLower(t.Album)

	for _, term := range query.Terms {
		if !strings.Contains(title, term) &&
			!strings.Contains(artist, term) &&
			!strings.Contains(album, term) {
			return false
		}
	}

	for field, value := range query.Filters {
		switch field {
		case search.FilterTitle:
			if !strings.Contains(title, value) {
				return false
			}
		case search.FilterArtist:
			if !strings.Contains(artist, value) {
				return false
			}
		case search.FilterAlbum:
			if !strings.Contains(album, value) {
				return false
			}
		case search.FilterFormat:
			if t.Format != value {
				return false
			}
		}
	}

	return true
}

func paginate(tracks []*library.Track, limit, offset int) []*library.Track {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(tracks) {
		return []*library.Track{}
	}
	end := len(tracks)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	out := make([]*library.Track, end-offset)
	copy(out, tracks[offset:end])
	return out
}

// HealthCheck implements Store.HealthCheck
func (s *MemoryStore) HealthCheck(ctx context.Context) error {
	return nil
}

// Close implements Store.Close
func (s *MemoryStore) Close() error {
	return nil
}

var _ Store = (*MemoryStore)(nil)
