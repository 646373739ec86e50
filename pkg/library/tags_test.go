package library

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeAudioFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, content, 0644))
	return path
}

func TestTagReader_UntaggedFileFallsBackToFilename(t *testing.T) {
	root := t.TempDir()
	path := writeAudioFile(t, root, "Morning Coffee.mp3", []byte("not a real mp3"))

	info, err := os.Stat(path)
	require.NoError(t, err)

	reader := NewTagReader(16, time.Minute, nil)
	track, err := reader.ReadTrack(root, path, info)
	require.NoError(t, err)

	assert.Equal(t, TrackID(path), track.ID)
	assert.Equal(t, "Morning Coffee", track.Title)
	assert.Equal(t, "Unknown Artist", track.Artist)
	assert.Equal(t, "Unknown Album", track.Album)
	assert.Equal(t, "Morning Coffee.mp3", track.Filename)
	assert.Equal(t, "Morning Coffee.mp3", track.RelativePath)
	assert.Equal(t, "mp3", track.Format)
	assert.Equal(t, int64(len("not a real mp3")), track.Size)
	assert.Equal(t, float64(0), track.Duration)
}

func TestTagReader_RelativePathInSubdirectory(t *testing.T) {
	root := t.TempDir()
	path := writeAudioFile(t, root, filepath.Join("Artist", "Album", "track.flac"), []byte("x"))

	info, err := os.Stat(path)
	require.NoError(t, err)

	reader := NewTagReader(16, time.Minute, nil)
	track, err := reader.ReadTrack(root, path, info)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("Artist", "Album", "track.flac"), track.RelativePath)
}

func TestTagReader_CachesByPathAndMtime(t *testing.T) {
	root := t.TempDir()
	path := writeAudioFile(t, root, "cached.mp3", []byte("aaaa"))

	info, err := os.Stat(path)
	require.NoError(t, err)

	reader := NewTagReader(16, time.Minute, nil)
	first, err := reader.ReadTrack(root, path, info)
	require.NoError(t, err)

	second, err := reader.ReadTrack(root, path, info)
	require.NoError(t, err)
	assert.Same(t, first, second, "unchanged file should come from cache")

	// A different mtime invalidates the cached entry
	newTime := info.ModTime().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, newTime, newTime))
	info2, err := os.Stat(path)
	require.NoError(t, err)

	third, err := reader.ReadTrack(root, path, info2)
	require.NoError(t, err)
	assert.NotSame(t, first, third)
}

func TestTagReader_MissingFile(t *testing.T) {
	root := t.TempDir()
	path := writeAudioFile(t, root, "gone.mp3", []byte("x"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.NoError(t, os.Remove(path))

	reader := NewTagReader(16, time.Minute, nil)
	_, err = reader.ReadTrack(root, path, info)
	assert.Error(t, err)
}

func TestRoundDuration(t *testing.T) {
	assert.Equal(t, 185.35, roundDuration(185.3456))
	assert.Equal(t, 0.0, roundDuration(0))
	assert.Equal(t, 1.0, roundDuration(0.999))
}
