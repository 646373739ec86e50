package library

import (
	"crypto/md5"
	"encoding/hex"
	"path/filepath"
	"strings"
)

// Track represents a single audio file in the library
type Track struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Artist       string  `json:"artist"`
	Album        string  `json:"album"`
	Filename     string  `json:"filename"`
	Path         string  `json:"path"`
	RelativePath string  `json:"relative_path"`
	Duration     float64 `json:"duration"`
	Size         int64   `json:"size"`
	Format       string  `json:"format"`
}

// supportedExtensions lists the audio formats the scanner indexes
var supportedExtensions = map[string]bool{
	".mp3":  true,
	".mp4":  true,
	".m4a":  true,
	".flac": true,
	".ogg":  true,
	".wav":  true,
}

// IsSupportedFile reports whether the path has a supported audio extension
func IsSupportedFile(path string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(path))]
}

// TrackID derives a stable track identifier from the file path
func TrackID(path string) string {
	sum := md5.Sum([]byte(path))
	return hex.EncodeToString(sum[:])
}

// Format returns the lowercase extension without the leading dot
func Format(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	return strings.TrimPrefix(ext, ".")
}
