package api

import (
	"time"

	"github.com/audiohaus/melody/pkg/library"
)

// LibraryResponse is the payload for GET /api/library
type LibraryResponse struct {
	Tracks []*library.Track `json:"tracks"`
	Total  int64            `json:"total"`
}

// SearchResponse is the payload for GET /api/search
type SearchResponse struct {
	Tracks []*library.Track `json:"tracks"`
	Total  int64            `json:"total"`
}

// ScanResponse is the payload for GET /api/scan
type ScanResponse struct {
	Message string `json:"message"`
	Total   int    `json:"total"`
}

// Scan job states
const (
	ScanStatusRunning  = "running"
	ScanStatusComplete = "complete"
	ScanStatusFailed   = "failed"
)

// ScanJob tracks an asynchronous rescan
type ScanJob struct {
	ID         string     `json:"id"`
	Status     string     `json:"status"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Total      int        `json:"total,omitempty"`
	Error      string     `json:"error,omitempty"`
}
