// Package api implements the HTTP surface of the music server: the embedded
// web player, the library and search endpoints, scan triggers, and audio
// streaming with range support.
//
// Routes:
//
//	GET  /                      web player UI
//	GET  /api/library           paginated track list
//	GET  /api/search?q=...      library search (empty query returns all)
//	GET  /api/scan              synchronous rescan
//	POST /api/v1/scan           asynchronous rescan, returns a job id
//	GET  /api/v1/scan/{jobId}   scan job status
//	GET  /api/stream/{id}       audio stream, honors Range requests
package api
