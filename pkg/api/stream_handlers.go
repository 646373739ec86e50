package api

import (
	"errors"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/audiohaus/melody/pkg/httputil"
	"github.com/audiohaus/melody/pkg/observability"
	"github.com/audiohaus/melody/pkg/storage"
)

// streamTrack handles GET /api/stream/{id}. Range requests are honored via
// http.ServeContent so browser audio elements can seek.
func (s *Server) streamTrack(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.ParsePathString(r, "id")
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	track, err := s.store.GetTrack(r.Context(), id)
	if errors.Is(err, storage.ErrTrackNotFound) {
		s.recordStream("unknown", "not_found")
		httputil.WriteNotFoundError(w, "track not found")
		return
	}
	if err != nil {
		httputil.WriteInternalError(w, err)
		return
	}

	f, err := os.Open(track.Path)
	if err != nil {
		// Indexed but since deleted or moved; the next rescan reconciles
		observability.FromContext(r.Context()).
			WithError(err).WithField("path", track.Path).Warn("Indexed file not readable")
		s.recordStream(track.Format, "gone")
		httputil.WriteNotFoundError(w, "file no longer exists")
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		httputil.WriteInternalError(w, err)
		return
	}

	contentType := mime.TypeByExtension(filepath.Ext(track.Path))
	if contentType == "" {
		contentType = "audio/mpeg"
	}
	w.Header().Set("Content-Type", contentType)

	s.recordStream(track.Format, "ok")

	cw := &countingResponseWriter{ResponseWriter: w}
	http.ServeContent(cw, r, track.Filename, info.ModTime(), f)

	if s.metrics != nil {
		s.metrics.StreamBytesTotal.Add(float64(cw.written))
	}
}

func (s *Server) recordStream(format, status string) {
	if s.metrics != nil {
		s.metrics.StreamRequestsTotal.WithLabelValues(format, status).Inc()
	}
}

// countingResponseWriter tallies bytes written to the client
type countingResponseWriter struct {
	http.ResponseWriter
	written int64
}

func (w *countingResponseWriter) Write(p []byte) (int, error) {
	n, err := w.ResponseWriter.Write(p)
	w.written += int64(n)
	return n, err
}
