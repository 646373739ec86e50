package api

import (
	"net/http"

	"github.com/audiohaus/melody/pkg/httputil"
	"github.com/audiohaus/melody/pkg/library"
)

// getLibrary handles GET /api/library
// Query parameters:
//   - limit: max tracks (default: 0, meaning all)
//   - offset: pagination offset (default: 0)
func (s *Server) getLibrary(w http.ResponseWriter, r *http.Request) {
	limit, err := httputil.ParseQueryInt(r, "limit", 0)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	offset, err := httputil.ParseQueryInt(r, "offset", 0)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	tracks, total, err := s.store.ListTracks(r.Context(), limit, offset)
	if err != nil {
		httputil.WriteInternalError(w, err)
		return
	}
	if tracks == nil {
		tracks = []*library.Track{}
	}

	httputil.WriteSuccess(w, LibraryResponse{
		Tracks: tracks,
		Total:  total,
	})
}
