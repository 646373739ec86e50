package api

import (
	"net/http"

	"github.com/audiohaus/melody/pkg/httputil"
	"github.com/audiohaus/melody/pkg/library"
	"github.com/audiohaus/melody/pkg/search"
)

// searchLibrary handles GET /api/search
// Query parameters:
//   - q: search query, free text plus optional field filters
//     (e.g. `love artist:"nina simone" format:flac`)
//   - limit: max results (default: 50, max: 1000)
//   - offset: pagination offset (default: 0)
//
// An empty or missing q returns the whole library, which the player uses to
// clear the search box.
func (s *Server) searchLibrary(w http.ResponseWriter, r *http.Request) {
	query := httputil.ParseQueryString(r, "q", "")

	limit, err := httputil.ParseQueryInt(r, "limit", 50)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	offset, err := httputil.ParseQueryInt(r, "offset", 0)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	if query == "" {
		tracks, total, err := s.store.ListTracks(r.Context(), 0, 0)
		if err != nil {
			httputil.WriteInternalError(w, err)
			return
		}
		if tracks == nil {
			tracks = []*library.Track{}
		}
		httputil.WriteSuccess(w, SearchResponse{Tracks: tracks, Total: total})
		return
	}

	response, err := s.searchSvc.Search(r.Context(), search.Request{
		Query:  query,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		httputil.WriteInternalError(w, err)
		return
	}

	httputil.WriteSuccess(w, SearchResponse{
		Tracks: response.Tracks,
		Total:  response.TotalCount,
	})
}
