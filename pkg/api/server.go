package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/audiohaus/melody/pkg/httputil"
	"github.com/audiohaus/melody/pkg/library"
	"github.com/audiohaus/melody/pkg/observability"
	"github.com/audiohaus/melody/pkg/search"
	"github.com/audiohaus/melody/pkg/storage"
)

// Server is the music server's HTTP API
type Server struct {
	store     storage.Store
	manager   *library.Manager
	searchSvc *search.Service
	title     string
	router    *mux.Router
	logger    *observability.Logger
	metrics   *observability.Metrics
	jobs      *scanJobs
}

// NewServer creates the API server. title is shown by the web player.
// metrics may be nil, which disables HTTP instrumentation.
func NewServer(store storage.Store, manager *library.Manager, title string, logger *observability.Logger, metrics *observability.Metrics) *Server {
	s := &Server{
		store:     store,
		manager:   manager,
		searchSvc: search.NewService(store, logger, metrics),
		title:     title,
		router:    mux.NewRouter(),
		logger:    logger,
		metrics:   metrics,
		jobs:      newScanJobs(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all the API routes
func (s *Server) setupRoutes() {
	// OPTIONS is listed on every route so preflight requests match and
	// reach the CORS middleware instead of the 405 handler.
	s.router.HandleFunc("/", s.playerUI).Methods("GET", "OPTIONS")

	s.router.HandleFunc("/api/library", s.getLibrary).Methods("GET", "OPTIONS")
	s.router.HandleFunc("/api/search", s.searchLibrary).Methods("GET", "OPTIONS")
	s.router.HandleFunc("/api/scan", s.scanLibrary).Methods("GET", "OPTIONS")
	s.router.HandleFunc("/api/stream/{id}", s.streamTrack).Methods("GET", "HEAD", "OPTIONS")

	// Async scan jobs (v1 API)
	s.router.HandleFunc("/api/v1/scan", s.startScanJob).Methods("POST", "OPTIONS")
	s.router.HandleFunc("/api/v1/scan/{jobId}", s.getScanJob).Methods("GET", "OPTIONS")

	s.router.Use(httputil.CORSMiddleware)
	s.router.Use(httputil.RequestIDMiddleware(s.logger))
	s.router.Use(httputil.RecoveryMiddleware(s.logger))
	s.router.Use(httputil.LoggingMiddleware(s.logger))
	if s.metrics != nil {
		s.router.Use(s.metrics.HTTPMiddleware)
	}
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
