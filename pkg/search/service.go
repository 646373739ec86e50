package search

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/audiohaus/melody/pkg/library"
	"github.com/audiohaus/melody/pkg/observability"
)

var searchTracer = otel.Tracer("melody/search/service")

// Index is the query surface the storage layer implements
type Index interface {
	// SearchTracks returns tracks matching the parsed query along with the
	// total match count. An empty query matches everything. limit <= 0
	// means no limit.
	SearchTracks(ctx context.Context, query *ParsedQuery, limit, offset int) ([]*library.Track, int64, error)
}

// Service executes parsed search queries against the library index
type Service struct {
	index   Index
	parser  *QueryParser
	logger  *observability.Logger
	metrics *observability.Metrics
}

// NewService creates a search service. metrics may be nil in tests.
func NewService(index Index, logger *observability.Logger, metrics *observability.Metrics) *Service {
	if logger == nil {
		logger = observability.NewLogger(observability.InfoLevel, os.Stdout)
	}
	return &Service{
		index:   index,
		parser:  NewQueryParser(),
		logger:  logger,
		metrics: metrics,
	}
}

// Request represents a search request
type Request struct {
	Query  string // Raw query string with filters
	Limit  int    // Max results (default: 50)
	Offset int    // Pagination offset (default: 0)
}

// Response represents search results
type Response struct {
	Tracks      []*library.Track `json:"tracks"`
	TotalCount  int64            `json:"total_count"`
	Query       string           `json:"query"`
	ParsedQuery *ParsedQuery     `json:"parsed_query,omitempty"`
}

// Search parses the query and runs it against the library index
func (s *Service) Search(ctx context.Context, req Request) (*Response, error) {
	ctx, span := searchTracer.Start(ctx, "Search",
		trace.WithAttributes(
			attribute.String("query", req.Query),
			attribute.Int("limit", req.Limit),
			attribute.Int("offset", req.Offset),
		),
	)
	defer span.End()

	start := time.Now()

	if req.Limit <= 0 {
		req.Limit = 50
	}
	if req.Limit > 1000 {
		req.Limit = 1000
	}
	if req.Offset < 0 {
		req.Offset = 0
	}

	parsed, err := s.parser.Parse(req.Query)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse query")
		return nil, fmt.Errorf("failed to parse query: %w", err)
	}

	span.SetAttributes(
		attribute.Bool("has_filters", parsed.HasFilters()),
		attribute.Int("term_count", len(parsed.Terms)),
	)

	tracks, total, err := s.index.SearchTracks(ctx, parsed, req.Limit, req.Offset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "search failed")
		return nil, fmt.Errorf("search failed: %w", err)
	}

	if s.metrics != nil {
		s.metrics.SearchesTotal.Inc()
		s.metrics.SearchDuration.Observe(time.Since(start).Seconds())
	}

	if tracks == nil {
		tracks = []*library.Track{}
	}

	observability.UpdateLoggerWithTraceContext(ctx, s.logger).WithFields(map[string]interface{}{
		"query":   req.Query,
		"results": total,
	}).Debug("Search executed")

	return &Response{
		Tracks:      tracks,
		TotalCount:  total,
		Query:       req.Query,
		ParsedQuery: parsed,
	}, nil
}
