package search

import (
	"regexp"
	"strings"
)

// Filter fields the query language understands
const (
	FilterTitle  = "title"
	FilterArtist = "artist"
	FilterAlbum  = "album"
	FilterFormat = "format"
)

// ParsedQuery represents a parsed search query with filters
type ParsedQuery struct {
	// Free-text search terms, matched against title, artist, and album
	Terms []string

	// Field filters: title, artist, album, format
	Filters map[string]string

	// Original query string
	Raw string
}

// IsEmpty reports whether the query has no terms and no filters
func (q *ParsedQuery) IsEmpty() bool {
	return len(q.Terms) == 0 && len(q.Filters) == 0
}

// HasFilters reports whether any field filters are present
func (q *ParsedQuery) HasFilters() bool {
	return len(q.Filters) > 0
}

// QueryParser parses the search query syntax
type QueryParser struct {
	filterPattern *regexp.Regexp
}

// NewQueryParser creates a new query parser
func NewQueryParser() *QueryParser {
	// Matches filters: key:value or key:"quoted value"
	filterPattern := regexp.MustCompile(`(\w+):("([^"]+)"|(\S+))`)

	return &QueryParser{
		filterPattern: filterPattern,
	}
}

// Parse parses a search query string into a ParsedQuery. Tokens that look
// like filters but use an unknown key stay free text, so a query for "AC:DC"
// matches by substring instead of failing.
func (p *QueryParser) Parse(queryStr string) (*ParsedQuery, error) {
	query := &ParsedQuery{
		Filters: make(map[string]string),
		Raw:     queryStr,
	}

	remainder := queryStr
	matches := p.filterPattern.FindAllStringSubmatch(queryStr, -1)
	for _, match := range matches {
		key := strings.ToLower(match[1])
		value := match[3]
		if value == "" {
			value = match[4]
		}

		switch key {
		case FilterTitle, FilterArtist, FilterAlbum, FilterFormat:
			query.Filters[key] = strings.ToLower(value)
			remainder = strings.Replace(remainder, match[0], "", 1)
		}
	}

	for _, term := range strings.Fields(remainder) {
		query.Terms = append(query.Terms, strings.ToLower(term))
	}

	return query, nil
}
