package httputil

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePathString(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/tracks/abc123", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "abc123"})

	value, err := ParsePathString(req, "id")
	require.NoError(t, err)
	assert.Equal(t, "abc123", value)

	_, err = ParsePathString(req, "missing")
	assert.Error(t, err)
}

func TestParseQueryString(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/search?q=blue", nil)

	assert.Equal(t, "blue", ParseQueryString(req, "q", ""))
	assert.Equal(t, "fallback", ParseQueryString(req, "missing", "fallback"))
}

func TestParseQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/library?limit=25&bad=abc", nil)

	limit, err := ParseQueryInt(req, "limit", 0)
	require.NoError(t, err)
	assert.Equal(t, 25, limit)

	fallback, err := ParseQueryInt(req, "missing", 50)
	require.NoError(t, err)
	assert.Equal(t, 50, fallback)

	_, err = ParseQueryInt(req, "bad", 0)
	assert.Error(t, err)
}
