package httputil

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	err := WriteJSON(rec, http.StatusTeapot, map[string]string{"key": "value"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"key":"value"}`, rec.Body.String())
}

func TestWriteSuccess(t *testing.T) {
	rec := httptest.NewRecorder()

	require.NoError(t, WriteSuccess(rec, []string{"a", "b"}))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `["a","b"]`, rec.Body.String())
}

func TestWriteAccepted(t *testing.T) {
	rec := httptest.NewRecorder()

	require.NoError(t, WriteAccepted(rec, map[string]string{"id": "1"}))
	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestWriteErrorResponses(t *testing.T) {
	tests := []struct {
		name           string
		write          func(w http.ResponseWriter)
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "bad request",
			write:          func(w http.ResponseWriter) { WriteBadRequest(w, "bad input") },
			expectedStatus: http.StatusBadRequest,
			expectedError:  "bad input",
		},
		{
			name:           "not found",
			write:          func(w http.ResponseWriter) { WriteNotFoundError(w, "track not found") },
			expectedStatus: http.StatusNotFound,
			expectedError:  "track not found",
		},
		{
			name:           "internal error",
			write:          func(w http.ResponseWriter) { WriteInternalError(w, errors.New("boom")) },
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.write(rec)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.JSONEq(t, `{"error":"`+tt.expectedError+`"}`, rec.Body.String())
		})
	}
}
