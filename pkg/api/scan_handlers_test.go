package api

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanLibrary_Sync(t *testing.T) {
	ts := newTestServer(t)
	require.NoError(t, os.WriteFile(filepath.Join(ts.musicDir, "one.mp3"), []byte("a"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(ts.musicDir, "two.wav"), []byte("b"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(ts.musicDir, "cover.jpg"), []byte("c"), 0644))

	rec := ts.request(t, http.MethodGet, "/api/scan")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ScanResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, "Scan complete, found 2 audio files", resp.Message)

	// The scan populated the index
	var lib LibraryResponse
	decodeJSON(t, ts.request(t, http.MethodGet, "/api/library"), &lib)
	assert.Equal(t, int64(2), lib.Total)
}

func TestScanLibrary_SyncReplacesStaleEntries(t *testing.T) {
	ts := newTestServer(t)
	track := ts.addTrack(t, "gone.mp3", "Gone", "Artist", "Album", []byte("x"))
	require.NoError(t, os.Remove(track.Path))

	rec := ts.request(t, http.MethodGet, "/api/scan")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ScanResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, 0, resp.Total)
}

func TestStartScanJob_Lifecycle(t *testing.T) {
	ts := newTestServer(t)
	require.NoError(t, os.WriteFile(filepath.Join(ts.musicDir, "one.mp3"), []byte("a"), 0644))

	rec := ts.request(t, http.MethodPost, "/api/v1/scan")
	require.Equal(t, http.StatusAccepted, rec.Code)

	var job ScanJob
	decodeJSON(t, rec, &job)
	require.NotEmpty(t, job.ID)
	assert.Equal(t, ScanStatusRunning, job.Status)
	assert.Nil(t, job.FinishedAt)

	// Poll until the background rescan completes
	deadline := time.Now().Add(5 * time.Second)
	for {
		rec = ts.request(t, http.MethodGet, "/api/v1/scan/"+job.ID)
		require.Equal(t, http.StatusOK, rec.Code)
		decodeJSON(t, rec, &job)
		if job.Status != ScanStatusRunning {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("scan job did not finish in time")
		}
		time.Sleep(10 * time.Millisecond)
	}

	assert.Equal(t, ScanStatusComplete, job.Status)
	assert.Equal(t, 1, job.Total)
	assert.NotNil(t, job.FinishedAt)
	assert.Empty(t, job.Error)
}

func TestScanJobs_EvictsOldestFinished(t *testing.T) {
	jobs := newScanJobs()

	var ids []string
	for i := 0; i < maxScanJobs+8; i++ {
		job := jobs.create()
		jobs.finish(job.ID, 0, nil)
		ids = append(ids, job.ID)
	}

	jobs.mu.RLock()
	retained := len(jobs.jobs)
	jobs.mu.RUnlock()
	assert.Equal(t, maxScanJobs, retained)

	for _, id := range ids[:8] {
		_, ok := jobs.get(id)
		assert.False(t, ok, "oldest finished jobs are evicted")
	}
	for _, id := range ids[8:] {
		_, ok := jobs.get(id)
		assert.True(t, ok, "recent jobs are kept")
	}
}

func TestScanJobs_NeverEvictsRunning(t *testing.T) {
	jobs := newScanJobs()

	first := jobs.create()
	for i := 0; i < maxScanJobs+8; i++ {
		job := jobs.create()
		jobs.finish(job.ID, 0, nil)
	}

	_, ok := jobs.get(first.ID)
	assert.True(t, ok, "running jobs survive eviction")
}

func TestGetScanJob_NotFound(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.request(t, http.MethodGet, "/api/v1/scan/no-such-job")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
