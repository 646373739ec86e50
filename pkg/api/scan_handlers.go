package api

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/audiohaus/melody/pkg/async"
	"github.com/audiohaus/melody/pkg/httputil"
)

// scanJobTimeout bounds a single background rescan
const scanJobTimeout = 30 * time.Minute

// maxScanJobs caps retained job records. Older finished jobs are evicted;
// running jobs are never evicted.
const maxScanJobs = 32

// scanJobs tracks asynchronous rescans by id
type scanJobs struct {
	mu    sync.RWMutex
	jobs  map[string]*ScanJob
	order []string
}

func newScanJobs() *scanJobs {
	return &scanJobs{
		jobs: make(map[string]*ScanJob),
	}
}

func (j *scanJobs) create() *ScanJob {
	job := &ScanJob{
		ID:        uuid.NewString(),
		Status:    ScanStatusRunning,
		StartedAt: time.Now().UTC(),
	}
	j.mu.Lock()
	j.jobs[job.ID] = job
	j.order = append(j.order, job.ID)
	j.evictLocked()
	j.mu.Unlock()
	return job
}

// evictLocked drops the oldest finished jobs once the map exceeds maxScanJobs
func (j *scanJobs) evictLocked() {
	if len(j.jobs) <= maxScanJobs {
		return
	}
	kept := j.order[:0]
	for _, id := range j.order {
		job, ok := j.jobs[id]
		if !ok {
			continue
		}
		if len(j.jobs) > maxScanJobs && job.Status != ScanStatusRunning {
			delete(j.jobs, id)
			continue
		}
		kept = append(kept, id)
	}
	j.order = kept
}

func (j *scanJobs) get(id string) (*ScanJob, bool) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	job, ok := j.jobs[id]
	if !ok {
		return nil, false
	}
	jobCopy := *job
	return &jobCopy, true
}

func (j *scanJobs) finish(id string, total int, err error) {
	now := time.Now().UTC()
	j.mu.Lock()
	defer j.mu.Unlock()
	job, ok := j.jobs[id]
	if !ok {
		return
	}
	job.FinishedAt = &now
	if err != nil {
		job.Status = ScanStatusFailed
		job.Error = err.Error()
		return
	}
	job.Status = ScanStatusComplete
	job.Total = total
}

// scanLibrary handles GET /api/scan, the synchronous rescan the web player
// triggers from its refresh button.
func (s *Server) scanLibrary(w http.ResponseWriter, r *http.Request) {
	total, err := s.manager.Rescan(r.Context())
	if err != nil {
		httputil.WriteInternalError(w, err)
		return
	}

	httputil.WriteSuccess(w, ScanResponse{
		Message: fmt.Sprintf("Scan complete, found %d audio files", total),
		Total:   total,
	})
}

// startScanJob handles POST /api/v1/scan, kicking off a background rescan
func (s *Server) startScanJob(w http.ResponseWriter, r *http.Request) {
	job := s.jobs.create()

	async.SafeGo(context.Background(), scanJobTimeout, "library rescan job", func(ctx context.Context) error {
		total, err := s.manager.Rescan(ctx)
		s.jobs.finish(job.ID, total, err)
		return err
	})

	httputil.WriteAccepted(w, job)
}

// getScanJob handles GET /api/v1/scan/{jobId}
func (s *Server) getScanJob(w http.ResponseWriter, r *http.Request) {
	jobID, err := httputil.ParsePathString(r, "jobId")
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	job, ok := s.jobs.get(jobID)
	if !ok {
		httputil.WriteNotFoundError(w, "scan job not found")
		return
	}

	httputil.WriteSuccess(w, job)
}
