package memory

import (
	"sync"
	"time"

	"paper-digest-be/internal/entity"

	"github.com/google/uuid"
)

// MaxListLimit bounds a single page of the job listing.
const MaxListLimit = 100

// JobRepository is the process-wide registry of pipeline jobs. Many jobs run
// concurrently and each stage transition is a read-modify-write on one entry,
// so every mutation goes through Update which holds the lock for the whole
// sequence. Reads hand out deep copies, never live pointers.
type JobRepository struct {
	mu    sync.RWMutex
	jobs  map[uuid.UUID]*entity.PaperJob
	order []uuid.UUID // insertion order for enumeration
}

func NewJobRepository() *JobRepository {
	return &JobRepository{
		jobs: make(map[uuid.UUID]*entity.PaperJob),
	}
}

// Insert registers a new job. The id is assumed fresh (uuid collision is not
// a practical concern).
func (r *JobRepository) Insert(job *entity.PaperJob) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.jobs[job.Id] = job.Clone()
	r.order = append(r.order, job.Id)
}

// Get returns a snapshot of the job, or false when unknown.
func (r *JobRepository) Get(id uuid.UUID) (*entity.PaperJob, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	job, ok := r.jobs[id]
	if !ok {
		return nil, false
	}
	return job.Clone(), true
}

// Update applies fn to the stored job atomically, refreshes UpdatedAt and
// returns the resulting snapshot. Returns false when the job is unknown.
func (r *JobRepository) Update(id uuid.UUID, fn func(*entity.PaperJob)) (*entity.PaperJob, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return nil, false
	}

	fn(job)
	job.UpdatedAt = time.Now()
	return job.Clone(), true
}

// List returns a page of snapshots in insertion order, optionally filtered by
// status. The limit is clamped to MaxListLimit; a non-positive limit yields an
// empty page.
func (r *JobRepository) List(status *entity.ProcessingStatus, limit, offset int) []*entity.PaperJob {
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if limit <= 0 || offset < 0 {
		return []*entity.PaperJob{}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*entity.PaperJob, 0, limit)
	skipped := 0
	for _, id := range r.order {
		job := r.jobs[id]
		if status != nil && job.Status != *status {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		result = append(result, job.Clone())
		if len(result) == limit {
			break
		}
	}
	return result
}

// Count returns the number of registered jobs.
func (r *JobRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.jobs)
}
