package repo

import (
	"context"
	"sync"
	"time"

	"videogen/internal/domain"
)

// JobRepositoryMemory implements domain.JobRepository in process memory. It
// backs development setups without a DATABASE_URL and the test suite. Guard
// semantics match the PostgreSQL adapter exactly.
type JobRepositoryMemory struct {
	mu    sync.RWMutex
	jobs  map[string]*domain.Job
	order []string
}

// NewMemoryJobRepository creates an empty in-memory job repository.
func NewMemoryJobRepository() *JobRepositoryMemory {
	return &JobRepositoryMemory{jobs: make(map[string]*domain.Job)}
}

func (r *JobRepositoryMemory) Create(_ context.Context, job *domain.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := cloneJob(job)
	r.jobs[job.ID] = clone
	r.order = append(r.order, job.ID)
	return nil
}

func (r *JobRepositoryMemory) GetByID(_ context.Context, id string) (*domain.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneJob(job), nil
}

func (r *JobRepositoryMemory) List(_ context.Context, limit int) ([]domain.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	jobs := make([]domain.Job, 0, limit)
	// Insertion order doubles as creation order, newest last.
	for i := len(r.order) - 1; i >= 0 && len(jobs) < limit; i-- {
		jobs = append(jobs, *cloneJob(r.jobs[r.order[i]]))
	}
	return jobs, nil
}

func (r *JobRepositoryMemory) MarkProcessing(_ context.Context, id string) error {
	return r.transition(id, domain.JobStatusQueued, func(job *domain.Job) {
		job.Status = domain.JobStatusProcessing
	})
}

func (r *JobRepositoryMemory) MarkCompleted(_ context.Context, id, resultURL string) error {
	return r.transition(id, domain.JobStatusProcessing, func(job *domain.Job) {
		job.Status = domain.JobStatusCompleted
		job.ResultURL = &resultURL
	})
}

func (r *JobRepositoryMemory) MarkFailed(_ context.Context, id, message string) error {
	msg := domain.TruncateErrorMessage(message)
	return r.transition(id, domain.JobStatusProcessing, func(job *domain.Job) {
		job.Status = domain.JobStatusFailed
		job.Error = &msg
	})
}

func (r *JobRepositoryMemory) CountByStatus(_ context.Context) (map[domain.JobStatus]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := make(map[domain.JobStatus]int)
	for _, job := range r.jobs {
		counts[job.Status]++
	}
	return counts, nil
}

func (r *JobRepositoryMemory) transition(id string, from domain.JobStatus, apply func(*domain.Job)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return domain.ErrNotFound
	}
	if job.Status != from {
		return domain.ErrConflict
	}
	apply(job)
	job.UpdatedAt = time.Now().UTC()
	return nil
}

func cloneJob(job *domain.Job) *domain.Job {
	clone := *job
	if job.ImageURLs != nil {
		clone.ImageURLs = append([]string(nil), job.ImageURLs...)
	}
	if job.ResultURL != nil {
		v := *job.ResultURL
		clone.ResultURL = &v
	}
	if job.Error != nil {
		v := *job.Error
		clone.Error = &v
	}
	return &clone
}

var _ domain.JobRepository = (*JobRepositoryMemory)(nil)
