package domain

import "context"

// JobRepository defines persistence for job entities. Each call is
// independently atomic; the transition methods carry their own status
// precondition so callers never need to hold locks across reads and writes.
type JobRepository interface {
	Create(ctx context.Context, job *Job) error
	GetByID(ctx context.Context, id string) (*Job, error)
	// List returns jobs ordered by creation time descending, at most limit.
	List(ctx context.Context, limit int) ([]Job, error)

	// MarkProcessing transitions queued -> processing. Returns ErrConflict
	// when the job is not queued, ErrNotFound when it does not exist.
	MarkProcessing(ctx context.Context, id string) error
	// MarkCompleted transitions processing -> completed and records the
	// result URL. Returns ErrConflict when the job is not processing.
	MarkCompleted(ctx context.Context, id, resultURL string) error
	// MarkFailed transitions processing -> failed and records the failure
	// message. Returns ErrConflict when the job is not processing.
	MarkFailed(ctx context.Context, id, message string) error

	CountByStatus(ctx context.Context) (map[JobStatus]int, error)
}
