package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"videogen/internal/domain"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS jobs (
	id            uuid PRIMARY KEY,
	provider      text NOT NULL,
	mode          text NOT NULL,
	prompt        text NOT NULL,
	aspect_ratio  text NOT NULL,
	duration      int  NOT NULL,
	image_urls    text[] NOT NULL DEFAULT '{}',
	fps           int  NOT NULL DEFAULT 0,
	status        text NOT NULL,
	result_url    text,
	error_message text,
	created_at    timestamptz NOT NULL DEFAULT now(),
	updated_at    timestamptz NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS jobs_created_at_idx ON jobs (created_at DESC);
`

// JobRepositoryPG implements domain.JobRepository on PostgreSQL. Status
// transitions are guarded in SQL so a terminal job can never be overwritten
// regardless of how many executions race on it.
type JobRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewJobRepository creates a new job repository backed by PostgreSQL.
func NewJobRepository(pool *pgxpool.Pool) *JobRepositoryPG {
	return &JobRepositoryPG{pool: pool}
}

// EnsureSchema creates the jobs table when it does not exist yet.
func (r *JobRepositoryPG) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schemaSQL); err != nil {
		return storeErr("ensure schema", err)
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *JobRepositoryPG) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Create inserts a new job record.
func (r *JobRepositoryPG) Create(ctx context.Context, job *domain.Job) error {
	query := `
INSERT INTO jobs (id, provider, mode, prompt, aspect_ratio, duration, image_urls, fps, status, result_url, error_message, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
`
	_, err := r.pool.Exec(ctx, query,
		job.ID,
		job.Provider,
		job.Mode,
		job.Prompt,
		job.AspectRatio,
		job.Duration,
		job.ImageURLs,
		job.FPS,
		job.Status,
		job.ResultURL,
		job.Error,
		job.CreatedAt,
		job.UpdatedAt,
	)
	if err != nil {
		return storeErr("insert job", err)
	}
	return nil
}

// GetByID fetches a job by its identifier.
func (r *JobRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	query := selectJobSQL + ` WHERE id = $1;`
	job, err := scanJob(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, storeErr("select job", err)
	}
	return job, nil
}

// List returns jobs ordered by creation time descending, at most limit.
func (r *JobRepositoryPG) List(ctx context.Context, limit int) ([]domain.Job, error) {
	query := selectJobSQL + ` ORDER BY created_at DESC LIMIT $1;`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, storeErr("list jobs", err)
	}
	defer rows.Close()

	jobs := make([]domain.Job, 0, limit)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, storeErr("scan job", err)
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list jobs", err)
	}
	return jobs, nil
}

// MarkProcessing transitions queued -> processing.
func (r *JobRepositoryPG) MarkProcessing(ctx context.Context, id string) error {
	query := `
UPDATE jobs SET status = $2, updated_at = now()
WHERE id = $1 AND status = $3;
`
	return r.transition(ctx, id, query, id, domain.JobStatusProcessing, domain.JobStatusQueued)
}

// MarkCompleted transitions processing -> completed with the result URL.
func (r *JobRepositoryPG) MarkCompleted(ctx context.Context, id, resultURL string) error {
	query := `
UPDATE jobs SET status = $2, result_url = $3, updated_at = now()
WHERE id = $1 AND status = $4;
`
	return r.transition(ctx, id, query, id, domain.JobStatusCompleted, resultURL, domain.JobStatusProcessing)
}

// MarkFailed transitions processing -> failed with the failure message.
func (r *JobRepositoryPG) MarkFailed(ctx context.Context, id, message string) error {
	query := `
UPDATE jobs SET status = $2, error_message = $3, updated_at = now()
WHERE id = $1 AND status = $4;
`
	return r.transition(ctx, id, query, id, domain.JobStatusFailed, domain.TruncateErrorMessage(message), domain.JobStatusProcessing)
}

// CountByStatus returns the number of jobs per lifecycle state.
func (r *JobRepositoryPG) CountByStatus(ctx context.Context) (map[domain.JobStatus]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, count(*) FROM jobs GROUP BY status;`)
	if err != nil {
		return nil, storeErr("count jobs", err)
	}
	defer rows.Close()

	counts := make(map[domain.JobStatus]int)
	for rows.Next() {
		var status domain.JobStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, storeErr("scan count", err)
		}
		counts[status] = n
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("count jobs", err)
	}
	return counts, nil
}

func (r *JobRepositoryPG) transition(ctx context.Context, id, query string, args ...any) error {
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return storeErr("update status", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	// The guard did not match: tell absent apart from wrong-state.
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM jobs WHERE id = $1);`, id).Scan(&exists); err != nil {
		return storeErr("check job", err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	return domain.ErrConflict
}

const selectJobSQL = `
SELECT id, provider, mode, prompt, aspect_ratio, duration, image_urls, fps, status, result_url, error_message, created_at, updated_at
FROM jobs`

func scanJob(row pgx.Row) (*domain.Job, error) {
	var job domain.Job
	if err := row.Scan(
		&job.ID,
		&job.Provider,
		&job.Mode,
		&job.Prompt,
		&job.AspectRatio,
		&job.Duration,
		&job.ImageURLs,
		&job.FPS,
		&job.Status,
		&job.ResultURL,
		&job.Error,
		&job.CreatedAt,
		&job.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &job, nil
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrStoreUnavailable, op, err)
}

var _ domain.JobRepository = (*JobRepositoryPG)(nil)
