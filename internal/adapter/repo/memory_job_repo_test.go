package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"videogen/internal/domain"
)

func newQueuedJob(t *testing.T, r *JobRepositoryMemory) *domain.Job {
	t.Helper()
	now := time.Now().UTC()
	job := &domain.Job{
		ID:          uuid.NewString(),
		Provider:    domain.ProviderGemini,
		Mode:        domain.ModeTextToVideo,
		Prompt:      "a cat",
		AspectRatio: "16:9",
		Duration:    5,
		Status:      domain.JobStatusQueued,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := r.Create(context.Background(), job); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	return job
}

func TestMemoryCreateAndGet(t *testing.T) {
	r := NewMemoryJobRepository()
	job := newQueuedJob(t, r)

	got, err := r.GetByID(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if got.Status != domain.JobStatusQueued {
		t.Fatalf("Status = %q, want queued", got.Status)
	}
	if got.ResultURL != nil || got.Error != nil {
		t.Fatalf("new job must have nil result_url and error")
	}

	if _, err := r.GetByID(context.Background(), uuid.NewString()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("GetByID(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestMemoryListNewestFirst(t *testing.T) {
	r := NewMemoryJobRepository()
	var ids []string
	for i := 0; i < 5; i++ {
		ids = append(ids, newQueuedJob(t, r).ID)
	}

	jobs, err := r.List(context.Background(), 3)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(jobs) != 3 {
		t.Fatalf("len = %d, want 3", len(jobs))
	}
	for i, job := range jobs {
		want := ids[len(ids)-1-i]
		if job.ID != want {
			t.Fatalf("jobs[%d].ID = %s, want %s", i, job.ID, want)
		}
	}
}

func TestMemoryTransitions(t *testing.T) {
	r := NewMemoryJobRepository()
	ctx := context.Background()
	job := newQueuedJob(t, r)

	if err := r.MarkCompleted(ctx, job.ID, "https://example.com/v.mp4"); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("complete from queued error = %v, want ErrConflict", err)
	}
	if err := r.MarkProcessing(ctx, job.ID); err != nil {
		t.Fatalf("MarkProcessing() error: %v", err)
	}
	if err := r.MarkProcessing(ctx, job.ID); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("double processing error = %v, want ErrConflict", err)
	}
	if err := r.MarkCompleted(ctx, job.ID, "https://example.com/v.mp4"); err != nil {
		t.Fatalf("MarkCompleted() error: %v", err)
	}
	// Terminal states stay put.
	if err := r.MarkFailed(ctx, job.ID, "late failure"); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("fail after completed error = %v, want ErrConflict", err)
	}

	got, err := r.GetByID(ctx, job.ID)
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if got.Status != domain.JobStatusCompleted {
		t.Fatalf("Status = %q, want completed", got.Status)
	}
	if got.ResultURL == nil || *got.ResultURL == "" {
		t.Fatalf("completed job must carry result_url")
	}
	if got.Error != nil {
		t.Fatalf("completed job must not carry error")
	}

	if err := r.MarkProcessing(ctx, uuid.NewString()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("MarkProcessing(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestMemoryMarkFailedTruncates(t *testing.T) {
	r := NewMemoryJobRepository()
	ctx := context.Background()
	job := newQueuedJob(t, r)
	if err := r.MarkProcessing(ctx, job.ID); err != nil {
		t.Fatalf("MarkProcessing() error: %v", err)
	}
	if err := r.MarkFailed(ctx, job.ID, strings.Repeat("x", 500)); err != nil {
		t.Fatalf("MarkFailed() error: %v", err)
	}
	got, _ := r.GetByID(ctx, job.ID)
	if got.Error == nil || len(*got.Error) != domain.ErrorMessageMaxLen {
		t.Fatalf("failure message not truncated to %d", domain.ErrorMessageMaxLen)
	}
	if got.ResultURL != nil {
		t.Fatalf("failed job must not carry result_url")
	}
}

func TestMemoryCountByStatus(t *testing.T) {
	r := NewMemoryJobRepository()
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		newQueuedJob(t, r)
	}
	job := newQueuedJob(t, r)
	if err := r.MarkProcessing(ctx, job.ID); err != nil {
		t.Fatalf("MarkProcessing() error: %v", err)
	}

	counts, err := r.CountByStatus(ctx)
	if err != nil {
		t.Fatalf("CountByStatus() error: %v", err)
	}
	if counts[domain.JobStatusQueued] != 3 || counts[domain.JobStatusProcessing] != 1 {
		t.Fatalf("counts = %v, want 3 queued / 1 processing", counts)
	}
}

func TestMemoryCloneIsolation(t *testing.T) {
	r := NewMemoryJobRepository()
	job := newQueuedJob(t, r)

	got, _ := r.GetByID(context.Background(), job.ID)
	got.Status = domain.JobStatusFailed
	got.Prompt = "mutated"

	again, _ := r.GetByID(context.Background(), job.ID)
	if again.Status != domain.JobStatusQueued || again.Prompt != "a cat" {
		t.Fatalf("stored job mutated through returned copy: %s", fmt.Sprintf("%+v", again))
	}
}
