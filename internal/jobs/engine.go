package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"videogen/internal/domain"
	"videogen/internal/providers/video"
)

const (
	DefaultMaxConcurrency   = 8
	DefaultExecutionTimeout = 2 * time.Minute

	// storeWriteTimeout bounds terminal status writes. These run on a fresh
	// context so a timed-out generation can still be recorded as failed.
	storeWriteTimeout = 10 * time.Second
)

// EngineConfig tunes execution supervision.
type EngineConfig struct {
	MaxConcurrency   int
	ExecutionTimeout time.Duration
}

// ExecOptions carries per-execution data that is never persisted with the
// job: the resolved provider credential and the request locale.
type ExecOptions struct {
	Locale string
	APIKey string
}

// Engine runs generation work out-of-band and drives the job status state
// machine by writing to the job store. Dispatch never blocks the caller;
// concurrency is capped by a semaphore acquired inside the spawned
// goroutine, and an in-flight registry guarantees at most one execution per
// job id.
type Engine struct {
	repo       domain.JobRepository
	generators map[domain.Provider]video.Generator
	logger     zerolog.Logger
	sem        chan struct{}
	timeout    time.Duration

	mu       sync.Mutex
	inflight map[string]struct{}
	wg       sync.WaitGroup
}

// NewEngine creates an execution engine over the given store and per-provider
// generators.
func NewEngine(repo domain.JobRepository, generators map[domain.Provider]video.Generator, logger zerolog.Logger, cfg EngineConfig) *Engine {
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = DefaultMaxConcurrency
	}
	if cfg.ExecutionTimeout <= 0 {
		cfg.ExecutionTimeout = DefaultExecutionTimeout
	}
	return &Engine{
		repo:       repo,
		generators: generators,
		logger:     logger,
		sem:        make(chan struct{}, cfg.MaxConcurrency),
		timeout:    cfg.ExecutionTimeout,
		inflight:   make(map[string]struct{}),
	}
}

// Dispatch schedules the job for execution and returns immediately. A job id
// that is already in flight is ignored.
func (e *Engine) Dispatch(job domain.Job, opts ExecOptions) {
	e.mu.Lock()
	if _, dup := e.inflight[job.ID]; dup {
		e.mu.Unlock()
		e.logger.Warn().Str("job_id", job.ID).Msg("engine: duplicate dispatch ignored")
		return
	}
	e.inflight[job.ID] = struct{}{}
	e.wg.Add(1)
	e.mu.Unlock()

	go e.run(job, opts)
}

// Close waits for all in-flight executions to finish.
func (e *Engine) Close() {
	e.wg.Wait()
}

func (e *Engine) run(job domain.Job, opts ExecOptions) {
	defer e.wg.Done()
	defer func() {
		e.mu.Lock()
		delete(e.inflight, job.ID)
		e.mu.Unlock()
	}()
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error().Str("job_id", job.ID).Interface("panic", r).Msg("engine: execution panicked")
			e.fail(job.ID, fmt.Sprintf("internal error: %v", r))
		}
	}()

	e.sem <- struct{}{}
	defer func() { <-e.sem }()

	if err := e.markProcessing(job.ID); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			e.logger.Debug().Str("job_id", job.ID).Msg("engine: job no longer queued, skipping")
		} else {
			e.logger.Error().Err(err).Str("job_id", job.ID).Msg("engine: mark processing failed")
		}
		return
	}

	generator, ok := e.generators[job.Provider]
	if !ok {
		e.fail(job.ID, fmt.Sprintf("provider %q not configured", job.Provider))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()

	result, err := generator.Generate(ctx, video.GenerateRequest{
		JobID:     job.ID,
		Provider:  job.Provider,
		Mode:      job.Mode,
		Prompt:    job.Prompt,
		Duration:  job.Duration,
		ImageURLs: job.ImageURLs,
		FPS:       job.FPS,
		Locale:    opts.Locale,
		APIKey:    opts.APIKey,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("generation timed out after %s", e.timeout)
		}
		e.logger.Error().Err(err).Str("job_id", job.ID).Str("provider", string(job.Provider)).Msg("engine: generation failed")
		e.fail(job.ID, err.Error())
		return
	}

	e.complete(job.ID, result.URL)
}

func (e *Engine) markProcessing(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), storeWriteTimeout)
	defer cancel()
	return e.repo.MarkProcessing(ctx, id)
}

func (e *Engine) complete(id, resultURL string) {
	ctx, cancel := context.WithTimeout(context.Background(), storeWriteTimeout)
	defer cancel()
	if err := e.repo.MarkCompleted(ctx, id, resultURL); err != nil {
		e.logger.Error().Err(err).Str("job_id", id).Msg("engine: mark completed failed")
		return
	}
	e.logger.Info().Str("job_id", id).Msg("engine: job completed")
}

func (e *Engine) fail(id, message string) {
	ctx, cancel := context.WithTimeout(context.Background(), storeWriteTimeout)
	defer cancel()
	if err := e.repo.MarkFailed(ctx, id, message); err != nil {
		e.logger.Error().Err(err).Str("job_id", id).Msg("engine: mark failed failed")
	}
}
