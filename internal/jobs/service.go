package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"videogen/internal/domain"
	"videogen/internal/providers"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// Service is the job lifecycle manager. It validates creation requests,
// persists queued jobs, hands them to the execution engine without waiting,
// and serves read queries over the job store.
type Service struct {
	repo     domain.JobRepository
	registry *providers.Registry
	engine   *Engine
	logger   zerolog.Logger
}

// NewService wires the lifecycle manager.
func NewService(repo domain.JobRepository, registry *providers.Registry, engine *Engine, logger zerolog.Logger) *Service {
	return &Service{repo: repo, registry: registry, engine: engine, logger: logger}
}

// Create validates the input, persists a queued job and dispatches it for
// background execution. The returned job is still queued; creation never
// waits for the generation work. Request-scoped api keys are stripped before
// persistence.
func (s *Service) Create(ctx context.Context, input domain.CreateJobInput) (*domain.Job, error) {
	input.Normalize()
	if err := input.Validate(); err != nil {
		return nil, err
	}

	provider, ok := s.registry.Lookup(input.Provider)
	if !ok {
		return nil, fmt.Errorf("%w: unknown provider %q", domain.ErrValidation, input.Provider)
	}
	apiKey, resolved := s.registry.Resolve(input.Provider, input.APIKeys)
	if provider.RequiresCredential && !resolved {
		return nil, fmt.Errorf("%w: provider %s needs an api key and none is configured", domain.ErrCredentialMissing, input.Provider)
	}

	if err := input.ValidateModeInputs(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	job := &domain.Job{
		ID:          uuid.NewString(),
		Provider:    input.Provider,
		Mode:        input.Mode,
		Prompt:      input.Prompt,
		AspectRatio: input.AspectRatio,
		Duration:    input.Duration,
		ImageURLs:   input.ImageURLs,
		FPS:         input.FPS,
		Status:      domain.JobStatusQueued,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("job_id", job.ID).
		Str("provider", string(job.Provider)).
		Str("mode", string(job.Mode)).
		Msg("job queued")

	s.engine.Dispatch(*job, ExecOptions{Locale: input.Locale, APIKey: apiKey})
	return job, nil
}

// Get fetches a job by id.
func (s *Service) Get(ctx context.Context, id string) (*domain.Job, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidID, id)
	}
	return s.repo.GetByID(ctx, id)
}

// List returns jobs ordered by creation time descending. A non-positive
// limit falls back to DefaultListLimit; limits above MaxListLimit are capped.
func (s *Service) List(ctx context.Context, limit int) ([]domain.Job, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	return s.repo.List(ctx, limit)
}

// Stats returns job counts per lifecycle state.
func (s *Service) Stats(ctx context.Context) (map[domain.JobStatus]int, error) {
	return s.repo.CountByStatus(ctx)
}
