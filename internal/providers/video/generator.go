package video

import (
	"context"

	"videogen/internal/domain"
)

// GenerateRequest is the input contract for one generation run. A real
// backend client and the simulated generator receive the same shape.
type GenerateRequest struct {
	JobID     string
	Provider  domain.Provider
	Mode      domain.Mode
	Prompt    string
	Duration  int
	ImageURLs []string
	FPS       int
	Locale    string
	// APIKey is the resolved provider credential. Held in memory only.
	APIKey string
}

// Result is the output of a successful generation run.
type Result struct {
	URL    string
	Format string
}

// Generator produces a video for a request. Implementations must honor
// context cancellation; the execution engine applies a deadline around the
// call.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (*Result, error)
}
