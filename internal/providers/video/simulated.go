package video

import (
	"context"
	"time"
)

// DefaultResultURL is a CORS-friendly public sample returned by the
// simulated generator.
const DefaultResultURL = "https://commondatastorage.googleapis.com/gtv-videos-bucket/sample/BigBuckBunny.mp4"

// Simulated stands in for a real provider backend. It waits a duration
// derived from the requested clip length, then returns a demo asset.
type Simulated struct {
	resultURL string

	// Unit scales the wait interval. Tests shrink it to keep runs fast.
	Unit time.Duration
}

// NewSimulated creates a simulated generator. An empty resultURL falls back
// to DefaultResultURL.
func NewSimulated(resultURL string) *Simulated {
	if resultURL == "" {
		resultURL = DefaultResultURL
	}
	return &Simulated{resultURL: resultURL, Unit: time.Second}
}

func (s *Simulated) Generate(ctx context.Context, req GenerateRequest) (*Result, error) {
	select {
	case <-time.After(time.Duration(waitUnits(req.Duration)) * s.Unit):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return &Result{URL: s.resultURL, Format: "video/mp4"}, nil
}

// waitUnits derives the simulated processing time from the requested
// duration: half the clip length, clamped to [2, 8].
func waitUnits(duration int) int {
	units := duration / 2
	if units < 2 {
		units = 2
	}
	if units > 8 {
		units = 8
	}
	return units
}

var _ Generator = (*Simulated)(nil)
