package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Provider enumerates the supported video generation backends.
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderWan21  Provider = "wan2_1"
	ProviderGrok   Provider = "grok"
	ProviderHailuo Provider = "hailuo"
	ProviderSora2  Provider = "sora2"
)

// Mode enumerates generation workflow variants. The mode decides which
// auxiliary inputs a job must carry.
type Mode string

const (
	ModeTextToVideo      Mode = "text_to_video"
	ModeImageSequence    Mode = "image_sequence_to_video"
	ModeMultiImageGuided Mode = "multi_image_guided"
)

// JobStatus enumerates job lifecycle states. Transitions are one-directional:
// queued -> processing -> completed|failed. Completed and failed are terminal.
type JobStatus string

const (
	JobStatusQueued     JobStatus = "queued"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

const (
	PromptMinLen = 3
	PromptMaxLen = 2000

	DurationMin = 1
	DurationMax = 60

	FPSMin = 1
	FPSMax = 60

	// ErrorMessageMaxLen bounds the failure message recorded on a job.
	ErrorMessageMaxLen = 200

	DefaultAspectRatio = "16:9"
	DefaultDuration    = 5
)

// Job is the central entity: one requested video generation task with its
// status and result. Only the execution engine mutates Status, ResultURL and
// Error after creation; every other field is immutable.
type Job struct {
	ID          string
	Provider    Provider
	Mode        Mode
	Prompt      string
	AspectRatio string
	Duration    int
	ImageURLs   []string
	FPS         int
	Status      JobStatus
	ResultURL   *string
	Error       *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Terminal reports whether the status admits no further transitions.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

func validProvider(p Provider) bool {
	switch p {
	case ProviderGemini, ProviderWan21, ProviderGrok, ProviderHailuo, ProviderSora2:
		return true
	}
	return false
}

func validMode(m Mode) bool {
	switch m {
	case ModeTextToVideo, ModeImageSequence, ModeMultiImageGuided:
		return true
	}
	return false
}

func validAspectRatio(ar string) bool {
	switch ar {
	case "16:9", "9:16", "1:1", "4:3":
		return true
	}
	return false
}

// CreateJobInput carries a job creation request. APIKeys are transient
// request-scoped credentials and must never be persisted.
type CreateJobInput struct {
	Provider    Provider
	Mode        Mode
	Prompt      string
	AspectRatio string
	Duration    int
	ImageURLs   []string
	FPS         int
	Locale      string
	APIKeys     map[string]string
}

// Normalize fills unset optional fields with their defaults.
func (in *CreateJobInput) Normalize() {
	if in.Mode == "" {
		in.Mode = ModeTextToVideo
	}
	if in.AspectRatio == "" {
		in.AspectRatio = DefaultAspectRatio
	}
	in.Prompt = strings.TrimSpace(in.Prompt)
}

// Validate checks structural field constraints: enum membership, string
// length bounds and numeric ranges. Mode-conditional requirements are
// checked separately by ValidateModeInputs.
func (in *CreateJobInput) Validate() error {
	if !validProvider(in.Provider) {
		return fmt.Errorf("%w: unknown provider %q", ErrValidation, in.Provider)
	}
	if !validMode(in.Mode) {
		return fmt.Errorf("%w: unknown mode %q", ErrValidation, in.Mode)
	}
	if n := len(in.Prompt); n < PromptMinLen || n > PromptMaxLen {
		return fmt.Errorf("%w: prompt must be %d-%d characters, got %d", ErrValidation, PromptMinLen, PromptMaxLen, n)
	}
	if !validAspectRatio(in.AspectRatio) {
		return fmt.Errorf("%w: unsupported aspect ratio %q", ErrValidation, in.AspectRatio)
	}
	if in.Duration < DurationMin || in.Duration > DurationMax {
		return fmt.Errorf("%w: duration must be %d-%d seconds, got %d", ErrValidation, DurationMin, DurationMax, in.Duration)
	}
	if in.FPS != 0 && (in.FPS < FPSMin || in.FPS > FPSMax) {
		return fmt.Errorf("%w: fps must be %d-%d, got %d", ErrValidation, FPSMin, FPSMax, in.FPS)
	}
	return nil
}

// ValidateModeInputs enforces mode-conditional requirements: every non
// text-to-video mode needs source images, and image sequences need a frame
// rate.
func (in *CreateJobInput) ValidateModeInputs() error {
	if in.Mode != ModeTextToVideo && len(in.ImageURLs) == 0 {
		return fmt.Errorf("%w: mode %s requires image_urls", ErrMissingInput, in.Mode)
	}
	if in.Mode == ModeImageSequence && in.FPS == 0 {
		return fmt.Errorf("%w: mode %s requires fps", ErrMissingInput, in.Mode)
	}
	return nil
}

// TruncateErrorMessage bounds a failure message to ErrorMessageMaxLen bytes.
// The cut lands on a rune boundary so the stored string stays valid UTF-8.
func TruncateErrorMessage(msg string) string {
	if len(msg) <= ErrorMessageMaxLen {
		return msg
	}
	cut := ErrorMessageMaxLen
	for cut > 0 && !utf8.RuneStart(msg[cut]) {
		cut--
	}
	return msg[:cut]
}
