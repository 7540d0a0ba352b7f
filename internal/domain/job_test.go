package domain

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"
)

func validInput() CreateJobInput {
	return CreateJobInput{
		Provider: ProviderGemini,
		Prompt:   "a cat surfing a wave",
		Duration: DefaultDuration,
	}
}

func TestNormalizeAppliesDefaults(t *testing.T) {
	in := validInput()
	in.Prompt = "  a cat surfing a wave  "
	in.Normalize()
	if in.Mode != ModeTextToVideo {
		t.Fatalf("Mode = %q, want %q", in.Mode, ModeTextToVideo)
	}
	if in.AspectRatio != DefaultAspectRatio {
		t.Fatalf("AspectRatio = %q, want %q", in.AspectRatio, DefaultAspectRatio)
	}
	if in.Prompt != "a cat surfing a wave" {
		t.Fatalf("Prompt = %q, want trimmed", in.Prompt)
	}
}

func TestValidateStructural(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreateJobInput)
		wantOK bool
	}{
		{"valid", func(in *CreateJobInput) {}, true},
		{"unknown provider", func(in *CreateJobInput) { in.Provider = "dalle" }, false},
		{"unknown mode", func(in *CreateJobInput) { in.Mode = "audio_to_video" }, false},
		{"prompt too short", func(in *CreateJobInput) { in.Prompt = "ab" }, false},
		{"prompt too long", func(in *CreateJobInput) { in.Prompt = strings.Repeat("x", PromptMaxLen+1) }, false},
		{"prompt at max", func(in *CreateJobInput) { in.Prompt = strings.Repeat("x", PromptMaxLen) }, true},
		{"bad aspect ratio", func(in *CreateJobInput) { in.AspectRatio = "21:9" }, false},
		{"duration too long", func(in *CreateJobInput) { in.Duration = DurationMax + 1 }, false},
		{"duration negative", func(in *CreateJobInput) { in.Duration = -1 }, false},
		{"fps out of range", func(in *CreateJobInput) { in.FPS = 120 }, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			in.Normalize()
			tc.mutate(&in)
			err := in.Validate()
			if tc.wantOK && err != nil {
				t.Fatalf("Validate() unexpected error: %v", err)
			}
			if !tc.wantOK {
				if err == nil {
					t.Fatalf("Validate() expected error")
				}
				if !errors.Is(err, ErrValidation) {
					t.Fatalf("Validate() error = %v, want ErrValidation", err)
				}
			}
		})
	}
}

func TestValidateModeInputs(t *testing.T) {
	in := validInput()
	in.Normalize()
	if err := in.ValidateModeInputs(); err != nil {
		t.Fatalf("text_to_video needs no images, got %v", err)
	}

	in.Mode = ModeMultiImageGuided
	if err := in.ValidateModeInputs(); !errors.Is(err, ErrMissingInput) {
		t.Fatalf("error = %v, want ErrMissingInput", err)
	}
	in.ImageURLs = []string{"a.png"}
	if err := in.ValidateModeInputs(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	in.Mode = ModeImageSequence
	in.ImageURLs = []string{"a.png", "b.png"}
	if err := in.ValidateModeInputs(); !errors.Is(err, ErrMissingInput) {
		t.Fatalf("error = %v, want ErrMissingInput for missing fps", err)
	}
	in.FPS = 24
	if err := in.ValidateModeInputs(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTruncateErrorMessage(t *testing.T) {
	short := "boom"
	if got := TruncateErrorMessage(short); got != short {
		t.Fatalf("TruncateErrorMessage() = %q, want %q", got, short)
	}
	long := strings.Repeat("e", ErrorMessageMaxLen+50)
	got := TruncateErrorMessage(long)
	if len(got) != ErrorMessageMaxLen {
		t.Fatalf("len = %d, want %d", len(got), ErrorMessageMaxLen)
	}

	// A multibyte rune straddling the limit must not be split in half.
	straddling := strings.Repeat("a", ErrorMessageMaxLen-1) + "é"
	got = TruncateErrorMessage(straddling)
	if !utf8.ValidString(got) {
		t.Fatalf("TruncateErrorMessage() produced invalid UTF-8: %q", got)
	}
	if len(got) != ErrorMessageMaxLen-1 {
		t.Fatalf("len = %d, want %d (rune boundary)", len(got), ErrorMessageMaxLen-1)
	}
}

func TestStatusTerminal(t *testing.T) {
	if JobStatusQueued.Terminal() || JobStatusProcessing.Terminal() {
		t.Fatalf("queued/processing must not be terminal")
	}
	if !JobStatusCompleted.Terminal() || !JobStatusFailed.Terminal() {
		t.Fatalf("completed/failed must be terminal")
	}
}
