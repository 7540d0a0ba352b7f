package domain

import "errors"

var (
	// ErrValidation signals malformed or out-of-range input fields.
	ErrValidation = errors.New("validation failed")
	// ErrCredentialMissing signals a required provider credential is absent
	// from both the environment and the request.
	ErrCredentialMissing = errors.New("provider credential missing")
	// ErrMissingInput signals a mode-specific required field is absent.
	ErrMissingInput = errors.New("required input missing")
	// ErrNotFound signals an unknown job id.
	ErrNotFound = errors.New("not found")
	// ErrInvalidID signals a malformed job id.
	ErrInvalidID = errors.New("invalid id")
	// ErrConflict signals a status transition whose precondition no longer
	// holds, e.g. completing a job that is not processing.
	ErrConflict = errors.New("conflicting status transition")
	// ErrStoreUnavailable signals the persistence layer is unreachable.
	ErrStoreUnavailable = errors.New("job store unavailable")
	// ErrExecution signals the generation step failed. It is recorded on the
	// job, never surfaced to the creating request.
	ErrExecution = errors.New("execution failed")
)
