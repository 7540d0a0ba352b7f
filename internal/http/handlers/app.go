package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"videogen/internal/domain"
	"videogen/internal/jobs"
	"videogen/internal/providers"
)

// StorePinger reports persistence reachability for the diagnostic endpoint.
// It is nil for the in-memory store.
type StorePinger func(ctx context.Context) error

// App is the handler container with its injected collaborators.
type App struct {
	Logger    zerolog.Logger
	Jobs      *jobs.Service
	Providers *providers.Registry
	StoreKind string
	PingStore StorePinger
}

// NewApp wires the handler container.
func NewApp(logger zerolog.Logger, jobSvc *jobs.Service, registry *providers.Registry, storeKind string, ping StorePinger) *App {
	return &App{
		Logger:    logger,
		Jobs:      jobSvc,
		Providers: registry,
		StoreKind: storeKind,
		PingStore: ping,
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, msg string) {
	a.json(w, code, map[string]string{"error": errCode, "message": msg})
}

// domainError maps the error taxonomy onto HTTP status codes.
func (a *App) domainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		a.error(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
	case errors.Is(err, domain.ErrCredentialMissing):
		a.error(w, http.StatusUnprocessableEntity, "credential_missing", err.Error())
	case errors.Is(err, domain.ErrMissingInput):
		a.error(w, http.StatusUnprocessableEntity, "missing_input", err.Error())
	case errors.Is(err, domain.ErrInvalidID):
		a.error(w, http.StatusBadRequest, "invalid_id", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", "job not found")
	case errors.Is(err, domain.ErrStoreUnavailable):
		a.Logger.Error().Err(err).Msg("job store unavailable")
		a.error(w, http.StatusInternalServerError, "store_unavailable", "job store unavailable")
	default:
		a.Logger.Error().Err(err).Msg("unhandled error")
		a.error(w, http.StatusInternalServerError, "internal", "internal error")
	}
}
