package handlers

import (
	"net/http"

	"videogen/internal/domain"
)

// Stats serves job counts per lifecycle state.
func (a *App) Stats(w http.ResponseWriter, r *http.Request) {
	counts, err := a.Jobs.Stats(r.Context())
	if err != nil {
		a.domainError(w, err)
		return
	}
	jobs := map[string]int{}
	for _, status := range []domain.JobStatus{
		domain.JobStatusQueued,
		domain.JobStatusProcessing,
		domain.JobStatusCompleted,
		domain.JobStatusFailed,
	} {
		jobs[string(status)] = counts[status]
	}
	a.json(w, http.StatusOK, map[string]any{"jobs": jobs})
}
