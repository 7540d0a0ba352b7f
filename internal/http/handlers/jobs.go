package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"videogen/internal/domain"
	"videogen/internal/middleware"
)

type createJobRequest struct {
	Provider    string            `json:"provider"`
	Mode        string            `json:"mode"`
	Prompt      string            `json:"prompt"`
	AspectRatio string            `json:"aspect_ratio"`
	Duration    *int              `json:"duration"`
	ImageURLs   []string          `json:"image_urls"`
	FPS         *int              `json:"fps"`
	APIKeys     map[string]string `json:"api_keys"`
}

type jobResponse struct {
	ID          string    `json:"id"`
	Provider    string    `json:"provider"`
	Mode        string    `json:"mode"`
	Prompt      string    `json:"prompt"`
	AspectRatio string    `json:"aspect_ratio"`
	Duration    int       `json:"duration"`
	ImageURLs   []string  `json:"image_urls,omitempty"`
	FPS         int       `json:"fps,omitempty"`
	Status      string    `json:"status"`
	ResultURL   *string   `json:"result_url"`
	Error       *string   `json:"error"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toJobResponse(job *domain.Job) jobResponse {
	return jobResponse{
		ID:          job.ID,
		Provider:    string(job.Provider),
		Mode:        string(job.Mode),
		Prompt:      job.Prompt,
		AspectRatio: job.AspectRatio,
		Duration:    job.Duration,
		ImageURLs:   job.ImageURLs,
		FPS:         job.FPS,
		Status:      string(job.Status),
		ResultURL:   job.ResultURL,
		Error:       job.Error,
		CreatedAt:   job.CreatedAt,
		UpdatedAt:   job.UpdatedAt,
	}
}

// JobsCreate accepts a job request, persists it queued and schedules
// background execution. The response carries the still-queued job.
func (a *App) JobsCreate(w http.ResponseWriter, r *http.Request) {
	var req createJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	input := domain.CreateJobInput{
		Provider:    domain.Provider(req.Provider),
		Mode:        domain.Mode(req.Mode),
		Prompt:      req.Prompt,
		AspectRatio: req.AspectRatio,
		ImageURLs:   req.ImageURLs,
		Locale:      middleware.LocaleFromContext(r.Context()),
		APIKeys:     req.APIKeys,
	}
	input.Duration = domain.DefaultDuration
	if req.Duration != nil {
		input.Duration = *req.Duration
	}
	if req.FPS != nil {
		input.FPS = *req.FPS
	}

	job, err := a.Jobs.Create(r.Context(), input)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, toJobResponse(job))
}

// JobsGet serves the latest state of a single job.
func (a *App) JobsGet(w http.ResponseWriter, r *http.Request) {
	job, err := a.Jobs.Get(r.Context(), chi.URLParam(r, "job_id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, toJobResponse(job))
}

// JobsList serves jobs ordered by creation time descending.
func (a *App) JobsList(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			a.error(w, http.StatusBadRequest, "bad_request", "limit must be an integer")
			return
		}
		limit = n
	}

	listed, err := a.Jobs.List(r.Context(), limit)
	if err != nil {
		a.domainError(w, err)
		return
	}
	items := make([]jobResponse, 0, len(listed))
	for i := range listed {
		items = append(items, toJobResponse(&listed[i]))
	}
	a.json(w, http.StatusOK, items)
}
