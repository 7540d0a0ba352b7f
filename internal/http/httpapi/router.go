package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"videogen/internal/http/handlers"
	"videogen/internal/middleware"
)

// Options carries the cross-cutting knobs the middleware chain needs.
type Options struct {
	Logger          zerolog.Logger
	AllowedOrigins  []string
	RateLimitPerMin int
	DefaultLocale   string
	CountryLookup   middleware.CountryLookup
}

// NewRouter builds the HTTP surface of the service.
func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		chimw.RealIP,
		middleware.RequestID,
		middleware.CORS(opts.AllowedOrigins),
		middleware.I18N(opts.DefaultLocale, opts.CountryLookup),
		middleware.Logger(opts.Logger),
		chimw.Recoverer,
	)
	if opts.RateLimitPerMin > 0 {
		r.Use(middleware.RateLimit(opts.RateLimitPerMin, time.Minute))
	}

	r.Get("/", app.Root)
	r.Get("/v1/healthz", app.Health)
	r.Get("/test", app.StatusTest)

	r.Route("/api", func(r chi.Router) {
		r.Get("/providers", app.ProvidersList)
		r.Get("/stats", app.Stats)
		r.Route("/jobs", func(r chi.Router) {
			r.Post("/", app.JobsCreate)
			r.Get("/", app.JobsList)
			r.Get("/{job_id}", app.JobsGet)
		})
	})

	return r
}
