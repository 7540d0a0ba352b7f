package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"videogen/internal/adapter/repo"
	"videogen/internal/domain"
	"videogen/internal/http/handlers"
	"videogen/internal/http/httpapi"
	"videogen/internal/infra"
	"videogen/internal/infra/geoip"
	"videogen/internal/jobs"
	"videogen/internal/middleware"
	"videogen/internal/providers"
	"videogen/internal/providers/video"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()

	// Job store: PostgreSQL when DATABASE_URL is set, in-memory otherwise.
	var (
		jobRepo   domain.JobRepository
		storeKind = "memory"
		ping      handlers.StorePinger
	)
	if cfg.DatabaseURL != "" {
		pool, err := infra.NewDBPool(ctx, cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect database")
		}
		defer pool.Close()

		pgRepo := repo.NewJobRepository(pool)
		if err := pgRepo.EnsureSchema(ctx); err != nil {
			logger.Fatal().Err(err).Msg("failed to ensure schema")
		}
		jobRepo = pgRepo
		storeKind = "postgres"
		ping = pgRepo.Ping
	} else {
		logger.Warn().Msg("DATABASE_URL not set, using in-memory job store")
		jobRepo = repo.NewMemoryJobRepository()
	}

	registry := providers.NewRegistry()
	engine := jobs.NewEngine(jobRepo, buildGenerators(registry, cfg.ResultURL), logger, jobs.EngineConfig{
		MaxConcurrency:   cfg.EngineMaxConcurrency,
		ExecutionTimeout: cfg.EngineExecutionTimeout,
	})
	jobSvc := jobs.NewService(jobRepo, registry, engine, logger)

	var countryLookup middleware.CountryLookup
	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip resolver disabled")
	} else if resolver != nil {
		defer resolver.Close()
		countryLookup = resolver.CountryCode
	}

	app := handlers.NewApp(logger, jobSvc, registry, storeKind, ping)
	router := httpapi.NewRouter(app, httpapi.Options{
		Logger:          logger,
		AllowedOrigins:  cfg.CORSAllowedOrigins,
		RateLimitPerMin: cfg.RateLimitPerMin,
		DefaultLocale:   cfg.DefaultLocale,
		CountryLookup:   countryLookup,
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	engine.Close()
	logger.Info().Msg("server stopped")
}

// buildGenerators maps every catalog provider onto the simulated backend. A
// real deployment swaps entries for actual provider clients without touching
// the engine.
func buildGenerators(registry *providers.Registry, resultURL string) map[domain.Provider]video.Generator {
	simulated := video.NewSimulated(resultURL)
	generators := make(map[domain.Provider]video.Generator)
	for _, info := range registry.List() {
		generators[domain.Provider(info.Key)] = simulated
	}
	return generators
}
