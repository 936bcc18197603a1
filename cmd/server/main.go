// Command server runs the movie search and recommendation API.
//
// Startup order:
//  1. Load .env (best effort) and environment configuration
//  2. Configure zerolog and OpenTelemetry tracing
//  3. Open the SQLite catalog and migrate the schema
//  4. Populate the catalog (JSON seed and/or TMDB fetch) when needed
//  5. Build the in-memory search index and start the HTTP server
//
// The server shuts down gracefully on SIGINT/SIGTERM, draining in-flight
// requests before closing the tracer provider.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/go-movie-backend/internal/config"
	"github.com/tbourn/go-movie-backend/internal/domain"
	httpapi "github.com/tbourn/go-movie-backend/internal/http"
	"github.com/tbourn/go-movie-backend/internal/http/handlers"
	"github.com/tbourn/go-movie-backend/internal/http/middleware"
	"github.com/tbourn/go-movie-backend/internal/ingest"
	"github.com/tbourn/go-movie-backend/internal/observability"
	"github.com/tbourn/go-movie-backend/internal/repo"
	"github.com/tbourn/go-movie-backend/internal/search"
	"github.com/tbourn/go-movie-backend/internal/services"
	"github.com/tbourn/go-movie-backend/internal/sysutil"
)

const version = "1.0.0"

func main() {
	// Local development convenience; ignored when absent.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.LogLevel)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	otelShutdown, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("db_path", cfg.DBPath).Msg("open database failed")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate failed")
	}

	tmdbKey, err := cfg.TMDB.ResolveTMDBKey()
	if err != nil {
		log.Fatal().Err(err).Msg("tmdb key resolution failed")
	}
	var tmdb *ingest.Client
	if tmdbKey != "" {
		tmdb = ingest.NewClient(tmdbKey,
			ingest.WithRateLimit(cfg.TMDB.RPS),
			ingest.WithWorkers(cfg.TMDB.Workers),
		)
	}

	movies, err := populateCatalog(ctx, cfg, db, tmdb)
	if err != nil {
		log.Fatal().Err(err).Msg("catalog load failed")
	}
	if len(movies) == 0 {
		log.Warn().Msg("catalog is empty; search will return no results until it is seeded")
	}

	searchCfg := search.DefaultConfig()
	searchCfg.MaxFeatures = cfg.MaxFeatures
	svc := services.NewMovieService(searchCfg, movies, services.WithCacheSize(cfg.CacheSize))
	middleware.SetCorpusSize(svc.Count())
	log.Info().Int("movies", svc.Count()).Int("max_features", cfg.MaxFeatures).Msg("search index built")

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	var trailers handlers.TrailerSource
	if tmdb != nil {
		trailers = tmdb
	}
	httpapi.RegisterRoutes(r, svc, trailers, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", version).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	if err := otelShutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("otel shutdown failed")
	}
	log.Info().Msg("server stopped")
}

// populateCatalog ensures the SQLite catalog has content and returns it.
//
// Priority:
//  1. If the catalog is empty and SEED_JSON is configured, import the dump.
//  2. If TMDB_FETCH_ON_STARTUP is set and a client is available, refresh
//     the whole catalog from the TMDB API.
//  3. Serve whatever the catalog currently holds.
func populateCatalog(ctx context.Context, cfg config.Config, db *gorm.DB, tmdb *ingest.Client) ([]domain.Movie, error) {
	count, err := repo.CountMovies(ctx, db)
	if err != nil {
		return nil, err
	}

	if count == 0 && cfg.SeedJSON != "" {
		seeded, err := ingest.SeedFromJSON(ctx, db, cfg.SeedJSON)
		if err != nil {
			return nil, err
		}
		log.Info().Int("movies", len(seeded)).Str("path", cfg.SeedJSON).Msg("catalog seeded from JSON")
	}

	if cfg.TMDB.FetchOnStartup {
		if tmdb == nil {
			log.Warn().Msg("TMDB fetch requested but no API key configured; skipping")
		} else {
			fetched, err := tmdb.FetchCorpus(ctx, ingest.FetchOptions{
				PopularPages:  cfg.TMDB.PopularPages,
				TopRatedPages: cfg.TMDB.TopRatedPages,
				HindiPages:    cfg.TMDB.HindiPages,
				TargetCount:   cfg.TMDB.TargetCount,
			})
			if err != nil {
				return nil, err
			}
			if err := repo.ReplaceMovies(ctx, db, fetched); err != nil {
				return nil, err
			}
			log.Info().Int("movies", len(fetched)).Msg("catalog refreshed from TMDB")
		}
	}

	return ingest.LoadCorpus(ctx, db)
}
