package app

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/statsloop/pitchdash/external/mlbstats"
	"github.com/statsloop/pitchdash/internal/config"
	"github.com/statsloop/pitchdash/internal/domain/pitch"
	"github.com/statsloop/pitchdash/internal/domain/rawfeed"
	"github.com/statsloop/pitchdash/internal/infrastructure/repository/memory"
	"github.com/statsloop/pitchdash/internal/infrastructure/repository/postgres"
	"github.com/statsloop/pitchdash/internal/interfaces/httpapi"
	"github.com/statsloop/pitchdash/internal/platform/cache"
	"github.com/statsloop/pitchdash/internal/platform/freshness"
	"github.com/statsloop/pitchdash/internal/platform/logging"
	"github.com/statsloop/pitchdash/internal/platform/resilience"
	"github.com/statsloop/pitchdash/internal/usecase"
)

// NewHTTPServer wires repositories, the stats client, and services into a
// ready-to-run HTTP server plus the background refresh worker. The caller owns
// both lifecycles.
func NewHTTPServer(cfg config.Config, slogger *slog.Logger) (*http.Server, *usecase.RefreshService, error) {
	logger := logging.NewJSON(cfg.LogLevel)

	snapshots, rawFeeds, err := buildRepositories(cfg, slogger)
	if err != nil {
		return nil, nil, err
	}

	window, err := freshness.NewWindow(cfg.RefreshHour, cfg.RefreshTimezone)
	if err != nil {
		return nil, nil, fmt.Errorf("build freshness window: %w", err)
	}

	statsClient := mlbstats.NewClient(mlbstats.ClientConfig{
		BaseURL:    cfg.StatsAPIBaseURL,
		SportID:    cfg.StatsAPISportID,
		Timeout:    cfg.StatsAPITimeout,
		MaxRetries: cfg.StatsAPIMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.StatsAPICircuitEnabled,
			FailureThreshold: cfg.StatsAPICircuitFailureCount,
			OpenTimeout:      cfg.StatsAPICircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.StatsAPICircuitHalfOpenMaxReq,
		},
	})

	var store *cache.Store
	if cfg.CacheEnabled {
		store = cache.NewStore(cfg.CacheTTL)
	}

	datasetSvc := usecase.NewDatasetService(usecase.DatasetServiceConfig{
		Schedule:   statsClient,
		Feeds:      statsClient,
		Snapshots:  snapshots,
		RawFeeds:   rawFeeds,
		Cache:      store,
		Window:     window,
		Logger:     logger,
		MaxWorkers: cfg.MaxAssembleWorkers,
		HomeTeams:  cfg.HomeTeams,
	})
	summarySvc := usecase.NewSummaryService(datasetSvc, logger)
	bioSvc := usecase.NewBioService(statsClient, rawFeeds, store, logger)
	refreshSvc := usecase.NewRefreshService(datasetSvc, window, logger)

	handler := httpapi.NewHandler(datasetSvc, summarySvc, bioSvc, window, cfg.SeasonStart, logger)
	router := httpapi.NewRouter(handler, slogger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, refreshSvc, nil
}

// buildRepositories connects to Postgres when DB_URL is set and falls back to
// in-process repositories otherwise, so the service runs without a database.
func buildRepositories(cfg config.Config, slogger *slog.Logger) (pitch.Repository, rawfeed.Repository, error) {
	if cfg.DBURL == "" {
		slogger.Info("no DB_URL configured, using in-memory repositories")
		return memory.NewSnapshotRepository(), memory.NewRawFeedRepository(), nil
	}

	db, err := sqlx.Connect("postgres", normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary))
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	slogger.Info("connected to database", "db", dbNameFromURL(cfg.DBURL))

	return postgres.NewSnapshotRepository(db), postgres.NewRawFeedRepository(db), nil
}
