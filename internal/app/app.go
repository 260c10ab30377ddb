package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	otelsql "github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/crocodileps/oddsedge/external/injuryfeed"
	"github.com/crocodileps/oddsedge/internal/config"
	"github.com/crocodileps/oddsedge/internal/domain/market"
	"github.com/crocodileps/oddsedge/internal/domain/scorers"
	"github.com/crocodileps/oddsedge/internal/domain/scoring"
	"github.com/crocodileps/oddsedge/internal/domain/staking"
	"github.com/crocodileps/oddsedge/internal/infrastructure/repository/postgres"
	"github.com/crocodileps/oddsedge/internal/interfaces/httpapi"
	"github.com/crocodileps/oddsedge/internal/ml"
	"github.com/crocodileps/oddsedge/internal/platform/cache"
	"github.com/crocodileps/oddsedge/internal/platform/id"
	"github.com/crocodileps/oddsedge/internal/platform/logging"
	"github.com/crocodileps/oddsedge/internal/platform/resilience"
	"github.com/crocodileps/oddsedge/internal/usecase"
)

// App owns the HTTP server, the database handle and the resolver scheduler.
type App struct {
	Server *http.Server

	db       *sqlx.DB
	stopJobs context.CancelFunc
	waitJobs func()
	logger   *logging.Logger
}

// New wires every component and starts the resolver scheduler. The model
// artifacts must load at startup; a missing or corrupt model head is a
// build error, not a degraded mode.
func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	db, err := otelsqlx.Connect("postgres", normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary),
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	head, err := ml.Load(cfg.ModelArtifactDir, logger)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("load model artifacts: %w", err)
	}

	var store *cache.Store
	if cfg.CacheEnabled {
		store = cache.NewStore(cfg.CacheTTL)
	}

	var availability scorers.AvailabilityFeed
	if cfg.InjuryFeedEnabled {
		availability = injuryfeed.NewClient(injuryfeed.ClientConfig{
			BaseURL:    cfg.InjuryFeedBaseURL,
			Token:      cfg.InjuryFeedToken,
			Timeout:    cfg.InjuryFeedTimeout,
			MaxRetries: cfg.InjuryFeedMaxRetries,
			Logger:     logger,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.InjuryFeedCircuitEnabled,
				FailureThreshold: cfg.InjuryFeedCircuitFailureCount,
				OpenTimeout:      cfg.InjuryFeedCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.InjuryFeedCircuitHalfOpenMaxReq,
			},
		})
	}

	pickRepo := postgres.NewPickRepository(db)
	oddsRepo := postgres.NewOddsRepository(db)
	resultRepo := postgres.NewResultRepository(db)
	variationRepo := postgres.NewVariationRepository(db)

	featureSvc := usecase.NewFeatureService(
		postgres.NewTeamRepository(db),
		postgres.NewCoachRepository(db),
		postgres.NewRefereeRepository(db),
		postgres.NewMatchupRepository(db),
		postgres.NewHeadToHeadRepository(db),
		postgres.NewScorerRepository(db),
		availability,
		oddsRepo,
		store,
		logger,
	)
	steamSvc := usecase.NewSteamService(oddsRepo, usecase.SteamConfig{
		DriftBp:     cfg.SteamDriftBp,
		BoostedAdj:  cfg.SteamBoostedAdj,
		CautiousAdj: cfg.SteamCautiousAdj,
		BlockedAdj:  cfg.SteamBlockedAdj,
	}, logger)
	variationSvc := usecase.NewVariationService(variationRepo, nil, logger)

	thresholds := scoring.DefaultThresholds()
	thresholds.MinConfidence = cfg.MinConfidence
	thresholds.SniperConfidence = cfg.SniperThreshold
	thresholds.SubstitutionMargin = cfg.SubstitutionMargin

	engineCfg := staking.DefaultEngineConfig()
	engineCfg.MinEdge = cfg.MinEdge
	engineCfg.KellyFraction = cfg.KellyFraction
	engineCfg.MaxKelly = cfg.MaxKelly
	engineCfg = engineCfg.MergeOverrides(cfg.EngineMarketOddsFloors, cfg.EngineMarketMinEdge)

	predictionSvc := usecase.NewPredictionService(
		featureSvc,
		steamSvc,
		variationSvc,
		head,
		pickRepo,
		id.NewUUIDGenerator(),
		usecase.PredictionConfig{
			Thresholds:     thresholds,
			Corrections:    market.FromConfig(cfg.MarketCorrections),
			EnabledFactors: cfg.EnabledFactors,
			Engine:         engineCfg,
			Staleness:      cfg.StalenessThreshold,
		},
		logger,
	)
	ingestSvc := usecase.NewIngestService(oddsRepo, resultRepo, logger)
	performanceSvc := usecase.NewPerformanceService(pickRepo)
	resolverSvc := usecase.NewResolverService(
		pickRepo,
		oddsRepo,
		resultRepo,
		usecase.ResolverConfig{
			GracePeriod:   cfg.ResolverGracePeriod,
			MatchWindow:   cfg.ResolverMatchWindow,
			EscalateAfter: cfg.ResolverEscalateAfter,
			PoolSize:      cfg.ResolverPoolSize,
		},
		logger,
	)

	scheduler := usecase.NewJobSchedulerService(resolverSvc, cfg.JobResolveInterval, logger)
	jobCtx, stopJobs := context.WithCancel(context.WithoutCancel(ctx))
	waitJobs := scheduler.Start(jobCtx)

	handler := httpapi.NewHandler(predictionSvc, ingestSvc, performanceSvc, resolverSvc, pickRepo, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		stopJobs()
		waitJobs()
		_ = db.Close()
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return &App{
		Server:   server,
		db:       db,
		stopJobs: stopJobs,
		waitJobs: waitJobs,
		logger:   logger,
	}, nil
}

// Shutdown drains the HTTP server, stops the resolver scheduler and closes
// the database handle.
func (a *App) Shutdown(ctx context.Context) error {
	err := a.Server.Shutdown(ctx)

	a.stopJobs()
	a.waitJobs()

	if closeErr := a.db.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}
