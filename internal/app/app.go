package app

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"

	"github.com/dallasheidt14/PitchRank-sub004/external/providerfeed"
	"github.com/dallasheidt14/PitchRank-sub004/internal/config"
	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/alias"
	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/game"
	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/ranking"
	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/review"
	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/team"
	cacherepo "github.com/dallasheidt14/PitchRank-sub004/internal/infrastructure/repository/cache"
	"github.com/dallasheidt14/PitchRank-sub004/internal/infrastructure/repository/memory"
	"github.com/dallasheidt14/PitchRank-sub004/internal/infrastructure/repository/postgres"
	"github.com/dallasheidt14/PitchRank-sub004/internal/interfaces/httpapi"
	"github.com/dallasheidt14/PitchRank-sub004/internal/platform/cache"
	idgen "github.com/dallasheidt14/PitchRank-sub004/internal/platform/id"
	"github.com/dallasheidt14/PitchRank-sub004/internal/platform/resilience"
	"github.com/dallasheidt14/PitchRank-sub004/internal/usecase"
)

type repositories struct {
	teams    team.Repository
	aliases  alias.Repository
	reviews  review.Repository
	games    game.Repository
	rankings ranking.Repository
	store    usecase.MaintenanceStore
}

func NewHTTPServer(cfg config.Config, logger *slog.Logger) (*http.Server, error) {
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	cacheStore := cache.NewDisabled()
	if cfg.CacheEnabled {
		cacheStore = cache.NewStore(cfg.CacheTTL)
	}

	repos, err := buildRepositories(cfg, cacheStore)
	if err != nil {
		return nil, err
	}

	resolver, err := usecase.NewResolverService(
		repos.teams,
		repos.aliases,
		repos.reviews,
		idgen.NewRandomGenerator(),
		usecase.ResolverConfig{
			AutoApproveThreshold: cfg.ResolverAutoApprove,
			ReviewThreshold:      cfg.ResolverReviewThreshold,
		},
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("build resolver service: %w", err)
	}

	ingestion, err := usecase.NewIngestionService(
		resolver,
		repos.aliases,
		repos.games,
		usecase.IngestConfig{
			AgeMismatchTolerance: cfg.IngestAgeMismatchTolerance,
			ConflictPolicy:       usecase.ConflictPolicy(cfg.IngestConflictPolicy),
			MaxWorkers:           cfg.IngestMaxWorkers,
		},
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("build ingestion service: %w", err)
	}

	rankingSvc, err := usecase.NewRankingService(
		repos.teams,
		repos.games,
		repos.rankings,
		usecase.RankingConfig{
			WindowDays: cfg.RankWindowDays,
			MaxGames:   cfg.RankMaxGames,
			Bands: ranking.BandWeights{
				Recent: cfg.RankRecentWeight,
				Middle: cfg.RankMiddleWeight,
				Oldest: cfg.RankOldestWeight,
			},
			Points: ranking.PointValues{
				Win:  cfg.RankWinPoints,
				Draw: cfg.RankDrawPoints,
				Loss: cfg.RankLossPoints,
			},
			MinGames:             cfg.RankMinGames,
			SOSIterations:        cfg.RankSOSIterations,
			SOSDefault:           cfg.RankSOSDefault,
			MaxConcurrentCohorts: cfg.IngestMaxWorkers,
		},
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("build ranking service: %w", err)
	}

	reviewSvc := usecase.NewReviewService(repos.reviews, repos.aliases, repos.teams, logger)
	maintenanceSvc := usecase.NewMaintenanceService(repos.store, idgen.NewRandomGenerator(), logger)

	// Pull-based ingestion is optional: without a configured feed gateway the
	// pull job endpoint reports the dependency as unavailable.
	var feed usecase.FeedClient
	if cfg.FeedBaseURL != "" {
		feed = providerfeed.NewClient(providerfeed.ClientConfig{
			BaseURL:    cfg.FeedBaseURL,
			Token:      cfg.FeedToken,
			Timeout:    cfg.FeedTimeout,
			MaxRetries: cfg.FeedMaxRetries,
			Logger:     logger,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.FeedBreakerEnabled,
				FailureThreshold: cfg.FeedBreakerFailureLimit,
				OpenTimeout:      cfg.FeedBreakerOpenTimeout,
				HalfOpenMaxReq:   cfg.FeedBreakerHalfOpenMax,
			},
		})
	}
	feedSvc := usecase.NewFeedService(feed, ingestion, logger)

	handler := httpapi.NewHandler(ingestion, rankingSvc, reviewSvc, maintenanceSvc, feedSvc, repos.games, cacheStore, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	return &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}, nil
}

func buildRepositories(cfg config.Config, cacheStore *cache.Store) (repositories, error) {
	switch cfg.StorageDriver {
	case "memory":
		teams := memory.NewTeamRepository(nil)
		aliases := memory.NewAliasRepository()
		games := memory.NewGameRepository()
		return repositories{
			teams:    cacherepo.NewTeamRepository(teams, cacheStore),
			aliases:  aliases,
			reviews:  memory.NewReviewRepository(),
			games:    games,
			rankings: memory.NewRankingRepository(),
			store:    memory.NewMaintenanceStore(teams, aliases, games),
		}, nil
	case "postgres":
		db, err := connectDB(cfg)
		if err != nil {
			return repositories{}, err
		}
		return repositories{
			teams:    cacherepo.NewTeamRepository(postgres.NewTeamRepository(db), cacheStore),
			aliases:  postgres.NewAliasRepository(db),
			reviews:  postgres.NewReviewRepository(db),
			games:    postgres.NewGameRepository(db),
			rankings: postgres.NewRankingRepository(db),
			store:    postgres.NewMaintenanceStore(db),
		}, nil
	default:
		return repositories{}, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

func connectDB(cfg config.Config) (*sqlx.DB, error) {
	dbURL := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Connect("postgres", dbURL,
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
		otelsql.WithDBName(dbNameFromURL(dbURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(4)

	return db, nil
}
