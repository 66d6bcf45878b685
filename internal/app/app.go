package app

import (
	"fmt"
	"net/http"

	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	_ "github.com/lib/pq"

	"github.com/grzedomin/betpicks/external/scorefeed"
	"github.com/grzedomin/betpicks/internal/config"
	"github.com/grzedomin/betpicks/internal/domain/prediction"
	"github.com/grzedomin/betpicks/internal/infrastructure/repository/memory"
	"github.com/grzedomin/betpicks/internal/infrastructure/repository/postgres"
	"github.com/grzedomin/betpicks/internal/interfaces/httpapi"
	"github.com/grzedomin/betpicks/internal/platform/cache"
	idgen "github.com/grzedomin/betpicks/internal/platform/id"
	"github.com/grzedomin/betpicks/internal/platform/logging"
	"github.com/grzedomin/betpicks/internal/platform/resilience"
	"github.com/grzedomin/betpicks/internal/usecase"
)

// NewHTTPServer wires the full service. With no DB_URL configured the
// service runs on the in-memory repository, which is enough for local use
// since predictions can be re-uploaded.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, error) {
	if logger == nil {
		logger = logging.Default()
	}

	repo, err := newPredictionRepository(cfg, logger)
	if err != nil {
		return nil, err
	}

	feedClient := scorefeed.NewClient(scorefeed.ClientConfig{
		BaseURL:      cfg.ScoreFeedBaseURL,
		Token:        cfg.ScoreFeedToken,
		Timeout:      cfg.ScoreFeedTimeout,
		MaxRetries:   cfg.ScoreFeedMaxRetries,
		RateLimitRPS: cfg.ScoreFeedRateLimitRPS,
		Logger:       logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.ScoreFeedCircuitEnabled,
			FailureThreshold: cfg.ScoreFeedCircuitFailureCount,
			OpenTimeout:      cfg.ScoreFeedCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.ScoreFeedCircuitHalfOpenMaxReq,
		},
	})

	resultsCache := cache.NewStore(cfg.ResultsCacheTTL)

	ingestionSvc := usecase.NewIngestionService(repo, idgen.NewRandomGenerator())
	predictionSvc := usecase.NewPredictionService(repo)
	reconcileSvc := usecase.NewReconcileService(repo, feedClient, resultsCache, logger)

	handler := httpapi.NewHandler(ingestionSvc, predictionSvc, reconcileSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}

func newPredictionRepository(cfg config.Config, logger *logging.Logger) (prediction.Repository, error) {
	if cfg.DBURL == "" {
		logger.Warn("DB_URL not set, using in-memory prediction repository")
		return memory.NewPredictionRepository(), nil
	}

	db, err := otelsqlx.Connect("postgres", cfg.DBURL,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
	)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	logger.Info("connected to postgres", "database", dbNameFromURL(cfg.DBURL))
	return postgres.NewPredictionRepository(db), nil
}
