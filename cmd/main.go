package main

import (
	"context"
	"fmt"
	"os"

	"github.com/modelyard/modelyard-backend/internal/analytics"
	"github.com/modelyard/modelyard-backend/internal/cache"
	"github.com/modelyard/modelyard-backend/internal/db"
	"github.com/modelyard/modelyard-backend/internal/gateway"
	httpx "github.com/modelyard/modelyard-backend/internal/http"
	"github.com/modelyard/modelyard-backend/internal/http/handlers"
	"github.com/modelyard/modelyard-backend/internal/http/middleware"
	"github.com/modelyard/modelyard-backend/internal/identity"
	"github.com/modelyard/modelyard-backend/internal/observability"
	"github.com/modelyard/modelyard-backend/internal/platform/envutil"
	"github.com/modelyard/modelyard-backend/internal/platform/logger"
	"github.com/modelyard/modelyard-backend/internal/quality"
	"github.com/modelyard/modelyard-backend/internal/realtime/bus"
	"github.com/modelyard/modelyard-backend/internal/services"
	"github.com/modelyard/modelyard-backend/internal/storage"
)

func main() {
	// Logger
	logMode := envutil.String("LOG_MODE", "development")
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()

	// Tracing (opt-in via OTEL_ENABLED)
	if shutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: "modelyard-backend",
		Environment: envutil.String("ENVIRONMENT", "development"),
		Version:     envutil.String("SERVICE_VERSION", "dev"),
	}); shutdown != nil {
		defer shutdown(ctx)
	}

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := envutil.String("JWT_SECRET_KEY", "defaultsecret")
	analyticsCfg := analytics.LoadConfigFromEnv()

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}

	// Gateway + cache
	log.Info("Setting up gateway and cache from main...")
	gw := gateway.NewPostgresGateway(postgresService.DB(), log)
	store := cache.NewStore(log)

	// Invalidation bus (optional; single-process deployments run without it)
	var invBus bus.Bus
	if b, err := bus.NewRedisBus(log); err != nil {
		log.Warn("Could not init invalidation bus, running without cross-process invalidation", "error", err)
	} else {
		invBus = b
		err := invBus.StartForwarder(ctx, func(ev bus.InvalidationEvent) {
			store.Invalidate(cache.Key{Kind: ev.Kind, Owner: ev.Owner})
		})
		if err != nil {
			log.Warn("Invalidation forwarder failed to start", "error", err)
		}
		defer invBus.Close()
	}

	// Artifact storage (optional; dataset uploads fail cleanly without it)
	var bucketService storage.BucketService
	if bs, err := storage.NewBucketService(ctx, log); err != nil {
		log.Warn("Could not init BucketService", "error", err)
	} else {
		bucketService = bs
	}

	// Services
	log.Info("Setting up Services from main...")
	assessor := quality.NewHeuristicAssessor()
	queryService := services.NewQueryService(log, gw, store)
	datasetService := services.NewDatasetService(log, gw, store, invBus, bucketService, assessor)
	modelService := services.NewModelService(log, gw, store, invBus)
	experimentService := services.NewExperimentService(log, gw, store, invBus)
	profileService := services.NewProfileService(log, gw, store, invBus)

	// Handlers
	log.Info("Setting up handlers from main...")
	healthHandler := handlers.NewHealthHandler()
	collectionHandler := handlers.NewCollectionHandler(queryService)
	datasetHandler := handlers.NewDatasetHandler(datasetService)
	modelHandler := handlers.NewModelHandler(modelService)
	experimentHandler := handlers.NewExperimentHandler(experimentService)
	profileHandler := handlers.NewProfileHandler(profileService)
	analyticsHandler := handlers.NewAnalyticsHandler(queryService, analyticsCfg)
	sessionHandler := handlers.NewSessionHandler(store)

	// Middleware
	log.Info("Setting up middleware from main...")
	verifier := identity.NewHS256Verifier(jwtSecretKey)
	authMiddleware := middleware.NewAuthMiddleware(log, verifier)

	// Router
	log.Info("Setting up router from main...")
	router := httpx.NewRouter(httpx.RouterConfig{
		AuthMiddleware:    authMiddleware,
		CollectionHandler: collectionHandler,
		DatasetHandler:    datasetHandler,
		ModelHandler:      modelHandler,
		ExperimentHandler: experimentHandler,
		ProfileHandler:    profileHandler,
		AnalyticsHandler:  analyticsHandler,
		SessionHandler:    sessionHandler,
		HealthHandler:     healthHandler,
	})

	port := envutil.String("PORT", "8080")
	log.Info("Server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
	}
}
