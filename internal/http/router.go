package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/modelyard/modelyard-backend/internal/http/handlers"
	httpMW "github.com/modelyard/modelyard-backend/internal/http/middleware"
)

type RouterConfig struct {
	AuthMiddleware *httpMW.AuthMiddleware

	CollectionHandler *httpH.CollectionHandler
	DatasetHandler    *httpH.DatasetHandler
	ModelHandler      *httpH.ModelHandler
	ExperimentHandler *httpH.ExperimentHandler
	ProfileHandler    *httpH.ProfileHandler
	AnalyticsHandler  *httpH.AnalyticsHandler
	SessionHandler    *httpH.SessionHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.Default()
	r.Use(otelgin.Middleware("modelyard-backend"))
	r.Use(httpMW.CORS())

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")

	protected := api.Group("/")
	{
		// Middleware
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Collections (cached reads)
		if cfg.CollectionHandler != nil {
			protected.GET("/datasets", cfg.CollectionHandler.ListDatasets)
			protected.GET("/models", cfg.CollectionHandler.ListModels)
			protected.GET("/experiments", cfg.CollectionHandler.ListExperiments)
			protected.GET("/experiments/:id/lineage", cfg.CollectionHandler.GetLineage)
			protected.GET("/me", cfg.CollectionHandler.GetMe)
		}

		// Datasets
		if cfg.DatasetHandler != nil {
			protected.POST("/datasets", cfg.DatasetHandler.Create)
			protected.POST("/datasets/upload", cfg.DatasetHandler.Upload)
			protected.PATCH("/datasets/:id", cfg.DatasetHandler.Update)
		}

		// Models
		if cfg.ModelHandler != nil {
			protected.POST("/models", cfg.ModelHandler.Create)
		}

		// Experiments
		if cfg.ExperimentHandler != nil {
			protected.POST("/experiments", cfg.ExperimentHandler.Create)
		}

		// Profile
		if cfg.ProfileHandler != nil {
			protected.PATCH("/me", cfg.ProfileHandler.Update)
		}

		// Analytics
		if cfg.AnalyticsHandler != nil {
			protected.GET("/analytics/leaderboard", cfg.AnalyticsHandler.Leaderboard)
			protected.GET("/analytics/quality", cfg.AnalyticsHandler.SuiteQuality)
			protected.POST("/analytics/drift", cfg.AnalyticsHandler.EvaluateDrift)
			protected.POST("/analytics/explain", cfg.AnalyticsHandler.Explain)
		}

		// Session
		if cfg.SessionHandler != nil {
			protected.POST("/auth/signout", cfg.SessionHandler.SignOut)
		}
	}

	return r
}
