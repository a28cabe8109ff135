package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/telinsight/employee-insights-api/internal/handlers"
	"github.com/telinsight/employee-insights-api/internal/middleware"
)

type RouterConfig struct {
	AuthHandler     *handlers.AuthHandler
	AuthMiddleware  *middleware.AuthMiddleware
	IngestHandler   *handlers.IngestHandler
	InsightHandler  *handlers.InsightHandler
	BookmarkHandler *handlers.BookmarkHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware("employee-insights-api"))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: false,
	}))

	router.GET("/", handlers.Banner)
	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", cfg.AuthHandler.Register)
		auth.POST("/login", cfg.AuthHandler.Login)
		auth.POST("/refresh", cfg.AuthHandler.Refresh)
		auth.POST("/logout", cfg.AuthHandler.Logout)
	}

	insights := api.Group("/insights")
	{
		insights.GET("/summary", cfg.InsightHandler.Summary)
		insights.GET("/dashboard", cfg.InsightHandler.Dashboard)
		insights.GET("/top-positive", cfg.InsightHandler.TopPositive)
		insights.GET("/top-negative", cfg.InsightHandler.TopNegative)
		insights.GET("/filter", cfg.InsightHandler.FilteredAggregate)
		insights.GET("/cities", cfg.InsightHandler.CitySummary)
		insights.GET("/conclusion", cfg.InsightHandler.Conclusion)
		insights.GET("/:word", cfg.InsightHandler.SearchByWord)

		protected := insights.Group("")
		protected.Use(cfg.AuthMiddleware.RequireAuth())
		{
			protected.POST("/import", cfg.IngestHandler.FullReload)
			protected.POST("/import/incremental", cfg.IngestHandler.IncrementalAppend)
			protected.POST("/refresh", cfg.InsightHandler.RefreshKeywordAggregate)
			protected.POST("/refresh/city", cfg.InsightHandler.RefreshCityAggregate)
		}
	}

	api.GET("/feedback", cfg.InsightHandler.ListFeedback)

	bookmarks := api.Group("/bookmarks")
	{
		bookmarks.GET("", cfg.BookmarkHandler.List)

		protected := bookmarks.Group("")
		protected.Use(cfg.AuthMiddleware.RequireAuth())
		{
			protected.POST("", cfg.BookmarkHandler.Create)
			protected.DELETE("/:id", cfg.BookmarkHandler.Delete)
		}
	}

	return router
}
