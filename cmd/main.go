package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/telinsight/employee-insights-api/internal/db"
	"github.com/telinsight/employee-insights-api/internal/handlers"
	"github.com/telinsight/employee-insights-api/internal/logger"
	"github.com/telinsight/employee-insights-api/internal/middleware"
	"github.com/telinsight/employee-insights-api/internal/observability"
	"github.com/telinsight/employee-insights-api/internal/repos"
	"github.com/telinsight/employee-insights-api/internal/server"
	"github.com/telinsight/employee-insights-api/internal/services"
	"github.com/telinsight/employee-insights-api/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Tracing
	shutdownOtel := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: "employee-insights-api",
		Environment: logMode,
	})
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownOtel(shutdownCtx)
	}()

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	serverPort := utils.GetEnv("SERVER_PORT", "8080", log)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	userTokenRepo := repos.NewUserTokenRepo(thePG, log)
	feedbackRepo := repos.NewFeedbackRepo(thePG, log)
	insightSummaryRepo := repos.NewInsightSummaryRepo(thePG, log)
	cityInsightRepo := repos.NewCityInsightRepo(thePG, log)
	bookmarkRepo := repos.NewBookmarkRepo(thePG, log)

	// Services
	log.Info("Setting up Services from main...")
	authService := services.NewAuthService(thePG, log, userRepo, userTokenRepo, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
	aggregationService := services.NewAggregationService(thePG, log, feedbackRepo, insightSummaryRepo, cityInsightRepo)
	importService := services.NewImportService(thePG, log, feedbackRepo, insightSummaryRepo, cityInsightRepo, aggregationService)
	insightService := services.NewInsightService(thePG, log, insightSummaryRepo, cityInsightRepo, feedbackRepo)
	bookmarkService := services.NewBookmarkService(thePG, log, bookmarkRepo, insightSummaryRepo)
	var conclusionGenerator services.ConclusionGenerator = services.StaticConclusionGenerator{}

	// Handlers
	log.Info("Setting up Handlers from main...")
	authHandler := handlers.NewAuthHandler(log, authService)
	ingestHandler := handlers.NewIngestHandler(log, importService)
	insightHandler := handlers.NewInsightHandler(log, insightService, aggregationService, conclusionGenerator)
	bookmarkHandler := handlers.NewBookmarkHandler(log, bookmarkService)
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	router := server.NewRouter(server.RouterConfig{
		AuthHandler:     authHandler,
		AuthMiddleware:  authMiddleware,
		IngestHandler:   ingestHandler,
		InsightHandler:  insightHandler,
		BookmarkHandler: bookmarkHandler,
	})

	log.Info("Starting server...", "port", serverPort)
	if err := router.Run(":" + serverPort); err != nil {
		log.Fatal("Server exited", "error", err)
	}
}
