package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/mbertin/radio-tracker-api/api/swagger"
	"github.com/mbertin/radio-tracker-api/internal/gemini"
	"github.com/mbertin/radio-tracker-api/internal/handler"
	"github.com/mbertin/radio-tracker-api/internal/middleware"
	"github.com/mbertin/radio-tracker-api/internal/repository"
	"github.com/mbertin/radio-tracker-api/internal/service"
	"github.com/mbertin/radio-tracker-api/pkg/cache"
	"github.com/mbertin/radio-tracker-api/pkg/config"
	"github.com/mbertin/radio-tracker-api/pkg/logger"
	corsmiddleware "github.com/mbertin/radio-tracker-api/pkg/middleware/cors"
	reqidmiddleware "github.com/mbertin/radio-tracker-api/pkg/middleware/requestid"
	"github.com/mbertin/radio-tracker-api/pkg/sheets"
)

// @title Radio Tracker API
// @version 0.1.0
// @description Spreadsheet-backed reading list with flashcard generation
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx := context.Background()

	sheetsSvc, err := sheets.NewService(ctx, cfg.Sheets)
	if err != nil {
		logr.Sugar().Fatalw("failed to init sheets client", "error", err)
	}

	geminiClient, err := gemini.NewClient(ctx, cfg.Gemini, logr)
	if err != nil {
		logr.Sugar().Fatalw("failed to init gemini client", "error", err)
	}
	defer geminiClient.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, snapshot cache disabled", "error", err)
		redisClient = nil
	}

	codec := repository.NewSheetCodec(cfg.Sheets.SentinelTrue)
	recordRepo := repository.NewRecordRepository(sheetsSvc, cfg.Sheets.SpreadsheetID, cfg.Sheets.RecordsSheet, codec, cfg.Sheets.RequestTimeout, logr)
	flashcardRepo := repository.NewFlashcardRepository(sheetsSvc, cfg.Sheets.SpreadsheetID, cfg.Sheets.FlashcardsSheet, cfg.Sheets.RequestTimeout, logr)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	session := service.NewSession()
	validate := validator.New()
	metrics := service.NewMetricsService()

	authSvc := service.NewAuthService(validate, logr, cfg.Auth)
	recordSvc := service.NewRecordService(recordRepo, cacheRepo, session, metrics, validate, logr, service.RecordServiceConfig{
		DefaultCap: cfg.View.DefaultCap,
		CacheTTL:   cfg.Redis.TableTTL,
	})
	editSvc := service.NewEditService(recordRepo, recordSvc, cacheRepo, session, codec, metrics, logr)
	flashcardSvc := service.NewFlashcardService(geminiClient, flashcardRepo, recordSvc, editSvc, session, validate, logr, service.FlashcardServiceConfig{
		MaxCards: cfg.Gemini.MaxCards,
		Timeout:  cfg.Gemini.Timeout,
	})
	exportSvc := service.NewExportService(recordSvc, flashcardRepo, codec, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	recordHandler := handler.NewRecordHandler(recordSvc, editSvc, cfg.View.DefaultCap)
	flashcardHandler := handler.NewFlashcardHandler(flashcardSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	metricsHandler := handler.NewMetricsHandler(metrics)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(middleware.JWT(authSvc))
	protected.GET("/auth/me", authHandler.Me)
	protected.GET("/records", recordHandler.List)
	protected.POST("/records", recordHandler.Create)
	protected.PATCH("/records", recordHandler.EditBatch)
	protected.POST("/records/reload", recordHandler.Reload)
	protected.GET("/records/tags", recordHandler.Tags)
	protected.GET("/session/selection", recordHandler.Selection)
	protected.POST("/flashcards/generate", flashcardHandler.Generate)
	protected.GET("/flashcards/draft", flashcardHandler.Draft)
	protected.PUT("/flashcards/draft", flashcardHandler.UpdateDraft)
	protected.POST("/flashcards/commit", flashcardHandler.Commit)
	if cfg.Export.Enabled {
		protected.GET("/export/records", exportHandler.Records)
		protected.GET("/export/flashcards", exportHandler.Flashcards)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
