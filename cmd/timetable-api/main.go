package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/campusone/timetable-api/internal/handler"
	internalmiddleware "github.com/campusone/timetable-api/internal/middleware"
	"github.com/campusone/timetable-api/internal/repository"
	"github.com/campusone/timetable-api/internal/service"
	"github.com/campusone/timetable-api/pkg/cache"
	"github.com/campusone/timetable-api/pkg/config"
	"github.com/campusone/timetable-api/pkg/database"
	"github.com/campusone/timetable-api/pkg/logger"
	corsmiddleware "github.com/campusone/timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/campusone/timetable-api/pkg/middleware/requestid"
)

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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// Caching is an optimization; the API stays up without it.
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	metricsSvc := service.NewMetricsService()
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.TTL, logr, cfg.Cache.Enabled && redisClient != nil)

	timetableRepo := repository.NewTimetableRepository(db)
	timetableSvc := service.NewTimetableService(
		timetableRepo,
		cacheSvc,
		db,
		validator.New(),
		logr,
		metricsSvc,
		service.TimetableServiceConfig{
			ProposalTTL: cfg.Generator.ProposalTTL,
			MaxEntities: cfg.Generator.MaxEntities,
		},
	)

	timetableHandler := handler.NewTimetableHandler(timetableSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, db)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	api := r.Group(cfg.APIPrefix)
	{
		timetables := api.Group("/timetables")
		timetables.POST("/generate", timetableHandler.Generate)
		timetables.POST("/save", timetableHandler.Save)
		timetables.GET("", timetableHandler.List)
		timetables.GET("/:id/entries", timetableHandler.Entries)
		timetables.GET("/:id/export", timetableHandler.Export)
		timetables.DELETE("/:id", timetableHandler.Delete)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
