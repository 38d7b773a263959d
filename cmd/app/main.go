package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"prize-draw-engine/docs"
	"prize-draw-engine/internal/common/config"
	"prize-draw-engine/internal/common/logger"
	"prize-draw-engine/internal/common/metrics"
	"prize-draw-engine/internal/common/middleware"
	drawhttp "prize-draw-engine/internal/features/draw/delivery/http"
	drawevents "prize-draw-engine/internal/features/draw/events/redis"
	drawrepo "prize-draw-engine/internal/features/draw/repository/postgres"
	drawservice "prize-draw-engine/internal/features/draw/service"
	"prize-draw-engine/internal/platform/postgres"
	"prize-draw-engine/internal/platform/redis"
)

const serviceName = "prize-draw-engine"

// @title           Prize Draw Engine API
// @version         1.0
// @description     Ticket ledger, draw phases and winner selection for product-linked prize campaigns.

// @host      localhost:8080
// @BasePath  /api/v1

// @tag.name draws
// @tag.description Draw status, ticket pool and winner history

// @tag.name tickets
// @tag.description Ticket issuance and winner marking

func main() {
	cfg := config.Load()

	logger.Init(serviceName, cfg.Debug)
	log := logger.Component("main")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Инициализируем базу данных
	postgresClient, err := postgres.NewClient(ctx, cfg.Postgres, logger.Component("postgres"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer postgresClient.Close()

	if cfg.DBAutoMigrate {
		if err := postgresClient.Migrate(); err != nil {
			log.Fatal().Err(err).Msg("Failed to apply migrations")
		}
	}

	// Redis нужен для стрима событий розыгрышей
	redisClient, err := redis.NewClient(ctx, cfg, logger.Component("redis"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()

	db := postgresClient.DB()
	ledgerRepository := drawrepo.NewPostgresLedgerRepository(db)
	winnerRepository := drawrepo.NewPostgresWinnerRepository(db)
	drawRepository := drawrepo.NewPostgresDrawRepository(db)
	poolRepository := drawrepo.NewPostgresPoolRepository(db)

	ledgerSvc := drawservice.NewLedgerService(ledgerRepository, cfg.Draw.AllocationRetries, cfg.Draw.RetryDelay, logger.Component("ledger"))
	selectorSvc := drawservice.NewSelectorService(winnerRepository, logger.Component("selector"))
	querySvc := drawservice.NewQueryService(drawRepository, poolRepository, winnerRepository)

	announcer := drawevents.NewAnnouncer(redisClient, cfg.Draw.EventStream, cfg.Draw.EventStreamMaxLen, logger.Component("events"))
	drawHandler := drawhttp.NewDrawHandler(ledgerSvc, selectorSvc, querySvc, announcer, logger.Component("http"))

	log.Info().Msg("Services initialized")

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	httpLog := logger.Component("http")
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.ErrorHandler(httpLog))
	router.Use(middleware.Logger(httpLog))
	router.Use(metrics.GinMiddleware())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.Origin}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization", "Accept", "X-Request-ID"}
	router.Use(cors.New(corsConfig))

	docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", cfg.Server.Port)
	setupRoutes(router, drawHandler, postgresClient, redisClient, httpLog)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

func setupRoutes(router *gin.Engine, drawHandler *drawhttp.DrawHandler, postgresClient *postgres.Client, redisClient *goredis.Client, log zerolog.Logger) {
	v1 := router.Group("/api/v1")
	drawHandler.RegisterRoutes(v1)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
			"service":   serviceName,
		})
	})

	// Liveness probe
	router.GET("/live", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	// Readiness probe
	router.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := postgresClient.HealthCheck(ctx); err != nil {
			unready(c, log, "postgres unavailable", err)
			return
		}
		if err := redisClient.Ping(ctx).Err(); err != nil {
			unready(c, log, "redis unavailable", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "ready",
			"timestamp": time.Now().UTC(),
			"service":   serviceName,
		})
	})
}

func unready(c *gin.Context, log zerolog.Logger, reason string, err error) {
	log.Warn().Err(err).Msg(reason)
	c.JSON(http.StatusServiceUnavailable, gin.H{
		"status":  "unready",
		"error":   reason,
		"details": err.Error(),
	})
}
