package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dafibh/tripsplit/tripsplit-backend/internal/config"
	"github.com/dafibh/tripsplit/tripsplit-backend/internal/handler"
	"github.com/dafibh/tripsplit/tripsplit-backend/internal/metrics"
	"github.com/dafibh/tripsplit/tripsplit-backend/internal/middleware"
	"github.com/dafibh/tripsplit/tripsplit-backend/internal/repository/postgres"
	"github.com/dafibh/tripsplit/tripsplit-backend/internal/repository/storage"
	"github.com/dafibh/tripsplit/tripsplit-backend/internal/service"
	"github.com/dafibh/tripsplit/tripsplit-backend/internal/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// @title Tripsplit API
// @version 1.0
// @description Shared trip expenses and settlement of who owes whom.
// @BasePath /api/v1
func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	zerolog.SetGlobalLevel(parseLogLevel(cfg.LogLevel))

	// Connect to database
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	// Verify database connection
	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Connected to database")

	if cfg.RunMigrations {
		if err := postgres.RunMigrations(pool); err != nil {
			log.Fatal().Err(err).Msg("Failed to run migrations")
		}
	}

	// Initialize repositories
	tripRepo := postgres.NewTripRepository(pool)
	memberRepo := postgres.NewMemberRepository(pool)
	expenseRepo := postgres.NewExpenseRepository(pool)

	// Receipt storage is optional
	var objectStorage storage.ObjectStorage
	if cfg.S3.Enabled() {
		s3Storage, err := storage.NewS3Storage(context.Background(), cfg.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize receipt storage")
		}
		objectStorage = s3Storage
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("Receipt storage enabled")
	} else {
		log.Warn().Msg("S3_BUCKET not set, receipt uploads disabled")
	}

	// Realtime hub
	hub := websocket.NewHub(tripRepo)

	// Metrics
	appMetrics := metrics.New()
	appMetrics.RegisterGauge("tripsplit_websocket_clients", "Websocket clients watching at least one trip", func() float64 {
		return float64(hub.TotalClientCount())
	})
	appMetrics.RegisterGauge("tripsplit_websocket_watched_trips", "Trips with at least one websocket watcher", func() float64 {
		return float64(hub.WatchedTripCount())
	})

	// Initialize services
	tripService := service.NewTripService(tripRepo, memberRepo, expenseRepo)
	tripService.SetEventPublisher(hub)
	expenseService := service.NewExpenseService(tripRepo, memberRepo, expenseRepo)
	expenseService.SetEventPublisher(hub)
	receiptService := service.NewReceiptService(expenseRepo, objectStorage)
	receiptService.SetEventPublisher(hub)
	settlementService := service.NewSettlementService(tripRepo, expenseRepo, cfg.SettlementStrict)
	settlementService.SetMetrics(appMetrics)

	// Initialize handlers
	tripHandler := handler.NewTripHandler(tripService)
	expenseHandler := handler.NewExpenseHandler(expenseService)
	receiptHandler := handler.NewReceiptHandler(receiptService)
	settlementHandler := handler.NewSettlementHandler(settlementService)
	wsHandler := handler.NewWebSocketHandler(hub, tripRepo, cfg.CORSOrigins)

	rateLimiter := middleware.NewRateLimiterWithConfig(cfg.RateLimitPerMinute, cfg.RateLimitBurst)
	defer rateLimiter.Stop()

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		HSTSMaxAge:         31536000,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Request metrics
	e.Use(appMetrics.Middleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		if err := pool.Ping(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "degraded", "database": "unreachable"})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	e.GET("/metrics", echo.WrapHandler(appMetrics.Handler()))

	// API docs
	e.GET("/swagger/openapi3.json", handler.OpenAPI3Handler([]handler.Server{
		{URL: "/api/v1", Description: "This server"},
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// WebSocket endpoint
	e.GET("/ws", wsHandler.HandleWS)

	// Register API routes
	handler.RegisterRoutes(e, rateLimiter, tripHandler, expenseHandler, receiptHandler, settlementHandler)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Bool("strict_settlement", cfg.SettlementStrict).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// parseLogLevel maps LOG_LEVEL to a zerolog level, defaulting to info
func parseLogLevel(level string) zerolog.Level {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		log.Warn().Str("level", level).Msg("Unknown LOG_LEVEL, using info")
		return zerolog.InfoLevel
	}
	return parsed
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			event := log.Info()
			if res.Status >= http.StatusInternalServerError {
				event = log.Error()
			}
			event.
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}
