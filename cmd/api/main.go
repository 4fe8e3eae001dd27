package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"trivia-gen/internal/adapter"
	"trivia-gen/internal/adapter/backend"
	"trivia-gen/internal/cache"
	"trivia-gen/internal/config"
	"trivia-gen/internal/domain"
	"trivia-gen/internal/handler"
	"trivia-gen/internal/logger"
	"trivia-gen/internal/middleware"
	"trivia-gen/internal/service"
	"trivia-gen/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// Backend client; the per-stage timeouts live in the controller
	backendClient, err := backend.NewClient(cfg.Backend.BaseURL, cfg.Generation.NumQuestions, &http.Client{}, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to create backend client", zap.Error(err))
	}
	appLogger.Info("Backend client initialized", zap.String("base_url", cfg.Backend.BaseURL))

	rootCtx, cancelRoot := context.WithCancel(context.Background())
	defer cancelRoot()

	// Question cache: Redis when configured, in-process otherwise
	var cacheAdapter domain.Cache
	if cfg.Redis.Address != "" {
		redisClient, err := cache.NewRedisClient(rootCtx, cfg.Redis)
		if err != nil {
			appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		appLogger.Info("Successfully connected to Redis", zap.String("address", cfg.Redis.Address))
		cacheAdapter = adapter.NewRedisCacheAdapter(redisClient)
	} else {
		appLogger.Info("Redis address not set, using in-memory question cache")
		cacheAdapter = adapter.NewMemoryCacheAdapter(10 * time.Minute)
	}

	// Generated questions are cached only when cache.questions_ttl > 0
	generator, err := service.WithQuestionCache(backendClient, cacheAdapter, cfg.Cache.QuestionsTTL, cfg.Generation.NumQuestions, cfg.Backend.GenerateTimeout, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to create question cache", zap.Error(err))
	}
	if cfg.Cache.QuestionsTTL > 0 {
		appLogger.Info("Question cache enabled", zap.Duration("ttl", cfg.Cache.QuestionsTTL))
	}

	// Initialize services
	opts := service.PipelineOptions{
		ExtractTimeout:  cfg.Backend.ExtractTimeout,
		GenerateTimeout: cfg.Backend.GenerateTimeout,
	}
	sessionService := service.NewSessionService(rootCtx, func() *service.PipelineController {
		return service.NewPipelineController(backendClient, generator, opts, appLogger)
	}, cfg.Session.TTL, appLogger)

	// Initialize handlers
	v := validation.NewValidator(int64(cfg.BodyLimitBytes()))
	sessionHandler := handler.NewSessionHandler(sessionService, v)
	healthHandler := handler.NewHealthHandler(backendClient, cacheAdapter, 3*time.Second)

	// The multipart envelope needs room on top of the file itself.
	bodyLimit := cfg.BodyLimitBytes() + 1024*1024
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
		BodyLimit:    bodyLimit,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(middleware.RequestID())
	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,PUT,DELETE,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept", MaxAge: 300}))
	app.Use(recover.New())

	handler.RegisterRoutes(app, sessionHandler, healthHandler, middleware.NewValidationMiddleware(v))

	// Start server
	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	cancelRoot()
	appLogger.Info("Server exited gracefully")
}
