package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"quiztube/internal/adapter"
	"quiztube/internal/adapter/quizgen"
	"quiztube/internal/adapter/whisper"
	"quiztube/internal/adapter/ytdlp"
	"quiztube/internal/cache"
	"quiztube/internal/config"
	"quiztube/internal/database"
	"quiztube/internal/handler"
	"quiztube/internal/logger"
	"quiztube/internal/middleware"
	"quiztube/internal/pipeline"
	"quiztube/internal/repository"
	"quiztube/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// requestLogger logs every HTTP request with its outcome.
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)),
			zap.String("ip", c.IP()),
		)

		return err
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// Database
	db, err := database.NewSQLXPostgresDB(cfg.GetDSN())
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	appLogger.Info("Connected to database")

	// Redis (refresh token revocation)
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	appLogger.Info("Connected to Redis")
	tokenBlacklist := adapter.NewRedisTokenBlacklist(redisClient)

	// Repositories
	userRepository := repository.NewSQLXUserRepository(db)
	quizRepository := repository.NewQuizDatabaseAdapter(db)
	txManager := repository.NewTransactionManagerAdapter(db)

	// Pipeline collaborators
	ytdlpClient := ytdlp.New(cfg.Pipeline.YtdlpPath)
	whisperClient := whisper.New(cfg.Pipeline.WhisperPath, cfg.Pipeline.WhisperModel)
	geminiCompleter, err := quizgen.NewGeminiCompleter(context.Background(), cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		appLogger.Fatal("Failed to create Gemini completer", zap.Error(err))
	}
	quizPipeline := pipeline.New(ytdlpClient, ytdlpClient, whisperClient, geminiCompleter, cfg.Pipeline.WorkDir)
	appLogger.Info("Quiz pipeline initialized",
		zap.String("work_dir", cfg.Pipeline.WorkDir),
		zap.String("gemini_model", cfg.Gemini.Model))

	// Services
	authService, err := service.NewAuthService(userRepository, tokenBlacklist, cfg.Auth)
	if err != nil {
		appLogger.Fatal("Failed to create AuthService", zap.Error(err))
	}
	quizService := service.NewQuizService(quizRepository, txManager, quizPipeline, cfg.Pipeline.MaxConcurrency)

	// Handlers
	authHandler := handler.NewAuthHandler(authService, cfg)
	quizHandler := handler.NewQuizHandler(quizService)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  20 * time.Second,
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000",
		AllowMethods:     "GET,POST,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
		AllowCredentials: true,
		MaxAge:           300,
	}))
	app.Use(recover.New())

	apiGroup := app.Group("/api")

	authGroup := apiGroup.Group("/auth")
	authGroup.Post("/registration", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/token/refresh", authHandler.RefreshToken)
	authGroup.Post("/logout", middleware.Protected(authService), authHandler.Logout)

	quizGroup := apiGroup.Group("/quizzes", middleware.Protected(authService))
	quizGroup.Post("/", quizHandler.CreateQuiz)
	quizGroup.Get("/", quizHandler.GetQuizzes)
	quizGroup.Get("/:id", quizHandler.GetQuiz)
	quizGroup.Patch("/:id", quizHandler.PatchQuiz)
	quizGroup.Delete("/:id", quizHandler.DeleteQuiz)

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", os.Getenv("ENV")))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
