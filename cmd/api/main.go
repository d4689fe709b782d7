package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/yourusername/easynatorics-api/internal/config"
	"github.com/yourusername/easynatorics-api/internal/content"
	"github.com/yourusername/easynatorics-api/internal/domain/repository"
	"github.com/yourusername/easynatorics-api/internal/handler"
	"github.com/yourusername/easynatorics-api/internal/middleware"
	"github.com/yourusername/easynatorics-api/internal/pkg/logger"
	"github.com/yourusername/easynatorics-api/internal/repository/filestore"
	"github.com/yourusername/easynatorics-api/internal/repository/memory"
	pgRepo "github.com/yourusername/easynatorics-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/easynatorics-api/internal/repository/redis"
	"github.com/yourusername/easynatorics-api/internal/service"
	"github.com/yourusername/easynatorics-api/internal/service/progress"
	"github.com/yourusername/easynatorics-api/internal/service/tutor"
	"github.com/yourusername/easynatorics-api/pkg/auth"
	"github.com/yourusername/easynatorics-api/pkg/database"
	"gorm.io/gorm"
)

func main() {
	// .env необязателен: в production переменные задаются окружением
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to load .env: %v", err)
	}

	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	appLogger, err := logger.New(cfg.Logging.Mode)
	if err != nil {
		log.Printf("Failed to initialize logger: %v", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Хранилище участников: JSON-файлы в каталоге данных
	participantRepo, err := filestore.NewParticipantRepo(cfg.Storage.DataDir, appLogger)
	if err != nil {
		appLogger.Fatal("[Main] Failed to initialize participant store", "data_dir", cfg.Storage.DataDir, "error", err)
	}

	// Журнал попыток в PostgreSQL (необязателен)
	var db *gorm.DB
	var eventRepo repository.AttemptEventRepository = pgRepo.NoOpAttemptEventRepo{}
	if cfg.Database.Enabled {
		db, err = database.NewPostgresDB(cfg.Database.PostgresConnectionString())
		if err != nil {
			appLogger.Fatal("[Main] Failed to connect to database", "error", err)
		}
		if err := database.MigrateDB(db, database.DefaultMigrationsSource, appLogger); err != nil {
			appLogger.Fatal("[Main] Failed to migrate database", "error", err)
		}
		eventRepo = pgRepo.NewAttemptEventRepo(db)
		appLogger.Info("[Main] Attempt telemetry enabled (PostgreSQL)")
	} else {
		appLogger.Info("[Main] Database disabled, attempt telemetry is not persisted")
	}

	// Redis: сессии, кеш объяснений и rate limiting (необязателен)
	var redisClient redis.UniversalClient
	var cacheRepo repository.CacheRepository
	var sessionRepo repository.SessionRepository
	var scheduler *gocron.Scheduler
	if cfg.Redis.Enabled() {
		redisClient, err = database.NewUniversalRedisClient(ctx, cfg.Redis)
		if err != nil {
			appLogger.Fatal("[Main] Failed to connect to Redis", "error", err)
		}
		cache, err := redisRepo.NewCacheRepo(redisClient, redisRepo.DefaultKeyPrefix)
		if err != nil {
			appLogger.Fatal("[Main] Failed to initialize CacheRepo", "error", err)
		}
		cacheRepo = cache
		sessionRepo = redisRepo.NewSessionRepo(cache)
		appLogger.Info("[Main] Successfully connected to Redis", "mode", cfg.Redis.Mode)
	} else {
		memSessions := memory.NewSessionRepo(appLogger)
		sessionRepo = memSessions

		// Redis сам удаляет истёкшие ключи, в памяти это делает планировщик
		scheduler = gocron.NewScheduler(time.UTC)
		interval := cfg.Session.SweepIntervalSec
		if interval <= 0 {
			interval = 300
		}
		if _, err := scheduler.Every(interval).Seconds().Do(memSessions.Sweep); err != nil {
			appLogger.Fatal("[Main] Failed to schedule session sweeper", "error", err)
		}
		scheduler.StartAsync()
		appLogger.Info("[Main] Redis disabled, using in-memory sessions", "sweep_interval_sec", interval)
	}

	// Контент и AI-тьютор
	bank := content.NewBank()
	var provider tutor.Provider
	if cfg.AI.APIKey != "" {
		openRouter, err := tutor.NewOpenRouterProvider(tutor.OpenRouterConfig{
			APIKey:  cfg.AI.APIKey,
			BaseURL: cfg.AI.BaseURL,
			Model:   cfg.AI.Model,
			Referer: cfg.AI.Referer,
			Title:   cfg.AI.Title,
		})
		if err != nil {
			appLogger.Fatal("[Main] Failed to initialize OpenRouter provider", "error", err)
		}
		provider = openRouter
		appLogger.Info("[Main] AI tutor enabled", "model", openRouter.ModelID())
	} else {
		appLogger.Warn("[Main] AI API key is not set, running in demo mode")
	}
	tutorService := tutor.NewService(provider, bank, cacheRepo, tutor.Config{
		Timeout:  cfg.AI.Timeout(),
		CacheTTL: time.Duration(cfg.AI.CacheTTLMinutes) * time.Minute,
	}, appLogger)

	// Доступ исследователя
	jwtSecret := cfg.Researcher.JWTSecret
	if cfg.Researcher.PasswordHash == "" {
		// Вход отключён; секрет нужен только для валидации (которая всегда завершится ошибкой)
		jwtSecret = uuid.NewString() + uuid.NewString()
		appLogger.Warn("[Main] Researcher password hash is not set, researcher access disabled")
	}
	jwtService, err := auth.NewJWTService(jwtSecret, time.Duration(cfg.Researcher.TokenTTLHours)*time.Hour)
	if err != nil {
		appLogger.Fatal("[Main] Failed to initialize JWTService", "error", err)
	}

	// Сервисы
	tracker := progress.NewTracker(progress.DefaultLevelConfig())
	participantService := service.NewParticipantService(participantRepo, eventRepo, tracker, bank, appLogger)
	sessionService := service.NewSessionService(sessionRepo, participantRepo, cfg.Session.TTL(), appLogger)
	learningService := service.NewLearningService(participantService, sessionService, tutorService, bank, tracker, appLogger)
	researchService := service.NewResearchService(participantRepo, appLogger)
	researcherAuth, err := service.NewResearcherAuthService(cfg.Researcher.PasswordHash, jwtService, appLogger)
	if err != nil {
		appLogger.Fatal("[Main] Failed to initialize researcher auth", "error", err)
	}

	isProduction := gin.Mode() == gin.ReleaseMode

	router := &handler.Router{
		Participants:   handler.NewParticipantHandler(participantService, sessionService, appLogger),
		Instruments:    handler.NewInstrumentHandler(bank),
		Learning:       handler.NewLearningHandler(learningService, tutorService.DemoMode(), appLogger),
		Research:       handler.NewResearchHandler(researchService, researcherAuth, participantService, appLogger),
		Auth:           middleware.NewAuthMiddleware(sessionService, researcherAuth, appLogger),
		RateLimiter:    middleware.NewRateLimiter(redisClient, appLogger),
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Production:     isProduction,
	}

	// Настраиваем HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router.Engine(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		appLogger.Info("[Main] Starting server", "port", cfg.Server.Port, "demo_mode", tutorService.DemoMode())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("[Main] Failed to start server", "error", err)
			cancel()
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-ctx.Done():
	}
	appLogger.Info("[Main] Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("[Main] Server forced to shutdown", "error", err)
	}

	if scheduler != nil {
		scheduler.Stop()
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			appLogger.Warn("[Main] Error closing Redis client", "error", err)
		}
	}
	if db != nil {
		if err := database.Close(db); err != nil {
			appLogger.Warn("[Main] Error closing database", "error", err)
		}
	}

	appLogger.Info("[Main] Server exited properly")
}
