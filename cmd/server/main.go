package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/archstack/fieldreport/configs"
	"github.com/archstack/fieldreport/internal/application/services"
	"github.com/archstack/fieldreport/internal/core/ports"
	"github.com/archstack/fieldreport/internal/infrastructure/ai"
	"github.com/archstack/fieldreport/internal/infrastructure/db"
	"github.com/archstack/fieldreport/internal/infrastructure/email"
	"github.com/archstack/fieldreport/internal/infrastructure/health"
	"github.com/archstack/fieldreport/internal/infrastructure/httpserver"
	"github.com/archstack/fieldreport/internal/infrastructure/redis"
	"github.com/archstack/fieldreport/internal/infrastructure/repositories"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Setup logger
	logger := logrus.New()
	if cfg.Log.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(level)
	}

	logger.Info("Starting field report service...")

	// Initialize database (apply pool settings from config)
	database, err := db.NewDatabase(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database:", err)
	}
	defer database.Close()

	logger.Info("Connected to database successfully")

	// Initialize Redis client
	redisClient, err := redis.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis:", err)
	}
	defer redisClient.Close()

	logger.Info("Connected to Redis successfully")

	// Run migrations
	if err := database.Migrate("./migrations"); err != nil {
		logger.Warn("Failed to run migrations:", err)
	}

	// Rate limit counters: in-process by default, Redis when the service
	// runs with more than one replica.
	var rateLimitRepo ports.RateLimitRepository
	switch cfg.RateLimit.Backend {
	case "redis":
		rateLimitRepo = repositories.NewRateLimitRedisRepository(redisClient, cfg.RateLimit.KeyPrefix)
		logger.Info("Rate limiting backed by Redis")
	default:
		memRepo := repositories.NewRateLimitMemoryRepository(5 * time.Minute)
		defer memRepo.Close()
		rateLimitRepo = memRepo
		logger.Info("Rate limiting backed by in-process memory")
	}

	tokenRepo := repositories.NewTokenRedisRepository(redisClient, logger)
	redisCache := redis.NewRedisCache(redisClient, "fieldreport")

	// Initialize all db repository implementations
	userRepo := repositories.NewUserRepository(database, logger)
	baseProjectRepo := repositories.NewProjectRepository(database, logger)
	callRepo := repositories.NewCallRepository(database, logger)
	baseTemplateRepo := repositories.NewTemplateRepository(database, logger)
	creditLedger := repositories.NewCreditRepository(database, logger)
	usageRepo := repositories.NewUsageRepository(database, logger)

	// Decorate read-heavy entities with caching (choose TTLs)
	projectRepo := repositories.NewCachingProjectRepository(baseProjectRepo, redisCache, 3*time.Minute)
	templateRepo := repositories.NewCachingTemplateRepository(baseTemplateRepo, redisCache, 10*time.Minute)

	emailService := email.NewSendGridEmailService(&cfg.Email, logger)
	aiClient := ai.NewClient(&cfg.AI, logger)

	// Wire services with their repository dependencies
	creditService := services.NewCreditService(creditLedger, usageRepo, cfg.Credits.SignupGrant, logger)
	userService := services.NewUserService(userRepo, logger)
	authService := services.NewAuthService(userRepo, tokenRepo, creditService, &cfg.JWT, logger)
	projectService := services.NewProjectService(projectRepo, logger)
	callService := services.NewCallService(callRepo, projectRepo, logger)
	templateService := services.NewTemplateService(templateRepo, logger)
	reportService := services.NewReportService(aiClient, callRepo, projectRepo, templateRepo, logger)

	rateLimiterConfig := &services.RateLimiterConfig{
		MaxRequests: cfg.RateLimit.MaxRequests,
		Window:      cfg.RateLimit.Window,
	}
	rateLimiterService := services.NewRateLimiterService(rateLimitRepo, rateLimiterConfig, logger)

	hcSlice := []ports.HealthChecker{health.NewDBHealthChecker(database), health.NewRedisHealthChecker(redisClient)}

	// Create server configuration
	serverConfig := &httpserver.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		TLSCertFile:  cfg.Server.TLSCertFile,
		TLSKeyFile:   cfg.Server.TLSKeyFile,
		Environment:  cfg.Server.Environment,
	}

	costs := httpserver.CreditCosts{
		Transcription: cfg.Credits.TranscriptionCost,
		Report:        cfg.Credits.ReportCost,
		Refine:        cfg.Credits.RefineCost,
		Template:      cfg.Credits.TemplateCost,
	}

	deps := httpserver.ServerDeps{
		UserService:        userService,
		AuthService:        authService,
		ProjectService:     projectService,
		CallService:        callService,
		TemplateService:    templateService,
		CreditService:      creditService,
		ReportService:      reportService,
		RateLimiterService: rateLimiterService,
		EmailService:       emailService,
		HealthCheckers:     hcSlice,
	}

	server := httpserver.NewServer(serverConfig, costs, logger, deps)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("Failed to start server:", err)
		}
	}()

	logger.Infof("Server started on %s:%s", cfg.Server.Host, cfg.Server.Port)

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown:", err)
	}

	logger.Info("Server exited")
}
