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

	"employee-onboarding-backend/config"
	_ "employee-onboarding-backend/docs" // Important for Swagger
	"employee-onboarding-backend/internal/delivery/http/middleware"
	v1 "employee-onboarding-backend/internal/delivery/http/v1"
	"employee-onboarding-backend/internal/repository/postgres"
	"employee-onboarding-backend/internal/usecase"
	"employee-onboarding-backend/pkg/auth"
	"employee-onboarding-backend/pkg/database"
	"employee-onboarding-backend/pkg/email"
	"employee-onboarding-backend/pkg/logger"
	"employee-onboarding-backend/pkg/redis"
	"employee-onboarding-backend/pkg/security"
	"employee-onboarding-backend/pkg/security/antivirus"
	"employee-onboarding-backend/pkg/storage"
	"employee-onboarding-backend/pkg/validation"

	goredis "github.com/redis/go-redis/v9"
)

// @title           Employee Onboarding API
// @version         1.0
// @description     Candidate applications, document verification and admin review.
// @host            localhost:8080
// @BasePath        /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init(cfg.Env)
	logger.Log.Info("Starting onboarding backend", "port", cfg.Port, "env", cfg.Env)

	ctx := context.Background()

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// 4. Setup Redis (optional)
	var redisClient *goredis.Client
	redisClient, err = redis.Connect(ctx, redis.Config{URL: cfg.UpstashRedisURL, Password: cfg.UpstashRedisPassword})
	switch {
	case errors.Is(err, redis.ErrNotConfigured):
		logger.Log.Warn("Redis not configured, rate limiting uses in-memory fallback")
	case err != nil:
		logger.Log.Error("Redis unavailable, continuing without it", "error", err)
		redisClient = nil
	default:
		defer redisClient.Close()
	}

	// 5. Setup object storage, scanner and email
	files, err := storage.New(ctx, cfg)
	if err != nil {
		logger.Log.Error("Failed to initialise storage", "provider", cfg.StorageProvider, "error", err)
		os.Exit(1)
	}
	scanner := antivirus.New(cfg.ClamAVAddress)
	logger.Log.Info("Upload scanner ready", "scanner", scanner.Name())

	emailService := email.NewEmailService(cfg)
	if !emailService.IsConfigured() {
		logger.Log.Warn("Email service not fully configured - status emails will be skipped")
	}

	secLog := security.NewSecurityLogger("onboarding-api", cfg.Env)
	defer secLog.Sync()

	// 6. Setup Repositories
	profileRepo := postgres.NewProfileRepository(dbPool)
	applicationRepo := postgres.NewApplicationRepository(dbPool)
	documentRepo := postgres.NewDocumentRepository(dbPool)
	activityRepo := postgres.NewActivityRepository(dbPool)
	auditRepo := postgres.NewAuditRepository(dbPool)
	notificationRepo := postgres.NewNotificationRepository(dbPool)

	// 7. Setup UseCases
	validate := validation.New()
	settings := usecase.StorageSettings{
		DocumentsBucket: cfg.DocumentsBucket,
		PhotosBucket:    cfg.PhotosBucket,
		SignedURLTTL:    time.Duration(cfg.SignedURLTTLSeconds) * time.Second,
	}
	requiredTypes := cfg.DocumentTypes()

	authUC := usecase.NewAuthUsecase(profileRepo, secLog)
	profileUC := usecase.NewProfileUsecase(profileRepo, files, settings, validate, secLog)
	applicationUC := usecase.NewApplicationUsecase(applicationRepo, documentRepo, activityRepo, auditRepo, validate, secLog)
	documentUC := usecase.NewDocumentUsecase(documentRepo, applicationRepo, files, scanner, settings, requiredTypes, secLog)
	adminUC := usecase.NewAdminUsecase(applicationRepo, documentRepo, auditRepo, files, emailService, settings, cfg.FrontendURL, secLog)
	reportUC := usecase.NewReportUsecase(applicationRepo, documentRepo)
	notificationUC := usecase.NewNotificationUsecase(notificationRepo)

	healthDeps := map[string]usecase.Pinger{
		"database": usecase.PingFunc(dbPool.Ping),
		"redis":    nil,
	}
	if redisClient != nil {
		healthDeps["redis"] = usecase.PingFunc(func(ctx context.Context) error {
			return redis.HealthCheck(ctx, redisClient)
		})
	}
	healthUC := usecase.NewHealthUsecase(healthDeps)

	// 8. Setup Auth (HS256 secret plus JWKS for asymmetric keys)
	jwksProvider := auth.NewProvider(cfg.SupabaseUrl + auth.JWKSPath)
	verifier := auth.NewVerifier(cfg.SupabaseJWTSecret, jwksProvider)

	// 9. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:         authUC,
		ProfileUC:      profileUC,
		ApplicationUC:  applicationUC,
		DocumentUC:     documentUC,
		AdminUC:        adminUC,
		ReportUC:       reportUC,
		NotificationUC: notificationUC,
		HealthUC:       healthUC,
		Verifier:       verifier,
		SecLog:         secLog,
		RateLimiter:    middleware.NewRateLimiter(redisClient, secLog),
		UploadLimiter:  security.NewUploadLimiter(redisClient, cfg.UploadLimitPerMinute, cfg.UploadLimitPerDay),
		Config:         cfg,
	})

	// 10. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
