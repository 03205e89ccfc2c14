package v1

import (
	"time"

	"employee-onboarding-backend/config"
	"employee-onboarding-backend/internal/delivery/http/middleware"
	"employee-onboarding-backend/internal/domain"
	"employee-onboarding-backend/internal/usecase"
	"employee-onboarding-backend/pkg/security"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	AuthUC         domain.AuthUsecase
	ProfileUC      domain.ProfileUsecase
	ApplicationUC  domain.ApplicationUsecase
	DocumentUC     domain.DocumentUsecase
	AdminUC        domain.AdminUsecase
	ReportUC       domain.ReportUsecase
	NotificationUC domain.NotificationUsecase
	HealthUC       usecase.HealthUsecase
	Verifier       middleware.TokenVerifier
	SecLog         *security.SecurityLogger
	RateLimiter    *middleware.RateLimiter
	UploadLimiter  *security.UploadLimiter
	Config         *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware([]string{deps.Config.FrontendURL}, deps.Config.IsProduction())) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware(deps.Config.SupabaseUrl))
	window := time.Duration(deps.Config.RateLimitWindowSeconds) * time.Second
	r.Use(deps.RateLimiter.Middleware(middleware.DefaultRateLimitConfig(deps.Config.RateLimitGlobalThreshold, window)))
	r.Use(middleware.ErrorHandler())

	v1 := r.Group("/v1")

	NewHealthHandler(v1, deps.HealthUC)

	// Swagger
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Verifier, deps.AuthUC, deps.SecLog))

	admin := protected.Group("/admin")
	admin.Use(middleware.RequireAdmin(deps.SecLog))
	adminMutate := deps.RateLimiter.Middleware(middleware.AdminRateLimitConfig())
	{
		NewAuthHandler(protected, admin, deps.AuthUC, deps.ProfileUC)
		NewApplicationHandler(protected, deps.ApplicationUC, deps.DocumentUC, middleware.UploadLimit(deps.UploadLimiter, deps.SecLog))
		NewNotificationHandler(protected, deps.NotificationUC)
		NewAdminHandler(admin, deps.AdminUC, deps.DocumentUC, deps.ReportUC, adminMutate)
	}

	return r
}
