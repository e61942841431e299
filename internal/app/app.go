package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "jobalert_backend/docs"
	"jobalert_backend/internal/auth"
	"jobalert_backend/internal/cache"
	"jobalert_backend/internal/config"
	"jobalert_backend/internal/database"
	"jobalert_backend/internal/email"
	"jobalert_backend/internal/handlers"
	"jobalert_backend/internal/logger"
	"jobalert_backend/internal/metrics"
	"jobalert_backend/internal/middleware"
	"jobalert_backend/internal/repositories"
	"jobalert_backend/internal/routes"
	"jobalert_backend/internal/services"
	"jobalert_backend/internal/sms"
	"jobalert_backend/internal/validator"
	"jobalert_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	shutdownTimeout = 30 * time.Second
	cacheKeyPrefix  = "jobalert:"
)

// Deps - внешние зависимости приложения. Тесты подставляют дублеры.
type Deps struct {
	Mailer  email.Sender
	SMS     sms.Sender
	Redis   *redis.Client
	Metrics *metrics.Metrics
	// OTP и Now нужны тестам, в проде nil
	OTP auth.OTPGenerator
	Now func() time.Time
}

func Run() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", "error", err)
	}
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)
	apperrors.SetDebug(cfg.IsDevelopment())
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Info("Connecting to database...")
	gormDB, err := database.Open(cfg.Database.DSN, cfg.IsDevelopment())
	if err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Failed to migrate database", "error", err)
	}
	logger.Info("Database connected")

	if err := database.SeedFirstAdmin(gormDB, cfg.FirstAdminEmail, cfg.FirstAdminPassword); err != nil {
		// Без админа сервер не запускаем
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	redisClient, err := cache.Connect(context.Background(), cfg.Redis.URL)
	if err != nil {
		// Кэш необязателен, работаем напрямую с базой
		logger.Warn("Redis unavailable, job cache disabled", "error", err.Error())
		redisClient = nil
	}

	mailer, err := newMailer(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize mailer", "error", err)
	}

	ginRouter := SetupRouter(cfg, gormDB, Deps{
		Mailer: mailer,
		SMS: sms.New(sms.Config{
			AccountSID:  cfg.SMS.AccountSID,
			AuthToken:   cfg.SMS.AuthToken,
			PhoneNumber: cfg.SMS.PhoneNumber,
		}),
		Redis:   redisClient,
		Metrics: metrics.New(),
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           ginRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		if redisClient != nil {
			_ = redisClient.Close()
		}
		if sqlDB, err := gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()

	logger.Info("Server starting", "addr", cfg.Addr())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("Server startup error", "error", err)
	}
	logger.Info("Server stopped")
}

// SetupRouter собирает репозитории, сервисы, хэндлеры и маршруты
func SetupRouter(cfg *config.Config, gormDB *gorm.DB, deps Deps) *gin.Engine {
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}

	jobCache := cache.New(deps.Redis, cacheKeyPrefix, time.Duration(cfg.Redis.CacheTTL)*time.Second)

	// 1. Сервисы
	serviceContainer := initializeServices(cfg, deps, jobCache)

	// 2. Хэндлеры
	appHandlers := initializeHandlers(serviceContainer, jobCache)

	// 3. Gin
	ginRouter := initializeGinRouter(cfg, gormDB, deps.Metrics)

	// 4. Маршруты
	guard := middleware.NewGuard(serviceContainer.AuthService)
	routes.RegisterRoutes(ginRouter, appHandlers, guard, deps.Metrics, cfg.Server.APIPrefix)

	return ginRouter
}

func initializeServices(cfg *config.Config, deps Deps, jobCache *cache.Cache) *services.ServiceContainer {
	if deps.Mailer == nil {
		logger.Warn("Mailer is not configured, emails will only be logged")
		deps.Mailer = email.NewMailer(email.LogTransport{}, mustTemplates(), cfg.Server.FrontendURL)
	}
	if deps.SMS == nil {
		deps.SMS = sms.Disabled{}
	}

	// --- Репозитории ---
	userRepo := repositories.NewUserRepository()
	jobRepo := repositories.NewJobRepository()
	profileRepo := repositories.NewProfileRepository()
	applicationRepo := repositories.NewApplicationRepository()
	notificationRepo := repositories.NewNotificationRepository()
	companyRepo := repositories.NewCompanyRepository()
	alertRepo := repositories.NewJobAlertRepository()

	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.AccessTokenTTL())

	// --- Сервисы ---
	notificationService := services.NewNotificationService(notificationRepo, userRepo, deps.Metrics)
	authService := services.NewAuthService(userRepo, tokens, deps.Mailer, deps.SMS, deps.Metrics, services.AuthOptions{
		OTP:             deps.OTP,
		Now:             deps.Now,
		ExposeOTPInline: cfg.IsDevelopment() || cfg.Server.Env == "test",
	})
	jobService := services.NewJobService(jobRepo, notificationService, jobCache)

	return &services.ServiceContainer{
		AuthService:         authService,
		UserService:         services.NewUserService(userRepo),
		ProfileService:      services.NewProfileService(profileRepo, userRepo, notificationService),
		JobService:          jobService,
		ApplicationService:  services.NewApplicationService(applicationRepo, jobRepo, profileRepo, notificationService, deps.Metrics),
		NotificationService: notificationService,
		CompanyService:      services.NewCompanyService(companyRepo),
		JobAlertService:     services.NewJobAlertService(alertRepo, jobService),
	}
}

func initializeHandlers(services *services.ServiceContainer, jobCache *cache.Cache) *handlers.AppHandlers {
	baseHandler := handlers.NewBaseHandler(validator.New())

	return &handlers.AppHandlers{
		SystemHandler:       handlers.NewSystemHandler(baseHandler, jobCache),
		AuthHandler:         handlers.NewAuthHandler(baseHandler, services.AuthService),
		JobHandler:          handlers.NewJobHandler(baseHandler, services.JobService),
		ApplicationHandler:  handlers.NewApplicationHandler(baseHandler, services.ApplicationService),
		NotificationHandler: handlers.NewNotificationHandler(baseHandler, services.NotificationService),
		UserHandler:         handlers.NewUserHandler(baseHandler, services.UserService),
		ProfileHandler:      handlers.NewProfileHandler(baseHandler, services.ProfileService, services.UserService),
		CompanyHandler:      handlers.NewCompanyHandler(baseHandler, services.CompanyService),
		JobAlertHandler:     handlers.NewJobAlertHandler(baseHandler, services.JobAlertService),
	}
}

func initializeGinRouter(cfg *config.Config, db *gorm.DB, m *metrics.Metrics) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.Server.CORSOrigins))
	router.Use(m.Middleware())
	router.Use(middleware.DBMiddleware(db))
	return router
}
