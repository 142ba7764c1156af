package app

import (
	"fmt"

	"eventhub_backend/database"
	"eventhub_backend/internal/config"
	"eventhub_backend/internal/email"
	"eventhub_backend/internal/handlers"
	"eventhub_backend/internal/logger"
	"eventhub_backend/internal/middleware"
	"eventhub_backend/internal/repositories"
	"eventhub_backend/internal/routes"
	"eventhub_backend/internal/services"
	"eventhub_backend/internal/validator"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	gormDB, err := database.ConnectGorm()
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Migration failed", "error", err)
	}

	// Startup sweep of stale sessions.
	if err := repositories.NewRefreshTokenRepository(gormDB).CleanExpired(); err != nil {
		logger.Warn("Failed to clean expired refresh tokens", "error", err)
	}

	ginRouter := SetupRouter(cfg, gormDB)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	serviceContainer := initializeServices(cfg, gormDB)
	appHandlers := initializeHandlers(serviceContainer)

	ginRouter := initializeGinRouter(cfg)
	routes.RegisterRoutes(ginRouter, appHandlers)

	return ginRouter
}

func initializeServices(cfg *config.Config, gormDB *gorm.DB) *services.ServiceContainer {
	emailService := email.NewProviderFromConfig(cfg)

	userRepo := repositories.NewUserRepository(gormDB)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(gormDB)
	eventRepo := repositories.NewEventRepository(gormDB)
	registrationRepo := repositories.NewRegistrationRepository(gormDB)
	notificationRepo := repositories.NewNotificationRepository(gormDB)

	authService := services.NewAuthService(userRepo, refreshTokenRepo, emailService)
	eventService := services.NewEventService(gormDB, eventRepo, registrationRepo, notificationRepo, userRepo)
	notificationService := services.NewNotificationService(notificationRepo, eventRepo)

	return &services.ServiceContainer{
		AuthService:         authService,
		EventService:        eventService,
		NotificationService: notificationService,
		EmailService:        emailService,
	}
}

func initializeHandlers(services *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		AuthHandler:         handlers.NewAuthHandler(baseHandler, services.AuthService),
		EventHandler:        handlers.NewEventHandler(baseHandler, services.EventService),
		NotificationHandler: handlers.NewNotificationHandler(baseHandler, services.NotificationService),
	}
}

func initializeGinRouter(cfg *config.Config) *gin.Engine {
	if cfg.Server.Env != "development" && cfg.Server.Env != "test" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	return router
}
