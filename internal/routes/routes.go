package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"cmms-system/internal/controllers"
	"cmms-system/internal/repositories"
	"cmms-system/internal/services"
	"cmms-system/pkg/config"
	"cmms-system/pkg/eventbus"
	"cmms-system/pkg/mailer"
	"cmms-system/pkg/middleware"
	"cmms-system/pkg/service"
)

func InitRouter(
	e *echo.Echo,
	dbConn *pgxpool.Pool,
	redisClient *redis.Client,
	jwtSvc service.JWTService,
	bus *eventbus.Bus,
	mail mailer.Mailer,
	logger *zap.Logger,
	cfg *config.Config,
) {
	logger.Info("InitRouter: Начало создания маршрутов")

	// --- ОБЩИЕ КОМПОНЕНТЫ ---
	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(jwtSvc, logger)
	txManager := repositories.NewTxManager(dbConn)

	// --- РЕПОЗИТОРИИ ---
	userRepo := repositories.NewUserRepository(dbConn, logger)
	equipmentRepo := repositories.NewEquipmentRepository(dbConn, logger)
	maintenanceRepo := repositories.NewMaintenanceRepository(dbConn, logger)
	failureRepo := repositories.NewFailureRepository(dbConn, logger)
	dashboardRepo := repositories.NewDashboardRepository(dbConn, logger)
	reportRepo := repositories.NewReportRepository(dbConn, logger)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)

	// --- СЕРВИСЫ ---
	ruleEngine := services.NewRuleEngineService(logger)
	authService := services.NewAuthService(userRepo, cacheRepo, jwtSvc, logger, &cfg.Auth)
	userService := services.NewUserService(userRepo, logger)
	equipmentService := services.NewEquipmentService(equipmentRepo, maintenanceRepo, failureRepo, logger)
	maintenanceService := services.NewMaintenanceService(maintenanceRepo, equipmentRepo, ruleEngine, txManager, logger)
	failureService := services.NewFailureService(failureRepo, equipmentRepo, ruleEngine, txManager, bus, logger)
	notificationService := services.NewNotificationService(userRepo, failureRepo, maintenanceRepo, mail, logger)
	reminderService := services.NewReminderService(maintenanceRepo, equipmentRepo, cacheRepo, notificationService, &cfg.Reminder, logger)
	dashboardService := services.NewDashboardService(dashboardRepo, equipmentRepo, &cfg.Reminder, logger)
	reportService := services.NewReportService(reportRepo, logger)

	// Слушатели событий поднимаются вместе с роутером.
	notificationService.SubscribeToEvents(bus)

	// --- КОНТРОЛЛЕРЫ ---
	authController := controllers.NewAuthController(authService, logger)
	userController := controllers.NewUserController(userService, logger)
	equipmentController := controllers.NewEquipmentController(equipmentService, logger)
	maintenanceController := controllers.NewMaintenanceController(maintenanceService, logger)
	failureController := controllers.NewFailureController(failureService, logger)
	dashboardController := controllers.NewDashboardController(dashboardService, logger)
	reportController := controllers.NewReportController(reportService, logger)
	notificationController := controllers.NewNotificationController(reminderService, notificationService, logger)

	// --- РОУТЕРЫ ---
	secureGroup := api.Group("", authMW.Auth)

	runAuthRouter(api, secureGroup, authController)
	runUserRouter(secureGroup, userController, authMW)
	runEquipmentRouter(secureGroup, equipmentController, authMW)
	runMaintenanceRouter(secureGroup, maintenanceController)
	runFailureRouter(secureGroup, failureController)
	runReportRouter(secureGroup, dashboardController, reportController)
	runNotificationRouter(secureGroup, notificationController, authMW)

	logger.Info("InitRouter: Маршруты созданы")
}
