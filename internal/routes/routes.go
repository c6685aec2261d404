package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"approval-system/internal/controllers"
	"approval-system/internal/listeners"
	"approval-system/internal/repositories"
	"approval-system/internal/services"
	"approval-system/pkg/config"
	"approval-system/pkg/eventbus"
	"approval-system/pkg/middleware"
	"approval-system/pkg/service"
	"approval-system/pkg/websocket"
)

// InitRouter собирает весь граф зависимостей и вешает маршруты.
// Возвращает монитор эскалаций: его расписание запускает main.
func InitRouter(
	e *echo.Echo,
	dbConn *pgxpool.Pool,
	redisClient *redis.Client,
	jwtSvc service.JWTService,
	hub *websocket.Hub,
	bus *eventbus.Bus,
	logger *zap.Logger,
	cfg *config.Config,
) *services.EscalationService {
	logger.Info("InitRouter: Начало создания маршрутов")

	api := e.Group("/api")

	// --- 1. РЕПОЗИТОРИИ ---
	txManager := repositories.NewTxManager(dbConn)
	userRepo := repositories.NewUserRepository(dbConn)
	flowRepo := repositories.NewApprovalFlowRepository(dbConn)
	stageRepo := repositories.NewApprovalStageRepository(dbConn)
	orderRepo := repositories.NewOrderRepository(dbConn)
	historyRepo := repositories.NewApprovalHistoryRepository(dbConn)
	reportRepo := repositories.NewReportRepository(dbConn)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)

	// --- 2. СЕРВИСЫ ---
	authPermissionService := services.NewAuthPermissionService(userRepo, cacheRepo, logger)
	authService := services.NewAuthService(userRepo, jwtSvc, logger)
	emailSender := services.NewLogEmailSender(logger)
	notificationService := services.NewNotificationService(userRepo, emailSender, hub, cfg.Approval, logger)
	confirmationService := services.NewConfirmationService(orderRepo, logger)
	approvalService := services.NewApprovalService(
		txManager, orderRepo, flowRepo, historyRepo, userRepo,
		notificationService, confirmationService, bus, cfg.Approval, logger,
	)
	flowService := services.NewApprovalFlowService(flowRepo, stageRepo, logger)
	orderService := services.NewOrderService(orderRepo, stageRepo, logger)
	historyService := services.NewApprovalHistoryService(historyRepo, orderRepo)
	reportService := services.NewReportService(reportRepo, logger)
	escalationService := services.NewEscalationService(orderRepo, flowRepo, notificationService, cfg.Approval, logger)

	// --- 3. СЛУШАТЕЛИ СОБЫТИЙ ---
	notificationListener := listeners.NewNotificationListener(hub, logger)
	notificationListener.Register(bus)

	// --- 4. КОНТРОЛЛЕРЫ ---
	authController := controllers.NewAuthController(authService, logger)
	flowController := controllers.NewApprovalFlowController(flowService, logger)
	orderController := controllers.NewOrderController(orderService, approvalService, historyService, logger)
	reportController := controllers.NewReportController(reportService, logger)
	wsController := controllers.NewWebSocketController(hub, jwtSvc, logger)

	// --- 5. РОУТЕРЫ ---
	authMW := middleware.NewAuthMiddleware(jwtSvc, authPermissionService, logger)
	secureGroup := api.Group("", authMW.Auth)

	runAuthRouter(api, authController)
	runApprovalFlowRouter(secureGroup, flowController)
	runOrderRouter(secureGroup, orderController)
	runReportRouter(secureGroup, reportController)

	e.GET("/ws", wsController.ServeWs)

	logger.Info("InitRouter: Создание маршрутов завершено")
	return escalationService
}
