package main

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"approval-system/internal/routes"
	"approval-system/migrations"
	"approval-system/pkg/config"
	"approval-system/pkg/customvalidator"
	"approval-system/pkg/database/postgresql"
	"approval-system/pkg/eventbus"
	applogger "approval-system/pkg/logger"
	"approval-system/pkg/service"
	"approval-system/pkg/utils"
	"approval-system/pkg/websocket"
)

func main() {
	e := echo.New()
	logger := applogger.NewLogger()
	cfg := config.New()

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("!!! ОБНАРУЖЕНА ПАНИКА (PANIC) !!!",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				utils.ErrorResponse(c, echo.NewHTTPError(http.StatusInternalServerError, "Внутренняя ошибка сервера"), logger)
			}
			return err
		},
	}))

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		ExposeHeaders:    []string{"Content-Disposition"},
	}))

	v := validator.New()
	if err := customvalidator.RegisterCustomValidations(v); err != nil {
		logger.Fatal("Ошибка регистрации кастомных правил валидации", zap.Error(err))
	}
	e.Validator = utils.NewValidator(v)

	if err := migrations.Up(cfg.Postgres.DSN); err != nil {
		logger.Fatal("не удалось применить миграции", zap.Error(err))
	}

	dbConn := postgresql.ConnectDB(cfg.Postgres.DSN)
	defer dbConn.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logger.Fatal("не удалось подключиться к Redis", zap.Error(err), zap.String("address", cfg.Redis.Address))
	}

	jwtSvc := service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL, cfg.JWT.RefreshTokenTTL)

	hub := websocket.NewHub()
	go hub.Run()

	bus := eventbus.New(logger)

	escalationService := routes.InitRouter(e, dbConn, redisClient, jwtSvc, hub, bus, logger, cfg)

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.Approval.EscalationSchedule, func() {
		if err := escalationService.Scan(context.Background()); err != nil {
			logger.Error("сбой обхода монитора эскалаций", zap.Error(err))
		}
	}); err != nil {
		logger.Fatal("неверное cron-расписание монитора эскалаций",
			zap.String("schedule", cfg.Approval.EscalationSchedule), zap.Error(err))
	}
	scheduler.Start()
	defer scheduler.Stop()

	logger.Info("🚀 Сервер запущен", zap.String("port", cfg.Server.Port))
	if err := e.Start(":" + cfg.Server.Port); err != nil {
		logger.Fatal("Ошибка запуска сервера", zap.Error(err))
	}
}
