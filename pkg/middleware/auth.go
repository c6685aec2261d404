package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"approval-system/pkg/contextkeys"
	apperrors "approval-system/pkg/errors"
	"approval-system/pkg/service"
	"approval-system/pkg/utils"
)

// RoleProvider отдаёт коды ролей пользователя. Реализуется сервисом
// авторизации (с кешированием в Redis).
type RoleProvider interface {
	GetUserRoleCodes(ctx context.Context, userID uint64) ([]string, error)
}

type AuthMiddleware struct {
	jwtService   service.JWTService
	roleProvider RoleProvider
	logger       *zap.Logger
}

func NewAuthMiddleware(jwtSvc service.JWTService, roleProvider RoleProvider, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService:   jwtSvc,
		roleProvider: roleProvider,
		logger:       logger,
	}
}

// Auth - это основная функция middleware.
func (m *AuthMiddleware) Auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			m.logger.Warn("AuthMiddleware: Пустой заголовок Authorization")
			return utils.ErrorResponse(c, apperrors.ErrEmptyAuthHeader)
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			m.logger.Warn("AuthMiddleware: Неверный формат заголовка Authorization")
			return utils.ErrorResponse(c, apperrors.ErrInvalidAuthHeader)
		}

		claims, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			m.logger.Warn("AuthMiddleware: Ошибка валидации токена", zap.Error(err))
			return utils.ErrorResponse(c, err)
		}

		if claims.IsRefreshToken {
			m.logger.Warn("AuthMiddleware: Попытка доступа с refresh токеном")
			return utils.ErrorResponse(c, apperrors.ErrTokenIsNotAccess)
		}

		// Роли резолвим здесь, на вызывающем слое: ядро согласования
		// получает набор ролей актора явным параметром и само никогда
		// не лезет в сессию.
		roles, err := m.roleProvider.GetUserRoleCodes(c.Request().Context(), claims.UserID)
		if err != nil {
			m.logger.Error("AuthMiddleware: не удалось получить роли пользователя",
				zap.Uint64("userID", claims.UserID), zap.Error(err))
			return utils.ErrorResponse(c, apperrors.ErrForbidden)
		}

		ctx := c.Request().Context()
		ctx = context.WithValue(ctx, contextkeys.UserIDKey, claims.UserID)
		ctx = context.WithValue(ctx, contextkeys.UserRolesKey, roles)
		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}
