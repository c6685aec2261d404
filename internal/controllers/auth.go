package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"approval-system/internal/dto"
	"approval-system/internal/services"
	"approval-system/pkg/utils"
)

type AuthController struct {
	authService services.AuthServiceInterface
	logger      *zap.Logger
}

func NewAuthController(authService services.AuthServiceInterface, logger *zap.Logger) *AuthController {
	return &AuthController{authService: authService, logger: logger}
}

func (c *AuthController) Login(ctx echo.Context) error {
	var payload dto.LoginDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "некорректное тело запроса"))
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	tokens, err := c.authService.Login(ctx.Request().Context(), payload)
	if err != nil {
		c.logger.Warn("неудачная попытка входа", zap.String("email", payload.Email), zap.Error(err))
		return utils.ErrorResponse(ctx, err)
	}

	return utils.SuccessResponse(ctx, tokens, "Successfully", http.StatusOK)
}

func (c *AuthController) Refresh(ctx echo.Context) error {
	var payload struct {
		RefreshToken string `json:"refresh_token" validate:"required"`
	}
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "некорректное тело запроса"))
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	tokens, err := c.authService.Refresh(ctx.Request().Context(), payload.RefreshToken)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	return utils.SuccessResponse(ctx, tokens, "Successfully", http.StatusOK)
}
