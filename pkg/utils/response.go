package utils

import (
	"errors"
	"fmt"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "approval-system/pkg/errors"
)

type HttpResponse struct {
	Status     bool        `json:"status"`
	Body       interface{} `json:"body,omitempty"`
	Message    string      `json:"message"`
	TotalCount *uint64     `json:"total_count,omitempty"`
}

func SuccessResponse(ctx echo.Context, body interface{}, message string, code int, totalCount ...uint64) error {
	response := &HttpResponse{
		Status:  true,
		Body:    body,
		Message: message,
	}
	if len(totalCount) > 0 {
		response.TotalCount = &totalCount[0]
	}
	return ctx.JSON(code, response)
}

func ErrorResponse(ctx echo.Context, err error, logger ...*zap.Logger) error {
	code := apperrors.HttpStatus(err)
	message := err.Error()

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		code = httpErr.Code
		message = fmt.Sprintf("%v", httpErr.Message)
	}

	if len(logger) > 0 && logger[0] != nil && code >= 500 {
		logger[0].Error("внутренняя ошибка при обработке запроса",
			zap.String("uri", ctx.Request().RequestURI),
			zap.Error(err),
		)
	}

	response := &HttpResponse{
		Status:  false,
		Body:    struct{}{},
		Message: message,
	}
	return ctx.JSON(code, response)
}
