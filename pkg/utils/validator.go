package utils

import (
	"github.com/go-playground/validator/v10"

	apperrors "approval-system/pkg/errors"
)

// CustomValidator - обертка для использования в Echo.
type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator(v *validator.Validate) *CustomValidator {
	return &CustomValidator{validator: v}
}

// Validate реализует интерфейс echo.Validator.
func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return apperrors.NewInvalidInputError("ошибка валидации: %v", err)
	}
	return nil
}
