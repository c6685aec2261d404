// Файл: pkg/customvalidator/validator.go

package customvalidator

import (
	"github.com/go-playground/validator/v10"
)

// RegisterCustomValidations регистрирует доменные правила валидации
// в переданном экземпляре валидатора.
func RegisterCustomValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("document_type", isDocumentType); err != nil {
		return err
	}
	if err := v.RegisterValidation("approval_type", isApprovalType); err != nil {
		return err
	}
	if err := v.RegisterValidation("notification_method", isNotificationMethod); err != nil {
		return err
	}
	return nil
}

// Тип документа, к которому привязывается маршрут согласования.
func isDocumentType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "purchase", "sale":
		return true
	}
	return false
}

func isApprovalType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "mandatory", "optional", "parallel":
		return true
	}
	return false
}

func isNotificationMethod(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "email", "chat", "both":
		return true
	}
	return false
}
