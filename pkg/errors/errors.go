package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// JWT и токены
	ErrInvalidSigningMethod = fmt.Errorf("неверный метод подписи токена")
	ErrInvalidToken         = fmt.Errorf("недопустимый токен")
	ErrTokenExpired         = fmt.Errorf("срок действия токена истёк")
	ErrTokenIsNotAccess     = fmt.Errorf("токен не является access-токеном")

	// Авторизация
	ErrEmptyAuthHeader    = fmt.Errorf("заголовок авторизации отсутствует")
	ErrInvalidAuthHeader  = fmt.Errorf("неверный формат заголовка авторизации")
	ErrInvalidCredentials = fmt.Errorf("неверные учётные данные")
	ErrUnauthorized       = fmt.Errorf("неавторизован")
	ErrForbidden          = fmt.Errorf("доступ запрещён")

	// Контекст
	ErrUserIDNotFoundInContext = fmt.Errorf("UserID не найден в контексте запроса")
	ErrInvalidUserID           = fmt.Errorf("недопустимый UserID")

	// Общие
	ErrNotFound   = fmt.Errorf("запись не найдена")
	ErrBadRequest = fmt.Errorf("неверный запрос")
)

// ConfigurationError - ошибка конфигурации процесса согласования:
// нет подходящего маршрута, у маршрута нет этапов, сумма не попадает
// ни в один диапазон. Не ретраится, возвращается инициатору как есть.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string { return e.Message }

func NewConfigurationError(format string, args ...interface{}) error {
	return &ConfigurationError{Message: fmt.Sprintf(format, args...)}
}

// StateError - переход запрошен из недопустимого статуса
// (например, согласование черновика, который уже согласован).
type StateError struct {
	Message string
}

func (e *StateError) Error() string { return e.Message }

func NewStateError(format string, args ...interface{}) error {
	return &StateError{Message: fmt.Sprintf(format, args...)}
}

// PermissionError - у инициатора нет роли, требуемой текущим этапом.
type PermissionError struct {
	Message string
}

func (e *PermissionError) Error() string { return e.Message }

func NewPermissionError(format string, args ...interface{}) error {
	return &PermissionError{Message: fmt.Sprintf(format, args...)}
}

// NotificationError - сбой доставки уведомления. Всегда лучший-из-возможных:
// логируется на месте вызова и НИКОГДА не прерывает сам переход.
type NotificationError struct {
	Message string
	Cause   error
}

func (e *NotificationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *NotificationError) Unwrap() error { return e.Cause }

func NewNotificationError(cause error, format string, args ...interface{}) error {
	return &NotificationError{Message: fmt.Sprintf(format, args...), Cause: cause}
}

// InvalidInputError - нарушение валидации входных данных.
type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string { return e.Message }

func NewInvalidInputError(format string, args ...interface{}) error {
	return &InvalidInputError{Message: fmt.Sprintf(format, args...)}
}

// HttpStatus подбирает HTTP-статус для ошибки доменного слоя.
func HttpStatus(err error) int {
	var (
		confErr  *ConfigurationError
		stateErr *StateError
		permErr  *PermissionError
		inputErr *InvalidInputError
	)

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden), errors.As(err, &permErr):
		return http.StatusForbidden
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrEmptyAuthHeader),
		errors.Is(err, ErrInvalidAuthHeader),
		errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrTokenExpired),
		errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.As(err, &stateErr):
		return http.StatusConflict
	case errors.As(err, &confErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrBadRequest), errors.As(err, &inputErr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
