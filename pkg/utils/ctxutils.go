package utils

import (
	"context"

	"approval-system/pkg/contextkeys"
	apperrors "approval-system/pkg/errors"
)

func GetUserIDFromCtx(ctx context.Context) (uint64, error) {
	userID, ok := ctx.Value(contextkeys.UserIDKey).(uint64)
	if !ok || userID == 0 {
		return 0, apperrors.ErrUserIDNotFoundInContext
	}
	return userID, nil
}

// GetUserRolesFromCtx возвращает коды ролей, которые middleware
// положил в контекст при аутентификации.
func GetUserRolesFromCtx(ctx context.Context) ([]string, error) {
	roles, ok := ctx.Value(contextkeys.UserRolesKey).([]string)
	if !ok {
		return nil, apperrors.ErrForbidden
	}
	return roles, nil
}
