package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"approval-system/internal/repositories"
)

const (
	userRolesCacheKeyPrefix = "user:roles:"
	userRolesCacheTTL       = 5 * time.Minute
)

// AuthPermissionServiceInterface резолвит роли пользователя для
// middleware аутентификации. Роли кэшируются в Redis: они нужны
// на каждом запросе, а меняются редко.
type AuthPermissionServiceInterface interface {
	GetUserRoleCodes(ctx context.Context, userID uint64) ([]string, error)
	InvalidateUserRoles(ctx context.Context, userID uint64) error
}

type AuthPermissionService struct {
	userRepo  repositories.UserRepositoryInterface
	cacheRepo repositories.CacheRepositoryInterface
	logger    *zap.Logger
}

func NewAuthPermissionService(
	userRepo repositories.UserRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	logger *zap.Logger,
) AuthPermissionServiceInterface {
	return &AuthPermissionService{userRepo: userRepo, cacheRepo: cacheRepo, logger: logger}
}

func (s *AuthPermissionService) GetUserRoleCodes(ctx context.Context, userID uint64) ([]string, error) {
	cacheKey := fmt.Sprintf("%s%d", userRolesCacheKeyPrefix, userID)

	if cached, err := s.cacheRepo.Get(ctx, cacheKey); err == nil {
		var roles []string
		if err := json.Unmarshal([]byte(cached), &roles); err == nil {
			return roles, nil
		}
		s.logger.Warn("повреждённый кэш ролей, перечитываем из БД", zap.Uint64("userID", userID))
	}

	roles, err := s.userRepo.GetRoleCodes(ctx, userID)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(roles); err == nil {
		if err := s.cacheRepo.Set(ctx, cacheKey, string(payload), userRolesCacheTTL); err != nil {
			s.logger.Warn("не удалось сохранить роли в кэш", zap.Uint64("userID", userID), zap.Error(err))
		}
	}
	return roles, nil
}

func (s *AuthPermissionService) InvalidateUserRoles(ctx context.Context, userID uint64) error {
	return s.cacheRepo.Del(ctx, fmt.Sprintf("%s%d", userRolesCacheKeyPrefix, userID))
}
