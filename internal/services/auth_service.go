package services

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"approval-system/internal/dto"
	"approval-system/internal/repositories"
	apperrors "approval-system/pkg/errors"
	"approval-system/pkg/service"
)

type AuthServiceInterface interface {
	Login(ctx context.Context, payload dto.LoginDTO) (*dto.TokenPairDTO, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenPairDTO, error)
}

type AuthService struct {
	userRepo   repositories.UserRepositoryInterface
	jwtService service.JWTService
	logger     *zap.Logger
}

func NewAuthService(
	userRepo repositories.UserRepositoryInterface,
	jwtService service.JWTService,
	logger *zap.Logger,
) AuthServiceInterface {
	return &AuthService{userRepo: userRepo, jwtService: jwtService, logger: logger}
}

func (s *AuthService) Login(ctx context.Context, payload dto.LoginDTO) (*dto.TokenPairDTO, error) {
	user, err := s.userRepo.FindByEmail(ctx, payload.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.Active {
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.Password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	access, refresh, err := s.jwtService.GenerateTokens(user.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("пользователь вошёл в систему", zap.Uint64("userID", user.ID))
	return &dto.TokenPairDTO{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenPairDTO, error) {
	claims, err := s.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if !claims.IsRefreshToken {
		return nil, apperrors.ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, err
	}
	if !user.Active {
		return nil, apperrors.ErrInvalidToken
	}

	access, refresh, err := s.jwtService.GenerateTokens(user.ID)
	if err != nil {
		return nil, err
	}
	return &dto.TokenPairDTO{AccessToken: access, RefreshToken: refresh}, nil
}
