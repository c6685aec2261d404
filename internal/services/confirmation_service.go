package services

import (
	"context"

	"go.uber.org/zap"

	"approval-system/internal/entities"
	"approval-system/internal/repositories"
	"approval-system/pkg/constants"
	apperrors "approval-system/pkg/errors"
)

// ConfirmationServiceInterface подтверждает заказ после финального
// согласования. Подтверждение идёт отдельной операцией после коммита
// перехода: его сбой не откатывает статус approved.
type ConfirmationServiceInterface interface {
	ConfirmOrder(ctx context.Context, order *entities.Order) error
}

type ConfirmationService struct {
	orderRepo repositories.OrderRepositoryInterface
	logger    *zap.Logger
}

func NewConfirmationService(orderRepo repositories.OrderRepositoryInterface, logger *zap.Logger) ConfirmationServiceInterface {
	return &ConfirmationService{orderRepo: orderRepo, logger: logger}
}

func (s *ConfirmationService) ConfirmOrder(ctx context.Context, order *entities.Order) error {
	if order.ApprovalStatus != constants.ApprovalStatusApproved {
		return apperrors.NewStateError(
			"подтвердить можно только согласованный заказ, текущий статус: %s", order.ApprovalStatus)
	}
	if order.Confirmed {
		return nil
	}

	if err := s.orderRepo.MarkConfirmed(ctx, order.ID); err != nil {
		return err
	}
	order.Confirmed = true

	s.logger.Info("заказ подтверждён после финального согласования",
		zap.Uint64("orderID", order.ID),
		zap.String("number", order.Number))
	return nil
}
