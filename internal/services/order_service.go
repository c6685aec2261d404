package services

import (
	"context"

	"go.uber.org/zap"

	"approval-system/internal/dto"
	"approval-system/internal/entities"
	"approval-system/internal/repositories"
	"approval-system/pkg/types"
)

type OrderServiceInterface interface {
	CreateOrder(ctx context.Context, creatorID uint64, payload dto.CreateOrderDTO) (*dto.OrderDTO, error)
	GetOrderByID(ctx context.Context, id uint64) (*dto.OrderDTO, error)
	GetOrders(ctx context.Context, filter types.Filter) ([]dto.OrderDTO, uint64, error)
}

type OrderService struct {
	orderRepo repositories.OrderRepositoryInterface
	stageRepo repositories.ApprovalStageRepositoryInterface
	logger    *zap.Logger
}

func NewOrderService(
	orderRepo repositories.OrderRepositoryInterface,
	stageRepo repositories.ApprovalStageRepositoryInterface,
	logger *zap.Logger,
) OrderServiceInterface {
	return &OrderService{orderRepo: orderRepo, stageRepo: stageRepo, logger: logger}
}

// CreateOrder создаёт заказ в статусе draft. Маршрут и этап на этом
// шаге не резолвятся: это произойдёт при запросе согласования,
// когда сумма станет окончательной.
func (s *OrderService) CreateOrder(ctx context.Context, creatorID uint64, payload dto.CreateOrderDTO) (*dto.OrderDTO, error) {
	order := entities.Order{
		Number:       payload.Number,
		DocumentType: payload.DocumentType,
		CompanyID:    payload.CompanyID,
		Amount:       payload.Amount,
	}

	id, err := s.orderRepo.Create(ctx, creatorID, &order)
	if err != nil {
		return nil, err
	}

	s.logger.Info("создан заказ",
		zap.Uint64("orderID", id),
		zap.String("number", order.Number),
		zap.Uint64("creatorID", creatorID))

	return s.GetOrderByID(ctx, id)
}

func (s *OrderService) GetOrderByID(ctx context.Context, id uint64) (*dto.OrderDTO, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	result := s.mapOrderToDTO(ctx, order)
	return &result, nil
}

func (s *OrderService) GetOrders(ctx context.Context, filter types.Filter) ([]dto.OrderDTO, uint64, error) {
	orders, total, err := s.orderRepo.GetAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	result := make([]dto.OrderDTO, 0, len(orders))
	for i := range orders {
		result = append(result, s.mapOrderToDTO(ctx, &orders[i]))
	}
	return result, total, nil
}

func (s *OrderService) mapOrderToDTO(ctx context.Context, order *entities.Order) dto.OrderDTO {
	result := dto.OrderDTO{
		ID:             order.ID,
		Number:         order.Number,
		DocumentType:   order.DocumentType,
		CompanyID:      order.CompanyID,
		Amount:         order.Amount,
		ApprovalStatus: order.ApprovalStatus,
		Confirmed:      order.Confirmed,
		CreatedBy:      order.CreatedBy,
	}
	if order.ApprovalFlowID.Valid {
		flowID := order.ApprovalFlowID.Uint64
		result.ApprovalFlowID = &flowID
	}
	if order.ApprovalStageID.Valid {
		stageID := order.ApprovalStageID.Uint64
		result.ApprovalStageID = &stageID
		// Имя этапа - декор для выдачи; недоступность справочника
		// не должна валить чтение заказа.
		if stage, err := s.stageRepo.FindByID(ctx, stageID); err == nil {
			result.StageName = stage.Name
		}
	}
	if order.CreatedAt != nil {
		result.CreatedAt = order.CreatedAt.Format("2006-01-02 15:04:05")
	}
	if order.UpdatedAt != nil {
		result.UpdatedAt = order.UpdatedAt.Format("2006-01-02 15:04:05")
	}
	return result
}
