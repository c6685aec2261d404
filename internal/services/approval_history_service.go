package services

import (
	"context"

	"approval-system/internal/dto"
	"approval-system/internal/repositories"
)

// ApprovalHistoryServiceInterface - чтение журнала согласования.
// Записи создаёт только машина состояний, внутри её транзакций.
type ApprovalHistoryServiceInterface interface {
	GetByOrderID(ctx context.Context, orderID uint64) ([]dto.ApprovalHistoryDTO, error)
}

type ApprovalHistoryService struct {
	historyRepo repositories.ApprovalHistoryRepositoryInterface
	orderRepo   repositories.OrderRepositoryInterface
}

func NewApprovalHistoryService(
	historyRepo repositories.ApprovalHistoryRepositoryInterface,
	orderRepo repositories.OrderRepositoryInterface,
) ApprovalHistoryServiceInterface {
	return &ApprovalHistoryService{historyRepo: historyRepo, orderRepo: orderRepo}
}

func (s *ApprovalHistoryService) GetByOrderID(ctx context.Context, orderID uint64) ([]dto.ApprovalHistoryDTO, error) {
	if _, err := s.orderRepo.FindByID(ctx, orderID); err != nil {
		return nil, err
	}

	items, err := s.historyRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	result := make([]dto.ApprovalHistoryDTO, 0, len(items))
	for i := range items {
		item := &items[i]
		row := dto.ApprovalHistoryDTO{
			ID:      item.ID,
			OrderID: item.OrderID,
			Action:  item.Action,
			UserID:  item.UserID,
		}
		if item.StageID.Valid {
			stageID := item.StageID.Uint64
			row.StageID = &stageID
		}
		if item.StageName.Valid {
			row.StageName = item.StageName.String
		}
		if item.ActorFio.Valid {
			row.ActorFio = item.ActorFio.String
		}
		if item.Note.Valid {
			row.Note = item.Note.String
		}
		if !item.CreatedAt.IsZero() {
			row.Date = item.CreatedAt.Format("2006-01-02 15:04:05")
		}
		result = append(result, row)
	}
	return result, nil
}
