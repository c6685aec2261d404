package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"approval-system/internal/repositories"
	"approval-system/pkg/config"
)

// EscalationServiceInterface - монитор зависших согласований. Находит
// заказы, ожидающие решения дольше порога, и рассылает напоминания
// согласующим текущего этапа. Монитор только уведомляет: статусы
// заказов он не меняет.
type EscalationServiceInterface interface {
	Scan(ctx context.Context) error
}

type EscalationService struct {
	orderRepo repositories.OrderRepositoryInterface
	flowRepo  repositories.ApprovalFlowRepositoryInterface
	notifier  NotificationServiceInterface
	cfg       config.ApprovalConfig
	logger    *zap.Logger
	now       func() time.Time
}

func NewEscalationService(
	orderRepo repositories.OrderRepositoryInterface,
	flowRepo repositories.ApprovalFlowRepositoryInterface,
	notifier NotificationServiceInterface,
	cfg config.ApprovalConfig,
	logger *zap.Logger,
) *EscalationService {
	return &EscalationService{
		orderRepo: orderRepo,
		flowRepo:  flowRepo,
		notifier:  notifier,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// Scan обходит все просроченные заказы. Сбой по одному заказу логируется
// и не прерывает обход остальных.
func (s *EscalationService) Scan(ctx context.Context) error {
	threshold := s.now().AddDate(0, 0, -s.cfg.EscalationThresholdDays)

	orders, err := s.orderRepo.ListWaitingSince(ctx, threshold)
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		return nil
	}
	s.logger.Info("монитор эскалаций нашёл зависшие согласования",
		zap.Int("count", len(orders)),
		zap.Time("threshold", threshold))

	for i := range orders {
		order := &orders[i]
		if !order.ApprovalFlowID.Valid || !order.ApprovalStageID.Valid {
			s.logger.Warn("заказ в статусе waiting без состояния согласования, пропускаем",
				zap.Uint64("orderID", order.ID))
			continue
		}

		flow, err := s.flowRepo.FindByID(ctx, order.ApprovalFlowID.Uint64)
		if err != nil {
			s.logger.Warn("маршрут зависшего заказа недоступен",
				zap.Uint64("orderID", order.ID),
				zap.Uint64("flowID", order.ApprovalFlowID.Uint64),
				zap.Error(err))
			continue
		}
		stage := flow.StageByID(order.ApprovalStageID.Uint64)
		if stage == nil {
			s.logger.Warn("текущий этап зависшего заказа отсутствует в маршруте",
				zap.Uint64("orderID", order.ID),
				zap.Uint64("stageID", order.ApprovalStageID.Uint64))
			continue
		}

		waitingSince := s.now()
		if order.UpdatedAt != nil {
			waitingSince = *order.UpdatedAt
		}
		if err := s.notifier.NotifyEscalation(ctx, order, stage, waitingSince); err != nil {
			s.logger.Warn("не удалось разослать напоминание об эскалации",
				zap.Uint64("orderID", order.ID),
				zap.Error(err))
		}
	}
	return nil
}
