package services

import (
	"context"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"approval-system/internal/dto"
	"approval-system/internal/entities"
	"approval-system/internal/events"
	"approval-system/internal/repositories"
	"approval-system/pkg/config"
	"approval-system/pkg/constants"
	apperrors "approval-system/pkg/errors"
	"approval-system/pkg/eventbus"
)

// ApprovalServiceInterface - машина состояний согласования.
// Статусы: draft -> waiting -> approved | rejected.
// approved и rejected терминальны, из них переходов нет.
type ApprovalServiceInterface interface {
	RequestApproval(ctx context.Context, orderID uint64, actor entities.Actor) (*dto.ApprovalStateDTO, error)
	Approve(ctx context.Context, orderID uint64, actor entities.Actor, note string) (*dto.ApprovalStateDTO, error)
	Reject(ctx context.Context, orderID uint64, actor entities.Actor, note string) (*dto.ApprovalStateDTO, error)
}

type ApprovalService struct {
	txManager    repositories.TxManagerInterface
	orderRepo    repositories.OrderRepositoryInterface
	flowRepo     repositories.ApprovalFlowRepositoryInterface
	historyRepo  repositories.ApprovalHistoryRepositoryInterface
	userRepo     repositories.UserRepositoryInterface
	notifier     NotificationServiceInterface
	confirmation ConfirmationServiceInterface
	bus          *eventbus.Bus
	cfg          config.ApprovalConfig
	logger       *zap.Logger
}

func NewApprovalService(
	txManager repositories.TxManagerInterface,
	orderRepo repositories.OrderRepositoryInterface,
	flowRepo repositories.ApprovalFlowRepositoryInterface,
	historyRepo repositories.ApprovalHistoryRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	notifier NotificationServiceInterface,
	confirmation ConfirmationServiceInterface,
	bus *eventbus.Bus,
	cfg config.ApprovalConfig,
	logger *zap.Logger,
) ApprovalServiceInterface {
	return &ApprovalService{
		txManager:    txManager,
		orderRepo:    orderRepo,
		flowRepo:     flowRepo,
		historyRepo:  historyRepo,
		userRepo:     userRepo,
		notifier:     notifier,
		confirmation: confirmation,
		bus:          bus,
		cfg:          cfg,
		logger:       logger,
	}
}

// transitionResult - всё, что переход накопил внутри транзакции для
// побочных эффектов после коммита. Уведомления никогда не выполняются
// внутри транзакции и не могут её откатить.
type transitionResult struct {
	order       entities.Order
	history     entities.ApprovalHistory
	stageName   string
	notifyStage *entities.ApprovalStage
	completed   bool
	stateDTO    dto.ApprovalStateDTO
}

// RequestApproval переводит заказ из draft в waiting: резолвит маршрут
// по типу документа и компании, находит этап по сумме, пишет запись
// "requested" в журнал. Все проверки и изменения - в одной транзакции.
func (s *ApprovalService) RequestApproval(ctx context.Context, orderID uint64, actor entities.Actor) (*dto.ApprovalStateDTO, error) {
	var res transitionResult

	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		order, err := s.orderRepo.FindForUpdateInTx(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if order.ApprovalStatus != constants.ApprovalStatusDraft {
			return apperrors.NewStateError(
				"согласование можно запросить только из статуса 'draft', текущий статус: %s", order.ApprovalStatus)
		}

		flows, err := s.flowRepo.FindActiveFlowsInTx(ctx, tx, order.DocumentType, order.CompanyID)
		if err != nil {
			return err
		}
		flow := PickActiveFlow(flows, order.DocumentType, order.CompanyID, s.logger)
		if flow == nil {
			return apperrors.NewConfigurationError(
				"для документов типа %q компании %d не настроен маршрут согласования", order.DocumentType, order.CompanyID)
		}

		stage, err := ResolveStage(flow, order.Amount)
		if err != nil {
			return err
		}

		flowID := null.Uint64From(flow.ID)
		stageID := null.Uint64From(stage.ID)
		if err := s.orderRepo.UpdateApprovalStateInTx(ctx, tx, order.ID, constants.ApprovalStatusWaiting, flowID, stageID); err != nil {
			return err
		}

		history := entities.ApprovalHistory{
			OrderID: order.ID,
			StageID: stageID,
			Action:  constants.HistoryActionRequested,
			UserID:  actor.ID,
			TxID:    uuid.New(),
		}
		if history.ID, err = s.historyRepo.CreateInTx(ctx, tx, &history); err != nil {
			return err
		}

		order.ApprovalStatus = constants.ApprovalStatusWaiting
		order.ApprovalFlowID = flowID
		order.ApprovalStageID = stageID

		res = transitionResult{
			order:       *order,
			history:     history,
			stageName:   stage.Name,
			notifyStage: stage,
			stateDTO: dto.ApprovalStateDTO{
				OrderID:         order.ID,
				ApprovalStatus:  constants.ApprovalStatusWaiting,
				ApprovalStageID: &stage.ID,
				StageName:       stage.Name,
			},
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterCommit(ctx, &res)
	return &res.stateDTO, nil
}

// Approve записывает согласование текущего этапа. Для mandatory/optional
// этапов достаточно одного согласующего; parallel-этап продвигается только
// когда согласовали все участники роли (повторное согласование тем же
// пользователем не считается дважды). Финальный этап или отсутствие
// следующего этапа завершают процесс со статусом approved.
func (s *ApprovalService) Approve(ctx context.Context, orderID uint64, actor entities.Actor, note string) (*dto.ApprovalStateDTO, error) {
	var res transitionResult

	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		// FOR UPDATE сериализует конкурирующие согласования одного заказа:
		// проверка полноты parallel-этапа и смена статуса атомарны
		// относительно параллельных транзакций.
		order, err := s.orderRepo.FindForUpdateInTx(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if order.ApprovalStatus != constants.ApprovalStatusWaiting {
			return apperrors.NewStateError(
				"согласовать можно только заказ в статусе 'waiting', текущий статус: %s", order.ApprovalStatus)
		}

		flow, stage, err := s.currentStageInTx(ctx, tx, order)
		if err != nil {
			return err
		}

		if !actor.HasRole(stage.RoleCode) {
			return apperrors.NewPermissionError(
				"у пользователя нет роли %q, требуемой этапом %q", stage.RoleCode, stage.Name)
		}

		history := entities.ApprovalHistory{
			OrderID: order.ID,
			StageID: null.Uint64From(stage.ID),
			Action:  constants.HistoryActionApproved,
			UserID:  actor.ID,
			Note:    nullableNote(note),
			TxID:    uuid.New(),
		}
		if history.ID, err = s.historyRepo.CreateInTx(ctx, tx, &history); err != nil {
			return err
		}

		if stage.ApprovalType == constants.ApprovalTypeParallel {
			complete, err := s.parallelStageCompleteInTx(ctx, tx, order.ID, stage)
			if err != nil {
				return err
			}
			if !complete {
				// Частичное согласование: статус и этап не меняются.
				res = transitionResult{
					order:     *order,
					history:   history,
					stageName: stage.Name,
					stateDTO: dto.ApprovalStateDTO{
						OrderID:         order.ID,
						ApprovalStatus:  constants.ApprovalStatusWaiting,
						ApprovalStageID: &stage.ID,
						StageName:       stage.Name,
					},
				}
				return nil
			}
		}

		next := NextStage(flow, stage.ID)
		if stage.IsFinal || next == nil {
			if err := s.orderRepo.UpdateApprovalStateInTx(ctx, tx, order.ID,
				constants.ApprovalStatusApproved, order.ApprovalFlowID, order.ApprovalStageID); err != nil {
				return err
			}
			order.ApprovalStatus = constants.ApprovalStatusApproved
			res = transitionResult{
				order:     *order,
				history:   history,
				stageName: stage.Name,
				completed: true,
				stateDTO: dto.ApprovalStateDTO{
					OrderID:         order.ID,
					ApprovalStatus:  constants.ApprovalStatusApproved,
					ApprovalStageID: &stage.ID,
					StageName:       stage.Name,
				},
			}
			return nil
		}

		nextID := null.Uint64From(next.ID)
		if err := s.orderRepo.UpdateApprovalStateInTx(ctx, tx, order.ID,
			constants.ApprovalStatusWaiting, order.ApprovalFlowID, nextID); err != nil {
			return err
		}
		order.ApprovalStageID = nextID
		res = transitionResult{
			order:       *order,
			history:     history,
			stageName:   stage.Name,
			notifyStage: next,
			stateDTO: dto.ApprovalStateDTO{
				OrderID:         order.ID,
				ApprovalStatus:  constants.ApprovalStatusWaiting,
				ApprovalStageID: &next.ID,
				StageName:       next.Name,
			},
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterCommit(ctx, &res)
	return &res.stateDTO, nil
}

// Reject переводит заказ из waiting в rejected. Проверка роли не
// накладывается - политика отклонения отдана вызывающему слою.
func (s *ApprovalService) Reject(ctx context.Context, orderID uint64, actor entities.Actor, note string) (*dto.ApprovalStateDTO, error) {
	var res transitionResult

	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		order, err := s.orderRepo.FindForUpdateInTx(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if order.ApprovalStatus != constants.ApprovalStatusWaiting {
			return apperrors.NewStateError(
				"отклонить можно только заказ в статусе 'waiting', текущий статус: %s", order.ApprovalStatus)
		}

		history := entities.ApprovalHistory{
			OrderID: order.ID,
			StageID: order.ApprovalStageID,
			Action:  constants.HistoryActionRejected,
			UserID:  actor.ID,
			Note:    nullableNote(note),
			TxID:    uuid.New(),
		}
		if history.ID, err = s.historyRepo.CreateInTx(ctx, tx, &history); err != nil {
			return err
		}

		if err := s.orderRepo.UpdateApprovalStateInTx(ctx, tx, order.ID,
			constants.ApprovalStatusRejected, order.ApprovalFlowID, order.ApprovalStageID); err != nil {
			return err
		}

		order.ApprovalStatus = constants.ApprovalStatusRejected
		var stageID *uint64
		if order.ApprovalStageID.Valid {
			stageID = &order.ApprovalStageID.Uint64
		}
		res = transitionResult{
			order:   *order,
			history: history,
			stateDTO: dto.ApprovalStateDTO{
				OrderID:         order.ID,
				ApprovalStatus:  constants.ApprovalStatusRejected,
				ApprovalStageID: stageID,
			},
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterCommit(ctx, &res)
	return &res.stateDTO, nil
}

// currentStageInTx загружает маршрут и текущий этап заказа. Маршрут или
// этап, удалённые после запроса согласования, - ошибка конфигурации.
func (s *ApprovalService) currentStageInTx(ctx context.Context, tx pgx.Tx, order *entities.Order) (*entities.ApprovalFlow, *entities.ApprovalStage, error) {
	if !order.ApprovalFlowID.Valid || !order.ApprovalStageID.Valid {
		return nil, nil, apperrors.NewConfigurationError("у заказа %d не заполнено состояние согласования", order.ID)
	}

	flow, err := s.flowRepo.FindByIDInTx(ctx, tx, order.ApprovalFlowID.Uint64)
	if err != nil {
		return nil, nil, apperrors.NewConfigurationError(
			"маршрут согласования %d заказа %d недоступен", order.ApprovalFlowID.Uint64, order.ID)
	}

	stage := flow.StageByID(order.ApprovalStageID.Uint64)
	if stage == nil {
		return nil, nil, apperrors.NewConfigurationError(
			"текущий этап %d заказа %d отсутствует в маршруте %q", order.ApprovalStageID.Uint64, order.ID, flow.Name)
	}
	return flow, stage, nil
}

// parallelStageCompleteInTx проверяет, что каждый участник роли этапа
// записал своё согласование для пары (заказ, этап). Чтение и последующая
// смена статуса идут в одной транзакции под блокировкой строки заказа,
// иначе два последних согласующих могли бы одновременно увидеть
// "ещё не все" и этап не продвинулся бы никогда.
func (s *ApprovalService) parallelStageCompleteInTx(ctx context.Context, tx pgx.Tx, orderID uint64, stage *entities.ApprovalStage) (bool, error) {
	members, err := s.userRepo.ListUserIDsWithRoleInTx(ctx, tx, stage.RoleCode)
	if err != nil {
		return false, err
	}

	approverIDs, err := s.historyRepo.ListStageApproverIDsInTx(ctx, tx, orderID, stage.ID, constants.HistoryActionApproved)
	if err != nil {
		return false, err
	}

	approved := make(map[uint64]bool, len(approverIDs))
	for _, id := range approverIDs {
		approved[id] = true
	}
	for _, member := range members {
		if !approved[member] {
			return false, nil
		}
	}
	return true, nil
}

// afterCommit выполняет побочные эффекты перехода. Любой сбой здесь
// логируется и не влияет на уже зафиксированный переход.
func (s *ApprovalService) afterCommit(ctx context.Context, res *transitionResult) {
	event := events.ApprovalHistoryCreatedEvent{
		History:   res.history,
		Order:     res.order,
		StageName: res.stageName,
	}
	if actor, err := s.userRepo.FindByID(ctx, res.history.UserID); err == nil {
		event.ActorFio = actor.Fio
	}
	s.bus.Publish(ctx, event)

	if res.notifyStage != nil {
		if err := s.notifier.NotifyStageApprovers(ctx, &res.order, res.notifyStage); err != nil {
			s.logger.Warn("не удалось уведомить согласующих этапа",
				zap.Uint64("orderID", res.order.ID),
				zap.String("stage", res.notifyStage.Name),
				zap.Error(err))
		}
	}

	if res.completed {
		if err := s.notifier.NotifyRequesterComplete(ctx, &res.order); err != nil {
			s.logger.Warn("не удалось уведомить инициатора о завершении согласования",
				zap.Uint64("orderID", res.order.ID), zap.Error(err))
		}
		if s.cfg.AutoConfirm {
			if err := s.confirmation.ConfirmOrder(ctx, &res.order); err != nil {
				s.logger.Error("не удалось подтвердить заказ после финального согласования",
					zap.Uint64("orderID", res.order.ID), zap.Error(err))
			}
		}
	}
}

func nullableNote(note string) null.String {
	if note == "" {
		return null.String{}
	}
	return null.StringFrom(note)
}
