package services

import (
	"context"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"approval-system/internal/entities"
	"approval-system/internal/events"
	"approval-system/internal/repositories"
	"approval-system/pkg/config"
	"approval-system/pkg/constants"
	apperrors "approval-system/pkg/errors"
	"approval-system/pkg/eventbus"
	"approval-system/pkg/types"
)

// ===== ФЕЙКИ РЕПОЗИТОРИЕВ (в памяти, без БД) =====

type fakeTxManager struct{}

func (m *fakeTxManager) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

type fakeOrderRepo struct {
	orders map[uint64]*entities.Order
}

func newFakeOrderRepo(orders ...*entities.Order) *fakeOrderRepo {
	repo := &fakeOrderRepo{orders: make(map[uint64]*entities.Order)}
	for _, o := range orders {
		repo.orders[o.ID] = o
	}
	return repo
}

func (r *fakeOrderRepo) Create(ctx context.Context, creatorID uint64, order *entities.Order) (uint64, error) {
	order.ID = uint64(len(r.orders) + 1)
	order.ApprovalStatus = constants.ApprovalStatusDraft
	order.CreatedBy = creatorID
	r.orders[order.ID] = order
	return order.ID, nil
}

func (r *fakeOrderRepo) FindByID(ctx context.Context, id uint64) (*entities.Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *order
	return &copied, nil
}

func (r *fakeOrderRepo) GetAll(ctx context.Context, filter types.Filter) ([]entities.Order, uint64, error) {
	var result []entities.Order
	for _, o := range r.orders {
		result = append(result, *o)
	}
	return result, uint64(len(result)), nil
}

func (r *fakeOrderRepo) FindForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Order, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeOrderRepo) UpdateApprovalStateInTx(ctx context.Context, tx pgx.Tx, id uint64, status string, flowID, stageID null.Uint64) error {
	order, ok := r.orders[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	order.ApprovalStatus = status
	order.ApprovalFlowID = flowID
	order.ApprovalStageID = stageID
	return nil
}

func (r *fakeOrderRepo) MarkConfirmed(ctx context.Context, id uint64) error {
	order, ok := r.orders[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	order.Confirmed = true
	return nil
}

func (r *fakeOrderRepo) ListWaitingSince(ctx context.Context, before time.Time) ([]entities.Order, error) {
	var result []entities.Order
	for _, o := range r.orders {
		if o.ApprovalStatus == constants.ApprovalStatusWaiting && o.UpdatedAt != nil && !o.UpdatedAt.After(before) {
			result = append(result, *o)
		}
	}
	return result, nil
}

type fakeFlowRepo struct {
	flows map[uint64]*entities.ApprovalFlow
}

func newFakeFlowRepo(flows ...*entities.ApprovalFlow) *fakeFlowRepo {
	repo := &fakeFlowRepo{flows: make(map[uint64]*entities.ApprovalFlow)}
	for _, f := range flows {
		repo.flows[f.ID] = f
	}
	return repo
}

func (r *fakeFlowRepo) Create(ctx context.Context, flow *entities.ApprovalFlow) (uint64, error) {
	flow.ID = uint64(len(r.flows) + 1)
	r.flows[flow.ID] = flow
	return flow.ID, nil
}

func (r *fakeFlowRepo) Update(ctx context.Context, flow *entities.ApprovalFlow) error {
	r.flows[flow.ID] = flow
	return nil
}

func (r *fakeFlowRepo) Delete(ctx context.Context, id uint64) error {
	delete(r.flows, id)
	return nil
}

func (r *fakeFlowRepo) FindByID(ctx context.Context, id uint64) (*entities.ApprovalFlow, error) {
	flow, ok := r.flows[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return flow, nil
}

func (r *fakeFlowRepo) FindByIDInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.ApprovalFlow, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeFlowRepo) GetAll(ctx context.Context, filter types.Filter) ([]entities.ApprovalFlow, uint64, error) {
	var result []entities.ApprovalFlow
	for _, f := range r.flows {
		result = append(result, *f)
	}
	return result, uint64(len(result)), nil
}

func (r *fakeFlowRepo) FindActiveFlows(ctx context.Context, documentType string, companyID uint64) ([]entities.ApprovalFlow, error) {
	var result []entities.ApprovalFlow
	for _, f := range r.flows {
		if f.Active && f.DocumentType == documentType && f.CompanyID == companyID {
			result = append(result, *f)
		}
	}
	return result, nil
}

func (r *fakeFlowRepo) FindActiveFlowsInTx(ctx context.Context, tx pgx.Tx, documentType string, companyID uint64) ([]entities.ApprovalFlow, error) {
	return r.FindActiveFlows(ctx, documentType, companyID)
}

type fakeHistoryRepo struct {
	rows []entities.ApprovalHistory
}

func (r *fakeHistoryRepo) CreateInTx(ctx context.Context, tx pgx.Tx, history *entities.ApprovalHistory) (uint64, error) {
	history.ID = uint64(len(r.rows) + 1)
	history.CreatedAt = time.Now()
	r.rows = append(r.rows, *history)
	return history.ID, nil
}

func (r *fakeHistoryRepo) FindByOrderID(ctx context.Context, orderID uint64) ([]repositories.ApprovalHistoryItem, error) {
	var result []repositories.ApprovalHistoryItem
	for _, row := range r.rows {
		if row.OrderID == orderID {
			result = append(result, repositories.ApprovalHistoryItem{ApprovalHistory: row})
		}
	}
	return result, nil
}

func (r *fakeHistoryRepo) ListStageApproverIDsInTx(ctx context.Context, tx pgx.Tx, orderID, stageID uint64, action string) ([]uint64, error) {
	seen := make(map[uint64]bool)
	var result []uint64
	for _, row := range r.rows {
		if row.OrderID == orderID && row.StageID.Valid && row.StageID.Uint64 == stageID && row.Action == action && !seen[row.UserID] {
			seen[row.UserID] = true
			result = append(result, row.UserID)
		}
	}
	return result, nil
}

type fakeUserRepo struct {
	roleMembers map[string][]uint64
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uint64) (*entities.User, error) {
	return &entities.User{ID: id, Fio: "Тестов Тест", Email: "test@example.com", Active: true}, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	return nil, apperrors.ErrNotFound
}

func (r *fakeUserRepo) GetRoleCodes(ctx context.Context, userID uint64) ([]string, error) {
	return nil, nil
}

func (r *fakeUserRepo) ListUsersWithRole(ctx context.Context, roleCode string) ([]entities.User, error) {
	var result []entities.User
	for _, id := range r.roleMembers[roleCode] {
		result = append(result, entities.User{ID: id, Active: true})
	}
	return result, nil
}

func (r *fakeUserRepo) ListUserIDsWithRoleInTx(ctx context.Context, tx pgx.Tx, roleCode string) ([]uint64, error) {
	return r.roleMembers[roleCode], nil
}

type fakeNotifier struct {
	stageNotified     []string
	completeNotified  []uint64
	escalationOrderID []uint64
}

func (n *fakeNotifier) NotifyStageApprovers(ctx context.Context, order *entities.Order, stage *entities.ApprovalStage) error {
	n.stageNotified = append(n.stageNotified, stage.Name)
	return nil
}

func (n *fakeNotifier) NotifyRequesterComplete(ctx context.Context, order *entities.Order) error {
	n.completeNotified = append(n.completeNotified, order.ID)
	return nil
}

func (n *fakeNotifier) NotifyEscalation(ctx context.Context, order *entities.Order, stage *entities.ApprovalStage, waitingSince time.Time) error {
	n.escalationOrderID = append(n.escalationOrderID, order.ID)
	return nil
}

// ===== ОБВЯЗКА =====

type approvalFixture struct {
	service   ApprovalServiceInterface
	orderRepo *fakeOrderRepo
	flowRepo  *fakeFlowRepo
	history   *fakeHistoryRepo
	notifier  *fakeNotifier
	bus       *eventbus.Bus
}

func purchaseFlow() *entities.ApprovalFlow {
	return &entities.ApprovalFlow{
		ID:           1,
		Name:         "Закупки: базовый маршрут",
		DocumentType: constants.DocumentTypePurchase,
		CompanyID:    1,
		Active:       true,
		Stages: []entities.ApprovalStage{
			{ID: 1, FlowID: 1, Name: "Руководитель отдела", Sequence: 10, RoleCode: "department_head",
				MinimumAmount: 0, MaximumAmount: null.Float64From(10000), IsFinal: true, ApprovalType: constants.ApprovalTypeMandatory},
			{ID: 2, FlowID: 1, Name: "Финансовый директор", Sequence: 20, RoleCode: "finance_director",
				MinimumAmount: 10000.01, MaximumAmount: null.Float64From(100000), IsFinal: true, ApprovalType: constants.ApprovalTypeMandatory},
			{ID: 3, FlowID: 1, Name: "Генеральный директор", Sequence: 30, RoleCode: "general_director",
				MinimumAmount: 100000.01, ApprovalType: constants.ApprovalTypeMandatory},
			{ID: 4, FlowID: 1, Name: "Правление", Sequence: 40, RoleCode: "board_member",
				MinimumAmount: 100000.01, IsFinal: true, ApprovalType: constants.ApprovalTypeParallel},
		},
	}
}

func newApprovalFixture(t *testing.T, cfg config.ApprovalConfig, orders ...*entities.Order) *approvalFixture {
	t.Helper()
	logger := zap.NewNop()

	orderRepo := newFakeOrderRepo(orders...)
	flowRepo := newFakeFlowRepo(purchaseFlow())
	historyRepo := &fakeHistoryRepo{}
	userRepo := &fakeUserRepo{roleMembers: map[string][]uint64{
		"department_head":  {10},
		"finance_director": {20},
		"general_director": {30},
		"board_member":     {40, 41},
	}}
	notifier := &fakeNotifier{}
	confirmation := NewConfirmationService(orderRepo, logger)
	bus := eventbus.New(logger)

	service := NewApprovalService(
		&fakeTxManager{}, orderRepo, flowRepo, historyRepo, userRepo,
		notifier, confirmation, bus, cfg, logger,
	)

	return &approvalFixture{
		service:   service,
		orderRepo: orderRepo,
		flowRepo:  flowRepo,
		history:   historyRepo,
		notifier:  notifier,
		bus:       bus,
	}
}

func draftOrder(id uint64, amount float64) *entities.Order {
	return &entities.Order{
		ID:             id,
		Number:         "PO-0001",
		DocumentType:   constants.DocumentTypePurchase,
		CompanyID:      1,
		Amount:         amount,
		ApprovalStatus: constants.ApprovalStatusDraft,
		CreatedBy:      99,
	}
}

func waitingOrder(id uint64, amount float64, stageID uint64) *entities.Order {
	order := draftOrder(id, amount)
	order.ApprovalStatus = constants.ApprovalStatusWaiting
	order.ApprovalFlowID = null.Uint64From(1)
	order.ApprovalStageID = null.Uint64From(stageID)
	return order
}

// ===== ЗАПРОС СОГЛАСОВАНИЯ =====

func TestRequestApproval(t *testing.T) {
	ctx := context.Background()
	requester := entities.Actor{ID: 99}

	t.Run("малая сумма попадает на первый этап", func(t *testing.T) {
		fx := newApprovalFixture(t, config.ApprovalConfig{}, draftOrder(1, 5000))

		state, err := fx.service.RequestApproval(ctx, 1, requester)
		require.NoError(t, err)
		assert.Equal(t, constants.ApprovalStatusWaiting, state.ApprovalStatus)
		require.NotNil(t, state.ApprovalStageID)
		assert.Equal(t, uint64(1), *state.ApprovalStageID)

		stored, _ := fx.orderRepo.FindByID(ctx, 1)
		assert.Equal(t, constants.ApprovalStatusWaiting, stored.ApprovalStatus)
		assert.Equal(t, uint64(1), stored.ApprovalFlowID.Uint64)

		require.Len(t, fx.history.rows, 1)
		assert.Equal(t, constants.HistoryActionRequested, fx.history.rows[0].Action)
		assert.Equal(t, requester.ID, fx.history.rows[0].UserID)
		assert.NotEqual(t, "", fx.history.rows[0].TxID.String())
	})

	t.Run("средняя сумма пропускает младший этап", func(t *testing.T) {
		fx := newApprovalFixture(t, config.ApprovalConfig{}, draftOrder(1, 50000))

		state, err := fx.service.RequestApproval(ctx, 1, requester)
		require.NoError(t, err)
		assert.Equal(t, uint64(2), *state.ApprovalStageID)
	})

	t.Run("крупная сумма начинает с этапа гендиректора", func(t *testing.T) {
		fx := newApprovalFixture(t, config.ApprovalConfig{}, draftOrder(1, 150000))

		state, err := fx.service.RequestApproval(ctx, 1, requester)
		require.NoError(t, err)
		assert.Equal(t, uint64(3), *state.ApprovalStageID)
		assert.Equal(t, []string{"Генеральный директор"}, fx.notifier.stageNotified)
	})

	t.Run("повторный запрос из waiting отклоняется", func(t *testing.T) {
		fx := newApprovalFixture(t, config.ApprovalConfig{}, waitingOrder(1, 5000, 1))

		_, err := fx.service.RequestApproval(ctx, 1, requester)
		var stateErr *apperrors.StateError
		require.ErrorAs(t, err, &stateErr)
		assert.Empty(t, fx.history.rows)
	})

	t.Run("тип документа без маршрута - ошибка конфигурации", func(t *testing.T) {
		order := draftOrder(1, 5000)
		order.DocumentType = constants.DocumentTypeSale
		fx := newApprovalFixture(t, config.ApprovalConfig{}, order)

		_, err := fx.service.RequestApproval(ctx, 1, entities.Actor{ID: 99})
		var cfgErr *apperrors.ConfigurationError
		require.ErrorAs(t, err, &cfgErr)

		stored, _ := fx.orderRepo.FindByID(ctx, 1)
		assert.Equal(t, constants.ApprovalStatusDraft, stored.ApprovalStatus)
	})
}

// ===== СОГЛАСОВАНИЕ =====

func TestApprove(t *testing.T) {
	ctx := context.Background()

	t.Run("финальный этап завершает процесс", func(t *testing.T) {
		fx := newApprovalFixture(t, config.ApprovalConfig{}, waitingOrder(1, 5000, 1))
		head := entities.Actor{ID: 10, Roles: []string{"department_head"}}

		state, err := fx.service.Approve(ctx, 1, head, "ок")
		require.NoError(t, err)
		assert.Equal(t, constants.ApprovalStatusApproved, state.ApprovalStatus)

		stored, _ := fx.orderRepo.FindByID(ctx, 1)
		assert.Equal(t, constants.ApprovalStatusApproved, stored.ApprovalStatus)
		// Этап сохраняется и после финального согласования.
		assert.Equal(t, uint64(1), stored.ApprovalStageID.Uint64)

		require.Len(t, fx.history.rows, 1)
		assert.Equal(t, constants.HistoryActionApproved, fx.history.rows[0].Action)
		assert.Equal(t, "ок", fx.history.rows[0].Note.String)
		assert.Equal(t, []uint64{1}, fx.notifier.completeNotified)
	})

	t.Run("нефинальный этап продвигает на следующий", func(t *testing.T) {
		fx := newApprovalFixture(t, config.ApprovalConfig{}, waitingOrder(1, 150000, 3))
		ceo := entities.Actor{ID: 30, Roles: []string{"general_director"}}

		state, err := fx.service.Approve(ctx, 1, ceo, "")
		require.NoError(t, err)
		assert.Equal(t, constants.ApprovalStatusWaiting, state.ApprovalStatus)
		assert.Equal(t, uint64(4), *state.ApprovalStageID)
		assert.Equal(t, []string{"Правление"}, fx.notifier.stageNotified)
		assert.Empty(t, fx.notifier.completeNotified)
	})

	t.Run("без роли этапа согласование запрещено", func(t *testing.T) {
		fx := newApprovalFixture(t, config.ApprovalConfig{}, waitingOrder(1, 5000, 1))
		stranger := entities.Actor{ID: 77, Roles: []string{"manager"}}

		_, err := fx.service.Approve(ctx, 1, stranger, "")
		var permErr *apperrors.PermissionError
		require.ErrorAs(t, err, &permErr)
		assert.Empty(t, fx.history.rows)

		stored, _ := fx.orderRepo.FindByID(ctx, 1)
		assert.Equal(t, constants.ApprovalStatusWaiting, stored.ApprovalStatus)
	})

	t.Run("терминальные статусы не принимают переходов", func(t *testing.T) {
		approved := waitingOrder(1, 5000, 1)
		approved.ApprovalStatus = constants.ApprovalStatusApproved
		fx := newApprovalFixture(t, config.ApprovalConfig{}, approved)

		_, err := fx.service.Approve(ctx, 1, entities.Actor{ID: 10, Roles: []string{"department_head"}}, "")
		var stateErr *apperrors.StateError
		require.ErrorAs(t, err, &stateErr)
	})

	t.Run("черновик согласовать нельзя", func(t *testing.T) {
		fx := newApprovalFixture(t, config.ApprovalConfig{}, draftOrder(1, 5000))

		_, err := fx.service.Approve(ctx, 1, entities.Actor{ID: 10, Roles: []string{"department_head"}}, "")
		var stateErr *apperrors.StateError
		require.ErrorAs(t, err, &stateErr)
	})
}

func TestApproveParallelStage(t *testing.T) {
	ctx := context.Background()
	boardFirst := entities.Actor{ID: 40, Roles: []string{"board_member"}}
	boardSecond := entities.Actor{ID: 41, Roles: []string{"board_member"}}

	t.Run("этап ждёт всех участников роли", func(t *testing.T) {
		fx := newApprovalFixture(t, config.ApprovalConfig{}, waitingOrder(1, 150000, 4))

		state, err := fx.service.Approve(ctx, 1, boardFirst, "")
		require.NoError(t, err)
		assert.Equal(t, constants.ApprovalStatusWaiting, state.ApprovalStatus)
		assert.Equal(t, uint64(4), *state.ApprovalStageID)

		state, err = fx.service.Approve(ctx, 1, boardSecond, "")
		require.NoError(t, err)
		assert.Equal(t, constants.ApprovalStatusApproved, state.ApprovalStatus)
		assert.Len(t, fx.history.rows, 2)
	})

	t.Run("повторное согласование тем же участником не закрывает этап", func(t *testing.T) {
		fx := newApprovalFixture(t, config.ApprovalConfig{}, waitingOrder(1, 150000, 4))

		for i := 0; i < 3; i++ {
			state, err := fx.service.Approve(ctx, 1, boardFirst, "")
			require.NoError(t, err)
			assert.Equal(t, constants.ApprovalStatusWaiting, state.ApprovalStatus)
		}

		// Каждое действие фиксируется в журнале, даже повторное.
		assert.Len(t, fx.history.rows, 3)
	})
}

func TestApproveAutoConfirm(t *testing.T) {
	ctx := context.Background()

	t.Run("включённый auto_confirm подтверждает заказ", func(t *testing.T) {
		fx := newApprovalFixture(t, config.ApprovalConfig{AutoConfirm: true}, waitingOrder(1, 5000, 1))

		_, err := fx.service.Approve(ctx, 1, entities.Actor{ID: 10, Roles: []string{"department_head"}}, "")
		require.NoError(t, err)

		stored, _ := fx.orderRepo.FindByID(ctx, 1)
		assert.True(t, stored.Confirmed)
	})

	t.Run("выключенный auto_confirm оставляет заказ неподтверждённым", func(t *testing.T) {
		fx := newApprovalFixture(t, config.ApprovalConfig{}, waitingOrder(1, 5000, 1))

		_, err := fx.service.Approve(ctx, 1, entities.Actor{ID: 10, Roles: []string{"department_head"}}, "")
		require.NoError(t, err)

		stored, _ := fx.orderRepo.FindByID(ctx, 1)
		assert.False(t, stored.Confirmed)
	})
}

// ===== ОТКЛОНЕНИЕ =====

func TestReject(t *testing.T) {
	ctx := context.Background()

	t.Run("отклонение из waiting", func(t *testing.T) {
		fx := newApprovalFixture(t, config.ApprovalConfig{}, waitingOrder(1, 5000, 1))

		state, err := fx.service.Reject(ctx, 1, entities.Actor{ID: 55}, "слишком дорого")
		require.NoError(t, err)
		assert.Equal(t, constants.ApprovalStatusRejected, state.ApprovalStatus)

		require.Len(t, fx.history.rows, 1)
		assert.Equal(t, constants.HistoryActionRejected, fx.history.rows[0].Action)
		assert.Equal(t, "слишком дорого", fx.history.rows[0].Note.String)
	})

	t.Run("роль для отклонения не требуется", func(t *testing.T) {
		fx := newApprovalFixture(t, config.ApprovalConfig{}, waitingOrder(1, 150000, 3))

		_, err := fx.service.Reject(ctx, 1, entities.Actor{ID: 55, Roles: nil}, "")
		require.NoError(t, err)
	})

	t.Run("отклонение терминально", func(t *testing.T) {
		fx := newApprovalFixture(t, config.ApprovalConfig{}, waitingOrder(1, 5000, 1))

		_, err := fx.service.Reject(ctx, 1, entities.Actor{ID: 55}, "")
		require.NoError(t, err)

		_, err = fx.service.Approve(ctx, 1, entities.Actor{ID: 10, Roles: []string{"department_head"}}, "")
		var stateErr *apperrors.StateError
		require.ErrorAs(t, err, &stateErr)

		_, err = fx.service.Reject(ctx, 1, entities.Actor{ID: 55}, "")
		require.ErrorAs(t, err, &stateErr)
	})

	t.Run("черновик отклонить нельзя", func(t *testing.T) {
		fx := newApprovalFixture(t, config.ApprovalConfig{}, draftOrder(1, 5000))

		_, err := fx.service.Reject(ctx, 1, entities.Actor{ID: 55}, "")
		var stateErr *apperrors.StateError
		require.ErrorAs(t, err, &stateErr)
	})
}

func TestApproveAfterFlowDeleted(t *testing.T) {
	ctx := context.Background()
	fx := newApprovalFixture(t, config.ApprovalConfig{}, waitingOrder(1, 5000, 1))

	// Маршрут удалили после запроса согласования: заказ хранит
	// устаревшие ссылки, а переход сообщает об ошибке конфигурации.
	require.NoError(t, fx.flowRepo.Delete(ctx, 1))

	_, err := fx.service.Approve(ctx, 1, entities.Actor{ID: 10, Roles: []string{"department_head"}}, "")
	var cfgErr *apperrors.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)

	stored, _ := fx.orderRepo.FindByID(ctx, 1)
	assert.Equal(t, constants.ApprovalStatusWaiting, stored.ApprovalStatus)
	assert.Equal(t, uint64(1), stored.ApprovalFlowID.Uint64)
	assert.Equal(t, uint64(1), stored.ApprovalStageID.Uint64)
}

func TestTransitionEventCarriesActor(t *testing.T) {
	ctx := context.Background()
	fx := newApprovalFixture(t, config.ApprovalConfig{}, waitingOrder(1, 5000, 1))

	received := make(chan events.ApprovalHistoryCreatedEvent, 1)
	fx.bus.Subscribe(events.ApprovalHistoryCreatedEvent{}.Name(), func(ctx context.Context, event eventbus.Event) error {
		if e, ok := event.(events.ApprovalHistoryCreatedEvent); ok {
			received <- e
		}
		return nil
	})

	_, err := fx.service.Approve(ctx, 1, entities.Actor{ID: 10, Roles: []string{"department_head"}}, "")
	require.NoError(t, err)

	select {
	case event := <-received:
		assert.Equal(t, "Тестов Тест", event.ActorFio)
		assert.Equal(t, constants.HistoryActionApproved, event.History.Action)
		assert.Equal(t, "Руководитель отдела", event.StageName)
	case <-time.After(time.Second):
		t.Fatal("событие журнала не опубликовано")
	}
}

// ===== СКВОЗНОЙ СЦЕНАРИЙ =====

func TestFullApprovalChain(t *testing.T) {
	ctx := context.Background()
	fx := newApprovalFixture(t, config.ApprovalConfig{}, draftOrder(1, 200000))

	_, err := fx.service.RequestApproval(ctx, 1, entities.Actor{ID: 99})
	require.NoError(t, err)

	state, err := fx.service.Approve(ctx, 1, entities.Actor{ID: 30, Roles: []string{"general_director"}}, "")
	require.NoError(t, err)
	assert.Equal(t, constants.ApprovalStatusWaiting, state.ApprovalStatus)

	_, err = fx.service.Approve(ctx, 1, entities.Actor{ID: 40, Roles: []string{"board_member"}}, "")
	require.NoError(t, err)

	state, err = fx.service.Approve(ctx, 1, entities.Actor{ID: 41, Roles: []string{"board_member"}}, "")
	require.NoError(t, err)
	assert.Equal(t, constants.ApprovalStatusApproved, state.ApprovalStatus)

	// requested + 3 approved = 4 записи, журнал только растёт.
	assert.Len(t, fx.history.rows, 4)
	for _, row := range fx.history.rows {
		assert.NotZero(t, row.UserID)
		assert.True(t, row.StageID.Valid)
	}
}
