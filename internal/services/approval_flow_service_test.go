package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"approval-system/internal/dto"
	"approval-system/internal/entities"
	apperrors "approval-system/pkg/errors"
)

type fakeStageRepo struct {
	stages map[uint64]*entities.ApprovalStage
}

func newFakeStageRepo() *fakeStageRepo {
	return &fakeStageRepo{stages: make(map[uint64]*entities.ApprovalStage)}
}

func (r *fakeStageRepo) Create(ctx context.Context, stage *entities.ApprovalStage) (uint64, error) {
	stage.ID = uint64(len(r.stages) + 1)
	r.stages[stage.ID] = stage
	return stage.ID, nil
}

func (r *fakeStageRepo) Update(ctx context.Context, stage *entities.ApprovalStage) error {
	r.stages[stage.ID] = stage
	return nil
}

func (r *fakeStageRepo) Delete(ctx context.Context, id uint64) error {
	delete(r.stages, id)
	return nil
}

func (r *fakeStageRepo) FindByID(ctx context.Context, id uint64) (*entities.ApprovalStage, error) {
	stage, ok := r.stages[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return stage, nil
}

func (r *fakeStageRepo) ListByFlowID(ctx context.Context, flowID uint64) ([]entities.ApprovalStage, error) {
	var result []entities.ApprovalStage
	for _, s := range r.stages {
		if s.FlowID == flowID {
			result = append(result, *s)
		}
	}
	return result, nil
}

func TestCreateFlowUniqueness(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	t.Run("второй активный маршрут для пары не создаётся", func(t *testing.T) {
		flowRepo := newFakeFlowRepo(purchaseFlow())
		svc := NewApprovalFlowService(flowRepo, newFakeStageRepo(), logger)

		_, err := svc.CreateFlow(ctx, dto.CreateApprovalFlowDTO{
			Name:         "Закупки: дубль",
			DocumentType: "purchase",
			CompanyID:    1,
		})
		var cfgErr *apperrors.ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
	})

	t.Run("неактивный дубль допустим", func(t *testing.T) {
		flowRepo := newFakeFlowRepo(purchaseFlow())
		svc := NewApprovalFlowService(flowRepo, newFakeStageRepo(), logger)

		inactive := false
		created, err := svc.CreateFlow(ctx, dto.CreateApprovalFlowDTO{
			Name:         "Закупки: архивный",
			DocumentType: "purchase",
			CompanyID:    1,
			Active:       &inactive,
		})
		require.NoError(t, err)
		assert.False(t, created.Active)
	})

	t.Run("другая компания не конфликтует", func(t *testing.T) {
		flowRepo := newFakeFlowRepo(purchaseFlow())
		svc := NewApprovalFlowService(flowRepo, newFakeStageRepo(), logger)

		created, err := svc.CreateFlow(ctx, dto.CreateApprovalFlowDTO{
			Name:         "Закупки: филиал",
			DocumentType: "purchase",
			CompanyID:    2,
		})
		require.NoError(t, err)
		assert.True(t, created.Active)
	})
}

func TestStageBoundsValidation(t *testing.T) {
	ctx := context.Background()
	flowRepo := newFakeFlowRepo(purchaseFlow())
	svc := NewApprovalFlowService(flowRepo, newFakeStageRepo(), zap.NewNop())

	t.Run("максимум меньше минимума отклоняется", func(t *testing.T) {
		badMax := 50.0
		_, err := svc.CreateStage(ctx, 1, dto.CreateApprovalStageDTO{
			Name:          "Кривой этап",
			RoleCode:      "manager",
			MinimumAmount: 100,
			MaximumAmount: &badMax,
			ApprovalType:  "mandatory",
		})
		var inputErr *apperrors.InvalidInputError
		require.ErrorAs(t, err, &inputErr)
	})

	t.Run("этап без максимума создаётся", func(t *testing.T) {
		created, err := svc.CreateStage(ctx, 1, dto.CreateApprovalStageDTO{
			Name:          "Без потолка",
			RoleCode:      "manager",
			MinimumAmount: 100,
			ApprovalType:  "mandatory",
		})
		require.NoError(t, err)
		assert.Nil(t, created.MaximumAmount)
	})

	t.Run("этап для несуществующего маршрута", func(t *testing.T) {
		_, err := svc.CreateStage(ctx, 999, dto.CreateApprovalStageDTO{
			Name:         "Сирота",
			RoleCode:     "manager",
			ApprovalType: "mandatory",
		})
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}
