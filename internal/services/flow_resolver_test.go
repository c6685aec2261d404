package services

import (
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"approval-system/internal/entities"
	apperrors "approval-system/pkg/errors"
)

func makeFlow(stages ...entities.ApprovalStage) *entities.ApprovalFlow {
	return &entities.ApprovalFlow{
		ID:           1,
		Name:         "Закупки: базовый маршрут",
		DocumentType: "purchase",
		CompanyID:    1,
		Active:       true,
		Stages:       stages,
	}
}

func TestPickActiveFlow(t *testing.T) {
	logger := zap.NewNop()

	t.Run("пустая выборка", func(t *testing.T) {
		assert.Nil(t, PickActiveFlow(nil, "purchase", 1, logger))
	})

	t.Run("единственный маршрут", func(t *testing.T) {
		flows := []entities.ApprovalFlow{{ID: 7}}
		picked := PickActiveFlow(flows, "purchase", 1, logger)
		require.NotNil(t, picked)
		assert.Equal(t, uint64(7), picked.ID)
	})

	t.Run("при дубликатах берётся первый", func(t *testing.T) {
		flows := []entities.ApprovalFlow{{ID: 3, Sequence: 10}, {ID: 9, Sequence: 20}}
		picked := PickActiveFlow(flows, "purchase", 1, logger)
		require.NotNil(t, picked)
		assert.Equal(t, uint64(3), picked.ID)
	})
}

func TestResolveStage(t *testing.T) {
	low := entities.ApprovalStage{ID: 1, Name: "Руководитель", Sequence: 10, MinimumAmount: 0, MaximumAmount: null.Float64From(10000)}
	mid := entities.ApprovalStage{ID: 2, Name: "Финдиректор", Sequence: 20, MinimumAmount: 10000.01, MaximumAmount: null.Float64From(100000)}
	high := entities.ApprovalStage{ID: 3, Name: "Гендиректор", Sequence: 30, MinimumAmount: 100000.01}

	flow := makeFlow(low, mid, high)

	t.Run("сумма попадает в первый подходящий диапазон", func(t *testing.T) {
		stage, err := ResolveStage(flow, 5000)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), stage.ID)
	})

	t.Run("границы включительные", func(t *testing.T) {
		stage, err := ResolveStage(flow, 10000)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), stage.ID)

		stage, err = ResolveStage(flow, 10000.01)
		require.NoError(t, err)
		assert.Equal(t, uint64(2), stage.ID)
	})

	t.Run("невалидный максимум означает отсутствие верхней границы", func(t *testing.T) {
		stage, err := ResolveStage(flow, 5000000)
		require.NoError(t, err)
		assert.Equal(t, uint64(3), stage.ID)
	})

	t.Run("нулевая сумма согласуется", func(t *testing.T) {
		stage, err := ResolveStage(flow, 0)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), stage.ID)
	})

	t.Run("дыра между диапазонами - ошибка конфигурации", func(t *testing.T) {
		gapped := makeFlow(
			entities.ApprovalStage{ID: 1, Sequence: 10, MinimumAmount: 0, MaximumAmount: null.Float64From(1000)},
			entities.ApprovalStage{ID: 2, Sequence: 20, MinimumAmount: 5000},
		)
		_, err := ResolveStage(gapped, 3000)
		require.Error(t, err)
		var cfgErr *apperrors.ConfigurationError
		assert.ErrorAs(t, err, &cfgErr)
	})

	t.Run("маршрут без этапов - ошибка конфигурации", func(t *testing.T) {
		_, err := ResolveStage(makeFlow(), 100)
		require.Error(t, err)
		var cfgErr *apperrors.ConfigurationError
		assert.ErrorAs(t, err, &cfgErr)
	})

	t.Run("при пересечении диапазонов выигрывает первый по порядку", func(t *testing.T) {
		overlapping := makeFlow(
			entities.ApprovalStage{ID: 1, Sequence: 10, MinimumAmount: 0, MaximumAmount: null.Float64From(10000)},
			entities.ApprovalStage{ID: 2, Sequence: 20, MinimumAmount: 0, MaximumAmount: null.Float64From(10000)},
		)
		stage, err := ResolveStage(overlapping, 500)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), stage.ID)
	})
}

func TestNextStage(t *testing.T) {
	first := entities.ApprovalStage{ID: 1, Sequence: 10}
	second := entities.ApprovalStage{ID: 2, Sequence: 20}
	third := entities.ApprovalStage{ID: 3, Sequence: 30}
	flow := makeFlow(first, second, third)

	t.Run("возвращает следующий по порядку", func(t *testing.T) {
		next := NextStage(flow, 1)
		require.NotNil(t, next)
		assert.Equal(t, uint64(2), next.ID)
	})

	t.Run("после последнего этапа следующего нет", func(t *testing.T) {
		assert.Nil(t, NextStage(flow, 3))
	})

	t.Run("неизвестный этап", func(t *testing.T) {
		assert.Nil(t, NextStage(flow, 99))
	})
}

func TestStageMatches(t *testing.T) {
	bounded := entities.ApprovalStage{MinimumAmount: 100, MaximumAmount: null.Float64From(200)}
	assert.False(t, bounded.Matches(99.99))
	assert.True(t, bounded.Matches(100))
	assert.True(t, bounded.Matches(200))
	assert.False(t, bounded.Matches(200.01))

	unbounded := entities.ApprovalStage{MinimumAmount: 100}
	assert.True(t, unbounded.Matches(1e12))

	zeroCap := entities.ApprovalStage{MinimumAmount: 0, MaximumAmount: null.Float64From(0)}
	assert.True(t, zeroCap.Matches(0))
	assert.False(t, zeroCap.Matches(0.01))
}
