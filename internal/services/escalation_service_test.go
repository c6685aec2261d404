package services

import (
	"context"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"approval-system/internal/entities"
	"approval-system/pkg/config"
	"approval-system/pkg/constants"
	apperrors "approval-system/pkg/errors"
)

// flakyNotifier падает на одном заказе и фиксирует остальные доставки.
type flakyNotifier struct {
	fakeNotifier
	failOrderID uint64
	attempts    []uint64
}

func (n *flakyNotifier) NotifyEscalation(ctx context.Context, order *entities.Order, stage *entities.ApprovalStage, waitingSince time.Time) error {
	n.attempts = append(n.attempts, order.ID)
	if order.ID == n.failOrderID {
		return apperrors.NewNotificationError(nil, "доставка по заказу %d не удалась", order.ID)
	}
	return n.fakeNotifier.NotifyEscalation(ctx, order, stage, waitingSince)
}

func TestEscalationScan(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	cfg := config.ApprovalConfig{EscalationThresholdDays: 2}

	stale := func(id uint64, stageID uint64, age time.Duration) *entities.Order {
		updatedAt := now.Add(-age)
		order := waitingOrder(id, 5000, stageID)
		order.UpdatedAt = &updatedAt
		return order
	}

	t.Run("зависшие заказы получают напоминание", func(t *testing.T) {
		orderRepo := newFakeOrderRepo(
			stale(1, 1, 72*time.Hour),
			stale(2, 1, time.Hour),
		)
		flowRepo := newFakeFlowRepo(purchaseFlow())
		notifier := &fakeNotifier{}

		svc := NewEscalationService(orderRepo, flowRepo, notifier, cfg, logger)
		svc.now = func() time.Time { return now }

		require.NoError(t, svc.Scan(ctx))
		assert.Equal(t, []uint64{1}, notifier.escalationOrderID)
	})

	t.Run("терминальные заказы не эскалируются", func(t *testing.T) {
		old := stale(1, 1, 72*time.Hour)
		old.ApprovalStatus = constants.ApprovalStatusApproved
		orderRepo := newFakeOrderRepo(old)
		notifier := &fakeNotifier{}

		svc := NewEscalationService(orderRepo, newFakeFlowRepo(purchaseFlow()), notifier, cfg, logger)
		svc.now = func() time.Time { return now }

		require.NoError(t, svc.Scan(ctx))
		assert.Empty(t, notifier.escalationOrderID)
	})

	t.Run("сбой уведомления по одному заказу не прерывает обход", func(t *testing.T) {
		orderRepo := newFakeOrderRepo(
			stale(1, 1, 72*time.Hour),
			stale(2, 2, 96*time.Hour),
		)
		notifier := &flakyNotifier{failOrderID: 1}

		svc := NewEscalationService(orderRepo, newFakeFlowRepo(purchaseFlow()), notifier, cfg, logger)
		svc.now = func() time.Time { return now }

		require.NoError(t, svc.Scan(ctx))
		assert.ElementsMatch(t, []uint64{1, 2}, notifier.attempts)
		assert.Equal(t, []uint64{2}, notifier.escalationOrderID)
	})

	t.Run("заказ с удалённым маршрутом пропускается, остальные обрабатываются", func(t *testing.T) {
		broken := stale(1, 1, 72*time.Hour)
		broken.ApprovalFlowID = null.Uint64From(999)
		orderRepo := newFakeOrderRepo(broken, stale(2, 2, 96*time.Hour))
		notifier := &fakeNotifier{}

		svc := NewEscalationService(orderRepo, newFakeFlowRepo(purchaseFlow()), notifier, cfg, logger)
		svc.now = func() time.Time { return now }

		require.NoError(t, svc.Scan(ctx))
		assert.Equal(t, []uint64{2}, notifier.escalationOrderID)
	})
}
