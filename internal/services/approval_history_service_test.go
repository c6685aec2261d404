package services

import (
	"context"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"approval-system/internal/entities"
	"approval-system/pkg/constants"
	apperrors "approval-system/pkg/errors"
)

func TestHistoryGetByOrderID(t *testing.T) {
	ctx := context.Background()

	t.Run("записи журнала отдаются с датой", func(t *testing.T) {
		orderRepo := newFakeOrderRepo(waitingOrder(1, 5000, 1))
		historyRepo := &fakeHistoryRepo{rows: []entities.ApprovalHistory{
			{
				ID:        1,
				OrderID:   1,
				StageID:   null.Uint64From(1),
				Action:    constants.HistoryActionRequested,
				UserID:    99,
				CreatedAt: time.Date(2026, 8, 30, 10, 30, 0, 0, time.UTC),
			},
			{
				ID:      2,
				OrderID: 1,
				Action:  constants.HistoryActionApproved,
				UserID:  10,
				Note:    null.StringFrom("ок"),
			},
		}}

		svc := NewApprovalHistoryService(historyRepo, orderRepo)
		items, err := svc.GetByOrderID(ctx, 1)
		require.NoError(t, err)
		require.Len(t, items, 2)

		assert.Equal(t, "2026-08-30 10:30:00", items[0].Date)
		require.NotNil(t, items[0].StageID)
		assert.Equal(t, uint64(1), *items[0].StageID)

		// Нулевая дата не форматируется.
		assert.Equal(t, "", items[1].Date)
		assert.Nil(t, items[1].StageID)
		assert.Equal(t, "ок", items[1].Note)
	})

	t.Run("несуществующий заказ", func(t *testing.T) {
		svc := NewApprovalHistoryService(&fakeHistoryRepo{}, newFakeOrderRepo())
		_, err := svc.GetByOrderID(ctx, 42)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}
