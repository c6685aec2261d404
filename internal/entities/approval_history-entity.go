package entities

import (
	"time"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
)

// ApprovalHistory - неизменяемая запись журнала согласования.
// Создаётся только машиной состояний, никогда не обновляется и не удаляется.
// StageID переживает удаление самого этапа (колонка без внешнего ключа).
type ApprovalHistory struct {
	ID      uint64      `db:"id"`
	OrderID uint64      `db:"order_id"`
	StageID null.Uint64 `db:"stage_id"`
	Action  string      `db:"action"`
	UserID  uint64      `db:"user_id"`
	Note    null.String `db:"note"`
	// TxID группирует записи одного перехода для слушателя уведомлений.
	TxID      uuid.UUID `db:"tx_id"`
	CreatedAt time.Time `db:"created_at"`
}
