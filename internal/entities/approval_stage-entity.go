package entities

import (
	"github.com/aarondl/null/v8"

	"approval-system/pkg/types"
)

// ApprovalStage - один этап согласования внутри маршрута.
// Порядок этапов задаётся sequence, при равенстве - id (порядок создания).
type ApprovalStage struct {
	ID       uint64 `json:"id" db:"id"`
	FlowID   uint64 `json:"flow_id" db:"flow_id"`
	Name     string `json:"name" db:"name"`
	Sequence int    `json:"sequence" db:"sequence"`
	// RoleCode - код роли (группы) согласующих, не конкретный пользователь.
	RoleCode      string  `json:"role_code" db:"role_code"`
	MinimumAmount float64 `json:"minimum_amount" db:"minimum_amount"`
	// MaximumAmount: невалидное значение = "без верхней границы".
	// Нулевой верхней границей может быть и честный ноль (бесплатный заказ).
	MaximumAmount null.Float64 `json:"maximum_amount" db:"maximum_amount"`
	IsFinal       bool         `json:"is_final" db:"is_final"`
	// AutoApprove хранится и валидируется, но логикой переходов
	// не читается (нереализованный хук, ждёт уточнения от продукта).
	AutoApprove  bool   `json:"auto_approve" db:"auto_approve"`
	ApprovalType string `json:"approval_type" db:"approval_type"`

	types.BaseEntity
}

// Matches сообщает, попадает ли сумма в диапазон этапа.
// Обе границы включительные.
func (s *ApprovalStage) Matches(amount float64) bool {
	if amount < s.MinimumAmount {
		return false
	}
	if s.MaximumAmount.Valid && amount > s.MaximumAmount.Float64 {
		return false
	}
	return true
}
