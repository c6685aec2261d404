package entities

import (
	"github.com/aarondl/null/v8"

	"approval-system/pkg/types"
)

// Order - коммерческий заказ (закупка или продажа), проходящий согласование.
// ApprovalFlowID выставляется при запросе согласования и сохраняется,
// даже если маршрут позже деактивируют или удалят.
type Order struct {
	ID              uint64      `json:"id" db:"id"`
	Number          string      `json:"number" db:"number"`
	DocumentType    string      `json:"document_type" db:"document_type"`
	CompanyID       uint64      `json:"company_id" db:"company_id"`
	Amount          float64     `json:"amount" db:"amount"`
	ApprovalStatus  string      `json:"approval_status" db:"approval_status"`
	ApprovalFlowID  null.Uint64 `json:"approval_flow_id" db:"approval_flow_id"`
	ApprovalStageID null.Uint64 `json:"approval_stage_id" db:"approval_stage_id"`
	Confirmed       bool        `json:"confirmed" db:"confirmed"`
	CreatedBy       uint64      `json:"created_by" db:"created_by"`

	types.BaseEntity
}
