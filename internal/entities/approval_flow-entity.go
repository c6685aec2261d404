package entities

import (
	"approval-system/pkg/types"
)

// ApprovalFlow - маршрут согласования: упорядоченный набор этапов
// для одного типа документа в рамках одной компании.
// Инвариант: не более одного активного маршрута на пару (тип, компания).
type ApprovalFlow struct {
	ID           uint64 `json:"id" db:"id"`
	Name         string `json:"name" db:"name"`
	Sequence     int    `json:"sequence" db:"sequence"`
	DocumentType string `json:"document_type" db:"document_type"`
	CompanyID    uint64 `json:"company_id" db:"company_id"`
	Active       bool   `json:"active" db:"active"`

	// Stages отсортированы по (sequence, id).
	Stages []ApprovalStage `json:"stages,omitempty"`

	types.BaseEntity
}

// StageByID ищет этап маршрута по его идентификатору.
func (f *ApprovalFlow) StageByID(stageID uint64) *ApprovalStage {
	for i := range f.Stages {
		if f.Stages[i].ID == stageID {
			return &f.Stages[i]
		}
	}
	return nil
}
