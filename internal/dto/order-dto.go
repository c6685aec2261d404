package dto

type CreateOrderDTO struct {
	Number       string  `json:"number" validate:"required,min=2,max=64"`
	DocumentType string  `json:"document_type" validate:"required,document_type"`
	CompanyID    uint64  `json:"company_id" validate:"required"`
	Amount       float64 `json:"amount" validate:"gte=0"`
}

type OrderDTO struct {
	ID              uint64  `json:"id"`
	Number          string  `json:"number"`
	DocumentType    string  `json:"document_type"`
	CompanyID       uint64  `json:"company_id"`
	Amount          float64 `json:"amount"`
	ApprovalStatus  string  `json:"approval_status"`
	ApprovalFlowID  *uint64 `json:"approval_flow_id"`
	ApprovalStageID *uint64 `json:"approval_stage_id"`
	StageName       string  `json:"stage_name,omitempty"`
	Confirmed       bool    `json:"confirmed"`
	CreatedBy       uint64  `json:"created_by"`
	CreatedAt       string  `json:"created_at,omitempty"`
	UpdatedAt       string  `json:"updated_at,omitempty"`
}

// ApprovalActionDTO - тело запросов approve/reject.
type ApprovalActionDTO struct {
	Note string `json:"note" validate:"omitempty,max=1024"`
}

// ApprovalStateDTO - результат перехода, отдаётся инициатору.
type ApprovalStateDTO struct {
	OrderID         uint64  `json:"order_id"`
	ApprovalStatus  string  `json:"approval_status"`
	ApprovalStageID *uint64 `json:"approval_stage_id"`
	StageName       string  `json:"stage_name,omitempty"`
}
