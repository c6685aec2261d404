package dto

type CreateApprovalFlowDTO struct {
	Name         string `json:"name" validate:"required,min=2,max=255"`
	Sequence     int    `json:"sequence" validate:"gte=0"`
	DocumentType string `json:"document_type" validate:"required,document_type"`
	CompanyID    uint64 `json:"company_id" validate:"required"`
	Active       *bool  `json:"active"`
}

type UpdateApprovalFlowDTO struct {
	Name     *string `json:"name" validate:"omitempty,min=2,max=255"`
	Sequence *int    `json:"sequence" validate:"omitempty,gte=0"`
	Active   *bool   `json:"active"`
}

type ApprovalFlowDTO struct {
	ID           uint64             `json:"id"`
	Name         string             `json:"name"`
	Sequence     int                `json:"sequence"`
	DocumentType string             `json:"document_type"`
	CompanyID    uint64             `json:"company_id"`
	Active       bool               `json:"active"`
	Stages       []ApprovalStageDTO `json:"stages"`
	CreatedAt    string             `json:"created_at,omitempty"`
	UpdatedAt    string             `json:"updated_at,omitempty"`
}

type CreateApprovalStageDTO struct {
	Name          string   `json:"name" validate:"required,min=2,max=255"`
	Sequence      int      `json:"sequence" validate:"gte=0"`
	RoleCode      string   `json:"role_code" validate:"required"`
	MinimumAmount float64  `json:"minimum_amount" validate:"gte=0"`
	MaximumAmount *float64 `json:"maximum_amount" validate:"omitempty,gte=0"`
	IsFinal       bool     `json:"is_final"`
	AutoApprove   bool     `json:"auto_approve"`
	ApprovalType  string   `json:"approval_type" validate:"required,approval_type"`
}

type UpdateApprovalStageDTO struct {
	Name          *string  `json:"name" validate:"omitempty,min=2,max=255"`
	Sequence      *int     `json:"sequence" validate:"omitempty,gte=0"`
	RoleCode      *string  `json:"role_code"`
	MinimumAmount *float64 `json:"minimum_amount" validate:"omitempty,gte=0"`
	MaximumAmount *float64 `json:"maximum_amount" validate:"omitempty,gte=0"`
	IsFinal       *bool    `json:"is_final"`
	AutoApprove   *bool    `json:"auto_approve"`
	ApprovalType  *string  `json:"approval_type" validate:"omitempty,approval_type"`
}

type ApprovalStageDTO struct {
	ID            uint64   `json:"id"`
	FlowID        uint64   `json:"flow_id"`
	Name          string   `json:"name"`
	Sequence      int      `json:"sequence"`
	RoleCode      string   `json:"role_code"`
	MinimumAmount float64  `json:"minimum_amount"`
	MaximumAmount *float64 `json:"maximum_amount"`
	IsFinal       bool     `json:"is_final"`
	AutoApprove   bool     `json:"auto_approve"`
	ApprovalType  string   `json:"approval_type"`
}
