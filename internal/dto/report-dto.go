package dto

// ApprovalSummaryFilterDTO - параметры отчёта за период.
type ApprovalSummaryFilterDTO struct {
	DateFrom     string `query:"date_from" validate:"omitempty,datetime=2006-01-02"`
	DateTo       string `query:"date_to" validate:"omitempty,datetime=2006-01-02"`
	DocumentType string `query:"document_type" validate:"omitempty,document_type"`
}

type ApprovalSummaryRowDTO struct {
	OrderID        uint64  `json:"order_id"`
	Number         string  `json:"number"`
	DocumentType   string  `json:"document_type"`
	Amount         float64 `json:"amount"`
	ApprovalStatus string  `json:"approval_status"`
	StageName      string  `json:"stage_name,omitempty"`
	RequestedBy    string  `json:"requested_by,omitempty"`
	RequestedAt    string  `json:"requested_at,omitempty"`
	DecidedAt      string  `json:"decided_at,omitempty"`
}

type ApprovalSummaryDTO struct {
	DateFrom string                  `json:"date_from"`
	DateTo   string                  `json:"date_to"`
	Draft    int                     `json:"draft"`
	Waiting  int                     `json:"waiting"`
	Approved int                     `json:"approved"`
	Rejected int                     `json:"rejected"`
	Rows     []ApprovalSummaryRowDTO `json:"rows"`
}
