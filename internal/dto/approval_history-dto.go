package dto

type ApprovalHistoryDTO struct {
	ID        uint64  `json:"id"`
	OrderID   uint64  `json:"order_id"`
	StageID   *uint64 `json:"stage_id"`
	StageName string  `json:"stage_name,omitempty"`
	Action    string  `json:"action"`
	UserID    uint64  `json:"user_id"`
	ActorFio  string  `json:"actor_fio,omitempty"`
	Note      string  `json:"note,omitempty"`
	Date      string  `json:"date"`
}
