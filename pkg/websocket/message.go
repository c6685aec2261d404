package websocket

import "time"

// Envelope — это "конверт", в котором мы отправляем наши сообщения.
type Envelope struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// ApprovalPayload - уведомление о событии процесса согласования.
type ApprovalPayload struct {
	OrderID      uint64    `json:"orderId"`
	OrderNumber  string    `json:"orderNumber"`
	DocumentType string    `json:"documentType"`
	Amount       float64   `json:"amount"`
	StageName    string    `json:"stageName,omitempty"`
	Action       string    `json:"action"`
	Message      string    `json:"message"`
	CreatedAt    time.Time `json:"created_at"`
}
