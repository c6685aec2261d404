package events

import (
	"approval-system/internal/entities"
)

// ApprovalHistoryCreatedEvent - возникает после каждой записи в журнал
// согласования. Канал наблюдаемости: слушатели шлют уведомления в ленту
// заказа, на корректность машины состояний не влияют.
type ApprovalHistoryCreatedEvent struct {
	History   entities.ApprovalHistory
	Order     entities.Order
	StageName string
	ActorFio  string
}

func (e ApprovalHistoryCreatedEvent) Name() string {
	return "approval.history.created"
}
