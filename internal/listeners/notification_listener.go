package listeners

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"approval-system/internal/events"
	"approval-system/pkg/constants"
	"approval-system/pkg/eventbus"
	"approval-system/pkg/websocket"
)

// flushDelay - окно группировки: записи журнала, созданные одной
// транзакцией перехода, уходят инициатору одним сообщением.
const flushDelay = 2 * time.Second

type eventGroupKey struct {
	OrderID uint64
	TxID    string
}

type eventGroup struct {
	events []events.ApprovalHistoryCreatedEvent
	timer  *time.Timer
}

// NotificationListener слушает события журнала согласования и шлёт
// инициатору заказа сообщения в ленту через WebSocket. Лента - чистая
// наблюдаемость: потеря сообщения ни на что не влияет.
type NotificationListener struct {
	hub      *websocket.Hub
	logger   *zap.Logger
	groups   map[eventGroupKey]*eventGroup
	groupsMu sync.Mutex
}

func NewNotificationListener(hub *websocket.Hub, logger *zap.Logger) *NotificationListener {
	return &NotificationListener{
		hub:    hub,
		logger: logger,
		groups: make(map[eventGroupKey]*eventGroup),
	}
}

func (l *NotificationListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.ApprovalHistoryCreatedEvent{}.Name(), l.HandleApprovalHistoryCreated)
}

func (l *NotificationListener) HandleApprovalHistoryCreated(_ context.Context, event eventbus.Event) error {
	historyEvent, ok := event.(events.ApprovalHistoryCreatedEvent)
	if !ok {
		return fmt.Errorf("неожиданный тип события: %T", event)
	}

	key := eventGroupKey{
		OrderID: historyEvent.Order.ID,
		TxID:    historyEvent.History.TxID.String(),
	}

	l.groupsMu.Lock()
	defer l.groupsMu.Unlock()

	group, exists := l.groups[key]
	if !exists {
		group = &eventGroup{}
		group.timer = time.AfterFunc(flushDelay, func() { l.flush(key) })
		l.groups[key] = group
	}
	group.events = append(group.events, historyEvent)
	return nil
}

func (l *NotificationListener) flush(key eventGroupKey) {
	l.groupsMu.Lock()
	group, exists := l.groups[key]
	if exists {
		delete(l.groups, key)
	}
	l.groupsMu.Unlock()

	if !exists || len(group.events) == 0 {
		return
	}

	last := group.events[len(group.events)-1]
	payload := websocket.ApprovalPayload{
		OrderID:      last.Order.ID,
		OrderNumber:  last.Order.Number,
		DocumentType: last.Order.DocumentType,
		Amount:       last.Order.Amount,
		StageName:    last.StageName,
		Action:       last.History.Action,
		Message:      l.feedMessage(last),
		CreatedAt:    time.Now(),
	}

	if err := l.hub.SendMessageToUser(last.Order.CreatedBy, payload, constants.WSTypeApprovalNotification); err != nil {
		l.logger.Debug("сообщение ленты не доставлено, пользователь офлайн",
			zap.Uint64("userID", last.Order.CreatedBy),
			zap.Uint64("orderID", last.Order.ID),
			zap.Error(err))
	}
}

func (l *NotificationListener) feedMessage(event events.ApprovalHistoryCreatedEvent) string {
	actor := event.ActorFio
	if actor == "" {
		actor = fmt.Sprintf("пользователь #%d", event.History.UserID)
	}

	switch event.History.Action {
	case constants.HistoryActionRequested:
		return fmt.Sprintf("Заказ %s отправлен на согласование, этап %q.", event.Order.Number, event.StageName)
	case constants.HistoryActionApproved:
		if event.Order.ApprovalStatus == constants.ApprovalStatusApproved {
			return fmt.Sprintf("Заказ %s полностью согласован (%s).", event.Order.Number, actor)
		}
		return fmt.Sprintf("Этап %q заказа %s согласован (%s).", event.StageName, event.Order.Number, actor)
	case constants.HistoryActionRejected:
		return fmt.Sprintf("Заказ %s отклонён (%s).", event.Order.Number, actor)
	default:
		return fmt.Sprintf("Заказ %s: действие %q (%s).", event.Order.Number, event.History.Action, actor)
	}
}
