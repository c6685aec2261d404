package services

import (
	"go.uber.org/zap"

	"approval-system/internal/entities"
	apperrors "approval-system/pkg/errors"
)

// PickActiveFlow выбирает единственный активный маршрут из выборки.
// По инварианту конфигурации маршрут один; если их оказалось больше,
// авторитетным считается первый по (sequence, id), а дубликаты
// подсвечиваются в логе как ошибка конфигурации.
func PickActiveFlow(flows []entities.ApprovalFlow, documentType string, companyID uint64, logger *zap.Logger) *entities.ApprovalFlow {
	if len(flows) == 0 {
		return nil
	}
	if len(flows) > 1 && logger != nil {
		logger.Warn("найдено несколько активных маршрутов для пары (тип, компания), используется первый",
			zap.String("documentType", documentType),
			zap.Uint64("companyID", companyID),
			zap.Int("count", len(flows)),
			zap.Uint64("pickedFlowID", flows[0].ID),
		)
	}
	return &flows[0]
}

// ResolveStage находит первый по (sequence, id) этап маршрута, в диапазон
// которого попадает сумма. Обе границы включительные, невалидный максимум
// означает "без верхней границы".
//
// Маршрут без этапов и сумма, не попавшая ни в один диапазон, - ошибки
// конфигурации. Старое поведение "вернуть первый этап, если ничего не
// подошло" сознательно не воспроизводится: дыра между диапазонами должна
// быть видна администратору, а не закрываться произвольным этапом.
func ResolveStage(flow *entities.ApprovalFlow, amount float64) (*entities.ApprovalStage, error) {
	if flow == nil || len(flow.Stages) == 0 {
		return nil, apperrors.NewConfigurationError("в маршруте согласования не настроено ни одного этапа")
	}

	for i := range flow.Stages {
		if flow.Stages[i].Matches(amount) {
			return &flow.Stages[i], nil
		}
	}

	return nil, apperrors.NewConfigurationError(
		"сумма %.2f не попадает ни в один диапазон этапов маршрута %q", amount, flow.Name)
}

// NextStage возвращает этап, следующий за текущим в порядке (sequence, id),
// или nil, если текущий этап последний. Stages уже отсортированы
// репозиторием, поэтому поиск сводится к взятию следующего элемента.
func NextStage(flow *entities.ApprovalFlow, currentStageID uint64) *entities.ApprovalStage {
	for i := range flow.Stages {
		if flow.Stages[i].ID == currentStageID {
			if i+1 < len(flow.Stages) {
				return &flow.Stages[i+1]
			}
			return nil
		}
	}
	return nil
}
