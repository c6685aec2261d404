package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"approval-system/internal/entities"
	"approval-system/internal/repositories"
	"approval-system/pkg/config"
	"approval-system/pkg/constants"
	apperrors "approval-system/pkg/errors"
	"approval-system/pkg/websocket"
)

// NotificationServiceInterface рассылает уведомления процесса согласования.
// Сбой любой отправки никогда не влияет на сам переход: вызывающий слой
// получает NotificationError и решает только, как его залогировать.
type NotificationServiceInterface interface {
	NotifyStageApprovers(ctx context.Context, order *entities.Order, stage *entities.ApprovalStage) error
	NotifyRequesterComplete(ctx context.Context, order *entities.Order) error
	NotifyEscalation(ctx context.Context, order *entities.Order, stage *entities.ApprovalStage, waitingSince time.Time) error
}

// EmailSenderInterface - транспорт почтовых уведомлений.
type EmailSenderInterface interface {
	Send(ctx context.Context, to, subject, body string) error
}

// logEmailSender пишет письмо в лог вместо SMTP. Достаточно для стендов;
// боевой транспорт подключается той же сигнатурой.
type logEmailSender struct {
	logger *zap.Logger
}

func NewLogEmailSender(logger *zap.Logger) EmailSenderInterface {
	return &logEmailSender{logger: logger}
}

func (s *logEmailSender) Send(_ context.Context, to, subject, body string) error {
	s.logger.Info("отправка email-уведомления",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("body", body))
	return nil
}

type NotificationService struct {
	userRepo repositories.UserRepositoryInterface
	email    EmailSenderInterface
	hub      *websocket.Hub
	cfg      config.ApprovalConfig
	logger   *zap.Logger
}

func NewNotificationService(
	userRepo repositories.UserRepositoryInterface,
	email EmailSenderInterface,
	hub *websocket.Hub,
	cfg config.ApprovalConfig,
	logger *zap.Logger,
) NotificationServiceInterface {
	return &NotificationService{
		userRepo: userRepo,
		email:    email,
		hub:      hub,
		cfg:      cfg,
		logger:   logger,
	}
}

// NotifyStageApprovers уведомляет всех участников роли этапа о том, что
// заказ ждёт их решения.
func (s *NotificationService) NotifyStageApprovers(ctx context.Context, order *entities.Order, stage *entities.ApprovalStage) error {
	approvers, err := s.userRepo.ListUsersWithRole(ctx, stage.RoleCode)
	if err != nil {
		return apperrors.NewNotificationError(err, "не удалось получить согласующих роли %q", stage.RoleCode)
	}
	if len(approvers) == 0 {
		s.logger.Warn("у роли этапа нет активных участников, уведомлять некого",
			zap.String("role", stage.RoleCode), zap.String("stage", stage.Name))
		return nil
	}

	subject := fmt.Sprintf("Заказ %s ждёт вашего согласования", order.Number)
	message := fmt.Sprintf("Заказ %s (сумма %.2f) ожидает согласования на этапе %q.",
		order.Number, order.Amount, stage.Name)

	var failed int
	for _, approver := range approvers {
		if err := s.deliver(ctx, approver, order, stage.Name, "stage_waiting", subject, message); err != nil {
			failed++
			s.logger.Warn("не удалось доставить уведомление согласующему",
				zap.Uint64("userID", approver.ID), zap.Error(err))
		}
	}
	if failed == len(approvers) {
		return apperrors.NewNotificationError(nil,
			"ни одно уведомление этапа %q по заказу %s не доставлено", stage.Name, order.Number)
	}
	return nil
}

// NotifyRequesterComplete сообщает инициатору о финальном согласовании заказа.
func (s *NotificationService) NotifyRequesterComplete(ctx context.Context, order *entities.Order) error {
	requester, err := s.userRepo.FindByID(ctx, order.CreatedBy)
	if err != nil {
		return apperrors.NewNotificationError(err, "не удалось найти инициатора заказа %s", order.Number)
	}

	subject := fmt.Sprintf("Заказ %s полностью согласован", order.Number)
	message := fmt.Sprintf("Заказ %s (сумма %.2f) прошёл все этапы согласования.", order.Number, order.Amount)
	if err := s.deliver(ctx, *requester, order, "", "approved", subject, message); err != nil {
		return apperrors.NewNotificationError(err, "не удалось уведомить инициатора заказа %s", order.Number)
	}
	return nil
}

// NotifyEscalation напоминает согласующим этапа о заказе, висящем в
// ожидании дольше порога эскалации.
func (s *NotificationService) NotifyEscalation(ctx context.Context, order *entities.Order, stage *entities.ApprovalStage, waitingSince time.Time) error {
	approvers, err := s.userRepo.ListUsersWithRole(ctx, stage.RoleCode)
	if err != nil {
		return apperrors.NewNotificationError(err, "не удалось получить согласующих роли %q", stage.RoleCode)
	}

	days := int(time.Since(waitingSince).Hours() / 24)
	subject := fmt.Sprintf("Напоминание: заказ %s ждёт согласования %d дн.", order.Number, days)
	message := fmt.Sprintf("Заказ %s (сумма %.2f) ожидает решения на этапе %q с %s.",
		order.Number, order.Amount, stage.Name, waitingSince.Format("02.01.2006"))

	for _, approver := range approvers {
		if err := s.deliver(ctx, approver, order, stage.Name, "escalation", subject, message); err != nil {
			s.logger.Warn("не удалось доставить напоминание об эскалации",
				zap.Uint64("userID", approver.ID), zap.Error(err))
		}
	}
	return nil
}

// deliver отправляет одно уведомление по каналам из конфигурации.
func (s *NotificationService) deliver(ctx context.Context, user entities.User, order *entities.Order, stageName, action, subject, message string) error {
	method := s.cfg.NotificationMethod

	var emailErr, chatErr error
	if method == config.NotifyEmail || method == config.NotifyBoth {
		emailErr = s.email.Send(ctx, user.Email, subject, message)
	}
	if method == config.NotifyChat || method == config.NotifyBoth {
		chatErr = s.hub.SendMessageToUser(user.ID, websocket.ApprovalPayload{
			OrderID:      order.ID,
			OrderNumber:  order.Number,
			DocumentType: order.DocumentType,
			Amount:       order.Amount,
			StageName:    stageName,
			Action:       action,
			Message:      message,
			CreatedAt:    time.Now(),
		}, constants.WSTypeApprovalNotification)
	}

	if emailErr != nil {
		return emailErr
	}
	return chatErr
}
