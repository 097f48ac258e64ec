package services

import (
	"context"
	"faceboobs/server/internal/events"
	"faceboobs/server/internal/models"
	"faceboobs/shared/logger"
	"time"

	"go.uber.org/zap"
)

// NotificationStore is the persistence surface the fan-out needs.
type NotificationStore interface {
	InsertNotification(ctx context.Context, notification *models.Notification) error
	ListNotifications(ctx context.Context, recipient string, limit int) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, notificationID uint, recipient string) error
	MarkAllNotificationsRead(ctx context.Context, recipient string) error
}

// UserReader resolves wallet addresses to user rows.
type UserReader interface {
	GetUserByAddress(ctx context.Context, address string) (*models.User, error)
}

// NotificationService writes denormalized notification rows at the moment of
// the triggering action and mirrors each successful write onto the realtime
// hub. Writes are best-effort: a failure is logged and swallowed so the
// triggering action still succeeds.
type NotificationService struct {
	store     NotificationStore
	users     UserReader
	hub       *Hub
	appLogger *logger.Logger
}

func NewNotificationService(store NotificationStore, users UserReader, hub *Hub, appLogger *logger.Logger) *NotificationService {
	return &NotificationService{store: store, users: users, hub: hub, appLogger: appLogger}
}

// Fanout records a notification for recipient. Self-targeted notifications
// are silently skipped; a user never gets notified about their own action.
func (ns *NotificationService) Fanout(ctx context.Context, notificationType, recipient, originator string, postID *uint) {
	if recipient == "" || recipient == originator {
		return
	}

	originatorUsername := ""
	if user, err := ns.users.GetUserByAddress(ctx, originator); err == nil && user != nil {
		originatorUsername = user.Username
	}

	notification := &models.Notification{
		RecipientAddress:   recipient,
		Type:               notificationType,
		OriginatorAddress:  originator,
		OriginatorUsername: originatorUsername,
		PostID:             postID,
	}

	if err := ns.store.InsertNotification(ctx, notification); err != nil {
		ns.appLogger.Warn("Notification write failed, triggering action still succeeded",
			zap.String("type", notificationType),
			zap.String("recipient", recipient),
			zap.String("originator", originator),
			zap.Error(err))
		return
	}

	if ns.hub != nil {
		ns.hub.Publish(events.Event{
			Kind:       notificationType,
			Recipient:  recipient,
			Originator: originator,
			PostID:     postID,
			Payload:    notification,
			CreatedAt:  time.Now(),
		})
	}
}

func (ns *NotificationService) List(ctx context.Context, recipient string, limit int) ([]models.Notification, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return ns.store.ListNotifications(ctx, recipient, limit)
}

func (ns *NotificationService) MarkRead(ctx context.Context, notificationID uint, recipient string) error {
	return ns.store.MarkNotificationRead(ctx, notificationID, recipient)
}

func (ns *NotificationService) MarkAllRead(ctx context.Context, recipient string) error {
	return ns.store.MarkAllNotificationsRead(ctx, recipient)
}
