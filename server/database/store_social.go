package database

import (
	"context"
	"errors"
	"faceboobs/server/internal/models"

	"gorm.io/gorm"
)

func (s *Store) InsertPurchase(ctx context.Context, purchase *models.Purchase) error {
	return s.db.WithContext(ctx).Create(purchase).Error
}

func (s *Store) PurchaseExists(ctx context.Context, buyer string, postID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Purchase{}).
		Where("buyer_address = ? AND post_id = ?", buyer, postID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) ListPurchasesByBuyer(ctx context.Context, buyer string) ([]models.Purchase, error) {
	var purchases []models.Purchase
	err := s.db.WithContext(ctx).
		Where("buyer_address = ?", buyer).
		Order("created_at DESC").
		Find(&purchases).Error
	return purchases, err
}

func (s *Store) InsertNotification(ctx context.Context, notification *models.Notification) error {
	return s.db.WithContext(ctx).Create(notification).Error
}

func (s *Store) ListNotifications(ctx context.Context, recipient string, limit int) ([]models.Notification, error) {
	var notifications []models.Notification
	err := s.db.WithContext(ctx).
		Where("recipient_address = ?", recipient).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error
	return notifications, err
}

func (s *Store) MarkNotificationRead(ctx context.Context, notificationID uint, recipient string) error {
	return s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND recipient_address = ?", notificationID, recipient).
		Update("is_read", true).Error
}

func (s *Store) MarkAllNotificationsRead(ctx context.Context, recipient string) error {
	return s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_address = ? AND is_read = ?", recipient, false).
		Update("is_read", true).Error
}

func (s *Store) InsertMessage(ctx context.Context, message *models.Message) error {
	return s.db.WithContext(ctx).Create(message).Error
}

func (s *Store) ListMessagesBetween(ctx context.Context, a, b string) ([]models.Message, error) {
	var messages []models.Message
	err := s.db.WithContext(ctx).
		Where("(sender_address = ? AND receiver_address = ?) OR (sender_address = ? AND receiver_address = ?)", a, b, b, a).
		Order("created_at ASC").
		Find(&messages).Error
	return messages, err
}

func (s *Store) ListMessagesForUser(ctx context.Context, address string) ([]models.Message, error) {
	var messages []models.Message
	err := s.db.WithContext(ctx).
		Where("sender_address = ? OR receiver_address = ?", address, address).
		Order("created_at DESC").
		Find(&messages).Error
	return messages, err
}

func (s *Store) MarkConversationRead(ctx context.Context, reader, counterpart string) error {
	return s.db.WithContext(ctx).Model(&models.Message{}).
		Where("receiver_address = ? AND sender_address = ? AND is_read = ?", reader, counterpart, false).
		Update("is_read", true).Error
}

func (s *Store) InsertMediaBlob(ctx context.Context, blob *models.MediaBlob) error {
	return s.db.WithContext(ctx).Create(blob).Error
}

// GetMediaBlob returns (nil, nil) when no blob is cached under the id.
func (s *Store) GetMediaBlob(ctx context.Context, id string) (*models.MediaBlob, error) {
	var blob models.MediaBlob
	result := s.db.WithContext(ctx).Where("id = ?", id).First(&blob)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &blob, nil
}
