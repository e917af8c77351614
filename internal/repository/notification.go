package repository

import (
	"context"

	"gorm.io/gorm"

	"IAmFine/internal/model"
)

type GormNotificationLogStore struct {
	db *gorm.DB
}

func NewNotificationLogStore(db *gorm.DB) *GormNotificationLogStore {
	return &GormNotificationLogStore{db: db}
}

func (s *GormNotificationLogStore) Create(ctx context.Context, entry *model.NotificationLog) error {
	return s.db.WithContext(ctx).Create(entry).Error
}

func (s *GormNotificationLogStore) ListByUser(ctx context.Context, userID int64, limit int) ([]model.NotificationLog, error) {
	if limit <= 0 {
		limit = 50
	}

	var entries []model.NotificationLog
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("sent_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

func (s *GormNotificationLogStore) StatsByUser(ctx context.Context, userID int64) (*model.NotificationStats, error) {
	stats := &model.NotificationStats{}

	base := func() *gorm.DB {
		return s.db.WithContext(ctx).
			Model(&model.NotificationLog{}).
			Where("user_id = ?", userID)
	}

	if err := base().Count(&stats.TotalCount).Error; err != nil {
		return nil, err
	}
	if err := base().Where("status = ?", string(model.NotificationStatusSuccess)).Count(&stats.SuccessCount).Error; err != nil {
		return nil, err
	}
	if err := base().Where("status = ?", string(model.NotificationStatusFailed)).Count(&stats.FailedCount).Error; err != nil {
		return nil, err
	}
	if err := base().Where("channel = ?", string(model.NotificationChannelSMS)).Count(&stats.SMSCount).Error; err != nil {
		return nil, err
	}
	if err := base().Where("channel = ?", string(model.NotificationChannelEmail)).Count(&stats.EmailCount).Error; err != nil {
		return nil, err
	}

	return stats, nil
}
