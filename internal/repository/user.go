package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"IAmFine/internal/model"
)

type GormUserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *GormUserStore {
	return &GormUserStore{db: db}
}

func (s *GormUserStore) GetByPublicID(ctx context.Context, publicID int64) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).
		Where("public_id = ?", publicID).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *GormUserStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *GormUserStore) ListActive(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := s.db.WithContext(ctx).
		Where("status = ?", string(model.UserStatusActive)).
		Find(&users).Error
	return users, err
}

func (s *GormUserStore) ListReminderEnabled(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := s.db.WithContext(ctx).
		Where("status = ?", string(model.UserStatusActive)).
		Where("reminder_enabled = ?", true).
		Find(&users).Error
	return users, err
}

func (s *GormUserStore) UpdateLastCheckin(ctx context.Context, userID int64, at time.Time) error {
	return s.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", userID).
		Update("last_checkin_at", at).Error
}
