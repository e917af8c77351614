package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"IAmFine/internal/model"
)

type GormCheckinStore struct {
	db *gorm.DB
}

func NewCheckinStore(db *gorm.DB) *GormCheckinStore {
	return &GormCheckinStore{db: db}
}

// Create relies on the (user_id, checkin_date) unique index: a concurrent
// duplicate insert fails atomically instead of racing a lookup.
func (s *GormCheckinStore) Create(ctx context.Context, checkin *model.DailyCheckin) error {
	return s.db.WithContext(ctx).Create(checkin).Error
}

func (s *GormCheckinStore) ListDatesDesc(ctx context.Context, userID int64) ([]time.Time, error) {
	var dates []time.Time
	err := s.db.WithContext(ctx).
		Model(&model.DailyCheckin{}).
		Where("user_id = ?", userID).
		Order("checkin_date DESC").
		Pluck("checkin_date", &dates).Error
	return dates, err
}

func (s *GormCheckinStore) ListSinceDesc(ctx context.Context, userID int64, since time.Time) ([]model.DailyCheckin, error) {
	var rows []model.DailyCheckin
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("checkin_date >= ?", since).
		Order("checkin_date DESC").
		Find(&rows).Error
	return rows, err
}
