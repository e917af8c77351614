package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"IAmFine/internal/model"
)

type GormContactStore struct {
	db *gorm.DB
}

func NewContactStore(db *gorm.DB) *GormContactStore {
	return &GormContactStore{db: db}
}

func (s *GormContactStore) Create(ctx context.Context, contact *model.Contact) error {
	return s.db.WithContext(ctx).Create(contact).Error
}

func (s *GormContactStore) ListByUser(ctx context.Context, userID int64) ([]model.Contact, error) {
	var contacts []model.Contact
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("priority ASC, created_at ASC").
		Find(&contacts).Error
	return contacts, err
}

func (s *GormContactStore) CountByUser(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.Contact{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// Delete removes the contact for good. A soft delete would keep the row
// holding its (user, priority) unique slot, so the slot could never be reused.
func (s *GormContactStore) Delete(ctx context.Context, userID, contactID int64) (bool, error) {
	result := s.db.WithContext(ctx).
		Unscoped().
		Where("user_id = ?", userID).
		Where("id = ?", contactID).
		Delete(&model.Contact{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (s *GormContactStore) FindPrimary(ctx context.Context, userID int64) (*model.Contact, error) {
	var contact model.Contact
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("priority ASC, created_at ASC").
		First(&contact).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &contact, nil
}
