// Package repository defines the persistence seams the services depend on,
// plus their gorm implementations. Interfaces return plain model values so
// the services never navigate an object graph.
package repository

import (
	"context"
	"time"

	"IAmFine/internal/model"
)

type UserStore interface {
	GetByPublicID(ctx context.Context, publicID int64) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	// ListActive returns all users with status active, the sweep population.
	ListActive(ctx context.Context) ([]model.User, error)
	// ListReminderEnabled returns active users who opted into daily reminders.
	ListReminderEnabled(ctx context.Context) ([]model.User, error)
	UpdateLastCheckin(ctx context.Context, userID int64, at time.Time) error
}

type CheckinStore interface {
	// Create inserts one check-in row. A (user, date) duplicate surfaces as
	// gorm.ErrDuplicatedKey, concurrent inserts included.
	Create(ctx context.Context, checkin *model.DailyCheckin) error
	// ListDatesDesc returns all check-in dates for a user, newest first.
	ListDatesDesc(ctx context.Context, userID int64) ([]time.Time, error)
	// ListSinceDesc returns check-in rows on or after the given date, newest first.
	ListSinceDesc(ctx context.Context, userID int64, since time.Time) ([]model.DailyCheckin, error)
}

type ContactStore interface {
	Create(ctx context.Context, contact *model.Contact) error
	// ListByUser returns contacts ordered by priority asc, creation asc.
	ListByUser(ctx context.Context, userID int64) ([]model.Contact, error)
	CountByUser(ctx context.Context, userID int64) (int64, error)
	Delete(ctx context.Context, userID, contactID int64) (bool, error)
	// FindPrimary resolves the highest-priority contact (lowest priority
	// value, earliest created on ties). Returns (nil, nil) when the user has
	// no contacts.
	FindPrimary(ctx context.Context, userID int64) (*model.Contact, error)
}

type NotificationLogStore interface {
	Create(ctx context.Context, entry *model.NotificationLog) error
	ListByUser(ctx context.Context, userID int64, limit int) ([]model.NotificationLog, error)
	StatsByUser(ctx context.Context, userID int64) (*model.NotificationStats, error)
}
