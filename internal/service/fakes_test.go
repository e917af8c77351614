package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"IAmFine/internal/model"
)

// In-memory stores backing the service tests.

type fakeUserStore struct {
	mu    sync.Mutex
	users []*model.User

	updateLastCheckinErr error
	lastCheckinUpdates   map[int64]time.Time
}

func newFakeUserStore(users ...*model.User) *fakeUserStore {
	return &fakeUserStore{
		users:              users,
		lastCheckinUpdates: make(map[int64]time.Time),
	}
}

func (f *fakeUserStore) GetByPublicID(ctx context.Context, publicID int64) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.PublicID == publicID {
			copied := *u
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserStore) ListActive(ctx context.Context) ([]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.User
	for _, u := range f.users {
		if u.Status == model.UserStatusActive {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeUserStore) ListReminderEnabled(ctx context.Context) ([]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.User
	for _, u := range f.users {
		if u.Status == model.UserStatusActive && u.ReminderEnabled {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeUserStore) UpdateLastCheckin(ctx context.Context, userID int64, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateLastCheckinErr != nil {
		return f.updateLastCheckinErr
	}
	f.lastCheckinUpdates[userID] = at
	for _, u := range f.users {
		if u.ID == userID {
			t := at
			u.LastCheckinAt = &t
		}
	}
	return nil
}

type fakeCheckinStore struct {
	mu   sync.Mutex
	rows []model.DailyCheckin

	createErr error
}

func (f *fakeCheckinStore) Create(ctx context.Context, checkin *model.DailyCheckin) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	for _, row := range f.rows {
		if row.UserID == checkin.UserID && row.CheckinDate.Equal(checkin.CheckinDate) {
			return gorm.ErrDuplicatedKey
		}
	}
	checkin.ID = int64(len(f.rows) + 1)
	f.rows = append(f.rows, *checkin)
	return nil
}

func (f *fakeCheckinStore) ListDatesDesc(ctx context.Context, userID int64) ([]time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var dates []time.Time
	for _, row := range f.rows {
		if row.UserID == userID {
			dates = append(dates, row.CheckinDate)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].After(dates[j]) })
	return dates, nil
}

func (f *fakeCheckinStore) ListSinceDesc(ctx context.Context, userID int64, since time.Time) ([]model.DailyCheckin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var rows []model.DailyCheckin
	for _, row := range f.rows {
		if row.UserID == userID && !row.CheckinDate.Before(since) {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CheckinDate.After(rows[j].CheckinDate) })
	return rows, nil
}

type fakeContactStore struct {
	mu       sync.Mutex
	contacts []model.Contact
	nextID   int64

	findPrimaryErr error
}

func (f *fakeContactStore) Create(ctx context.Context, contact *model.Contact) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.contacts {
		if c.UserID == contact.UserID && c.Priority == contact.Priority {
			return gorm.ErrDuplicatedKey
		}
	}
	f.nextID++
	contact.ID = f.nextID
	if contact.CreatedAt.IsZero() {
		contact.CreatedAt = time.Now()
	}
	f.contacts = append(f.contacts, *contact)
	return nil
}

func (f *fakeContactStore) ListByUser(ctx context.Context, userID int64) ([]model.Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Contact
	for _, c := range f.contacts {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (f *fakeContactStore) CountByUser(ctx context.Context, userID int64) (int64, error) {
	list, _ := f.ListByUser(ctx, userID)
	return int64(len(list)), nil
}

func (f *fakeContactStore) Delete(ctx context.Context, userID, contactID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, c := range f.contacts {
		if c.UserID == userID && c.ID == contactID {
			f.contacts = append(f.contacts[:i], f.contacts[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeContactStore) FindPrimary(ctx context.Context, userID int64) (*model.Contact, error) {
	if f.findPrimaryErr != nil {
		return nil, f.findPrimaryErr
	}
	list, _ := f.ListByUser(ctx, userID)
	if len(list) == 0 {
		return nil, nil
	}
	c := list[0]
	return &c, nil
}

type fakeNotificationLogStore struct {
	mu      sync.Mutex
	entries []model.NotificationLog

	createErr error
}

func (f *fakeNotificationLogStore) Create(ctx context.Context, entry *model.NotificationLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	entry.ID = int64(len(f.entries) + 1)
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeNotificationLogStore) ListByUser(ctx context.Context, userID int64, limit int) ([]model.NotificationLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.NotificationLog
	for _, e := range f.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SentAt.After(out[j].SentAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeNotificationLogStore) StatsByUser(ctx context.Context, userID int64) (*model.NotificationStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stats := &model.NotificationStats{}
	for _, e := range f.entries {
		if e.UserID != userID {
			continue
		}
		stats.TotalCount++
		if e.Status == model.NotificationStatusSuccess {
			stats.SuccessCount++
		} else {
			stats.FailedCount++
		}
		if e.Channel == model.NotificationChannelSMS {
			stats.SMSCount++
		} else {
			stats.EmailCount++
		}
	}
	return stats, nil
}

var errStoreDown = errors.New("store unavailable")
