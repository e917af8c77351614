package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"IAmFine/internal/model"
	pkgerrors "IAmFine/pkg/errors"
	"IAmFine/utils"
)

func newTestUser(id, publicID int64) *model.User {
	u := &model.User{
		PublicID: publicID,
		Phone:    "13800138000",
		Nickname: "test",
		Status:   model.UserStatusActive,
	}
	u.ID = id
	return u
}

func newCheckinServiceForTest(users *fakeUserStore, checkins *fakeCheckinStore, now time.Time) *CheckinService {
	svc := NewCheckinService(users, checkins, time.UTC, zap.NewNop())
	svc.now = func() time.Time { return now }
	svc.markCheckedIn = func(ctx context.Context, date string, userID int64) error { return nil }
	return svc
}

func TestCheckInFirstTime(t *testing.T) {
	now := time.Date(2026, 9, 1, 9, 30, 0, 0, time.UTC)
	users := newFakeUserStore(newTestUser(1, 1001))
	checkins := &fakeCheckinStore{}
	svc := newCheckinServiceForTest(users, checkins, now)

	result, err := svc.CheckIn(context.Background(), "1001")
	require.NoError(t, err)

	assert.Equal(t, "2026-09-01", result.CheckinDate)
	assert.Equal(t, 1, result.ConsecutiveDays)
	assert.Equal(t, 1, result.TotalDays)

	// last check-in column updated as well
	assert.Equal(t, now, users.lastCheckinUpdates[1])
}

func TestCheckInTwiceSameDay(t *testing.T) {
	now := time.Date(2026, 9, 1, 9, 30, 0, 0, time.UTC)
	users := newFakeUserStore(newTestUser(1, 1001))
	checkins := &fakeCheckinStore{}
	svc := newCheckinServiceForTest(users, checkins, now)

	_, err := svc.CheckIn(context.Background(), "1001")
	require.NoError(t, err)

	_, err = svc.CheckIn(context.Background(), "1001")
	assert.ErrorIs(t, err, pkgerrors.CheckInAlreadyDone)
	assert.Len(t, checkins.rows, 1)
}

func TestCheckInExtendsStreak(t *testing.T) {
	now := time.Date(2026, 9, 1, 9, 30, 0, 0, time.UTC)
	users := newFakeUserStore(newTestUser(1, 1001))
	checkins := &fakeCheckinStore{
		rows: []model.DailyCheckin{
			{UserID: 1, CheckinDate: utils.DateOf(now.AddDate(0, 0, -1), time.UTC)},
			{UserID: 1, CheckinDate: utils.DateOf(now.AddDate(0, 0, -2), time.UTC)},
		},
	}
	svc := newCheckinServiceForTest(users, checkins, now)

	result, err := svc.CheckIn(context.Background(), "1001")
	require.NoError(t, err)

	assert.Equal(t, 3, result.ConsecutiveDays)
	assert.Equal(t, 3, result.TotalDays)
}

func TestCheckInLastCheckinUpdateFailureIsNotFatal(t *testing.T) {
	now := time.Date(2026, 9, 1, 9, 30, 0, 0, time.UTC)
	users := newFakeUserStore(newTestUser(1, 1001))
	users.updateLastCheckinErr = errStoreDown
	checkins := &fakeCheckinStore{}
	svc := newCheckinServiceForTest(users, checkins, now)

	result, err := svc.CheckIn(context.Background(), "1001")
	require.NoError(t, err)
	assert.Equal(t, 1, result.TotalDays)
}

func TestCheckInUnknownUser(t *testing.T) {
	now := time.Date(2026, 9, 1, 9, 30, 0, 0, time.UTC)
	svc := newCheckinServiceForTest(newFakeUserStore(), &fakeCheckinStore{}, now)

	_, err := svc.CheckIn(context.Background(), "9999")
	assert.ErrorIs(t, err, pkgerrors.ErrUserNotFound)
}

func TestCheckInInvalidUserID(t *testing.T) {
	now := time.Date(2026, 9, 1, 9, 30, 0, 0, time.UTC)
	svc := newCheckinServiceForTest(newFakeUserStore(), &fakeCheckinStore{}, now)

	// "123abc" must fail too: a prefix-only parse would read it as 123
	for _, id := range []string{"abc", "123abc", "", "-5", "0", " 7"} {
		_, err := svc.CheckIn(context.Background(), id)
		assert.ErrorIs(t, err, pkgerrors.InvalidUserID, "user id %q", id)
	}
}

func TestGetStatus(t *testing.T) {
	now := time.Date(2026, 9, 1, 9, 30, 0, 0, time.UTC)
	users := newFakeUserStore(newTestUser(1, 1001))

	t.Run("never checked in", func(t *testing.T) {
		svc := newCheckinServiceForTest(users, &fakeCheckinStore{}, now)

		status, err := svc.GetStatus(context.Background(), "1001")
		require.NoError(t, err)
		assert.False(t, status.IsCheckedInToday)
		assert.Nil(t, status.LastCheckinDate)
		assert.Equal(t, 0, status.ConsecutiveDays)
	})

	t.Run("checked in today", func(t *testing.T) {
		checkins := &fakeCheckinStore{
			rows: []model.DailyCheckin{
				{UserID: 1, CheckinDate: utils.DateOf(now, time.UTC)},
			},
		}
		svc := newCheckinServiceForTest(users, checkins, now)

		status, err := svc.GetStatus(context.Background(), "1001")
		require.NoError(t, err)
		assert.True(t, status.IsCheckedInToday)
		require.NotNil(t, status.LastCheckinDate)
		assert.Equal(t, "2026-09-01", *status.LastCheckinDate)
		assert.Equal(t, 1, status.ConsecutiveDays)
	})

	t.Run("streak alive from yesterday", func(t *testing.T) {
		checkins := &fakeCheckinStore{
			rows: []model.DailyCheckin{
				{UserID: 1, CheckinDate: utils.DateOf(now.AddDate(0, 0, -1), time.UTC)},
			},
		}
		svc := newCheckinServiceForTest(users, checkins, now)

		status, err := svc.GetStatus(context.Background(), "1001")
		require.NoError(t, err)
		assert.False(t, status.IsCheckedInToday)
		assert.Equal(t, 1, status.ConsecutiveDays)
	})
}

func TestGetHistoryWindow(t *testing.T) {
	now := time.Date(2026, 9, 1, 9, 30, 0, 0, time.UTC)
	users := newFakeUserStore(newTestUser(1, 1001))

	checkins := &fakeCheckinStore{
		rows: []model.DailyCheckin{
			{UserID: 1, CheckinDate: utils.DateOf(now, time.UTC), CheckinAt: now},
			{UserID: 1, CheckinDate: utils.DateOf(now.AddDate(0, 0, -10), time.UTC), CheckinAt: now.AddDate(0, 0, -10)},
			// outside the default 30-day window
			{UserID: 1, CheckinDate: utils.DateOf(now.AddDate(0, 0, -40), time.UTC), CheckinAt: now.AddDate(0, 0, -40)},
		},
	}
	svc := newCheckinServiceForTest(users, checkins, now)

	history, err := svc.GetHistory(context.Background(), "1001", 0)
	require.NoError(t, err)

	assert.Len(t, history.History, 2)
	assert.Equal(t, "2026-09-01", history.History[0].CheckinDate)
	// totals still count everything
	assert.Equal(t, 3, history.TotalDays)
}
