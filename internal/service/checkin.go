package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"IAmFine/internal/cache"
	"IAmFine/internal/model"
	"IAmFine/internal/repository"
	"IAmFine/internal/streak"
	pkgerrors "IAmFine/pkg/errors"
	"IAmFine/pkg/metrics"
	"IAmFine/utils"
)

const defaultHistoryDays = 30

type CheckinService struct {
	users    repository.UserStore
	checkins repository.CheckinStore
	loc      *time.Location
	logger   *zap.Logger

	// replaced in tests
	now           func() time.Time
	markCheckedIn func(ctx context.Context, date string, userID int64) error
}

func NewCheckinService(users repository.UserStore, checkins repository.CheckinStore, loc *time.Location, logger *zap.Logger) *CheckinService {
	return &CheckinService{
		users:         users,
		checkins:      checkins,
		loc:           loc,
		logger:        logger,
		now:           time.Now,
		markCheckedIn: cache.MarkCheckedIn,
	}
}

// CheckIn records today's check-in. The (user, date) unique index is the only
// duplicate guard: a second insert for the same day, concurrent or not, comes
// back as gorm.ErrDuplicatedKey and maps to CheckInAlreadyDone.
func (s *CheckinService) CheckIn(ctx context.Context, userID string) (*model.CheckinResult, error) {
	publicID, err := parsePublicID(userID)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	now := s.now().In(s.loc)
	today := utils.DateOf(now, s.loc)

	record := &model.DailyCheckin{
		UserID:      user.ID,
		CheckinDate: today,
		CheckinAt:   now,
	}

	if err := s.checkins.Create(ctx, record); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, pkgerrors.CheckInAlreadyDone
		}
		return nil, fmt.Errorf("failed to create check-in: %w", err)
	}

	// Denormalized convenience column for the sweep; the check-in row is the
	// source of truth, so a failure here is logged and not returned.
	if err := s.users.UpdateLastCheckin(ctx, user.ID, now); err != nil {
		s.logger.Warn("Failed to update last check-in time",
			zap.Int64("user_id", user.PublicID),
			zap.Error(err),
		)
	}

	// best-effort flag for the reminder worker, the row above is the truth
	if err := s.markCheckedIn(ctx, today.Format(utils.DateLayout), user.PublicID); err != nil {
		s.logger.Debug("Failed to set checked-in flag",
			zap.Int64("user_id", user.PublicID),
			zap.Error(err),
		)
	}

	summary, err := s.streakSummary(ctx, user.ID, today)
	if err != nil {
		return nil, err
	}

	metrics.RecordCheckin(ctx)

	s.logger.Info("Check-in recorded",
		zap.Int64("user_id", user.PublicID),
		zap.String("checkin_date", today.Format(utils.DateLayout)),
		zap.Int("consecutive_days", summary.ConsecutiveDays),
	)

	return &model.CheckinResult{
		CheckinDate:   today.Format(utils.DateLayout),
		CheckinAt:     now.Format(time.RFC3339),
		StreakSummary: summary,
	}, nil
}

// GetStatus reports whether today is covered and the current streak.
func (s *CheckinService) GetStatus(ctx context.Context, userID string) (*model.CheckinStatus, error) {
	publicID, err := parsePublicID(userID)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	today := utils.DateOf(s.now(), s.loc)

	dates, err := s.checkins.ListDatesDesc(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to query check-ins: %w", err)
	}

	status := &model.CheckinStatus{
		StreakSummary: toSummary(streak.Compute(dates, today)),
	}

	if len(dates) > 0 {
		last := utils.DateOf(dates[0], s.loc).Format(utils.DateLayout)
		status.LastCheckinDate = &last
		status.IsCheckedInToday = utils.DateOf(dates[0], s.loc).Equal(today)
	}

	return status, nil
}

// GetHistory returns check-ins inside the window plus the streak summary.
// windowDays <= 0 falls back to 30, values over a year are clamped.
func (s *CheckinService) GetHistory(ctx context.Context, userID string, windowDays int) (*model.CheckinHistory, error) {
	publicID, err := parsePublicID(userID)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	if windowDays <= 0 {
		windowDays = defaultHistoryDays
	}
	if windowDays > 365 {
		windowDays = 365
	}

	today := utils.DateOf(s.now(), s.loc)
	since := today.AddDate(0, 0, -(windowDays - 1))

	rows, err := s.checkins.ListSinceDesc(ctx, user.ID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query check-in history: %w", err)
	}

	history := make([]model.CheckinHistoryItem, 0, len(rows))
	for _, row := range rows {
		history = append(history, model.CheckinHistoryItem{
			CheckinDate: utils.DateOf(row.CheckinDate, s.loc).Format(utils.DateLayout),
			CheckinAt:   row.CheckinAt.Format(time.RFC3339),
		})
	}

	summary, err := s.streakSummary(ctx, user.ID, today)
	if err != nil {
		return nil, err
	}

	return &model.CheckinHistory{
		History:       history,
		StreakSummary: summary,
	}, nil
}

func (s *CheckinService) streakSummary(ctx context.Context, userDBID int64, today time.Time) (model.StreakSummary, error) {
	dates, err := s.checkins.ListDatesDesc(ctx, userDBID)
	if err != nil {
		return model.StreakSummary{}, fmt.Errorf("failed to query check-ins: %w", err)
	}
	return toSummary(streak.Compute(dates, today)), nil
}

func toSummary(s streak.Summary) model.StreakSummary {
	return model.StreakSummary{
		ConsecutiveDays: s.ConsecutiveDays,
		TotalDays:       s.TotalDays,
	}
}
