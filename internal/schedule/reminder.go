package schedule

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"IAmFine/config"
	"IAmFine/internal/cache"
	"IAmFine/internal/model"
	"IAmFine/internal/queue"
	"IAmFine/internal/repository"
	"IAmFine/pkg/snowflake"
	"IAmFine/utils"
)

// ReminderScheduler publishes the day's reminder batches. Users are grouped
// by their local reminder clock so each group becomes one delayed message.
type ReminderScheduler struct {
	users  repository.UserStore
	loc    *time.Location
	logger *zap.Logger

	now     func() time.Time
	publish func(model.CheckinReminderMessage) error
}

func NewReminderScheduler(users repository.UserStore, loc *time.Location, logger *zap.Logger) *ReminderScheduler {
	return &ReminderScheduler{
		users:   users,
		loc:     loc,
		logger:  logger,
		now:     time.Now,
		publish: queue.PublishCheckinReminder,
	}
}

// ScheduleDailyReminders queues one delayed batch per reminder time for all
// opted-in users. Already-scheduled users (per the redis mark) are skipped,
// so a rerun after a crash does not double-publish.
func (s *ReminderScheduler) ScheduleDailyReminders(ctx context.Context) error {
	start := s.now().In(s.loc)
	today := utils.DateOf(start, s.loc).Format(utils.DateLayout)

	batchID, err := snowflake.NextID()
	if err != nil {
		return fmt.Errorf("failed to generate batch ID: %w", err)
	}

	users, err := s.users.ListReminderEnabled(ctx)
	if err != nil {
		return fmt.Errorf("failed to list reminder users: %w", err)
	}

	if len(users) == 0 {
		s.logger.Info("No users with reminders enabled")
		return nil
	}

	groups := make(map[string][]*model.User)
	for i := range users {
		user := &users[i]
		remindAt := user.ReminderAt
		if remindAt == "" {
			remindAt = config.Cfg.ReminderDefaultAt
		}
		groups[remindAt] = append(groups[remindAt], user)
	}

	published := 0
	for remindAt, group := range groups {
		if err := s.scheduleGroup(ctx, today, batchID, remindAt, group, start); err != nil {
			s.logger.Error("Failed to schedule reminder group",
				zap.String("remind_at", remindAt),
				zap.Error(err),
			)
			continue
		}
		published++
	}

	s.logger.Info("Daily reminder scheduling completed",
		zap.String("checkin_date", today),
		zap.Int("group_count", len(groups)),
		zap.Int("published", published),
	)
	return nil
}

func (s *ReminderScheduler) scheduleGroup(ctx context.Context, today string, batchID int64, remindAt string, group []*model.User, now time.Time) error {
	var pending []int64
	for _, user := range group {
		scheduled, err := cache.IsReminderScheduled(ctx, today, user.PublicID)
		if err != nil {
			s.logger.Warn("Failed to check reminder mark, including user",
				zap.Int64("user_id", user.PublicID),
				zap.Error(err),
			)
		}
		if scheduled {
			continue
		}
		pending = append(pending, user.PublicID)
	}

	if len(pending) == 0 {
		return nil
	}

	remindTime, err := utils.ParseClock(remindAt, utils.DateOf(now, s.loc))
	if err != nil {
		s.logger.Warn("Invalid reminder clock, using default",
			zap.String("remind_at", remindAt),
			zap.Error(err),
		)
		remindTime, _ = utils.ParseClock(config.Cfg.ReminderDefaultAt, utils.DateOf(now, s.loc))
	}

	// A reminder time already behind us fires immediately in development and
	// is pushed to tomorrow otherwise.
	if remindTime.Before(now) {
		if config.Cfg.IsDevelopment() {
			remindTime = now.Add(time.Minute)
		} else {
			remindTime = remindTime.Add(24 * time.Hour)
		}
	}

	delay := time.Until(remindTime)
	if delay < 0 {
		delay = 0
	}

	messageID, err := snowflake.NextID()
	if err != nil {
		return fmt.Errorf("failed to generate message ID: %w", err)
	}

	msg := model.CheckinReminderMessage{
		MessageID:    fmt.Sprintf("reminder_%d", messageID),
		BatchID:      fmt.Sprintf("%d", batchID),
		CheckinDate:  today,
		ScheduledAt:  now.Format(time.RFC3339),
		UserIDs:      pending,
		DelaySeconds: int(delay.Seconds()),
	}

	if err := s.publish(msg); err != nil {
		return fmt.Errorf("failed to publish reminder batch: %w", err)
	}

	for _, publicID := range pending {
		if err := cache.MarkReminderScheduled(ctx, today, publicID); err != nil {
			s.logger.Warn("Failed to mark reminder scheduled",
				zap.Int64("user_id", publicID),
				zap.Error(err),
			)
		}
	}

	return nil
}
