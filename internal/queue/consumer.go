package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"IAmFine/internal/cache"
	"IAmFine/internal/model"
	"IAmFine/internal/repository"
	pkgerrors "IAmFine/pkg/errors"
	"IAmFine/pkg/sms"
	"IAmFine/storage/mq"
	"IAmFine/utils"
)

const (
	consumerTag      = "iamfine-reminder-worker"
	reminderPrefetch = 10

	// claim expires if the worker dies mid-batch so another can retry
	processingTTL = 10 * time.Minute
)

// ReminderWorker consumes reminder batches and texts each user who has not
// checked in yet today.
type ReminderWorker struct {
	users    repository.UserStore
	checkins repository.CheckinStore

	smsClient    sms.Client
	signName     string
	templateCode string
	loc          *time.Location
	logger       *zap.Logger

	now func() time.Time
}

func NewReminderWorker(users repository.UserStore, checkins repository.CheckinStore, smsClient sms.Client, signName, templateCode string, loc *time.Location, logger *zap.Logger) *ReminderWorker {
	return &ReminderWorker{
		users:        users,
		checkins:     checkins,
		smsClient:    smsClient,
		signName:     signName,
		templateCode: templateCode,
		loc:          loc,
		logger:       logger,
		now:          time.Now,
	}
}

// Start blocks consuming the reminder queue until the connection drops.
func (w *ReminderWorker) Start(ctx context.Context) error {
	return mq.Consume(mq.ConsumeOptions{
		Queue:         mq.ReminderQueue,
		ConsumerTag:   consumerTag,
		PrefetchCount: reminderPrefetch,
		Handler: func(body []byte) error {
			return w.handleMessage(ctx, body)
		},
	})
}

func (w *ReminderWorker) handleMessage(ctx context.Context, body []byte) error {
	var msg model.CheckinReminderMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		// malformed payloads would loop forever on requeue
		return &pkgerrors.SkipMessageError{Reason: fmt.Sprintf("malformed reminder message: %v", err)}
	}

	claimed, err := cache.TryMarkMessageProcessing(ctx, msg.MessageID, processingTTL)
	if err != nil {
		return fmt.Errorf("failed to claim message %s: %w", msg.MessageID, err)
	}
	if !claimed {
		return &pkgerrors.SkipMessageError{Reason: "message already processed: " + msg.MessageID}
	}

	w.logger.Info("Processing reminder batch",
		zap.String("message_id", msg.MessageID),
		zap.String("checkin_date", msg.CheckinDate),
		zap.Int("user_count", len(msg.UserIDs)),
	)

	today := utils.DateOf(w.now(), w.loc)
	failures := 0

	for _, publicID := range msg.UserIDs {
		if err := w.remindUser(ctx, publicID, today); err != nil {
			failures++
			w.logger.Warn("Failed to remind user",
				zap.String("message_id", msg.MessageID),
				zap.Int64("user_id", publicID),
				zap.Error(err),
			)
		}
	}

	if failures == len(msg.UserIDs) && failures > 0 {
		// nothing went through; release the claim and let the queue retry
		if err := cache.UnmarkMessageProcessing(ctx, msg.MessageID); err != nil {
			w.logger.Warn("Failed to release message claim",
				zap.String("message_id", msg.MessageID),
				zap.Error(err),
			)
		}
		return fmt.Errorf("reminder batch %s failed for all %d users", msg.MessageID, failures)
	}

	if err := cache.MarkMessageProcessed(ctx, msg.MessageID, 0); err != nil {
		w.logger.Warn("Failed to mark message processed",
			zap.String("message_id", msg.MessageID),
			zap.Error(err),
		)
	}

	w.logger.Info("Reminder batch completed",
		zap.String("message_id", msg.MessageID),
		zap.Int("user_count", len(msg.UserIDs)),
		zap.Int("failures", failures),
	)
	return nil
}

func (w *ReminderWorker) remindUser(ctx context.Context, publicID int64, today time.Time) error {
	user, err := w.users.GetByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// deleted since scheduling, nothing to do
			return nil
		}
		return fmt.Errorf("failed to query user: %w", err)
	}

	if user.Status != model.UserStatusActive || !user.ReminderEnabled {
		return nil
	}

	// already checked in today, no reminder needed
	if done, err := cache.IsCheckedIn(ctx, today.Format(utils.DateLayout), user.PublicID); err == nil && done {
		return nil
	}
	if user.LastCheckinAt != nil && utils.DateOf(*user.LastCheckinAt, w.loc).Equal(today) {
		return nil
	}

	dates, err := w.checkins.ListDatesDesc(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("failed to query check-ins: %w", err)
	}
	if len(dates) > 0 && utils.DateOf(dates[0], w.loc).Equal(today) {
		return nil
	}

	param, _ := json.Marshal(map[string]string{"name": user.DisplayName()})
	if _, err := w.smsClient.SendSingle(ctx, user.Phone, w.signName, w.templateCode, string(param)); err != nil {
		return fmt.Errorf("failed to send reminder SMS: %w", err)
	}

	w.logger.Debug("Reminder sent",
		zap.Int64("user_id", user.PublicID),
	)
	return nil
}
