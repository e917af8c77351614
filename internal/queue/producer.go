// Package queue carries the reminder pipeline: the scheduler publishes
// delayed batches, the worker consumes them and sends the reminder SMS.
package queue

import (
	"time"

	"go.uber.org/zap"

	"IAmFine/internal/model"
	"IAmFine/pkg/logger"
	"IAmFine/storage/mq"
)

// PublishCheckinReminder publishes one reminder batch through the delayed
// exchange. The x-delayed-message plugin holds it until DelaySeconds elapse.
func PublishCheckinReminder(msg model.CheckinReminderMessage) error {
	delay := time.Duration(msg.DelaySeconds) * time.Second

	err := mq.PublishDelayedMessage(mq.DelayedExchange, mq.ReminderRoutingKey, delay, msg)
	if err != nil {
		return err
	}

	logger.Logger.Info("Reminder batch published",
		zap.String("message_id", msg.MessageID),
		zap.String("checkin_date", msg.CheckinDate),
		zap.Int("user_count", len(msg.UserIDs)),
		zap.Duration("delay", delay),
	)
	return nil
}
