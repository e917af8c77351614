package cache

import (
	"context"
	"fmt"
	"time"

	"IAmFine/storage/redis"
)

const (
	reminderScheduledPrefix = "reminder:scheduled"
	messageProcessedPrefix  = "message:processed"

	scheduledTTL = 24 * time.Hour
	processedTTL = 48 * time.Hour
)

// IsReminderScheduled reports whether a reminder batch covering this user
// and date was already published.
func IsReminderScheduled(ctx context.Context, date string, userID int64) (bool, error) {
	key := redis.Key(reminderScheduledPrefix, date, fmt.Sprintf("%d", userID))
	result, err := redis.Client().Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check reminder scheduled status: %w", err)
	}
	return result > 0, nil
}

func MarkReminderScheduled(ctx context.Context, date string, userID int64) error {
	key := redis.Key(reminderScheduledPrefix, date, fmt.Sprintf("%d", userID))
	return redis.Client().Set(ctx, key, "1", scheduledTTL).Err()
}

func UnmarkReminderScheduled(ctx context.Context, date string, userID int64) error {
	key := redis.Key(reminderScheduledPrefix, date, fmt.Sprintf("%d", userID))
	return redis.Client().Del(ctx, key).Err()
}

// TryMarkMessageProcessing atomically claims a queue message for processing.
// Returns true on first claim, false when the message was already claimed.
func TryMarkMessageProcessing(ctx context.Context, messageID string, ttl time.Duration) (bool, error) {
	key := redis.Key(messageProcessedPrefix, messageID)
	if ttl <= 0 {
		ttl = processedTTL
	}

	result, err := redis.Client().SetNX(ctx, key, "processing", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark message as processing: %w", err)
	}
	return result, nil
}

// UnmarkMessageProcessing releases the claim so a failed message can retry.
func UnmarkMessageProcessing(ctx context.Context, messageID string) error {
	key := redis.Key(messageProcessedPrefix, messageID)
	return redis.Client().Del(ctx, key).Err()
}

func MarkMessageProcessed(ctx context.Context, messageID string, ttl time.Duration) error {
	key := redis.Key(messageProcessedPrefix, messageID)
	if ttl <= 0 {
		ttl = processedTTL
	}
	return redis.Client().Set(ctx, key, "completed", ttl).Err()
}
