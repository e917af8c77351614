package cache

import (
	"context"
	"fmt"
	"time"

	"IAmFine/storage/redis"
)

const (
	checkedInPrefix = "checkin:done"

	// a little past one day so the flag outlives the date it marks
	checkedInTTL = 26 * time.Hour
)

// MarkCheckedIn flags a user as checked in for the given date. Best-effort:
// the daily_checkins row is the source of truth.
func MarkCheckedIn(ctx context.Context, date string, userID int64) error {
	key := redis.Key(checkedInPrefix, date, fmt.Sprintf("%d", userID))
	return redis.Client().Set(ctx, key, "1", checkedInTTL).Err()
}

// IsCheckedIn reports whether the user already checked in on the given date,
// per the cache. A miss means "unknown", not "no".
func IsCheckedIn(ctx context.Context, date string, userID int64) (bool, error) {
	key := redis.Key(checkedInPrefix, date, fmt.Sprintf("%d", userID))
	result, err := redis.Client().Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check checked-in flag: %w", err)
	}
	return result > 0, nil
}
