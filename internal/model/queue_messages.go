package model

// CheckinReminderMessage is one delayed reminder batch published by the
// scheduler and consumed by the worker. All users in a batch share a local
// reminder time.
type CheckinReminderMessage struct {
	MessageID    string  `json:"message_id"`
	BatchID      string  `json:"batch_id"`
	CheckinDate  string  `json:"checkin_date"` // YYYY-MM-DD
	ScheduledAt  string  `json:"scheduled_at"` // RFC3339
	UserIDs      []int64 `json:"user_ids"`     // public IDs
	DelaySeconds int     `json:"delay_seconds"`
}
