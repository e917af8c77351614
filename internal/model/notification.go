package model

import "time"

// NotificationChannel is the transport an alert attempt went through.
type NotificationChannel string

const (
	NotificationChannelSMS   NotificationChannel = "sms"
	NotificationChannelEmail NotificationChannel = "email"
)

// NotificationStatus is the outcome of one channel attempt.
type NotificationStatus string

const (
	NotificationStatusSuccess NotificationStatus = "success"
	NotificationStatusFailed  NotificationStatus = "failed"
)

// NotificationLog is the append-only audit trail of alert attempts. Exactly
// one row per channel attempt; a user with no contact produces zero rows.
type NotificationLog struct {
	BaseModel
	UserID       int64               `gorm:"not null;index:idx_notification_logs_user_sent" json:"user_id"`
	ContactID    int64               `gorm:"not null;index:idx_notification_logs_contact" json:"contact_id"`
	Channel      NotificationChannel `gorm:"type:varchar(16);not null" json:"channel"`
	Status       NotificationStatus  `gorm:"type:varchar(16);not null" json:"status"`
	Content      string              `gorm:"type:text;not null" json:"content"`
	ErrorMessage *string             `gorm:"type:text" json:"error_message,omitempty"`
	SentAt       time.Time           `gorm:"type:timestamptz;not null;index:idx_notification_logs_user_sent" json:"sent_at"`
}

func (NotificationLog) TableName() string {
	return "notification_logs"
}

// ========== Notification DTOs ==========

type NotificationItem struct {
	ID           int64   `json:"id"`
	Channel      string  `json:"channel"`
	Status       string  `json:"status"`
	Content      string  `json:"content"`
	ErrorMessage *string `json:"error_message,omitempty"`
	SentAt       string  `json:"sent_at"`
}

type NotificationStats struct {
	TotalCount   int64 `json:"total_count"`
	SuccessCount int64 `json:"success_count"`
	FailedCount  int64 `json:"failed_count"`
	SMSCount     int64 `json:"sms_count"`
	EmailCount   int64 `json:"email_count"`
}
