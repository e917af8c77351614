package model

import "time"

// DailyCheckin is one check-in fact. At most one row per (user, date); the
// unique index is the only duplicate guard, including for concurrent inserts.
type DailyCheckin struct {
	BaseModel
	UserID      int64     `gorm:"not null;uniqueIndex:idx_daily_checkins_user_date" json:"user_id"`
	CheckinDate time.Time `gorm:"type:date;not null;uniqueIndex:idx_daily_checkins_user_date" json:"checkin_date"`
	CheckinAt   time.Time `gorm:"type:timestamptz;not null" json:"checkin_at"`
}

func (DailyCheckin) TableName() string {
	return "daily_checkins"
}

// ========== Check-in DTOs ==========

type StreakSummary struct {
	ConsecutiveDays int `json:"consecutive_days"`
	TotalDays       int `json:"total_days"`
}

type CheckinResult struct {
	CheckinDate string `json:"checkin_date"`
	CheckinAt   string `json:"checkin_at"`
	StreakSummary
}

type CheckinStatus struct {
	IsCheckedInToday bool    `json:"is_checked_in_today"`
	LastCheckinDate  *string `json:"last_checkin_date"`
	StreakSummary
}

type CheckinHistoryItem struct {
	CheckinDate string `json:"checkin_date"`
	CheckinAt   string `json:"checkin_at"`
}

type CheckinHistory struct {
	History []CheckinHistoryItem `json:"history"`
	StreakSummary
}
