package model

import "time"

// UserStatus is the monitoring state of a user.
type UserStatus string

const (
	UserStatusActive    UserStatus = "active"    // monitored by the sweep
	UserStatusSuspended UserStatus = "suspended" // excluded from sweeps
)

type User struct {
	BaseModel
	PublicID        int64      `gorm:"uniqueIndex;not null" json:"public_id"`
	Phone           string     `gorm:"type:varchar(20);not null" json:"phone"`
	Nickname        string     `gorm:"type:varchar(64);not null;default:''" json:"nickname"`
	Email           string     `gorm:"type:varchar(100);not null;default:''" json:"email"`
	Status          UserStatus `gorm:"type:varchar(16);not null;default:'active';index:idx_users_status" json:"status"`
	Timezone        string     `gorm:"type:varchar(64);not null;default:'Asia/Shanghai'" json:"timezone"`
	ReminderEnabled bool       `gorm:"not null;default:false" json:"reminder_enabled"`
	ReminderAt      string     `gorm:"type:varchar(8);not null;default:'20:00:00'" json:"reminder_at"`
	LastCheckinAt   *time.Time `gorm:"type:timestamptz" json:"last_checkin_at,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// DisplayName is what alert messages call the user.
func (u *User) DisplayName() string {
	if u.Nickname != "" {
		return u.Nickname
	}
	if len(u.Phone) >= 4 {
		return "user " + u.Phone[len(u.Phone)-4:]
	}
	return "user"
}
