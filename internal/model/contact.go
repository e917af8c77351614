package model

import "time"

// Contact is an emergency contact. Priority is unique per user; the primary
// contact is the lowest priority value, ties broken by earliest creation.
type Contact struct {
	BaseModel
	UserID       int64  `gorm:"not null;uniqueIndex:idx_contacts_user_priority" json:"user_id"`
	Name         string `gorm:"type:varchar(50);not null" json:"name"`
	Phone        string `gorm:"type:varchar(20);not null" json:"phone"`
	Email        string `gorm:"type:varchar(100);not null;default:''" json:"email"`
	Relationship string `gorm:"type:varchar(20);not null;default:''" json:"relationship"`
	Priority     int    `gorm:"type:smallint;not null;uniqueIndex:idx_contacts_user_priority" json:"priority"`
	Verified     bool   `gorm:"not null;default:false" json:"verified"`
}

func (Contact) TableName() string {
	return "contacts"
}

// ========== Contact DTOs ==========

type CreateContactRequest struct {
	Name         string `json:"name" binding:"required"`
	Phone        string `json:"phone" binding:"required"`
	Email        string `json:"email"`
	Relationship string `json:"relationship"`
	Priority     int    `json:"priority" binding:"required"`
}

type ContactItem struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	PhoneMasked  string    `json:"phone_masked"`
	Email        string    `json:"email,omitempty"`
	Relationship string    `json:"relationship"`
	Priority     int       `json:"priority"`
	Verified     bool      `json:"verified"`
	CreatedAt    time.Time `json:"created_at"`
}
