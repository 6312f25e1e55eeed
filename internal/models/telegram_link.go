package models

import "time"

// TelegramLink ties a Telegram account to a user so chat messages can be
// interpreted as that user's commands. TelegramUserID stays nil until the
// link code is redeemed.
type TelegramLink struct {
	Base
	UserID            string     `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	TelegramUserID    *int64     `gorm:"uniqueIndex" json:"telegram_user_id,omitempty"`
	TelegramUsername  string     `json:"telegram_username,omitempty"`
	TelegramFirstName string     `json:"telegram_first_name,omitempty"`
	LinkCode          string     `gorm:"size:6" json:"-"`
	LinkCodeExpiresAt *time.Time `json:"-"`
	IsActive          bool       `gorm:"default:false" json:"is_active"`
	LastMessageAt     *time.Time `json:"last_message_at,omitempty"`
	MessageCount      int64      `gorm:"default:0" json:"message_count"`
}
