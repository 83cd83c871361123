package domain

import "time"

// User is an API client identified by its API key.
type User struct {
	ID              string     `json:"id" gorm:"primaryKey"`
	Email           string     `json:"email" gorm:"not null"`
	Name            string     `json:"name"`
	APIKey          string     `json:"api_key" gorm:"uniqueIndex;not null"`
	IsActive        bool       `json:"is_active" gorm:"default:true"`
	DailyEmailLimit int        `json:"daily_email_limit" gorm:"default:1000"`
	EmailsSentToday int        `json:"emails_sent_today" gorm:"default:0"`
	LimitResetDate  *time.Time `json:"limit_reset_date,omitempty"`
	LastUsedAt      *time.Time `json:"last_used_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

const DefaultDailyEmailLimit = 1000
