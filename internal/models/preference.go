package models

import "time"

// Preference persists a user's chosen translation target language. It never
// expires; only an explicit /setlang overwrites it.
type Preference struct {
	UserID       int64  `gorm:"primaryKey"`
	LanguageCode string `gorm:"size:8;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Preference) TableName() string {
	return "preferences"
}
