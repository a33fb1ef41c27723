package models

import "time"

// DailyNote: takvim günü başına tek serbest not.
type DailyNote struct {
	ID        uint      `gorm:"primaryKey"`
	Date      time.Time `gorm:"uniqueIndex;not null"`
	Note      string    `gorm:"type:text;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
