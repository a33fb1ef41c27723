package models

import "time"

// Session: takvimdeki somut seans. Kapasite ve fiyat dersten gelir,
// seans bazında ezilebilir.
type Session struct {
	ID            uint `gorm:"primaryKey"`
	CourseID      uint `gorm:"index;not null"`
	Course        Course
	Date          time.Time `gorm:"index;not null"`  // gün bazlı
	StartTime     string    `gorm:"size:5;not null"` // "10:00"
	EndTime       string    `gorm:"size:5;not null"`
	Capacity      int       `gorm:"not null;default:16"`
	PriceOverride *float64  // nil ise ders fiyatı geçerli
	Notes         string    `gorm:"size:255"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
