package models

import "time"

const (
	DefaultCourseDurationMin = 120
	DefaultCourseCapacity    = 16
)

// Course: seans şablonu (varsayılan süre/ücret/kapasite)
type Course struct {
	ID                 uint    `gorm:"primaryKey"`
	Name               string  `gorm:"size:100;not null"`
	Description        string  `gorm:"size:500"`
	DefaultDurationMin int     `gorm:"not null;default:120"`
	DefaultPrice       float64 `gorm:"not null;default:0"`
	DefaultCapacity    int     `gorm:"not null;default:16"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
