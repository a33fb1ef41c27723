package models

import "time"

type Person struct {
	ID         uint    `gorm:"primaryKey"`
	Name       string  `gorm:"size:100;not null"`
	Phone      *string `gorm:"size:30;uniqueIndex"` // varsa benzersiz
	Instagram  *string `gorm:"size:100"`
	FirstVisit *time.Time
	Notes      string `gorm:"size:500"`
	IsActive   bool   `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
