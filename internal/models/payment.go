package models

import "time"

type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "cash" // nakit
	PaymentMethodIBAN PaymentMethod = "iban" // havale
)

// Payment: tahsilat kaydı. Append-only; kişinin cüzdan bakiyesini artırır.
// Cleared=false olan ödemeler henüz tahsil edilmemiş sayılır ve hiçbir
// bakiyeye girmez.
type Payment struct {
	ID       uint `gorm:"primaryKey"`
	PersonID uint `gorm:"index;not null"`
	Person   Person
	Amount   float64       `gorm:"not null"`
	Method   PaymentMethod `gorm:"size:10;not null"` // cash / iban
	// default tag koyma: GORM default'lu alanlarda zero value'yu INSERT'ten
	// düşürür, Cleared=false kaybolur. Varsayılan true handler'da uygulanır.
	Cleared   bool      `gorm:"not null"`
	Date      time.Time `gorm:"index;not null"` // gün bazlı
	Note      string    `gorm:"size:255"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
