package models

import "time"

type EnrollmentStatus string

const (
	EnrollmentRegistered EnrollmentStatus = "registered" // kayıtlı
	EnrollmentAttended   EnrollmentStatus = "attended"   // katıldı
	EnrollmentCanceled   EnrollmentStatus = "canceled"   // iptal
	EnrollmentNoShow     EnrollmentStatus = "no_show"    // gelmedi
)

// Enrollment: kişi-seans kaydı. Aynı (kişi, seans) ikilisi için en fazla
// bir kayıt olabilir.
type Enrollment struct {
	ID            uint `gorm:"primaryKey"`
	PersonID      uint `gorm:"uniqueIndex:idx_enrollments_person_session;not null"`
	Person        Person
	SessionID     uint `gorm:"uniqueIndex:idx_enrollments_person_session;not null"`
	Session       Session
	Status        EnrollmentStatus `gorm:"size:20;not null;default:registered"`
	PriceOverride *float64         // kayıt özel fiyatı (ops)
	GroupLabel    *string          `gorm:"size:100"`
	Note          string           `gorm:"size:500"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
