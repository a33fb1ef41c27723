package enrollments

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"seramik-backend/internal/ledger"
	"seramik-backend/internal/models"
)

var (
	ErrSessionFull       = errors.New("kapasite dolu")
	ErrAlreadyEnrolled   = errors.New("bu kişi zaten seansa kayıtlı")
	ErrInvalidStatus     = errors.New("geçersiz durum")
	ErrSessionNotFound   = errors.New("seans bulunamadı")
	ErrPersonNotFound    = errors.New("kişi bulunamadı")
	ErrEnrollmentMissing = errors.New("kayıt bulunamadı")
)

// Create: kapasite ve (kişi, seans) tekilliği kontrolüyle kayıt oluşturur.
// Doluluk registered + attended üzerinden sayılır; iptal ve no_show yer açar.
func Create(db *gorm.DB, personID, sessionID uint, priceOverride *float64, groupLabel *string, note string) (*models.Enrollment, error) {
	var sess models.Session
	if err := db.First(&sess, sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	var person models.Person
	if err := db.First(&person, personID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPersonNotFound
		}
		return nil, err
	}

	var active int64
	if err := db.Model(&models.Enrollment{}).
		Where("session_id = ? AND status IN ?", sessionID,
			[]models.EnrollmentStatus{models.EnrollmentRegistered, models.EnrollmentAttended}).
		Count(&active).Error; err != nil {
		return nil, err
	}
	if int(active) >= sess.Capacity {
		return nil, ErrSessionFull
	}

	var existing int64
	if err := db.Model(&models.Enrollment{}).
		Where("person_id = ? AND session_id = ?", personID, sessionID).
		Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, ErrAlreadyEnrolled
	}

	// 0 veya negatif override "yok" demek
	var override *float64
	if priceOverride != nil && *priceOverride > 0 {
		override = priceOverride
	}

	enr := models.Enrollment{
		PersonID:      personID,
		SessionID:     sessionID,
		Status:        models.EnrollmentRegistered,
		PriceOverride: override,
		GroupLabel:    groupLabel,
		Note:          note,
	}
	if err := db.Create(&enr).Error; err != nil {
		// unique index'e takılan eşzamanlı ikinci kayıt; diğer hatalar aynen döner
		if isUniqueViolation(err) {
			return nil, ErrAlreadyEnrolled
		}
		return nil, err
	}
	return &enr, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	// Postgres: "duplicate key value violates unique constraint",
	// SQLite: "UNIQUE constraint failed"
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}

// UpdateStatus: kayıt durumunu günceller; "attended" olduğunda borç
// materialize edilir.
func UpdateStatus(db *gorm.DB, enrollmentID uint, status models.EnrollmentStatus) (*models.Enrollment, error) {
	switch status {
	case models.EnrollmentRegistered, models.EnrollmentAttended, models.EnrollmentCanceled, models.EnrollmentNoShow:
		// ok
	default:
		return nil, ErrInvalidStatus
	}

	var enr models.Enrollment
	if err := db.First(&enr, enrollmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEnrollmentMissing
		}
		return nil, err
	}

	enr.Status = status
	if err := db.Save(&enr).Error; err != nil {
		return nil, err
	}

	if err := ledger.EnsureChargeForAttendance(db, enr.ID); err != nil {
		return nil, err
	}

	return &enr, nil
}
