package ledger

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"seramik-backend/internal/models"
)

// EnsureChargeForAttendance: kayıt "attended" durumundaysa o (kişi, seans)
// ikilisi için tek bir borç satırı oluşturur. Tekrar çağrılması yeni satır
// üretmez. Kayıt bulunamazsa ya da durum attended değilse sessiz no-op.
//
// Kontrol ve insert tek transaction içinde yapılır; eşzamanlı çağrılarda
// charges üzerindeki kısmi unique index ikinci insert'i düşürür
// (ON CONFLICT DO NOTHING).
func EnsureChargeForAttendance(db *gorm.DB, enrollmentID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var e models.Enrollment
		if err := tx.First(&e, enrollmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if e.Status != models.EnrollmentAttended {
			return nil
		}

		var count int64
		if err := tx.Model(&models.Charge{}).
			Where("person_id = ? AND session_id = ?", e.PersonID, e.SessionID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		// Seans silinmişse bugünün tarihiyle 0 TL; ders silinmişse seans
		// tarihiyle 0 TL borç yazılır.
		amount := 0.0
		now := time.Now()
		chargeDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

		var sess models.Session
		err := tx.First(&sess, e.SessionID).Error
		switch {
		case err == nil:
			chargeDate = sess.Date
			var course models.Course
			cerr := tx.First(&course, sess.CourseID).Error
			if cerr == nil {
				amount = PriceForEnrollment(&e, &sess, &course)
			} else if !errors.Is(cerr, gorm.ErrRecordNotFound) {
				return cerr
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			// no-op
		default:
			return err
		}

		sessionID := e.SessionID
		charge := models.Charge{
			PersonID:  e.PersonID,
			SessionID: &sessionID,
			Amount:    amount,
			Date:      chargeDate,
			Note:      models.AttendanceChargeNote,
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&charge).Error
	})
}
