package ledger_test

import (
	"testing"
	"time"

	"seramik-backend/internal/ledger"
	"seramik-backend/internal/models"
)

func TestEnsureChargeForAttendanceIdempotent(t *testing.T) {
	db := newTestDB(t)
	_, sess, enr := newCourseSessionEnrollment(t, db, 500, nil, nil, models.EnrollmentAttended)

	if err := ledger.EnsureChargeForAttendance(db, enr.ID); err != nil {
		t.Fatalf("EnsureChargeForAttendance: %v", err)
	}
	if err := ledger.EnsureChargeForAttendance(db, enr.ID); err != nil {
		t.Fatalf("ikinci çağrı: %v", err)
	}

	var charges []models.Charge
	if err := db.Where("person_id = ? AND session_id = ?", enr.PersonID, enr.SessionID).Find(&charges).Error; err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(charges) != 1 {
		t.Fatalf("tek borç satırı bekleniyordu, %d bulundu", len(charges))
	}

	ch := charges[0]
	if ch.Amount != 500 {
		t.Fatalf("borç tutarı ders fiyatı olmalı (500): %v", ch.Amount)
	}
	if !ch.Date.Equal(sess.Date) {
		t.Fatalf("borç tarihi seans tarihi olmalı: %v != %v", ch.Date, sess.Date)
	}
	if ch.Note != models.AttendanceChargeNote {
		t.Fatalf("otomatik borç notu bekleniyordu: %q", ch.Note)
	}
}

func TestEnsureChargeUsesOverridePrice(t *testing.T) {
	db := newTestDB(t)
	_, _, enr := newCourseSessionEnrollment(t, db, 500, fptr(400), fptr(350), models.EnrollmentAttended)

	if err := ledger.EnsureChargeForAttendance(db, enr.ID); err != nil {
		t.Fatalf("EnsureChargeForAttendance: %v", err)
	}

	var ch models.Charge
	if err := db.Where("person_id = ?", enr.PersonID).First(&ch).Error; err != nil {
		t.Fatalf("First: %v", err)
	}
	if ch.Amount != 350 {
		t.Fatalf("kayıt override'ı kullanılmalıydı (350): %v", ch.Amount)
	}
}

func TestEnsureChargeNoopWhenNotAttended(t *testing.T) {
	db := newTestDB(t)
	_, _, enr := newCourseSessionEnrollment(t, db, 500, nil, nil, models.EnrollmentRegistered)

	if err := ledger.EnsureChargeForAttendance(db, enr.ID); err != nil {
		t.Fatalf("EnsureChargeForAttendance: %v", err)
	}

	var count int64
	if err := db.Model(&models.Charge{}).Count(&count).Error; err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 0 {
		t.Fatalf("attended olmayan kayıt borç üretmemeli, %d satır var", count)
	}
}

func TestEnsureChargeNoopWhenEnrollmentMissing(t *testing.T) {
	db := newTestDB(t)

	// olmayan kayıt: hata değil, sessiz no-op
	if err := ledger.EnsureChargeForAttendance(db, 424242); err != nil {
		t.Fatalf("olmayan kayıt için hata dönmemeli: %v", err)
	}

	var count int64
	if err := db.Model(&models.Charge{}).Count(&count).Error; err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 0 {
		t.Fatalf("borç satırı oluşmamalıydı, %d var", count)
	}
}

func TestEnsureChargeSessionDeleted(t *testing.T) {
	db := newTestDB(t)
	_, sess, enr := newCourseSessionEnrollment(t, db, 500, nil, nil, models.EnrollmentAttended)

	// seans silinmiş: bugünün tarihiyle 0 TL borç yazılır
	if err := db.Delete(&models.Session{}, sess.ID).Error; err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if err := ledger.EnsureChargeForAttendance(db, enr.ID); err != nil {
		t.Fatalf("EnsureChargeForAttendance: %v", err)
	}

	var ch models.Charge
	if err := db.Where("person_id = ?", enr.PersonID).First(&ch).Error; err != nil {
		t.Fatalf("First: %v", err)
	}
	if ch.Amount != 0 {
		t.Fatalf("seanssız borç 0 TL olmalı: %v", ch.Amount)
	}
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if !ch.Date.Equal(today) {
		t.Fatalf("seanssız borç bugünün tarihini almalı: %v", ch.Date)
	}
}

func TestEnsureChargeExistingManualChargeBlocks(t *testing.T) {
	db := newTestDB(t)
	_, sess, enr := newCourseSessionEnrollment(t, db, 500, nil, nil, models.EnrollmentAttended)

	// aynı (kişi, seans) için elle girilmiş borç varsa yenisi yazılmaz
	sid := sess.ID
	mustCreate(t, db, &models.Charge{PersonID: enr.PersonID, SessionID: &sid, Amount: 123, Date: sess.Date, Note: "elle giriş"})

	if err := ledger.EnsureChargeForAttendance(db, enr.ID); err != nil {
		t.Fatalf("EnsureChargeForAttendance: %v", err)
	}

	var count int64
	if err := db.Model(&models.Charge{}).
		Where("person_id = ? AND session_id = ?", enr.PersonID, sess.ID).
		Count(&count).Error; err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 1 {
		t.Fatalf("mevcut borç korunmalı, yenisi eklenmemeli: %d satır", count)
	}
}
