package enrollments_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"seramik-backend/internal/database"
	"seramik-backend/internal/enrollments"
	"seramik-backend/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("test veritabanı açılamadı: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return db
}

func seedSession(t *testing.T, db *gorm.DB, capacity int) (models.Person, models.Session) {
	t.Helper()

	course := models.Course{Name: "Atölye – Kurs", DefaultPrice: 500, DefaultCapacity: 16}
	if err := db.Create(&course).Error; err != nil {
		t.Fatalf("Create course: %v", err)
	}
	sess := models.Session{
		CourseID:  course.ID,
		Date:      time.Date(2025, time.September, 20, 0, 0, 0, 0, time.UTC),
		StartTime: "10:00",
		EndTime:   "12:00",
		Capacity:  capacity,
	}
	if err := db.Create(&sess).Error; err != nil {
		t.Fatalf("Create session: %v", err)
	}
	person := models.Person{Name: "Test Kişi", IsActive: true}
	if err := db.Create(&person).Error; err != nil {
		t.Fatalf("Create person: %v", err)
	}
	return person, sess
}

func TestCreateRejectsDuplicatePair(t *testing.T) {
	db := newTestDB(t)
	person, sess := seedSession(t, db, 16)

	if _, err := enrollments.Create(db, person.ID, sess.ID, nil, nil, ""); err != nil {
		t.Fatalf("ilk kayıt: %v", err)
	}
	if _, err := enrollments.Create(db, person.ID, sess.ID, nil, nil, ""); err != enrollments.ErrAlreadyEnrolled {
		t.Fatalf("aynı (kişi, seans) için ErrAlreadyEnrolled bekleniyordu, gelen: %v", err)
	}

	var count int64
	if err := db.Model(&models.Enrollment{}).
		Where("person_id = ? AND session_id = ?", person.ID, sess.ID).
		Count(&count).Error; err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 1 {
		t.Fatalf("tek kayıt bekleniyordu, %d var", count)
	}
}

func TestUniqueIndexBlocksRawDuplicate(t *testing.T) {
	// Servis kontrolü atlansa bile veritabanı indexi ikinci satırı düşürmeli.
	db := newTestDB(t)
	person, sess := seedSession(t, db, 16)

	first := models.Enrollment{PersonID: person.ID, SessionID: sess.ID, Status: models.EnrollmentRegistered}
	if err := db.Create(&first).Error; err != nil {
		t.Fatalf("ilk insert: %v", err)
	}
	second := models.Enrollment{PersonID: person.ID, SessionID: sess.ID, Status: models.EnrollmentRegistered}
	if err := db.Create(&second).Error; err == nil {
		t.Fatal("unique index ikinci insert'i reddetmeliydi")
	}
}

func TestCreateRejectsWhenFull(t *testing.T) {
	db := newTestDB(t)
	person, sess := seedSession(t, db, 1)

	other := models.Person{Name: "Diğer Kişi", IsActive: true}
	if err := db.Create(&other).Error; err != nil {
		t.Fatalf("Create person: %v", err)
	}

	if _, err := enrollments.Create(db, other.ID, sess.ID, nil, nil, ""); err != nil {
		t.Fatalf("ilk kayıt: %v", err)
	}
	if _, err := enrollments.Create(db, person.ID, sess.ID, nil, nil, ""); err != enrollments.ErrSessionFull {
		t.Fatalf("kapasite dolunca ErrSessionFull bekleniyordu, gelen: %v", err)
	}
}

func TestCanceledFreesCapacity(t *testing.T) {
	db := newTestDB(t)
	person, sess := seedSession(t, db, 1)

	other := models.Person{Name: "İptal Eden", IsActive: true}
	if err := db.Create(&other).Error; err != nil {
		t.Fatalf("Create person: %v", err)
	}

	enr, err := enrollments.Create(db, other.ID, sess.ID, nil, nil, "")
	if err != nil {
		t.Fatalf("ilk kayıt: %v", err)
	}
	if _, err := enrollments.UpdateStatus(db, enr.ID, models.EnrollmentCanceled); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	if _, err := enrollments.Create(db, person.ID, sess.ID, nil, nil, ""); err != nil {
		t.Fatalf("iptal sonrası yer açılmalıydı: %v", err)
	}
}

func TestAttendedStatusMaterializesCharge(t *testing.T) {
	db := newTestDB(t)
	person, sess := seedSession(t, db, 16)

	enr, err := enrollments.Create(db, person.ID, sess.ID, nil, nil, "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := enrollments.UpdateStatus(db, enr.ID, models.EnrollmentAttended); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	var charge models.Charge
	if err := db.Where("person_id = ? AND session_id = ?", person.ID, sess.ID).First(&charge).Error; err != nil {
		t.Fatalf("borç satırı bulunamadı: %v", err)
	}
	if charge.Amount != 500 {
		t.Fatalf("borç tutarı ders fiyatı olmalı: %v", charge.Amount)
	}
	if charge.Note != models.AttendanceChargeNote {
		t.Fatalf("otomatik borç notu bekleniyordu: %q", charge.Note)
	}

	// tekrar attended yapmak ikinci borç üretmemeli
	if _, err := enrollments.UpdateStatus(db, enr.ID, models.EnrollmentAttended); err != nil {
		t.Fatalf("ikinci UpdateStatus: %v", err)
	}
	var count int64
	if err := db.Model(&models.Charge{}).
		Where("person_id = ? AND session_id = ?", person.ID, sess.ID).
		Count(&count).Error; err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 1 {
		t.Fatalf("tek borç bekleniyordu, %d var", count)
	}
}

func TestUpdateStatusInvalid(t *testing.T) {
	db := newTestDB(t)
	person, sess := seedSession(t, db, 16)

	enr, err := enrollments.Create(db, person.ID, sess.ID, nil, nil, "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := enrollments.UpdateStatus(db, enr.ID, "maybe"); err != enrollments.ErrInvalidStatus {
		t.Fatalf("ErrInvalidStatus bekleniyordu, gelen: %v", err)
	}
}

func TestCreateSurfacesNonDuplicateInsertError(t *testing.T) {
	db := newTestDB(t)
	person, sess := seedSession(t, db, 16)

	if err := db.Exec(`CREATE TRIGGER enrollments_insert_patlat
		BEFORE INSERT ON enrollments
		BEGIN SELECT RAISE(ABORT, 'disk dolu'); END`).Error; err != nil {
		t.Fatalf("trigger: %v", err)
	}

	_, err := enrollments.Create(db, person.ID, sess.ID, nil, nil, "")
	if err == nil {
		t.Fatalf("insert hatası bekleniyordu")
	}
	if err == enrollments.ErrAlreadyEnrolled {
		t.Fatalf("veritabanı hatası ErrAlreadyEnrolled olarak maskelendi")
	}
	if !strings.Contains(err.Error(), "disk dolu") {
		t.Fatalf("asıl hata aynen dönmeliydi, gelen: %v", err)
	}
}
