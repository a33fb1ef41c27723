package ledger_test

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"seramik-backend/internal/database"
	"seramik-backend/internal/models"
)

// newTestDB: test başına izole in-memory SQLite, şema Migrate ile kurulur.
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

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func fptr(v float64) *float64 { return &v }

func mustCreate(t *testing.T, db *gorm.DB, value any) {
	t.Helper()
	if err := db.Create(value).Error; err != nil {
		t.Fatalf("Create %T: %v", value, err)
	}
}

func newPerson(t *testing.T, db *gorm.DB, name string) models.Person {
	t.Helper()
	p := models.Person{Name: name, IsActive: true}
	mustCreate(t, db, &p)
	return p
}

func newMaterial(t *testing.T, db *gorm.DB, name string) models.Material {
	t.Helper()
	m := models.Material{
		Name:        name,
		Category:    models.MaterialCategoryClay,
		DefaultUnit: models.MaterialUnitKg,
		IsActive:    true,
	}
	mustCreate(t, db, &m)
	return m
}

func newCourseSessionEnrollment(t *testing.T, db *gorm.DB, defaultPrice float64, sessOverride, enrollOverride *float64, status models.EnrollmentStatus) (models.Course, models.Session, models.Enrollment) {
	t.Helper()

	c := models.Course{Name: fmt.Sprintf("Kurs %s", t.Name()), DefaultPrice: defaultPrice, DefaultCapacity: 16}
	mustCreate(t, db, &c)

	s := models.Session{
		CourseID:      c.ID,
		Date:          day(2025, time.September, 12),
		StartTime:     "10:00",
		EndTime:       "12:00",
		Capacity:      c.DefaultCapacity,
		PriceOverride: sessOverride,
	}
	mustCreate(t, db, &s)

	p := newPerson(t, db, fmt.Sprintf("Kişi %s", t.Name()))
	e := models.Enrollment{
		PersonID:      p.ID,
		SessionID:     s.ID,
		Status:        status,
		PriceOverride: enrollOverride,
	}
	mustCreate(t, db, &e)

	return c, s, e
}
