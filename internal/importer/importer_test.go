package importer

import (
	"fmt"
	"testing"
	"time"

	"seramik-backend/internal/database"
	"seramik-backend/internal/models"

	"github.com/xuri/excelize/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
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
		t.Fatalf("migrasyon başarısız: %v", err)
	}
	return db
}

func buildWorkbook(t *testing.T) *excelize.File {
	t.Helper()

	f := excelize.NewFile()

	f.SetSheetName("Sheet1", "Öğrenci Listesi")
	peopleRows := [][]interface{}{
		{"Ad Soyad", "Telefon", "Instagram", "Not"},
		{"Berna Yılmaz", "05321234567", "@berna", "ilk kayıt"},
		{"Deniz Kaya", "", "", ""},
		{"", "05559876543", "", "isimsiz satır atlanmalı"},
	}
	for i, row := range peopleRows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Öğrenci Listesi", cell, &row); err != nil {
			t.Fatalf("satır yazılamadı: %v", err)
		}
	}

	if _, err := f.NewSheet("Eylül 2025 Takvim"); err != nil {
		t.Fatalf("sayfa eklenemedi: %v", err)
	}
	sessionRows := [][]interface{}{
		{"Tarih", "Başlangıç", "Bitiş", "Tür", "Kapasite", "Fiyat", "Not"},
		{"2025-09-12", "10:00", "12:00", "Kurs", "12", "600", "sabah grubu"},
		{"2025-09-12", "14:00", "16:00", "Boyama", "", "", ""},
		{"2025-09-13", "10:00", "12:00", "Kurs", "", "0", "fiyat 0 -> override yok"},
	}
	for i, row := range sessionRows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Eylül 2025 Takvim", cell, &row); err != nil {
			t.Fatalf("satır yazılamadı: %v", err)
		}
	}

	return f
}

func TestImportWorkbook(t *testing.T) {
	db := newTestDB(t)
	f := buildWorkbook(t)

	result, err := ImportWorkbook(db, f)
	if err != nil {
		t.Fatalf("içe aktarma başarısız: %v", err)
	}

	if result.PeopleAdded != 2 {
		t.Fatalf("beklenen 2 kişi, gelen %d", result.PeopleAdded)
	}
	if result.SessionsAdded != 3 {
		t.Fatalf("beklenen 3 seans, gelen %d", result.SessionsAdded)
	}

	var person models.Person
	if err := db.Where("name = ?", "Berna Yılmaz").First(&person).Error; err != nil {
		t.Fatalf("kişi bulunamadı: %v", err)
	}
	if person.Phone == nil || *person.Phone != "05321234567" {
		t.Fatalf("telefon beklenen gibi değil: %v", person.Phone)
	}

	// Boyama satırı Boyama dersine, diğerleri Atölye – Kurs'a bağlanmalı
	var boyama models.Course
	if err := db.Where("name = ?", "Boyama").First(&boyama).Error; err != nil {
		t.Fatalf("Boyama dersi yaratılmamış: %v", err)
	}
	if boyama.DefaultPrice != 250 {
		t.Fatalf("Boyama varsayılan fiyatı 250 olmalı, gelen %.2f", boyama.DefaultPrice)
	}

	var kurs models.Course
	if err := db.Where("name = ?", "Atölye – Kurs").First(&kurs).Error; err != nil {
		t.Fatalf("Atölye – Kurs dersi yaratılmamış: %v", err)
	}

	// Fiyat > 0 override olmalı, 0 olmamalı
	var withOverride models.Session
	if err := db.Where("course_id = ? AND start_time = ?", kurs.ID, "10:00").
		Where("date = ?", mustDay(t, "2025-09-12")).
		First(&withOverride).Error; err != nil {
		t.Fatalf("seans bulunamadı: %v", err)
	}
	if withOverride.PriceOverride == nil || *withOverride.PriceOverride != 600 {
		t.Fatalf("fiyat override 600 olmalı, gelen %v", withOverride.PriceOverride)
	}
	if withOverride.Capacity != 12 {
		t.Fatalf("kapasite 12 olmalı, gelen %d", withOverride.Capacity)
	}

	var zeroPrice models.Session
	if err := db.Where("course_id = ? AND date = ?", kurs.ID, mustDay(t, "2025-09-13")).
		First(&zeroPrice).Error; err != nil {
		t.Fatalf("seans bulunamadı: %v", err)
	}
	if zeroPrice.PriceOverride != nil {
		t.Fatalf("fiyat 0 iken override olmamalı, gelen %v", *zeroPrice.PriceOverride)
	}
	if zeroPrice.Capacity != kurs.DefaultCapacity {
		t.Fatalf("kapasite ders varsayılanı olmalı, gelen %d", zeroPrice.Capacity)
	}
}

func TestImportWorkbookIdempotent(t *testing.T) {
	db := newTestDB(t)

	if _, err := ImportWorkbook(db, buildWorkbook(t)); err != nil {
		t.Fatalf("ilk içe aktarma başarısız: %v", err)
	}
	second, err := ImportWorkbook(db, buildWorkbook(t))
	if err != nil {
		t.Fatalf("ikinci içe aktarma başarısız: %v", err)
	}

	if second.PeopleAdded != 0 {
		t.Fatalf("ikinci turda kişi eklenmemeli, gelen %d", second.PeopleAdded)
	}
	if second.PeopleSkipped != 2 {
		t.Fatalf("ikinci turda 2 kişi atlanmalı, gelen %d", second.PeopleSkipped)
	}
	if second.SessionsAdded != 0 {
		t.Fatalf("ikinci turda seans eklenmemeli, gelen %d", second.SessionsAdded)
	}

	var personCount, sessionCount int64
	db.Model(&models.Person{}).Count(&personCount)
	db.Model(&models.Session{}).Count(&sessionCount)
	if personCount != 2 || sessionCount != 3 {
		t.Fatalf("kayıt sayıları değişmemeli: %d kişi, %d seans", personCount, sessionCount)
	}
}

func TestImportWorkbookMissingSheets(t *testing.T) {
	db := newTestDB(t)

	f := excelize.NewFile()
	result, err := ImportWorkbook(db, f)
	if err != nil {
		t.Fatalf("boş dosya hata vermemeli: %v", err)
	}
	if len(result.Warnings) != 2 {
		t.Fatalf("iki uyarı beklenirdi, gelen %v", result.Warnings)
	}
}

func mustDay(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("tarih çözülemedi: %v", err)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.Local)
}
