package database

import (
	"log"

	"seramik-backend/internal/config"
	"seramik-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	if cfg.DatabaseDSN != "" {
		DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
		if err != nil {
			// Bağlantı hatasında durmuyoruz: gömülü SQLite ile devam et,
			// tablolar orada oluşturulur.
			log.Printf("Postgres'e bağlanılamadı (%v), SQLite fallback kullanılıyor: %s", err, cfg.SQLitePath)
			DB = nil
		}
	}

	if DB == nil {
		DB, err = gorm.Open(sqlite.Open(cfg.SQLitePath), &gorm.Config{})
		if err != nil {
			log.Fatalf("SQLite açılamadı: %v", err)
		}
	}

	if err := Migrate(DB); err != nil {
		log.Fatalf("AutoMigrate hatası: %v", err)
	}

	seedCourses(DB)

	log.Println("Veritabanı bağlantısı başarılı. Migration tamamlandı.")
}

// Migrate: şemayı idempotent olarak kurar. Testler de aynı yoldan geçsin
// diye Init'ten ayrı.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Person{},
		&models.Course{},
		&models.Session{},
		&models.Enrollment{},
		&models.Payment{},
		&models.Charge{},
		&models.Expense{},
		&models.Piece{},
		&models.Material{},
		&models.StockMovement{},
		&models.DailyNote{},
		&models.AuditLog{},
	)
	if err != nil {
		return err
	}

	// Katılımdan üretilen borçlar için kısmi unique index. AutoMigrate
	// kısmi index üretemediği için raw SQL (hem Postgres hem SQLite
	// destekliyor). check-then-insert yarışında ikinci insert burada patlar.
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_charges_attendance_unique
		ON charges (person_id, session_id)
		WHERE note = '` + models.AttendanceChargeNote + `'
	`).Error; err != nil {
		log.Printf("Katılım borcu unique index oluşturulamadı (devam ediliyor): %v", err)
	}

	return nil
}

// seedCourses: hiç ders yoksa iki varsayılan dersi ekle.
func seedCourses(db *gorm.DB) {
	var count int64
	if err := db.Model(&models.Course{}).Count(&count).Error; err != nil || count > 0 {
		return
	}
	courses := []models.Course{
		{Name: "Atölye – Kurs", DefaultPrice: 500, DefaultCapacity: models.DefaultCourseCapacity},
		{Name: "Boyama", DefaultPrice: 250, DefaultCapacity: models.DefaultCourseCapacity},
	}
	if err := db.Create(&courses).Error; err != nil {
		log.Printf("Varsayılan dersler eklenemedi: %v", err)
	}
}
