package models

import "time"

// AttendanceChargeNote: katılım işaretlenince otomatik oluşturulan
// borçların sabit notu. charges üzerindeki kısmi unique index bu nota
// göre kurulur (bkz. database.Init).
const AttendanceChargeNote = "Auto charge: attended"

// Charge: kişiye yazılan borç. Append-only; cüzdan bakiyesini düşürür.
// Seansa bağlı olmak zorunda değil (elle girilen borçlar için SessionID nil).
type Charge struct {
	ID        uint `gorm:"primaryKey"`
	PersonID  uint `gorm:"index;not null"`
	Person    Person
	SessionID *uint     `gorm:"index"`
	Amount    float64   `gorm:"not null"`
	Date      time.Time `gorm:"index;not null"`
	Note      string    `gorm:"size:255"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
