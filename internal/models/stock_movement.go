package models

import "time"

type MovementDirection string

const (
	MovementIn     MovementDirection = "in"
	MovementOut    MovementDirection = "out"
	MovementAdjust MovementDirection = "adjust"
)

type MovementSource string

const (
	MovementSourcePurchase    MovementSource = "purchase"
	MovementSourceConsumption MovementSource = "consumption"
	MovementSourceWaste       MovementSource = "waste"
	MovementSourceTest        MovementSource = "test"
	MovementSourceAdjust      MovementSource = "adjust"
)

// StockMovement: malzeme stok hareketi. Append-only; bakiye ve WAC her
// okumada tüm geçmişten hesaplanır. UnitCost sadece "in" yönünde anlamlı.
type StockMovement struct {
	ID         uint `gorm:"primaryKey"`
	MaterialID uint `gorm:"index;not null"`
	Material   Material
	Direction  MovementDirection `gorm:"size:10;not null"`
	Qty        float64           `gorm:"not null"`
	UnitCost   *float64
	Source     MovementSource `gorm:"size:20;not null"`
	SessionID  *uint          `gorm:"index"`
	Date       time.Time      `gorm:"index;not null"`
	Note       string         `gorm:"size:255"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
