package models

import "time"

type PieceStage string

const (
	PieceStageClay      PieceStage = "clay"      // çamur
	PieceStageBisque    PieceStage = "bisque"    // bisküvi
	PieceStageGlaze     PieceStage = "glaze"     // sır
	PieceStageFired     PieceStage = "fired"     // fırınlandı
	PieceStageDelivered PieceStage = "delivered" // teslim edildi
)

// Piece: atölyede üretilen parça. Aşamalar sıralı bir üretim hattını
// temsil eder ama geçişler serbesttir; herhangi bir aşama her an
// seçilebilir.
type Piece struct {
	ID          uint `gorm:"primaryKey"`
	PersonID    uint `gorm:"index;not null"`
	Person      Person
	SessionID   *uint      `gorm:"index"`
	Title       *string    `gorm:"size:100"`
	Stage       PieceStage `gorm:"size:10;not null;default:clay"`
	GlazeColor  *string    `gorm:"size:50"`
	Delivered   bool       `gorm:"not null;default:false"`
	DeliveredAt *time.Time
	Note        string `gorm:"size:500"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
