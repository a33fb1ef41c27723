package models

import "time"

type MaterialCategory string

const (
	MaterialCategoryClay       MaterialCategory = "clay"
	MaterialCategoryGlaze      MaterialCategory = "glaze"
	MaterialCategoryPaint      MaterialCategory = "paint"
	MaterialCategoryTool       MaterialCategory = "tool"
	MaterialCategoryConsumable MaterialCategory = "consumable"
)

type MaterialUnit string

const (
	MaterialUnitKg  MaterialUnit = "kg"
	MaterialUnitL   MaterialUnit = "L"
	MaterialUnitPcs MaterialUnit = "pcs"
)

type Material struct {
	ID          uint             `gorm:"primaryKey"`
	Name        string           `gorm:"size:100;not null;unique"`
	Category    MaterialCategory `gorm:"size:20;not null"`
	DefaultUnit MaterialUnit     `gorm:"size:10;not null"` // kg / L / pcs
	Brand       *string          `gorm:"size:100"`
	ColorCode   *string          `gorm:"size:50"`
	MinLevel    *float64         // altına düşünce uyarı
	IsActive    bool             `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
