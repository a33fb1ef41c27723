package models

import "time"

type ExpenseCategory string

const (
	ExpenseCategoryRent        ExpenseCategory = "rent"        // kira
	ExpenseCategorySupplies    ExpenseCategory = "supplies"    // malzeme
	ExpenseCategoryUtility     ExpenseCategory = "utility"     // fatura
	ExpenseCategoryMaintenance ExpenseCategory = "maintenance" // bakım
	ExpenseCategoryOther       ExpenseCategory = "other"
)

// ExpenseSourceCash: şimdilik tüm harcamalar kasadan yapılıyor.
const ExpenseSourceCash = "cash"

// Expense: kasadan yapılan harcama. Append-only; kasa bakiyesini düşürür.
type Expense struct {
	ID        uint            `gorm:"primaryKey"`
	Amount    float64         `gorm:"not null"`
	Category  ExpenseCategory `gorm:"size:20;not null;default:other"`
	PaidFrom  string          `gorm:"size:10;not null;default:cash"`
	Date      time.Time       `gorm:"index;not null"`
	Note      string          `gorm:"size:255"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
