package reports

import (
	"time"

	"seramik-backend/internal/database"
	"seramik-backend/internal/ledger"
	"seramik-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ExpenseByCategory struct {
	Category models.ExpenseCategory `json:"category"`
	Total    float64                `json:"total"`
}

type RangeSummaryResponse struct {
	From             string              `json:"from"`
	To               string              `json:"to"`
	CashIn           float64             `json:"cash_in"`
	IBANIn           float64             `json:"iban_in"`
	TotalIn          float64             `json:"total_in"`
	CashExpenses     float64             `json:"cash_expenses"`
	ExpenseBreakdown []ExpenseByCategory `json:"expense_breakdown"`
	Net              float64             `json:"net"` // toplam giriş - kasadan harcama
	UniqueAttendees  int64               `json:"unique_attendees"`
}

// GET /api/reports/summary?from=2025-09-01&to=2025-09-30
// Tarih aralığı toplamları: tahsilatlar, kasadan harcamalar ve katılan
// tekil kişi sayısı.
func RangeSummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		fromStr := c.Query("from")
		toStr := c.Query("to")
		if fromStr == "" || toStr == "" {
			return fiber.NewError(fiber.StatusBadRequest, "from ve to tarihleri zorunlu (YYYY-MM-DD)")
		}
		from, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "from tarihi geçersiz")
		}
		to, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "to tarihi geçersiz")
		}
		if to.Before(from) {
			return fiber.NewError(fiber.StatusBadRequest, "to, from'dan önce olamaz")
		}

		var cashIn float64
		if err := database.DB.Model(&models.Payment{}).
			Where("date >= ? AND date <= ? AND cleared = ? AND method = ?", from, to, true, models.PaymentMethodCash).
			Select("COALESCE(SUM(amount), 0)").
			Scan(&cashIn).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Nakit toplamı hesaplanamadı")
		}

		var ibanIn float64
		if err := database.DB.Model(&models.Payment{}).
			Where("date >= ? AND date <= ? AND cleared = ? AND method = ?", from, to, true, models.PaymentMethodIBAN).
			Select("COALESCE(SUM(amount), 0)").
			Scan(&ibanIn).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "IBAN toplamı hesaplanamadı")
		}

		var cashExpenses float64
		if err := database.DB.Model(&models.Expense{}).
			Where("date >= ? AND date <= ? AND paid_from = ?", from, to, models.ExpenseSourceCash).
			Select("COALESCE(SUM(amount), 0)").
			Scan(&cashExpenses).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Harcamalar hesaplanamadı")
		}

		var breakdown []ExpenseByCategory
		if err := database.DB.Model(&models.Expense{}).
			Where("date >= ? AND date <= ? AND paid_from = ?", from, to, models.ExpenseSourceCash).
			Select("category, COALESCE(SUM(amount), 0) AS total").
			Group("category").
			Order("total DESC").
			Scan(&breakdown).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kategori kırılımı hesaplanamadı")
		}
		if breakdown == nil {
			breakdown = []ExpenseByCategory{}
		}

		var uniqueAttendees int64
		if err := database.DB.Model(&models.Enrollment{}).
			Joins("JOIN sessions ON sessions.id = enrollments.session_id").
			Where("sessions.date >= ? AND sessions.date <= ? AND enrollments.status = ?",
				from, to, models.EnrollmentAttended).
			Distinct("enrollments.person_id").
			Count(&uniqueAttendees).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Katılımcılar hesaplanamadı")
		}

		totalIn := ledger.Round(cashIn+ibanIn, 2)
		return c.JSON(RangeSummaryResponse{
			From:             from.Format("2006-01-02"),
			To:               to.Format("2006-01-02"),
			CashIn:           cashIn,
			IBANIn:           ibanIn,
			TotalIn:          totalIn,
			CashExpenses:     cashExpenses,
			ExpenseBreakdown: breakdown,
			Net:              ledger.Round(totalIn-cashExpenses, 2),
			UniqueAttendees:  uniqueAttendees,
		})
	}
}
