package expense

import (
	"fmt"
	"log"
	"time"

	"seramik-backend/internal/audit"
	"seramik-backend/internal/auth"
	"seramik-backend/internal/config"
	"seramik-backend/internal/database"
	"seramik-backend/internal/ledger"
	"seramik-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateExpenseRequest struct {
	Date     *string                `json:"date"` // "2025-09-12", boşsa bugün
	Category models.ExpenseCategory `json:"category"`
	Amount   float64                `json:"amount"`
	Note     string                 `json:"note"`
}

type ExpenseResponse struct {
	ID       uint                   `json:"id"`
	Category models.ExpenseCategory `json:"category"`
	PaidFrom string                 `json:"paid_from"`
	Date     string                 `json:"date"`
	Amount   float64                `json:"amount"`
	Note     string                 `json:"note"`
}

type CashHistoryResponse struct {
	From       string  `json:"from"`
	To         string  `json:"to"`
	CashIn     float64 `json:"cash_in"`
	IBANIn     float64 `json:"iban_in"`
	CashOut    float64 `json:"cash_out"`
	CashOnHand float64 `json:"cash_on_hand"` // anlık, tarih aralığından bağımsız
}

func validCategory(cat models.ExpenseCategory) bool {
	switch cat {
	case models.ExpenseCategoryRent, models.ExpenseCategorySupplies,
		models.ExpenseCategoryUtility, models.ExpenseCategoryMaintenance,
		models.ExpenseCategoryOther:
		return true
	}
	return false
}

// POST /api/expenses
func CreateExpenseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateExpenseRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.Amount <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Tutar 0'dan büyük olmalı")
		}
		if !validCategory(body.Category) {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz kategori (rent|supplies|utility|maintenance|other)")
		}

		date := time.Now()
		if body.Date != nil && *body.Date != "" {
			d, err := time.Parse("2006-01-02", *body.Date)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "date geçersiz (YYYY-MM-DD)")
			}
			date = d
		}
		day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

		exp := models.Expense{
			Amount:   body.Amount,
			Category: body.Category,
			PaidFrom: models.ExpenseSourceCash, // şimdilik hep kasadan
			Date:     day,
			Note:     body.Note,
		}
		if err := database.DB.Create(&exp).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Harcama kaydedilemedi")
		}

		if userID, userName, err := auth.GetUserInfo(c); err == nil {
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "expense",
				EntityID:    exp.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Harcama: %s - %.2f TL", exp.Category, exp.Amount),
				After:       exp,
			}); logErr != nil {
				log.Printf("Audit log yazılamadı: %v", logErr)
			}
		}

		return c.Status(fiber.StatusCreated).JSON(toExpenseResponse(&exp))
	}
}

// GET /api/expenses?from=...&to=...&category=...
func ListExpensesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Expense{}).Order("date desc, id desc")

		if fromStr := c.Query("from"); fromStr != "" {
			from, err := time.Parse("2006-01-02", fromStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "from tarihi geçersiz")
			}
			dbq = dbq.Where("date >= ?", from)
		}
		if toStr := c.Query("to"); toStr != "" {
			to, err := time.Parse("2006-01-02", toStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "to tarihi geçersiz")
			}
			dbq = dbq.Where("date <= ?", to)
		}
		if cat := c.Query("category"); cat != "" {
			if !validCategory(models.ExpenseCategory(cat)) {
				return fiber.NewError(fiber.StatusBadRequest, "category geçersiz")
			}
			dbq = dbq.Where("category = ?", cat)
		}

		var expenses []models.Expense
		if err := dbq.Find(&expenses).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Harcamalar listelenemedi")
		}

		resp := make([]ExpenseResponse, 0, len(expenses))
		for i := range expenses {
			resp = append(resp, toExpenseResponse(&expenses[i]))
		}
		return c.JSON(resp)
	}
}

// GET /api/cash-history?from=...&to=...
// Kasa geçmişi: aralıktaki nakit giriş, IBAN giriş, kasadan çıkış ve anlık kasa.
func CashHistoryHandler(cfg *config.Config) fiber.Handler {
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

		var cashIn float64
		if err := database.DB.Model(&models.Payment{}).
			Where("date >= ? AND date <= ? AND cleared = ? AND method = ?", from, to, true, models.PaymentMethodCash).
			Select("COALESCE(SUM(amount), 0)").
			Scan(&cashIn).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Nakit girişler hesaplanamadı")
		}

		var ibanIn float64
		if err := database.DB.Model(&models.Payment{}).
			Where("date >= ? AND date <= ? AND cleared = ? AND method = ?", from, to, true, models.PaymentMethodIBAN).
			Select("COALESCE(SUM(amount), 0)").
			Scan(&ibanIn).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "IBAN girişler hesaplanamadı")
		}

		var cashOut float64
		if err := database.DB.Model(&models.Expense{}).
			Where("date >= ? AND date <= ? AND paid_from = ?", from, to, models.ExpenseSourceCash).
			Select("COALESCE(SUM(amount), 0)").
			Scan(&cashOut).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Harcamalar hesaplanamadı")
		}

		cash, err := ledger.CashOnHand(database.DB, cfg.OpeningCash)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kasa hesaplanamadı")
		}

		return c.JSON(CashHistoryResponse{
			From:       from.Format("2006-01-02"),
			To:         to.Format("2006-01-02"),
			CashIn:     cashIn,
			IBANIn:     ibanIn,
			CashOut:    cashOut,
			CashOnHand: cash,
		})
	}
}

func toExpenseResponse(e *models.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:       e.ID,
		Category: e.Category,
		PaidFrom: e.PaidFrom,
		Date:     e.Date.Format("2006-01-02"),
		Amount:   e.Amount,
		Note:     e.Note,
	}
}
