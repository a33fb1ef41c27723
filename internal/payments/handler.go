package payments

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

type CreatePaymentRequest struct {
	PersonID uint                 `json:"person_id"`
	Amount   float64              `json:"amount"`
	Method   models.PaymentMethod `json:"method"`  // "cash" | "iban"
	Cleared  *bool                `json:"cleared"` // boşsa true
	Date     *string              `json:"date"`    // "2025-09-12", boşsa bugün
	Note     string               `json:"note"`
}

type PaymentResponse struct {
	ID       uint                 `json:"id"`
	PersonID uint                 `json:"person_id"`
	Amount   float64              `json:"amount"`
	Method   models.PaymentMethod `json:"method"`
	Cleared  bool                 `json:"cleared"`
	Date     string               `json:"date"`
	Note     string               `json:"note"`
}

type CreateChargeRequest struct {
	PersonID  uint    `json:"person_id"`
	SessionID *uint   `json:"session_id"`
	Amount    float64 `json:"amount"`
	Date      *string `json:"date"`
	Note      string  `json:"note"`
}

type ChargeResponse struct {
	ID        uint    `json:"id"`
	PersonID  uint    `json:"person_id"`
	SessionID *uint   `json:"session_id"`
	Amount    float64 `json:"amount"`
	Date      string  `json:"date"`
	Note      string  `json:"note"`
}

type WalletBalanceResponse struct {
	PersonID uint    `json:"person_id"`
	Name     string  `json:"name"`
	Phone    *string `json:"phone"`
	Balance  float64 `json:"balance"`
}

func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

func resolveDate(s *string) (time.Time, error) {
	if s == nil || *s == "" {
		return today(), nil
	}
	return time.Parse("2006-01-02", *s)
}

// POST /api/payments
func CreatePaymentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreatePaymentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.Amount <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Tutar 0'dan büyük olmalı")
		}
		switch body.Method {
		case models.PaymentMethodCash, models.PaymentMethodIBAN:
			// ok
		default:
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz method (cash|iban)")
		}

		var person models.Person
		if err := database.DB.First(&person, body.PersonID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Kişi bulunamadı")
		}

		date, err := resolveDate(body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "date geçersiz (YYYY-MM-DD)")
		}

		cleared := true
		if body.Cleared != nil {
			cleared = *body.Cleared
		}

		payment := models.Payment{
			PersonID: body.PersonID,
			Amount:   body.Amount,
			Method:   body.Method,
			Cleared:  cleared,
			Date:     date,
			Note:     body.Note,
		}
		if err := database.DB.Create(&payment).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ödeme kaydedilemedi")
		}

		if userID, userName, err := auth.GetUserInfo(c); err == nil {
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "payment",
				EntityID:    payment.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Tahsilat: %s - %.2f TL (%s)", person.Name, payment.Amount, payment.Method),
				After:       payment,
			}); logErr != nil {
				log.Printf("Audit log yazılamadı: %v", logErr)
			}
		}

		return c.Status(fiber.StatusCreated).JSON(toPaymentResponse(&payment))
	}
}

// GET /api/payments?from=...&to=...&person_id=...
func ListPaymentsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Payment{}).Order("date desc, id desc")

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
		if pidStr := c.Query("person_id"); pidStr != "" {
			var pid uint
			if _, err := fmt.Sscan(pidStr, &pid); err != nil || pid == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "person_id geçersiz")
			}
			dbq = dbq.Where("person_id = ?", pid)
		}

		var payments []models.Payment
		if err := dbq.Find(&payments).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ödemeler listelenemedi")
		}

		resp := make([]PaymentResponse, 0, len(payments))
		for i := range payments {
			resp = append(resp, toPaymentResponse(&payments[i]))
		}
		return c.JSON(resp)
	}
}

// POST /api/charges
// Elle borç girişi (seans bağlantısı opsiyonel).
func CreateChargeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateChargeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.Amount <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Tutar 0'dan büyük olmalı")
		}
		var person models.Person
		if err := database.DB.First(&person, body.PersonID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Kişi bulunamadı")
		}

		date, err := resolveDate(body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "date geçersiz (YYYY-MM-DD)")
		}

		charge := models.Charge{
			PersonID:  body.PersonID,
			SessionID: body.SessionID,
			Amount:    body.Amount,
			Date:      date,
			Note:      body.Note,
		}
		if err := database.DB.Create(&charge).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Borç kaydedilemedi")
		}

		if userID, userName, err := auth.GetUserInfo(c); err == nil {
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "charge",
				EntityID:    charge.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Borç: %s - %.2f TL", person.Name, charge.Amount),
				After:       charge,
			}); logErr != nil {
				log.Printf("Audit log yazılamadı: %v", logErr)
			}
		}

		return c.Status(fiber.StatusCreated).JSON(toChargeResponse(&charge))
	}
}

// GET /api/people/:id/wallet
func WalletBalanceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id geçersiz")
		}

		var person models.Person
		if err := database.DB.First(&person, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kişi bulunamadı")
		}

		bal, err := ledger.WalletBalance(database.DB, person.ID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Bakiye hesaplanamadı")
		}

		return c.JSON(WalletBalanceResponse{
			PersonID: person.ID,
			Name:     person.Name,
			Phone:    person.Phone,
			Balance:  bal,
		})
	}
}

// GET /api/wallets
// Tüm kişilerin cüzdan bakiyeleri, en borçlu en üstte.
func ListWalletBalancesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var people []models.Person
		if err := database.DB.Order("name asc").Find(&people).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kişiler listelenemedi")
		}

		resp := make([]WalletBalanceResponse, 0, len(people))
		for i := range people {
			bal, err := ledger.WalletBalance(database.DB, people[i].ID)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Bakiye hesaplanamadı")
			}
			resp = append(resp, WalletBalanceResponse{
				PersonID: people[i].ID,
				Name:     people[i].Name,
				Phone:    people[i].Phone,
				Balance:  bal,
			})
		}

		for i := 0; i < len(resp); i++ {
			for j := i + 1; j < len(resp); j++ {
				if resp[j].Balance < resp[i].Balance {
					resp[i], resp[j] = resp[j], resp[i]
				}
			}
		}

		return c.JSON(resp)
	}
}

// GET /api/cash-on-hand
func CashOnHandHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cash, err := ledger.CashOnHand(database.DB, cfg.OpeningCash)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kasa hesaplanamadı")
		}
		return c.JSON(fiber.Map{"cash_on_hand": cash})
	}
}

func toPaymentResponse(p *models.Payment) PaymentResponse {
	return PaymentResponse{
		ID:       p.ID,
		PersonID: p.PersonID,
		Amount:   p.Amount,
		Method:   p.Method,
		Cleared:  p.Cleared,
		Date:     p.Date.Format("2006-01-02"),
		Note:     p.Note,
	}
}

func toChargeResponse(ch *models.Charge) ChargeResponse {
	return ChargeResponse{
		ID:        ch.ID,
		PersonID:  ch.PersonID,
		SessionID: ch.SessionID,
		Amount:    ch.Amount,
		Date:      ch.Date.Format("2006-01-02"),
		Note:      ch.Note,
	}
}
