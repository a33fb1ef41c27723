package dashboard

import (
	"errors"
	"time"

	"seramik-backend/internal/config"
	"seramik-backend/internal/database"
	"seramik-backend/internal/ledger"
	"seramik-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type DashboardResponse struct {
	Date             string             `json:"date"`
	CashOnHand       float64            `json:"cash_on_hand"`
	NetCashToday     float64            `json:"net_cash_today"` // bugünkü nakit tahsilat - bugünkü nakit harcama
	IBANToday        float64            `json:"iban_today"`
	AttendeesToday   int64              `json:"attendees_today"` // bugün katılan tekil kişi
	UndeliveredCount int64              `json:"undelivered_count"`
	NextSessions     []NextSessionEntry `json:"next_sessions"`
	Debtors          []DebtorEntry      `json:"debtors"`
}

type NextSessionEntry struct {
	SessionID    uint     `json:"session_id"`
	CourseName   string   `json:"course_name"`
	Date         string   `json:"date"`
	StartTime    string   `json:"start_time"`
	EndTime      string   `json:"end_time"`
	Capacity     int      `json:"capacity"`
	Participants []string `json:"participants"` // "Ad Soyad (telefon)"
}

type DebtorEntry struct {
	PersonID uint    `json:"person_id"`
	Name     string  `json:"name"`
	Phone    *string `json:"phone"`
	Balance  float64 `json:"balance"`
}

// GET /api/dashboard
// Günün özeti: kasa, bugünkü hareketler, en yakın seans günü ve borçlular.
func DashboardHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		now := time.Now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

		cash, err := ledger.CashOnHand(database.DB, cfg.OpeningCash)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kasa hesaplanamadı")
		}

		var cashTodayIn float64
		if err := database.DB.Model(&models.Payment{}).
			Where("date = ? AND cleared = ? AND method = ?", today, true, models.PaymentMethodCash).
			Select("COALESCE(SUM(amount), 0)").
			Scan(&cashTodayIn).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Bugünkü tahsilatlar hesaplanamadı")
		}

		var ibanToday float64
		if err := database.DB.Model(&models.Payment{}).
			Where("date = ? AND cleared = ? AND method = ?", today, true, models.PaymentMethodIBAN).
			Select("COALESCE(SUM(amount), 0)").
			Scan(&ibanToday).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Bugünkü tahsilatlar hesaplanamadı")
		}

		var cashTodayOut float64
		if err := database.DB.Model(&models.Expense{}).
			Where("date = ? AND paid_from = ?", today, models.ExpenseSourceCash).
			Select("COALESCE(SUM(amount), 0)").
			Scan(&cashTodayOut).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Bugünkü harcamalar hesaplanamadı")
		}

		var attendeesToday int64
		if err := database.DB.Model(&models.Enrollment{}).
			Joins("JOIN sessions ON sessions.id = enrollments.session_id").
			Where("sessions.date = ? AND enrollments.status = ?", today, models.EnrollmentAttended).
			Distinct("enrollments.person_id").
			Count(&attendeesToday).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Katılımcılar hesaplanamadı")
		}

		var undelivered int64
		if err := database.DB.Model(&models.Piece{}).
			Where("delivered = ?", false).
			Count(&undelivered).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Parçalar sayılamadı")
		}

		nextSessions, err := nextSessionDay(today)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Yaklaşan seanslar alınamadı")
		}

		debtors, err := listDebtors()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Borçlular hesaplanamadı")
		}

		return c.JSON(DashboardResponse{
			Date:             today.Format("2006-01-02"),
			CashOnHand:       cash,
			NetCashToday:     ledger.Round(cashTodayIn-cashTodayOut, 2),
			IBANToday:        ibanToday,
			AttendeesToday:   attendeesToday,
			UndeliveredCount: undelivered,
			NextSessions:     nextSessions,
			Debtors:          debtors,
		})
	}
}

// nextSessionDay: bugünden itibaren seansı olan ilk günün seansları,
// kayıtlı + katıldı durumundaki katılımcılarıyla.
func nextSessionDay(today time.Time) ([]NextSessionEntry, error) {
	var next models.Session
	err := database.DB.
		Where("date >= ?", today).
		Order("date asc").
		First(&next).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []NextSessionEntry{}, nil
	}
	if err != nil {
		return nil, err
	}

	var sessions []models.Session
	if err := database.DB.Preload("Course").
		Where("date = ?", next.Date).
		Order("start_time asc").
		Find(&sessions).Error; err != nil {
		return nil, err
	}

	entries := make([]NextSessionEntry, 0, len(sessions))
	for i := range sessions {
		sess := &sessions[i]

		var enrollments []models.Enrollment
		if err := database.DB.Preload("Person").
			Where("session_id = ? AND status IN ?", sess.ID,
				[]models.EnrollmentStatus{models.EnrollmentRegistered, models.EnrollmentAttended}).
			Find(&enrollments).Error; err != nil {
			return nil, err
		}

		names := make([]string, 0, len(enrollments))
		for _, e := range enrollments {
			phone := "-"
			if e.Person.Phone != nil {
				phone = *e.Person.Phone
			}
			names = append(names, e.Person.Name+" ("+phone+")")
		}

		entries = append(entries, NextSessionEntry{
			SessionID:    sess.ID,
			CourseName:   sess.Course.Name,
			Date:         sess.Date.Format("2006-01-02"),
			StartTime:    sess.StartTime,
			EndTime:      sess.EndTime,
			Capacity:     sess.Capacity,
			Participants: names,
		})
	}

	return entries, nil
}

func listDebtors() ([]DebtorEntry, error) {
	var people []models.Person
	if err := database.DB.Where("is_active = ?", true).Find(&people).Error; err != nil {
		return nil, err
	}

	debtors := make([]DebtorEntry, 0)
	for i := range people {
		balance, err := ledger.WalletBalance(database.DB, people[i].ID)
		if err != nil {
			return nil, err
		}
		if balance < 0 {
			debtors = append(debtors, DebtorEntry{
				PersonID: people[i].ID,
				Name:     people[i].Name,
				Phone:    people[i].Phone,
				Balance:  balance,
			})
		}
	}

	// en borçlu en üstte
	for i := 0; i < len(debtors); i++ {
		for j := i + 1; j < len(debtors); j++ {
			if debtors[j].Balance < debtors[i].Balance {
				debtors[i], debtors[j] = debtors[j], debtors[i]
			}
		}
	}

	return debtors, nil
}
