package dashboard

import (
	"time"

	"seramik-backend/internal/database"
	"seramik-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CashChartPoint struct {
	Label string  `json:"label"` // tarih / hafta başlangıcı / ay başlangıcı
	Cash  float64 `json:"cash"`
	IBAN  float64 `json:"iban"`
	Total float64 `json:"total"`
}

type CashChartGrandTotals struct {
	Cash  float64 `json:"cash"`
	IBAN  float64 `json:"iban"`
	Total float64 `json:"total"`
}

type CashChartResponse struct {
	Period      string               `json:"period"` // daily | weekly | monthly
	From        string               `json:"from"`
	To          string               `json:"to"`
	Points      []CashChartPoint     `json:"points"`
	GrandTotals CashChartGrandTotals `json:"grand_totals"`
}

// GET /api/dashboard/cash-chart?period=daily&count=7
func CashChartHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		period := c.Query("period", "daily") // daily | weekly | monthly
		count := c.QueryInt("count", 0)

		if count == 0 {
			switch period {
			case "weekly":
				count = 8
			case "monthly":
				count = 12
			default:
				period = "daily"
				count = 7
			}
		}
		if count <= 0 || count > 366 {
			return fiber.NewError(fiber.StatusBadRequest, "count geçersiz")
		}

		now := time.Now()
		loc := now.Location()
		end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
		var start, upper time.Time // upper: son kovanın bitişi, hariç

		switch period {
		case "weekly":
			// haftalar pazartesiden başlar
			offset := (int(end.Weekday()) + 6) % 7
			end = end.AddDate(0, 0, -offset)
			start = end.AddDate(0, 0, -7*(count-1))
			upper = end.AddDate(0, 0, 7)
		case "monthly":
			end = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
			start = end.AddDate(0, -(count - 1), 0)
			upper = end.AddDate(0, 1, 0)
		default:
			period = "daily"
			start = end.AddDate(0, 0, -(count - 1))
			upper = end.AddDate(0, 0, 1)
		}

		var payments []models.Payment
		if err := database.DB.
			Where("date >= ? AND date < ? AND cleared = ?", start, upper, true).
			Order("date asc").
			Find(&payments).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Veri toplanırken hata oluştu")
		}

		// kova başlangıcına göre topla
		type bucketAgg struct {
			Bucket time.Time
			Cash   float64
			IBAN   float64
		}
		buckets := make(map[time.Time]*bucketAgg)

		for _, p := range payments {
			d := time.Date(p.Date.Year(), p.Date.Month(), p.Date.Day(), 0, 0, 0, 0, loc)
			var bucket time.Time
			switch period {
			case "weekly":
				offset := (int(d.Weekday()) + 6) % 7
				bucket = d.AddDate(0, 0, -offset)
			case "monthly":
				bucket = time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, loc)
			default:
				bucket = d
			}

			agg, ok := buckets[bucket]
			if !ok {
				agg = &bucketAgg{Bucket: bucket}
				buckets[bucket] = agg
			}
			switch p.Method {
			case models.PaymentMethodCash:
				agg.Cash += p.Amount
			case models.PaymentMethodIBAN:
				agg.IBAN += p.Amount
			}
		}

		ordered := make([]bucketAgg, 0, len(buckets))
		for _, v := range buckets {
			ordered = append(ordered, *v)
		}

		// tarih sıralaması
		for i := 0; i < len(ordered); i++ {
			for j := i + 1; j < len(ordered); j++ {
				if ordered[j].Bucket.Before(ordered[i].Bucket) {
					ordered[i], ordered[j] = ordered[j], ordered[i]
				}
			}
		}

		points := make([]CashChartPoint, 0, len(ordered))
		grand := CashChartGrandTotals{}

		for _, b := range ordered {
			total := b.Cash + b.IBAN
			points = append(points, CashChartPoint{
				Label: b.Bucket.Format("2006-01-02"),
				Cash:  b.Cash,
				IBAN:  b.IBAN,
				Total: total,
			})
			grand.Cash += b.Cash
			grand.IBAN += b.IBAN
			grand.Total += total
		}

		return c.JSON(CashChartResponse{
			Period:      period,
			From:        start.Format("2006-01-02"),
			To:          upper.AddDate(0, 0, -1).Format("2006-01-02"),
			Points:      points,
			GrandTotals: grand,
		})
	}
}
