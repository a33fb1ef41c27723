package stock

import (
	"errors"
	"fmt"
	"log"
	"time"

	"seramik-backend/internal/audit"
	"seramik-backend/internal/auth"
	"seramik-backend/internal/database"
	"seramik-backend/internal/ledger"
	"seramik-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateMovementRequest struct {
	MaterialID uint                     `json:"material_id"`
	Direction  models.MovementDirection `json:"direction"`
	Qty        float64                  `json:"qty"`
	UnitCost   *float64                 `json:"unit_cost"`
	Source     models.MovementSource    `json:"source"`
	SessionID  *uint                    `json:"session_id"`
	Date       *string                  `json:"date"` // boşsa bugün
	Note       string                   `json:"note"`
}

type MovementResponse struct {
	ID           uint                     `json:"id"`
	MaterialID   uint                     `json:"material_id"`
	MaterialName string                   `json:"material_name"`
	Direction    models.MovementDirection `json:"direction"`
	Qty          float64                  `json:"qty"`
	UnitCost     *float64                 `json:"unit_cost"`
	Source       models.MovementSource    `json:"source"`
	Date         string                   `json:"date"`
	Note         string                   `json:"note"`
}

func validDirection(d models.MovementDirection) bool {
	switch d {
	case models.MovementIn, models.MovementOut, models.MovementAdjust:
		return true
	}
	return false
}

func validSource(s models.MovementSource) bool {
	switch s {
	case models.MovementSourcePurchase, models.MovementSourceConsumption,
		models.MovementSourceWaste, models.MovementSourceTest, models.MovementSourceAdjust:
		return true
	}
	return false
}

// POST /api/stock-movements
func CreateMovementHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateMovementRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.Qty <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Miktar 0'dan büyük olmalı")
		}
		if !validDirection(body.Direction) {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz yön (in|out|adjust)")
		}
		if !validSource(body.Source) {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz kaynak (purchase|consumption|waste|test|adjust)")
		}
		if body.Direction == models.MovementIn {
			if body.UnitCost == nil || *body.UnitCost <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Giriş hareketinde birim maliyet zorunlu")
			}
		} else {
			// Birim maliyet sadece girişte tutulur; WAC hesabını bozmasın.
			body.UnitCost = nil
		}

		var material models.Material
		if err := database.DB.First(&material, body.MaterialID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Malzeme bulunamadı")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Malzeme sorgulanamadı")
		}

		date := time.Now()
		if body.Date != nil && *body.Date != "" {
			d, err := time.Parse("2006-01-02", *body.Date)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "date geçersiz (YYYY-MM-DD)")
			}
			date = d
		}

		movement := models.StockMovement{
			MaterialID: body.MaterialID,
			Direction:  body.Direction,
			Qty:        body.Qty,
			UnitCost:   body.UnitCost,
			Source:     body.Source,
			SessionID:  body.SessionID,
			Date:       time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location()),
			Note:       body.Note,
		}
		if err := database.DB.Create(&movement).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stok hareketi kaydedilemedi")
		}

		if userID, userName, err := auth.GetUserInfo(c); err == nil {
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "stock_movement",
				EntityID:    movement.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Stok hareketi: %s %s %.3f %s", material.Name, movement.Direction, movement.Qty, material.DefaultUnit),
				After:       movement,
			}); logErr != nil {
				log.Printf("Audit log yazılamadı: %v", logErr)
			}
		}

		return c.Status(fiber.StatusCreated).JSON(toMovementResponse(&movement, material.Name))
	}
}

// GET /api/stock-movements?material_id=...&from=...&to=...
func ListMovementsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Preload("Material").Order("date desc, id desc")

		if c.Query("material_id") != "" {
			mid := c.QueryInt("material_id")
			if mid <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "material_id geçersiz")
			}
			dbq = dbq.Where("material_id = ?", mid)
		}
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

		var movements []models.StockMovement
		if err := dbq.Find(&movements).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stok hareketleri listelenemedi")
		}

		resp := make([]MovementResponse, 0, len(movements))
		for i := range movements {
			resp = append(resp, toMovementResponse(&movements[i], movements[i].Material.Name))
		}
		return c.JSON(resp)
	}
}

// GET /api/stock/overview
// Malzeme başına bakiye, ağırlıklı ortalama maliyet ve tahmini stok değeri.
func StockOverviewHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var materials []models.Material
		if err := database.DB.Where("is_active = ?", true).Order("name asc").Find(&materials).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Malzemeler listelenemedi")
		}

		type overviewRow struct {
			MaterialID     uint                    `json:"material_id"`
			Name           string                  `json:"name"`
			Category       models.MaterialCategory `json:"category"`
			Unit           models.MaterialUnit     `json:"unit"`
			Balance        float64                 `json:"balance"`
			WAC            *float64                `json:"wac"`
			EstimatedValue *float64                `json:"estimated_value"`
			MinLevel       *float64                `json:"min_level"`
			BelowMin       bool                    `json:"below_min"`
		}

		rows := make([]overviewRow, 0, len(materials))
		for i := range materials {
			m := &materials[i]

			balance, err := ledger.StockBalance(database.DB, m.ID)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Stok bakiyesi hesaplanamadı")
			}
			wac, err := ledger.WeightedAverageCost(database.DB, m.ID)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Ortalama maliyet hesaplanamadı")
			}

			var estimated *float64
			if wac != nil {
				v := ledger.Round(balance**wac, 2)
				estimated = &v
			}

			rows = append(rows, overviewRow{
				MaterialID:     m.ID,
				Name:           m.Name,
				Category:       m.Category,
				Unit:           m.DefaultUnit,
				Balance:        balance,
				WAC:            wac,
				EstimatedValue: estimated,
				MinLevel:       m.MinLevel,
				BelowMin:       m.MinLevel != nil && balance < *m.MinLevel,
			})
		}

		return c.JSON(rows)
	}
}

// GET /api/stock/low
// Bakiyesi minimum seviyenin altına düşen malzemeler.
func LowStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var materials []models.Material
		if err := database.DB.
			Where("is_active = ? AND min_level IS NOT NULL", true).
			Order("name asc").
			Find(&materials).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Malzemeler listelenemedi")
		}

		type lowRow struct {
			MaterialID uint                `json:"material_id"`
			Name       string              `json:"name"`
			Unit       models.MaterialUnit `json:"unit"`
			Balance    float64             `json:"balance"`
			MinLevel   float64             `json:"min_level"`
		}

		rows := make([]lowRow, 0)
		for i := range materials {
			m := &materials[i]
			balance, err := ledger.StockBalance(database.DB, m.ID)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Stok bakiyesi hesaplanamadı")
			}
			if balance < *m.MinLevel {
				rows = append(rows, lowRow{
					MaterialID: m.ID,
					Name:       m.Name,
					Unit:       m.DefaultUnit,
					Balance:    balance,
					MinLevel:   *m.MinLevel,
				})
			}
		}

		return c.JSON(rows)
	}
}

func toMovementResponse(m *models.StockMovement, materialName string) MovementResponse {
	return MovementResponse{
		ID:           m.ID,
		MaterialID:   m.MaterialID,
		MaterialName: materialName,
		Direction:    m.Direction,
		Qty:          m.Qty,
		UnitCost:     m.UnitCost,
		Source:       m.Source,
		Date:         m.Date.Format("2006-01-02"),
		Note:         m.Note,
	}
}
