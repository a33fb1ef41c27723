package stock

import (
	"errors"
	"strings"

	"seramik-backend/internal/database"
	"seramik-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateMaterialRequest struct {
	Name        string                  `json:"name"`
	Category    models.MaterialCategory `json:"category"`
	DefaultUnit models.MaterialUnit     `json:"default_unit"`
	Brand       *string                 `json:"brand"`
	ColorCode   *string                 `json:"color_code"`
	MinLevel    *float64                `json:"min_level"`
}

type UpdateMaterialRequest struct {
	Name      *string  `json:"name"`
	Brand     *string  `json:"brand"`
	ColorCode *string  `json:"color_code"`
	MinLevel  *float64 `json:"min_level"`
	IsActive  *bool    `json:"is_active"`
}

type MaterialResponse struct {
	ID          uint                    `json:"id"`
	Name        string                  `json:"name"`
	Category    models.MaterialCategory `json:"category"`
	DefaultUnit models.MaterialUnit     `json:"default_unit"`
	Brand       *string                 `json:"brand"`
	ColorCode   *string                 `json:"color_code"`
	MinLevel    *float64                `json:"min_level"`
	IsActive    bool                    `json:"is_active"`
}

func validMaterialCategory(cat models.MaterialCategory) bool {
	switch cat {
	case models.MaterialCategoryClay, models.MaterialCategoryGlaze,
		models.MaterialCategoryPaint, models.MaterialCategoryTool,
		models.MaterialCategoryConsumable:
		return true
	}
	return false
}

func validUnit(u models.MaterialUnit) bool {
	switch u {
	case models.MaterialUnitKg, models.MaterialUnitL, models.MaterialUnitPcs:
		return true
	}
	return false
}

// POST /api/materials
func CreateMaterialHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateMaterialRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Malzeme adı zorunlu")
		}
		if !validMaterialCategory(body.Category) {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz kategori (clay|glaze|paint|tool|consumable)")
		}
		if !validUnit(body.DefaultUnit) {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz birim (kg|L|pcs)")
		}

		var count int64
		if err := database.DB.Model(&models.Material{}).
			Where("LOWER(name) = LOWER(?)", body.Name).
			Count(&count).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Malzeme sorgulanamadı")
		}
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "Bu isimde bir malzeme zaten var")
		}

		material := models.Material{
			Name:        body.Name,
			Category:    body.Category,
			DefaultUnit: body.DefaultUnit,
			Brand:       body.Brand,
			ColorCode:   body.ColorCode,
			MinLevel:    body.MinLevel,
			IsActive:    true,
		}
		if err := database.DB.Create(&material).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Malzeme kaydedilemedi")
		}

		return c.Status(fiber.StatusCreated).JSON(toMaterialResponse(&material))
	}
}

// PUT /api/materials/:id
func UpdateMaterialHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz malzeme ID")
		}

		var body UpdateMaterialRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		var material models.Material
		if err := database.DB.First(&material, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Malzeme bulunamadı")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Malzeme sorgulanamadı")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Malzeme adı boş olamaz")
			}
			var count int64
			if err := database.DB.Model(&models.Material{}).
				Where("LOWER(name) = LOWER(?) AND id != ?", name, material.ID).
				Count(&count).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Malzeme sorgulanamadı")
			}
			if count > 0 {
				return fiber.NewError(fiber.StatusConflict, "Bu isimde bir malzeme zaten var")
			}
			material.Name = name
		}
		if body.Brand != nil {
			material.Brand = body.Brand
		}
		if body.ColorCode != nil {
			material.ColorCode = body.ColorCode
		}
		if body.MinLevel != nil {
			material.MinLevel = body.MinLevel
		}
		if body.IsActive != nil {
			material.IsActive = *body.IsActive
		}

		if err := database.DB.Save(&material).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Malzeme güncellenemedi")
		}

		return c.JSON(toMaterialResponse(&material))
	}
}

// GET /api/materials?category=...&active=true
func ListMaterialsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Material{}).Order("name asc")

		if cat := c.Query("category"); cat != "" {
			if !validMaterialCategory(models.MaterialCategory(cat)) {
				return fiber.NewError(fiber.StatusBadRequest, "category geçersiz")
			}
			dbq = dbq.Where("category = ?", cat)
		}
		if c.Query("active") == "true" {
			dbq = dbq.Where("is_active = ?", true)
		}

		var materials []models.Material
		if err := dbq.Find(&materials).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Malzemeler listelenemedi")
		}

		resp := make([]MaterialResponse, 0, len(materials))
		for i := range materials {
			resp = append(resp, toMaterialResponse(&materials[i]))
		}
		return c.JSON(resp)
	}
}

func toMaterialResponse(m *models.Material) MaterialResponse {
	return MaterialResponse{
		ID:          m.ID,
		Name:        m.Name,
		Category:    m.Category,
		DefaultUnit: m.DefaultUnit,
		Brand:       m.Brand,
		ColorCode:   m.ColorCode,
		MinLevel:    m.MinLevel,
		IsActive:    m.IsActive,
	}
}
