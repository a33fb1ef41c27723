package people

import (
	"strings"
	"time"

	"seramik-backend/internal/database"
	"seramik-backend/internal/ledger"
	"seramik-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreatePersonRequest struct {
	Name       string  `json:"name"`
	Phone      *string `json:"phone"`
	Instagram  *string `json:"instagram"`
	FirstVisit *string `json:"first_visit"` // "2025-09-01", boşsa bugün
	Notes      string  `json:"notes"`
}

type UpdatePersonRequest struct {
	Name      *string `json:"name"`
	Phone     *string `json:"phone"`
	Instagram *string `json:"instagram"`
	Notes     *string `json:"notes"`
	IsActive  *bool   `json:"is_active"`
}

type PersonResponse struct {
	ID         uint    `json:"id"`
	Name       string  `json:"name"`
	Phone      *string `json:"phone"`
	Instagram  *string `json:"instagram"`
	FirstVisit *string `json:"first_visit"`
	Notes      string  `json:"notes"`
	IsActive   bool    `json:"is_active"`
}

type DebtorResponse struct {
	ID      uint    `json:"id"`
	Name    string  `json:"name"`
	Phone   *string `json:"phone"`
	Balance float64 `json:"balance"` // negatif = borç
}

func toPersonResponse(p *models.Person) PersonResponse {
	resp := PersonResponse{
		ID:        p.ID,
		Name:      p.Name,
		Phone:     p.Phone,
		Instagram: p.Instagram,
		Notes:     p.Notes,
		IsActive:  p.IsActive,
	}
	if p.FirstVisit != nil {
		fv := p.FirstVisit.Format("2006-01-02")
		resp.FirstVisit = &fv
	}
	return resp
}

func normalizePhone(phone *string) *string {
	if phone == nil {
		return nil
	}
	v := strings.TrimSpace(*phone)
	if v == "" {
		return nil
	}
	return &v
}

// POST /api/people
func CreatePersonHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreatePersonRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "İsim zorunlu")
		}
		phone := normalizePhone(body.Phone)

		// Aynı isim (büyük/küçük harf duyarsız) veya aynı telefon varsa ekleme
		var existing models.Person
		q := database.DB.Where("LOWER(name) = LOWER(?)", body.Name)
		if phone != nil {
			q = q.Or("phone = ?", *phone)
		}
		if err := q.First(&existing).Error; err == nil {
			return fiber.NewError(fiber.StatusConflict, "Bu kişi zaten kayıtlı: "+existing.Name)
		}

		firstVisit := time.Now()
		if body.FirstVisit != nil && *body.FirstVisit != "" {
			d, err := time.Parse("2006-01-02", *body.FirstVisit)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "first_visit tarihi geçersiz (YYYY-MM-DD)")
			}
			firstVisit = d
		}
		fv := time.Date(firstVisit.Year(), firstVisit.Month(), firstVisit.Day(), 0, 0, 0, 0, firstVisit.Location())

		person := models.Person{
			Name:       body.Name,
			Phone:      phone,
			Instagram:  body.Instagram,
			FirstVisit: &fv,
			Notes:      body.Notes,
			IsActive:   true,
		}

		if err := database.DB.Create(&person).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kişi oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(toPersonResponse(&person))
	}
}

// GET /api/people?q=isim-veya-telefon
func ListPeopleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := strings.TrimSpace(c.Query("q"))

		dbq := database.DB.Model(&models.Person{}).Order("name asc")
		if q != "" {
			like := "%" + strings.ToLower(q) + "%"
			dbq = dbq.Where("LOWER(name) LIKE ? OR phone LIKE ?", like, "%"+q+"%")
		}

		var people []models.Person
		if err := dbq.Find(&people).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kişiler listelenemedi")
		}

		resp := make([]PersonResponse, 0, len(people))
		for i := range people {
			resp = append(resp, toPersonResponse(&people[i]))
		}
		return c.JSON(resp)
	}
}

// PUT /api/people/:id
func UpdatePersonHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id geçersiz")
		}

		var person models.Person
		if err := database.DB.First(&person, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kişi bulunamadı")
		}

		var body UpdatePersonRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "İsim boş olamaz")
			}
			person.Name = name
		}
		if body.Phone != nil {
			person.Phone = normalizePhone(body.Phone)
		}
		if body.Instagram != nil {
			person.Instagram = body.Instagram
		}
		if body.Notes != nil {
			person.Notes = *body.Notes
		}
		if body.IsActive != nil {
			person.IsActive = *body.IsActive
		}

		if err := database.DB.Save(&person).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kişi güncellenemedi")
		}

		return c.JSON(toPersonResponse(&person))
	}
}

// DELETE /api/people/:id
// Kişiyle birlikte seans kayıtları ve ödemeleri de silinir (bilinçli,
// UI'da onaylı bir işlem). Borçlar ve parçalar tarihçe olarak kalır.
func DeletePersonHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id geçersiz")
		}

		var person models.Person
		if err := database.DB.First(&person, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kişi bulunamadı")
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("person_id = ?", person.ID).Delete(&models.Enrollment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("person_id = ?", person.ID).Delete(&models.Payment{}).Error; err != nil {
				return err
			}
			return tx.Delete(&person).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kişi silinemedi")
		}

		return c.JSON(fiber.Map{"deleted": person.ID})
	}
}

// GET /api/people/debtors
// Cüzdanı negatif olan kişiler, en borçlu en üstte.
func ListDebtorsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var people []models.Person
		if err := database.DB.Where("is_active = ?", true).Find(&people).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kişiler listelenemedi")
		}

		debtors := make([]DebtorResponse, 0)
		for i := range people {
			bal, err := ledger.WalletBalance(database.DB, people[i].ID)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Bakiye hesaplanamadı")
			}
			if bal < 0 {
				debtors = append(debtors, DebtorResponse{
					ID:      people[i].ID,
					Name:    people[i].Name,
					Phone:   people[i].Phone,
					Balance: bal,
				})
			}
		}

		// en negatif en üstte
		for i := 0; i < len(debtors); i++ {
			for j := i + 1; j < len(debtors); j++ {
				if debtors[j].Balance < debtors[i].Balance {
					debtors[i], debtors[j] = debtors[j], debtors[i]
				}
			}
		}

		return c.JSON(debtors)
	}
}
