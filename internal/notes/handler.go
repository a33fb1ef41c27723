package notes

import (
	"errors"
	"time"

	"seramik-backend/internal/database"
	"seramik-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type UpsertNoteRequest struct {
	Date string `json:"date"` // YYYY-MM-DD
	Note string `json:"note"`
}

type NoteResponse struct {
	ID   uint   `json:"id"`
	Date string `json:"date"`
	Note string `json:"note"`
}

// GET /api/notes/:date
func GetNoteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		day, err := time.Parse("2006-01-02", c.Params("date"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Tarih geçersiz (YYYY-MM-DD)")
		}

		var note models.DailyNote
		if err := database.DB.Where("date = ?", day).First(&note).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.JSON(NoteResponse{Date: day.Format("2006-01-02"), Note: ""})
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Not sorgulanamadı")
		}

		return c.JSON(toNoteResponse(&note))
	}
}

// PUT /api/notes
// Gün başına tek not; varsa üzerine yazar, boş not kaydı siler.
func UpsertNoteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body UpsertNoteRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		day, err := time.Parse("2006-01-02", body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Tarih geçersiz (YYYY-MM-DD)")
		}

		var note models.DailyNote
		err = database.DB.Where("date = ?", day).First(&note).Error
		switch {
		case err == nil:
			if body.Note == "" {
				if delErr := database.DB.Delete(&note).Error; delErr != nil {
					return fiber.NewError(fiber.StatusInternalServerError, "Not silinemedi")
				}
				return c.JSON(NoteResponse{Date: day.Format("2006-01-02"), Note: ""})
			}
			note.Note = body.Note
			if saveErr := database.DB.Save(&note).Error; saveErr != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Not güncellenemedi")
			}
			return c.JSON(toNoteResponse(&note))
		case errors.Is(err, gorm.ErrRecordNotFound):
			if body.Note == "" {
				return c.JSON(NoteResponse{Date: day.Format("2006-01-02"), Note: ""})
			}
			note = models.DailyNote{Date: day, Note: body.Note}
			if createErr := database.DB.Create(&note).Error; createErr != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Not kaydedilemedi")
			}
			return c.Status(fiber.StatusCreated).JSON(toNoteResponse(&note))
		default:
			return fiber.NewError(fiber.StatusInternalServerError, "Not sorgulanamadı")
		}
	}
}

func toNoteResponse(n *models.DailyNote) NoteResponse {
	return NoteResponse{
		ID:   n.ID,
		Date: n.Date.Format("2006-01-02"),
		Note: n.Note,
	}
}
