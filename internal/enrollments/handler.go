package enrollments

import (
	"errors"

	"seramik-backend/internal/database"
	"seramik-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateEnrollmentRequest struct {
	PersonID      uint     `json:"person_id"`
	SessionID     uint     `json:"session_id"`
	PriceOverride *float64 `json:"price_override"`
	GroupLabel    *string  `json:"group_label"`
	Note          string   `json:"note"`
}

type UpdateStatusRequest struct {
	Status models.EnrollmentStatus `json:"status"` // registered|attended|canceled|no_show
}

type EnrollmentResponse struct {
	ID            uint                    `json:"id"`
	PersonID      uint                    `json:"person_id"`
	PersonName    string                  `json:"person_name"`
	PersonPhone   *string                 `json:"person_phone"`
	SessionID     uint                    `json:"session_id"`
	Status        models.EnrollmentStatus `json:"status"`
	PriceOverride *float64                `json:"price_override"`
	GroupLabel    *string                 `json:"group_label"`
	Note          string                  `json:"note"`
}

// POST /api/enrollments
func CreateEnrollmentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateEnrollmentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.PersonID == 0 || body.SessionID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "person_id ve session_id zorunlu")
		}

		enr, err := Create(database.DB, body.PersonID, body.SessionID, body.PriceOverride, body.GroupLabel, body.Note)
		if err != nil {
			switch {
			case errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrPersonNotFound):
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			case errors.Is(err, ErrSessionFull):
				return fiber.NewError(fiber.StatusConflict, "Kapasite dolu – Owner onayı gerekir.")
			case errors.Is(err, ErrAlreadyEnrolled):
				return fiber.NewError(fiber.StatusConflict, "Bu kişi zaten seansa kayıtlı.")
			default:
				return fiber.NewError(fiber.StatusInternalServerError, "Kayıt oluşturulamadı")
			}
		}

		return c.Status(fiber.StatusCreated).JSON(toEnrollmentResponse(enr, nil))
	}
}

// PUT /api/enrollments/:id/status
// Durum "attended" olduğunda aynı (kişi, seans) için bir kez borç yazılır.
func UpdateStatusHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id geçersiz")
		}

		var body UpdateStatusRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		enr, err := UpdateStatus(database.DB, uint(id), body.Status)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidStatus):
				return fiber.NewError(fiber.StatusBadRequest, "Geçersiz durum (registered|attended|canceled|no_show)")
			case errors.Is(err, ErrEnrollmentMissing):
				return fiber.NewError(fiber.StatusNotFound, "Kayıt bulunamadı")
			default:
				return fiber.NewError(fiber.StatusInternalServerError, "Durum güncellenemedi")
			}
		}

		return c.JSON(toEnrollmentResponse(enr, nil))
	}
}

// GET /api/sessions/:id/enrollments
func ListBySessionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id geçersiz")
		}

		var enrs []models.Enrollment
		if err := database.DB.Preload("Person").
			Where("session_id = ?", id).
			Find(&enrs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kayıtlar listelenemedi")
		}

		resp := make([]EnrollmentResponse, 0, len(enrs))
		for i := range enrs {
			resp = append(resp, toEnrollmentResponse(&enrs[i], &enrs[i].Person))
		}
		return c.JSON(resp)
	}
}

func toEnrollmentResponse(e *models.Enrollment, p *models.Person) EnrollmentResponse {
	resp := EnrollmentResponse{
		ID:            e.ID,
		PersonID:      e.PersonID,
		SessionID:     e.SessionID,
		Status:        e.Status,
		PriceOverride: e.PriceOverride,
		GroupLabel:    e.GroupLabel,
		Note:          e.Note,
	}
	if p != nil {
		resp.PersonName = p.Name
		resp.PersonPhone = p.Phone
	}
	return resp
}
