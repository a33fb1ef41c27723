package pieces

import (
	"errors"
	"fmt"
	"log"
	"time"

	"seramik-backend/internal/audit"
	"seramik-backend/internal/auth"
	"seramik-backend/internal/database"
	"seramik-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreatePieceRequest struct {
	PersonID   uint    `json:"person_id"`
	SessionID  *uint   `json:"session_id"`
	Title      *string `json:"title"`
	GlazeColor *string `json:"glaze_color"`
	Note       string  `json:"note"`
}

type UpdatePieceRequest struct {
	Stage      *models.PieceStage `json:"stage"`
	GlazeColor *string            `json:"glaze_color"`
	Note       *string            `json:"note"`
}

type PieceResponse struct {
	ID          uint              `json:"id"`
	PersonID    uint              `json:"person_id"`
	PersonName  string            `json:"person_name"`
	SessionID   *uint             `json:"session_id"`
	Title       *string           `json:"title"`
	GlazeColor  *string           `json:"glaze_color"`
	Stage       models.PieceStage `json:"stage"`
	Delivered   bool              `json:"delivered"`
	DeliveredAt *string           `json:"delivered_at"`
	Note        string            `json:"note"`
	CreatedAt   string            `json:"created_at"`
}

func validStage(stage models.PieceStage) bool {
	switch stage {
	case models.PieceStageClay, models.PieceStageBisque, models.PieceStageGlaze,
		models.PieceStageFired, models.PieceStageDelivered:
		return true
	}
	return false
}

// POST /api/pieces
func CreatePieceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreatePieceRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.PersonID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "person_id zorunlu")
		}

		var person models.Person
		if err := database.DB.First(&person, body.PersonID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Kişi bulunamadı")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Kişi sorgulanamadı")
		}

		if body.SessionID != nil {
			var count int64
			database.DB.Model(&models.Session{}).Where("id = ?", *body.SessionID).Count(&count)
			if count == 0 {
				return fiber.NewError(fiber.StatusNotFound, "Seans bulunamadı")
			}
		}

		piece := models.Piece{
			PersonID:   body.PersonID,
			SessionID:  body.SessionID,
			Title:      body.Title,
			GlazeColor: body.GlazeColor,
			Stage:      models.PieceStageClay,
			Note:       body.Note,
		}
		if err := database.DB.Create(&piece).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Parça kaydedilemedi")
		}

		return c.Status(fiber.StatusCreated).JSON(toPieceResponse(&piece, person.Name))
	}
}

// PUT /api/pieces/:id
func UpdatePieceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz parça ID")
		}

		var body UpdatePieceRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		var piece models.Piece
		if err := database.DB.First(&piece, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Parça bulunamadı")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Parça sorgulanamadı")
		}

		before := piece
		if body.Stage != nil {
			if !validStage(*body.Stage) {
				return fiber.NewError(fiber.StatusBadRequest, "Geçersiz aşama (clay|bisque|glaze|fired|delivered)")
			}
			piece.Stage = *body.Stage
			if *body.Stage == models.PieceStageDelivered && !piece.Delivered {
				now := time.Now()
				piece.Delivered = true
				piece.DeliveredAt = &now
			}
		}
		if body.GlazeColor != nil {
			piece.GlazeColor = body.GlazeColor
		}
		if body.Note != nil {
			piece.Note = *body.Note
		}

		if err := database.DB.Save(&piece).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Parça güncellenemedi")
		}

		if userID, userName, err := auth.GetUserInfo(c); err == nil {
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "piece",
				EntityID:    piece.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Parça aşaması: %s -> %s", before.Stage, piece.Stage),
				Before:      before,
				After:       piece,
			}); logErr != nil {
				log.Printf("Audit log yazılamadı: %v", logErr)
			}
		}

		var person models.Person
		database.DB.First(&person, piece.PersonID)
		return c.JSON(toPieceResponse(&piece, person.Name))
	}
}

// POST /api/pieces/:id/deliver
func DeliverPieceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz parça ID")
		}

		var piece models.Piece
		if err := database.DB.First(&piece, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Parça bulunamadı")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Parça sorgulanamadı")
		}

		if !piece.Delivered {
			now := time.Now()
			piece.Delivered = true
			piece.DeliveredAt = &now
			piece.Stage = models.PieceStageDelivered
			if err := database.DB.Save(&piece).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Parça teslim edilemedi")
			}
		}

		var person models.Person
		database.DB.First(&person, piece.PersonID)
		return c.JSON(toPieceResponse(&piece, person.Name))
	}
}

// GET /api/pieces?person_id=...&undelivered=true
func ListPiecesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Preload("Person").Order("created_at desc, id desc")

		if c.Query("person_id") != "" {
			pid := c.QueryInt("person_id")
			if pid <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "person_id geçersiz")
			}
			dbq = dbq.Where("person_id = ?", pid)
		}
		if c.Query("undelivered") == "true" {
			dbq = dbq.Where("delivered = ?", false)
		}

		var list []models.Piece
		if err := dbq.Find(&list).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Parçalar listelenemedi")
		}

		resp := make([]PieceResponse, 0, len(list))
		for i := range list {
			resp = append(resp, toPieceResponse(&list[i], list[i].Person.Name))
		}
		return c.JSON(resp)
	}
}

func toPieceResponse(p *models.Piece, personName string) PieceResponse {
	var deliveredAt *string
	if p.DeliveredAt != nil {
		s := p.DeliveredAt.Format("2006-01-02 15:04")
		deliveredAt = &s
	}
	return PieceResponse{
		ID:          p.ID,
		PersonID:    p.PersonID,
		PersonName:  personName,
		SessionID:   p.SessionID,
		Title:       p.Title,
		GlazeColor:  p.GlazeColor,
		Stage:       p.Stage,
		Delivered:   p.Delivered,
		DeliveredAt: deliveredAt,
		Note:        p.Note,
		CreatedAt:   p.CreatedAt.Format("2006-01-02 15:04"),
	}
}
