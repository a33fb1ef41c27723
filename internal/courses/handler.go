package courses

import (
	"strings"
	"time"

	"seramik-backend/internal/database"
	"seramik-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateCourseRequest struct {
	Name               string  `json:"name"`
	Description        string  `json:"description"`
	DefaultDurationMin *int    `json:"default_duration_min"`
	DefaultPrice       float64 `json:"default_price"`
	DefaultCapacity    *int    `json:"default_capacity"`
}

type CourseResponse struct {
	ID                 uint    `json:"id"`
	Name               string  `json:"name"`
	Description        string  `json:"description"`
	DefaultDurationMin int     `json:"default_duration_min"`
	DefaultPrice       float64 `json:"default_price"`
	DefaultCapacity    int     `json:"default_capacity"`
}

type CreateSessionRequest struct {
	CourseID      uint     `json:"course_id"`
	Date          string   `json:"date"`       // "2025-09-12"
	StartTime     string   `json:"start_time"` // "10:00"
	EndTime       string   `json:"end_time"`
	Capacity      *int     `json:"capacity"`       // boşsa ders varsayılanı
	PriceOverride *float64 `json:"price_override"` // <= 0 ise yok sayılır
	Notes         string   `json:"notes"`
}

type SessionResponse struct {
	ID            uint     `json:"id"`
	CourseID      uint     `json:"course_id"`
	CourseName    string   `json:"course_name"`
	Date          string   `json:"date"`
	StartTime     string   `json:"start_time"`
	EndTime       string   `json:"end_time"`
	Capacity      int      `json:"capacity"`
	PriceOverride *float64 `json:"price_override"`
	Price         float64  `json:"price"` // geçerli fiyat (override yoksa ders)
	Enrolled      int      `json:"enrolled"`
	Notes         string   `json:"notes"`
}

func toCourseResponse(co *models.Course) CourseResponse {
	return CourseResponse{
		ID:                 co.ID,
		Name:               co.Name,
		Description:        co.Description,
		DefaultDurationMin: co.DefaultDurationMin,
		DefaultPrice:       co.DefaultPrice,
		DefaultCapacity:    co.DefaultCapacity,
	}
}

func parseDay(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

func validClock(s string) bool {
	_, err := time.Parse("15:04", s)
	return err == nil
}

// POST /api/courses
func CreateCourseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateCourseRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Ders adı zorunlu")
		}

		course := models.Course{
			Name:               body.Name,
			Description:        body.Description,
			DefaultDurationMin: models.DefaultCourseDurationMin,
			DefaultPrice:       body.DefaultPrice,
			DefaultCapacity:    models.DefaultCourseCapacity,
		}
		if body.DefaultDurationMin != nil && *body.DefaultDurationMin > 0 {
			course.DefaultDurationMin = *body.DefaultDurationMin
		}
		if body.DefaultCapacity != nil && *body.DefaultCapacity > 0 {
			course.DefaultCapacity = *body.DefaultCapacity
		}

		if err := database.DB.Create(&course).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ders oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(toCourseResponse(&course))
	}
}

// GET /api/courses
func ListCoursesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var courses []models.Course
		if err := database.DB.Order("name asc").Find(&courses).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Dersler listelenemedi")
		}

		resp := make([]CourseResponse, 0, len(courses))
		for i := range courses {
			resp = append(resp, toCourseResponse(&courses[i]))
		}
		return c.JSON(resp)
	}
}

// POST /api/sessions
func CreateSessionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateSessionRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		var course models.Course
		if err := database.DB.First(&course, body.CourseID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Ders bulunamadı")
		}

		date, err := parseDay(body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "date geçersiz (YYYY-MM-DD)")
		}
		if !validClock(body.StartTime) || !validClock(body.EndTime) {
			return fiber.NewError(fiber.StatusBadRequest, "start_time / end_time geçersiz (HH:MM)")
		}

		capacity := course.DefaultCapacity
		if body.Capacity != nil && *body.Capacity > 0 {
			capacity = *body.Capacity
		}

		// 0 veya negatif override "yok" demek (UI'dan 0 gelebiliyor)
		var override *float64
		if body.PriceOverride != nil && *body.PriceOverride > 0 {
			override = body.PriceOverride
		}

		sess := models.Session{
			CourseID:      course.ID,
			Date:          date,
			StartTime:     body.StartTime,
			EndTime:       body.EndTime,
			Capacity:      capacity,
			PriceOverride: override,
			Notes:         body.Notes,
		}

		if err := database.DB.Create(&sess).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Seans oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(sessionResponse(&sess, &course, 0))
	}
}

func sessionResponse(s *models.Session, co *models.Course, enrolled int) SessionResponse {
	price := co.DefaultPrice
	if s.PriceOverride != nil {
		price = *s.PriceOverride
	}
	return SessionResponse{
		ID:            s.ID,
		CourseID:      s.CourseID,
		CourseName:    co.Name,
		Date:          s.Date.Format("2006-01-02"),
		StartTime:     s.StartTime,
		EndTime:       s.EndTime,
		Capacity:      s.Capacity,
		PriceOverride: s.PriceOverride,
		Price:         price,
		Enrolled:      enrolled,
		Notes:         s.Notes,
	}
}

// GET /api/sessions?from=2025-09-01&to=2025-09-30
// Doluluk registered + attended kayıtlar üzerinden hesaplanır.
func ListSessionsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		fromStr := c.Query("from")
		toStr := c.Query("to")
		if fromStr == "" || toStr == "" {
			return fiber.NewError(fiber.StatusBadRequest, "from ve to tarihleri zorunlu (YYYY-MM-DD)")
		}
		from, err := parseDay(fromStr)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "from tarihi geçersiz")
		}
		to, err := parseDay(toStr)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "to tarihi geçersiz")
		}

		var sessions []models.Session
		if err := database.DB.Preload("Course").
			Where("date >= ? AND date <= ?", from, to).
			Order("date asc, start_time asc").
			Find(&sessions).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Seanslar listelenemedi")
		}

		resp := make([]SessionResponse, 0, len(sessions))
		for i := range sessions {
			var enrolled int64
			if err := database.DB.Model(&models.Enrollment{}).
				Where("session_id = ? AND status IN ?", sessions[i].ID,
					[]models.EnrollmentStatus{models.EnrollmentRegistered, models.EnrollmentAttended}).
				Count(&enrolled).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Doluluk hesaplanamadı")
			}
			resp = append(resp, sessionResponse(&sessions[i], &sessions[i].Course, int(enrolled)))
		}

		return c.JSON(resp)
	}
}
