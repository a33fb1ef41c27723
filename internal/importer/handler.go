package importer

import (
	"fmt"
	"log"
	"strings"

	"seramik-backend/internal/audit"
	"seramik-backend/internal/auth"
	"seramik-backend/internal/database"
	"seramik-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// POST /api/import/workbook
func ImportWorkbookHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dosya yüklenemedi: "+err.Error())
		}

		if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".xlsx") {
			return fiber.NewError(fiber.StatusBadRequest, "Sadece .xlsx dosyaları yüklenebilir")
		}

		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Dosya açılamadı: "+err.Error())
		}
		defer file.Close()

		excelFile, err := excelize.OpenReader(file)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Excel dosyası okunamadı: "+err.Error())
		}
		defer excelFile.Close()

		result, err := ImportWorkbook(database.DB, excelFile)
		if err != nil {
			log.Printf("Excel içe aktarma hatası: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "İçe aktarma başarısız: "+err.Error())
		}

		if userID, userName, err := auth.GetUserInfo(c); err == nil {
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:     userID,
				UserName:   userName,
				EntityType: "import",
				Action:     models.AuditActionCreate,
				Description: fmt.Sprintf("Excel içe aktarma: %d kişi, %d seans (%s)",
					result.PeopleAdded, result.SessionsAdded, fileHeader.Filename),
				After: result,
			}); logErr != nil {
				log.Printf("Audit log yazılamadı: %v", logErr)
			}
		}

		return c.JSON(result)
	}
}
