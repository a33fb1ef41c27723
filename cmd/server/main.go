package main

import (
	"log"
	"strings"

	"seramik-backend/internal/audit"
	"seramik-backend/internal/auth"
	"seramik-backend/internal/config"
	"seramik-backend/internal/courses"
	"seramik-backend/internal/dashboard"
	"seramik-backend/internal/database"
	"seramik-backend/internal/enrollments"
	"seramik-backend/internal/expense"
	"seramik-backend/internal/importer"
	"seramik-backend/internal/notes"
	"seramik-backend/internal/payments"
	"seramik-backend/internal/people"
	"seramik-backend/internal/pieces"
	"seramik-backend/internal/reports"
	"seramik-backend/internal/stock"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Beklenmeyen sunucu hatası",
			})
		},
	})

	// CORS origins'i virgülle ayrılmış string'den array'e çevir
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-owner", auth.RegisterOwnerHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Kişiler
	protected.Post("/people", people.CreatePersonHandler())
	protected.Get("/people", people.ListPeopleHandler())
	protected.Put("/people/:id", people.UpdatePersonHandler())
	protected.Delete("/people/:id", people.DeletePersonHandler())
	protected.Get("/people/debtors", people.ListDebtorsHandler())
	protected.Get("/people/:id/wallet", payments.WalletBalanceHandler())

	// Dersler & seanslar
	protected.Post("/courses", courses.CreateCourseHandler())
	protected.Get("/courses", courses.ListCoursesHandler())
	protected.Post("/sessions", courses.CreateSessionHandler())
	protected.Get("/sessions", courses.ListSessionsHandler())
	protected.Get("/sessions/:id/enrollments", enrollments.ListBySessionHandler())

	// Kayıtlar
	protected.Post("/enrollments", enrollments.CreateEnrollmentHandler())
	protected.Put("/enrollments/:id/status", enrollments.UpdateStatusHandler())

	// Tahsilat & borç
	protected.Post("/payments", payments.CreatePaymentHandler())
	protected.Get("/payments", payments.ListPaymentsHandler())
	protected.Post("/charges", payments.CreateChargeHandler())
	protected.Get("/wallets", payments.ListWalletBalancesHandler())
	protected.Get("/cash-on-hand", payments.CashOnHandHandler(cfg))

	// Harcamalar & kasa geçmişi
	protected.Post("/expenses", expense.CreateExpenseHandler())
	protected.Get("/expenses", expense.ListExpensesHandler())
	protected.Get("/cash-history", expense.CashHistoryHandler(cfg))

	// Parçalar
	protected.Post("/pieces", pieces.CreatePieceHandler())
	protected.Get("/pieces", pieces.ListPiecesHandler())
	protected.Put("/pieces/:id", pieces.UpdatePieceHandler())
	protected.Post("/pieces/:id/deliver", pieces.DeliverPieceHandler())

	// Stok
	protected.Post("/materials", stock.CreateMaterialHandler())
	protected.Get("/materials", stock.ListMaterialsHandler())
	protected.Put("/materials/:id", stock.UpdateMaterialHandler())
	protected.Post("/stock-movements", stock.CreateMovementHandler())
	protected.Get("/stock-movements", stock.ListMovementsHandler())
	protected.Get("/stock/overview", stock.StockOverviewHandler())
	protected.Get("/stock/low", stock.LowStockHandler())

	// Günlük notlar
	protected.Get("/notes/:date", notes.GetNoteHandler())
	protected.Put("/notes", notes.UpsertNoteHandler())

	// Excel içe aktarma
	protected.Post("/import/workbook", importer.ImportWorkbookHandler())

	// Dashboard & raporlar
	protected.Get("/dashboard", dashboard.DashboardHandler(cfg))
	protected.Get("/dashboard/cash-chart", dashboard.CashChartHandler())
	protected.Get("/reports/summary", reports.RangeSummaryHandler())

	// Audit logs
	protected.Get("/audit-logs", audit.ListAuditLogsHandler())

	log.Println("Server çalışıyor port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
