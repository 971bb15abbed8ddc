package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Mahdyy18/center-five-system/internal/config"
	"github.com/Mahdyy18/center-five-system/internal/handler"
	"github.com/Mahdyy18/center-five-system/internal/infra"
	"github.com/Mahdyy18/center-five-system/internal/ledger"
	"github.com/Mahdyy18/center-five-system/internal/middleware"
	"github.com/Mahdyy18/center-five-system/internal/service"
	"github.com/Mahdyy18/center-five-system/internal/store"
)

const (
	roleAdmin   = "ADMIN"
	roleCashier = "CASHIER"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Coordinator/Store.
func New(cfg *config.Config, st *store.Store, clock *infra.ZoneClock, coord *ledger.Coordinator, localSink *infra.LocalSink) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute))

	// ── Services ─────────────────────────────────────────────────────────────
	activitySvc := service.NewActivityService(st, clock)
	authSvc := service.NewAuthService(st, cfg, clock)
	salesSvc := service.NewSalesService(st, coord)
	debtSvc := service.NewDebtService(st, coord, cfg.PDFStoragePath)
	teacherSvc := service.NewTeacherService(st, coord)
	expenseSvc := service.NewExpenseService(st, clock)
	staffSvc := service.NewStaffService(st, clock)
	bookingSvc := service.NewBookingService(st, coord, clock)
	reportSvc := service.NewReportService(st, clock.Location())
	dataSvc := service.NewDataService(st, clock)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc, activitySvc)
	salesH := handler.NewSalesHandler(salesSvc, activitySvc, cfg.PDFStoragePath)
	debtsH := handler.NewDebtsHandler(debtSvc, activitySvc)
	teachersH := handler.NewTeachersHandler(teacherSvc, activitySvc)
	expensesH := handler.NewExpensesHandler(expenseSvc, activitySvc)
	staffH := handler.NewStaffHandler(staffSvc)
	bookingsH := handler.NewBookingsHandler(bookingSvc, activitySvc)
	reportsH := handler.NewReportsHandler(reportSvc, clock.Location())
	dataH := handler.NewDataHandler(dataSvc, activitySvc)
	backupH := handler.NewBackupHandler(localSink)
	activityH := handler.NewActivityHandler(activitySvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(st))

	auth := r.Group("/api/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	api := r.Group("/api", jwtMW)
	{
		anyRole := middleware.RequireRole(roleAdmin, roleCashier)
		adminOnly := middleware.RequireRole(roleAdmin)

		// Accounts
		api.GET("/users", adminOnly, authH.ListUsers)
		api.POST("/users", adminOnly, authH.CreateUser)
		api.DELETE("/users/:id", adminOnly, authH.DeactivateUser)
		api.POST("/users/password", anyRole, authH.ChangePassword)

		// Catalog
		api.GET("/services", anyRole, salesH.ListServices)
		api.POST("/services", adminOnly, salesH.CreateService)
		api.PUT("/services/:id", adminOnly, salesH.UpdateService)
		api.DELETE("/services/:id", adminOnly, salesH.DeleteService)

		// Invoices
		api.GET("/invoices", anyRole, salesH.ListInvoices)
		api.GET("/invoices/:id", anyRole, salesH.GetInvoice)
		api.GET("/invoices/:id/pdf", anyRole, salesH.ReceiptPDF)
		api.POST("/invoices", anyRole, salesH.CreateInvoice)
		api.PATCH("/invoices/:id/status", anyRole, salesH.UpdateStatus)
		api.POST("/invoices/:id/partial-return", anyRole, salesH.PartialReturn)
		api.DELETE("/invoices/:id", adminOnly, salesH.DeleteInvoice)

		// Client debts
		api.GET("/debts", anyRole, debtsH.List)
		api.GET("/debts/:id", anyRole, debtsH.Get)
		api.GET("/debts/:id/statement", anyRole, debtsH.StatementPDF)
		api.POST("/debts", anyRole, debtsH.Create)
		api.POST("/debts/:id/payments", anyRole, debtsH.RecordPayment)
		api.POST("/debts/:id/charges", anyRole, debtsH.AddCharge)
		api.DELETE("/debts/:id", adminOnly, debtsH.Delete)

		// Teachers
		api.GET("/teachers", anyRole, teachersH.List)
		api.GET("/teachers/:id", anyRole, teachersH.Get)
		api.GET("/teachers/:id/report", anyRole, teachersH.UnitsReport)
		api.POST("/teachers", adminOnly, teachersH.Create)
		api.PUT("/teachers/:id", adminOnly, teachersH.Update)
		api.DELETE("/teachers/:id", adminOnly, teachersH.Delete)
		api.POST("/teachers/:id/settlements", adminOnly, teachersH.SettleUnits)

		// Expenses and suppliers
		api.GET("/expenses", anyRole, expensesH.List)
		api.POST("/expenses", anyRole, expensesH.Create)
		api.DELETE("/expenses/:id", adminOnly, expensesH.Delete)
		api.POST("/suppliers/moves", adminOnly, expensesH.RecordSupplierMove)
		api.GET("/suppliers/summary", adminOnly, expensesH.SupplierSummaries)

		// Staff payroll, admin only
		staff := api.Group("/staff", adminOnly)
		{
			staff.GET("", staffH.List)
			staff.POST("", staffH.Create)
			staff.PUT("/:id", staffH.Update)
			staff.DELETE("/:id", staffH.Delete)
			staff.POST("/:id/bonuses", staffH.AddBonus)
			staff.POST("/:id/penalties", staffH.AddPenalty)
			staff.POST("/:id/withdrawals", staffH.AddWithdrawal)
		}

		// External books and bookings
		api.GET("/books", anyRole, bookingsH.ListBooks)
		api.POST("/books", adminOnly, bookingsH.CreateBook)
		api.PUT("/books/:id", adminOnly, bookingsH.UpdateBook)
		api.PATCH("/books/:id/toggle", adminOnly, bookingsH.ToggleBook)

		api.GET("/bookings", anyRole, bookingsH.List)
		api.POST("/bookings", anyRole, bookingsH.Create)
		api.POST("/bookings/:id/collect", anyRole, bookingsH.Collect)
		api.POST("/bookings/:id/deliver", anyRole, bookingsH.Deliver)
		api.POST("/bookings/:id/cancel", anyRole, bookingsH.Cancel)
		api.GET("/bookings/:id/receipts", anyRole, bookingsH.Receipts)

		// Reports and audit
		api.GET("/reports/daily", anyRole, reportsH.Daily)
		api.GET("/reports/monthly", adminOnly, reportsH.Monthly)
		api.GET("/activity", adminOnly, activityH.List)

		// Data management, admin only
		data := api.Group("/data", adminOnly)
		{
			data.GET("/export", dataH.ExportJSON)
			data.POST("/import", dataH.ImportJSON)
			data.GET("/export/xlsx", dataH.ExportXLSX)
			data.POST("/import/xlsx", dataH.ImportXLSX)
			data.POST("/reset", dataH.Reset)
		}

		// Backup drop point for the desktop terminal
		api.POST("/backup", anyRole, backupH.Receive)
	}

	return r
}
