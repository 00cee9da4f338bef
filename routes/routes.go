package routes

import (
	"github.com/gofiber/fiber/v2"

	"condominio-backend/controllers"
	"condominio-backend/middlewares"
)

// Register wires all HTTP routes.
func Register(app *fiber.App) {
	api := app.Group("/api")

	// Public auth endpoints
	api.Post("/registration", controllers.Register)
	api.Post("/login", controllers.Login)
	api.Post("/logout", controllers.Logout)

	// Protected endpoints (JWT auth)
	protected := api.Group("")
	protected.Use(middlewares.IsAuthenticatedHeader())

	// Idempotency guard FIRST (not tied to the request TX)
	protected.Use(middlewares.Idempotency())

	// Then per-request transaction (commits/rolls back around mutations)
	protected.Use(middlewares.Tx())

	// Resident finance
	finanzas := protected.Group("/finanzas")
	finanzas.Get("/resumen/", controllers.ResidentFinanceSummary)
	finanzas.Get("/facturas/", controllers.ListResidentInvoices)
	finanzas.Get("/facturas/:id/", controllers.ResidentInvoiceDetail)
	finanzas.Post("/facturas/:id/confirmar-pago/", controllers.ConfirmInvoicePayment)
	finanzas.Get("/notificaciones/", controllers.ListMyNotifications)
	finanzas.Post("/notificaciones/:id/leida/", controllers.MarkNotificationRead)

	// Staff finance
	admin := finanzas.Group("/admin")
	admin.Use(middlewares.RequireAdmin())
	admin.Get("/resumen/", controllers.AdminFinanceSummary)
	admin.Get("/facturas/", controllers.AdminListInvoices)
	admin.Get("/facturas/:id/", controllers.AdminInvoiceDetail)
	admin.Post("/facturas/:id/registrar-pago/", controllers.RegisterManualPayment)
	admin.Post("/facturas/:id/pagos/:pago_id/resolver/", controllers.ResolveReviewPayment)
	admin.Post("/generar-facturas/", controllers.GenerateInvoices)
	admin.Post("/notificaciones/", controllers.CreateDirectNotification)

	// Billing catalog (staff)
	config := finanzas.Group("/config")
	config.Use(middlewares.RequireAdmin())

	config.Get("/expensas/", controllers.ListChargeConfigs)
	config.Post("/expensas/", controllers.CreateChargeConfig)
	config.Patch("/expensas/:id/", controllers.UpdateChargeConfig)
	config.Put("/expensas/:id/", controllers.UpdateChargeConfig)
	config.Delete("/expensas/:id/", controllers.DeleteChargeConfig)

	config.Get("/multas/catalogo/", controllers.ListFineTypes)
	config.Post("/multas/catalogo/", controllers.CreateFineType)
	config.Patch("/multas/catalogo/:id/", controllers.UpdateFineType)
	config.Put("/multas/catalogo/:id/", controllers.UpdateFineType)
	config.Delete("/multas/catalogo/:id/", controllers.DeleteFineType)

	config.Get("/multas/", controllers.ListFineApplications)
	config.Post("/multas/", controllers.CreateFineApplication)
	config.Delete("/multas/:id/", controllers.DeleteFineApplication)
}
