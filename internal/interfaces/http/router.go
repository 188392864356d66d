package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/invorya/erp-admin-gateway/internal/application/analytics"
	"github.com/invorya/erp-admin-gateway/internal/application/auth"
	"github.com/invorya/erp-admin-gateway/internal/application/controller"
	"github.com/invorya/erp-admin-gateway/internal/application/purchasing"
	"github.com/invorya/erp-admin-gateway/internal/infrastructure/pdf"
)

// RouterDeps dependencias que el router necesita para armar todos los handlers.
type RouterDeps struct {
	Auth      *auth.UseCase
	Views     *controller.Manager
	Approvals *purchasing.ApprovalUseCase
	Receiving *purchasing.ReceivingUseCase
	Dashboard *analytics.DashboardUseCase
	PDF       *pdf.OrderPDFGenerator
	Guard     GuardDeps
	TTL       int
}

// Router registra todas las rutas de la pasarela. Las rutas bajo /app pasan
// por el guard de sesión; las acciones de compras se registran antes que las
// rutas genéricas de recurso para ganar el matching.
func Router(app *fiber.App, d RouterDeps) {
	authHandler := NewAuthHandler(d.Auth, d.Views, d.Guard, d.TTL)
	resources := NewResourceHandler(d.Views, d.Auth, d.Guard)
	purchases := NewPurchasingHandler(d.Approvals, d.Receiving, d.PDF, d.Auth)
	dashboard := NewDashboardHandler(d.Dashboard, d.Auth)

	// Pantalla de ingreso: destino de las redirecciones del guard.
	app.Get(d.Guard.SignInPath, func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.SendString(`<!doctype html><title>Ingresar</title><h1>Ingresar</h1><p>POST /api/auth/login</p>`)
	})

	api := app.Group("/api/auth")
	api.Post("/login", authHandler.Login)
	api.Post("/register", authHandler.Register)
	api.Post("/logout", authHandler.Logout)

	guarded := RouteGuard(d.Guard, GuardConfig{RequireAuth: true})

	me := app.Group("/api/auth", guarded)
	me.Get("/me", authHandler.Me)
	me.Patch("/me", authHandler.UpdateProfile)
	me.Patch("/change-password", authHandler.ChangePassword)

	appGroup := app.Group("/app", guarded)
	appGroup.Get("/dashboard", dashboard.Summary)

	// Workflow de compras (rutas específicas primero).
	appGroup.Post("/purchase-requests/:id/submit", purchases.Submit)
	appGroup.Post("/purchase-requests/:id/approve", purchases.Approve)
	appGroup.Post("/purchase-requests/:id/reject", purchases.Reject)
	appGroup.Post("/purchase-requests/:id/order", purchases.ConvertToOrder)
	appGroup.Post("/purchase-orders/:id/receipts", purchases.RegisterReceipt)
	appGroup.Post("/purchase-orders/:id/pdf", purchases.OrderPDF)

	// CRUD genérico por pantalla.
	appGroup.Get("/:resource", resources.List)
	appGroup.Get("/:resource/export", resources.Export)
	appGroup.Post("/:resource", resources.Create)
	appGroup.Patch("/:resource/:id", resources.Update)
	appGroup.Delete("/:resource/:id", resources.Delete)
}
