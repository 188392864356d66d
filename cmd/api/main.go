package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/invorya/erp-admin-gateway/internal/application/analytics"
	"github.com/invorya/erp-admin-gateway/internal/application/auth"
	"github.com/invorya/erp-admin-gateway/internal/application/controller"
	"github.com/invorya/erp-admin-gateway/internal/application/purchasing"
	"github.com/invorya/erp-admin-gateway/internal/erp"
	"github.com/invorya/erp-admin-gateway/internal/infrastructure/pdf"
	"github.com/invorya/erp-admin-gateway/internal/infrastructure/postgres"
	httpRouter "github.com/invorya/erp-admin-gateway/internal/interfaces/http"
	"github.com/invorya/erp-admin-gateway/internal/session"
	"github.com/invorya/erp-admin-gateway/pkg/config"
	"github.com/invorya/erp-admin-gateway/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("erp", cfg.ERP.BaseURL).
		Msg("iniciando pasarela")

	ctx := context.Background()

	// Almacén de sesiones: memoria por defecto; PostgreSQL para despliegues
	// con más de una instancia detrás de un balanceador.
	var (
		sessions session.Store
		sweep    func(context.Context) []string
	)
	switch cfg.Session.Store {
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()

		store, err := postgres.NewSessionStore(ctx, pool, log)
		if err != nil {
			log.Fatal().Err(err).Msg("inicializar almacén de sesiones")
		}
		sessions = store
		sweep = store.Sweep
	default:
		store := session.NewMemoryStore()
		sessions = store
		sweep = store.Sweep
	}

	api := erp.NewClient(cfg.ERP, log)
	authUC := auth.NewUseCase(api, sessions, cfg.Session.TTLMinutes, log)
	views := controller.NewManager(api, log)

	// Barrido periódico: purga sesiones vencidas y descarta su estado de
	// vista, que de otro modo quedaría huérfano hasta un logout explícito.
	go func() {
		t := time.NewTicker(15 * time.Minute)
		defer t.Stop()
		for range t.C {
			for _, sid := range sweep(context.Background()) {
				views.DropSession(sid)
			}
		}
	}()
	approvalsUC := purchasing.NewApprovalUseCase(api, log)
	receivingUC := purchasing.NewReceivingUseCase(api, log)
	dashboardUC := analytics.NewDashboardUseCase(api, log)
	pdfGenerator := pdf.NewOrderPDFGenerator()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "ERP Admin Gateway",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Auth:      authUC,
		Views:     views,
		Approvals: approvalsUC,
		Receiving: receivingUC,
		Dashboard: dashboardUC,
		PDF:       pdfGenerator,
		Guard: httpRouter.GuardDeps{
			Auth:         authUC,
			CookieName:   cfg.Session.CookieName,
			CookieSecret: cfg.Session.Secret,
			SignInPath:   "/login",
			DefaultPath:  "/app/dashboard",
		},
		TTL: cfg.Session.TTLMinutes,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("pasarela detenida")
}
