package routes

import (
	"elles-app/config"
	"elles-app/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	AppName    = "ELLES 224 - Stock Management API"
	AppVersion = "1.0.0"
)

// NewApp builds the stock API with every route mounted under the configured
// prefix.
func NewApp(cfg *config.Config, db *gorm.DB, log *zap.Logger) *fiber.App {
	if log == nil {
		log = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		AppName:      AppName,
		ErrorHandler: middleware.ErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(middleware.RequestLogger(log))
	config.SetupCORS(app, cfg.Server.AllowedOrigins)

	app.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{"message": AppName, "version": AppVersion})
	})
	app.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{"status": "healthy", "service": "stock-management-api"})
	})

	var api fiber.Router
	if cfg.Auth.Enabled {
		api = app.Group(cfg.Server.MainRoutes, middleware.AuthMiddleware(cfg.Auth.JWTSecret))
	} else {
		api = app.Group(cfg.Server.MainRoutes)
	}

	SetupStockRoutes(api, db, log)
	SetupMovementRoutes(api, db, log)
	SetupFinanceRoutes(api, db, log)
	SetupReportRoutes(api, db, log)

	return app
}
