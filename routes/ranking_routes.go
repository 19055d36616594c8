package routes

import (
	"elles-app/config"
	"elles-app/controllers"
	"elles-app/middleware"
	"elles-app/ranking"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

func SetupRankingRoutes(router fiber.Router, rankingController *controllers.RankingController) {
	router.Get("/", rankingController.Page)

	api := router.Group("/api/ranking")
	api.Get("/", rankingController.GetRanking)
	api.Get("/search", rankingController.SearchCountry)
	api.Get("/top150.csv", rankingController.DownloadCSV)
	api.Get("/top150.xlsx", rankingController.DownloadExcel)
}

// NewRankingApp builds the country ranking dashboard.
func NewRankingApp(cfg *config.Config, loader *ranking.Loader, log *zap.Logger) *fiber.App {
	if log == nil {
		log = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		AppName:      "Country Ranking Dashboard",
		ErrorHandler: middleware.ErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(middleware.RequestLogger(log))

	app.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{"status": "healthy", "service": "country-ranking-dashboard"})
	})

	SetupRankingRoutes(app, controllers.NewRankingController(loader, cfg.Ranking.TopExport, log))
	return app
}
