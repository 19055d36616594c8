package routes

import (
	"elles-app/controllers"
	"elles-app/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func SetupReportRoutes(router fiber.Router, db *gorm.DB, log *zap.Logger) {
	reportController := controllers.NewReportController(services.NewReportService(db, nil, log))
	api := router.Group("/reports")

	api.Get("/dashboard", reportController.GetDashboard)
	api.Get("/stock/summary", reportController.GetStockSummary)
	api.Get("/finance/summary", reportController.GetFinancialSummary)
	api.Get("/stock/value-distribution", reportController.GetValueDistribution)
	api.Get("/stock/quantity-alerts", reportController.GetQuantityAlerts)
	api.Get("/sales/trend", reportController.GetSalesTrend)
	api.Get("/performance/metrics", reportController.GetPerformanceMetrics)
}
