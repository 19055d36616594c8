package routes

import (
	"elles-app/controllers"
	"elles-app/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func SetupFinanceRoutes(router fiber.Router, db *gorm.DB, log *zap.Logger) {
	financeController := controllers.NewFinanceController(services.NewFinanceService(db, log))
	api := router.Group("/finance")

	api.Get("/sales", financeController.GetAllSales)
	api.Get("/sales/excel", financeController.ExportSalesExcel)
	api.Get("/sales/date-range", financeController.GetSalesByDateRange)
	api.Get("/sales/this-week", financeController.GetSalesThisWeek)
	api.Get("/sales/this-month", financeController.GetSalesThisMonth)
	api.Get("/revenue/total", financeController.GetTotalRevenue)
	api.Get("/revenue/monthly", financeController.GetMonthlyRevenue)
	api.Get("/discounts/average", financeController.GetAverageDiscount)
	api.Get("/best-sellers", financeController.GetBestSellers)
}
