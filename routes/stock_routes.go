package routes

import (
	"elles-app/controllers"
	"elles-app/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func SetupStockRoutes(router fiber.Router, db *gorm.DB, log *zap.Logger) {
	stockController := controllers.NewStockController(services.NewStockService(db, log))
	api := router.Group("/stock")

	api.Post("/", stockController.CreateStock)
	api.Get("/", stockController.GetAllStock)
	api.Get("/excel", stockController.ExportExcel)
	api.Get("/low-stock", stockController.GetLowStock)
	api.Get("/reference/:reference", stockController.GetStockByReference)
	api.Get("/:id", stockController.GetStockByID)
	api.Put("/:id", stockController.UpdateStock)
	api.Delete("/:id", stockController.DeleteStock)
}
