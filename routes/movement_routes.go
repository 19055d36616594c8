package routes

import (
	"elles-app/controllers"
	"elles-app/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func SetupMovementRoutes(router fiber.Router, db *gorm.DB, log *zap.Logger) {
	movementController := controllers.NewMovementController(services.NewMovementService(db, log))
	api := router.Group("/movements")

	api.Post("/", movementController.CreateMovement)
	api.Get("/", movementController.GetAllMovements)
	api.Post("/purchase", movementController.CreatePurchase)
	api.Post("/sale", movementController.CreateSale)
	api.Get("/stock/:id", movementController.GetMovementsByStock)
	api.Get("/type/:type", movementController.GetMovementsByType)
}
