package controllers

import (
	"elles-app/controllers/helpers"
	"elles-app/models"
	"elles-app/services"

	"github.com/gofiber/fiber/v2"
)

type MovementController struct {
	Service *services.MovementService
}

func NewMovementController(service *services.MovementService) *MovementController {
	return &MovementController{Service: service}
}

func (c *MovementController) CreateMovement(ctx *fiber.Ctx) error {
	var req models.CreateMovementRequest
	if err := ctx.BodyParser(&req); err != nil {
		return helpers.Failure(ctx, fiber.StatusBadRequest, "Invalid request payload: "+err.Error())
	}
	return c.record(ctx, req)
}

func (c *MovementController) CreatePurchase(ctx *fiber.Ctx) error {
	var q models.QuickMovementQuery
	if err := ctx.QueryParser(&q); err != nil {
		return helpers.Failure(ctx, fiber.StatusBadRequest, "Invalid query parameters: "+err.Error())
	}
	q.DiscountPercent = 0
	return c.record(ctx, q.Movement(models.MovementPurchase))
}

func (c *MovementController) CreateSale(ctx *fiber.Ctx) error {
	var q models.QuickMovementQuery
	if err := ctx.QueryParser(&q); err != nil {
		return helpers.Failure(ctx, fiber.StatusBadRequest, "Invalid query parameters: "+err.Error())
	}
	return c.record(ctx, q.Movement(models.MovementSale))
}

func (c *MovementController) record(ctx *fiber.Ctx, req models.CreateMovementRequest) error {
	movement, err := c.Service.Record(ctx.UserContext(), req)
	if err != nil {
		return helpers.RespondError(ctx, err)
	}
	return helpers.Success(ctx, fiber.StatusCreated, "Movement recorded successfully", movement)
}

func (c *MovementController) GetAllMovements(ctx *fiber.Ctx) error {
	skip, limit, err := helpers.Pagination(ctx)
	if err != nil {
		return helpers.Failure(ctx, fiber.StatusBadRequest, err.Error())
	}

	movements, err := c.Service.List(ctx.UserContext(), skip, limit)
	if err != nil {
		return err
	}
	return helpers.Success(ctx, fiber.StatusOK, "Movements retrieved successfully", movements)
}

func (c *MovementController) GetMovementsByStock(ctx *fiber.Ctx) error {
	id, err := helpers.ParamID(ctx, "id")
	if err != nil {
		return helpers.Failure(ctx, fiber.StatusBadRequest, err.Error())
	}

	movements, err := c.Service.ListByStock(ctx.UserContext(), id)
	if err != nil {
		return helpers.RespondError(ctx, err)
	}
	return helpers.Success(ctx, fiber.StatusOK, "Movements retrieved successfully", movements)
}

func (c *MovementController) GetMovementsByType(ctx *fiber.Ctx) error {
	skip, limit, err := helpers.Pagination(ctx)
	if err != nil {
		return helpers.Failure(ctx, fiber.StatusBadRequest, err.Error())
	}

	movements, err := c.Service.ListByType(ctx.UserContext(), ctx.Params("type"), skip, limit)
	if err != nil {
		return helpers.RespondError(ctx, err)
	}
	return helpers.Success(ctx, fiber.StatusOK, "Movements retrieved successfully", movements)
}
