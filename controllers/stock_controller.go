package controllers

import (
	"elles-app/controllers/helpers"
	"elles-app/models"
	"elles-app/services"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

type StockController struct {
	Service *services.StockService
}

func NewStockController(service *services.StockService) *StockController {
	return &StockController{Service: service}
}

func (c *StockController) CreateStock(ctx *fiber.Ctx) error {
	var req models.CreateStockRequest
	if err := ctx.BodyParser(&req); err != nil {
		return helpers.Failure(ctx, fiber.StatusBadRequest, "Invalid request payload: "+err.Error())
	}

	item, err := c.Service.Create(ctx.UserContext(), req)
	if err != nil {
		return helpers.RespondError(ctx, err)
	}
	return helpers.Success(ctx, fiber.StatusCreated, "Stock item created successfully", item)
}

func (c *StockController) GetAllStock(ctx *fiber.Ctx) error {
	skip, limit, err := helpers.Pagination(ctx)
	if err != nil {
		return helpers.Failure(ctx, fiber.StatusBadRequest, err.Error())
	}

	items, err := c.Service.List(ctx.UserContext(), skip, limit)
	if err != nil {
		return err
	}
	return helpers.Success(ctx, fiber.StatusOK, "Stock items retrieved successfully", items)
}

func (c *StockController) GetLowStock(ctx *fiber.Ctx) error {
	threshold, err := helpers.QueryInt(ctx, "threshold", services.DefaultLowStockThreshold, 1, 1<<31-1)
	if err != nil {
		return helpers.Failure(ctx, fiber.StatusBadRequest, err.Error())
	}

	items, err := c.Service.LowStock(ctx.UserContext(), threshold)
	if err != nil {
		return helpers.RespondError(ctx, err)
	}
	return helpers.Success(ctx, fiber.StatusOK, "Low stock items retrieved successfully", items)
}

func (c *StockController) GetStockByReference(ctx *fiber.Ctx) error {
	item, err := c.Service.GetByReference(ctx.UserContext(), ctx.Params("reference"))
	if err != nil {
		return helpers.RespondError(ctx, err)
	}
	return helpers.Success(ctx, fiber.StatusOK, "Stock item retrieved successfully", item)
}

func (c *StockController) GetStockByID(ctx *fiber.Ctx) error {
	id, err := helpers.ParamID(ctx, "id")
	if err != nil {
		return helpers.Failure(ctx, fiber.StatusBadRequest, err.Error())
	}

	item, err := c.Service.Get(ctx.UserContext(), id)
	if err != nil {
		return helpers.RespondError(ctx, err)
	}
	return helpers.Success(ctx, fiber.StatusOK, "Stock item retrieved successfully", item)
}

func (c *StockController) UpdateStock(ctx *fiber.Ctx) error {
	id, err := helpers.ParamID(ctx, "id")
	if err != nil {
		return helpers.Failure(ctx, fiber.StatusBadRequest, err.Error())
	}

	var req models.UpdateStockRequest
	if err := ctx.BodyParser(&req); err != nil {
		return helpers.Failure(ctx, fiber.StatusBadRequest, "Invalid request payload: "+err.Error())
	}

	item, err := c.Service.Update(ctx.UserContext(), id, req)
	if err != nil {
		return helpers.RespondError(ctx, err)
	}
	return helpers.Success(ctx, fiber.StatusOK, "Stock item updated successfully", item)
}

func (c *StockController) DeleteStock(ctx *fiber.Ctx) error {
	id, err := helpers.ParamID(ctx, "id")
	if err != nil {
		return helpers.Failure(ctx, fiber.StatusBadRequest, err.Error())
	}

	if err := c.Service.Delete(ctx.UserContext(), id); err != nil {
		return helpers.RespondError(ctx, err)
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

func (c *StockController) ExportExcel(ctx *fiber.Ctx) error {
	items, err := c.Service.ListAll(ctx.UserContext())
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Sheet1"

	headers := []string{"ID", "Reference", "Name", "Quantity", "Unit Price", "Total Value", "Updated At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for i, item := range items {
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), item.ID)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), item.Reference)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), item.Name)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), item.Quantity)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), item.UnitPrice.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), item.TotalValue.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), item.UpdatedAt.Format("2006-01-02 15:04:05"))
	}

	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set("Content-Disposition", `attachment; filename="stock.xlsx"`)

	if err := f.Write(ctx.Response().BodyWriter()); err != nil {
		return helpers.Failure(ctx, fiber.StatusInternalServerError, "Failed to generate Excel file")
	}
	return nil
}
