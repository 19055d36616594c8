package controllers

import (
	"elles-app/controllers/helpers"
	"elles-app/services"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

type FinanceController struct {
	Service *services.FinanceService
}

func NewFinanceController(service *services.FinanceService) *FinanceController {
	return &FinanceController{Service: service}
}

func (c *FinanceController) GetAllSales(ctx *fiber.Ctx) error {
	skip, limit, err := helpers.Pagination(ctx)
	if err != nil {
		return helpers.Failure(ctx, fiber.StatusBadRequest, err.Error())
	}

	sales, err := c.Service.ListSales(ctx.UserContext(), skip, limit)
	if err != nil {
		return err
	}
	return helpers.Success(ctx, fiber.StatusOK, "Sales retrieved successfully", sales)
}

func (c *FinanceController) GetSalesByDateRange(ctx *fiber.Ctx) error {
	start, end := ctx.Query("start_date"), ctx.Query("end_date")
	if start == "" || end == "" {
		return helpers.Failure(ctx, fiber.StatusBadRequest, "start_date and end_date are required (YYYY-MM-DD)")
	}

	sales, err := c.Service.SalesInRange(ctx.UserContext(), start, end)
	if err != nil {
		return helpers.RespondError(ctx, err)
	}
	return helpers.Success(ctx, fiber.StatusOK, "Sales retrieved successfully", sales)
}

func (c *FinanceController) GetSalesThisWeek(ctx *fiber.Ctx) error {
	sales, err := c.Service.SalesThisWeek(ctx.UserContext())
	if err != nil {
		return err
	}
	return helpers.Success(ctx, fiber.StatusOK, "Sales retrieved successfully", sales)
}

func (c *FinanceController) GetSalesThisMonth(ctx *fiber.Ctx) error {
	sales, err := c.Service.SalesThisMonth(ctx.UserContext())
	if err != nil {
		return err
	}
	return helpers.Success(ctx, fiber.StatusOK, "Sales retrieved successfully", sales)
}

func (c *FinanceController) GetTotalRevenue(ctx *fiber.Ctx) error {
	total, err := c.Service.TotalRevenue(ctx.UserContext())
	if err != nil {
		return err
	}
	return helpers.Success(ctx, fiber.StatusOK, "Total revenue retrieved successfully", fiber.Map{"total_revenue": total})
}

func (c *FinanceController) GetMonthlyRevenue(ctx *fiber.Ctx) error {
	year, err := strconv.Atoi(ctx.Query("year"))
	if err != nil {
		return helpers.Failure(ctx, fiber.StatusBadRequest, "year is required and must be an integer")
	}

	report, err := c.Service.MonthlyRevenue(ctx.UserContext(), year)
	if err != nil {
		return helpers.RespondError(ctx, err)
	}
	return helpers.Success(ctx, fiber.StatusOK, "Monthly revenue retrieved successfully", report)
}

func (c *FinanceController) GetAverageDiscount(ctx *fiber.Ctx) error {
	avg, err := c.Service.AverageDiscount(ctx.UserContext())
	if err != nil {
		return err
	}
	return helpers.Success(ctx, fiber.StatusOK, "Average discount retrieved successfully", fiber.Map{"average_discount_percent": avg})
}

func (c *FinanceController) GetBestSellers(ctx *fiber.Ctx) error {
	limit, err := helpers.QueryInt(ctx, "limit", 10, 1, 50)
	if err != nil {
		return helpers.Failure(ctx, fiber.StatusBadRequest, err.Error())
	}

	sellers, err := c.Service.BestSellers(ctx.UserContext(), limit)
	if err != nil {
		return helpers.RespondError(ctx, err)
	}
	return helpers.Success(ctx, fiber.StatusOK, "Best sellers retrieved successfully", sellers)
}

func (c *FinanceController) ExportSalesExcel(ctx *fiber.Ctx) error {
	sales, err := c.Service.ListSales(ctx.UserContext(), 0, helpers.MaxLimit)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Sheet1"

	headers := []string{"Sale ID", "Date", "Reference", "Item", "Quantity", "Unit Price", "Discount %", "Price After Discount", "Revenue"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for i, sale := range sales {
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), sale.ID.String())
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), sale.Date.Format("2006-01-02 15:04:05"))
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), sale.ItemReference)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), sale.ItemName)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), sale.QuantitySold)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), sale.UnitPrice.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), sale.DiscountPercent.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), sale.PriceAfterDiscount.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("I%d", row), sale.TotalRevenue.InexactFloat64())
	}

	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set("Content-Disposition", `attachment; filename="sales.xlsx"`)

	if err := f.Write(ctx.Response().BodyWriter()); err != nil {
		return helpers.Failure(ctx, fiber.StatusInternalServerError, "Failed to generate Excel file")
	}
	return nil
}
